// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/loan-calculator/pkg/constants"
)

var outputFormats = []string{
	constants.OutputFormatPretty,
	constants.OutputFormatCSV,
	constants.OutputFormatJSON,
	constants.OutputFormatYAML,
}

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	for _, supported := range outputFormats {
		if format == supported {
			return nil
		}
	}
	return fmt.Errorf("expected output format of %s, %s, %s or %s, got %s",
		constants.OutputFormatPretty, constants.OutputFormatCSV,
		constants.OutputFormatJSON, constants.OutputFormatYAML, format)
}

// ValidateRounding checks if the rounding mode is supported.
func ValidateRounding(mode string) error {
	if mode != constants.RoundingNone && mode != constants.RoundingCents {
		return fmt.Errorf("expected rounding of %s or %s, got %s",
			constants.RoundingNone, constants.RoundingCents, mode)
	}
	return nil
}
