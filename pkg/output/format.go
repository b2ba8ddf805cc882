// Package output provides utilities for formatting and displaying calculation results.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/loan-calculator/internal/calculator"
	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/format"
	"gopkg.in/yaml.v3"
)

// Write renders result to w in the given output format.
func Write(w io.Writer, outputFormat string, result calculator.Result, f *format.Formatter) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		return PrettyFormat(w, result, f)
	case constants.OutputFormatCSV:
		return CsvFormat(w, result)
	case constants.OutputFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case constants.OutputFormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported output format %q", outputFormat)
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, result calculator.Result, f *format.Formatter) error {
	switch {
	case result.ByAmount != nil:
		return prettyAmount(w, *result.ByAmount, f)
	case result.ByPayment != nil:
		return prettyPayment(w, *result.ByPayment, f)
	}
	return fmt.Errorf("empty result")
}

func prettyAmount(w io.Writer, res calculator.AmountResult, f *format.Formatter) error {
	ew := &errWriter{w: w}
	ew.printf("--- Loan of %s over %d periods at %.6f%% per period ---\n",
		f.Currency(res.Principal), res.Periods, res.Rate*constants.PercentageMultiplier)
	ew.printf("Payment        | %s\n", f.Currency(res.Payment))
	ew.printf("Total paid     | %s\n", f.Currency(res.TotalPaid))
	ew.printf("Total interest | %s\n\n", f.Currency(res.TotalInterest))
	ew.printf("Period | Payment | Balance | Principal | Interest\n")
	ew.printf("______ | _______ | _______ | _________ | ________\n")
	for _, row := range res.Schedule {
		ew.printf("%d | %s | %s | %s | %s\n", row.Index,
			f.Currency(row.Payment), f.Currency(row.RemainingBalance),
			f.Currency(row.PrincipalPortion), f.Currency(row.InterestPortion))
	}
	return ew.err
}

func prettyPayment(w io.Writer, res calculator.PaymentResult, f *format.Formatter) error {
	ew := &errWriter{w: w}
	ew.printf("--- Payment of %s at %.6f%% per period ---\n",
		f.Currency(res.Payment), res.Rate*constants.PercentageMultiplier)
	ew.printf("Periods | Principal | Total paid | Total interest\n")
	ew.printf("_______ | _________ | __________ | ______________\n")
	for _, summary := range res.Terms {
		ew.printf("%d | %s | %s | %s\n", summary.Periods,
			f.Currency(summary.Principal), f.Currency(summary.TotalPaid), f.Currency(summary.TotalInterest))
	}
	return ew.err
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(w io.Writer, result calculator.Result) error {
	cw := csv.NewWriter(w)
	switch {
	case result.ByAmount != nil:
		_ = cw.Write([]string{"period", "payment", "remaining balance", "principal", "interest"})
		for _, row := range result.ByAmount.Schedule {
			_ = cw.Write([]string{
				strconv.Itoa(row.Index),
				amount(row.Payment),
				amount(row.RemainingBalance),
				amount(row.PrincipalPortion),
				amount(row.InterestPortion),
			})
		}
	case result.ByPayment != nil:
		_ = cw.Write([]string{"periods", "principal", "total paid", "total interest"})
		for _, summary := range result.ByPayment.Terms {
			_ = cw.Write([]string{
				strconv.Itoa(summary.Periods),
				amount(summary.Principal),
				amount(summary.TotalPaid),
				amount(summary.TotalInterest),
			})
		}
	default:
		return fmt.Errorf("empty result")
	}
	cw.Flush()
	return cw.Error()
}

// CsvString returns the CSV rendering of result, or an empty string if it
// cannot be rendered.
func CsvString(result calculator.Result) string {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, result); err != nil {
		return ""
	}
	return buf.String()
}

func amount(val float64) string {
	return strconv.FormatFloat(val, 'f', 2, 64)
}

// errWriter keeps the first write error so table rendering reads linearly.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(layout string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, layout, args...)
}
