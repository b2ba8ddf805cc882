// Package format renders monetary amounts for display.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/loan-calculator/pkg/constants"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders amounts with the digit grouping of a locale, prefixed by
// that locale's symbol for the currency (e.g., "$1,234.56" for es-MX and MXN).
type Formatter struct {
	printer *message.Printer
	symbol  string
	tag     language.Tag
}

// NewFormatter builds a Formatter for a BCP 47 locale and an ISO 4217 code.
// Empty values fall back to the application defaults.
func NewFormatter(locale, code string) (*Formatter, error) {
	if locale == "" {
		locale = constants.DefaultLocale
	}
	if code == "" {
		code = constants.DefaultCurrency
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("invalid currency %q: %w", code, err)
	}

	printer := message.NewPrinter(tag)
	symbol := printer.Sprint(currency.Symbol(unit))
	// Locales without a symbol for the currency get the ISO code.
	if symbol == "" || symbol == unit.String() {
		symbol = unit.String() + " "
	}

	return &Formatter{printer: printer, symbol: symbol, tag: tag}, nil
}

// Currency returns the amount with the currency symbol and two decimals. The
// sign goes before the symbol.
func (f *Formatter) Currency(amount float64) string {
	number := f.Number(amount)
	if digits, negative := strings.CutPrefix(number, "-"); negative {
		return "-" + f.symbol + digits
	}
	return f.symbol + number
}

// Number returns the amount with two decimals and locale digit grouping,
// without a currency symbol.
func (f *Formatter) Number(amount float64) string {
	// Avoid rendering "-0.00" for residues that round away.
	if math.Abs(amount) < 0.005 {
		amount = 0
	}
	return f.printer.Sprintf("%.2f", amount)
}

// Symbol returns the currency symbol used for the formatter's locale.
func (f *Formatter) Symbol() string {
	return f.symbol
}
