package validation

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/loan-calculator/pkg/constants"
)

// Sentinel errors returned for rejected calculation inputs. Callers match
// them with errors.Is and show the wrapped message to the user.
var (
	ErrInvalidPrincipal = errors.New("invalid principal")
	ErrInvalidPeriods   = errors.New("invalid number of periods")
	ErrInvalidPayment   = errors.New("invalid payment")
	ErrInvalidRate      = errors.New("invalid periodic rate")
	ErrInvalidTerms     = errors.New("invalid term list")
)

// ValidateAmountRequest checks the inputs of a payment calculation: a
// positive, finite principal and a positive number of periods.
func ValidateAmountRequest(principal float64, periods int) error {
	if !isPositiveFinite(principal) {
		return fmt.Errorf("%w: principal must be a number greater than zero, got %v", ErrInvalidPrincipal, principal)
	}
	return ValidatePeriods(periods)
}

// ValidatePaymentRequest checks the input of a principal calculation.
func ValidatePaymentRequest(payment float64) error {
	if !isPositiveFinite(payment) {
		return fmt.Errorf("%w: payment must be a number greater than zero, got %v", ErrInvalidPayment, payment)
	}
	return nil
}

// ValidatePeriods checks a single term length.
func ValidatePeriods(periods int) error {
	if periods <= 0 {
		return fmt.Errorf("%w: periods must be greater than zero, got %d", ErrInvalidPeriods, periods)
	}
	if periods > constants.MaxPeriods {
		return fmt.Errorf("%w: periods must not exceed %d, got %d", ErrInvalidPeriods, constants.MaxPeriods, periods)
	}
	return nil
}

// ValidateRate checks the periodic rate supplied by configuration.
func ValidateRate(rate float64) error {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
		return fmt.Errorf("%w: rate must be a non-negative number, got %v", ErrInvalidRate, rate)
	}
	return nil
}

// ValidateTerms checks the candidate term lengths used for term comparisons.
func ValidateTerms(terms []int) error {
	if len(terms) == 0 {
		return fmt.Errorf("%w: at least one term is required", ErrInvalidTerms)
	}
	for i, term := range terms {
		if err := ValidatePeriods(term); err != nil {
			return fmt.Errorf("%w: term %d: %v", ErrInvalidTerms, i, err)
		}
	}
	return nil
}

// TermWarnings reports duplicated or out-of-order terms. Both are allowed
// since comparisons keep the caller's order, but they are usually typos.
func TermWarnings(terms []int) []string {
	var warnings []string

	seen := make(map[int]bool, len(terms))
	for i, term := range terms {
		if seen[term] {
			warnings = append(warnings, fmt.Sprintf("Term %d months is listed more than once", term))
		}
		seen[term] = true

		if i > 0 && term < terms[i-1] {
			warnings = append(warnings, fmt.Sprintf("Term %d months is listed after %d months", term, terms[i-1]))
		}
	}

	return warnings
}

// RateWarnings reports a periodic rate that looks like an annual figure.
func RateWarnings(rate float64) []string {
	if rate > constants.HighPeriodicRateThreshold {
		return []string{fmt.Sprintf("Periodic rate %.4f is above %.2f; rates are monthly fractions, not annual percentages",
			rate, constants.HighPeriodicRateThreshold)}
	}
	return nil
}

func isPositiveFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0) && val > 0
}
