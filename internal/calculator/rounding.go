package calculator

import (
	"github.com/iwvelando/loan-calculator/pkg/amortization"
	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/mathutil"
)

func cents(val float64) float64 {
	return mathutil.RoundToMinorUnit(val, constants.MinorUnitPlaces)
}

// amountResultInCents computes an amount-mode result in the currency minor
// unit. The schedule runs on the rounded payment with a balance kept in cents,
// so its rows chain and its principal portions add up to the principal.
func amountResultInCents(terms amortization.LoanTerms) AmountResult {
	principal := cents(terms.Principal)
	payment := cents(terms.Payment())
	totalPaid := cents(payment * float64(terms.Periods))

	return AmountResult{
		Principal:     principal,
		Periods:       terms.Periods,
		Rate:          terms.PeriodicRate,
		Payment:       payment,
		TotalPaid:     totalPaid,
		TotalInterest: cents(totalPaid - principal),
		Schedule:      amortization.BuildRoundedSchedule(principal, terms.Periods, payment, terms.PeriodicRate, cents),
	}
}

// roundPaymentResult rounds term summaries to the currency minor unit,
// keeping total interest equal to total paid minus principal.
func roundPaymentResult(result PaymentResult) PaymentResult {
	terms := make([]amortization.TermSummary, len(result.Terms))
	for i, summary := range result.Terms {
		summary.Principal = cents(summary.Principal)
		summary.TotalPaid = cents(summary.TotalPaid)
		summary.TotalInterest = cents(summary.TotalPaid - summary.Principal)
		terms[i] = summary
	}
	result.Terms = terms
	return result
}
