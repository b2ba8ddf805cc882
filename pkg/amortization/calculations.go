// Package amortization computes payments, principals and amortization
// schedules for fixed-rate installment loans.
//
// Every function is pure: inputs are trusted to satisfy their preconditions
// (positive amounts, non-negative rate, at least one period) and nothing is
// validated or logged here. Results outside those bounds are undefined.
package amortization

import "math"

// LoanTerms describes a loan whose periodic payment is derived from its
// principal.
type LoanTerms struct {
	Principal    float64
	Periods      int
	PeriodicRate float64
}

// Payment returns the level payment that repays the loan.
func (t LoanTerms) Payment() float64 {
	return ComputePayment(t.PeriodicRate, t.Periods, t.Principal)
}

// Schedule returns the amortization schedule of the loan at its level payment.
func (t LoanTerms) Schedule() []PeriodRow {
	return BuildSchedule(t.Principal, t.Periods, t.Payment(), t.PeriodicRate)
}

// Summary holds the totals of a loan repaid at a level payment.
type Summary struct {
	Payment       float64
	TotalPaid     float64
	TotalInterest float64
}

// ComputePayment calculates the level periodic payment that repays principal
// over the given number of periods using the standard annuity formula.
func ComputePayment(rate float64, periods int, principal float64) float64 {
	if rate == 0 {
		// Straight-line repayment
		return principal / float64(periods)
	}
	return (rate * principal) / (1 - discountFactor(rate, periods))
}

// ComputePrincipal is the inverse of ComputePayment: the present value of a
// level annuity paying payment for the given number of periods.
func ComputePrincipal(payment, rate float64, periods int) float64 {
	if rate == 0 {
		return payment * float64(periods)
	}
	return payment * (1 - discountFactor(rate, periods)) / rate
}

// Totals summarises a loan repaid at payment for the given number of periods.
func Totals(payment float64, periods int, principal float64) Summary {
	totalPaid := payment * float64(periods)
	return Summary{
		Payment:       payment,
		TotalPaid:     totalPaid,
		TotalInterest: totalPaid - principal,
	}
}

// discountFactor returns (1 + rate)^(-periods).
func discountFactor(rate float64, periods int) float64 {
	return math.Pow(1+rate, -float64(periods))
}
