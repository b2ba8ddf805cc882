// Package testutil provides common utility functions for testing.
package testutil

import "github.com/iwvelando/loan-calculator/pkg/amortization"

// FindTerm finds the summary for a term length in a comparison.
// Returns a pointer to the summary if found, nil otherwise.
func FindTerm(terms []amortization.TermSummary, periods int) *amortization.TermSummary {
	for i := range terms {
		if terms[i].Periods == periods {
			return &terms[i]
		}
	}
	return nil
}

// SumPrincipal adds up the principal portions of a schedule.
func SumPrincipal(rows []amortization.PeriodRow) float64 {
	var sum float64
	for _, row := range rows {
		sum += row.PrincipalPortion
	}
	return sum
}
