package amortization

// PeriodRow is one line of an amortization schedule.
type PeriodRow struct {
	Index            int     `json:"period" yaml:"period"`
	Payment          float64 `json:"payment" yaml:"payment"`
	RemainingBalance float64 `json:"remainingBalance" yaml:"remainingBalance"`
	PrincipalPortion float64 `json:"principal" yaml:"principal"`
	InterestPortion  float64 `json:"interest" yaml:"interest"`
}

// BuildSchedule produces one row per period, from 1 to periods, for a loan of
// principal repaid at payment. The last row always closes the loan with a
// remaining balance of exactly zero.
func BuildSchedule(principal float64, periods int, payment, rate float64) []PeriodRow {
	return buildSchedule(principal, periods, payment, rate, func(v float64) float64 { return v })
}

// BuildRoundedSchedule is BuildSchedule with every amount, the running
// balance included, passed through round (usually to the currency minor
// unit). Each row's balance is the previous balance less that row's principal
// portion, and the principal portions add up to round(principal).
func BuildRoundedSchedule(principal float64, periods int, payment, rate float64, round func(float64) float64) []PeriodRow {
	return buildSchedule(principal, periods, payment, rate, round)
}

func buildSchedule(principal float64, periods int, payment, rate float64, round func(float64) float64) []PeriodRow {
	if periods < 1 {
		return nil
	}

	schedule := make([]PeriodRow, 0, periods)
	balance := round(principal)
	payment = round(payment)

	for period := 1; period <= periods; period++ {
		interest := round(balance * rate)
		principalPortion := round(payment - interest)
		balance = round(balance - principalPortion)

		row := PeriodRow{
			Index:            period,
			Payment:          payment,
			PrincipalPortion: principalPortion,
			InterestPortion:  interest,
		}

		if period == periods {
			row = redistributeResidual(row, balance)
			row.PrincipalPortion = round(row.PrincipalPortion)
			row.Payment = round(row.Payment)
		} else {
			// Rounding can push the balance a hair below zero before the
			// final period.
			row.RemainingBalance = max(balance, 0)
		}

		schedule = append(schedule, row)
	}

	return schedule
}

// redistributeResidual closes the final row of a schedule. Whatever balance
// remains after the final period, positive or negative, is folded into that
// period's principal portion and payment so the loan ends at exactly zero and
// principal plus interest still equals the payment.
func redistributeResidual(row PeriodRow, residual float64) PeriodRow {
	row.PrincipalPortion += residual
	row.Payment += residual
	row.RemainingBalance = 0
	return row
}

// TermSummary describes the loan a fixed payment supports over one term.
type TermSummary struct {
	Periods       int     `json:"periods" yaml:"periods"`
	Principal     float64 `json:"principal" yaml:"principal"`
	TotalPaid     float64 `json:"totalPaid" yaml:"totalPaid"`
	TotalInterest float64 `json:"totalInterest" yaml:"totalInterest"`
}

// BuildTermComparison evaluates payment at rate over each candidate term, in
// the order given. Terms are neither sorted nor deduplicated.
func BuildTermComparison(payment, rate float64, terms []int) []TermSummary {
	summaries := make([]TermSummary, 0, len(terms))
	for _, periods := range terms {
		principal := ComputePrincipal(payment, rate, periods)
		totalPaid := payment * float64(periods)
		summaries = append(summaries, TermSummary{
			Periods:       periods,
			Principal:     principal,
			TotalPaid:     totalPaid,
			TotalInterest: totalPaid - principal,
		})
	}
	return summaries
}
