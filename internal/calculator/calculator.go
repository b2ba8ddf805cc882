// Package calculator validates calculation requests, runs them through the
// amortization engine and shapes the results for presentation.
package calculator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iwvelando/loan-calculator/internal/cache"
	"github.com/iwvelando/loan-calculator/internal/config"
	"github.com/iwvelando/loan-calculator/pkg/amortization"
	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/mathutil"
	"github.com/iwvelando/loan-calculator/pkg/validation"
	"go.uber.org/zap"
)

// Mode selects which value of a loan is derived.
type Mode string

const (
	// ModeAmount derives the payment from a principal and a term.
	ModeAmount Mode = "amount"
	// ModePayment derives the principal a payment supports over each candidate term.
	ModePayment Mode = "payment"
)

// ErrUnknownMode is returned for a request whose mode is neither amount nor payment.
var ErrUnknownMode = errors.New("unknown calculation mode")

// ParseMode converts a string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeAmount, ModePayment:
		return Mode(s), nil
	}
	return "", fmt.Errorf("%w: %q (expected %s or %s)", ErrUnknownMode, s, ModeAmount, ModePayment)
}

// Request is a calculation request from an input provider. Principal and
// Periods are read in amount mode; Payment and the optional Terms override
// in payment mode.
type Request struct {
	Mode      Mode    `json:"mode"`
	Principal float64 `json:"principal,omitempty"`
	Periods   int     `json:"periods,omitempty"`
	Payment   float64 `json:"payment,omitempty"`
	Terms     []int   `json:"terms,omitempty"`
}

// AmountResult is the outcome of an amount-mode calculation.
type AmountResult struct {
	Principal     float64                  `json:"principal" yaml:"principal"`
	Periods       int                      `json:"periods" yaml:"periods"`
	Rate          float64                  `json:"rate" yaml:"rate"`
	Payment       float64                  `json:"payment" yaml:"payment"`
	TotalPaid     float64                  `json:"totalPaid" yaml:"totalPaid"`
	TotalInterest float64                  `json:"totalInterest" yaml:"totalInterest"`
	Schedule      []amortization.PeriodRow `json:"schedule" yaml:"schedule"`
}

// PaymentResult is the outcome of a payment-mode calculation.
type PaymentResult struct {
	Payment float64                    `json:"payment" yaml:"payment"`
	Rate    float64                    `json:"rate" yaml:"rate"`
	Terms   []amortization.TermSummary `json:"terms" yaml:"terms"`
}

// Result holds the outcome of either mode; exactly one field is set.
type Result struct {
	Mode      Mode           `json:"mode" yaml:"mode"`
	ByAmount  *AmountResult  `json:"amount,omitempty" yaml:"amount,omitempty"`
	ByPayment *PaymentResult `json:"payment,omitempty" yaml:"payment,omitempty"`
}

// Calculator runs calculations at a fixed rate and term set. It holds no
// per-request state and is safe for concurrent use when its cache is.
type Calculator struct {
	logger   *zap.Logger
	rate     float64
	terms    []int
	rounding string
	cache    cache.Cache
}

// New creates a Calculator from a validated configuration. store may be nil
// to disable caching.
func New(logger *zap.Logger, conf config.Configuration, store cache.Cache) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	rounding := conf.Rounding
	if rounding == "" {
		rounding = constants.RoundingNone
	}
	return &Calculator{
		logger:   logger,
		rate:     conf.Rate,
		terms:    append([]int(nil), conf.Terms...),
		rounding: rounding,
		cache:    store,
	}
}

// Rate returns the periodic rate applied to every calculation.
func (c *Calculator) Rate() float64 {
	return c.rate
}

// Terms returns a copy of the configured candidate terms.
func (c *Calculator) Terms() []int {
	return append([]int(nil), c.terms...)
}

// Calculate dispatches req on its mode.
func (c *Calculator) Calculate(ctx context.Context, req Request) (Result, error) {
	mode, err := ParseMode(string(req.Mode))
	if err != nil {
		return Result{}, err
	}

	if mode == ModeAmount {
		res, err := c.CalculateByAmount(ctx, req.Principal, req.Periods)
		if err != nil {
			return Result{}, err
		}
		return Result{Mode: ModeAmount, ByAmount: &res}, nil
	}

	res, err := c.CalculateByPayment(ctx, req.Payment, req.Terms)
	if err != nil {
		return Result{}, err
	}
	return Result{Mode: ModePayment, ByPayment: &res}, nil
}

// CalculateByAmount derives the payment, totals and amortization schedule of
// a loan of principal over periods.
func (c *Calculator) CalculateByAmount(ctx context.Context, principal float64, periods int) (AmountResult, error) {
	if err := validation.ValidateAmountRequest(principal, periods); err != nil {
		c.logger.Debug("rejected amount request",
			zap.String("op", "calculator.CalculateByAmount"),
			zap.Error(err),
		)
		return AmountResult{}, err
	}

	key := cache.Key(string(ModeAmount)+"/"+c.rounding, principal, float64(periods), c.rate)
	var result AmountResult
	if c.lookup(ctx, key, &result) {
		return result, nil
	}

	terms := amortization.LoanTerms{Principal: principal, Periods: periods, PeriodicRate: c.rate}
	if c.rounding == constants.RoundingCents {
		result = amountResultInCents(terms)
	} else {
		totals := amortization.Totals(terms.Payment(), periods, principal)
		result = AmountResult{
			Principal:     principal,
			Periods:       periods,
			Rate:          c.rate,
			Payment:       totals.Payment,
			TotalPaid:     totals.TotalPaid,
			TotalInterest: totals.TotalInterest,
			Schedule:      terms.Schedule(),
		}
	}

	if last := result.Schedule[len(result.Schedule)-1]; !mathutil.IsZero(last.Payment - result.Payment) {
		c.logger.Debug("final payment adjusted by residual",
			zap.String("op", "calculator.CalculateByAmount"),
			zap.Float64("payment", result.Payment),
			zap.Float64("finalPayment", last.Payment),
		)
	}

	c.logger.Debug("computed payment",
		zap.String("op", "calculator.CalculateByAmount"),
		zap.Float64("principal", principal),
		zap.Int("periods", periods),
		zap.Float64("payment", result.Payment),
	)

	c.store(ctx, key, result)
	return result, nil
}

// CalculateByPayment derives the principal supported by payment over each
// term. A nil terms uses the configured candidate terms.
func (c *Calculator) CalculateByPayment(ctx context.Context, payment float64, terms []int) (PaymentResult, error) {
	if err := validation.ValidatePaymentRequest(payment); err != nil {
		c.logger.Debug("rejected payment request",
			zap.String("op", "calculator.CalculateByPayment"),
			zap.Error(err),
		)
		return PaymentResult{}, err
	}
	if terms == nil {
		terms = c.terms
	} else if err := validation.ValidateTerms(terms); err != nil {
		return PaymentResult{}, err
	}

	key := cache.KeyWithTerms(string(ModePayment)+"/"+c.rounding, terms, payment, c.rate)
	var result PaymentResult
	if c.lookup(ctx, key, &result) {
		return result, nil
	}

	result = PaymentResult{
		Payment: payment,
		Rate:    c.rate,
		Terms:   amortization.BuildTermComparison(payment, c.rate, terms),
	}
	if c.rounding == constants.RoundingCents {
		result = roundPaymentResult(result)
	}

	c.logger.Debug("computed term comparison",
		zap.String("op", "calculator.CalculateByPayment"),
		zap.Float64("payment", payment),
		zap.Ints("terms", terms),
	)

	c.store(ctx, key, result)
	return result, nil
}

// lookup decodes a cached result into dst. Cache errors are logged and
// treated as misses.
func (c *Calculator) lookup(ctx context.Context, key string, dst interface{}) bool {
	if c.cache == nil {
		return false
	}

	raw, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache lookup failed",
			zap.String("op", "calculator.lookup"),
			zap.String("key", key),
			zap.Error(err),
		)
		return false
	}
	if !ok {
		return false
	}

	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		c.logger.Warn("discarding undecodable cache entry",
			zap.String("op", "calculator.lookup"),
			zap.String("key", key),
			zap.Error(err),
		)
		return false
	}

	c.logger.Debug("cache hit",
		zap.String("op", "calculator.lookup"),
		zap.String("key", key),
	)
	return true
}

func (c *Calculator) store(ctx context.Context, key string, value interface{}) {
	if c.cache == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("failed to encode result for cache",
			zap.String("op", "calculator.store"),
			zap.Error(err),
		)
		return
	}
	if err := c.cache.Set(ctx, key, string(raw)); err != nil {
		c.logger.Warn("cache store failed",
			zap.String("op", "calculator.store"),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}
