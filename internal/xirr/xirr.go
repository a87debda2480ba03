// Package xirr computes the annualized money-weighted rate of return of dated cash flows.
package xirr

import (
	"errors"
	"math"
	"sort"
	"time"
)

const (
	DefaultGuess = 0.10

	maxIterations = 100
	tolerance     = 1e-4
	minDerivative = 1e-10
	minRate       = -0.99
	maxRate       = 100.0
	daysPerYear   = 365.0
)

// ErrNoResult is matched by every solver failure.
var ErrNoResult = errors.New("xirr: no result")

var (
	ErrInsufficientFlows = noResult("at least two cash flows are required")
	ErrNoSignChange      = noResult("cash flows must contain both positive and negative amounts")
	ErrNonFinite         = noResult("non-finite value during iteration")
	ErrFlatDerivative    = noResult("derivative too close to zero")
	ErrNotConverged      = noResult("did not converge")
	ErrOutOfBounds       = noResult("rate outside supported bounds")
)

type solverError struct {
	msg string
}

func noResult(msg string) error {
	return &solverError{msg: msg}
}

func (e *solverError) Error() string {
	return "xirr: " + e.msg
}

func (e *solverError) Is(target error) bool {
	return target == ErrNoResult
}

// CashFlow is a dated amount. Money put into the investment is negative; value at
// exit is positive.
type CashFlow struct {
	Date   time.Time
	Amount float64
}

// Solve finds the rate r for which the net present value of flows is zero using
// Newton-Raphson from guess. Input order does not affect the result.
func Solve(flows []CashFlow, guess float64) (float64, error) {
	if len(flows) < 2 {
		return 0, ErrInsufficientFlows
	}

	sorted := make([]CashFlow, len(flows))
	copy(sorted, flows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Amount < sorted[j].Amount
		}

		return sorted[i].Date.Before(sorted[j].Date)
	})

	var hasPositive, hasNegative bool

	for _, f := range sorted {
		if math.IsNaN(f.Amount) || math.IsInf(f.Amount, 0) {
			return 0, ErrNonFinite
		}

		hasPositive = hasPositive || f.Amount > 0
		hasNegative = hasNegative || f.Amount < 0
	}

	if !hasPositive || !hasNegative {
		return 0, ErrNoSignChange
	}

	years := make([]float64, len(sorted))
	start := sorted[0].Date

	for i, f := range sorted {
		years[i] = math.Max(0, f.Date.Sub(start).Hours()/24) / daysPerYear
	}

	rate := clamp(guess)
	if math.IsNaN(rate) {
		rate = DefaultGuess
	}

	for range maxIterations {
		npv, derivative := 0.0, 0.0

		for i, f := range sorted {
			factor := math.Pow(1+rate, years[i])
			if factor == 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
				return 0, ErrNonFinite
			}

			npv += f.Amount / factor
			derivative -= years[i] * f.Amount / (factor * (1 + rate))
		}

		if math.Abs(derivative) < minDerivative {
			return 0, ErrFlatDerivative
		}

		next := rate - npv/derivative
		if math.IsNaN(next) || math.IsInf(next, 0) {
			return 0, ErrNonFinite
		}

		if math.Abs(next-rate) < tolerance {
			if next < minRate || next > maxRate {
				return 0, ErrOutOfBounds
			}

			return next, nil
		}

		rate = clamp(next)
	}

	return 0, ErrNotConverged
}

func clamp(r float64) float64 {
	return math.Min(maxRate, math.Max(minRate, r))
}
