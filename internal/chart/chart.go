// Package chart produces the equity curve of a portfolio over its timeline.
package chart

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/stash/internal/ledger"
	"github.com/MrJamesThe3rd/stash/internal/performance"
	"github.com/MrJamesThe3rd/stash/internal/portfolio"
	"github.com/MrJamesThe3rd/stash/internal/timeline"
	"github.com/MrJamesThe3rd/stash/internal/transaction"
)

var ErrInvalidRange = errors.New("invalid chart range")

const (
	noSnapshotsMessage = "No snapshots recorded yet. Add a snapshot to start tracking this portfolio's value."
	noGoldPriceMessage = "The latest snapshot has no gold prices, so its stored NAV is shown. Record gold prices to value the holdings."
)

type Range string

const (
	Range1M  Range = "1M"
	RangeYTD Range = "YTD"
	Range1Y  Range = "1Y"
	RangeAll Range = "ALL"
)

var Ranges = []Range{Range1M, RangeYTD, Range1Y, RangeAll}

// ParseRange accepts the range names case-insensitively. An empty string means ALL.
func ParseRange(s string) (Range, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return RangeAll, nil
	}

	for _, r := range Ranges {
		if Range(s) == r {
			return r, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidRange, s)
}

// Point is one row of the equity curve.
type Point struct {
	Date           time.Time       `json:"date"`
	TotalInvested  decimal.Decimal `json:"total_invested"`
	TotalWithdrawn decimal.Decimal `json:"total_withdrawn"`
	CurrentNAV     decimal.Decimal `json:"current_nav"`
	TotalEquity    decimal.Decimal `json:"total_equity"`
}

func (p Point) MarshalJSON() ([]byte, error) {
	type alias Point

	return json.Marshal(struct {
		alias
		Date string `json:"date"`
	}{
		alias: alias(p),
		Date:  p.Date.Format(time.DateOnly),
	})
}

type Series struct {
	Points  []Point
	HasData bool
	Message string
}

// Generate walks the timeline carrying cumulative capital totals and the most recent
// snapshot forward. Equity is NAV plus everything withdrawn so far, so withdrawals never
// lower the curve.
func Generate(p *portfolio.Portfolio, txs []*transaction.Transaction, snaps []*portfolio.Snapshot) Series {
	if len(snaps) == 0 {
		return Series{Points: []Point{}, Message: noSnapshotsMessage}
	}

	points := timeline.Normalize(txs, snaps)
	out := make([]Point, 0, len(points))

	var (
		seen      []*transaction.Transaction
		latest    *portfolio.Snapshot
		invested  = decimal.Zero
		withdrawn = decimal.Zero
	)

	for _, tp := range points {
		seen = append(seen, tp.Transactions...)
		invested = invested.Add(ledger.TotalInvested(tp.Transactions))
		withdrawn = withdrawn.Add(ledger.TotalWithdrawn(tp.Transactions))

		if tp.Snapshot != nil {
			latest = tp.Snapshot
		}

		nav := navAt(p, seen, latest)

		out = append(out, Point{
			Date:           tp.Date,
			TotalInvested:  invested,
			TotalWithdrawn: withdrawn,
			CurrentNAV:     nav,
			TotalEquity:    nav.Add(withdrawn),
		})
	}

	series := Series{Points: out, HasData: true}
	if p.Valuation == portfolio.ValuationGold && !latest.HasGoldPrices() {
		series.Message = noGoldPriceMessage
	}

	return series
}

// navAt values the portfolio with the snapshot in effect. Gold portfolios are marked to
// the snapshot's prices when it has any, otherwise its stored NAV is used.
func navAt(p *portfolio.Portfolio, seen []*transaction.Transaction, snap *portfolio.Snapshot) decimal.Decimal {
	if snap == nil {
		return decimal.Zero
	}

	if p.Valuation == portfolio.ValuationGold && snap.HasGoldPrices() {
		return performance.GoldNAV(ledger.GoldHoldings(seen), snap)
	}

	return snap.NAV
}

// Cutoff returns the first day included in r relative to now. ok is false for ALL.
func (r Range) Cutoff(now time.Time) (cutoff time.Time, ok bool) {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	switch r {
	case Range1M:
		return today.AddDate(0, 0, -30), true
	case RangeYTD:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC), true
	case Range1Y:
		return today.AddDate(0, 0, -365), true
	}

	return time.Time{}, false
}

// Filter keeps the points inside r relative to now. Cumulative figures are not
// recomputed, so the first retained point still reflects the full history.
func Filter(points []Point, r Range, now time.Time) []Point {
	cutoff, ok := r.Cutoff(now)
	if !ok {
		return points
	}

	out := make([]Point, 0, len(points))

	for _, p := range points {
		if !p.Date.Before(cutoff) {
			out = append(out, p)
		}
	}

	return out
}
