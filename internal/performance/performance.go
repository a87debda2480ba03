// Package performance turns a portfolio's ledger and snapshots into investor-facing metrics.
package performance

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/stash/internal/ledger"
	"github.com/MrJamesThe3rd/stash/internal/portfolio"
	"github.com/MrJamesThe3rd/stash/internal/transaction"
	"github.com/MrJamesThe3rd/stash/internal/xirr"
)

// ErrNAVUnavailable is returned for gold portfolios whose latest snapshot carries no prices.
var ErrNAVUnavailable = errors.New("current nav unavailable: latest gold snapshot has no prices")

var hundred = decimal.NewFromInt(100)

type Summary struct {
	PortfolioID      uuid.UUID        `json:"portfolio_id"`
	TotalInvested    decimal.Decimal  `json:"total_invested"`
	TotalWithdrawn   decimal.Decimal  `json:"total_withdrawn"`
	CurrentNAV       decimal.Decimal  `json:"current_nav"`
	TotalEquity      decimal.Decimal  `json:"total_equity"`
	Profit           decimal.Decimal  `json:"profit"`
	ProfitPercentage decimal.Decimal  `json:"profit_percentage"`
	XIRR             *decimal.Decimal `json:"xirr"` // percent; nil when indeterminate
}

// Calculate computes the performance summary of p as of today.
func Calculate(
	p *portfolio.Portfolio,
	txs []*transaction.Transaction,
	snaps []*portfolio.Snapshot,
	today time.Time,
	guess float64,
) (*Summary, error) {
	nav, err := CurrentNAV(p, txs, snaps)
	if err != nil {
		return nil, err
	}

	invested := ledger.TotalInvested(txs)
	withdrawn := ledger.TotalWithdrawn(txs)
	profit := nav.Sub(invested)

	s := &Summary{
		PortfolioID:      p.ID,
		TotalInvested:    invested,
		TotalWithdrawn:   withdrawn,
		CurrentNAV:       nav,
		TotalEquity:      nav.Add(withdrawn),
		Profit:           profit,
		ProfitPercentage: Percentage(profit, invested),
	}

	if rate, err := xirr.Solve(CashFlows(txs, nav, today), guess); err == nil {
		pct := decimal.NewFromFloat(rate).Mul(hundred).Round(2)
		s.XIRR = &pct
	}

	return s, nil
}

// CurrentNAV values the portfolio by its valuation strategy. Standard portfolios use
// the latest snapshot's NAV; gold portfolios mark the gold position to the latest
// snapshot's prices. No snapshot at all values to zero.
func CurrentNAV(p *portfolio.Portfolio, txs []*transaction.Transaction, snaps []*portfolio.Snapshot) (decimal.Decimal, error) {
	latest := portfolio.Latest(snaps)
	if latest == nil {
		return decimal.Zero, nil
	}

	if p.Valuation != portfolio.ValuationGold {
		return latest.NAV, nil
	}

	if !latest.HasGoldPrices() {
		return decimal.Zero, ErrNAVUnavailable
	}

	return GoldNAV(ledger.GoldHoldings(txs), latest), nil
}

// GoldNAV values a gold position at the snapshot's per-chỉ prices. A missing price counts as zero.
func GoldNAV(pos ledger.GoldPosition, snap *portfolio.Snapshot) decimal.Decimal {
	return pos.Value(snap.BrandedGoldPrice.Decimal, snap.PrivateGoldPrice.Decimal)
}

// CashFlows builds the XIRR input: deposits negative, withdrawals positive and the
// current NAV as a terminal positive flow. TRANSFER legs are not external capital.
func CashFlows(txs []*transaction.Transaction, nav decimal.Decimal, today time.Time) []xirr.CashFlow {
	var flows []xirr.CashFlow

	for _, tx := range txs {
		switch tx.Type {
		case transaction.TypeDeposit:
			flows = append(flows, xirr.CashFlow{Date: tx.Date, Amount: -tx.Amount.Abs().InexactFloat64()})
		case transaction.TypeWithdraw:
			flows = append(flows, xirr.CashFlow{Date: tx.Date, Amount: tx.Amount.Abs().InexactFloat64()})
		}
	}

	if nav.IsPositive() {
		flows = append(flows, xirr.CashFlow{Date: today, Amount: nav.InexactFloat64()})
	}

	return flows
}

// Percentage returns part/base×100 rounded to two places, or zero when base is not positive.
func Percentage(part, base decimal.Decimal) decimal.Decimal {
	if !base.IsPositive() {
		return decimal.Zero
	}

	return part.Div(base).Mul(hundred).Round(2)
}
