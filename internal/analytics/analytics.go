// Package analytics rolls per-portfolio performance and cash balances into dashboard totals.
package analytics

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/stash/internal/performance"
)

const (
	FilterAll  = "ALL"
	FilterCash = "CASH"
)

// PortfolioFigures is one portfolio's contribution to the aggregate.
type PortfolioFigures struct {
	PortfolioID   uuid.UUID
	Name          string
	AssetName     string
	TotalInvested decimal.Decimal
	CurrentNAV    decimal.Decimal
	XIRR          *decimal.Decimal
}

type CashFigures struct {
	CashAccountID uuid.UUID
	Name          string
	Balance       decimal.Decimal
}

type Summary struct {
	Filter               string          `json:"filter"`
	TotalNetWorth        decimal.Decimal `json:"total_net_worth"`
	TotalInvested        decimal.Decimal `json:"total_invested"`
	ProfitLoss           decimal.Decimal `json:"profit_loss"`
	ProfitLossPercentage decimal.Decimal `json:"profit_loss_percentage"`
	AverageXIRR          decimal.Decimal `json:"average_xirr"`
	PortfolioCount       int             `json:"portfolio_count"`
	CashAccountCount     int             `json:"cash_account_count"`
}

// NormalizeFilter upper-cases the reserved filters and trims asset names. Empty means ALL.
func NormalizeFilter(f string) string {
	f = strings.TrimSpace(f)

	switch upper := strings.ToUpper(f); upper {
	case "", FilterAll:
		return FilterAll
	case FilterCash:
		return FilterCash
	}

	return f
}

// IncludesPortfolio reports whether portfolios with the given asset name count under filter.
func IncludesPortfolio(filter, assetName string) bool {
	switch filter {
	case FilterAll:
		return true
	case FilterCash:
		return false
	}

	return strings.EqualFold(strings.TrimSpace(assetName), filter)
}

func includesCash(filter string) bool {
	return filter == FilterAll || filter == FilterCash
}

// Aggregate totals the figures selected by filter. Cash balances count toward both net
// worth and invested capital, so idle cash shows no profit or loss.
func Aggregate(filter string, portfolios []PortfolioFigures, cash []CashFigures) Summary {
	filter = NormalizeFilter(filter)
	s := Summary{
		Filter:        filter,
		TotalNetWorth: decimal.Zero,
		TotalInvested: decimal.Zero,
	}

	var rates []*decimal.Decimal

	for _, p := range portfolios {
		if !IncludesPortfolio(filter, p.AssetName) {
			continue
		}

		s.PortfolioCount++
		s.TotalNetWorth = s.TotalNetWorth.Add(p.CurrentNAV)
		s.TotalInvested = s.TotalInvested.Add(p.TotalInvested)
		rates = append(rates, p.XIRR)
	}

	if includesCash(filter) {
		for _, c := range cash {
			s.CashAccountCount++
			s.TotalNetWorth = s.TotalNetWorth.Add(c.Balance)

			if filter == FilterAll {
				s.TotalInvested = s.TotalInvested.Add(c.Balance)
			}
		}
	}

	if filter != FilterCash {
		s.ProfitLoss = s.TotalNetWorth.Sub(s.TotalInvested)
		s.ProfitLossPercentage = performance.Percentage(s.ProfitLoss, s.TotalInvested)
		s.AverageXIRR = AverageXIRR(rates)
	}

	return s
}

// AverageXIRR is the arithmetic mean of the determinate, non-zero rates, rounded to two
// places. With nothing left to average it returns zero.
func AverageXIRR(rates []*decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	n := 0

	for _, r := range rates {
		if r == nil || r.IsZero() {
			continue
		}

		sum = sum.Add(*r)
		n++
	}

	if n == 0 {
		return decimal.Zero
	}

	return sum.Div(decimal.NewFromInt(int64(n))).Round(2)
}
