package analytics_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/stash/internal/analytics"
	"github.com/MrJamesThe3rd/stash/internal/cash"
	"github.com/MrJamesThe3rd/stash/internal/performance"
	"github.com/MrJamesThe3rd/stash/internal/portfolio"
)

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func rate(v int64) *decimal.Decimal {
	d := dec(v)
	return &d
}

func TestAverageXIRR(t *testing.T) {
	tests := []struct {
		name  string
		rates []*decimal.Decimal
		want  decimal.Decimal
	}{
		{name: "zero excluded", rates: []*decimal.Decimal{rate(10), rate(0), rate(20)}, want: dec(15)},
		{name: "all zero", rates: []*decimal.Decimal{rate(0), rate(0)}, want: decimal.Zero},
		{name: "indeterminate excluded", rates: []*decimal.Decimal{nil, rate(-4), nil}, want: dec(-4)},
		{name: "empty", rates: nil, want: decimal.Zero},
		{name: "rounded", rates: []*decimal.Decimal{rate(1), rate(1), rate(2)}, want: decimal.RequireFromString("1.33")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analytics.AverageXIRR(tt.rates)
			assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
		})
	}
}

func figures() ([]analytics.PortfolioFigures, []analytics.CashFigures) {
	portfolios := []analytics.PortfolioFigures{
		{PortfolioID: uuid.New(), AssetName: "Vàng", TotalInvested: dec(1000), CurrentNAV: dec(1200), XIRR: rate(10)},
		{PortfolioID: uuid.New(), AssetName: "Cổ phiếu", TotalInvested: dec(2000), CurrentNAV: dec(1800), XIRR: rate(0)},
		{PortfolioID: uuid.New(), AssetName: "Cổ phiếu", TotalInvested: dec(1000), CurrentNAV: dec(1300), XIRR: rate(20)},
	}
	cash := []analytics.CashFigures{{CashAccountID: uuid.New(), Balance: dec(500)}}

	return portfolios, cash
}

func TestAggregate(t *testing.T) {
	portfolios, cash := figures()

	type want struct {
		netWorth   int64
		invested   int64
		percentage string
		avgXIRR    int64
		portfolios int
		accounts   int
	}

	tests := []struct {
		filter string
		want   want
	}{
		{filter: "ALL", want: want{netWorth: 4800, invested: 4500, percentage: "6.67", avgXIRR: 15, portfolios: 3, accounts: 1}},
		{filter: "", want: want{netWorth: 4800, invested: 4500, percentage: "6.67", avgXIRR: 15, portfolios: 3, accounts: 1}},
		{filter: "CASH", want: want{netWorth: 500, invested: 0, percentage: "0", avgXIRR: 0, accounts: 1}},
		{filter: "cổ phiếu", want: want{netWorth: 3100, invested: 3000, percentage: "3.33", avgXIRR: 20, portfolios: 2}},
		{filter: "Vàng", want: want{netWorth: 1200, invested: 1000, percentage: "20", avgXIRR: 10, portfolios: 1}},
		{filter: "Unknown", want: want{percentage: "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			got := analytics.Aggregate(tt.filter, portfolios, cash)

			assert.True(t, dec(tt.want.netWorth).Equal(got.TotalNetWorth), "net worth %s", got.TotalNetWorth)
			assert.True(t, dec(tt.want.invested).Equal(got.TotalInvested), "invested %s", got.TotalInvested)
			assert.True(t, decimal.RequireFromString(tt.want.percentage).Equal(got.ProfitLossPercentage), "pct %s", got.ProfitLossPercentage)
			assert.True(t, dec(tt.want.avgXIRR).Equal(got.AverageXIRR), "xirr %s", got.AverageXIRR)
			assert.Equal(t, tt.want.portfolios, got.PortfolioCount)
			assert.Equal(t, tt.want.accounts, got.CashAccountCount)
		})
	}
}

type fakePortfolios []*portfolio.Portfolio

func (f fakePortfolios) List(context.Context) ([]*portfolio.Portfolio, error) {
	return f, nil
}

type fakeCalculator struct {
	mu      sync.Mutex
	calls   int
	results map[uuid.UUID]*performance.Summary
}

func (f *fakeCalculator) Calculate(_ context.Context, id uuid.UUID) (*performance.Summary, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	s, ok := f.results[id]
	if !ok {
		return nil, errors.New("no performance data")
	}

	return s, nil
}

type fakeCash []cash.AccountBalance

func (f fakeCash) ListBalances(context.Context) ([]cash.AccountBalance, error) {
	return f, nil
}

func TestService_Summary_SkipsFailures(t *testing.T) {
	ok1 := &portfolio.Portfolio{ID: uuid.New(), AssetName: "Cổ phiếu"}
	broken := &portfolio.Portfolio{ID: uuid.New(), AssetName: "Cổ phiếu"}
	ok2 := &portfolio.Portfolio{ID: uuid.New(), AssetName: "Vàng"}

	calc := &fakeCalculator{results: map[uuid.UUID]*performance.Summary{
		ok1.ID: {PortfolioID: ok1.ID, TotalInvested: dec(1000), CurrentNAV: dec(1100), XIRR: rate(10)},
		ok2.ID: {PortfolioID: ok2.ID, TotalInvested: dec(500), CurrentNAV: dec(600), XIRR: rate(30)},
	}}

	balances := fakeCash{{Account: &cash.Account{ID: uuid.New(), Name: "Wallet"}, Balance: dec(200)}}

	svc := analytics.NewService(fakePortfolios{ok1, broken, ok2}, calc, balances, 2)

	got, err := svc.Summary(context.Background(), "ALL")
	require.NoError(t, err)

	assert.Equal(t, 3, calc.calls)
	assert.Equal(t, 2, got.PortfolioCount)
	assert.True(t, dec(1900).Equal(got.TotalNetWorth))
	assert.True(t, dec(20).Equal(got.AverageXIRR))
}

func TestService_Summary_CashSkipsPortfolios(t *testing.T) {
	calc := &fakeCalculator{}
	balances := fakeCash{{Account: &cash.Account{ID: uuid.New()}, Balance: dec(300)}}

	svc := analytics.NewService(fakePortfolios{{ID: uuid.New()}}, calc, balances, 4)

	got, err := svc.Summary(context.Background(), "cash")
	require.NoError(t, err)

	assert.Zero(t, calc.calls)
	assert.Equal(t, "CASH", got.Filter)
	assert.True(t, dec(300).Equal(got.TotalNetWorth))
}

func TestService_Summary_AssetFilterCalculatesOnlyMatches(t *testing.T) {
	gold := &portfolio.Portfolio{ID: uuid.New(), AssetName: "Vàng"}
	stock := &portfolio.Portfolio{ID: uuid.New(), AssetName: "Cổ phiếu"}

	calc := &fakeCalculator{results: map[uuid.UUID]*performance.Summary{
		gold.ID: {TotalInvested: dec(100), CurrentNAV: dec(150)},
	}}

	svc := analytics.NewService(fakePortfolios{gold, stock}, calc, fakeCash{}, 0)

	got, err := svc.Summary(context.Background(), "Vàng")
	require.NoError(t, err)

	assert.Equal(t, 1, calc.calls)
	assert.True(t, dec(50).Equal(got.ProfitLossPercentage))
}
