package performance_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/stash/internal/performance"
	"github.com/MrJamesThe3rd/stash/internal/portfolio"
	"github.com/MrJamesThe3rd/stash/internal/transaction"
	"github.com/MrJamesThe3rd/stash/internal/xirr"
)

var (
	start = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	today = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
)

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func newTx(typ transaction.Type, amount int64, date time.Time) *transaction.Transaction {
	return &transaction.Transaction{ID: uuid.New(), Type: typ, Amount: typ.Signed(dec(amount)), Date: date}
}

func goldBuy(g transaction.GoldType, chi, cost int64, date time.Time) *transaction.Transaction {
	tx := newTx(transaction.TypeBuy, cost, date)
	tx.GoldType = g
	tx.QuantityChi = decimal.NewNullDecimal(dec(chi))

	return tx
}

func standard() *portfolio.Portfolio {
	return &portfolio.Portfolio{ID: uuid.New(), Name: "Stocks", Valuation: portfolio.ValuationStandard}
}

func goldPortfolio() *portfolio.Portfolio {
	return &portfolio.Portfolio{ID: uuid.New(), Name: "Gold", Valuation: portfolio.ValuationGold}
}

func snapshot(date time.Time, nav int64) *portfolio.Snapshot {
	return &portfolio.Snapshot{ID: uuid.New(), Date: date, NAV: dec(nav), CreatedAt: date}
}

func TestCalculate_Standard(t *testing.T) {
	p := standard()
	txs := []*transaction.Transaction{newTx(transaction.TypeDeposit, 1000, start)}
	snaps := []*portfolio.Snapshot{snapshot(start, 1000), snapshot(today, 1100)}

	got, err := performance.Calculate(p, txs, snaps, today, xirr.DefaultGuess)
	require.NoError(t, err)

	assert.Equal(t, p.ID, got.PortfolioID)
	assert.True(t, dec(1000).Equal(got.TotalInvested))
	assert.True(t, dec(1100).Equal(got.CurrentNAV))
	assert.True(t, dec(100).Equal(got.Profit))
	assert.True(t, dec(10).Equal(got.ProfitPercentage))
	assert.True(t, dec(1100).Equal(got.TotalEquity))
	require.NotNil(t, got.XIRR)
	assert.InDelta(t, 10.0, got.XIRR.InexactFloat64(), 0.1)
}

func TestCalculate_WithdrawalCountsTowardEquity(t *testing.T) {
	p := standard()
	txs := []*transaction.Transaction{
		newTx(transaction.TypeDeposit, 1000, start),
		newTx(transaction.TypeWithdraw, 400, start.AddDate(0, 6, 0)),
	}
	snaps := []*portfolio.Snapshot{snapshot(today, 700)}

	got, err := performance.Calculate(p, txs, snaps, today, xirr.DefaultGuess)
	require.NoError(t, err)

	assert.True(t, dec(400).Equal(got.TotalWithdrawn))
	assert.True(t, dec(1100).Equal(got.TotalEquity))
	assert.True(t, dec(-300).Equal(got.Profit))
	assert.True(t, dec(-30).Equal(got.ProfitPercentage))
}

func TestCalculate_NoXIRR(t *testing.T) {
	tests := []struct {
		name  string
		txs   []*transaction.Transaction
		snaps []*portfolio.Snapshot
	}{
		{
			name: "deposit without snapshot",
			txs:  []*transaction.Transaction{newTx(transaction.TypeDeposit, 1000, start)},
		},
		{
			name: "nothing at all",
		},
		{
			name: "transfers only",
			txs: []*transaction.Transaction{
				{Type: transaction.TypeTransfer, Amount: dec(500), Date: start},
			},
			snaps: []*portfolio.Snapshot{snapshot(today, 600)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := performance.Calculate(standard(), tt.txs, tt.snaps, today, xirr.DefaultGuess)
			require.NoError(t, err)
			assert.Nil(t, got.XIRR)
		})
	}
}

func TestCalculate_ZeroInvested(t *testing.T) {
	got, err := performance.Calculate(standard(), nil, []*portfolio.Snapshot{snapshot(today, 50)}, today, xirr.DefaultGuess)
	require.NoError(t, err)
	assert.True(t, decimal.Zero.Equal(got.ProfitPercentage))
	assert.True(t, dec(50).Equal(got.Profit))
}

func TestCalculate_GoldMarksToMarket(t *testing.T) {
	p := goldPortfolio()
	p1, p2 := int64(7_000_000), int64(8_500_000)

	txs := []*transaction.Transaction{
		newTx(transaction.TypeDeposit, 2*p1, start),
		goldBuy(transaction.GoldBranded, 2, 2*p1, start),
	}
	snap := snapshot(today, 1)
	snap.BrandedGoldPrice = decimal.NewNullDecimal(dec(p2))

	got, err := performance.Calculate(p, txs, []*portfolio.Snapshot{snap}, today, xirr.DefaultGuess)
	require.NoError(t, err)
	assert.True(t, dec(2*p2).Equal(got.CurrentNAV))
}

func TestCalculate_GoldWithoutPrices(t *testing.T) {
	p := goldPortfolio()
	txs := []*transaction.Transaction{goldBuy(transaction.GoldPrivate, 1, 100, start)}

	_, err := performance.Calculate(p, txs, []*portfolio.Snapshot{snapshot(today, 999)}, today, xirr.DefaultGuess)
	assert.ErrorIs(t, err, performance.ErrNAVUnavailable)

	got, err := performance.Calculate(p, txs, nil, today, xirr.DefaultGuess)
	require.NoError(t, err)
	assert.True(t, decimal.Zero.Equal(got.CurrentNAV))
}

func TestCalculate_LatestSnapshotWins(t *testing.T) {
	early := snapshot(today, 500)
	late := snapshot(today, 700)
	late.CreatedAt = today.Add(time.Hour)

	got, err := performance.Calculate(standard(), nil, []*portfolio.Snapshot{late, early, snapshot(start, 9000)}, today, xirr.DefaultGuess)
	require.NoError(t, err)
	assert.True(t, dec(700).Equal(got.CurrentNAV))
}

func TestCashFlows(t *testing.T) {
	txs := []*transaction.Transaction{
		newTx(transaction.TypeDeposit, 1000, start),
		newTx(transaction.TypeWithdraw, 200, start),
		{Type: transaction.TypeTransfer, Amount: dec(-300), Date: start},
		newTx(transaction.TypeBuy, 800, start),
	}

	flows := performance.CashFlows(txs, dec(900), today)
	require.Len(t, flows, 3)
	assert.Equal(t, -1000.0, flows[0].Amount)
	assert.Equal(t, 200.0, flows[1].Amount)
	assert.Equal(t, xirr.CashFlow{Date: today, Amount: 900}, flows[2])

	assert.Len(t, performance.CashFlows(txs, decimal.Zero, today), 2)
}

func TestService_Calculate(t *testing.T) {
	type testCase struct {
		name      string
		setupMock func(p *performance.MockPortfolioReader, tx *performance.MockTransactionReader, id uuid.UUID)
		wantErr   error
	}

	boom := errors.New("boom")

	tests := []testCase{
		{
			name: "Success",
			setupMock: func(p *performance.MockPortfolioReader, tx *performance.MockTransactionReader, id uuid.UUID) {
				p.EXPECT().Get(gomock.Any(), id).Return(&portfolio.Portfolio{ID: id}, nil)
				tx.EXPECT().List(gomock.Any(), transaction.ListFilter{PortfolioID: &id}).
					Return([]*transaction.Transaction{newTx(transaction.TypeDeposit, 1000, start)}, nil)
				p.EXPECT().ListSnapshots(gomock.Any(), id).Return([]*portfolio.Snapshot{snapshot(today, 1100)}, nil)
			},
		},
		{
			name: "NotFound",
			setupMock: func(p *performance.MockPortfolioReader, _ *performance.MockTransactionReader, id uuid.UUID) {
				p.EXPECT().Get(gomock.Any(), id).Return(nil, portfolio.ErrNotFound)
			},
			wantErr: portfolio.ErrNotFound,
		},
		{
			name: "TransactionsFail",
			setupMock: func(p *performance.MockPortfolioReader, tx *performance.MockTransactionReader, id uuid.UUID) {
				p.EXPECT().Get(gomock.Any(), id).Return(&portfolio.Portfolio{ID: id}, nil)
				tx.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, boom)
			},
			wantErr: boom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			id := uuid.New()
			portfolios := performance.NewMockPortfolioReader(ctrl)
			transactions := performance.NewMockTransactionReader(ctrl)
			tt.setupMock(portfolios, transactions, id)

			svc := performance.NewService(portfolios, transactions, xirr.DefaultGuess).
				WithClock(func() time.Time { return today })

			got, err := svc.Calculate(context.Background(), id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, id, got.PortfolioID)
			require.NotNil(t, got.XIRR)
			assert.InDelta(t, 10.0, got.XIRR.InexactFloat64(), 0.1)
		})
	}
}

func TestService_Holdings_Gold(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	portfolios := performance.NewMockPortfolioReader(ctrl)
	transactions := performance.NewMockTransactionReader(ctrl)

	portfolios.EXPECT().Get(gomock.Any(), id).Return(&portfolio.Portfolio{ID: id, Valuation: portfolio.ValuationGold}, nil)
	transactions.EXPECT().List(gomock.Any(), gomock.Any()).
		Return([]*transaction.Transaction{goldBuy(transaction.GoldBranded, 3, 300, start)}, nil)
	portfolios.EXPECT().ListSnapshots(gomock.Any(), id).Return(nil, nil)

	got, err := performance.NewService(portfolios, transactions, xirr.DefaultGuess).Holdings(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, got.Gold)
	assert.True(t, dec(3).Equal(got.Gold.Branded))
	assert.Empty(t, got.Holdings)
}
