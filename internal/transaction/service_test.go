package transaction_test

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

	"github.com/MrJamesThe3rd/stash/internal/transaction"
)

func TestType_Signed(t *testing.T) {
	tests := []struct {
		name   string
		typ    transaction.Type
		amount string
		want   string
	}{
		{name: "deposit stays positive", typ: transaction.TypeDeposit, amount: "-100", want: "100"},
		{name: "withdraw stored positive", typ: transaction.TypeWithdraw, amount: "-50", want: "50"},
		{name: "buy is cash out", typ: transaction.TypeBuy, amount: "200", want: "-200"},
		{name: "sell is cash in", typ: transaction.TypeSell, amount: "-200", want: "200"},
		{name: "fee is cash out", typ: transaction.TypeFee, amount: "3", want: "-3"},
		{name: "transfer keeps sign", typ: transaction.TypeTransfer, amount: "-75", want: "-75"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.typ.Signed(decimal.RequireFromString(tt.amount))
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestService_Create(t *testing.T) {
	portfolioID := uuid.New()
	cashID := uuid.New()

	type args struct {
		params transaction.CreateParams
	}

	type testCase struct {
		name       string
		args       args
		setupMock  func(m *transaction.MockRepository)
		wantAmount string
		wantErr    error
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{
				params: transaction.CreateParams{
					PortfolioID: &portfolioID,
					Type:        transaction.TypeBuy,
					Amount:      decimal.NewFromInt(1000),
					Ticker:      "FPT",
					Quantity:    decimal.NewNullDecimal(decimal.NewFromInt(10)),
					Date:        time.Date(2023, 10, 27, 0, 0, 0, 0, time.UTC),
				},
			},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
						tx.ID = uuid.New()
						tx.CreatedAt = time.Now()
						return nil
					})
			},
			wantAmount: "-1000",
		},
		{
			name: "NoOwner",
			args: args{
				params: transaction.CreateParams{
					Type:   transaction.TypeDeposit,
					Amount: decimal.NewFromInt(1),
				},
			},
			wantErr: transaction.ErrInvalidOwner,
		},
		{
			name: "TwoOwners",
			args: args{
				params: transaction.CreateParams{
					PortfolioID:   &portfolioID,
					CashAccountID: &cashID,
					Type:          transaction.TypeDeposit,
					Amount:        decimal.NewFromInt(1),
				},
			},
			wantErr: transaction.ErrInvalidOwner,
		},
		{
			name: "InvalidType",
			args: args{
				params: transaction.CreateParams{
					CashAccountID: &cashID,
					Type:          "DIVIDEND",
					Amount:        decimal.NewFromInt(1),
				},
			},
			wantErr: transaction.ErrInvalidType,
		},
		{
			name: "ZeroAmount",
			args: args{
				params: transaction.CreateParams{
					CashAccountID: &cashID,
					Type:          transaction.TypeDeposit,
				},
			},
			wantErr: transaction.ErrZeroAmount,
		},
		{
			name: "RepoError",
			args: args{
				params: transaction.CreateParams{
					CashAccountID: &cashID,
					Type:          transaction.TypeDeposit,
					Amount:        decimal.NewFromInt(500),
				},
			},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := transaction.NewService(repo)
			got, err := svc.Create(context.Background(), tt.args.params)

			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.NotEmpty(t, got.ID)
			assert.True(t, got.Amount.Equal(decimal.RequireFromString(tt.wantAmount)))
		})
	}
}

func TestService_Create_SentinelErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := transaction.NewService(transaction.NewMockRepository(ctrl))

	_, err := svc.Create(context.Background(), transaction.CreateParams{Type: transaction.TypeDeposit, Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, transaction.ErrInvalidOwner)
}

func TestService_List(t *testing.T) {
	portfolioID := uuid.New()

	type args struct {
		filter transaction.ListFilter
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *transaction.MockRepository)
		wantLen   int
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{filter: transaction.ListFilter{PortfolioID: &portfolioID}},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), transaction.ListFilter{PortfolioID: &portfolioID}).
					Return([]*transaction.Transaction{
						{ID: uuid.New()},
						{ID: uuid.New()},
					}, nil)
			},
			wantLen: 2,
		},
		{
			name: "Error",
			args: args{filter: transaction.ListFilter{}},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), transaction.ListFilter{}).
					Return(nil, errors.New("list error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := transaction.NewService(repo)
			got, err := svc.List(context.Background(), tt.args.filter)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestService_Update_ReappliesSign(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	tx := &transaction.Transaction{ID: uuid.New(), Type: transaction.TypeFee, Amount: decimal.NewFromInt(15)}

	repo.EXPECT().UpdateTransaction(gomock.Any(), tx).Return(nil)

	require.NoError(t, svc.Update(context.Background(), tx))
	assert.True(t, tx.Amount.Equal(decimal.NewFromInt(-15)))
}

func TestService_Transfer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	btx := transaction.NewMockBatchTx(ctrl)
	svc := transaction.NewService(repo)

	cashID := uuid.New()
	portfolioID := uuid.New()
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	repo.EXPECT().BeginBatch(gomock.Any(), date, date).Return(btx, nil)
	btx.EXPECT().CreateTransactions(gomock.Any(), gomock.Any()).Return(nil)
	btx.EXPECT().Commit().Return(nil)
	btx.EXPECT().Rollback().Return(nil)

	legs, err := svc.Transfer(context.Background(), transaction.TransferParams{
		From:   transaction.Endpoint{CashAccountID: &cashID},
		To:     transaction.Endpoint{PortfolioID: &portfolioID},
		Amount: decimal.NewFromInt(5_000_000),
		Date:   date,
	})
	require.NoError(t, err)
	require.Len(t, legs, 2)

	assert.Equal(t, &cashID, legs[0].CashAccountID)
	assert.True(t, legs[0].Amount.Equal(decimal.NewFromInt(-5_000_000)))
	assert.Equal(t, &portfolioID, legs[1].PortfolioID)
	assert.True(t, legs[1].Amount.Equal(decimal.NewFromInt(5_000_000)))
	assert.True(t, legs[1].IsInbound())
	assert.False(t, legs[0].IsInbound())
	assert.Equal(t, legs[0].Date, legs[1].Date)
}

func TestService_Transfer_SameEndpoint(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := transaction.NewService(transaction.NewMockRepository(ctrl))

	id := uuid.New()
	other := id

	_, err := svc.Transfer(context.Background(), transaction.TransferParams{
		From:   transaction.Endpoint{CashAccountID: &id},
		To:     transaction.Endpoint{CashAccountID: &other},
		Amount: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, transaction.ErrInvalidTransfer)
}

func TestService_CreateBatch_ValidatesBeforeWriting(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := transaction.NewService(transaction.NewMockRepository(ctrl))

	portfolioID := uuid.New()

	_, err := svc.CreateBatch(context.Background(), []transaction.CreateParams{
		{PortfolioID: &portfolioID, Type: transaction.TypeDeposit, Amount: decimal.NewFromInt(1)},
		{PortfolioID: &portfolioID, Type: transaction.TypeBuy, Amount: decimal.NewFromInt(1), GoldType: "PLATINUM"},
	})
	assert.ErrorIs(t, err, transaction.ErrInvalidGoldType)
	assert.Contains(t, err.Error(), "row 2")
}

func TestService_ImportBatch_NoConflicts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	btx := transaction.NewMockBatchTx(ctrl)
	svc := transaction.NewService(repo)

	portfolioID := uuid.New()
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	params := []transaction.CreateParams{
		{
			PortfolioID: &portfolioID,
			Type:        transaction.TypeDeposit,
			Amount:      decimal.NewFromInt(1000),
			Date:        date,
		},
	}

	repo.EXPECT().BeginBatch(gomock.Any(), date, date).Return(btx, nil)
	btx.EXPECT().FindDuplicates(gomock.Any(), params).Return(nil, nil)
	btx.EXPECT().CreateTransactions(gomock.Any(), gomock.Any()).Return(nil)
	btx.EXPECT().Commit().Return(nil)
	btx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), params)
	require.NoError(t, err)
	assert.Len(t, result.Imported, 1)
	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.New)
}

func TestService_ImportBatch_WithConflicts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	btx := transaction.NewMockBatchTx(ctrl)
	svc := transaction.NewService(repo)

	portfolioID := uuid.New()
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	params := []transaction.CreateParams{
		{
			PortfolioID: &portfolioID,
			Type:        transaction.TypeBuy,
			Amount:      decimal.NewFromInt(-1000),
			Ticker:      "VNM",
			Date:        date,
		},
		{
			PortfolioID: &portfolioID,
			Type:        transaction.TypeDeposit,
			Amount:      decimal.NewFromInt(2000),
			Date:        date,
		},
	}

	existing := &transaction.Transaction{
		ID:          uuid.New(),
		PortfolioID: &portfolioID,
		Type:        transaction.TypeBuy,
		Amount:      decimal.RequireFromString("-1000.00"),
		Ticker:      "VNM",
		Date:        date,
	}

	repo.EXPECT().BeginBatch(gomock.Any(), date, date).Return(btx, nil)
	btx.EXPECT().FindDuplicates(gomock.Any(), gomock.Any()).Return([]*transaction.Transaction{existing}, nil)
	btx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), params)
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	assert.Len(t, result.New, 1)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, "VNM", result.Conflicts[0].Incoming.Ticker)
	assert.Equal(t, existing, result.Conflicts[0].Existing)
}

func TestService_ImportBatch_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	result, err := svc.ImportBatch(context.Background(), []transaction.CreateParams{})
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.New)
}

func TestService_CreateBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	btx := transaction.NewMockBatchTx(ctrl)
	svc := transaction.NewService(repo)

	cashID := uuid.New()
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	params := []transaction.CreateParams{
		{
			CashAccountID: &cashID,
			Type:          transaction.TypeWithdraw,
			Amount:        decimal.NewFromInt(-1000),
			Date:          date,
		},
	}

	repo.EXPECT().BeginBatch(gomock.Any(), date, date).Return(btx, nil)
	btx.EXPECT().CreateTransactions(gomock.Any(), gomock.Any()).Return(nil)
	btx.EXPECT().Commit().Return(nil)
	btx.EXPECT().Rollback().Return(nil)

	txs, err := svc.CreateBatch(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.True(t, txs[0].Amount.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, transaction.TypeWithdraw, txs[0].Type)
}
