package cash_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/stash/internal/cash"
	"github.com/MrJamesThe3rd/stash/internal/transaction"
)

func ledgerRow(typ transaction.Type, amount int64) *transaction.Transaction {
	return &transaction.Transaction{
		Type:   typ,
		Amount: typ.Signed(decimal.NewFromInt(amount)),
		Date:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestService_Create(t *testing.T) {
	type testCase struct {
		name         string
		accountName  string
		currency     string
		setupMock    func(m *cash.MockRepository)
		wantCurrency string
		wantErr      bool
	}

	tests := []testCase{
		{
			name:        "DefaultCurrency",
			accountName: "Wallet",
			setupMock: func(m *cash.MockRepository) {
				m.EXPECT().CreateAccount(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantCurrency: "VND",
		},
		{
			name:        "ExplicitCurrency",
			accountName: "Savings",
			currency:    "eur",
			setupMock: func(m *cash.MockRepository) {
				m.EXPECT().CreateAccount(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantCurrency: "EUR",
		},
		{
			name:        "EmptyName",
			accountName: " ",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := cash.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := cash.NewService(repo, cash.NewMockTransactionReader(ctrl))

			got, err := svc.Create(context.Background(), tt.accountName, tt.currency)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantCurrency, got.Currency)
		})
	}
}

func TestService_Balance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	txs := cash.NewMockTransactionReader(ctrl)
	txs.EXPECT().List(gomock.Any(), transaction.ListFilter{CashAccountID: &id}).Return([]*transaction.Transaction{
		ledgerRow(transaction.TypeDeposit, 1000),
		ledgerRow(transaction.TypeWithdraw, 250),
		{Type: transaction.TypeTransfer, Amount: decimal.NewFromInt(-100)},
		{Type: transaction.TypeTransfer, Amount: decimal.NewFromInt(40)},
	}, nil)

	got, err := cash.NewService(cash.NewMockRepository(ctrl), txs).Balance(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(690).Equal(got))
}

func TestService_GetWithBalance_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	repo := cash.NewMockRepository(ctrl)
	repo.EXPECT().GetAccount(gomock.Any(), id).Return(nil, cash.ErrNotFound)

	_, err := cash.NewService(repo, cash.NewMockTransactionReader(ctrl)).GetWithBalance(context.Background(), id)
	assert.ErrorIs(t, err, cash.ErrNotFound)
}

func TestService_ListBalances(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	a, b := &cash.Account{ID: uuid.New(), Name: "A"}, &cash.Account{ID: uuid.New(), Name: "B"}

	repo := cash.NewMockRepository(ctrl)
	repo.EXPECT().ListAccounts(gomock.Any()).Return([]*cash.Account{a, b}, nil)

	txs := cash.NewMockTransactionReader(ctrl)
	txs.EXPECT().List(gomock.Any(), transaction.ListFilter{CashAccountID: &a.ID}).
		Return([]*transaction.Transaction{ledgerRow(transaction.TypeDeposit, 100)}, nil)
	txs.EXPECT().List(gomock.Any(), transaction.ListFilter{CashAccountID: &b.ID}).Return(nil, nil)

	got, err := cash.NewService(repo, txs).ListBalances(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, decimal.NewFromInt(100).Equal(got[0].Balance))
	assert.True(t, decimal.Zero.Equal(got[1].Balance))
}
