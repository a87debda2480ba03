package cash

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/stash/internal/ledger"
	"github.com/MrJamesThe3rd/stash/internal/transaction"
)

var (
	ErrNotFound = errors.New("cash account not found")
	ErrInvalid  = errors.New("invalid cash account")
)

const defaultCurrency = "VND"

// Account holds idle cash. Its balance is derived from its transactions.
type Account struct {
	ID        uuid.UUID
	Name      string
	Currency  string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=cash
type Repository interface {
	CreateAccount(ctx context.Context, a *Account) error
	GetAccount(ctx context.Context, id uuid.UUID) (*Account, error)
	ListAccounts(ctx context.Context) ([]*Account, error)
	DeleteAccount(ctx context.Context, id uuid.UUID) error
}

type TransactionReader interface {
	List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

type Service struct {
	repo         Repository
	transactions TransactionReader
}

func NewService(repo Repository, transactions TransactionReader) *Service {
	return &Service{repo: repo, transactions: transactions}
}

func (s *Service) Create(ctx context.Context, name, currency string) (*Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalid)
	}

	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = defaultCurrency
	}

	a := &Account{Name: name, Currency: currency}
	if err := s.repo.CreateAccount(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Account, error) {
	return s.repo.GetAccount(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Account, error) {
	return s.repo.ListAccounts(ctx)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteAccount(ctx, id)
}

// Balance reconstructs the account balance from its ledger.
func (s *Service) Balance(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	txs, err := s.transactions.List(ctx, transaction.ListFilter{CashAccountID: &id})
	if err != nil {
		return decimal.Zero, fmt.Errorf("listing cash transactions: %w", err)
	}

	return ledger.CashBalance(txs), nil
}

type AccountBalance struct {
	Account *Account
	Balance decimal.Decimal
}

// GetWithBalance loads an account and its current balance.
func (s *Service) GetWithBalance(ctx context.Context, id uuid.UUID) (*AccountBalance, error) {
	a, err := s.repo.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	balance, err := s.Balance(ctx, id)
	if err != nil {
		return nil, err
	}

	return &AccountBalance{Account: a, Balance: balance}, nil
}

// ListBalances returns every account with its balance.
func (s *Service) ListBalances(ctx context.Context) ([]AccountBalance, error) {
	accounts, err := s.repo.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]AccountBalance, 0, len(accounts))

	for _, a := range accounts {
		balance, err := s.Balance(ctx, a.ID)
		if err != nil {
			return nil, err
		}

		out = append(out, AccountBalance{Account: a, Balance: balance})
	}

	return out, nil
}
