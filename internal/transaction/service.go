package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	DeleteTransaction(ctx context.Context, id uuid.UUID) error

	BeginBatch(ctx context.Context, minDate, maxDate time.Time) (BatchTx, error)
}

// BatchTx writes several transactions atomically while holding a lock on their date range.
type BatchTx interface {
	FindDuplicates(ctx context.Context, params []CreateParams) ([]*Transaction, error)
	CreateTransactions(ctx context.Context, txs []*Transaction) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	PortfolioID   *uuid.UUID
	CashAccountID *uuid.UUID
	Type          Type
	Amount        decimal.Decimal
	Date          time.Time
	Ticker        string
	Quantity      decimal.NullDecimal
	GoldType      GoldType
	QuantityChi   decimal.NullDecimal
	Note          string
}

func (p CreateParams) validate() error {
	if (p.PortfolioID == nil) == (p.CashAccountID == nil) {
		return ErrInvalidOwner
	}

	if !p.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, p.Type)
	}

	if p.Amount.IsZero() {
		return ErrZeroAmount
	}

	if p.GoldType != "" && !p.GoldType.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidGoldType, p.GoldType)
	}

	return nil
}

type ListFilter struct {
	PortfolioID   *uuid.UUID
	CashAccountID *uuid.UUID
	Type          *Type
	StartDate     *time.Time
	EndDate       *time.Time
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	tx := fromParams(params)
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

// Update re-applies the sign convention so edited rows stay consistent with created ones.
func (s *Service) Update(ctx context.Context, tx *Transaction) error {
	if !tx.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, tx.Type)
	}

	if tx.Amount.IsZero() {
		return ErrZeroAmount
	}

	if tx.GoldType != "" && !tx.GoldType.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidGoldType, tx.GoldType)
	}

	tx.Amount = tx.Type.Signed(tx.Amount)

	return s.repo.UpdateTransaction(ctx, tx)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteTransaction(ctx, id)
}

// Endpoint identifies one side of a transfer.
type Endpoint struct {
	PortfolioID   *uuid.UUID
	CashAccountID *uuid.UUID
}

func (e Endpoint) same(o Endpoint) bool {
	return equalID(e.PortfolioID, o.PortfolioID) && equalID(e.CashAccountID, o.CashAccountID)
}

func equalID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}

	return *a == *b
}

type TransferParams struct {
	From   Endpoint
	To     Endpoint
	Amount decimal.Decimal
	Date   time.Time
	Note   string
}

// Transfer records both legs of a transfer in one batch: a negative leg on the
// source and a positive leg of equal magnitude on the destination.
func (s *Service) Transfer(ctx context.Context, params TransferParams) ([]*Transaction, error) {
	if !params.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidTransfer)
	}

	if params.From.same(params.To) {
		return nil, fmt.Errorf("%w: source and destination must differ", ErrInvalidTransfer)
	}

	legs := []CreateParams{
		{
			PortfolioID:   params.From.PortfolioID,
			CashAccountID: params.From.CashAccountID,
			Type:          TypeTransfer,
			Amount:        params.Amount.Neg(),
			Date:          params.Date,
			Note:          params.Note,
		},
		{
			PortfolioID:   params.To.PortfolioID,
			CashAccountID: params.To.CashAccountID,
			Type:          TypeTransfer,
			Amount:        params.Amount,
			Date:          params.Date,
			Note:          params.Note,
		},
	}

	return s.CreateBatch(ctx, legs)
}

type ImportResult struct {
	Imported  []*Transaction
	New       []CreateParams
	Conflicts []Conflict
}

type Conflict struct {
	Incoming CreateParams
	Existing *Transaction
}

type dupKey struct {
	Owner  uuid.UUID
	Date   string
	Type   Type
	Amount string
	Ticker string
}

func keyOf(portfolioID, cashAccountID *uuid.UUID, date time.Time, typ Type, amount decimal.Decimal, ticker string) dupKey {
	k := dupKey{
		Date:   date.Format(time.DateOnly),
		Type:   typ,
		Amount: amount.String(),
		Ticker: ticker,
	}

	switch {
	case portfolioID != nil:
		k.Owner = *portfolioID
	case cashAccountID != nil:
		k.Owner = *cashAccountID
	}

	return k
}

// ImportBatch creates all params unless some of them already exist. When duplicates
// are found nothing is written and the caller receives the split for confirmation.
func (s *Service) ImportBatch(ctx context.Context, params []CreateParams) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	for i := range params {
		if err := params[i].validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		params[i].Amount = params[i].Type.Signed(params[i].Amount)
	}

	minDate, maxDate := dateRange(params)

	btx, err := s.repo.BeginBatch(ctx, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer btx.Rollback()

	duplicates, err := btx.FindDuplicates(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("find duplicates: %w", err)
	}

	lookup := make(map[dupKey]*Transaction, len(duplicates))

	for _, d := range duplicates {
		lookup[keyOf(d.PortfolioID, d.CashAccountID, d.Date, d.Type, d.Amount, d.Ticker)] = d
	}

	var newParams []CreateParams

	var conflicts []Conflict

	for _, p := range params {
		existing, found := lookup[keyOf(p.PortfolioID, p.CashAccountID, p.Date, p.Type, p.Amount, p.Ticker)]
		if found {
			conflicts = append(conflicts, Conflict{Incoming: p, Existing: existing})
			continue
		}

		newParams = append(newParams, p)
	}

	if len(conflicts) > 0 {
		return &ImportResult{New: newParams, Conflicts: conflicts}, nil
	}

	txs := paramsToTransactions(newParams)
	if err := btx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := btx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return &ImportResult{Imported: txs}, nil
}

func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) ([]*Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	for i := range params {
		if err := params[i].validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
	}

	minDate, maxDate := dateRange(params)

	btx, err := s.repo.BeginBatch(ctx, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin batch: %w", err)
	}
	defer btx.Rollback()

	txs := paramsToTransactions(params)
	if err := btx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := btx.Commit(); err != nil {
		return nil, fmt.Errorf("commit batch: %w", err)
	}

	return txs, nil
}

func dateRange(params []CreateParams) (time.Time, time.Time) {
	minDate := params[0].Date
	maxDate := params[0].Date

	for _, p := range params[1:] {
		if p.Date.Before(minDate) {
			minDate = p.Date
		}

		if p.Date.After(maxDate) {
			maxDate = p.Date
		}
	}

	return minDate, maxDate
}

func fromParams(p CreateParams) *Transaction {
	return &Transaction{
		PortfolioID:   p.PortfolioID,
		CashAccountID: p.CashAccountID,
		Type:          p.Type,
		Amount:        p.Type.Signed(p.Amount),
		Date:          p.Date,
		Ticker:        p.Ticker,
		Quantity:      p.Quantity,
		GoldType:      p.GoldType,
		QuantityChi:   p.QuantityChi,
		Note:          p.Note,
	}
}

func paramsToTransactions(params []CreateParams) []*Transaction {
	txs := make([]*Transaction, len(params))
	for i, p := range params {
		txs[i] = fromParams(p)
	}

	return txs
}
