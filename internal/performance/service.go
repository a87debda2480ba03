package performance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/stash/internal/ledger"
	"github.com/MrJamesThe3rd/stash/internal/portfolio"
	"github.com/MrJamesThe3rd/stash/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=reader_mock.go -package=performance
type PortfolioReader interface {
	Get(ctx context.Context, id uuid.UUID) (*portfolio.Portfolio, error)
	ListSnapshots(ctx context.Context, portfolioID uuid.UUID) ([]*portfolio.Snapshot, error)
}

type TransactionReader interface {
	List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

type Service struct {
	portfolios   PortfolioReader
	transactions TransactionReader
	guess        float64
	now          func() time.Time
}

func NewService(portfolios PortfolioReader, transactions TransactionReader, guess float64) *Service {
	return &Service{
		portfolios:   portfolios,
		transactions: transactions,
		guess:        guess,
		now:          time.Now,
	}
}

// WithClock overrides the clock used for the terminal cash flow.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Inputs is everything loaded for one portfolio.
type Inputs struct {
	Portfolio    *portfolio.Portfolio
	Transactions []*transaction.Transaction
	Snapshots    []*portfolio.Snapshot
}

// Load fetches a portfolio together with its transactions and snapshots.
func (s *Service) Load(ctx context.Context, portfolioID uuid.UUID) (*Inputs, error) {
	p, err := s.portfolios.Get(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	txs, err := s.transactions.List(ctx, transaction.ListFilter{PortfolioID: &portfolioID})
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	snaps, err := s.portfolios.ListSnapshots(ctx, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}

	return &Inputs{Portfolio: p, Transactions: txs, Snapshots: snaps}, nil
}

func (s *Service) Calculate(ctx context.Context, portfolioID uuid.UUID) (*Summary, error) {
	in, err := s.Load(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	return Calculate(in.Portfolio, in.Transactions, in.Snapshots, s.now(), s.guess)
}

type HoldingsReport struct {
	PortfolioID uuid.UUID            `json:"portfolio_id"`
	Holdings    []ledger.Holding     `json:"holdings"`
	Gold        *ledger.GoldPosition `json:"gold,omitempty"`
}

// Holdings returns the average-cost positions and, for gold portfolios, the chỉ position.
func (s *Service) Holdings(ctx context.Context, portfolioID uuid.UUID) (*HoldingsReport, error) {
	in, err := s.Load(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	report := &HoldingsReport{
		PortfolioID: portfolioID,
		Holdings:    ledger.Holdings(in.Transactions),
	}

	if in.Portfolio.Valuation == portfolio.ValuationGold {
		pos := ledger.GoldHoldings(in.Transactions)
		report.Gold = &pos
	}

	return report, nil
}
