package analytics

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/stash/internal/cash"
	"github.com/MrJamesThe3rd/stash/internal/performance"
	"github.com/MrJamesThe3rd/stash/internal/portfolio"
)

type PortfolioLister interface {
	List(ctx context.Context) ([]*portfolio.Portfolio, error)
}

type Calculator interface {
	Calculate(ctx context.Context, portfolioID uuid.UUID) (*performance.Summary, error)
}

type CashLister interface {
	ListBalances(ctx context.Context) ([]cash.AccountBalance, error)
}

type Service struct {
	portfolios  PortfolioLister
	calculator  Calculator
	cash        CashLister
	concurrency int
}

func NewService(portfolios PortfolioLister, calculator Calculator, cash CashLister, concurrency int) *Service {
	if concurrency < 1 {
		concurrency = 1
	}

	return &Service{
		portfolios:  portfolios,
		calculator:  calculator,
		cash:        cash,
		concurrency: concurrency,
	}
}

// Summary aggregates the dashboard totals for filter. Portfolios whose performance
// cannot be computed are logged and left out.
func (s *Service) Summary(ctx context.Context, filter string) (*Summary, error) {
	filter = NormalizeFilter(filter)

	var figures []PortfolioFigures

	if filter != FilterCash {
		portfolios, err := s.portfolios.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing portfolios: %w", err)
		}

		figures, err = s.collect(ctx, filter, portfolios)
		if err != nil {
			return nil, err
		}
	}

	var balances []CashFigures

	if includesCash(filter) {
		accounts, err := s.cash.ListBalances(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing cash balances: %w", err)
		}

		for _, a := range accounts {
			balances = append(balances, CashFigures{
				CashAccountID: a.Account.ID,
				Name:          a.Account.Name,
				Balance:       a.Balance,
			})
		}
	}

	summary := Aggregate(filter, figures, balances)

	return &summary, nil
}

func (s *Service) collect(ctx context.Context, filter string, portfolios []*portfolio.Portfolio) ([]PortfolioFigures, error) {
	var selected []*portfolio.Portfolio

	for _, p := range portfolios {
		if IncludesPortfolio(filter, p.AssetName) {
			selected = append(selected, p)
		}
	}

	results := make([]*PortfolioFigures, len(selected))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, p := range selected {
		g.Go(func() error {
			perf, err := s.calculator.Calculate(gctx, p.ID)
			if err != nil {
				slog.Warn("skipping portfolio in analytics", "portfolio_id", p.ID, "error", err)
				return nil
			}

			results[i] = &PortfolioFigures{
				PortfolioID:   p.ID,
				Name:          p.Name,
				AssetName:     p.AssetName,
				TotalInvested: perf.TotalInvested,
				CurrentNAV:    perf.CurrentNAV,
				XIRR:          perf.XIRR,
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	figures := make([]PortfolioFigures, 0, len(results))

	for _, r := range results {
		if r != nil {
			figures = append(figures, *r)
		}
	}

	return figures, nil
}
