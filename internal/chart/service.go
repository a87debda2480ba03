package chart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/stash/internal/performance"
)

type Loader interface {
	Load(ctx context.Context, portfolioID uuid.UUID) (*performance.Inputs, error)
}

type Service struct {
	loader Loader
	now    func() time.Time
}

func NewService(loader Loader) *Service {
	return &Service{loader: loader, now: time.Now}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type Summary struct {
	Date           string          `json:"date"`
	TotalInvested  decimal.Decimal `json:"total_invested"`
	TotalWithdrawn decimal.Decimal `json:"total_withdrawn"`
	CurrentNAV     decimal.Decimal `json:"current_nav"`
	TotalEquity    decimal.Decimal `json:"total_equity"`
	Profit         decimal.Decimal `json:"profit"`
}

type Chart struct {
	PortfolioID   uuid.UUID `json:"portfolio_id"`
	PortfolioName string    `json:"portfolio_name"`
	Data          []Point   `json:"data"`
	Summary       *Summary  `json:"summary"`
	HasData       bool      `json:"hasData"`
	Message       string    `json:"message,omitempty"`
}

// Get builds the chart for a portfolio. The summary is taken from the full series
// before the range filter is applied.
func (s *Service) Get(ctx context.Context, portfolioID uuid.UUID, r Range) (*Chart, error) {
	in, err := s.loader.Load(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	series := Generate(in.Portfolio, in.Transactions, in.Snapshots)

	c := &Chart{
		PortfolioID:   in.Portfolio.ID,
		PortfolioName: in.Portfolio.Name,
		Data:          Filter(series.Points, r, s.now()),
		HasData:       series.HasData,
		Message:       series.Message,
	}

	if n := len(series.Points); n > 0 {
		last := series.Points[n-1]
		c.Summary = &Summary{
			Date:           last.Date.Format(time.DateOnly),
			TotalInvested:  last.TotalInvested,
			TotalWithdrawn: last.TotalWithdrawn,
			CurrentNAV:     last.CurrentNAV,
			TotalEquity:    last.TotalEquity,
			Profit:         last.CurrentNAV.Sub(last.TotalInvested),
		}
	}

	return c, nil
}
