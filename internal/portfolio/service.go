package portfolio

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const defaultCurrency = "VND"

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=portfolio
type Repository interface {
	CreatePortfolio(ctx context.Context, p *Portfolio) error
	GetPortfolio(ctx context.Context, id uuid.UUID) (*Portfolio, error)
	ListPortfolios(ctx context.Context) ([]*Portfolio, error)
	UpdatePortfolio(ctx context.Context, p *Portfolio) error
	DeletePortfolio(ctx context.Context, id uuid.UUID) error

	CreateSnapshot(ctx context.Context, s *Snapshot) error
	ListSnapshots(ctx context.Context, portfolioID uuid.UUID) ([]*Snapshot, error)
	DeleteSnapshot(ctx context.Context, portfolioID, snapshotID uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name     string
	AssetID  uuid.UUID
	Currency string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Portfolio, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalid)
	}

	currency := strings.ToUpper(strings.TrimSpace(params.Currency))
	if currency == "" {
		currency = defaultCurrency
	}

	p := &Portfolio{
		Name:     name,
		AssetID:  params.AssetID,
		Currency: currency,
	}
	if err := s.repo.CreatePortfolio(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// Get loads a portfolio with its asset and resolved valuation strategy.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Portfolio, error) {
	return s.repo.GetPortfolio(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Portfolio, error) {
	return s.repo.ListPortfolios(ctx)
}

func (s *Service) Update(ctx context.Context, p *Portfolio) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}

	return s.repo.UpdatePortfolio(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeletePortfolio(ctx, id)
}

type SnapshotParams struct {
	Date             time.Time
	NAV              decimal.Decimal
	BrandedGoldPrice decimal.NullDecimal
	PrivateGoldPrice decimal.NullDecimal
}

// RecordSnapshot stores an observed NAV for the portfolio. Gold prices must not be negative.
func (s *Service) RecordSnapshot(ctx context.Context, portfolioID uuid.UUID, params SnapshotParams) (*Snapshot, error) {
	if params.Date.IsZero() {
		return nil, fmt.Errorf("%w: snapshot date is required", ErrInvalid)
	}

	if params.NAV.IsNegative() {
		return nil, fmt.Errorf("%w: nav must not be negative", ErrInvalid)
	}

	for _, price := range []decimal.NullDecimal{params.BrandedGoldPrice, params.PrivateGoldPrice} {
		if price.Valid && price.Decimal.IsNegative() {
			return nil, fmt.Errorf("%w: gold price must not be negative", ErrInvalid)
		}
	}

	if _, err := s.repo.GetPortfolio(ctx, portfolioID); err != nil {
		return nil, err
	}

	snap := &Snapshot{
		PortfolioID:      portfolioID,
		Date:             params.Date,
		NAV:              params.NAV,
		BrandedGoldPrice: params.BrandedGoldPrice,
		PrivateGoldPrice: params.PrivateGoldPrice,
	}
	if err := s.repo.CreateSnapshot(ctx, snap); err != nil {
		return nil, err
	}

	return snap, nil
}

func (s *Service) ListSnapshots(ctx context.Context, portfolioID uuid.UUID) ([]*Snapshot, error) {
	return s.repo.ListSnapshots(ctx, portfolioID)
}

func (s *Service) DeleteSnapshot(ctx context.Context, portfolioID, snapshotID uuid.UUID) error {
	return s.repo.DeleteSnapshot(ctx, portfolioID, snapshotID)
}
