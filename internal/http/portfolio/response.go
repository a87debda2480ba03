package portfolio

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/stash/internal/asset"
	"github.com/MrJamesThe3rd/stash/internal/portfolio"
)

type portfolioResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	AssetID   uuid.UUID  `json:"asset_id"`
	AssetName string     `json:"asset_name"`
	AssetType asset.Type `json:"asset_type"`
	Valuation string     `json:"valuation"`
	Currency  string     `json:"currency"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type snapshotResponse struct {
	ID               uuid.UUID        `json:"id"`
	PortfolioID      uuid.UUID        `json:"portfolio_id"`
	Date             string           `json:"date"`
	NAV              decimal.Decimal  `json:"nav"`
	BrandedGoldPrice *decimal.Decimal `json:"branded_gold_price,omitempty"`
	PrivateGoldPrice *decimal.Decimal `json:"private_gold_price,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
}

func toResponse(p *portfolio.Portfolio) portfolioResponse {
	return portfolioResponse{
		ID:        p.ID,
		Name:      p.Name,
		AssetID:   p.AssetID,
		AssetName: p.AssetName,
		AssetType: p.AssetType,
		Valuation: p.Valuation.String(),
		Currency:  p.Currency,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toResponseList(ps []*portfolio.Portfolio) []portfolioResponse {
	resp := make([]portfolioResponse, len(ps))
	for i, p := range ps {
		resp[i] = toResponse(p)
	}

	return resp
}

func toSnapshotResponse(s *portfolio.Snapshot) snapshotResponse {
	return snapshotResponse{
		ID:               s.ID,
		PortfolioID:      s.PortfolioID,
		Date:             s.Date.Format(time.DateOnly),
		NAV:              s.NAV,
		BrandedGoldPrice: nullable(s.BrandedGoldPrice),
		PrivateGoldPrice: nullable(s.PrivateGoldPrice),
		CreatedAt:        s.CreatedAt,
	}
}

func nullable(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}

	return new(d.Decimal)
}
