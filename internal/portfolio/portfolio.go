package portfolio

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/stash/internal/asset"
)

var (
	ErrNotFound         = errors.New("portfolio not found")
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrInvalid          = errors.New("invalid portfolio")
)

// Valuation is the strategy used to derive a portfolio's current NAV.
type Valuation int

const (
	// ValuationStandard reads NAV directly from the latest snapshot.
	ValuationStandard Valuation = iota
	// ValuationGold marks gold quantities to the latest snapshot's per-chỉ prices.
	ValuationGold
)

func (v Valuation) String() string {
	if v == ValuationGold {
		return "gold"
	}

	return "standard"
}

// ValuationFor resolves the valuation strategy from the portfolio's asset type.
func ValuationFor(t asset.Type) Valuation {
	if t == asset.TypeGold {
		return ValuationGold
	}

	return ValuationStandard
}

type Portfolio struct {
	ID        uuid.UUID
	Name      string
	AssetID   uuid.UUID
	AssetName string
	AssetType asset.Type
	Valuation Valuation
	Currency  string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// Snapshot is an observed net asset value of a portfolio on a given day.
type Snapshot struct {
	ID               uuid.UUID
	PortfolioID      uuid.UUID
	Date             time.Time
	NAV              decimal.Decimal
	BrandedGoldPrice decimal.NullDecimal
	PrivateGoldPrice decimal.NullDecimal
	CreatedAt        time.Time
}

// HasGoldPrices reports whether at least one per-chỉ price was recorded.
func (s *Snapshot) HasGoldPrices() bool {
	return s.BrandedGoldPrice.Valid || s.PrivateGoldPrice.Valid
}

// Supersedes reports whether s should replace other as the snapshot of record.
// A later day always wins; on the same day the most recently created one wins,
// and equal creation times favour s, the later-inserted candidate.
func (s *Snapshot) Supersedes(other *Snapshot) bool {
	day, otherDay := s.Date.Format(time.DateOnly), other.Date.Format(time.DateOnly)
	if day != otherDay {
		return day > otherDay
	}

	return !s.CreatedAt.Before(other.CreatedAt)
}

// Latest returns the snapshot of record for the most recent day, or nil.
func Latest(snaps []*Snapshot) *Snapshot {
	var latest *Snapshot

	for _, s := range snaps {
		if latest == nil || s.Supersedes(latest) {
			latest = s
		}
	}

	return latest
}
