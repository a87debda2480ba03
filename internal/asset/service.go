package asset

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("asset not found")
	ErrInvalid  = errors.New("invalid asset")
	ErrInUse    = errors.New("asset is used by a portfolio")
)

// Type classifies an asset and decides how its portfolios are valued.
type Type string

const (
	TypeStock Type = "STOCK"
	TypeGold  Type = "GOLD"
	TypeCash  Type = "CASH"
	TypeOther Type = "OTHER"
)

func (t Type) Valid() bool {
	switch t {
	case TypeStock, TypeGold, TypeCash, TypeOther:
		return true
	}

	return false
}

// Asset is master data naming an asset class, e.g. "Vàng" of type GOLD.
type Asset struct {
	ID        uuid.UUID
	Name      string
	Type      Type
	CreatedAt time.Time
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=asset
type Repository interface {
	CreateAsset(ctx context.Context, a *Asset) error
	GetAsset(ctx context.Context, id uuid.UUID) (*Asset, error)
	ListAssets(ctx context.Context) ([]*Asset, error)
	DeleteAsset(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new asset. Names are trimmed and must be non-empty.
func (s *Service) Create(ctx context.Context, name string, t Type) (*Asset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalid)
	}

	if !t.Valid() {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalid, t)
	}

	a := &Asset{Name: name, Type: t}
	if err := s.repo.CreateAsset(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Asset, error) {
	return s.repo.GetAsset(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Asset, error) {
	return s.repo.ListAssets(ctx)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteAsset(ctx, id)
}
