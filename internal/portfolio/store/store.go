package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/stash/internal/asset"
	"github.com/MrJamesThe3rd/stash/internal/portfolio"
)

const foreignKeyViolation = "23503"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectPortfolioColumns = `
	p.id, p.name, p.asset_id, a.name AS asset_name, a.type AS asset_type,
	p.currency, p.created_at, p.updated_at
`

// scanPortfolio reads a portfolio joined with its asset and resolves the valuation
// strategy from the asset type once, here.
func scanPortfolio(s scanner) (*portfolio.Portfolio, error) {
	var p portfolio.Portfolio

	var assetType string

	if err := s.Scan(
		&p.ID, &p.Name, &p.AssetID, &p.AssetName, &assetType,
		&p.Currency, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	p.AssetType = asset.Type(assetType)
	p.Valuation = portfolio.ValuationFor(p.AssetType)

	return &p, nil
}

func (s *Store) CreatePortfolio(ctx context.Context, p *portfolio.Portfolio) error {
	query := `
		WITH inserted AS (
			INSERT INTO portfolios (name, asset_id, currency, created_at, updated_at)
			VALUES ($1, $2, $3, NOW(), NOW())
			RETURNING id, asset_id, created_at, updated_at
		)
		SELECT i.id, i.created_at, i.updated_at, a.name, a.type
		FROM inserted i
		JOIN assets a ON a.id = i.asset_id
	`

	var assetType string

	err := s.db.QueryRowContext(ctx, query, p.Name, p.AssetID, p.Currency).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt, &p.AssetName, &assetType)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return fmt.Errorf("creating portfolio: %w", asset.ErrNotFound)
		}

		return fmt.Errorf("creating portfolio: %w", err)
	}

	p.AssetType = asset.Type(assetType)
	p.Valuation = portfolio.ValuationFor(p.AssetType)

	return nil
}

func (s *Store) GetPortfolio(ctx context.Context, id uuid.UUID) (*portfolio.Portfolio, error) {
	query := `SELECT ` + selectPortfolioColumns + `
		FROM portfolios p
		JOIN assets a ON a.id = p.asset_id
		WHERE p.id = $1`

	p, err := scanPortfolio(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, portfolio.ErrNotFound
		}

		return nil, fmt.Errorf("getting portfolio: %w", err)
	}

	return p, nil
}

func (s *Store) ListPortfolios(ctx context.Context) ([]*portfolio.Portfolio, error) {
	query := `SELECT ` + selectPortfolioColumns + `
		FROM portfolios p
		JOIN assets a ON a.id = p.asset_id
		ORDER BY p.name ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing portfolios: %w", err)
	}
	defer rows.Close()

	var portfolios []*portfolio.Portfolio

	for rows.Next() {
		p, err := scanPortfolio(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning portfolio: %w", err)
		}

		portfolios = append(portfolios, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating portfolios: %w", err)
	}

	return portfolios, nil
}

func (s *Store) UpdatePortfolio(ctx context.Context, p *portfolio.Portfolio) error {
	query := `
		UPDATE portfolios
		SET name = $1, currency = $2, updated_at = NOW()
		WHERE id = $3
	`

	res, err := s.db.ExecContext(ctx, query, p.Name, p.Currency, p.ID)
	if err != nil {
		return fmt.Errorf("updating portfolio: %w", err)
	}

	return expectOne(res, portfolio.ErrNotFound)
}

// DeletePortfolio removes the portfolio together with its snapshots and transactions.
func (s *Store) DeletePortfolio(ctx context.Context, id uuid.UUID) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM snapshots WHERE portfolio_id = $1`, id); err != nil {
		return fmt.Errorf("deleting snapshots: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM transactions WHERE portfolio_id = $1`, id); err != nil {
		return fmt.Errorf("deleting transactions: %w", err)
	}

	res, err := dbTx.ExecContext(ctx, `DELETE FROM portfolios WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting portfolio: %w", err)
	}

	if err := expectOne(res, portfolio.ErrNotFound); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) CreateSnapshot(ctx context.Context, snap *portfolio.Snapshot) error {
	query := `
		INSERT INTO snapshots (portfolio_id, date, nav, branded_gold_price, private_gold_price, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		snap.PortfolioID,
		snap.Date,
		snap.NAV,
		snap.BrandedGoldPrice,
		snap.PrivateGoldPrice,
	).Scan(&snap.ID, &snap.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}

	return nil
}

func (s *Store) ListSnapshots(ctx context.Context, portfolioID uuid.UUID) ([]*portfolio.Snapshot, error) {
	query := `
		SELECT id, portfolio_id, date, nav, branded_gold_price, private_gold_price, created_at
		FROM snapshots
		WHERE portfolio_id = $1
		ORDER BY date ASC, created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []*portfolio.Snapshot

	for rows.Next() {
		var snap portfolio.Snapshot
		if err := rows.Scan(
			&snap.ID, &snap.PortfolioID, &snap.Date, &snap.NAV,
			&snap.BrandedGoldPrice, &snap.PrivateGoldPrice, &snap.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}

		snaps = append(snaps, &snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshots: %w", err)
	}

	return snaps, nil
}

func (s *Store) DeleteSnapshot(ctx context.Context, portfolioID, snapshotID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM snapshots WHERE id = $1 AND portfolio_id = $2`, snapshotID, portfolioID)
	if err != nil {
		return fmt.Errorf("deleting snapshot: %w", err)
	}

	return expectOne(res, portfolio.ErrSnapshotNotFound)
}

func expectOne(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return notFound
	}

	return nil
}
