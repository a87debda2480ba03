package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/stash/internal/asset"
)

const foreignKeyViolation = "23503"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateAsset(ctx context.Context, a *asset.Asset) error {
	query := `
		INSERT INTO assets (name, type, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, created_at
	`

	if err := s.db.QueryRowContext(ctx, query, a.Name, a.Type).Scan(&a.ID, &a.CreatedAt); err != nil {
		return fmt.Errorf("creating asset: %w", err)
	}

	return nil
}

func (s *Store) GetAsset(ctx context.Context, id uuid.UUID) (*asset.Asset, error) {
	query := `SELECT id, name, type, created_at FROM assets WHERE id = $1`

	var a asset.Asset

	err := s.db.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.Name, &a.Type, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, asset.ErrNotFound
		}

		return nil, fmt.Errorf("getting asset: %w", err)
	}

	return &a, nil
}

func (s *Store) ListAssets(ctx context.Context) ([]*asset.Asset, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, type, created_at FROM assets ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing assets: %w", err)
	}
	defer rows.Close()

	var assets []*asset.Asset

	for rows.Next() {
		var a asset.Asset
		if err := rows.Scan(&a.ID, &a.Name, &a.Type, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning asset: %w", err)
		}

		assets = append(assets, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assets: %w", err)
	}

	return assets, nil
}

func (s *Store) DeleteAsset(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return asset.ErrInUse
		}

		return fmt.Errorf("deleting asset: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return asset.ErrNotFound
	}

	return nil
}
