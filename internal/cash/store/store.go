package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/stash/internal/cash"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateAccount(ctx context.Context, a *cash.Account) error {
	query := `
		INSERT INTO cash_accounts (name, currency, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	if err := s.db.QueryRowContext(ctx, query, a.Name, a.Currency).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return fmt.Errorf("creating cash account: %w", err)
	}

	return nil
}

func (s *Store) GetAccount(ctx context.Context, id uuid.UUID) (*cash.Account, error) {
	query := `SELECT id, name, currency, created_at, updated_at FROM cash_accounts WHERE id = $1`

	var a cash.Account

	err := s.db.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.Name, &a.Currency, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, cash.ErrNotFound
		}

		return nil, fmt.Errorf("getting cash account: %w", err)
	}

	return &a, nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]*cash.Account, error) {
	query := `SELECT id, name, currency, created_at, updated_at FROM cash_accounts ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing cash accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*cash.Account

	for rows.Next() {
		var a cash.Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Currency, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning cash account: %w", err)
		}

		accounts = append(accounts, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cash accounts: %w", err)
	}

	return accounts, nil
}

// DeleteAccount removes the account and its ledger. Transfer legs on the other side are kept.
func (s *Store) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM transactions WHERE cash_account_id = $1`, id); err != nil {
		return fmt.Errorf("deleting cash transactions: %w", err)
	}

	res, err := dbTx.ExecContext(ctx, `DELETE FROM cash_accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting cash account: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return cash.ErrNotFound
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}
