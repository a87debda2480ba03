package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/stash/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanTransaction reads a transaction row from the scanner.
// Expected column order matches selectTransactionColumns.
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	var typeStr string

	var ticker, goldType, note sql.NullString

	if err := s.Scan(
		&tx.ID, &tx.PortfolioID, &tx.CashAccountID, &typeStr, &tx.Amount, &tx.Date,
		&ticker, &tx.Quantity, &goldType, &tx.QuantityChi, &note,
		&tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		return nil, err
	}

	tx.Type = transaction.Type(typeStr)
	tx.Ticker = ticker.String
	tx.GoldType = transaction.GoldType(goldType.String)
	tx.Note = note.String

	return &tx, nil
}

const selectTransactionColumns = `
	t.id, t.portfolio_id, t.cash_account_id, t.type, t.amount, t.date,
	t.ticker, t.quantity, t.gold_type, t.quantity_chi, t.note,
	t.created_at, t.updated_at
`

const insertTransaction = `
	INSERT INTO transactions (portfolio_id, cash_account_id, type, amount, date, ticker, quantity, gold_type, quantity_chi, note, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	RETURNING id, created_at, updated_at
`

func insertArgs(tx *transaction.Transaction) []any {
	return []any{
		tx.PortfolioID,
		tx.CashAccountID,
		tx.Type,
		tx.Amount,
		tx.Date,
		nullString(tx.Ticker),
		tx.Quantity,
		nullString(string(tx.GoldType)),
		tx.QuantityChi,
		nullString(tx.Note),
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (s *Store) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	err := s.db.QueryRowContext(ctx, insertTransaction, insertArgs(tx)...).
		Scan(&tx.ID, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", ownerError(err))
	}

	return nil
}

const foreignKeyViolation = "23503"

// ownerError reports a missing portfolio or cash account as an invalid owner.
func ownerError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		return transaction.ErrInvalidOwner
	}

	return err
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.id = $1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.PortfolioID != nil {
		query += fmt.Sprintf(" AND t.portfolio_id = $%d", argIdx)

		args = append(args, *filter.PortfolioID)
		argIdx++
	}

	if filter.CashAccountID != nil {
		query += fmt.Sprintf(" AND t.cash_account_id = $%d", argIdx)

		args = append(args, *filter.CashAccountID)
		argIdx++
	}

	if filter.Type != nil {
		query += fmt.Sprintf(" AND t.type = $%d", argIdx)

		args = append(args, *filter.Type)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND t.date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND t.date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY t.date ASC, t.created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		UPDATE transactions
		SET type = $1, amount = $2, date = $3, ticker = $4, quantity = $5,
			gold_type = $6, quantity_chi = $7, note = $8, updated_at = NOW()
		WHERE id = $9
	`

	res, err := s.db.ExecContext(ctx, query,
		tx.Type,
		tx.Amount,
		tx.Date,
		nullString(tx.Ticker),
		tx.Quantity,
		nullString(string(tx.GoldType)),
		tx.QuantityChi,
		nullString(tx.Note),
		tx.ID,
	)
	if err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}

	return expectOne(res, transaction.ErrNotFound)
}

func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	return expectOne(res, transaction.ErrNotFound)
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

func batchLockKey(minDate, maxDate time.Time) int64 {
	h := fnv.New64a()
	h.Write([]byte(minDate.Format(time.DateOnly)))
	h.Write([]byte{0})
	h.Write([]byte(maxDate.Format(time.DateOnly)))

	return int64(h.Sum64())
}

type batchTx struct {
	tx *sql.Tx
}

func (s *Store) BeginBatch(ctx context.Context, minDate, maxDate time.Time) (transaction.BatchTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning batch tx: %w", err)
	}

	lockKey := batchLockKey(minDate, maxDate)
	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", lockKey); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring batch lock: %w", err)
	}

	return &batchTx{tx: dbTx}, nil
}

func (btx *batchTx) Commit() error   { return btx.tx.Commit() }
func (btx *batchTx) Rollback() error { return btx.tx.Rollback() }

type lookupKey struct {
	Owner  uuid.UUID
	Date   string
	Type   transaction.Type
	Amount string
	Ticker string
}

func ownerOf(portfolioID, cashAccountID *uuid.UUID) uuid.UUID {
	if portfolioID != nil {
		return *portfolioID
	}

	if cashAccountID != nil {
		return *cashAccountID
	}

	return uuid.Nil
}

func (btx *batchTx) FindDuplicates(ctx context.Context, params []transaction.CreateParams) ([]*transaction.Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	minDate := params[0].Date
	maxDate := params[0].Date
	keySet := make(map[lookupKey]struct{}, len(params))

	for _, p := range params {
		if p.Date.Before(minDate) {
			minDate = p.Date
		}

		if p.Date.After(maxDate) {
			maxDate = p.Date
		}

		keySet[lookupKey{
			Owner:  ownerOf(p.PortfolioID, p.CashAccountID),
			Date:   p.Date.Format(time.DateOnly),
			Type:   p.Type,
			Amount: p.Amount.String(),
			Ticker: p.Ticker,
		}] = struct{}{}
	}

	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.date >= $1 AND t.date <= $2
		ORDER BY t.date ASC`

	rows, err := btx.tx.QueryContext(ctx, query, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("finding duplicates: %w", err)
	}
	defer rows.Close()

	var duplicates []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		k := lookupKey{
			Owner:  ownerOf(tx.PortfolioID, tx.CashAccountID),
			Date:   tx.Date.Format(time.DateOnly),
			Type:   tx.Type,
			Amount: tx.Amount.String(),
			Ticker: tx.Ticker,
		}

		if _, found := keySet[k]; !found {
			continue
		}

		duplicates = append(duplicates, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating duplicate rows: %w", err)
	}

	return duplicates, nil
}

func (btx *batchTx) CreateTransactions(ctx context.Context, txs []*transaction.Transaction) error {
	for _, tx := range txs {
		err := btx.tx.QueryRowContext(ctx, insertTransaction, insertArgs(tx)...).
			Scan(&tx.ID, &tx.CreatedAt, &tx.UpdatedAt)
		if err != nil {
			return fmt.Errorf("creating transaction: %w", ownerError(err))
		}
	}

	return nil
}
