package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/stash/internal/transaction"
)

type transactionResponse struct {
	ID            uuid.UUID            `json:"id"`
	PortfolioID   *uuid.UUID           `json:"portfolio_id,omitempty"`
	CashAccountID *uuid.UUID           `json:"cash_account_id,omitempty"`
	Type          transaction.Type     `json:"type"`
	Amount        decimal.Decimal      `json:"amount"`
	Date          string               `json:"date"`
	Ticker        string               `json:"ticker,omitempty"`
	Quantity      decimal.NullDecimal  `json:"quantity"`
	GoldType      transaction.GoldType `json:"gold_type,omitempty"`
	QuantityChi   decimal.NullDecimal  `json:"quantity_chi"`
	Note          string               `json:"note,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     *time.Time           `json:"updated_at,omitempty"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:            tx.ID,
		PortfolioID:   tx.PortfolioID,
		CashAccountID: tx.CashAccountID,
		Type:          tx.Type,
		Amount:        tx.Amount,
		Date:          tx.Date.Format(time.DateOnly),
		Ticker:        tx.Ticker,
		Quantity:      tx.Quantity,
		GoldType:      tx.GoldType,
		QuantityChi:   tx.QuantityChi,
		Note:          tx.Note,
		CreatedAt:     tx.CreatedAt,
		UpdatedAt:     tx.UpdatedAt,
	}
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
