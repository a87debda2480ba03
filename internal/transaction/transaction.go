package transaction

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound     = errors.New("transaction not found")
	ErrInvalidOwner = errors.New("transaction must belong to exactly one portfolio or cash account")
	ErrInvalidType  = errors.New("invalid transaction type")
	ErrZeroAmount   = errors.New("amount must not be zero")

	ErrInvalidGoldType = errors.New("invalid gold type")
	ErrInvalidTransfer = errors.New("invalid transfer")
)

// Type represents the kind of ledger event.
type Type string

const (
	TypeDeposit  Type = "DEPOSIT"
	TypeWithdraw Type = "WITHDRAW"
	TypeTransfer Type = "TRANSFER"
	TypeBuy      Type = "BUY"
	TypeSell     Type = "SELL"
	TypeFee      Type = "FEE"
)

func (t Type) Valid() bool {
	switch t {
	case TypeDeposit, TypeWithdraw, TypeTransfer, TypeBuy, TypeSell, TypeFee:
		return true
	}

	return false
}

// Signed applies the stored sign convention for this type to amount.
// DEPOSIT, WITHDRAW and SELL are stored positive; BUY and FEE negative.
// TRANSFER legs keep the sign they were given.
func (t Type) Signed(amount decimal.Decimal) decimal.Decimal {
	switch t {
	case TypeDeposit, TypeWithdraw, TypeSell:
		return amount.Abs()
	case TypeBuy, TypeFee:
		return amount.Abs().Neg()
	}

	return amount
}

// GoldType distinguishes the two gold products tracked in chỉ.
type GoldType string

const (
	GoldBranded GoldType = "BRANDED"
	GoldPrivate GoldType = "PRIVATE"
)

func (g GoldType) Valid() bool {
	return g == GoldBranded || g == GoldPrivate
}

// Transaction is an immutable dated ledger event owned by either a portfolio or a cash account.
type Transaction struct {
	ID            uuid.UUID
	PortfolioID   *uuid.UUID
	CashAccountID *uuid.UUID
	Type          Type
	Amount        decimal.Decimal // pre-signed, see Type.Signed
	Date          time.Time
	Ticker        string
	Quantity      decimal.NullDecimal
	GoldType      GoldType
	QuantityChi   decimal.NullDecimal
	Note          string
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// IsInbound reports whether a TRANSFER leg moves money into its owner.
func (t *Transaction) IsInbound() bool {
	return t.Type == TypeTransfer && t.Amount.IsPositive()
}
