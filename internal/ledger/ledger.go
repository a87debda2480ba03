// Package ledger reduces transaction lists into balances, capital totals and holdings.
// Every function is pure and order independent unless stated otherwise.
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/stash/internal/transaction"
)

// TotalInvested sums external capital put in: DEPOSIT rows and inbound TRANSFER legs.
func TotalInvested(txs []*transaction.Transaction) decimal.Decimal {
	total := decimal.Zero

	for _, tx := range txs {
		if tx.Type == transaction.TypeDeposit || tx.IsInbound() {
			total = total.Add(tx.Amount.Abs())
		}
	}

	return total
}

// TotalWithdrawn sums WITHDRAW rows.
func TotalWithdrawn(txs []*transaction.Transaction) decimal.Decimal {
	total := decimal.Zero

	for _, tx := range txs {
		if tx.Type == transaction.TypeWithdraw {
			total = total.Add(tx.Amount.Abs())
		}
	}

	return total
}

// CashBalance reconstructs a cash account balance. WITHDRAW is stored positive and
// is negated here; TRANSFER legs already carry their direction.
func CashBalance(txs []*transaction.Transaction) decimal.Decimal {
	balance := decimal.Zero

	for _, tx := range txs {
		switch tx.Type {
		case transaction.TypeDeposit:
			balance = balance.Add(tx.Amount.Abs())
		case transaction.TypeWithdraw:
			balance = balance.Sub(tx.Amount.Abs())
		case transaction.TypeTransfer:
			balance = balance.Add(tx.Amount)
		}
	}

	return balance
}

// Holding is the average-cost position in one ticker.
type Holding struct {
	Ticker       string          `json:"ticker"`
	Quantity     decimal.Decimal `json:"quantity"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	AvgCost      decimal.Decimal `json:"avg_cost"`
	RealizedGain decimal.Decimal `json:"realized_gain"`
}

// Holdings replays BUY and SELL rows in ascending date order. A SELL releases cost
// at the current average and books the difference to the proceeds as realized gain.
// Tickers sold down to zero are omitted. Result is sorted by ticker.
func Holdings(txs []*transaction.Transaction) []Holding {
	ordered := chronological(txs)
	positions := make(map[string]*Holding)

	for _, tx := range ordered {
		if tx.Ticker == "" || !tx.Quantity.Valid {
			continue
		}

		qty := tx.Quantity.Decimal.Abs()
		if qty.IsZero() {
			continue
		}

		h, ok := positions[tx.Ticker]
		if !ok {
			h = &Holding{Ticker: tx.Ticker}
			positions[tx.Ticker] = h
		}

		switch tx.Type {
		case transaction.TypeBuy:
			h.Quantity = h.Quantity.Add(qty)
			h.TotalCost = h.TotalCost.Add(tx.Amount.Abs())
		case transaction.TypeSell:
			if h.Quantity.IsZero() {
				continue
			}

			if qty.GreaterThan(h.Quantity) {
				qty = h.Quantity
			}

			released := h.TotalCost.Mul(qty).Div(h.Quantity)
			h.RealizedGain = h.RealizedGain.Add(tx.Amount.Abs().Sub(released))
			h.Quantity = h.Quantity.Sub(qty)
			h.TotalCost = h.TotalCost.Sub(released)
		}
	}

	out := make([]Holding, 0, len(positions))

	for _, h := range positions {
		if !h.Quantity.IsPositive() {
			continue
		}

		h.AvgCost = h.TotalCost.Div(h.Quantity)
		out = append(out, *h)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Ticker < out[j].Ticker })

	return out
}

// GoldPosition is the quantity held in chỉ per gold type.
type GoldPosition struct {
	Branded decimal.Decimal `json:"branded_qty"`
	Private decimal.Decimal `json:"private_qty"`
}

// Value marks the position to market at the given per-chỉ prices.
func (g GoldPosition) Value(branded, private decimal.Decimal) decimal.Decimal {
	return g.Branded.Mul(branded).Add(g.Private.Mul(private))
}

// GoldHoldings adds BUY and DEPOSIT quantities and subtracts SELL and WITHDRAW ones,
// split by gold type. Rows without a gold type or chỉ quantity are ignored.
func GoldHoldings(txs []*transaction.Transaction) GoldPosition {
	var pos GoldPosition

	for _, tx := range txs {
		if !tx.QuantityChi.Valid || !tx.GoldType.Valid() {
			continue
		}

		qty := tx.QuantityChi.Decimal.Abs()

		switch tx.Type {
		case transaction.TypeBuy, transaction.TypeDeposit:
		case transaction.TypeSell, transaction.TypeWithdraw:
			qty = qty.Neg()
		default:
			continue
		}

		if tx.GoldType == transaction.GoldBranded {
			pos.Branded = pos.Branded.Add(qty)
		} else {
			pos.Private = pos.Private.Add(qty)
		}
	}

	return pos
}

// chronological returns a copy sorted by date, stable for same-day rows.
func chronological(txs []*transaction.Transaction) []*transaction.Transaction {
	ordered := make([]*transaction.Transaction, len(txs))
	copy(ordered, txs)

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	return ordered
}
