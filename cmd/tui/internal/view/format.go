package view

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/stash/internal/currency"
)

const dbTimeout = 5 * time.Second

// FormatAmount formats an amount in the given ISO currency.
func FormatAmount(d decimal.Decimal, code string) string {
	return currency.Format(d, code)
}

// FormatPercent renders a percentage with two decimals, or n/a when absent.
func FormatPercent(d *decimal.Decimal) string {
	if d == nil {
		return "n/a"
	}

	return d.StringFixed(2) + "%"
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
