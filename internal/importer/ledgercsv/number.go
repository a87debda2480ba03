package ledgercsv

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseNumber parses s according to the file's number format.
// Examples: plain "-1234.56", grouped "1.234.567,89" or "-588,74".
func parseNumber(s string, f numberFormat) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), " ", "")

	if f == numberGrouped {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	}

	return decimal.NewFromString(clean)
}
