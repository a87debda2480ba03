package ledgercsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/stash/internal/encoding"
	"github.com/MrJamesThe3rd/stash/internal/transaction"
)

var dateLayouts = []string{time.DateOnly, "02/01/2006", "02-01-2006"}

// Parser reads ledger CSV files and produces transaction params without an owner.
// It auto-detects the layout by matching column headers against known profiles.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]transaction.CreateParams, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, colMap, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, fmt.Errorf("no matching ledger format found: expected date, type and amount columns")
	}

	return parseRows(profile, colMap, rows[headerIdx+1:], headerIdx+1)
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

func (c colIndex) get(name string) int {
	if name == "" {
		return -1
	}

	if idx, ok := c[name]; ok {
		return idx
	}

	return -1
}

// detectProfile scans rows for a header that matches a known profile.
// Returns the matched profile, column index map, and header row index.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.TrimSpace(cell)
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows extracts params from data rows using the matched profile. Rows without a
// parseable date are treated as footers and skipped; any other bad cell fails the file.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]transaction.CreateParams, error) {
	idx := struct {
		date, typ, amount, ticker, qty, gold, chi, note int
	}{
		date:   cols.get(p.DateCol),
		typ:    cols.get(p.TypeCol),
		amount: cols.get(p.AmountCol),
		ticker: cols.get(p.TickerCol),
		qty:    cols.get(p.QuantityCol),
		gold:   cols.get(p.GoldTypeCol),
		chi:    cols.get(p.QuantityChiCol),
		note:   cols.get(p.NoteCol),
	}

	var params []transaction.CreateParams

	for i, row := range rows {
		rowNum := headerRowNum + i + 1 // 1-based

		date, ok := parseDate(cellValue(row, idx.date))
		if !ok {
			continue
		}

		typ, ok := p.txType(cellValue(row, idx.typ))
		if !ok {
			return nil, fmt.Errorf("row %d: unknown type %q", rowNum, cellValue(row, idx.typ))
		}

		amount, err := parseNumber(cellValue(row, idx.amount), p.Numbers)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid amount %q", rowNum, cellValue(row, idx.amount))
		}

		cp := transaction.CreateParams{
			Type:   typ,
			Amount: amount,
			Date:   date,
			Ticker: strings.ToUpper(cellValue(row, idx.ticker)),
			Note:   cellValue(row, idx.note),
		}

		if cp.Quantity, err = optionalNumber(cellValue(row, idx.qty), p.Numbers); err != nil {
			return nil, fmt.Errorf("row %d: invalid quantity: %w", rowNum, err)
		}

		if cp.QuantityChi, err = optionalNumber(cellValue(row, idx.chi), p.Numbers); err != nil {
			return nil, fmt.Errorf("row %d: invalid chỉ quantity: %w", rowNum, err)
		}

		if s := cellValue(row, idx.gold); s != "" {
			g, ok := p.goldType(s)
			if !ok {
				return nil, fmt.Errorf("row %d: unknown gold type %q", rowNum, s)
			}

			cp.GoldType = g
		}

		params = append(params, cp)
	}

	return params, nil
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func optionalNumber(s string, f numberFormat) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}

	d, err := parseNumber(s, f)
	if err != nil {
		return decimal.NullDecimal{}, err
	}

	return decimal.NewNullDecimal(d), nil
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
