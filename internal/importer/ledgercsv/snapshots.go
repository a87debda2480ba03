package ledgercsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	enc "github.com/MrJamesThe3rd/stash/internal/encoding"
	"github.com/MrJamesThe3rd/stash/internal/portfolio"
)

var snapshotRequiredCols = []string{"date", "nav"}

// SnapshotParser reads the snapshots.csv layout written by the exporter.
type SnapshotParser struct{}

func NewSnapshotParser() *SnapshotParser {
	return &SnapshotParser{}
}

func (p *SnapshotParser) Parse(r io.Reader) ([]portfolio.SnapshotParams, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no snapshot header found: expected date and nav columns")
	}

	cols := make(colIndex)
	for i, cell := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(cell))] = i
	}

	for _, name := range snapshotRequiredCols {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("no snapshot header found: missing %s column", name)
		}
	}

	var (
		dateIdx    = cols.get("date")
		navIdx     = cols.get("nav")
		brandedIdx = cols.get("branded_gold_price")
		privateIdx = cols.get("private_gold_price")
		params     []portfolio.SnapshotParams
	)

	for i, row := range rows[1:] {
		rowNum := i + 2

		date, ok := parseDate(cellValue(row, dateIdx))
		if !ok {
			continue
		}

		nav, err := parseNumber(cellValue(row, navIdx), numberPlain)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid nav %q", rowNum, cellValue(row, navIdx))
		}

		sp := portfolio.SnapshotParams{Date: date, NAV: nav}

		if sp.BrandedGoldPrice, err = optionalNumber(cellValue(row, brandedIdx), numberPlain); err != nil {
			return nil, fmt.Errorf("row %d: invalid branded gold price: %w", rowNum, err)
		}

		if sp.PrivateGoldPrice, err = optionalNumber(cellValue(row, privateIdx), numberPlain); err != nil {
			return nil, fmt.Errorf("row %d: invalid private gold price: %w", rowNum, err)
		}

		params = append(params, sp)
	}

	return params, nil
}
