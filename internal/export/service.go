package export

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/stash/internal/currency"
	"github.com/MrJamesThe3rd/stash/internal/performance"
	"github.com/MrJamesThe3rd/stash/internal/portfolio"
	"github.com/MrJamesThe3rd/stash/internal/transaction"
)

const (
	TransactionsFile = "transactions.csv"
	SnapshotsFile    = "snapshots.csv"
	SummaryFile      = "summary.txt"
)

var (
	transactionHeader = []string{"date", "type", "amount", "ticker", "quantity", "gold_type", "quantity_chi", "note"}
	snapshotHeader    = []string{"date", "nav", "branded_gold_price", "private_gold_price"}
)

type Loader interface {
	Load(ctx context.Context, portfolioID uuid.UUID) (*performance.Inputs, error)
}

// Service exports a portfolio's ledger in the layout the importer reads back.
type Service struct {
	loader Loader
	guess  float64
	now    func() time.Time
}

func NewService(loader Loader, guess float64) *Service {
	return &Service{loader: loader, guess: guess, now: time.Now}
}

// Bundle is everything written for one portfolio.
type Bundle struct {
	Inputs  *performance.Inputs
	Summary *performance.Summary
}

// Export loads a portfolio and computes its summary. A gold portfolio whose NAV cannot
// be derived is still exported, without a summary.
func (s *Service) Export(ctx context.Context, portfolioID uuid.UUID) (*Bundle, error) {
	in, err := s.loader.Load(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	b := &Bundle{Inputs: in}

	summary, err := performance.Calculate(in.Portfolio, in.Transactions, in.Snapshots, s.now(), s.guess)
	if err == nil {
		b.Summary = summary
	}

	return b, nil
}

// Filename is the suggested archive name for the bundle.
func (b *Bundle) Filename(now time.Time) string {
	safe := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}

		return '_'
	}, b.Inputs.Portfolio.Name)

	return fmt.Sprintf("%s_%s.zip", safe, now.Format("20060102"))
}

// WriteZip writes the ledger CSVs and the text summary as a zip archive.
func (b *Bundle) WriteZip(w io.Writer) error {
	zw := zip.NewWriter(w)

	files := []struct {
		name  string
		write func(io.Writer) error
	}{
		{TransactionsFile, func(w io.Writer) error { return WriteTransactions(w, b.Inputs.Transactions) }},
		{SnapshotsFile, func(w io.Writer) error { return WriteSnapshots(w, b.Inputs.Snapshots) }},
		{SummaryFile, func(w io.Writer) error {
			_, err := io.WriteString(w, Summary(b.Inputs.Portfolio, b.Summary))
			return err
		}},
	}

	for _, f := range files {
		fw, err := zw.Create(f.name)
		if err != nil {
			return fmt.Errorf("creating %s: %w", f.name, err)
		}

		if err := f.write(fw); err != nil {
			return fmt.Errorf("writing %s: %w", f.name, err)
		}
	}

	return zw.Close()
}

// WriteFile exports a portfolio into a zip under dir and returns its path.
func (s *Service) WriteFile(ctx context.Context, portfolioID uuid.UUID, dir string) (string, error) {
	b, err := s.Export(ctx, portfolioID)
	if err != nil {
		return "", err
	}

	return b.WriteFile(dir, s.now())
}

// WriteFile writes the archive into dir, creating it if needed, and returns its path.
func (b *Bundle) WriteFile(dir string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(dir, b.Filename(now))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}

	if err := b.WriteZip(f); err != nil {
		f.Close()
		return "", err
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing file: %w", err)
	}

	return path, nil
}

// WriteTransactions writes txs in the ledger import layout.
func WriteTransactions(w io.Writer, txs []*transaction.Transaction) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(transactionHeader); err != nil {
		return err
	}

	for _, tx := range txs {
		record := []string{
			tx.Date.Format(time.DateOnly),
			string(tx.Type),
			tx.Amount.String(),
			tx.Ticker,
			nullString(tx.Quantity),
			string(tx.GoldType),
			nullString(tx.QuantityChi),
			tx.Note,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}

func WriteSnapshots(w io.Writer, snaps []*portfolio.Snapshot) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(snapshotHeader); err != nil {
		return err
	}

	for _, s := range snaps {
		record := []string{
			s.Date.Format(time.DateOnly),
			s.NAV.String(),
			nullString(s.BrandedGoldPrice),
			nullString(s.PrivateGoldPrice),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}

// Summary renders the performance summary as plain text in the portfolio's currency.
func Summary(p *portfolio.Portfolio, s *performance.Summary) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s (%s)\n", p.Name, p.AssetName)

	if s == nil {
		sb.WriteString("Current value unavailable: record gold prices on the latest snapshot.\n")
		return sb.String()
	}

	money := func(d decimal.Decimal) string { return currency.Format(d, p.Currency) }

	fmt.Fprintf(&sb, "Invested:   %s\n", money(s.TotalInvested))
	fmt.Fprintf(&sb, "Withdrawn:  %s\n", money(s.TotalWithdrawn))
	fmt.Fprintf(&sb, "Value:      %s\n", money(s.CurrentNAV))
	fmt.Fprintf(&sb, "Equity:     %s\n", money(s.TotalEquity))
	fmt.Fprintf(&sb, "Profit:     %s (%s%%)\n", money(s.Profit), s.ProfitPercentage.StringFixed(2))

	if s.XIRR != nil {
		fmt.Fprintf(&sb, "XIRR:       %s%%\n", s.XIRR.StringFixed(2))
	} else {
		sb.WriteString("XIRR:       n/a\n")
	}

	return sb.String()
}

func nullString(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}

	return d.Decimal.String()
}
