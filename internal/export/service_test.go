package export_test

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/stash/internal/export"
	"github.com/MrJamesThe3rd/stash/internal/importer/ledgercsv"
	"github.com/MrJamesThe3rd/stash/internal/performance"
	"github.com/MrJamesThe3rd/stash/internal/portfolio"
	"github.com/MrJamesThe3rd/stash/internal/transaction"
	"github.com/MrJamesThe3rd/stash/internal/xirr"
)

type fakeLoader struct {
	in *performance.Inputs
}

func (f fakeLoader) Load(context.Context, uuid.UUID) (*performance.Inputs, error) {
	return f.in, nil
}

func date(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleInputs() *performance.Inputs {
	p := &portfolio.Portfolio{ID: uuid.New(), Name: "US Stocks", AssetName: "Stocks", Currency: "USD"}

	buy := &transaction.Transaction{
		Type:     transaction.TypeBuy,
		Amount:   decimal.RequireFromString("-500.25"),
		Date:     date(1, 2),
		Ticker:   "AAPL",
		Quantity: decimal.NewNullDecimal(decimal.NewFromInt(3)),
		Note:     "first; lot",
	}

	return &performance.Inputs{
		Portfolio: p,
		Transactions: []*transaction.Transaction{
			{Type: transaction.TypeDeposit, Amount: decimal.NewFromInt(1000), Date: date(1, 1)},
			buy,
		},
		Snapshots: []*portfolio.Snapshot{
			{Date: date(6, 1), NAV: decimal.NewFromInt(1100)},
		},
	}
}

func TestWriteTransactions_RoundTrip(t *testing.T) {
	in := sampleInputs()

	var buf bytes.Buffer
	require.NoError(t, export.WriteTransactions(&buf, in.Transactions))

	params, err := ledgercsv.NewParser().Parse(&buf)
	require.NoError(t, err)
	require.Len(t, params, len(in.Transactions))

	for i, tx := range in.Transactions {
		assert.Equal(t, tx.Type, params[i].Type)
		assert.True(t, tx.Amount.Equal(params[i].Amount))
		assert.Equal(t, tx.Date, params[i].Date)
		assert.Equal(t, tx.Ticker, params[i].Ticker)
		assert.Equal(t, tx.Note, params[i].Note)
		assert.Equal(t, tx.Quantity.Valid, params[i].Quantity.Valid)
	}
}

func TestWriteSnapshots(t *testing.T) {
	snap := &portfolio.Snapshot{
		Date:             date(3, 1),
		NAV:              decimal.NewFromInt(16_000_000),
		BrandedGoldPrice: decimal.NewNullDecimal(decimal.NewFromInt(8_000_000)),
	}

	var buf bytes.Buffer
	require.NoError(t, export.WriteSnapshots(&buf, []*portfolio.Snapshot{snap}))

	assert.Equal(t,
		"date;nav;branded_gold_price;private_gold_price\n2024-03-01;16000000;8000000;\n",
		buf.String())
}

func TestWriteSnapshots_RoundTrip(t *testing.T) {
	snaps := []*portfolio.Snapshot{
		{Date: date(3, 1), NAV: decimal.NewFromInt(16_000_000), BrandedGoldPrice: decimal.NewNullDecimal(decimal.NewFromInt(8_000_000))},
		{Date: date(4, 1), NAV: decimal.RequireFromString("1100.25")},
	}

	var buf bytes.Buffer
	require.NoError(t, export.WriteSnapshots(&buf, snaps))

	params, err := ledgercsv.NewSnapshotParser().Parse(&buf)
	require.NoError(t, err)
	require.Len(t, params, len(snaps))

	for i, s := range snaps {
		assert.Equal(t, s.Date, params[i].Date)
		assert.True(t, s.NAV.Equal(params[i].NAV))
		assert.Equal(t, s.BrandedGoldPrice.Valid, params[i].BrandedGoldPrice.Valid)
		assert.Equal(t, s.PrivateGoldPrice.Valid, params[i].PrivateGoldPrice.Valid)
	}
}

func TestBundle_WriteZip(t *testing.T) {
	in := sampleInputs()
	svc := export.NewService(fakeLoader{in: in}, xirr.DefaultGuess)

	b, err := svc.Export(context.Background(), in.Portfolio.ID)
	require.NoError(t, err)
	require.NotNil(t, b.Summary)

	var buf bytes.Buffer
	require.NoError(t, b.WriteZip(&buf))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	contents := make(map[string]string)

	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()

		contents[f.Name] = string(data)
	}

	require.Contains(t, contents, export.TransactionsFile)
	require.Contains(t, contents, export.SnapshotsFile)
	require.Contains(t, contents, export.SummaryFile)

	assert.Contains(t, contents[export.TransactionsFile], "2024-01-02;BUY;-500.25;AAPL;3;;;")
	assert.Contains(t, contents[export.SummaryFile], "US Stocks (Stocks)")
	assert.Contains(t, contents[export.SummaryFile], "Invested:   $1,000.00")
	assert.Contains(t, contents[export.SummaryFile], "Value:      $1,100.00")
}

func TestSummary_Unavailable(t *testing.T) {
	p := &portfolio.Portfolio{Name: "Gold", AssetName: "Vàng"}

	got := export.Summary(p, nil)
	assert.Contains(t, got, "Gold (Vàng)")
	assert.Contains(t, got, "unavailable")
}

func TestService_WriteFile(t *testing.T) {
	in := sampleInputs()
	dir := t.TempDir()

	svc := export.NewService(fakeLoader{in: in}, xirr.DefaultGuess)

	path, err := svc.WriteFile(context.Background(), in.Portfolio.ID, filepath.Join(dir, "out"))
	require.NoError(t, err)

	assert.Equal(t, "US_Stocks_", filepath.Base(path)[:len("US_Stocks_")])

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
