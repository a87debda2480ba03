package importer

import (
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/stash/internal/importer/ledgercsv"
	"github.com/MrJamesThe3rd/stash/internal/portfolio"
	"github.com/MrJamesThe3rd/stash/internal/transaction"
)

type Service struct {
	ledgerImporter   Importer
	snapshotImporter *ledgercsv.SnapshotParser
}

func NewService() *Service {
	return &Service{
		ledgerImporter:   ledgercsv.NewParser(),
		snapshotImporter: ledgercsv.NewSnapshotParser(),
	}
}

// ImportSnapshots parses a snapshots.csv file as written by the exporter.
func (s *Service) ImportSnapshots(r io.Reader) ([]portfolio.SnapshotParams, error) {
	return s.snapshotImporter.Parse(r)
}

// Import parses r in the given format and assigns every row to owner.
// An empty format means the ledger layout.
func (s *Service) Import(format Format, owner transaction.Endpoint, r io.Reader) ([]transaction.CreateParams, error) {
	if (owner.PortfolioID == nil) == (owner.CashAccountID == nil) {
		return nil, transaction.ErrInvalidOwner
	}

	var importer Importer

	switch format {
	case FormatLedger, "":
		importer = s.ledgerImporter
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}

	params, err := importer.Parse(r)
	if err != nil {
		return nil, err
	}

	for i := range params {
		params[i].PortfolioID = owner.PortfolioID
		params[i].CashAccountID = owner.CashAccountID
	}

	return params, nil
}
