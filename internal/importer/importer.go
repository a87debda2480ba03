package importer

import (
	"io"

	"github.com/MrJamesThe3rd/stash/internal/transaction"
)

type Format string

const (
	FormatLedger Format = "ledger"
)

// Importer parses a file into ownerless transaction params.
type Importer interface {
	Parse(r io.Reader) ([]transaction.CreateParams, error)
}
