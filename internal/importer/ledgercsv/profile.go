package ledgercsv

import (
	"strings"

	"github.com/MrJamesThe3rd/stash/internal/transaction"
)

// numberFormat determines how amounts and quantities are written in a file.
type numberFormat int

const (
	// numberPlain uses a dot for decimals and no grouping, e.g. "-1234.5".
	numberPlain numberFormat = iota
	// numberGrouped uses dots for thousands and a comma for decimals, e.g. "1.234.567,5".
	numberGrouped
)

// Profile describes the column layout of a ledger CSV.
// Adding a new layout is just adding a new Profile to the profiles slice.
type Profile struct {
	Name           string
	DateCol        string
	TypeCol        string
	AmountCol      string
	TickerCol      string
	QuantityCol    string
	GoldTypeCol    string
	QuantityChiCol string
	NoteCol        string
	Numbers        numberFormat
	Types          map[string]transaction.Type
	GoldTypes      map[string]transaction.GoldType
}

// requiredCols returns the column names that must be present for this profile to match.
func (p Profile) requiredCols() []string {
	return []string{p.DateCol, p.TypeCol, p.AmountCol}
}

// txType resolves a type cell using the profile's vocabulary, then the canonical names.
func (p Profile) txType(s string) (transaction.Type, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	if t, ok := p.Types[key]; ok {
		return t, true
	}

	t := transaction.Type(strings.ToUpper(key))

	return t, t.Valid()
}

func (p Profile) goldType(s string) (transaction.GoldType, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	if g, ok := p.GoldTypes[key]; ok {
		return g, true
	}

	g := transaction.GoldType(strings.ToUpper(key))

	return g, g.Valid()
}

// profiles is the ordered list of layouts to try during auto-detection.
var profiles = []Profile{
	{
		Name:           "stash",
		DateCol:        "date",
		TypeCol:        "type",
		AmountCol:      "amount",
		TickerCol:      "ticker",
		QuantityCol:    "quantity",
		GoldTypeCol:    "gold_type",
		QuantityChiCol: "quantity_chi",
		NoteCol:        "note",
		Numbers:        numberPlain,
	},
	{
		Name:           "vietnamese",
		DateCol:        "Ngày",
		TypeCol:        "Loại",
		AmountCol:      "Số tiền",
		TickerCol:      "Mã",
		QuantityCol:    "Số lượng",
		GoldTypeCol:    "Loại vàng",
		QuantityChiCol: "Số chỉ",
		NoteCol:        "Ghi chú",
		Numbers:        numberGrouped,
		Types: map[string]transaction.Type{
			"nạp tiền":     transaction.TypeDeposit,
			"nạp":          transaction.TypeDeposit,
			"rút tiền":     transaction.TypeWithdraw,
			"rút":          transaction.TypeWithdraw,
			"chuyển khoản": transaction.TypeTransfer,
			"chuyển":       transaction.TypeTransfer,
			"mua":          transaction.TypeBuy,
			"bán":          transaction.TypeSell,
			"phí":          transaction.TypeFee,
		},
		GoldTypes: map[string]transaction.GoldType{
			"sjc":        transaction.GoldBranded,
			"vàng miếng": transaction.GoldBranded,
			"miếng":      transaction.GoldBranded,
			"nhẫn":       transaction.GoldPrivate,
			"vàng nhẫn":  transaction.GoldPrivate,
			"tư nhân":    transaction.GoldPrivate,
		},
	},
}
