package importcsv

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/stash/internal/http/respond"
	"github.com/MrJamesThe3rd/stash/internal/importer"
	"github.com/MrJamesThe3rd/stash/internal/portfolio"
	"github.com/MrJamesThe3rd/stash/internal/transaction"
)

const maxUploadSize = 10 << 20

type Handler struct {
	importSvc    *importer.Service
	txSvc        *transaction.Service
	portfolioSvc *portfolio.Service
}

func NewHandler(importSvc *importer.Service, txSvc *transaction.Service, portfolioSvc *portfolio.Service) *Handler {
	return &Handler{
		importSvc:    importSvc,
		txSvc:        txSvc,
		portfolioSvc: portfolioSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
	r.Post("/confirm", h.confirmImport)
	r.Post("/snapshots", h.importSnapshots)
}

type snapshotResponse struct {
	ID               uuid.UUID        `json:"id"`
	Date             string           `json:"date"`
	NAV              decimal.Decimal  `json:"nav"`
	BrandedGoldPrice *decimal.Decimal `json:"branded_gold_price"`
	PrivateGoldPrice *decimal.Decimal `json:"private_gold_price"`
}

type snapshotImportResponse struct {
	Imported  int                `json:"imported"`
	Snapshots []snapshotResponse `json:"snapshots"`
}

type transactionResponse struct {
	ID            uuid.UUID        `json:"id"`
	PortfolioID   *uuid.UUID       `json:"portfolio_id,omitempty"`
	CashAccountID *uuid.UUID       `json:"cash_account_id,omitempty"`
	Type          transaction.Type `json:"type"`
	Amount        decimal.Decimal  `json:"amount"`
	Date          string           `json:"date"`
	Ticker        string           `json:"ticker,omitempty"`
	Note          string           `json:"note,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

type importSuccessResponse struct {
	Imported     int                   `json:"imported"`
	Transactions []transactionResponse `json:"transactions"`
}

type createParamsDTO struct {
	PortfolioID   *uuid.UUID           `json:"portfolio_id,omitempty"`
	CashAccountID *uuid.UUID           `json:"cash_account_id,omitempty"`
	Type          transaction.Type     `json:"type"`
	Amount        decimal.Decimal      `json:"amount"`
	Date          string               `json:"date"`
	Ticker        string               `json:"ticker,omitempty"`
	Quantity      decimal.NullDecimal  `json:"quantity"`
	GoldType      transaction.GoldType `json:"gold_type,omitempty"`
	QuantityChi   decimal.NullDecimal  `json:"quantity_chi"`
	Note          string               `json:"note,omitempty"`
}

type conflictDTO struct {
	Incoming createParamsDTO     `json:"incoming"`
	Existing transactionResponse `json:"existing"`
}

type importConflictResponse struct {
	New       []createParamsDTO `json:"new"`
	Conflicts []conflictDTO     `json:"conflicts"`
}

type confirmRequest struct {
	Params []createParamsDTO `json:"params"`
}

// owner reads the portfolio_id or cash_account_id form field.
func owner(r *http.Request) (transaction.Endpoint, error) {
	var e transaction.Endpoint

	if s := r.FormValue("portfolio_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return e, err
		}

		e.PortfolioID = &id
	}

	if s := r.FormValue("cash_account_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return e, err
		}

		e.CashAccountID = &id
	}

	return e, nil
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	ownerEndpoint, err := owner(r)
	if err != nil {
		http.Error(w, "invalid owner id", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	params, err := h.importSvc.Import(importer.Format(r.FormValue("format")), ownerEndpoint, file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.txSvc.ImportBatch(r.Context(), params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if len(result.Conflicts) > 0 {
		resp := importConflictResponse{
			New:       make([]createParamsDTO, 0, len(result.New)),
			Conflicts: make([]conflictDTO, 0, len(result.Conflicts)),
		}
		for _, p := range result.New {
			resp.New = append(resp.New, toParamsDTO(p))
		}

		for _, c := range result.Conflicts {
			resp.Conflicts = append(resp.Conflicts, conflictDTO{
				Incoming: toParamsDTO(c.Incoming),
				Existing: toTxResponse(c.Existing),
			})
		}

		respond.JSON(w, http.StatusConflict, resp)

		return
	}

	respond.JSON(w, http.StatusCreated, toSuccessResponse(result.Imported))
}

func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	params := make([]transaction.CreateParams, 0, len(req.Params))
	for _, p := range req.Params {
		date, err := time.Parse(time.DateOnly, p.Date)
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		params = append(params, transaction.CreateParams{
			PortfolioID:   p.PortfolioID,
			CashAccountID: p.CashAccountID,
			Type:          p.Type,
			Amount:        p.Amount,
			Date:          date,
			Ticker:        p.Ticker,
			Quantity:      p.Quantity,
			GoldType:      p.GoldType,
			QuantityChi:   p.QuantityChi,
			Note:          p.Note,
		})
	}

	txs, err := h.txSvc.CreateBatch(r.Context(), params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toSuccessResponse(txs))
}

// importSnapshots records every row of an uploaded snapshots.csv against portfolio_id.
// Rows are validated by the portfolio service; the first invalid row stops the import.
func (h *Handler) importSnapshots(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	portfolioID, err := uuid.Parse(r.FormValue("portfolio_id"))
	if err != nil {
		http.Error(w, "portfolio_id is required", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	params, err := h.importSvc.ImportSnapshots(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := snapshotImportResponse{Snapshots: make([]snapshotResponse, 0, len(params))}

	for _, p := range params {
		snap, err := h.portfolioSvc.RecordSnapshot(r.Context(), portfolioID, p)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		resp.Snapshots = append(resp.Snapshots, snapshotResponse{
			ID:               snap.ID,
			Date:             snap.Date.Format(time.DateOnly),
			NAV:              snap.NAV,
			BrandedGoldPrice: nullable(snap.BrandedGoldPrice),
			PrivateGoldPrice: nullable(snap.PrivateGoldPrice),
		})
	}

	resp.Imported = len(resp.Snapshots)
	respond.JSON(w, http.StatusCreated, resp)
}

func nullable(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}

	return &d.Decimal
}

func toSuccessResponse(txs []*transaction.Transaction) importSuccessResponse {
	responses := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		responses = append(responses, toTxResponse(tx))
	}

	return importSuccessResponse{
		Imported:     len(txs),
		Transactions: responses,
	}
}

func toTxResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:            tx.ID,
		PortfolioID:   tx.PortfolioID,
		CashAccountID: tx.CashAccountID,
		Type:          tx.Type,
		Amount:        tx.Amount,
		Date:          tx.Date.Format(time.DateOnly),
		Ticker:        tx.Ticker,
		Note:          tx.Note,
		CreatedAt:     tx.CreatedAt,
	}
}

func toParamsDTO(p transaction.CreateParams) createParamsDTO {
	return createParamsDTO{
		PortfolioID:   p.PortfolioID,
		CashAccountID: p.CashAccountID,
		Type:          p.Type,
		Amount:        p.Amount,
		Date:          p.Date.Format(time.DateOnly),
		Ticker:        p.Ticker,
		Quantity:      p.Quantity,
		GoldType:      p.GoldType,
		QuantityChi:   p.QuantityChi,
		Note:          p.Note,
	}
}
