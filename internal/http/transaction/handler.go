package transaction

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/stash/internal/http/respond"
	"github.com/MrJamesThe3rd/stash/internal/transaction"
)

type Handler struct {
	svc *transaction.Service
}

func NewHandler(svc *transaction.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Post("/transfer", h.transfer)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createTransactionRequest struct {
	PortfolioID   *uuid.UUID           `json:"portfolio_id"`
	CashAccountID *uuid.UUID           `json:"cash_account_id"`
	Type          transaction.Type     `json:"type"`
	Amount        decimal.Decimal      `json:"amount"`
	Date          string               `json:"date"`
	Ticker        string               `json:"ticker"`
	Quantity      decimal.NullDecimal  `json:"quantity"`
	GoldType      transaction.GoldType `json:"gold_type"`
	QuantityChi   decimal.NullDecimal  `json:"quantity_chi"`
	Note          string               `json:"note"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Create(r.Context(), transaction.CreateParams{
		PortfolioID:   req.PortfolioID,
		CashAccountID: req.CashAccountID,
		Type:          req.Type,
		Amount:        req.Amount,
		Date:          date,
		Ticker:        req.Ticker,
		Quantity:      req.Quantity,
		GoldType:      req.GoldType,
		QuantityChi:   req.QuantityChi,
		Note:          req.Note,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(tx))
}

// listFilter reads the query string. Malformed values are rejected rather than ignored.
func listFilter(r *http.Request) (transaction.ListFilter, error) {
	var filter transaction.ListFilter

	q := r.URL.Query()

	for key, dst := range map[string]**uuid.UUID{
		"portfolio_id":    &filter.PortfolioID,
		"cash_account_id": &filter.CashAccountID,
	} {
		if s := q.Get(key); s != "" {
			id, err := uuid.Parse(s)
			if err != nil {
				return filter, err
			}

			*dst = new(id)
		}
	}

	if s := q.Get("type"); s != "" {
		filter.Type = new(transaction.Type(s))
	}

	for key, dst := range map[string]**time.Time{
		"start_date": &filter.StartDate,
		"end_date":   &filter.EndDate,
	} {
		if s := q.Get(key); s != "" {
			t, err := time.Parse(time.DateOnly, s)
			if err != nil {
				return filter, err
			}

			*dst = new(t)
		}
	}

	return filter, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := listFilter(r)
	if err != nil {
		http.Error(w, "invalid filter: "+err.Error(), http.StatusBadRequest)
		return
	}

	txs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(txs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(tx))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type updateTransactionRequest struct {
	Type        *transaction.Type     `json:"type,omitempty"`
	Amount      *decimal.Decimal      `json:"amount,omitempty"`
	Date        *string               `json:"date,omitempty"`
	Ticker      *string               `json:"ticker,omitempty"`
	Quantity    *decimal.NullDecimal  `json:"quantity,omitempty"`
	GoldType    *transaction.GoldType `json:"gold_type,omitempty"`
	QuantityChi *decimal.NullDecimal  `json:"quantity_chi,omitempty"`
	Note        *string               `json:"note,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if req.Date != nil {
		date, err := time.Parse(time.DateOnly, *req.Date)
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		tx.Date = date
	}

	if req.Type != nil {
		tx.Type = *req.Type
	}

	if req.Amount != nil {
		tx.Amount = *req.Amount
	}

	if req.Ticker != nil {
		tx.Ticker = *req.Ticker
	}

	if req.Quantity != nil {
		tx.Quantity = *req.Quantity
	}

	if req.GoldType != nil {
		tx.GoldType = *req.GoldType
	}

	if req.QuantityChi != nil {
		tx.QuantityChi = *req.QuantityChi
	}

	if req.Note != nil {
		tx.Note = *req.Note
	}

	if err := h.svc.Update(r.Context(), tx); err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(tx))
}

type endpointRequest struct {
	PortfolioID   *uuid.UUID `json:"portfolio_id"`
	CashAccountID *uuid.UUID `json:"cash_account_id"`
}

func (e endpointRequest) endpoint() transaction.Endpoint {
	return transaction.Endpoint{PortfolioID: e.PortfolioID, CashAccountID: e.CashAccountID}
}

type transferRequest struct {
	From   endpointRequest `json:"from"`
	To     endpointRequest `json:"to"`
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"`
	Note   string          `json:"note"`
}

func (h *Handler) transfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	legs, err := h.svc.Transfer(r.Context(), transaction.TransferParams{
		From:   req.From.endpoint(),
		To:     req.To.endpoint(),
		Amount: req.Amount,
		Date:   date,
		Note:   req.Note,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponseList(legs))
}
