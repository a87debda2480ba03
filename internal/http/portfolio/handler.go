package portfolio

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/stash/internal/http/respond"
	"github.com/MrJamesThe3rd/stash/internal/portfolio"
)

type Handler struct {
	svc *portfolio.Service
}

func NewHandler(svc *portfolio.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)

	r.Get("/{id}/snapshots", h.listSnapshots)
	r.Post("/{id}/snapshots", h.recordSnapshot)
	r.Delete("/{id}/snapshots/{snapshotID}", h.deleteSnapshot)
}

func urlID(w http.ResponseWriter, r *http.Request, key string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, key))
	if err != nil {
		http.Error(w, "invalid "+key, http.StatusBadRequest)
		return uuid.Nil, false
	}

	return id, true
}

type createPortfolioRequest struct {
	Name     string    `json:"name"`
	AssetID  uuid.UUID `json:"asset_id"`
	Currency string    `json:"currency"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createPortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.AssetID == uuid.Nil {
		http.Error(w, "asset_id is required", http.StatusBadRequest)
		return
	}

	p, err := h.svc.Create(r.Context(), portfolio.CreateParams{
		Name:     req.Name,
		AssetID:  req.AssetID,
		Currency: req.Currency,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(p))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ps, err := h.svc.List(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(ps))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(p))
}

type updatePortfolioRequest struct {
	Name     *string `json:"name,omitempty"`
	Currency *string `json:"currency,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	var req updatePortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if req.Name != nil {
		p.Name = *req.Name
	}

	if req.Currency != nil {
		p.Currency = *req.Currency
	}

	if err := h.svc.Update(r.Context(), p); err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listSnapshots(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	if _, err := h.svc.Get(r.Context(), id); err != nil {
		respond.Error(w, r, err)
		return
	}

	snaps, err := h.svc.ListSnapshots(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]snapshotResponse, len(snaps))
	for i, s := range snaps {
		resp[i] = toSnapshotResponse(s)
	}

	respond.JSON(w, http.StatusOK, resp)
}

type recordSnapshotRequest struct {
	Date             string              `json:"date"`
	NAV              decimal.Decimal     `json:"nav"`
	BrandedGoldPrice decimal.NullDecimal `json:"branded_gold_price"`
	PrivateGoldPrice decimal.NullDecimal `json:"private_gold_price"`
}

func (h *Handler) recordSnapshot(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	var req recordSnapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	snap, err := h.svc.RecordSnapshot(r.Context(), id, portfolio.SnapshotParams{
		Date:             date,
		NAV:              req.NAV,
		BrandedGoldPrice: req.BrandedGoldPrice,
		PrivateGoldPrice: req.PrivateGoldPrice,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toSnapshotResponse(snap))
}

func (h *Handler) deleteSnapshot(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	snapshotID, ok := urlID(w, r, "snapshotID")
	if !ok {
		return
	}

	if err := h.svc.DeleteSnapshot(r.Context(), id, snapshotID); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
