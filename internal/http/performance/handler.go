package performance

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/stash/internal/chart"
	"github.com/MrJamesThe3rd/stash/internal/http/respond"
	"github.com/MrJamesThe3rd/stash/internal/performance"
)

// Handler serves the computed views of a portfolio. It is mounted under /portfolios.
type Handler struct {
	perf  *performance.Service
	chart *chart.Service
}

func NewHandler(perf *performance.Service, chart *chart.Service) *Handler {
	return &Handler{perf: perf, chart: chart}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/{id}/performance", h.summary)
	r.Get("/{id}/chart", h.chartData)
	r.Get("/{id}/holdings", h.holdings)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	s, err := h.perf.Calculate(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, s)
}

func (h *Handler) chartData(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	rng, err := chart.ParseRange(r.URL.Query().Get("range"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	c, err := h.chart.Get(r.Context(), id, rng)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, c)
}

func (h *Handler) holdings(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	report, err := h.perf.Holdings(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, report)
}
