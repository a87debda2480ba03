// Package respond writes JSON bodies and maps domain errors to HTTP statuses.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/stash/internal/asset"
	"github.com/MrJamesThe3rd/stash/internal/cash"
	"github.com/MrJamesThe3rd/stash/internal/chart"
	"github.com/MrJamesThe3rd/stash/internal/performance"
	"github.com/MrJamesThe3rd/stash/internal/portfolio"
	"github.com/MrJamesThe3rd/stash/internal/transaction"
)

var statuses = []struct {
	err    error
	status int
}{
	{asset.ErrNotFound, http.StatusNotFound},
	{portfolio.ErrNotFound, http.StatusNotFound},
	{portfolio.ErrSnapshotNotFound, http.StatusNotFound},
	{cash.ErrNotFound, http.StatusNotFound},
	{transaction.ErrNotFound, http.StatusNotFound},

	{asset.ErrInUse, http.StatusConflict},

	{performance.ErrNAVUnavailable, http.StatusUnprocessableEntity},

	{asset.ErrInvalid, http.StatusBadRequest},
	{portfolio.ErrInvalid, http.StatusBadRequest},
	{cash.ErrInvalid, http.StatusBadRequest},
	{transaction.ErrInvalidOwner, http.StatusBadRequest},
	{transaction.ErrInvalidType, http.StatusBadRequest},
	{transaction.ErrZeroAmount, http.StatusBadRequest},
	{transaction.ErrInvalidGoldType, http.StatusBadRequest},
	{transaction.ErrInvalidTransfer, http.StatusBadRequest},
	{chart.ErrInvalidRange, http.StatusBadRequest},
}

// StatusOf returns the HTTP status for err. Unknown errors are 500.
func StatusOf(err error) int {
	for _, s := range statuses {
		if errors.Is(err, s.err) {
			return s.status
		}
	}

	return http.StatusInternalServerError
}

// JSON encodes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Error writes err as plain text. Internal errors are logged and hidden from the client.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusOf(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		http.Error(w, "internal error", status)

		return
	}

	http.Error(w, err.Error(), status)
}
