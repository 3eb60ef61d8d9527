package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"finboard/internal/core"
	"finboard/internal/store"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Success: false, Error: msg})
}

// writeServiceError maps service errors onto HTTP status codes. Validation
// problems are the client's fault, a missing item is 404, and a store outage
// during a write is 503 so clients know to retry.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrUnknownCategory),
		errors.Is(err, core.ErrUnknownField),
		errors.Is(err, core.ErrMissingField):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, core.ErrBalanceItemProtected):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, core.ErrItemNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "storage unavailable, change kept in memory")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
