package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"finboard/internal/core"
	"finboard/internal/service"
)

// dataResponse merges the ledger document and the derived totals into a
// single flat JSON object for the dashboard.
type dataResponse struct {
	*core.Document
	service.Totals
}

// mutationResponse acknowledges a write and carries fresh totals so the
// client can update summary widgets without a second round trip.
type mutationResponse struct {
	Success bool `json:"success"`
	service.Totals
}

type addRequest struct {
	Category string            `json:"category"`
	Item     service.ItemInput `json:"item"`
}

type updateRequest struct {
	Category string `json:"category"`
	ID       string `json:"id"`
	Field    string `json:"field"`
	Value    any    `json:"value"`
}

type deleteRequest struct {
	Category string `json:"category"`
	ID       string `json:"id"`
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	doc, totals, err := s.ledger.Snapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Snapshot failed", "error", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dataResponse{Document: doc, Totals: totals})
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if !decodeMutation(w, r, &req) {
		return
	}
	if req.Category == "" {
		writeServiceError(w, fmt.Errorf("%w: category", core.ErrMissingField))
		return
	}

	totals, err := s.ledger.Add(r.Context(), req.Category, req.Item)
	if err != nil {
		slog.ErrorContext(r.Context(), "Add item failed", "category", req.Category, "error", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, mutationResponse{Success: true, Totals: totals})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if !decodeMutation(w, r, &req) {
		return
	}
	if req.Category == "" || req.ID == "" || req.Field == "" {
		writeServiceError(w, fmt.Errorf("%w: category, id and field", core.ErrMissingField))
		return
	}

	totals, err := s.ledger.Update(r.Context(), req.Category, req.ID, req.Field, req.Value)
	if err != nil {
		slog.ErrorContext(r.Context(), "Update item failed", "category", req.Category, "id", req.ID, "field", req.Field, "error", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, mutationResponse{Success: true, Totals: totals})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if !decodeMutation(w, r, &req) {
		return
	}
	if req.Category == "" || req.ID == "" {
		writeServiceError(w, fmt.Errorf("%w: category and id", core.ErrMissingField))
		return
	}

	totals, err := s.ledger.Delete(r.Context(), req.Category, req.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Delete item failed", "category", req.Category, "id", req.ID, "error", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, mutationResponse{Success: true, Totals: totals})
}

// decodeMutation enforces POST and decodes a JSON body, writing the error
// response itself when either fails.
func decodeMutation(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.ErrorContext(r.Context(), "Request decode failed", "url", r.URL.Path, "error", err)
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
