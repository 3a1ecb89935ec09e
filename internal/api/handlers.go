package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/starford/modeswitch/internal/apperr"
)

// Handler holds API route handlers.
type Handler struct {
	svc *Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// writeStatusErr maps store errors onto HTTP responses: a missing file is
// 404, a file without a readable number is 409.
func writeStatusErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("status file not found"))
	case errors.Is(err, apperr.ErrInvalidState):
		writeJSON(w, http.StatusConflict, errorBody("status file has no readable number"))
	default:
		slog.Error("status operation failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// GetStatus handles GET /api/status.
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Status()
	if err != nil {
		writeStatusErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Rotate handles POST /api/rotate.
func (h *Handler) Rotate(w http.ResponseWriter, r *http.Request) {
	max := -1
	if r.Body != nil && r.ContentLength != 0 {
		var req RotateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
			return
		}
		if req.Max != nil {
			if *req.Max < 0 {
				writeJSON(w, http.StatusBadRequest, errorBody("max must be a non-negative integer"))
				return
			}
			max = *req.Max
		}
	}

	rot, err := h.svc.Rotate(max, "api")
	if err != nil {
		writeStatusErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RotationResponse{Old: rot.Old, New: rot.New, Label: h.svc.Label(rot.New)})
}

// SetStatus handles PUT /api/status.
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	if req.Value == nil || *req.Value < 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("value must be a non-negative integer"))
		return
	}
	if err := h.svc.Set(*req.Value, "api"); err != nil {
		writeStatusErr(w, err)
		return
	}
	st, err := h.svc.Status()
	if err != nil {
		writeStatusErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// History handles GET /api/history.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.svc.History(limit)
	if err != nil {
		if errors.Is(err, ErrJournalDisabled) {
			writeJSON(w, http.StatusNotFound, errorBody("journal disabled"))
			return
		}
		slog.Error("history failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	records := make([]RotationRecord, len(entries))
	for i, e := range entries {
		records[i] = RotationRecord{
			ID:        e.ID,
			Old:       e.Old,
			New:       e.New,
			Max:       e.Max,
			Source:    e.Source,
			CreatedAt: e.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Entries: records, Total: len(records)})
}
