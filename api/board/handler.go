// Package board exposes the schedule board over HTTP. It is a thin layer:
// every route delegates to the schedule manager and maps its sentinel
// errors onto status codes.
package board

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/escala-app/escala/core/editor"
	"github.com/escala-app/escala/core/logger"
	"github.com/escala-app/escala/core/model"
	"github.com/escala-app/escala/core/schedule"
)

// Manager is the subset of the schedule manager the HTTP surface needs.
type Manager interface {
	Board() schedule.Snapshot
	Refresh(ctx context.Context) error
	SetPeriod(ctx context.Context, p model.Period) error
	OpenSlot(ctx context.Context, key model.SlotKey) (editor.Session, error)
	CommitSlot(ctx context.Context, key model.SlotKey, volunteerID *int64) error
	CancelEdit() error
	CreateEvents(ctx context.Context) error
	GenerateSchedule(ctx context.Context) error
	ExportPDF(ctx context.Context, w io.Writer) error
}

// Handler routes board requests.
type Handler struct {
	mgr Manager
	log logger.Logger
}

// NewRouter builds the HTTP router for the board API.
func NewRouter(mgr Manager, log logger.Logger) *mux.Router {
	h := &Handler{mgr: mgr, log: log}
	r := mux.NewRouter()
	r.HandleFunc("/api/board", h.getBoard).Methods(http.MethodGet)
	r.HandleFunc("/api/board/refresh", h.refresh).Methods(http.MethodPost)
	r.HandleFunc("/api/board/period", h.setPeriod).Methods(http.MethodPut)
	r.HandleFunc("/api/board/slots/{key}/edit", h.openSlot).Methods(http.MethodPost)
	r.HandleFunc("/api/board/slots/{key}/edit", h.cancelEdit).Methods(http.MethodDelete)
	r.HandleFunc("/api/board/slots/{key}", h.commitSlot).Methods(http.MethodPut)
	r.HandleFunc("/api/board/events", h.createEvents).Methods(http.MethodPost)
	r.HandleFunc("/api/board/generate", h.generate).Methods(http.MethodPost)
	r.HandleFunc("/api/board/pdf", h.exportPDF).Methods(http.MethodGet)
	return r
}

func (h *Handler) getBoard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.mgr.Board())
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.mgr.Refresh(r.Context()); err != nil {
		h.fail(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, h.mgr.Board())
}

func (h *Handler) setPeriod(w http.ResponseWriter, r *http.Request) {
	var p model.Period
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		h.fail(w, http.StatusBadRequest, fmt.Errorf("decode period: %w", err))
		return
	}
	if err := p.Validate(); err != nil {
		h.fail(w, http.StatusBadRequest, err)
		return
	}
	if err := h.mgr.SetPeriod(r.Context(), p); err != nil {
		h.fail(w, statusOf(err), err)
		return
	}
	writeJSON(w, http.StatusOK, h.mgr.Board())
}

func (h *Handler) openSlot(w http.ResponseWriter, r *http.Request) {
	key := model.SlotKey(mux.Vars(r)["key"])
	if _, _, _, err := model.ParseSlotKey(key); err != nil {
		h.fail(w, http.StatusBadRequest, err)
		return
	}
	sess, err := h.mgr.OpenSlot(r.Context(), key)
	if err != nil {
		h.fail(w, statusOf(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": sess.ID,
		"key":        sess.Key,
		"candidates": sess.Candidates,
	})
}

type commitRequest struct {
	VolunteerID *int64 `json:"volunteer_id"`
}

func (h *Handler) commitSlot(w http.ResponseWriter, r *http.Request) {
	key := model.SlotKey(mux.Vars(r)["key"])
	var req commitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, http.StatusBadRequest, fmt.Errorf("decode commit: %w", err))
		return
	}
	if err := h.mgr.CommitSlot(r.Context(), key, req.VolunteerID); err != nil {
		// the board was re-fetched already unless a sentinel fired
		h.fail(w, statusOf(err), err)
		return
	}
	writeJSON(w, http.StatusOK, h.mgr.Board())
}

func (h *Handler) cancelEdit(w http.ResponseWriter, r *http.Request) {
	if err := h.mgr.CancelEdit(); err != nil {
		h.fail(w, statusOf(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) createEvents(w http.ResponseWriter, r *http.Request) {
	if err := h.mgr.CreateEvents(r.Context()); err != nil {
		h.fail(w, statusOf(err), err)
		return
	}
	writeJSON(w, http.StatusOK, h.mgr.Board())
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	if err := h.mgr.GenerateSchedule(r.Context()); err != nil {
		h.fail(w, statusOf(err), err)
		return
	}
	writeJSON(w, http.StatusOK, h.mgr.Board())
}

func (h *Handler) exportPDF(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="escala.pdf"`)
	if err := h.mgr.ExportPDF(r.Context(), w); err != nil {
		// headers may be gone already; log and give up on this response
		h.log.Errorf("export pdf: %v", err)
	}
}

// statusOf maps manager and editor sentinels to HTTP status codes. Anything
// else is a gateway failure.
func statusOf(err error) int {
	switch {
	case errors.Is(err, editor.ErrEditInProgress),
		errors.Is(err, editor.ErrNoEditSession),
		errors.Is(err, editor.ErrCommitInProgress),
		errors.Is(err, editor.ErrKeyMismatch),
		errors.Is(err, schedule.ErrOperationInFlight):
		return http.StatusConflict
	case errors.Is(err, schedule.ErrSlotNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func (h *Handler) fail(w http.ResponseWriter, status int, err error) {
	h.log.Errorf("board api: %v", err)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
