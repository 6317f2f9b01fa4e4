package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"mitra-credit/display"
	"mitra-credit/shared"
)

func (h *Handler) respond(w http.ResponseWriter, status int, snap shared.SessionSnapshot) {
	writeJSON(w, status, SessionResponse{
		Session: snap,
		View:    display.Render(h.catalog, snap),
	})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code, msg := mapDomainError(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("session request failed", "path", r.URL.Path, "error", err, "request_id", requestIDFromContext(r.Context()))
	}
	writeError(w, status, code, msg, requestIDFromContext(r.Context()))
}

func (h *Handler) getContent(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog)
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request) {
	snap, err := h.backend.Start(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.metrics.sessionStarted()
	h.logger.Info("session started", "session_id", snap.SessionID)
	h.respond(w, http.StatusCreated, snap)
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	snap, err := h.backend.Snapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, snap)
}

func (h *Handler) postEvent(w http.ResponseWriter, r *http.Request) {
	var ev shared.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body", requestIDFromContext(r.Context()))
		return
	}
	if ev.Action == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "action is required", requestIDFromContext(r.Context()))
		return
	}
	h.dispatch(w, r, ev)
}

func (h *Handler) patchProfile(w http.ResponseWriter, r *http.Request) {
	var patch shared.Profile
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body", requestIDFromContext(r.Context()))
		return
	}
	h.dispatch(w, r, shared.Event{Action: shared.ActionUpdate, Patch: &patch})
}

func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request, ev shared.Event) {
	id := chi.URLParam(r, "id")
	snap, err := h.backend.Dispatch(r.Context(), id, ev)
	if err != nil {
		h.metrics.observeEvent(ev.Action, "rejected")
		h.logger.Warn("session event rejected", "session_id", id, "action", ev.Action, "error", err)
		h.fail(w, r, err)
		return
	}
	h.metrics.observeEvent(ev.Action, "applied")
	h.respond(w, http.StatusOK, snap)
}

func (h *Handler) closeSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.backend.Close(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.logger.Info("session closed", "session_id", id)
	w.WriteHeader(http.StatusNoContent)
}
