package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"mitra-credit/display"
	"mitra-credit/flow"
	"mitra-credit/sessions"
	"mitra-credit/shared"
)

// SessionResponse is returned by every session endpoint.
type SessionResponse struct {
	Session shared.SessionSnapshot `json:"session"`
	View    display.View           `json:"view"`
}

type errorPayload struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

type errorResponse struct {
	Status string       `json:"status"`
	Error  errorPayload `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message, requestID string) {
	writeJSON(w, status, errorResponse{
		Status: "error",
		Error:  errorPayload{Code: code, Message: message, RequestID: requestID},
	})
}

func mapDomainError(err error) (int, string, string) {
	switch {
	case errors.Is(err, sessions.ErrNotFound):
		return http.StatusNotFound, "SESSION_NOT_FOUND", "session not found"
	case errors.Is(err, flow.ErrNoSuchEdge):
		return http.StatusConflict, "NO_SUCH_EDGE", err.Error()
	case errors.Is(err, flow.ErrUnknownScreen), errors.Is(err, flow.ErrMissingSource):
		return http.StatusBadRequest, "VALIDATION_ERROR", err.Error()
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"
	}
}
