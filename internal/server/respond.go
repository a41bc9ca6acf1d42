package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tandadapp/backend/internal/scheduler"
	"github.com/tandadapp/backend/internal/service"
)

// errorResponse is the JSON body of every failed request. Kind names
// the violated precondition class so clients can branch on it.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps a service error kind onto an HTTP status.
func writeError(w http.ResponseWriter, err error) {
	kind := service.KindOf(err)
	if kind == 0 && errors.Is(err, scheduler.ErrBadDate) {
		kind = service.KindValidation
	}

	status := http.StatusInternalServerError
	switch kind {
	case service.KindValidation:
		status = http.StatusBadRequest
	case service.KindPayment:
		status = http.StatusPaymentRequired
	case service.KindUnauthorized:
		status = http.StatusForbidden
	case service.KindNotFound:
		status = http.StatusNotFound
	case service.KindState, service.KindExhausted:
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		slog.Error("Internal error", "error", err)
		// Do not leak storage details to clients.
		writeJSON(w, status, errorResponse{Error: "internal error", Kind: "internal"})
		return
	}

	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: kind.String()})
}

// decodeJSON decodes the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
