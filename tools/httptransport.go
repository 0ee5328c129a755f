package tools

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/fintoolkit/wise"
)

func decodeJSON(body io.ReadCloser, v any) error {
	defer func() { _ = body.Close() }()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body required")
		}
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

// toolError is the structured error payload of the tool surface.
type toolError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeServiceError maps client errors to HTTP statuses: failed input
// preconditions are the caller's fault, everything else is an upstream
// problem.
func writeServiceError(w http.ResponseWriter, err error) {
	var wiseErr *wise.Error
	if errors.As(err, &wiseErr) {
		switch wiseErr.Type {
		case wise.ErrorTypeValidation:
			writeError(w, http.StatusBadRequest, "invalid_request", wiseErr.Message)
		default:
			writeError(w, http.StatusBadGateway, "upstream_error", wiseErr.Error())
		}
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, toolError{Code: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}
