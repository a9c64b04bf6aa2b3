// internal/app/system/httpjson/httpjson.go

// Package httpjson shapes JSON responses and maps the domain error taxonomy
// to HTTP statuses. All error bodies are {"error": "..."}; unclassified
// errors are logged with full detail and surfaced as a generic 500.
package httpjson

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/eventra/eventra/internal/app/system/limits"
	"github.com/eventra/eventra/internal/domain/apperr"
	"go.uber.org/zap"
)

// errorBody is the uniform JSON error envelope.
type errorBody struct {
	Error string `json:"error"`
}

// Write encodes v as JSON with the given status.
func Write(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes an {"error": msg} body with the given status.
func Error(w http.ResponseWriter, status int, msg string) {
	Write(w, status, errorBody{Error: msg})
}

// StatusOf maps a classified error's Kind to its HTTP status. Unclassified
// errors map to 500.
//
// Capacity maps to 409 Conflict. The system this replaces used 408 for
// capacity overflow; clients needing bit-compatibility must translate.
func StatusOf(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindAuth:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict, apperr.KindCapacity:
		return http.StatusConflict
	case apperr.KindUpstream:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// WriteDomainError maps err to a status and JSON body. Unclassified errors
// are logged; store deadline errors surface as 503, everything else as a
// generic 500 without internal detail.
func WriteDomainError(w http.ResponseWriter, logger *zap.Logger, err error) {
	if apperr.KindOf(err) == apperr.KindUnknown {
		if errors.Is(err, context.DeadlineExceeded) {
			logger.Warn("store operation timed out", zap.Error(err))
			Error(w, http.StatusServiceUnavailable, "service unavailable")
			return
		}
		logger.Error("internal error", zap.Error(err))
		Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	Error(w, StatusOf(err), apperr.Message(err))
}

// Decode parses a JSON request body into dst, classifying failures as
// validation errors. Bodies over limits.MaxJSONBody are rejected.
func Decode(r *http.Request, dst interface{}) error {
	body := http.MaxBytesReader(nil, r.Body, limits.MaxJSONBody)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.Wrap(apperr.KindValidation, "request body too large", err)
		}
		return apperr.Wrap(apperr.KindValidation, "malformed JSON body", err)
	}
	return nil
}
