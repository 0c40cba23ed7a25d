package utils

import (
	"encoding/json"
	"net/http"

	"github.com/rohits-web03/filebridge/internal/apperr"
	"go.uber.org/zap"
)

type Payload struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ErrorPayload is the body of every failed request.
type ErrorPayload struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// JSONResponse writes v as JSON with the given status.
func JSONResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindInvalidInput:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse writes err as an ErrorPayload. Only the caller-safe message
// is sent; server faults are logged with their cause.
func ErrorResponse(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	kind := apperr.KindOf(err)
	status := StatusFor(kind)
	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("code", string(kind)),
			zap.Error(err),
		)
	}
	JSONResponse(w, status, ErrorPayload{
		Success: false,
		Code:    string(kind),
		Message: apperr.MessageOf(err),
	})
}
