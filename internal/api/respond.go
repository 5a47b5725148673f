package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"ledger-core-go/internal/models"
	"ledger-core-go/internal/store"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

var errInvalidJSON = errors.New("invalid json")

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", errInvalidJSON, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data after body", errInvalidJSON)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("Failed to write response body", zap.Error(err))
	}
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, models.ErrorResponse{Message: msg})
}

// writeFailure maps err to its status and writes it. 5xx bodies never carry
// internal detail.
func writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	code := httpStatusForErr(err)
	if code >= http.StatusInternalServerError {
		zap.L().Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", code),
			zap.String("correlation_id", models.CorrelationId(r.Context())),
			zap.Error(err))
	}
	writeErr(w, code, publicErrMessage(code, err))
}

func httpStatusForErr(err error) int {
	switch {
	case err == nil:
		return http.StatusOK

	// Request and business errors
	case errors.Is(err, errInvalidJSON),
		errors.Is(err, store.ErrValidation),
		errors.Is(err, store.ErrInsufficientFunds):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrConflict):
		return http.StatusConflict

	// Context / timeouts
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout

	case errors.Is(err, store.ErrTransient):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

func publicErrMessage(code int, err error) string {
	switch code {
	case http.StatusServiceUnavailable:
		return "ledger is busy, retry later"
	case http.StatusGatewayTimeout:
		return "request timed out"
	}
	if code >= http.StatusInternalServerError {
		return "internal error"
	}
	if errors.Is(err, errInvalidJSON) {
		return errInvalidJSON.Error()
	}
	return err.Error()
}
