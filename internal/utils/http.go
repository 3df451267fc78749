package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/heisenbergtrx/portfolio-dashboard/internal/domain"
	"github.com/rs/zerolog"
)

// Envelope wraps data in the standard {"data": ..., "metadata": {...}} response
func Envelope(data interface{}) map[string]interface{} {
	return map[string]interface{}{
		"data": data,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}, log zerolog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// ErrorKind classifies an error for API clients
func ErrorKind(err error) (status int, kind string) {
	switch {
	case domain.IsFatal(err):
		return http.StatusUnprocessableEntity, "config"
	case errors.Is(err, domain.ErrNoResult):
		return http.StatusServiceUnavailable, "no_result"
	case errors.Is(err, domain.ErrRefreshInProgress):
		return http.StatusConflict, "in_progress"
	case errors.Is(err, domain.ErrSnapshotPeriodTaken), errors.Is(err, domain.ErrSnapshotOutOfOrder),
		errors.Is(err, domain.ErrStaleResult):
		return http.StatusConflict, "snapshot"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// WriteError writes {"error": {"kind", "message"}} with the status ErrorKind picks.
// Internal errors are logged and their message is replaced by fallback.
func WriteError(w http.ResponseWriter, err error, fallback string, log zerolog.Logger) {
	status, kind := ErrorKind(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg(fallback)
		message = fallback
	}

	WriteJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"kind":    kind,
			"message": message,
		},
	}, log)
}
