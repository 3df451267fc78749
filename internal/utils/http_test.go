package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/heisenbergtrx/portfolio-dashboard/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err    error
		status int
		kind   string
	}{
		{&domain.ConfigError{Field: "fx_rate", Reason: "must be positive"}, http.StatusUnprocessableEntity, "config"},
		{fmt.Errorf("wrapped: %w", &domain.RangeError{Field: "close", Value: -1}), http.StatusUnprocessableEntity, "config"},
		{domain.ErrNoResult, http.StatusServiceUnavailable, "no_result"},
		{domain.ErrRefreshInProgress, http.StatusConflict, "in_progress"},
		{domain.ErrSnapshotPeriodTaken, http.StatusConflict, "snapshot"},
		{domain.ErrStaleResult, http.StatusConflict, "snapshot"},
		{errors.New("disk full"), http.StatusInternalServerError, "internal"},
	}

	for _, tt := range tests {
		status, kind := ErrorKind(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.Equal(t, tt.kind, kind, tt.err.Error())
	}
}

func TestWriteError_HidesInternalMessage(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, errors.New("disk full"), "Failed to load snapshots", zerolog.New(nil).Level(zerolog.Disabled))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Failed to load snapshots", body["error"]["message"])
	assert.Equal(t, "internal", body["error"]["kind"])
}

func TestEnvelope(t *testing.T) {
	env := Envelope([]int{1})
	assert.Equal(t, []int{1}, env["data"])
	assert.Contains(t, env["metadata"], "timestamp")
}
