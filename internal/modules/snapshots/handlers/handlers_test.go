package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/domain"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/snapshots"
	testutil "github.com/heisenbergtrx/portfolio-dashboard/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var friday = time.Date(2026, 1, 9, 18, 0, 0, 0, time.UTC)

type fakeSnapshotter struct {
	snap *domain.PortfolioSnapshot
	err  error
}

func (f fakeSnapshotter) TakeSnapshot(ctx context.Context) (*domain.PortfolioSnapshot, error) {
	return f.snap, f.err
}

func setup(t *testing.T, snapshotter Snapshotter, values ...float64) *chi.Mux {
	t.Helper()
	log := zerolog.New(nil).Level(zerolog.Disabled)
	repo := snapshots.NewRepository(testutil.NewMemoryDB(t, "portfolio"), log)
	for i, v := range values {
		_, err := repo.Append(context.Background(), domain.PortfolioSnapshot{
			Timestamp:      friday.AddDate(0, 0, 7*i),
			TotalValueBase: v,
		})
		require.NoError(t, err)
	}

	h := NewHandler(repo, snapshotter, log)
	r := chi.NewRouter()
	r.Route("/api", h.RegisterRoutes)
	return r
}

func TestHandleList(t *testing.T) {
	router := setup(t, fakeSnapshotter{}, 100, 110, 120)

	tests := []struct {
		name          string
		path          string
		expectedCode  int
		expectedCount float64
	}{
		{"default limit", "/api/snapshots", http.StatusOK, 3},
		{"explicit limit", "/api/snapshots?limit=2", http.StatusOK, 2},
		{"invalid limit", "/api/snapshots?limit=abc", http.StatusBadRequest, 0},
		{"zero limit", "/api/snapshots?limit=0", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("GET", tt.path, nil))
			require.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode != http.StatusOK {
				return
			}

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			data := body["data"].(map[string]interface{})
			assert.Equal(t, tt.expectedCount, data["count"])
		})
	}
}

func TestHandleList_MostRecentInAscendingOrder(t *testing.T) {
	router := setup(t, fakeSnapshotter{}, 100, 110, 120)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/snapshots?limit=2", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			Snapshots []domain.PortfolioSnapshot `json:"snapshots"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data.Snapshots, 2)
	assert.Equal(t, 110.0, body.Data.Snapshots[0].TotalValueBase)
	assert.Equal(t, 120.0, body.Data.Snapshots[1].TotalValueBase)
}

func TestHandleLatest(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		w := httptest.NewRecorder()
		setup(t, fakeSnapshotter{}).ServeHTTP(w, httptest.NewRequest("GET", "/api/snapshots/latest", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("populated", func(t *testing.T) {
		w := httptest.NewRecorder()
		setup(t, fakeSnapshotter{}, 100, 105).ServeHTTP(w, httptest.NewRequest("GET", "/api/snapshots/latest", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Data domain.PortfolioSnapshot `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, 105.0, body.Data.TotalValueBase)
	})
}

func TestHandleCreate(t *testing.T) {
	tests := []struct {
		name         string
		snapshotter  fakeSnapshotter
		expectedCode int
	}{
		{
			name:         "created",
			snapshotter:  fakeSnapshotter{snap: &domain.PortfolioSnapshot{ID: "s1", Timestamp: friday, TotalValueBase: 100}},
			expectedCode: http.StatusCreated,
		},
		{
			name:         "period taken",
			snapshotter:  fakeSnapshotter{err: domain.ErrSnapshotPeriodTaken},
			expectedCode: http.StatusConflict,
		},
		{
			name:         "no result yet",
			snapshotter:  fakeSnapshotter{err: domain.ErrNoResult},
			expectedCode: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			setup(t, tt.snapshotter).ServeHTTP(w, httptest.NewRequest("POST", "/api/snapshots", nil))
			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}
