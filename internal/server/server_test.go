package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/heisenbergtrx/portfolio-dashboard/internal/config"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/di"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const testHoldings = `
funds:
  - code: AAA
    shares: 10
    target_weight: 60
  - code: BBB
    shares: 20
    target_weight: 40
`

const testMarket = `{
  "fx_rate": 32,
  "quotes": {
    "AAA": {"current_price": 12, "prior_price": 10},
    "BBB": {"current_price": 5, "prior_price": 5}
  }
}`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "holdings.yaml"), []byte(testHoldings), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "market.json"), []byte(testMarket), 0644))

	cfg := &config.Config{
		DataDir:              dir,
		Port:                 8001,
		AllowedOrigins:       []string{"*"},
		HoldingsFile:         filepath.Join(dir, "holdings.yaml"),
		MarketDataFile:       filepath.Join(dir, "market.json"),
		SnapshotWeekday:      "any",
		SnapshotHistoryLimit: 52,
		FetchTimeout:         time.Second,
		FallbackFXRate:       35,
		Backup:               &config.BackupConfig{},
	}

	log := zerolog.New(nil).Level(zerolog.Disabled)
	container, _, err := di.Wire(context.Background(), cfg, nil, log)
	require.NoError(t, err)
	t.Cleanup(func() { container.Close() })

	return New(Config{Log: log, Config: cfg, Container: container, Port: cfg.Port})
}

func do(t *testing.T, h http.Handler, method, path string) (int, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, path, nil))

	var body map[string]interface{}
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w.Code, body
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t)
	status, body := do(t, s.Router(), "GET", "/health")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestServer_SystemStatus(t *testing.T) {
	s := newTestServer(t)
	status, body := do(t, s.Router(), "GET", "/api/system/status")
	require.Equal(t, http.StatusOK, status)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "healthy", data["status"])
	assert.NotNil(t, data["database"])
	assert.Equal(t, "IDLE", data["refresh"].(map[string]interface{})["state"])
}

func TestServer_RefreshFlow(t *testing.T) {
	router := newTestServer(t).Router()

	status, _ := do(t, router, "GET", "/api/portfolio/summary")
	assert.Equal(t, http.StatusServiceUnavailable, status, "no result before the first refresh")

	status, body := do(t, router, "POST", "/api/portfolio/refresh")
	require.Equal(t, http.StatusOK, status)
	metrics := body["data"].(map[string]interface{})["metrics"].(map[string]interface{})
	assert.InDelta(t, 220.0, metrics["total_value_base"], 1e-9)

	for _, path := range []string{
		"/api/portfolio/summary",
		"/api/portfolio/holdings",
		"/api/portfolio/rebalancing",
		"/api/portfolio/state",
		"/api/risk/metrics",
		"/api/risk/correlation",
		"/api/risk/drawdown",
		"/api/benchmark",
		"/api/snapshots",
		"/api/charts/allocation.png",
	} {
		status, _ := do(t, router, "GET", path)
		assert.Equal(t, http.StatusOK, status, path)
	}

	status, body = do(t, router, "GET", "/api/snapshots")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1.0, body["data"].(map[string]interface{})["count"], "snapshot taken on the first refresh")

	status, _ = do(t, router, "POST", "/api/snapshots")
	assert.Equal(t, http.StatusConflict, status, "one snapshot per ISO week")
}

func TestServer_EventsWebsocket(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t).Router())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/events/ws?types=REFRESH_COMPLETED"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	var hello map[string]interface{}
	require.NoError(t, wsjson.Read(ctx, conn, &hello))
	assert.Equal(t, "connected", hello["type"])

	resp, err := http.Post(srv.URL+"/api/portfolio/refresh", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var event map[string]interface{}
	require.NoError(t, wsjson.Read(ctx, conn, &event))
	assert.Equal(t, "REFRESH_COMPLETED", event["type"])
	assert.Equal(t, "refresh", event["module"])
	assert.InDelta(t, 220.0, event["data"].(map[string]interface{})["total_value_base"], 1e-9)
}

func TestOriginPatterns(t *testing.T) {
	assert.Equal(t,
		[]string{"*", "localhost:3000", "dash.example.com"},
		originPatterns([]string{"*", "http://localhost:3000", "https://dash.example.com/"}),
	)
}
