package handlers

import (
	"net/http"
	"sort"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/snapshots"
	testutil "github.com/heisenbergtrx/portfolio-dashboard/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRoutes(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	h := NewHandler(snapshots.NewRepository(testutil.NewMemoryDB(t, "portfolio"), log), fakeSnapshotter{}, log)

	r := chi.NewRouter()
	h.RegisterRoutes(r)

	var routes []string
	err := chi.Walk(r, func(method, route string, handler http.Handler, middlewares ...func(http.Handler) http.Handler) error {
		if len(route) > 1 {
			route = strings.TrimSuffix(route, "/")
		}
		routes = append(routes, method+" "+route)
		return nil
	})
	require.NoError(t, err)

	sort.Strings(routes)
	assert.Equal(t, []string{
		"GET /snapshots",
		"GET /snapshots/latest",
		"POST /snapshots",
	}, routes)
}
