package internal

import (
	"bytes"
	"medilens/internal/controllers"
	"medilens/internal/persistence"
	"medilens/internal/services"
	"medilens/internal/structures"
	"medilens/internal/testutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type routeTestCache struct{}

func (m *routeTestCache) Get(_ string) ([]byte, bool) { return nil, false }
func (m *routeTestCache) Set(_ string, _ []byte)      {}
func (m *routeTestCache) Del(_ string)                {}

func newRouteTestController() *controllers.ApiController {
	logger := &testutil.MockLogger{}
	conf := &structures.Config{Persistence: structures.Persistence{Key: "medilens_history"}}
	store := persistence.NewHistoryStore(conf, testutil.NewMockMedium(0), &testutil.MockCompressor{}, logger, testutil.NoopMetrics())
	history := services.NewHistoryService(store, logger, testutil.NoopMetrics())
	session := services.NewSessionService(&testutil.MockGateway{}, history, services.NewSystemClock(), logger)
	return controllers.NewApiController(logger, session, history, &routeTestCache{})
}

func TestInitRoutes_RegistersApiRoutes(t *testing.T) {
	router := InitRoutes(newRouteTestController())
	routes := router.GetRoutes()

	require.Len(t, routes, 7)

	keys := make([]string, len(routes))
	for i, r := range routes {
		keys[i] = r.Method + " " + r.Url
	}

	assert.Contains(t, keys, "POST /api/analyze/text")
	assert.Contains(t, keys, "POST /api/analyze/image")
	assert.Contains(t, keys, "GET /api/history")
	assert.Contains(t, keys, "GET /api/history/{id}")
	assert.Contains(t, keys, "DELETE /api/history/{id}")
	assert.Contains(t, keys, "GET /api/session")
	assert.Contains(t, keys, "POST /api/session/view")
}

func TestInitRoutes_MethodEnforcement(t *testing.T) {
	router := InitRoutes(newRouteTestController())
	mux := chi.NewRouter()
	router.Mount(mux)

	req := httptest.NewRequest(http.MethodGet, "/api/analyze/text", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/history", bytes.NewBufferString("{}"))
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestInitRoutes_Dispatch(t *testing.T) {
	router := InitRoutes(newRouteTestController())
	mux := chi.NewRouter()
	router.Mount(mux)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze/text", bytes.NewBufferString(`{"text":"CBC normal"}`))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusCreated, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/session", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"view":"result"`)
}
