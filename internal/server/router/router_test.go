package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mamadbah2/zerocarbon/internal/server/handlers"
)

func TestNew_RegistersRoutes(t *testing.T) {
	engine := New(handlers.NewActivityHandler(nil, nil), handlers.NewInsightsHandler(nil, nil, nil, nil), nil)

	registered := map[string]bool{}
	for _, route := range engine.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"GET /healthz",
		"POST /users/:userID/activities/:category",
		"GET /users/:userID/activities/:category",
		"GET /users/:userID/summary",
		"DELETE /users/:userID",
		"POST /users/:userID/advisor/chat",
		"POST /users/:userID/waste/scan",
		"GET /users/:userID/digests",
		"GET /foods",
		"PUT /foods/:name",
	} {
		assert.True(t, registered[want], "missing route %s", want)
	}
}

func TestNew_HealthzIsLogged(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	engine := New(handlers.NewActivityHandler(nil, nil), handlers.NewInsightsHandler(nil, nil, nil, nil), zap.New(core))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	entries := logs.FilterMessage("request completed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "/healthz", entries[0].ContextMap()["route"])
	assert.Equal(t, int64(http.StatusOK), entries[0].ContextMap()["status"])

	id := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, entries[0].ContextMap()["request_id"])
}

func TestNew_KeepsCallerRequestID(t *testing.T) {
	engine := New(handlers.NewActivityHandler(nil, nil), handlers.NewInsightsHandler(nil, nil, nil, nil), nil)
	id := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, id, w.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.NotEqual(t, "not-a-uuid", w.Header().Get(RequestIDHeader))
}
