package market_api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/starmarket-sakvta/starmarket.api/internal/config"
	"github.com/starmarket-sakvta/starmarket.api/internal/market_api/middleware"
	"github.com/stretchr/testify/assert"
)

type fixedWorkers struct {
	running, capacity int
}

func (w fixedWorkers) Running() int  { return w.running }
func (w fixedWorkers) Capacity() int { return w.capacity }

func newTestServer() *Server {
	return newTestServerWith(&Services{})
}

func newTestServerWith(services *Services) *Server {
	cfg := &config.Config{
		Application: config.ApplicationConfig{Env: "test", Name: "market_api"},
		Server: config.ServerConfig{
			Port:         0,
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
			IdleTimeout:  time.Second,
		},
	}
	return NewServer(slog.New(slog.NewTextHandler(io.Discard, nil)), cfg, services)
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(middleware.CorrelationIDHeader, "health-1")
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"ok"`)
	assert.Equal(t, "health-1", rr.Header().Get(middleware.CorrelationIDHeader))
}

func TestServer_HealthReportsWorkers(t *testing.T) {
	tests := []struct {
		name     string
		workers  WorkerStats
		wantBody string
	}{
		{name: "no pool", workers: nil},
		{name: "idle pool", workers: fixedWorkers{running: 0, capacity: 8}, wantBody: `"workers":{"capacity":8,"running":0}`},
		{name: "saturated pool", workers: fixedWorkers{running: 8, capacity: 8}, wantBody: `"workers":{"capacity":8,"running":8}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServerWith(&Services{Workers: tt.workers})

			rr := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, http.StatusOK, rr.Code)
			if tt.wantBody == "" {
				assert.NotContains(t, rr.Body.String(), `"workers"`)
				return
			}
			assert.Contains(t, rr.Body.String(), tt.wantBody)
		})
	}
}

func TestServer_RoutesRegistered(t *testing.T) {
	srv := newTestServer()

	registered := make(map[string]bool)
	for _, route := range srv.httpRouter.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"POST /buy",
		"GET /balance/:steamId",
		"GET /balance/:steamId/audit",
		"POST /deposit",
		"POST /withdraw",
		"GET /orders/:id",
		"GET /order/:id",
		"PUT /order/confirm/:id",
		"PUT /order/complete/:id",
		"PUT /order/cancel/:id",
		"POST /publish_item",
		"PUT /change_price/:assetId",
		"DELETE /remove_item/:assetId",
		"GET /market_items",
		"GET /selling_items/:id",
		"GET /user/:steamId",
		"PUT /user/update",
		"POST /auth/steam/session",
		"POST /trade/create",
		"POST /create_offer",
		"GET /inventory/:steamId",
		"GET /fetch_inventory/:steamId",
		"DELETE /inventory/:steamId/cache",
	} {
		assert.True(t, registered[want], "missing route %s", want)
	}
}

func TestServer_StopWithoutStart(t *testing.T) {
	assert.NoError(t, newTestServer().Stop(context.Background()))
}
