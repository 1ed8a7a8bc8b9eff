package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/onurcolak/message-dispatcher/environments"
	"github.com/onurcolak/message-dispatcher/handlers"
)

func newTestServer() *echo.Echo {
	e := echo.New()
	cfg := &environments.Config{Auth: environments.AuthConfig{APIToken: "secret"}}

	RegisterRoutes(e, Handlers{
		Health:         handlers.NewHealthHandler(nil, nil, nil, nil),
		Message:        handlers.NewMessageHandler(nil, nil),
		ScheduleConfig: handlers.NewScheduleConfigHandler(nil),
		Scheduler:      handlers.NewSchedulerHandler(nil),
	}, cfg)

	return e
}

func TestRegisterRoutes_APIRequiresToken(t *testing.T) {
	e := newTestServer()

	for _, target := range []string{
		"/api/v1/messages",
		"/api/v1/messages/stats",
		"/api/v1/schedule-configs",
		"/api/v1/scheduler/status",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()

		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, target)
	}
}

func TestRegisterRoutes_PublicEndpoints(t *testing.T) {
	e := newTestServer()

	for _, target := range []string{"/health", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()

		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, target)
	}
}
