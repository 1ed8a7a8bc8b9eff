package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/onurcolak/message-dispatcher/internal/domain"
)

type pinger interface {
	PingContext(ctx context.Context) error
}

type cachePinger interface {
	Ping(ctx context.Context) error
}

type armedReporter interface {
	IsArmed() bool
}

// HealthHandler reports database and cache connectivity plus the dispatch setup.
type HealthHandler struct {
	db           pinger
	cache        cachePinger
	scheduler    armedReporter
	channels     []domain.Channel
	checkTimeout time.Duration
}

// NewHealthHandler takes untyped nils for components that are not available.
func NewHealthHandler(db pinger, cache cachePinger, sched armedReporter, channels []domain.Channel) *HealthHandler {
	return &HealthHandler{
		db:           db,
		cache:        cache,
		scheduler:    sched,
		channels:     channels,
		checkTimeout: 2 * time.Second,
	}
}

// Health returns overall status, component statuses and the enabled channels.
// @Summary Health check
// @Description Returns overall status with DB and Redis connectivity, scheduler state and enabled channels
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Router /health [get]
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.checkTimeout)
	defer cancel()

	overallStatus := "ok"

	dbStatus := "up"
	if h.db == nil || h.db.PingContext(ctx) != nil {
		dbStatus = "down"
		overallStatus = "down"
	}

	// Redis only backs the sent-message cache, so losing it degrades rather than fails.
	redisStatus := "disabled"
	if h.cache != nil {
		redisStatus = "up"
		if err := h.cache.Ping(ctx); err != nil {
			redisStatus = "down"
			if overallStatus == "ok" {
				overallStatus = "degraded"
			}
		}
	}

	armed := h.scheduler != nil && h.scheduler.IsArmed()

	channels := h.channels
	if channels == nil {
		channels = []domain.Channel{}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status":    overallStatus,
		"timestamp": time.Now().Format(time.RFC3339),
		"components": map[string]any{
			"database":  map[string]any{"status": dbStatus},
			"redis":     map[string]any{"status": redisStatus},
			"scheduler": map[string]any{"armed": armed},
		},
		"channels": channels,
	})
}
