package handlers

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/onurcolak/message-dispatcher/internal/scheduler"
	"github.com/onurcolak/message-dispatcher/pkg/response"
)

type schedulerControl interface {
	SetActive(ctx context.Context, active bool) error
	IsArmed() bool
	GetStatus() scheduler.SchedulerStatus
}

type SchedulerHandler struct {
	scheduler schedulerControl
}

func NewSchedulerHandler(sched schedulerControl) *SchedulerHandler {
	return &SchedulerHandler{scheduler: sched}
}

// StartScheduler godoc
// @Summary Start the message scheduler
// @Description Activates the message-sender config and arms the timer with its stored cadence
// @Tags scheduler
// @Produce json
// @Param x-api-token header string true "API token"
// @Success 200 {object} response.SuccessResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/scheduler/start [post]
func (h *SchedulerHandler) StartScheduler(c echo.Context) error {
	if h.scheduler.IsArmed() {
		return response.OkWithMessage(c, "Scheduler is already running", h.scheduler.GetStatus())
	}

	if err := h.scheduler.SetActive(c.Request().Context(), true); err != nil {
		return respondError(c, err)
	}

	return response.OkWithMessage(c, "Scheduler started successfully", h.scheduler.GetStatus())
}

// StopScheduler godoc
// @Summary Stop the message scheduler
// @Description Deactivates the message-sender config and removes the timer
// @Tags scheduler
// @Produce json
// @Param x-api-token header string true "API token"
// @Success 200 {object} response.SuccessResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/scheduler/stop [post]
func (h *SchedulerHandler) StopScheduler(c echo.Context) error {
	if !h.scheduler.IsArmed() {
		return response.OkWithMessage(c, "Scheduler is already stopped", h.scheduler.GetStatus())
	}

	if err := h.scheduler.SetActive(c.Request().Context(), false); err != nil {
		return respondError(c, err)
	}

	return response.OkWithMessage(c, "Scheduler stopped successfully", h.scheduler.GetStatus())
}

// GetSchedulerStatus godoc
// @Summary Get scheduler status
// @Description Returns the current status of the message scheduler
// @Tags scheduler
// @Produce json
// @Param x-api-token header string true "API token"
// @Success 200 {object} response.SuccessResponse
// @Router /api/v1/scheduler/status [get]
func (h *SchedulerHandler) GetSchedulerStatus(c echo.Context) error {
	return response.Ok(c, h.scheduler.GetStatus())
}
