package handlers

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/onurcolak/message-dispatcher/internal/domain"
	"github.com/onurcolak/message-dispatcher/pkg/response"
	"github.com/onurcolak/message-dispatcher/pkg/validator"
)

type scheduleConfigService interface {
	Create(ctx context.Context, name, cronExpression string, isActive bool) (*domain.ScheduleConfig, error)
	List(ctx context.Context) ([]domain.ScheduleConfig, error)
	ListActive(ctx context.Context) ([]domain.ScheduleConfig, error)
	Get(ctx context.Context, id string) (*domain.ScheduleConfig, error)
	Update(ctx context.Context, id string, upd domain.ScheduleConfigUpdate) (*domain.ScheduleConfig, error)
	Delete(ctx context.Context, id string) error
}

type ScheduleConfigHandler struct {
	service scheduleConfigService
}

func NewScheduleConfigHandler(service scheduleConfigService) *ScheduleConfigHandler {
	return &ScheduleConfigHandler{service: service}
}

type CreateScheduleConfigRequest struct {
	Name           string `json:"name" validate:"required,max=100"`
	CronExpression string `json:"cronExpression" validate:"required,cron"`
	IsActive       *bool  `json:"isActive,omitempty"`
}

type UpdateScheduleConfigRequest struct {
	CronExpression *string `json:"cronExpression,omitempty" validate:"omitempty,cron"`
	IsActive       *bool   `json:"isActive,omitempty"`
}

// ListScheduleConfigs godoc
// @Summary List schedule configs
// @Tags schedule-configs
// @Produce json
// @Param x-api-token header string true "API token"
// @Success 200 {object} response.SuccessResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/schedule-configs [get]
func (h *ScheduleConfigHandler) ListScheduleConfigs(c echo.Context) error {
	configs, err := h.service.List(c.Request().Context())
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, configs)
}

// ListActiveScheduleConfigs godoc
// @Summary List active schedule configs
// @Tags schedule-configs
// @Produce json
// @Param x-api-token header string true "API token"
// @Success 200 {object} response.SuccessResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/schedule-configs/active [get]
func (h *ScheduleConfigHandler) ListActiveScheduleConfigs(c echo.Context) error {
	configs, err := h.service.ListActive(c.Request().Context())
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, configs)
}

// GetScheduleConfig godoc
// @Summary Get a schedule config
// @Tags schedule-configs
// @Produce json
// @Param x-api-token header string true "API token"
// @Param id path string true "Schedule config ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/schedule-configs/{id} [get]
func (h *ScheduleConfigHandler) GetScheduleConfig(c echo.Context) error {
	cfg, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	return response.Ok(c, cfg)
}

// CreateScheduleConfig godoc
// @Summary Create a schedule config
// @Description Only the config named message-sender drives the scheduler
// @Tags schedule-configs
// @Accept json
// @Produce json
// @Param x-api-token header string true "API token"
// @Param request body CreateScheduleConfigRequest true "Schedule config"
// @Success 201 {object} response.SuccessResponse
// @Failure 409 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /api/v1/schedule-configs [post]
func (h *ScheduleConfigHandler) CreateScheduleConfig(c echo.Context) error {
	var req CreateScheduleConfigRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	cfg, err := h.service.Create(c.Request().Context(), req.Name, req.CronExpression, isActive)
	if err != nil {
		return respondError(c, err)
	}

	return response.Created(c, "Schedule config created successfully", cfg)
}

// UpdateScheduleConfig godoc
// @Summary Update a schedule config
// @Description Changing the message-sender config re-arms the scheduler without a restart
// @Tags schedule-configs
// @Accept json
// @Produce json
// @Param x-api-token header string true "API token"
// @Param id path string true "Schedule config ID"
// @Param request body UpdateScheduleConfigRequest true "Fields to change"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /api/v1/schedule-configs/{id} [put]
func (h *ScheduleConfigHandler) UpdateScheduleConfig(c echo.Context) error {
	var req UpdateScheduleConfigRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	cfg, err := h.service.Update(c.Request().Context(), c.Param("id"), domain.ScheduleConfigUpdate{
		CronExpression: req.CronExpression,
		IsActive:       req.IsActive,
	})
	if err != nil {
		return respondError(c, err)
	}

	return response.OkWithMessage(c, "Schedule config updated successfully", cfg)
}

// DeleteScheduleConfig godoc
// @Summary Delete a schedule config
// @Description The message-sender config cannot be deleted, only deactivated
// @Tags schedule-configs
// @Param x-api-token header string true "API token"
// @Param id path string true "Schedule config ID"
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /api/v1/schedule-configs/{id} [delete]
func (h *ScheduleConfigHandler) DeleteScheduleConfig(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err)
	}

	return response.NoContent(c)
}
