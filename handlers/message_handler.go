package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/onurcolak/message-dispatcher/internal/domain"
	"github.com/onurcolak/message-dispatcher/pkg/response"
	"github.com/onurcolak/message-dispatcher/pkg/validator"
)

type messageService interface {
	CreateMessage(ctx context.Context, msg domain.NewMessage) (*domain.Message, error)
	CreateMany(ctx context.Context, items []domain.NewMessage) domain.BulkCreateResult
	GetMessage(ctx context.Context, id string) (*domain.Message, error)
	GetAllMessages(ctx context.Context, status *domain.MessageStatus, page, pageSize int) ([]domain.Message, int64, error)
	UpdateMessage(ctx context.Context, id string, upd domain.MessageUpdate) (*domain.Message, error)
	DeleteMessage(ctx context.Context, id string) error
	GetStats(ctx context.Context) (domain.MessageStats, error)
	GetCachedMessages(ctx context.Context) (map[string]*domain.SentMessageCache, error)
}

type messageDispatcher interface {
	Dispatch(ctx context.Context, id string) (*domain.Message, error)
}

type MessageHandler struct {
	service    messageService
	dispatcher messageDispatcher
}

func NewMessageHandler(service messageService, dispatcher messageDispatcher) *MessageHandler {
	return &MessageHandler{service: service, dispatcher: dispatcher}
}

type CreateMessageRequest struct {
	Content     string     `json:"content" validate:"required"`
	Recipient   string     `json:"recipient" validate:"required,max=255"`
	Channel     string     `json:"channel" validate:"required,channel"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
}

func (r CreateMessageRequest) toDomain() domain.NewMessage {
	return domain.NewMessage{
		Content:     r.Content,
		Recipient:   r.Recipient,
		Channel:     domain.Channel(r.Channel),
		ScheduledAt: r.ScheduledAt,
	}
}

// BulkCreateMessagesRequest items are validated one by one by the service so a bad item
// is reported against its index instead of rejecting the whole request.
type BulkCreateMessagesRequest struct {
	Messages []CreateMessageRequest `json:"messages" validate:"required,min=1,max=1000"`
}

type UpdateMessageRequest struct {
	Content     *string    `json:"content,omitempty" validate:"omitempty,min=1"`
	Recipient   *string    `json:"recipient,omitempty" validate:"omitempty,min=1,max=255"`
	Channel     *string    `json:"channel,omitempty" validate:"omitempty,channel"`
	Status      *string    `json:"status,omitempty" validate:"omitempty,oneof=queued sent retryable"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
}

func (r UpdateMessageRequest) toDomain() domain.MessageUpdate {
	upd := domain.MessageUpdate{
		Content:     r.Content,
		Recipient:   r.Recipient,
		ScheduledAt: r.ScheduledAt,
	}
	if r.Channel != nil {
		channel := domain.Channel(*r.Channel)
		upd.Channel = &channel
	}
	if r.Status != nil {
		status := domain.MessageStatus(*r.Status)
		upd.Status = &status
	}
	return upd
}

// CreateMessage godoc
// @Summary Create a new message
// @Description Creates a queued message; without scheduledAt it is due immediately
// @Tags messages
// @Accept json
// @Produce json
// @Param x-api-token header string true "API token"
// @Param message body CreateMessageRequest true "Message to create"
// @Success 201 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/messages [post]
func (h *MessageHandler) CreateMessage(c echo.Context) error {
	var req CreateMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	message, err := h.service.CreateMessage(c.Request().Context(), req.toDomain())
	if err != nil {
		return respondError(c, err)
	}

	return response.Created(c, "Message created successfully", message)
}

// CreateMessagesBulk godoc
// @Summary Create many messages
// @Description Creates messages in order; failed items are reported by index without aborting the batch
// @Tags messages
// @Accept json
// @Produce json
// @Param x-api-token header string true "API token"
// @Param request body BulkCreateMessagesRequest true "Messages to create"
// @Success 201 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /api/v1/messages/bulk [post]
func (h *MessageHandler) CreateMessagesBulk(c echo.Context) error {
	var req BulkCreateMessagesRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	items := make([]domain.NewMessage, len(req.Messages))
	for i, m := range req.Messages {
		items[i] = m.toDomain()
	}

	result := h.service.CreateMany(c.Request().Context(), items)

	return response.Created(c, fmt.Sprintf("%d of %d messages created", result.Created, result.Total), result)
}

// GetAllMessages godoc
// @Summary Get all messages
// @Description Retrieves a paginated list of all messages with optional status filter
// @Tags messages
// @Accept json
// @Produce json
// @Param x-api-token header string true "API token"
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Page size (default: 20, max: 100)"
// @Param status query string false "Filter by status (queued, sending, sent, retryable)"
// @Success 200 {object} response.PaginatedResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/messages [get]
func (h *MessageHandler) GetAllMessages(c echo.Context) error {
	page, pageSize, err := parsePaginationParams(c)
	if err != nil {
		return response.BadRequest(c, err)
	}

	statusStr := c.QueryParam("status")

	// Convert status string to pointer (optional filter).
	var status *domain.MessageStatus
	if statusStr != "" {
		parsedStatus := domain.MessageStatus(statusStr)
		if !parsedStatus.Valid() {
			return response.BadRequestWithMessage(c, "status must be one of queued, sending, sent, retryable")
		}
		status = &parsedStatus
	}

	messages, totalCount, err := h.service.GetAllMessages(c.Request().Context(), status, page, pageSize)
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Paginated(c, messages, page, pageSize, totalCount)
}

// GetMessage godoc
// @Summary Get a message
// @Tags messages
// @Produce json
// @Param x-api-token header string true "API token"
// @Param id path string true "Message ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/messages/{id} [get]
func (h *MessageHandler) GetMessage(c echo.Context) error {
	message, err := h.service.GetMessage(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	return response.Ok(c, message)
}

// UpdateMessage godoc
// @Summary Update a message
// @Description Partially updates content, recipient, channel, due time or status
// @Tags messages
// @Accept json
// @Produce json
// @Param x-api-token header string true "API token"
// @Param id path string true "Message ID"
// @Param message body UpdateMessageRequest true "Fields to change"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /api/v1/messages/{id} [put]
func (h *MessageHandler) UpdateMessage(c echo.Context) error {
	var req UpdateMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	message, err := h.service.UpdateMessage(c.Request().Context(), c.Param("id"), req.toDomain())
	if err != nil {
		return respondError(c, err)
	}

	return response.OkWithMessage(c, "Message updated successfully", message)
}

// DeleteMessage godoc
// @Summary Delete a message
// @Tags messages
// @Param x-api-token header string true "API token"
// @Param id path string true "Message ID"
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/messages/{id} [delete]
func (h *MessageHandler) DeleteMessage(c echo.Context) error {
	if err := h.service.DeleteMessage(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err)
	}

	return response.NoContent(c)
}

// SendMessage godoc
// @Summary Send a message now
// @Description Dispatches one message immediately, bypassing the scheduler
// @Tags messages
// @Produce json
// @Param x-api-token header string true "API token"
// @Param id path string true "Message ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Failure 502 {object} response.FailureResponse
// @Router /api/v1/messages/{id}/send [post]
func (h *MessageHandler) SendMessage(c echo.Context) error {
	message, err := h.dispatcher.Dispatch(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrStorageFault) {
			return respondError(c, err)
		}
		if errors.Is(err, domain.ErrDeliveryFailure) || errors.Is(err, domain.ErrTransportFault) {
			return response.BadGateway(c, err, message)
		}
		return respondError(c, err)
	}

	return response.OkWithMessage(c, "Message sent successfully", message)
}

// GetStats godoc
// @Summary Get message statistics
// @Description Returns count of messages by status
// @Tags messages
// @Accept json
// @Produce json
// @Param x-api-token header string true "API token"
// @Success 200 {object} response.SuccessResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/messages/stats [get]
func (h *MessageHandler) GetStats(c echo.Context) error {
	stats, err := h.service.GetStats(c.Request().Context())
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, map[string]any{
		"queued":    stats.Queued,
		"sending":   stats.Sending,
		"sent":      stats.Sent,
		"retryable": stats.Retryable,
		"total":     stats.Total(),
	})
}

// GetCachedMessages godoc
// @Summary Get cached messages from Redis
// @Description Returns the channel message ids of messages sent in the last 24 hours
// @Tags messages
// @Accept json
// @Produce json
// @Param x-api-token header string true "API token"
// @Success 200 {object} response.SuccessResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/messages/cached [get]
func (h *MessageHandler) GetCachedMessages(c echo.Context) error {
	cached, err := h.service.GetCachedMessages(c.Request().Context())
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, cached)
}

func parsePaginationParams(c echo.Context) (int, int, error) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)

	pageStr := c.QueryParam("page")
	pageSizeStr := c.QueryParam("pageSize")

	// Page
	page := defaultPage
	if pageStr != "" {
		p, err := strconv.Atoi(pageStr)
		if err != nil || p <= 0 {
			return 0, 0, fmt.Errorf("page must be a positive integer")
		}
		page = p
	}

	// Page size
	pageSize := defaultPageSize
	if pageSizeStr != "" {
		ps, err := strconv.Atoi(pageSizeStr)
		if err != nil || ps <= 0 || ps > maxPageSize {
			return 0, 0, fmt.Errorf("pageSize must be between 1 and %d", maxPageSize)
		}

		pageSize = ps
	}

	return page, pageSize, nil
}
