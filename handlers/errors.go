package handlers

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/onurcolak/message-dispatcher/internal/domain"
	"github.com/onurcolak/message-dispatcher/pkg/logger"
	"github.com/onurcolak/message-dispatcher/pkg/response"
)

// respondError maps domain errors onto HTTP responses.
func respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrMessageNotFound), errors.Is(err, domain.ErrScheduleConfigNotFound):
		return response.NotFound(c, err.Error())

	case errors.Is(err, domain.ErrScheduleConfigConflict), errors.Is(err, domain.ErrMessageInFlight):
		return response.Conflict(c, err)

	case errors.Is(err, domain.ErrUnsupportedChannel),
		errors.Is(err, domain.ErrInvalidMessage),
		errors.Is(err, domain.ErrInvalidScheduleConfig),
		errors.Is(err, domain.ErrInvalidCadence):
		return response.UnprocessableEntity(c, err)

	default:
		logger.Errorf("%s %s failed: %v", c.Request().Method, c.Path(), err)
		return response.InternalServerError(c, err)
	}
}
