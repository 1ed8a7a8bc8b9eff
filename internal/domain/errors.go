package domain

import "errors"

var (
	ErrMessageNotFound        = errors.New("message not found")
	ErrScheduleConfigNotFound = errors.New("schedule config not found")
	ErrScheduleConfigConflict = errors.New("schedule config with this name already exists")

	// ErrMessageInFlight is returned when another attempt already holds the message in sending.
	ErrMessageInFlight = errors.New("message is already being sent")

	ErrUnsupportedChannel = errors.New("unsupported channel")
	ErrTransportFault     = errors.New("transport fault")
	ErrDeliveryFailure    = errors.New("delivery failed")
	ErrStorageFault       = errors.New("storage fault")
	ErrInvalidCadence     = errors.New("invalid cron expression")
	ErrInvalidMessage     = errors.New("invalid message")

	ErrInvalidScheduleConfig = errors.New("invalid schedule config")
)
