package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/onurcolak/message-dispatcher/internal/domain"
)

// Five fields: minute, hour, day-of-month, month, day-of-week. Descriptors such as
// @hourly and @every 10m are accepted as well.
var cadenceParser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ParseCadence parses a cron expression into a schedule.
func ParseCadence(expr string) (cron.Schedule, error) {
	schedule, err := cadenceParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", domain.ErrInvalidCadence, expr, err)
	}
	return schedule, nil
}

func ValidateCadence(expr string) error {
	_, err := ParseCadence(expr)
	return err
}
