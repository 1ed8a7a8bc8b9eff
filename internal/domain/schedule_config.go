package domain

import "time"

// MessageSenderConfigName identifies the schedule config that drives the dispatch scheduler.
// Configs with any other name are stored but have no effect.
const MessageSenderConfigName = "message-sender"

type ScheduleConfig struct {
	ID             string    `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	CronExpression string    `db:"cron_expression" json:"cronExpression"`
	IsActive       bool      `db:"is_active" json:"isActive"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

type ScheduleConfigUpdate struct {
	CronExpression *string `json:"cronExpression,omitempty"`
	IsActive       *bool   `json:"isActive,omitempty"`
}

func (u ScheduleConfigUpdate) IsEmpty() bool {
	return u.CronExpression == nil && u.IsActive == nil
}
