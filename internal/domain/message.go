package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

type MessageStatus string

const (
	StatusQueued    MessageStatus = "queued"
	StatusSending   MessageStatus = "sending"
	StatusSent      MessageStatus = "sent"
	StatusRetryable MessageStatus = "retryable"
)

// Valid reports whether s is one of the known lifecycle states.
func (s MessageStatus) Valid() bool {
	switch s {
	case StatusQueued, StatusSending, StatusSent, StatusRetryable:
		return true
	}
	return false
}

// Channel is the outbound platform a message is delivered through.
type Channel string

const (
	ChannelWhatsApp Channel = "whatsapp"
	ChannelTikTok   Channel = "tiktok"
	ChannelTelegram Channel = "telegram"
)

// Channels lists every channel the service knows about.
var Channels = []Channel{ChannelWhatsApp, ChannelTikTok, ChannelTelegram}

func (c Channel) Valid() bool {
	for _, known := range Channels {
		if c == known {
			return true
		}
	}
	return false
}

type Message struct {
	ID               string        `db:"id" json:"id"`
	Content          string        `db:"content" json:"content"`
	Recipient        string        `db:"recipient" json:"recipient"`
	Channel          Channel       `db:"channel" json:"channel"`
	Status           MessageStatus `db:"status" json:"status"`
	ScheduledAt      *time.Time    `db:"scheduled_at" json:"scheduledAt,omitempty"`
	SentAt           *time.Time    `db:"sent_at" json:"sentAt,omitempty"`
	ChannelMessageID *string       `db:"channel_message_id" json:"channelMessageId,omitempty"`
	Attempts         int           `db:"attempts" json:"attempts"`
	LastError        *string       `db:"last_error" json:"lastError,omitempty"`
	CreatedAt        time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time     `db:"updated_at" json:"updatedAt"`
}

// IsDue reports whether the message is eligible for a scheduled dispatch at now.
func (m *Message) IsDue(now time.Time) bool {
	if m.Status != StatusQueued && m.Status != StatusRetryable {
		return false
	}
	return m.ScheduledAt == nil || !m.ScheduledAt.After(now)
}

// NewMessage carries the caller supplied fields of a message about to be created.
type NewMessage struct {
	Content     string     `json:"content"`
	Recipient   string     `json:"recipient"`
	Channel     Channel    `json:"channel"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
}

// Validate checks the fields the store cannot enforce on its own.
func (n NewMessage) Validate(maxContentLength int) error {
	if strings.TrimSpace(n.Content) == "" {
		return fmt.Errorf("%w: content is required", ErrInvalidMessage)
	}
	if maxContentLength > 0 && utf8.RuneCountInString(n.Content) > maxContentLength {
		return fmt.Errorf("%w: content exceeds maximum length of %d characters", ErrInvalidMessage, maxContentLength)
	}
	if strings.TrimSpace(n.Recipient) == "" {
		return fmt.Errorf("%w: recipient is required", ErrInvalidMessage)
	}
	if !n.Channel.Valid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedChannel, n.Channel)
	}
	return nil
}

// MessageUpdate is a partial edit; nil fields are left untouched.
type MessageUpdate struct {
	Content     *string        `json:"content,omitempty"`
	Recipient   *string        `json:"recipient,omitempty"`
	Channel     *Channel       `json:"channel,omitempty"`
	Status      *MessageStatus `json:"status,omitempty"`
	ScheduledAt *time.Time     `json:"scheduledAt,omitempty"`
}

func (u MessageUpdate) IsEmpty() bool {
	return u.Content == nil && u.Recipient == nil && u.Channel == nil && u.Status == nil && u.ScheduledAt == nil
}

// DispatchOutcome is what a platform adapter reports for a single send.
type DispatchOutcome struct {
	Success          bool
	ChannelMessageID string
	Error            string
}

// DispatchResult records what happened to one message during a scheduler firing.
type DispatchResult struct {
	MessageID string
	Channel   Channel
	Status    MessageStatus
	Success   bool
	Error     error
}

type BulkCreateError struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

type BulkCreateResult struct {
	Total   int               `json:"total"`
	Created int               `json:"created"`
	Failed  int               `json:"failed"`
	IDs     []string          `json:"messageIds"`
	Errors  []BulkCreateError `json:"errors"`
}

type MessageStats struct {
	Queued    int64 `db:"queued" json:"queued"`
	Sending   int64 `db:"sending" json:"sending"`
	Sent      int64 `db:"sent" json:"sent"`
	Retryable int64 `db:"retryable" json:"retryable"`
}

func (s MessageStats) Total() int64 {
	return s.Queued + s.Sending + s.Sent + s.Retryable
}

type SentMessageCache struct {
	ChannelMessageID string    `json:"channelMessageId"`
	SentAt           time.Time `json:"sentAt"`
}
