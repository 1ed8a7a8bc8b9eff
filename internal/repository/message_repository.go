package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/onurcolak/message-dispatcher/internal/domain"
)

const messageColumns = `id, content, recipient, channel, status, scheduled_at, sent_at,
	channel_message_id, attempts, last_error, created_at, updated_at`

// MessageRepository handles database operations for messages.
type MessageRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db, now: time.Now}
}

func (r *MessageRepository) Create(ctx context.Context, msg domain.NewMessage) (*domain.Message, error) {
	id := uuid.NewString()
	now := r.now().UTC()

	query := `
		INSERT INTO messages (id, content, recipient, channel, status, scheduled_at, attempts, created_at, updated_at)
		VALUES (?, ?, ?, ?, 'queued', ?, 0, ?, ?)
	`

	var scheduledAt *time.Time
	if msg.ScheduledAt != nil {
		utc := msg.ScheduledAt.UTC()
		scheduledAt = &utc
	}

	if _, err := r.db.ExecContext(ctx, query, id, msg.Content, msg.Recipient, msg.Channel, scheduledAt, now, now); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *MessageRepository) GetByID(ctx context.Context, id string) (*domain.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE id = ?`

	var message domain.Message
	if err := r.db.GetContext(ctx, &message, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}

	return &message, nil
}

func (r *MessageRepository) GetAll(
	ctx context.Context,
	status *domain.MessageStatus,
	page, pageSize int,
) ([]domain.Message, int64, error) {
	offset := (page - 1) * pageSize
	var totalCount int64
	messages := []domain.Message{}

	if status != nil {
		countQuery := "SELECT COUNT(*) FROM messages WHERE status = ?"
		if err := r.db.GetContext(ctx, &totalCount, countQuery, *status); err != nil {
			return nil, 0, fmt.Errorf("failed to count messages: %w", err)
		}

		query := `SELECT ` + messageColumns + `
			FROM messages
			WHERE status = ?
			ORDER BY created_at DESC
			LIMIT ? OFFSET ?`
		if err := r.db.SelectContext(ctx, &messages, query, *status, pageSize, offset); err != nil {
			return nil, 0, fmt.Errorf("failed to get messages: %w", err)
		}
	} else {
		countQuery := "SELECT COUNT(*) FROM messages"
		if err := r.db.GetContext(ctx, &totalCount, countQuery); err != nil {
			return nil, 0, fmt.Errorf("failed to count messages: %w", err)
		}

		query := `SELECT ` + messageColumns + `
			FROM messages
			ORDER BY created_at DESC
			LIMIT ? OFFSET ?`
		if err := r.db.SelectContext(ctx, &messages, query, pageSize, offset); err != nil {
			return nil, 0, fmt.Errorf("failed to get messages: %w", err)
		}
	}

	return messages, totalCount, nil
}

// FindDue returns queued and retryable messages whose schedule is unset or not after now.
// Unscheduled messages come first, then by scheduled time and creation time.
func (r *MessageRepository) FindDue(ctx context.Context, now time.Time) ([]domain.Message, error) {
	query := `SELECT ` + messageColumns + `
		FROM messages
		WHERE status IN ('queued', 'retryable')
		  AND (scheduled_at IS NULL OR scheduled_at <= ?)
		ORDER BY scheduled_at IS NOT NULL, scheduled_at ASC, created_at ASC`

	messages := []domain.Message{}
	if err := r.db.SelectContext(ctx, &messages, query, now.UTC()); err != nil {
		return nil, fmt.Errorf("failed to get due messages: %w", err)
	}

	return messages, nil
}

// Update applies a partial edit. Moving a message out of sent clears its sent time so the
// record never claims a delivery it no longer has.
func (r *MessageRepository) Update(ctx context.Context, id string, upd domain.MessageUpdate) (*domain.Message, error) {
	sets := make([]string, 0, 6)
	args := make([]any, 0, 7)

	if upd.Content != nil {
		sets = append(sets, "content = ?")
		args = append(args, *upd.Content)
	}
	if upd.Recipient != nil {
		sets = append(sets, "recipient = ?")
		args = append(args, *upd.Recipient)
	}
	if upd.Channel != nil {
		sets = append(sets, "channel = ?")
		args = append(args, *upd.Channel)
	}
	if upd.ScheduledAt != nil {
		sets = append(sets, "scheduled_at = ?")
		args = append(args, upd.ScheduledAt.UTC())
	}
	if upd.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *upd.Status)
		if *upd.Status == domain.StatusSent {
			sets = append(sets, "sent_at = COALESCE(sent_at, ?)")
			args = append(args, r.now().UTC())
		} else {
			sets = append(sets, "sent_at = NULL")
		}
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, r.now().UTC(), id)

	query := "UPDATE messages SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to update message: %w", err)
	}

	// MySQL reports zero affected rows for no-op updates, so existence is decided by the re-read.
	return r.GetByID(ctx, id)
}

func (r *MessageRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM messages WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete message: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows > 0, nil
}

// ClaimForSending moves a message into sending unless another attempt already holds it.
// Sent messages can be claimed, so an operator can resend them.
// It returns false when the row is missing or already in sending.
func (r *MessageRepository) ClaimForSending(ctx context.Context, id string) (bool, error) {
	return r.claim(ctx, id, "status <> 'sending'")
}

// ClaimDue moves a message into sending only while it is still queued or retryable.
// It returns false once another attempt has claimed or delivered it.
func (r *MessageRepository) ClaimDue(ctx context.Context, id string) (bool, error) {
	return r.claim(ctx, id, "status IN ('queued', 'retryable')")
}

func (r *MessageRepository) claim(ctx context.Context, id string, eligible string) (bool, error) {
	query := `
		UPDATE messages
		SET status = 'sending', attempts = attempts + 1, updated_at = ?
		WHERE id = ? AND ` + eligible

	result, err := r.db.ExecContext(ctx, query, r.now().UTC(), id)
	if err != nil {
		return false, fmt.Errorf("failed to mark message as sending: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows > 0, nil
}

func (r *MessageRepository) MarkSent(ctx context.Context, id string, channelMessageID string, sentAt time.Time) error {
	query := `
		UPDATE messages
		SET status = 'sent', sent_at = ?, channel_message_id = ?, last_error = NULL, updated_at = ?
		WHERE id = ?
	`

	var remoteID *string
	if channelMessageID != "" {
		remoteID = &channelMessageID
	}

	result, err := r.db.ExecContext(ctx, query, sentAt.UTC(), remoteID, r.now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to mark message as sent: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("no message found with id %s", id)
	}

	return nil
}

func (r *MessageRepository) MarkRetryable(ctx context.Context, id string, reason string) error {
	query := `
		UPDATE messages
		SET status = 'retryable', sent_at = NULL, last_error = ?, updated_at = ?
		WHERE id = ?
	`

	if _, err := r.db.ExecContext(ctx, query, reason, r.now().UTC(), id); err != nil {
		return fmt.Errorf("failed to mark message as retryable: %w", err)
	}

	return nil
}

// ReleaseStuckSending returns messages left in sending by an interrupted process to retryable.
func (r *MessageRepository) ReleaseStuckSending(ctx context.Context) (int64, error) {
	query := `
		UPDATE messages
		SET status = 'retryable', last_error = 'interrupted while sending', updated_at = ?
		WHERE status = 'sending'
	`

	result, err := r.db.ExecContext(ctx, query, r.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to release stuck messages: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows, nil
}

// GetStats returns message counts per status.
func (r *MessageRepository) GetStats(ctx context.Context) (domain.MessageStats, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN status = 'queued' THEN 1 ELSE 0 END), 0)    AS queued,
			COALESCE(SUM(CASE WHEN status = 'sending' THEN 1 ELSE 0 END), 0)   AS sending,
			COALESCE(SUM(CASE WHEN status = 'sent' THEN 1 ELSE 0 END), 0)      AS sent,
			COALESCE(SUM(CASE WHEN status = 'retryable' THEN 1 ELSE 0 END), 0) AS retryable
		FROM messages
	`

	var stats domain.MessageStats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return domain.MessageStats{}, fmt.Errorf("failed to get stats: %w", err)
	}

	return stats, nil
}
