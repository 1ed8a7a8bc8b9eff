package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onurcolak/message-dispatcher/internal/domain"
)

var (
	fixedNow   = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	msgColumns = []string{
		"id", "content", "recipient", "channel", "status", "scheduled_at", "sent_at",
		"channel_message_id", "attempts", "last_error", "created_at", "updated_at",
	}
)

func newMessageRepo(t *testing.T) (*MessageRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewMessageRepository(sqlx.NewDb(db, "mysql"))
	repo.now = func() time.Time { return fixedNow }
	return repo, mock
}

func TestMessageRepository_CreateInsertsQueuedMessage(t *testing.T) {
	repo, mock := newMessageRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO messages")).
		WithArgs(sqlmock.AnyArg(), "hello", "+573001234567", domain.ChannelWhatsApp, nil, fixedNow, fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectQuery(regexp.QuoteMeta("FROM messages WHERE id = ?")).
		WillReturnRows(sqlmock.NewRows(msgColumns).AddRow(
			"id-1", "hello", "+573001234567", "whatsapp", "queued", nil, nil, nil, 0, nil, fixedNow, fixedNow,
		))

	msg, err := repo.Create(context.Background(), domain.NewMessage{
		Content:   "hello",
		Recipient: "+573001234567",
		Channel:   domain.ChannelWhatsApp,
	})
	require.NoError(t, err)
	require.NotNil(t, msg)

	assert.Equal(t, domain.StatusQueued, msg.Status)
	assert.Equal(t, domain.ChannelWhatsApp, msg.Channel)
	assert.Nil(t, msg.SentAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepository_GetByIDMissingReturnsNil(t *testing.T) {
	repo, mock := newMessageRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM messages WHERE id = ?")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(msgColumns))

	msg, err := repo.GetByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, msg)
}

func TestMessageRepository_FindDueFiltersAndOrders(t *testing.T) {
	repo, mock := newMessageRepo(t)
	scheduled := fixedNow.Add(-time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE status IN ('queued', 'retryable')") +
		".*" + regexp.QuoteMeta("ORDER BY scheduled_at IS NOT NULL, scheduled_at ASC, created_at ASC")).
		WithArgs(fixedNow).
		WillReturnRows(sqlmock.NewRows(msgColumns).
			AddRow("a", "x", "1", "tiktok", "queued", nil, nil, nil, 0, nil, fixedNow, fixedNow).
			AddRow("b", "y", "2", "whatsapp", "retryable", scheduled, nil, nil, 1, "quota", fixedNow, fixedNow))

	due, err := repo.FindDue(context.Background(), fixedNow)
	require.NoError(t, err)
	require.Len(t, due, 2)

	assert.Equal(t, "a", due[0].ID)
	assert.Equal(t, domain.StatusRetryable, due[1].Status)
	require.NotNil(t, due[1].LastError)
	assert.Equal(t, "quota", *due[1].LastError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepository_ClaimForSendingLostClaim(t *testing.T) {
	repo, mock := newMessageRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("WHERE id = ? AND status <> 'sending'")).
		WithArgs(fixedNow, "id-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	claimed, err := repo.ClaimForSending(context.Background(), "id-1")
	require.NoError(t, err)
	assert.False(t, claimed)
}

func TestMessageRepository_ClaimDueOnlyClaimsQueuedOrRetryable(t *testing.T) {
	repo, mock := newMessageRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("WHERE id = ? AND status IN ('queued', 'retryable')")).
		WithArgs(fixedNow, "id-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("WHERE id = ? AND status IN ('queued', 'retryable')")).
		WithArgs(fixedNow, "id-sent").
		WillReturnResult(sqlmock.NewResult(0, 0))

	claimed, err := repo.ClaimDue(context.Background(), "id-1")
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = repo.ClaimDue(context.Background(), "id-sent")
	require.NoError(t, err)
	assert.False(t, claimed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepository_UpdateStatusAwayFromSentClearsSentAt(t *testing.T) {
	repo, mock := newMessageRepo(t)
	status := domain.StatusQueued

	mock.ExpectExec(regexp.QuoteMeta("UPDATE messages SET status = ?, sent_at = NULL, updated_at = ? WHERE id = ?")).
		WithArgs(domain.StatusQueued, fixedNow, "id-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectQuery(regexp.QuoteMeta("FROM messages WHERE id = ?")).
		WillReturnRows(sqlmock.NewRows(msgColumns).AddRow(
			"id-1", "x", "1", "tiktok", "queued", nil, nil, nil, 1, nil, fixedNow, fixedNow,
		))

	msg, err := repo.Update(context.Background(), "id-1", domain.MessageUpdate{Status: &status})
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, domain.StatusQueued, msg.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepository_DeleteReportsMissingRow(t *testing.T) {
	repo, mock := newMessageRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM messages WHERE id = ?")).
		WithArgs("gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.Delete(context.Background(), "gone")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestMessageRepository_GetAllFiltersByStatus(t *testing.T) {
	repo, mock := newMessageRepo(t)
	status := domain.StatusRetryable

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM messages WHERE status = ?")).
		WithArgs(status).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(21))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = ?")).
		WithArgs(status, 10, 20).
		WillReturnRows(sqlmock.NewRows(msgColumns).AddRow(
			"id-9", "hi", "@someone", "telegram", "retryable", nil, nil, nil, 2, "timeout", fixedNow, fixedNow,
		))

	messages, total, err := repo.GetAll(context.Background(), &status, 3, 10)
	require.NoError(t, err)

	assert.Equal(t, int64(21), total)
	require.Len(t, messages, 1)
	assert.Equal(t, domain.StatusRetryable, messages[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
