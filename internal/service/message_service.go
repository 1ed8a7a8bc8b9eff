package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/onurcolak/message-dispatcher/environments"
	"github.com/onurcolak/message-dispatcher/internal/domain"
	"github.com/onurcolak/message-dispatcher/pkg/logger"
	"github.com/onurcolak/message-dispatcher/pkg/metrics"
)

// Small internal interfaces so we can test without touching real DB/Redis.
type messageRepository interface {
	Create(ctx context.Context, msg domain.NewMessage) (*domain.Message, error)
	GetByID(ctx context.Context, id string) (*domain.Message, error)
	GetAll(ctx context.Context, status *domain.MessageStatus, page, pageSize int) ([]domain.Message, int64, error)
	Update(ctx context.Context, id string, upd domain.MessageUpdate) (*domain.Message, error)
	Delete(ctx context.Context, id string) (bool, error)
	GetStats(ctx context.Context) (domain.MessageStats, error)
	ReleaseStuckSending(ctx context.Context) (int64, error)
}

type cacheReader interface {
	GetAllCachedMessages(ctx context.Context) (map[string]*domain.SentMessageCache, error)
}

type MessageService struct {
	repo   messageRepository
	cache  cacheReader
	config environments.MessageConfig
}

func NewMessageService(repo messageRepository, cache cacheReader, config environments.MessageConfig) *MessageService {
	return &MessageService{
		repo:   repo,
		cache:  cache,
		config: config,
	}
}

func (s *MessageService) CreateMessage(ctx context.Context, msg domain.NewMessage) (*domain.Message, error) {
	if err := msg.Validate(s.config.MaxContentLength); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStorageFault, err)
	}

	return created, nil
}

// CreateMany creates items in input order. A failing item is recorded against its index
// and the remaining items are still processed.
func (s *MessageService) CreateMany(ctx context.Context, items []domain.NewMessage) domain.BulkCreateResult {
	result := domain.BulkCreateResult{
		Total:  len(items),
		IDs:    make([]string, 0, len(items)),
		Errors: make([]domain.BulkCreateError, 0),
	}

	for i, item := range items {
		created, err := s.CreateMessage(ctx, item)
		if err != nil {
			logger.Warnf("Bulk item %d rejected: %v", i, err)
			result.Failed++
			result.Errors = append(result.Errors, domain.BulkCreateError{Index: i, Reason: err.Error()})
			metrics.BulkCreateItems.WithLabelValues("failed").Inc()
			continue
		}

		result.Created++
		result.IDs = append(result.IDs, created.ID)
		metrics.BulkCreateItems.WithLabelValues("created").Inc()
	}

	logger.Infof("Bulk create finished: %d created, %d failed", result.Created, result.Failed)

	return result
}

func (s *MessageService) GetMessage(ctx context.Context, id string) (*domain.Message, error) {
	msg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStorageFault, err)
	}
	if msg == nil {
		return nil, domain.ErrMessageNotFound
	}
	return msg, nil
}

func (s *MessageService) GetAllMessages(
	ctx context.Context,
	status *domain.MessageStatus,
	page,
	pageSize int,
) ([]domain.Message, int64, error) {
	return s.repo.GetAll(ctx, status, page, pageSize)
}

// UpdateMessage applies a partial edit. The sending status belongs to dispatch attempts
// and cannot be set directly.
func (s *MessageService) UpdateMessage(ctx context.Context, id string, upd domain.MessageUpdate) (*domain.Message, error) {
	if upd.IsEmpty() {
		return nil, fmt.Errorf("%w: no fields to update", domain.ErrInvalidMessage)
	}

	if upd.Content != nil {
		if strings.TrimSpace(*upd.Content) == "" {
			return nil, fmt.Errorf("%w: content must not be empty", domain.ErrInvalidMessage)
		}
		if utf8.RuneCountInString(*upd.Content) > s.config.MaxContentLength {
			return nil, fmt.Errorf("%w: content exceeds maximum length of %d characters",
				domain.ErrInvalidMessage, s.config.MaxContentLength)
		}
	}
	if upd.Recipient != nil && strings.TrimSpace(*upd.Recipient) == "" {
		return nil, fmt.Errorf("%w: recipient must not be empty", domain.ErrInvalidMessage)
	}
	if upd.Channel != nil && !upd.Channel.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedChannel, *upd.Channel)
	}
	if upd.Status != nil {
		if !upd.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidMessage, *upd.Status)
		}
		if *upd.Status == domain.StatusSending {
			return nil, fmt.Errorf("%w: status %q is reserved for dispatch attempts", domain.ErrInvalidMessage, *upd.Status)
		}
	}

	updated, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStorageFault, err)
	}
	if updated == nil {
		return nil, domain.ErrMessageNotFound
	}

	return updated, nil
}

func (s *MessageService) DeleteMessage(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorageFault, err)
	}
	if !deleted {
		return domain.ErrMessageNotFound
	}
	return nil
}

func (s *MessageService) GetStats(ctx context.Context) (domain.MessageStats, error) {
	return s.repo.GetStats(ctx)
}

func (s *MessageService) GetCachedMessages(ctx context.Context) (map[string]*domain.SentMessageCache, error) {
	if s.cache == nil {
		return nil, fmt.Errorf("redis client not configured")
	}
	return s.cache.GetAllCachedMessages(ctx)
}

// ReleaseStuckSending hands messages abandoned mid-attempt back to the scheduler.
func (s *MessageService) ReleaseStuckSending(ctx context.Context) (int64, error) {
	released, err := s.repo.ReleaseStuckSending(ctx)
	if err != nil {
		return 0, err
	}
	if released > 0 {
		logger.Warnf("Released %d messages left in sending", released)
	}
	return released, nil
}
