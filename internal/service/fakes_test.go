package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/onurcolak/message-dispatcher/internal/domain"
)

//
// Test fakes shared by the service tests.
//

// memoryStore is an in-memory message store with the same due ordering as the MySQL one.
type memoryStore struct {
	mu       sync.Mutex
	messages map[string]*domain.Message
	seq      int
	now      time.Time

	claimErr         error
	markRetryableErr error
	createErr        map[string]error // keyed by content
	claimCalls       int
}

func newMemoryStore(now time.Time) *memoryStore {
	return &memoryStore{messages: make(map[string]*domain.Message), now: now}
}

func (m *memoryStore) add(msg domain.Message) *domain.Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	if msg.ID == "" {
		msg.ID = fmt.Sprintf("msg-%d", m.seq)
	}
	if msg.Status == "" {
		msg.Status = domain.StatusQueued
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = m.now.Add(time.Duration(m.seq) * time.Second)
	}
	msg.UpdatedAt = msg.CreatedAt
	m.messages[msg.ID] = &msg

	c := msg
	return &c
}

func (m *memoryStore) get(id string) domain.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.messages[id]
}

func (m *memoryStore) Create(ctx context.Context, msg domain.NewMessage) (*domain.Message, error) {
	if err := m.createErr[msg.Content]; err != nil {
		return nil, err
	}
	return m.add(domain.Message{
		Content:     msg.Content,
		Recipient:   msg.Recipient,
		Channel:     msg.Channel,
		ScheduledAt: msg.ScheduledAt,
	}), nil
}

func (m *memoryStore) GetByID(ctx context.Context, id string) (*domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	msg, ok := m.messages[id]
	if !ok {
		return nil, nil
	}
	c := *msg
	return &c, nil
}

func (m *memoryStore) GetAll(ctx context.Context, status *domain.MessageStatus, page, pageSize int) ([]domain.Message, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.Message
	for _, msg := range m.messages {
		if status == nil || msg.Status == *status {
			out = append(out, *msg)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memoryStore) FindDue(ctx context.Context, now time.Time) ([]domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var due []domain.Message
	for _, msg := range m.messages {
		if msg.IsDue(now) {
			due = append(due, *msg)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		a, b := due[i], due[j]
		switch {
		case a.ScheduledAt == nil && b.ScheduledAt != nil:
			return true
		case a.ScheduledAt != nil && b.ScheduledAt == nil:
			return false
		case a.ScheduledAt != nil && !a.ScheduledAt.Equal(*b.ScheduledAt):
			return a.ScheduledAt.Before(*b.ScheduledAt)
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})

	return due, nil
}

func (m *memoryStore) Update(ctx context.Context, id string, upd domain.MessageUpdate) (*domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	msg, ok := m.messages[id]
	if !ok {
		return nil, nil
	}
	if upd.Content != nil {
		msg.Content = *upd.Content
	}
	if upd.Recipient != nil {
		msg.Recipient = *upd.Recipient
	}
	if upd.Channel != nil {
		msg.Channel = *upd.Channel
	}
	if upd.ScheduledAt != nil {
		msg.ScheduledAt = upd.ScheduledAt
	}
	if upd.Status != nil {
		msg.Status = *upd.Status
		if msg.Status != domain.StatusSent {
			msg.SentAt = nil
		}
	}
	c := *msg
	return &c, nil
}

func (m *memoryStore) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.messages[id]; !ok {
		return false, nil
	}
	delete(m.messages, id)
	return true, nil
}

func (m *memoryStore) ClaimForSending(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.claimCalls++
	if m.claimErr != nil {
		return false, m.claimErr
	}
	msg, ok := m.messages[id]
	if !ok || msg.Status == domain.StatusSending {
		return false, nil
	}
	msg.Status = domain.StatusSending
	msg.Attempts++
	return true, nil
}

func (m *memoryStore) ClaimDue(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.claimCalls++
	if m.claimErr != nil {
		return false, m.claimErr
	}
	msg, ok := m.messages[id]
	if !ok || (msg.Status != domain.StatusQueued && msg.Status != domain.StatusRetryable) {
		return false, nil
	}
	msg.Status = domain.StatusSending
	msg.Attempts++
	return true, nil
}

func (m *memoryStore) MarkSent(ctx context.Context, id string, channelMessageID string, sentAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	msg := m.messages[id]
	msg.Status = domain.StatusSent
	msg.SentAt = &sentAt
	msg.LastError = nil
	if channelMessageID != "" {
		msg.ChannelMessageID = &channelMessageID
	}
	return nil
}

func (m *memoryStore) MarkRetryable(ctx context.Context, id string, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.markRetryableErr != nil {
		return m.markRetryableErr
	}

	msg := m.messages[id]
	msg.Status = domain.StatusRetryable
	msg.SentAt = nil
	msg.LastError = &reason
	return nil
}

func (m *memoryStore) GetStats(ctx context.Context) (domain.MessageStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var stats domain.MessageStats
	for _, msg := range m.messages {
		switch msg.Status {
		case domain.StatusQueued:
			stats.Queued++
		case domain.StatusSending:
			stats.Sending++
		case domain.StatusSent:
			stats.Sent++
		case domain.StatusRetryable:
			stats.Retryable++
		}
	}
	return stats, nil
}

func (m *memoryStore) ReleaseStuckSending(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var released int64
	for _, msg := range m.messages {
		if msg.Status == domain.StatusSending {
			msg.Status = domain.StatusRetryable
			released++
		}
	}
	return released, nil
}

// stubAdapter returns a fixed outcome and records what it was asked to send.
type stubAdapter struct {
	mu      sync.Mutex
	outcome domain.DispatchOutcome
	err     error
	failFor map[string]bool // recipients that get a failure outcome
	sentTo  []string
	onSend  func()
}

func (a *stubAdapter) Send(ctx context.Context, recipient, content string) (domain.DispatchOutcome, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.sentTo = append(a.sentTo, recipient)
	if a.onSend != nil {
		a.onSend()
	}
	if a.err != nil {
		return domain.DispatchOutcome{}, a.err
	}
	if a.failFor[recipient] {
		return domain.DispatchOutcome{Success: false, Error: "recipient blocked"}, nil
	}
	return a.outcome, nil
}

func (a *stubAdapter) calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.sentTo)
}

type fakeCache struct {
	cached map[string]*domain.SentMessageCache
}

func (c *fakeCache) CacheSentMessage(ctx context.Context, id string, channelMessageID string, sentAt time.Time) error {
	if c.cached == nil {
		c.cached = make(map[string]*domain.SentMessageCache)
	}
	c.cached[id] = &domain.SentMessageCache{ChannelMessageID: channelMessageID, SentAt: sentAt}
	return nil
}

func (c *fakeCache) GetAllCachedMessages(ctx context.Context) (map[string]*domain.SentMessageCache, error) {
	return c.cached, nil
}
