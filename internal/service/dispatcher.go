package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/onurcolak/message-dispatcher/internal/dispatch"
	"github.com/onurcolak/message-dispatcher/internal/domain"
	"github.com/onurcolak/message-dispatcher/pkg/logger"
	"github.com/onurcolak/message-dispatcher/pkg/metrics"
)

type dispatchStore interface {
	GetByID(ctx context.Context, id string) (*domain.Message, error)
	FindDue(ctx context.Context, now time.Time) ([]domain.Message, error)
	ClaimForSending(ctx context.Context, id string) (bool, error)
	ClaimDue(ctx context.Context, id string) (bool, error)
	MarkSent(ctx context.Context, id string, channelMessageID string, sentAt time.Time) error
	MarkRetryable(ctx context.Context, id string, reason string) error
}

type channelRouter interface {
	Route(channel domain.Channel) (dispatch.Adapter, error)
}

type sentMessageCache interface {
	CacheSentMessage(ctx context.Context, id string, channelMessageID string, sentAt time.Time) error
}

// Dispatcher drives a single message from queued or retryable to sent or retryable.
type Dispatcher struct {
	repo   dispatchStore
	router channelRouter
	cache  sentMessageCache
	now    func() time.Time
}

func NewDispatcher(repo dispatchStore, router channelRouter, cache sentMessageCache) *Dispatcher {
	return &Dispatcher{
		repo:   repo,
		router: router,
		cache:  cache,
		now:    time.Now,
	}
}

// Dispatch makes one delivery attempt for the message with the given id.
//
// The channel is resolved before the message is touched, so an unsupported channel leaves
// the stored status as it was. A failed attempt is always persisted as retryable before the
// error is returned; in that case the returned message is the retryable record and the error
// wraps ErrDeliveryFailure or ErrTransportFault.
func (d *Dispatcher) Dispatch(ctx context.Context, id string) (*domain.Message, error) {
	msg, err := d.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load message %s: %w", domain.ErrStorageFault, id, err)
	}
	if msg == nil {
		return nil, domain.ErrMessageNotFound
	}

	return d.attempt(ctx, msg, d.repo.ClaimForSending)
}

func (d *Dispatcher) attempt(
	ctx context.Context,
	msg *domain.Message,
	claim func(ctx context.Context, id string) (bool, error),
) (*domain.Message, error) {
	adapter, err := d.router.Route(msg.Channel)
	if err != nil {
		metrics.DispatchAttempts.WithLabelValues(string(msg.Channel), "unsupported").Inc()
		return nil, err
	}

	claimed, err := claim(ctx, msg.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStorageFault, err)
	}
	if !claimed {
		return nil, fmt.Errorf("%w: %s", domain.ErrMessageInFlight, msg.ID)
	}

	startTime := d.now()
	outcome, sendErr := adapter.Send(ctx, msg.Recipient, msg.Content)
	metrics.DispatchDuration.WithLabelValues(string(msg.Channel)).Observe(d.now().Sub(startTime).Seconds())

	// The attempt already happened; the record must leave sending even if the caller went away.
	persistCtx := context.WithoutCancel(ctx)

	if sendErr != nil {
		metrics.DispatchAttempts.WithLabelValues(string(msg.Channel), "transport_fault").Inc()
		logger.Errorf("Transport fault sending message %s via %s: %v", msg.ID, msg.Channel, sendErr)

		updated, err := d.markRetryable(persistCtx, msg.ID, sendErr.Error())
		if err != nil {
			return nil, fmt.Errorf("%w (after transport fault: %v)", err, sendErr)
		}
		return updated, fmt.Errorf("%w: %w", domain.ErrTransportFault, sendErr)
	}

	if !outcome.Success {
		metrics.DispatchAttempts.WithLabelValues(string(msg.Channel), "retryable").Inc()

		reason := outcome.Error
		if reason == "" {
			reason = "channel reported failure"
		}
		logger.Warnf("Message %s was not delivered via %s: %s", msg.ID, msg.Channel, reason)

		updated, err := d.markRetryable(persistCtx, msg.ID, reason)
		if err != nil {
			return nil, err
		}
		return updated, fmt.Errorf("%w: %s", domain.ErrDeliveryFailure, reason)
	}

	sentAt := d.now().UTC()
	if err := d.repo.MarkSent(persistCtx, msg.ID, outcome.ChannelMessageID, sentAt); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStorageFault, err)
	}
	metrics.DispatchAttempts.WithLabelValues(string(msg.Channel), "sent").Inc()

	if d.cache != nil {
		if err := d.cache.CacheSentMessage(persistCtx, msg.ID, outcome.ChannelMessageID, sentAt); err != nil {
			logger.Warnf("Failed to cache message %s: %v", msg.ID, err)
		}
	}

	logger.Infof("Sent message %s via %s (channelMessageId: %s)", msg.ID, msg.Channel, outcome.ChannelMessageID)

	return d.reload(persistCtx, msg.ID)
}

func (d *Dispatcher) markRetryable(ctx context.Context, id, reason string) (*domain.Message, error) {
	if err := d.repo.MarkRetryable(ctx, id, reason); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStorageFault, err)
	}
	return d.reload(ctx, id)
}

func (d *Dispatcher) reload(ctx context.Context, id string) (*domain.Message, error) {
	msg, err := d.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to reload message %s: %w", domain.ErrStorageFault, id, err)
	}
	if msg == nil {
		return nil, domain.ErrMessageNotFound
	}
	return msg, nil
}

// DispatchDue attempts every message due at now, one at a time and in due order.
// Per-message failures are recorded in the results and never stop the batch; only a
// failure to query the due set is returned as an error. Messages that left the due set
// after the query are skipped and do not appear in the results.
func (d *Dispatcher) DispatchDue(ctx context.Context, now time.Time) ([]domain.DispatchResult, error) {
	due, err := d.repo.FindDue(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to find due messages: %w", domain.ErrStorageFault, err)
	}

	if len(due) == 0 {
		logger.Debugf("No due messages")
		return nil, nil
	}

	logger.Infof("Dispatching %d due messages", len(due))

	results := make([]domain.DispatchResult, 0, len(due))
	for i := range due {
		msg := &due[i]

		updated, err := d.attempt(ctx, msg, d.repo.ClaimDue)
		if errors.Is(err, domain.ErrMessageInFlight) {
			logger.Debugf("Skipping message %s, claimed by another attempt since the due query", msg.ID)
			continue
		}

		result := domain.DispatchResult{
			MessageID: msg.ID,
			Channel:   msg.Channel,
			Status:    msg.Status,
		}
		if updated != nil {
			result.Status = updated.Status
		}
		if err != nil {
			logger.Errorf("Dispatch of message %s failed: %v", msg.ID, err)
			result.Error = err
		} else {
			result.Success = true
		}

		results = append(results, result)
	}

	return results, nil
}
