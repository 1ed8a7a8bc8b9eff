package dispatch

import (
	"context"
	"fmt"

	"github.com/onurcolak/message-dispatcher/internal/domain"
)

// Adapter sends one message over a single channel. A returned error means the
// provider could not be reached; a rejected message comes back as an unsuccessful outcome.
type Adapter interface {
	Send(ctx context.Context, recipient, content string) (domain.DispatchOutcome, error)
}

type Router struct {
	adapters map[domain.Channel]Adapter
}

// NewRouter registers the non-nil adapters. Keys outside domain.Channels are ignored.
func NewRouter(adapters map[domain.Channel]Adapter) *Router {
	registered := make(map[domain.Channel]Adapter, len(adapters))
	for channel, adapter := range adapters {
		if adapter != nil && channel.Valid() {
			registered[channel] = adapter
		}
	}
	return &Router{adapters: registered}
}

// Route returns the adapter registered for channel.
func (r *Router) Route(channel domain.Channel) (Adapter, error) {
	adapter, ok := r.adapters[channel]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedChannel, channel)
	}
	return adapter, nil
}

func (r *Router) Channels() []domain.Channel {
	channels := make([]domain.Channel, 0, len(r.adapters))
	for _, channel := range domain.Channels {
		if _, ok := r.adapters[channel]; ok {
			channels = append(channels, channel)
		}
	}
	return channels
}
