package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onurcolak/message-dispatcher/internal/domain"
)

type stubAdapter struct{ id string }

func (s stubAdapter) Send(context.Context, string, string) (domain.DispatchOutcome, error) {
	return domain.DispatchOutcome{Success: true, ChannelMessageID: s.id}, nil
}

func TestRouter_Route(t *testing.T) {
	router := NewRouter(map[domain.Channel]Adapter{
		domain.ChannelWhatsApp: stubAdapter{id: "wa"},
		domain.ChannelTikTok:   stubAdapter{id: "tt"},
		domain.ChannelTelegram: nil,
	})

	adapter, err := router.Route(domain.ChannelTikTok)
	require.NoError(t, err)

	outcome, err := adapter.Send(context.Background(), "r", "c")
	require.NoError(t, err)
	assert.Equal(t, "tt", outcome.ChannelMessageID)

	_, err = router.Route(domain.ChannelTelegram)
	assert.True(t, errors.Is(err, domain.ErrUnsupportedChannel))

	_, err = router.Route(domain.Channel("sms"))
	assert.True(t, errors.Is(err, domain.ErrUnsupportedChannel))
}

func TestRouter_ChannelsFollowsDeclaredOrder(t *testing.T) {
	router := NewRouter(map[domain.Channel]Adapter{
		domain.ChannelTelegram: stubAdapter{},
		domain.ChannelWhatsApp: stubAdapter{},
	})

	assert.Equal(t, []domain.Channel{domain.ChannelWhatsApp, domain.ChannelTelegram}, router.Channels())
}

func TestRouter_IgnoresUnknownChannels(t *testing.T) {
	router := NewRouter(map[domain.Channel]Adapter{
		domain.ChannelWhatsApp: stubAdapter{id: "wa"},
		domain.Channel("sms"):  stubAdapter{id: "sms"},
	})

	_, err := router.Route(domain.Channel("sms"))
	assert.True(t, errors.Is(err, domain.ErrUnsupportedChannel))
	assert.Equal(t, []domain.Channel{domain.ChannelWhatsApp}, router.Channels())
}
