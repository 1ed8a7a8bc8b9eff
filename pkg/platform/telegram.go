package platform

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/time/rate"
	tele "gopkg.in/telebot.v4"

	"github.com/onurcolak/message-dispatcher/environments"
	"github.com/onurcolak/message-dispatcher/internal/domain"
)

// TelegramClient sends messages with a bot token. It never polls for updates.
type TelegramClient struct {
	bot     *tele.Bot
	limiter *rate.Limiter
}

func NewTelegramClient(cfg environments.TelegramConfig) (*TelegramClient, error) {
	return newTelegramClient(cfg, "")
}

func newTelegramClient(cfg environments.TelegramConfig, apiURL string) (*TelegramClient, error) {
	if strings.TrimSpace(cfg.BotToken) == "" {
		return nil, errors.New("telegram bot token is empty")
	}

	bot, err := tele.NewBot(tele.Settings{
		URL:     apiURL,
		Token:   cfg.BotToken,
		Offline: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	perSecond := cfg.RatePerSecond
	if perSecond <= 0 {
		perSecond = 25
	}

	return &TelegramClient{
		bot:     bot,
		limiter: rate.NewLimiter(rate.Limit(perSecond), perSecond),
	}, nil
}

// Send delivers content to a numeric chat id. Errors reported by the Bot API are delivery
// failures; anything else is a transport fault.
func (c *TelegramClient) Send(ctx context.Context, recipient, content string) (domain.DispatchOutcome, error) {
	chatID, err := strconv.ParseInt(strings.TrimSpace(recipient), 10, 64)
	if err != nil {
		return domain.DispatchOutcome{Success: false, Error: "recipient is not a telegram chat id"}, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return domain.DispatchOutcome{}, fmt.Errorf("telegram rate limiter: %w", err)
	}

	msg, err := c.bot.Send(tele.ChatID(chatID), content)
	if err != nil {
		var apiErr *tele.Error
		if errors.As(err, &apiErr) || strings.HasPrefix(err.Error(), "telegram:") {
			return domain.DispatchOutcome{Success: false, Error: err.Error()}, nil
		}
		return domain.DispatchOutcome{}, fmt.Errorf("failed to send telegram message: %w", err)
	}

	return domain.DispatchOutcome{Success: true, ChannelMessageID: strconv.Itoa(msg.ID)}, nil
}
