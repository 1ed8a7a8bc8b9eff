package platform

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/onurcolak/message-dispatcher/environments"
	"github.com/onurcolak/message-dispatcher/internal/domain"
	"github.com/onurcolak/message-dispatcher/pkg/logger"
)

type tikTokRequest struct {
	RecipientID string            `json:"recipient_id"`
	Message     tikTokMessageBody `json:"message"`
}

type tikTokMessageBody struct {
	Text string `json:"text"`
}

type tikTokResponse struct {
	Data struct {
		MessageID string `json:"message_id"`
	} `json:"data"`
}

// TikTokClient delivers direct messages through the TikTok business messaging API.
// Without an API URL and token it simulates successful sends.
type TikTokClient struct {
	httpClient *resty.Client
	apiURL     string
	simulate   bool
	now        func() time.Time
}

func NewTikTokClient(cfg environments.TikTokConfig) *TikTokClient {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetAuthToken(cfg.AccessToken)

	return &TikTokClient{
		httpClient: client,
		apiURL:     strings.TrimRight(cfg.APIURL, "/"),
		simulate:   cfg.APIURL == "" || cfg.AccessToken == "",
		now:        time.Now,
	}
}

func (c *TikTokClient) Send(ctx context.Context, recipient, content string) (domain.DispatchOutcome, error) {
	if c.simulate {
		logger.Warnf("TikTok API not configured, simulating send to %s", recipient)
		return domain.DispatchOutcome{
			Success:          true,
			ChannelMessageID: fmt.Sprintf("sim_tt_%d", c.now().UnixNano()),
		}, nil
	}

	payload := tikTokRequest{
		RecipientID: recipient,
		Message:     tikTokMessageBody{Text: content},
	}

	var result tikTokResponse

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&result).
		Post(c.apiURL + "/message/send/")
	if err != nil {
		return domain.DispatchOutcome{}, fmt.Errorf("failed to send request: %w", err)
	}

	if resp.IsError() {
		logger.Errorf("TikTok API error for %s: %s", recipient, resp.String())
		return domain.DispatchOutcome{
			Success: false,
			Error:   fmt.Sprintf("tiktok api error: %d", resp.StatusCode()),
		}, nil
	}

	logger.Infof("TikTok message sent to %s", recipient)

	return domain.DispatchOutcome{Success: true, ChannelMessageID: result.Data.MessageID}, nil
}
