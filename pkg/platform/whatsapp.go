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

type whatsAppRequest struct {
	MessagingProduct string           `json:"messaging_product"`
	To               string           `json:"to"`
	Type             string           `json:"type"`
	Text             whatsAppTextBody `json:"text"`
}

type whatsAppTextBody struct {
	Body string `json:"body"`
}

type whatsAppResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

type apiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// WhatsAppClient delivers text messages through the WhatsApp Cloud API.
type WhatsAppClient struct {
	httpClient    *resty.Client
	apiURL        string
	phoneNumberID string
}

func NewWhatsAppClient(cfg environments.WhatsAppConfig) *WhatsAppClient {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetAuthToken(cfg.AccessToken)

	return &WhatsAppClient{
		httpClient:    client,
		apiURL:        strings.TrimRight(cfg.APIURL, "/"),
		phoneNumberID: cfg.PhoneNumberID,
	}
}

func (c *WhatsAppClient) configured() bool {
	return c.apiURL != "" && c.phoneNumberID != "" && c.httpClient.Token != ""
}

// Send posts one text message. A non-2xx answer is a delivery failure; only a failed
// round trip is returned as an error.
func (c *WhatsAppClient) Send(ctx context.Context, recipient, content string) (domain.DispatchOutcome, error) {
	if !c.configured() {
		logger.Warnf("WhatsApp API is not configured, message to %s not sent", recipient)
		return domain.DispatchOutcome{Success: false, Error: "whatsapp is not configured"}, nil
	}

	to := normalizePhoneNumber(recipient)
	if to == "" {
		return domain.DispatchOutcome{Success: false, Error: "recipient is not a phone number"}, nil
	}

	payload := whatsAppRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             whatsAppTextBody{Body: content},
	}

	var result whatsAppResponse
	var apiErr apiErrorResponse

	startTime := time.Now()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&result).
		SetError(&apiErr).
		Post(fmt.Sprintf("%s/%s/messages", c.apiURL, c.phoneNumberID))

	duration := time.Since(startTime)

	if err != nil {
		return domain.DispatchOutcome{}, fmt.Errorf("failed to send request: %w", err)
	}

	logger.Infof("WhatsApp request completed in %v (status: %d)", duration, resp.StatusCode())

	if resp.IsError() {
		reason := apiErr.Error.Message
		if reason == "" {
			reason = resp.String()
		}
		return domain.DispatchOutcome{
			Success: false,
			Error:   fmt.Sprintf("whatsapp api error %d: %s", resp.StatusCode(), reason),
		}, nil
	}

	outcome := domain.DispatchOutcome{Success: true}
	if len(result.Messages) > 0 {
		outcome.ChannelMessageID = result.Messages[0].ID
	}

	return outcome, nil
}

// normalizePhoneNumber keeps the digits of a phone number, dropping '+', spaces and dashes.
func normalizePhoneNumber(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
