package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/upeonet/mtandao/internal/config"
	"github.com/upeonet/mtandao/internal/notification/domain"
	"go.uber.org/zap"
)

// Client posts messages to an external SMS gateway. The gateway response
// body is not interpreted; only transport and status errors are reported.
type Client struct {
	httpClient *http.Client
	gatewayURL string
	senderID   string
	log        *zap.Logger
}

type dispatchPayload struct {
	PhoneNumber string `json:"phone_number"`
	Message     string `json:"message"`
	PaymentID   string `json:"payment_id,omitempty"`
	SenderID    string `json:"sender_id,omitempty"`
}

func NewClient(cfg config.Config, log *zap.Logger) domain.Dispatcher {
	if !cfg.SMS.Enabled || cfg.SMS.GatewayURL == "" {
		return &noopDispatcher{log: log.Named("notification.sms")}
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.SMS.Timeout},
		gatewayURL: cfg.SMS.GatewayURL,
		senderID:   cfg.SMS.SenderID,
		log:        log.Named("notification.sms"),
	}
}

func (c *Client) Dispatch(ctx context.Context, phoneNumber, message string, paymentID string) error {
	body, err := json.Marshal(dispatchPayload{
		PhoneNumber: phoneNumber,
		Message:     message,
		PaymentID:   paymentID,
		SenderID:    c.senderID,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gatewayURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode)
	}
	return nil
}

type noopDispatcher struct {
	log *zap.Logger
}

func (d *noopDispatcher) Dispatch(ctx context.Context, phoneNumber, message string, paymentID string) error {
	_ = ctx
	d.log.Debug("sms dispatch disabled, dropping message",
		zap.String("phone_number", phoneNumber),
	)
	return nil
}
