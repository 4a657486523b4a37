package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ayggdrasil/options-trading-base-sub001/pkg/retry"
)

// WebhookSink POSTs notifications as JSON to a configured URL. Transient
// delivery failures are retried with backoff.
type WebhookSink struct {
	url      string
	client   *http.Client
	retryCfg retry.Config
	logger   *zap.Logger
}

// NewWebhookSink returns a Sink delivering to url.
func NewWebhookSink(url string, logger *zap.Logger) *WebhookSink {
	return &WebhookSink{
		url:      url,
		client:   &http.Client{Timeout: 10 * time.Second},
		retryCfg: retry.DefaultConfig(),
		logger:   logger,
	}
}

type webhookPayload struct {
	Level   Level          `json:"level"`
	Message string         `json:"message"`
	Context map[string]any `json:"context,omitempty"`
}

func (s *WebhookSink) Send(ctx context.Context, level Level, message string, fields map[string]any) error {
	body, err := json.Marshal(webhookPayload{Level: level, Message: message, Context: fields})
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	return retry.WithBackoff(ctx, s.retryCfg, s.logger, "notify webhook", func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode >= 300 {
			return fmt.Errorf("webhook returned %d", resp.StatusCode)
		}
		return nil
	})
}
