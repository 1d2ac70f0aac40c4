package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// WebhookPublisher posts alerts to a Slack- or Discord-compatible webhook.
type WebhookPublisher struct {
	URL    string
	Format string
	Client *http.Client
}

func NewWebhookPublisher(url, format string) *WebhookPublisher {
	if url == "" {
		return nil
	}
	return &WebhookPublisher{
		URL:    url,
		Format: format,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (w *WebhookPublisher) Publish(ctx context.Context, alert Alert) error {
	var payload []byte
	var err error

	switch w.Format {
	case "slack":
		payload, err = json.Marshal(map[string]string{
			"text": fmt.Sprintf("*%s*\n%s", alert.Subject(), alert.Message()),
		})
	default:
		color := 16753920 // orange for expiring
		if alert.Status == "expired" {
			color = 16711680
		}
		payload, err = json.Marshal(map[string]interface{}{
			"embeds": []map[string]interface{}{
				{
					"title":       alert.Subject(),
					"description": alert.Message(),
					"color":       color,
					"timestamp":   time.Now().UTC().Format(time.RFC3339),
				},
			},
		})
	}
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.Client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
