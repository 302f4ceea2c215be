package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-station/internal/weather"
)

// WebhookPublisher POSTs every update as JSON to a remote display.
type WebhookPublisher struct {
	name    string
	url     string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWebhookPublisher(client *http.Client, url string, backoff BackoffConfig) *WebhookPublisher {
	return &WebhookPublisher{
		name: "webhook",
		url:  url,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: backoff,
		},
		circuit: newCircuitBreaker("display-webhook"),
	}
}

func (p *WebhookPublisher) Name() string {
	return p.name
}

func (p *WebhookPublisher) Publish(ctx context.Context, u weather.Update) error {
	body, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("marshal update: %w", err)
	}

	buildRequest := func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodPost, p.url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Update-ID", u.ID)
		return req, nil
	}

	if _, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest); err != nil {
		return fmt.Errorf("webhook %s: %w", p.url, err)
	}
	return nil
}
