package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/herbalstore/storefront-backend/pkg/errors"
)

const (
	webhookChannel        = "webhook"
	defaultWebhookTimeout = 5 * time.Second
	responseBodyReadLimit = int64(1024)
)

// Notifier delivers a message over one channel.
type Notifier interface {
	Channel() string
	Notify(ctx context.Context, msg Message) error
}

// WebhookNotifier posts {"text": ...} to a chat-style incoming webhook.
type WebhookNotifier struct {
	httpClient *http.Client
	url        string
}

// WebhookOption configures optional notifier behavior.
type WebhookOption func(*WebhookNotifier)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) WebhookOption {
	return func(n *WebhookNotifier) {
		if client != nil {
			n.httpClient = client
		}
	}
}

// NewWebhookNotifier returns a notifier for url. An empty url yields a
// notifier that drops every message.
func NewWebhookNotifier(url string, timeout time.Duration, opts ...WebhookOption) *WebhookNotifier {
	if timeout <= 0 {
		timeout = defaultWebhookTimeout
	}
	n := &WebhookNotifier{
		url:        strings.TrimSpace(url),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(n)
		}
	}
	return n
}

func (n *WebhookNotifier) Channel() string {
	return webhookChannel
}

// Enabled reports whether a destination is configured.
func (n *WebhookNotifier) Enabled() bool {
	return n != nil && n.url != ""
}

func (n *WebhookNotifier) Notify(ctx context.Context, msg Message) error {
	if !n.Enabled() {
		return nil
	}

	payload, err := json.Marshal(map[string]string{"text": msg.Text})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal webhook payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute webhook request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), "webhook delivery failed")
	}
	return nil
}
