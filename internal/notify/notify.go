// Package notify delivers favorites-update notifications to an external
// endpoint. The dispatch engine fires these off the event path, so delivery
// latency never blocks an event producer.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/vmunix/mediarr/internal/library"
)

// Notifier sends one favorites-update notification per item.
type Notifier interface {
	SendFavoritesUpdate(ctx context.Context, item *library.Item) error
}

// Payload is the JSON body posted to the webhook.
type Payload struct {
	Type        string `json:"type"`
	ItemID      int64  `json:"item_id"`
	ItemKind    string `json:"item_kind"`
	Title       string `json:"title"`
	LibraryName string `json:"library_name,omitempty"`
	SentAt      string `json:"sent_at"`
}

// Webhook posts notifications to a configured URL.
type Webhook struct {
	url        string
	httpClient *http.Client
	log        *slog.Logger
}

// NewWebhook creates a webhook notifier for the given URL.
func NewWebhook(url string, log *slog.Logger) *Webhook {
	return &Webhook{
		url: strings.TrimSuffix(url, "/"),
		log: log,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SendFavoritesUpdate posts a favorites-update payload for the item.
func (w *Webhook) SendFavoritesUpdate(ctx context.Context, item *library.Item) error {
	payload := Payload{
		Type:        "favorites-update",
		ItemID:      item.ID,
		ItemKind:    string(item.Kind),
		Title:       item.Title,
		LibraryName: item.LibraryName,
		SentAt:      time.Now().UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	w.log.Debug("favorites-update sent", "item_id", item.ID, "title", item.Title)
	return nil
}

// LogOnly records notifications in the log. Used when no webhook URL is
// configured.
type LogOnly struct {
	log *slog.Logger
}

// NewLogOnly creates a log-only notifier.
func NewLogOnly(log *slog.Logger) *LogOnly {
	return &LogOnly{log: log}
}

// SendFavoritesUpdate logs the notification and succeeds.
func (l *LogOnly) SendFavoritesUpdate(_ context.Context, item *library.Item) error {
	l.log.Info("favorites-update", "item_id", item.ID, "kind", string(item.Kind), "title", item.Title)
	return nil
}
