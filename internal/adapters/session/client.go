// internal/adapters/session/client.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client fetches active sessions from the media server's HTTP API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a session client.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// sessionJSON is one entry in the /sessions response.
type sessionJSON struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	UserID int64  `json:"user_id"`
	ItemID int64  `json:"item_id"`
	State  string `json:"state"`
}

// ActiveSessions returns sessions currently in the playing state.
func (c *Client) ActiveSessions(ctx context.Context) ([]Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/sessions", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("X-Api-Token", c.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var raw []sessionJSON
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	sessions := make([]Session, 0, len(raw))
	for _, s := range raw {
		if s.State != "" && s.State != "playing" {
			continue
		}
		sessions = append(sessions, Session{
			ID:     s.ID,
			Title:  s.Title,
			UserID: s.UserID,
			ItemID: s.ItemID,
		})
	}
	return sessions, nil
}
