package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client wraps HTTP calls to the mediarr daemon.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new mediarr API client.
func NewClient(serverURL string) *Client {
	return &Client{
		baseURL: serverURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) get(path string, result any) error {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error %d: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

// API response types (mirror server types)

type QueueStats struct {
	Kind      string `json:"kind"`
	Workers   int    `json:"workers"`
	Pending   int    `json:"pending"`
	InFlight  int    `json:"in_flight"`
	Processed uint64 `json:"processed"`
	Retried   uint64 `json:"retried"`
	Failed    uint64 `json:"failed"`
	Dropped   uint64 `json:"dropped"`
}

type CatchupStatus struct {
	Enabled             bool         `json:"enabled"`
	Running             bool         `json:"running"`
	Tasks               []string     `json:"tasks"`
	FingerprintUnlocked bool         `json:"fingerprint_unlocked"`
	Queues              []QueueStats `json:"queues"`
}

type StatusResponse struct {
	Status  string        `json:"status"`
	Catchup CatchupStatus `json:"catchup"`
	Items   int           `json:"items"`
	Users   int           `json:"users"`
}

type EventResponse struct {
	ID         int64  `json:"id"`
	EventType  string `json:"event_type"`
	EntityType string `json:"entity_type"`
	EntityID   int64  `json:"entity_id"`
	OccurredAt string `json:"occurred_at"`
}

type ListEventsResponse struct {
	Items []EventResponse `json:"items"`
	Total int             `json:"total"`
}

type ItemResponse struct {
	ID           int64  `json:"id"`
	Kind         string `json:"kind"`
	Title        string `json:"title"`
	Library      string `json:"library"`
	Path         string `json:"path,omitempty"`
	SeriesID     *int64 `json:"series_id,omitempty"`
	SeasonNumber *int   `json:"season_number,omitempty"`
	HasMediaInfo bool   `json:"has_media_info"`
	IsShortcut   bool   `json:"is_shortcut"`
	AddedAt      string `json:"added_at"`
}

type ListItemsResponse struct {
	Items  []ItemResponse `json:"items"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

type UserResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	IsAdministrator bool   `json:"is_administrator"`
}

type ListUsersResponse struct {
	Items []UserResponse `json:"items"`
}

// API methods

func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.get("/api/v1/status", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Events(limit int) (*ListEventsResponse, error) {
	path := fmt.Sprintf("/api/v1/events?limit=%d", limit)
	var resp ListEventsResponse
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ItemEvents(id int64) (*ListEventsResponse, error) {
	path := fmt.Sprintf("/api/v1/items/%d/events", id)
	var resp ListEventsResponse
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Items(kind, libraryName string, limit int) (*ListItemsResponse, error) {
	params := url.Values{}
	params.Set("limit", fmt.Sprint(limit))
	if kind != "" {
		params.Set("kind", kind)
	}
	if libraryName != "" {
		params.Set("library", libraryName)
	}

	var resp ListItemsResponse
	if err := c.get("/api/v1/items?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Item(id int64) (*ItemResponse, error) {
	var resp ItemResponse
	if err := c.get(fmt.Sprintf("/api/v1/items/%d", id), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Users() (*ListUsersResponse, error) {
	var resp ListUsersResponse
	if err := c.get("/api/v1/users", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
