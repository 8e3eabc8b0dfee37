// internal/api/v1/types.go
package v1

import (
	"time"

	"github.com/vmunix/mediarr/internal/catchup"
)

// itemResponse is the API representation of a catalog item.
type itemResponse struct {
	ID           int64     `json:"id"`
	Kind         string    `json:"kind"`
	Title        string    `json:"title"`
	Library      string    `json:"library"`
	Path         string    `json:"path,omitempty"`
	SeriesID     *int64    `json:"series_id,omitempty"`
	SeasonNumber *int      `json:"season_number,omitempty"`
	HasMediaInfo bool      `json:"has_media_info"`
	IsShortcut   bool      `json:"is_shortcut"`
	AddedAt      time.Time `json:"added_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// listItemsResponse is the response for GET /items.
type listItemsResponse struct {
	Items  []itemResponse `json:"items"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// EventResponse is the API representation of a logged event.
type EventResponse struct {
	ID         int64  `json:"id"`
	EventType  string `json:"event_type"`
	EntityType string `json:"entity_type"`
	EntityID   int64  `json:"entity_id"`
	OccurredAt string `json:"occurred_at"`
}

// listEventsResponse is the response for GET /events.
type listEventsResponse struct {
	Items []EventResponse `json:"items"`
	Total int             `json:"total"`
}

// userResponse is the API representation of a media-server user.
type userResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	IsAdministrator bool   `json:"is_administrator"`
}

// listUsersResponse is the response for GET /users.
type listUsersResponse struct {
	Items []userResponse `json:"items"`
}

// catchupStatus summarizes the dispatch pipeline.
type catchupStatus struct {
	Enabled             bool            `json:"enabled"`
	Running             bool            `json:"running"`
	Tasks               []string        `json:"tasks"`
	FingerprintUnlocked bool            `json:"fingerprint_unlocked"`
	Queues              []catchup.Stats `json:"queues"`
}

// statusResponse is the response for GET /status.
type statusResponse struct {
	Status  string        `json:"status"`
	Catchup catchupStatus `json:"catchup"`
	Items   int           `json:"items"`
	Users   int           `json:"users"`
}
