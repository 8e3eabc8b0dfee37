package events

// Entity types
const (
	EntityItem    = "item"
	EntityUser    = "user"
	EntitySession = "session"
)

// Event type constants
const (
	EventItemAdded         = "item.added"
	EventItemUpdated       = "item.updated"
	EventItemRemoved       = "item.removed"
	EventUserDataSaved     = "userdata.saved"
	EventUserCreated       = "user.created"
	EventUserDeleted       = "user.deleted"
	EventUserConfigUpdated = "user.config.updated"
	EventPlaybackStarted   = "playback.started"
)

// UpdateReason describes why an item-updated event fired. Carried as a list
// rather than a bitmask so membership tests stay explicit.
type UpdateReason string

const (
	ReasonMetadataDownload UpdateReason = "metadata-download"
	ReasonMetadataImport   UpdateReason = "metadata-import"
	ReasonOther            UpdateReason = "other"
)

// HasReason reports whether the given reason is present in the list.
func HasReason(reasons []UpdateReason, want UpdateReason) bool {
	for _, r := range reasons {
		if r == want {
			return true
		}
	}
	return false
}

// ItemAdded is emitted when the library manager registers a new item.
type ItemAdded struct {
	BaseEvent
	ItemID int64 `json:"item_id"`
}

// ItemUpdated is emitted when item metadata changes.
type ItemUpdated struct {
	BaseEvent
	ItemID  int64          `json:"item_id"`
	Reasons []UpdateReason `json:"reasons,omitempty"`
}

// ItemRemoved is emitted when an item leaves the library. The kind rides
// along because the catalog row is already gone when consumers see it.
type ItemRemoved struct {
	BaseEvent
	ItemID int64  `json:"item_id"`
	Kind   string `json:"kind"`
}
