package events

// UserDataSaved is emitted when per-user item data (watch state, favorite
// flag) is persisted.
type UserDataSaved struct {
	BaseEvent
	UserID     int64 `json:"user_id"`
	ItemID     int64 `json:"item_id"`
	IsFavorite bool  `json:"is_favorite"`
}

// UserCreated is emitted when a user account is created.
type UserCreated struct {
	BaseEvent
	UserID int64 `json:"user_id"`
}

// UserDeleted is emitted when a user account is removed.
type UserDeleted struct {
	BaseEvent
	UserID int64 `json:"user_id"`
}

// UserConfigUpdated is emitted when a user's configuration is saved.
type UserConfigUpdated struct {
	BaseEvent
	UserID          int64 `json:"user_id"`
	IsAdministrator bool  `json:"is_administrator"`
}
