package events

// PlaybackStarted is emitted by the session monitor when an item starts
// playing. Lets the pipeline catch up items that were added before the
// catch-up mode was enabled.
type PlaybackStarted struct {
	BaseEvent
	SessionID string `json:"session_id"`
	ItemID    int64  `json:"item_id"`
	UserID    int64  `json:"user_id"`
}
