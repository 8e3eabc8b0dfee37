package extract

import "errors"

// Sentinel errors for the extract package. Permanent errors are never
// retried by the queue workers; anything else counts as transient.
var (
	// ErrItemGone is returned when the item's media file no longer exists.
	ErrItemGone = errors.New("item no longer exists")

	// ErrUnsupportedFormat is returned when the file cannot be processed at all.
	ErrUnsupportedFormat = errors.New("unsupported media format")
)

// IsPermanent reports whether an extraction failure should not be retried.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrItemGone) || errors.Is(err, ErrUnsupportedFormat)
}
