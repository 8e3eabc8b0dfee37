// Package extract defines the extraction collaborator interfaces the
// catch-up pipeline dispatches to, plus the ffprobe-backed media-info
// implementation and the persisted sidecar store.
package extract

import (
	"context"

	"github.com/vmunix/mediarr/internal/library"
)

//go:generate mockgen -destination=mocks/mocks.go -package=mocks github.com/vmunix/mediarr/internal/extract MediaInfoExtractor,Fingerprinter,IntroSkipDetector

// MediaInfoExtractor probes an item's media file for technical metadata
// (codec, duration, streams) and records the result.
type MediaInfoExtractor interface {
	ExtractMediaInfo(ctx context.Context, item *library.Item) error
}

// Fingerprinter computes an audio/video signature used to resolve episode
// identity and ordering across mislabeled files.
type Fingerprinter interface {
	ComputeFingerprint(ctx context.Context, item *library.Item) error
}

// IntroSkipDetector computes intro/credits timestamp markers for an episode.
type IntroSkipDetector interface {
	DetectIntroCredits(ctx context.Context, episode *library.Item) error
}

// Stream describes one stream of a probed media file.
type Stream struct {
	Index     int    `json:"index"`
	CodecName string `json:"codec_name"`
	CodecType string `json:"codec_type"` // "video", "audio", "subtitle"
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	Channels  int    `json:"channels,omitempty"`
	Language  string `json:"language,omitempty"`
}

// MediaInfo is the technical metadata extracted from a media file.
type MediaInfo struct {
	Container   string   `json:"container"`
	DurationSec float64  `json:"duration_sec"`
	BitRate     int64    `json:"bit_rate"`
	SizeBytes   int64    `json:"size_bytes"`
	Streams     []Stream `json:"streams"`
}
