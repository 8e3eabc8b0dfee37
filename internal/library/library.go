// Package library manages the media item catalog (movies, series, seasons,
// episodes, plain video/audio) and the per-season intro/credits marker cache.
package library

import (
	"time"
)

// ItemKind distinguishes the entity types the pipeline cares about.
type ItemKind string

const (
	KindMovie   ItemKind = "movie"
	KindSeries  ItemKind = "series"
	KindSeason  ItemKind = "season"
	KindEpisode ItemKind = "episode"
	KindVideo   ItemKind = "video"
	KindAudio   ItemKind = "audio"
)

// IsVideo reports whether the kind carries a playable video stream.
func (k ItemKind) IsVideo() bool {
	return k == KindMovie || k == KindEpisode || k == KindVideo
}

// IsAudio reports whether the kind is an audio track.
func (k ItemKind) IsAudio() bool {
	return k == KindAudio
}

// IsPlayable reports whether the kind is eligible for media extraction at all.
func (k ItemKind) IsPlayable() bool {
	return k.IsVideo() || k.IsAudio()
}

// Item is a reference to a library entity. The pipeline never mutates items
// directly; all enrichment goes through the extraction collaborators.
type Item struct {
	ID           int64
	Kind         ItemKind
	Title        string
	LibraryName  string
	Path         string
	SeriesID     *int64 // set for seasons and episodes
	SeasonNumber *int   // set for seasons and episodes
	HasMediaInfo bool
	IsShortcut   bool // .strm or other remote reference, no local media stream
	AddedAt      time.Time
	UpdatedAt    time.Time
}

// SeasonMarker records whether a season already has computed intro/credits
// markers. Consulted before enqueueing per-episode detection.
type SeasonMarker struct {
	SeriesID   int64
	Season     int
	HasMarkers bool
	UpdatedAt  time.Time
}
