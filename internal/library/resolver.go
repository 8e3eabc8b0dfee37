package library

import (
	"fmt"

	"github.com/hbollon/go-edlib"
)

// MatchConfidence represents the confidence level of a title match.
type MatchConfidence int

const (
	ConfidenceNone   MatchConfidence = iota // score < 0.70
	ConfidenceLow                           // score >= 0.70
	ConfidenceMedium                        // score >= 0.85
	ConfidenceHigh                          // score >= 0.95
)

func (c MatchConfidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceLow:
		return "low"
	default:
		return "none"
	}
}

// Match is the result of resolving a reported title against the catalog.
type Match struct {
	Item       *Item
	Score      float64
	Confidence MatchConfidence
}

// Resolver resolves playback-session titles to catalog items. Session
// monitors often report only a display title; Jaro-Winkler over normalized
// titles favors prefix matches, which suits media naming.
type Resolver struct {
	store *Store
}

// NewResolver creates a resolver over the given store.
func NewResolver(store *Store) *Resolver {
	return &Resolver{store: store}
}

// ResolveTitle finds the playable item whose title best matches the reported
// one. Returns a Match with ConfidenceNone (nil Item) when nothing clears the
// minimum threshold.
func (r *Resolver) ResolveTitle(title string) (Match, error) {
	items, _, err := r.store.ListItems(ItemFilter{Playable: true})
	if err != nil {
		return Match{}, fmt.Errorf("list playable items: %w", err)
	}

	normalized := NormalizeName(title)
	best := Match{Confidence: ConfidenceNone}

	for _, it := range items {
		score := float64(edlib.JaroWinklerSimilarity(normalized, NormalizeName(it.Title)))
		if score > best.Score {
			best.Item = it
			best.Score = score
		}
	}

	switch {
	case best.Score >= 0.95:
		best.Confidence = ConfidenceHigh
	case best.Score >= 0.85:
		best.Confidence = ConfidenceMedium
	case best.Score >= 0.70:
		best.Confidence = ConfidenceLow
	default:
		best.Confidence = ConfidenceNone
		best.Item = nil
	}

	return best, nil
}
