package catchup

import (
	"sync/atomic"

	"github.com/vmunix/mediarr/internal/library"
)

// Scope is an immutable snapshot of the catch-up configuration. Event
// producers on arbitrary goroutines read it through a Holder; settings saves
// publish a fresh snapshot, so readers never observe a half-updated scope.
type Scope struct {
	// CatchupEnabled gates the entire pipeline.
	CatchupEnabled bool

	// EnabledTasks is the configured catch-up task scope.
	EnabledTasks TaskSet

	// FingerprintLibraries / IntroSkipLibraries hold normalized library
	// names in scope for the respective task. An empty set means every
	// library is in scope.
	FingerprintLibraries map[string]struct{}
	IntroSkipLibraries   map[string]struct{}

	// FingerprintUnlocked mirrors the fingerprint feature unlock flag.
	FingerprintUnlocked bool

	// ExclusiveExtract makes media-info extraction the only reader of the
	// media file, so fresh items are probed eagerly on add.
	ExclusiveExtract bool

	// PersistMediaInfo controls JSON side-file persistence and cleanup.
	PersistMediaInfo bool

	// EnhancePeople enables people-metadata refresh on series updates.
	EnhancePeople bool
}

// IsTaskEnabled reports whether the task kind is in the configured scope.
func (s *Scope) IsTaskEnabled(k TaskKind) bool {
	return s.EnabledTasks.Contains(k)
}

// LibraryInScope reports whether the item's library is eligible for the
// given task. Media-info has no library restriction.
func (s *Scope) LibraryInScope(libraryName string, k TaskKind) bool {
	var set map[string]struct{}
	switch k {
	case TaskFingerprint:
		set = s.FingerprintLibraries
	case TaskIntroSkip:
		set = s.IntroSkipLibraries
	default:
		return true
	}
	if len(set) == 0 {
		return true
	}
	_, ok := set[library.NormalizeName(libraryName)]
	return ok
}

// NormalizeLibrarySet canonicalizes configured library names for matching.
func NormalizeLibrarySet(names []string) map[string]struct{} {
	if len(names) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[library.NormalizeName(n)] = struct{}{}
	}
	return set
}

// Holder publishes Scope snapshots atomically.
type Holder struct {
	current atomic.Pointer[Scope]
}

// NewHolder creates a holder with the given initial scope.
func NewHolder(s *Scope) *Holder {
	h := &Holder{}
	h.current.Store(s)
	return h
}

// Current returns the active snapshot. Never nil.
func (h *Holder) Current() *Scope {
	return h.current.Load()
}

// Swap publishes a new snapshot.
func (h *Holder) Swap(s *Scope) {
	h.current.Store(s)
}
