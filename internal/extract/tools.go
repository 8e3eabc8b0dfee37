package extract

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"

	"github.com/vmunix/mediarr/internal/library"
)

// MarkerStore is the subset of the library store the intro-skip tool needs
// to record season-level completion.
type MarkerStore interface {
	SetSeasonMarkers(seriesID int64, season int, hasMarkers bool) error
}

// FingerprintTool computes audio signatures by shelling out to an external
// analyzer such as fpcalc.
type FingerprintTool struct {
	bin    string
	logger *slog.Logger
}

// NewFingerprintTool creates a command-backed Fingerprinter.
func NewFingerprintTool(bin string, logger *slog.Logger) *FingerprintTool {
	if bin == "" {
		bin = "fpcalc"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FingerprintTool{bin: bin, logger: logger}
}

// ComputeFingerprint runs the analyzer against the item's media file.
func (t *FingerprintTool) ComputeFingerprint(ctx context.Context, item *library.Item) error {
	if _, err := os.Stat(item.Path); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("fingerprint %q: %w", item.Path, ErrItemGone)
	}

	out, err := exec.CommandContext(ctx, t.bin, item.Path).Output()
	if err != nil {
		return fmt.Errorf("run fingerprint tool: %w", err)
	}

	t.logger.Info("fingerprint computed",
		"item_id", item.ID,
		"output_bytes", len(out))
	return nil
}

// IntroSkipTool detects intro/credits markers with an external detector and
// records season-level completion in the marker cache.
type IntroSkipTool struct {
	bin     string
	markers MarkerStore
	logger  *slog.Logger
}

// NewIntroSkipTool creates a command-backed IntroSkipDetector.
func NewIntroSkipTool(bin string, markers MarkerStore, logger *slog.Logger) *IntroSkipTool {
	if bin == "" {
		bin = "intro-detect"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &IntroSkipTool{bin: bin, markers: markers, logger: logger}
}

// DetectIntroCredits runs the detector against the episode's media file and
// marks the episode's season as analyzed.
func (t *IntroSkipTool) DetectIntroCredits(ctx context.Context, episode *library.Item) error {
	if _, err := os.Stat(episode.Path); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("detect markers %q: %w", episode.Path, ErrItemGone)
	}

	if _, err := exec.CommandContext(ctx, t.bin, episode.Path).Output(); err != nil {
		return fmt.Errorf("run intro detector: %w", err)
	}

	if episode.SeriesID != nil && episode.SeasonNumber != nil {
		if err := t.markers.SetSeasonMarkers(*episode.SeriesID, *episode.SeasonNumber, true); err != nil {
			return fmt.Errorf("record season markers: %w", err)
		}
	}

	t.logger.Info("intro/credits markers detected", "item_id", episode.ID)
	return nil
}
