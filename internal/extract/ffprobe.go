package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"strconv"

	"github.com/vmunix/mediarr/internal/library"
)

// FlagStore is the subset of the library store the prober needs to record
// probe completion.
type FlagStore interface {
	SetHasMediaInfo(id int64, has bool) error
}

// Prober extracts media info by shelling out to ffprobe.
type Prober struct {
	bin      string
	sidecars *SidecarStore
	persist  bool
	flags    FlagStore
	logger   *slog.Logger
}

// NewProber creates an ffprobe-backed MediaInfoExtractor. When persist is
// true the probe result is written to a JSON side file as well.
func NewProber(bin string, sidecars *SidecarStore, persist bool, flags FlagStore, logger *slog.Logger) *Prober {
	if bin == "" {
		bin = "ffprobe"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Prober{
		bin:      bin,
		sidecars: sidecars,
		persist:  persist,
		flags:    flags,
		logger:   logger,
	}
}

// probeFormat mirrors ffprobe's -show_format JSON output.
type probeFormat struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	BitRate    string `json:"bit_rate"`
	Size       string `json:"size"`
}

type probeStream struct {
	Index     int    `json:"index"`
	CodecName string `json:"codec_name"`
	CodecType string `json:"codec_type"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Channels  int    `json:"channels"`
	Tags      struct {
		Language string `json:"language"`
	} `json:"tags"`
}

type probeOutput struct {
	Format  probeFormat   `json:"format"`
	Streams []probeStream `json:"streams"`
}

// ExtractMediaInfo probes the item's file, persists the result when
// configured, and flips the item's has-media-info flag.
func (p *Prober) ExtractMediaInfo(ctx context.Context, item *library.Item) error {
	if _, err := os.Stat(item.Path); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("probe %q: %w", item.Path, ErrItemGone)
	}

	out, err := exec.CommandContext(ctx, p.bin,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		item.Path,
	).Output()
	if err != nil {
		return fmt.Errorf("run ffprobe: %w", err)
	}

	info, err := parseProbeOutput(out)
	if err != nil {
		return fmt.Errorf("probe %q: %w", item.Path, err)
	}

	if p.persist && p.sidecars != nil {
		if err := p.sidecars.Write(item.ID, info); err != nil {
			return err
		}
	}

	if err := p.flags.SetHasMediaInfo(item.ID, true); err != nil {
		return fmt.Errorf("record probe result: %w", err)
	}

	p.logger.Info("media info extracted",
		"item_id", item.ID,
		"container", info.Container,
		"streams", len(info.Streams),
		"duration_sec", info.DurationSec)
	return nil
}

// parseProbeOutput converts raw ffprobe JSON to MediaInfo.
func parseProbeOutput(raw []byte) (*MediaInfo, error) {
	var out probeOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("parse ffprobe output: %w", err)
	}
	if out.Format.FormatName == "" && len(out.Streams) == 0 {
		return nil, ErrUnsupportedFormat
	}

	info := &MediaInfo{Container: out.Format.FormatName}
	info.DurationSec, _ = strconv.ParseFloat(out.Format.Duration, 64)
	info.BitRate, _ = strconv.ParseInt(out.Format.BitRate, 10, 64)
	info.SizeBytes, _ = strconv.ParseInt(out.Format.Size, 10, 64)

	for _, s := range out.Streams {
		info.Streams = append(info.Streams, Stream{
			Index:     s.Index,
			CodecName: s.CodecName,
			CodecType: s.CodecType,
			Width:     s.Width,
			Height:    s.Height,
			Channels:  s.Channels,
			Language:  s.Tags.Language,
		})
	}
	return info, nil
}
