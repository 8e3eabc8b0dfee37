package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// SidecarStore persists extracted media info as JSON side files, one per
// item, under a single root directory. Side files survive library rescans so
// probing doesn't have to be repeated.
type SidecarStore struct {
	root string
}

// NewSidecarStore creates a sidecar store rooted at dir.
func NewSidecarStore(dir string) *SidecarStore {
	return &SidecarStore{root: dir}
}

// Path returns the side-file path for an item.
func (s *SidecarStore) Path(itemID int64) string {
	return filepath.Join(s.root, fmt.Sprintf("%d-mediainfo.json", itemID))
}

// Write persists media info for an item, creating the root if needed.
func (s *SidecarStore) Write(itemID int64, info *MediaInfo) error {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("create sidecar dir: %w", err)
	}
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal media info: %w", err)
	}
	if err := os.WriteFile(s.Path(itemID), data, 0o644); err != nil {
		return fmt.Errorf("write sidecar: %w", err)
	}
	return nil
}

// Read loads persisted media info for an item.
// Returns fs.ErrNotExist (wrapped) when no side file exists.
func (s *SidecarStore) Read(itemID int64) (*MediaInfo, error) {
	data, err := os.ReadFile(s.Path(itemID))
	if err != nil {
		return nil, fmt.Errorf("read sidecar: %w", err)
	}
	var info MediaInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("parse sidecar: %w", err)
	}
	return &info, nil
}

// Delete removes an item's side file. Missing files are not an error.
func (s *SidecarStore) Delete(itemID int64) error {
	err := os.Remove(s.Path(itemID))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete sidecar: %w", err)
	}
	return nil
}

// List returns the item IDs that currently have side files.
func (s *SidecarStore) List() ([]int64, error) {
	entries, err := os.ReadDir(s.root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read sidecar dir: %w", err)
	}
	var ids []int64
	for _, entry := range entries {
		var id int64
		if _, err := fmt.Sscanf(entry.Name(), "%d-mediainfo.json", &id); err == nil {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
