package library

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SetSeasonMarkers records whether a season has computed intro/credits
// markers. Upserts so detector completions can flip the flag repeatedly.
func (s *Store) SetSeasonMarkers(seriesID int64, season int, hasMarkers bool) error {
	_, err := s.db.Exec(`
		INSERT INTO season_markers (series_id, season, has_markers, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(series_id, season) DO UPDATE SET has_markers = excluded.has_markers, updated_at = excluded.updated_at`,
		seriesID, season, hasMarkers, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("set season markers: %w", mapSQLiteError(err))
	}
	return nil
}

// SeasonHasMarkers reports whether intro/credits markers are already known
// for the given season. Unknown seasons report false.
func (s *Store) SeasonHasMarkers(seriesID int64, season int) (bool, error) {
	var has bool
	err := s.db.QueryRow(`
		SELECT has_markers FROM season_markers WHERE series_id = ? AND season = ?`,
		seriesID, season,
	).Scan(&has)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("season markers: %w", err)
	}
	return has, nil
}

// UpdateSeriesPeople stamps a people-metadata refresh on a series. The actual
// people enrichment is performed by the metadata provider; the stamp lets the
// dispatch engine skip series refreshed recently.
func (s *Store) UpdateSeriesPeople(seriesID int64) error {
	result, err := s.db.Exec(`UPDATE items SET people_refreshed_at = ? WHERE id = ? AND kind = 'series'`,
		time.Now(), seriesID)
	if err != nil {
		return fmt.Errorf("touch series people: %w", mapSQLiteError(err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
