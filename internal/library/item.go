package library

import (
	"fmt"
	"strings"
	"time"
)

func addItem(q querier, it *Item) error {
	now := time.Now()
	result, err := q.Exec(`
		INSERT INTO items (kind, title, library_name, path, series_id, season_number, has_media_info, is_shortcut, added_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		it.Kind, it.Title, it.LibraryName, it.Path, it.SeriesID, it.SeasonNumber, it.HasMediaInfo, it.IsShortcut, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert item: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	it.ID = id
	it.AddedAt = now
	it.UpdatedAt = now
	return nil
}

// AddItem inserts a new item into the database.
// Sets ID, AddedAt, and UpdatedAt on the struct.
func (s *Store) AddItem(it *Item) error { return addItem(s.db, it) }

// AddItem inserts a new item within a transaction.
func (t *Tx) AddItem(it *Item) error { return addItem(t.tx, it) }

const itemColumns = "id, kind, title, library_name, path, series_id, season_number, has_media_info, is_shortcut, added_at, updated_at"

func scanItem(row interface{ Scan(dest ...any) error }) (*Item, error) {
	it := &Item{}
	err := row.Scan(&it.ID, &it.Kind, &it.Title, &it.LibraryName, &it.Path,
		&it.SeriesID, &it.SeasonNumber, &it.HasMediaInfo, &it.IsShortcut,
		&it.AddedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return it, nil
}

func getItem(q querier, id int64) (*Item, error) {
	it, err := scanItem(q.QueryRow("SELECT "+itemColumns+" FROM items WHERE id = ?", id))
	if err != nil {
		return nil, fmt.Errorf("get item %d: %w", id, mapSQLiteError(err))
	}
	return it, nil
}

// GetItem retrieves an item by ID.
// Returns ErrNotFound if the item does not exist.
func (s *Store) GetItem(id int64) (*Item, error) { return getItem(s.db, id) }

// GetItem retrieves an item by ID within a transaction.
func (t *Tx) GetItem(id int64) (*Item, error) { return getItem(t.tx, id) }

// ItemFilter narrows ListItems results. Nil fields are ignored.
type ItemFilter struct {
	Kind        *ItemKind
	LibraryName *string
	SeriesID    *int64
	Playable    bool // restrict to video/audio kinds
	Limit       int
	Offset      int
}

func listItems(q querier, f ItemFilter) ([]*Item, int, error) {
	var conditions []string
	var args []any

	if f.Kind != nil {
		conditions = append(conditions, "kind = ?")
		args = append(args, *f.Kind)
	}
	if f.LibraryName != nil {
		conditions = append(conditions, "library_name = ?")
		args = append(args, *f.LibraryName)
	}
	if f.SeriesID != nil {
		conditions = append(conditions, "series_id = ?")
		args = append(args, *f.SeriesID)
	}
	if f.Playable {
		conditions = append(conditions, "kind IN ('movie', 'episode', 'video', 'audio')")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := q.QueryRow("SELECT COUNT(*) FROM items "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}

	query := "SELECT " + itemColumns + " FROM items " + whereClause + " ORDER BY id"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []*Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, total, rows.Err()
}

// ListItems returns items matching the filter plus the total match count.
func (s *Store) ListItems(f ItemFilter) ([]*Item, int, error) { return listItems(s.db, f) }

// ListItems returns matching items within a transaction.
func (t *Tx) ListItems(f ItemFilter) ([]*Item, int, error) { return listItems(t.tx, f) }

// SetHasMediaInfo flips the has-media-info flag for an item. Called by the
// media-info extractor after a successful probe.
func (s *Store) SetHasMediaInfo(id int64, has bool) error {
	result, err := s.db.Exec(`UPDATE items SET has_media_info = ?, updated_at = ? WHERE id = ?`,
		has, time.Now(), id)
	if err != nil {
		return fmt.Errorf("set has_media_info: %w", mapSQLiteError(err))
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

// DeleteItem removes an item from the catalog.
func (s *Store) DeleteItem(id int64) error {
	result, err := s.db.Exec(`DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", mapSQLiteError(err))
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
