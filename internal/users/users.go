// Package users maintains the cached user list and the admin-ordered view
// derived from it. The dispatch engine refreshes the cache on user lifecycle
// events instead of hitting the database on every read.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// ErrNotFound indicates the requested user does not exist.
var ErrNotFound = errors.New("user not found")

// User is one cached user record.
type User struct {
	ID              int64
	Name            string
	IsAdministrator bool
	CreatedAt       time.Time
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store persists users.
type Store struct {
	db querier
}

// NewStore creates a user store on the given database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Add inserts a user and returns it with the assigned ID.
func (s *Store) Add(ctx context.Context, name string, isAdministrator bool) (*User, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (name, is_administrator, created_at) VALUES (?, ?, ?)`,
		name, isAdministrator, now)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &User{ID: id, Name: name, IsAdministrator: isAdministrator, CreatedAt: now}, nil
}

// Delete removes a user by ID.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetAdministrator updates the administrator flag.
func (s *Store) SetAdministrator(ctx context.Context, id int64, isAdministrator bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET is_administrator = ? WHERE id = ?`, isAdministrator, id)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns all users ordered by name.
func (s *Store) List(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, is_administrator, created_at FROM users ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.IsAdministrator, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Cache holds the user list in memory. Refresh reloads from the store;
// readers get copies and never block a refresh for long.
type Cache struct {
	store *Store

	mu        sync.RWMutex
	users     []User
	adminView []User
}

// NewCache creates an empty cache over the store. Call Refresh before first
// use.
func NewCache(store *Store) *Cache {
	return &Cache{store: store}
}

// Refresh reloads the cached user list from the store and rebuilds the
// admin-ordered view.
func (c *Cache) Refresh(ctx context.Context) error {
	list, err := c.store.List(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.users = list
	c.adminView = buildAdminView(list)
	c.mu.Unlock()
	return nil
}

// RefreshAdminViews rebuilds only the admin-ordered view from the current
// cached list, pulling fresh administrator flags from the store.
func (c *Cache) RefreshAdminViews(ctx context.Context) error {
	// Flags live in the same table, so a view rebuild needs a reload anyway.
	return c.Refresh(ctx)
}

// Users returns a copy of the cached list.
func (c *Cache) Users() []User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]User(nil), c.users...)
}

// AdminView returns the cached list with administrators first.
func (c *Cache) AdminView() []User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]User(nil), c.adminView...)
}

// Count returns the number of cached users.
func (c *Cache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.users)
}

func buildAdminView(list []User) []User {
	view := append([]User(nil), list...)
	sort.SliceStable(view, func(i, j int) bool {
		if view[i].IsAdministrator != view[j].IsAdministrator {
			return view[i].IsAdministrator
		}
		return view[i].Name < view[j].Name
	})
	return view
}
