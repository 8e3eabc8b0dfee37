// Package v1 implements the native REST API.
package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/vmunix/mediarr/internal/catchup"
	"github.com/vmunix/mediarr/internal/events"
	"github.com/vmunix/mediarr/internal/library"
	"github.com/vmunix/mediarr/internal/users"
)

// CatchupManager exposes the queue pool state the API reports on.
type CatchupManager interface {
	Running() bool
	Stats() []catchup.Stats
}

// ServerDeps contains all dependencies for the API server.
// Required dependencies must be non-nil; optional dependencies may be nil.
type ServerDeps struct {
	// Required dependencies
	Library *library.Store
	Scope   *catchup.Holder
	Manager CatchupManager

	// Optional dependencies (nil if not configured)
	EventLog *events.EventLog
	Users    *users.Cache
}

// Validate checks that all required dependencies are provided.
func (d ServerDeps) Validate() error {
	if d.Library == nil {
		return errors.New("library store is required")
	}
	if d.Scope == nil {
		return errors.New("scope holder is required")
	}
	if d.Manager == nil {
		return errors.New("catch-up manager is required")
	}
	return nil
}

// Server is the v1 API server.
type Server struct {
	deps ServerDeps
}

// New creates a new v1 API server.
func New(deps ServerDeps) (*Server, error) {
	if err := deps.Validate(); err != nil {
		return nil, err
	}
	return &Server{deps: deps}, nil
}

// RegisterRoutes registers API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Items
	mux.HandleFunc("GET /api/v1/items", s.listItems)
	mux.HandleFunc("GET /api/v1/items/{id}", s.getItem)
	mux.HandleFunc("GET /api/v1/items/{id}/events", s.listItemEvents)

	// Events
	mux.HandleFunc("GET /api/v1/events", s.listEvents)

	// Users
	mux.HandleFunc("GET /api/v1/users", s.listUsers)

	// System
	mux.HandleFunc("GET /api/v1/status", s.getStatus)
}

// Error response
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// pathID extracts an integer ID from the URL path.
func pathID(r *http.Request, name string) (int64, error) {
	idStr := r.PathValue(name)
	if idStr == "" {
		return 0, fmt.Errorf("missing path parameter: %s", name)
	}
	return strconv.ParseInt(idStr, 10, 64)
}

// queryInt extracts an optional integer from query string.
func queryInt(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

// queryString extracts an optional string from query string.
func queryString(r *http.Request, name string) *string {
	val := r.URL.Query().Get(name)
	if val == "" {
		return nil
	}
	return &val
}

func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	filter := library.ItemFilter{
		Limit:  queryInt(r, "limit", 50),
		Offset: queryInt(r, "offset", 0),
	}

	if kindStr := queryString(r, "kind"); kindStr != nil {
		k := library.ItemKind(*kindStr)
		filter.Kind = &k
	}
	filter.LibraryName = queryString(r, "library")

	items, total, err := s.deps.Library.ListItems(filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}

	resp := listItemsResponse{
		Items:  make([]itemResponse, len(items)),
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	for i, it := range items {
		resp.Items[i] = itemToResponse(it)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	it, err := s.deps.Library.GetItem(id)
	if err != nil {
		if errors.Is(err, library.ErrNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Item not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, itemToResponse(it))
}

func itemToResponse(it *library.Item) itemResponse {
	return itemResponse{
		ID:           it.ID,
		Kind:         string(it.Kind),
		Title:        it.Title,
		Library:      it.LibraryName,
		Path:         it.Path,
		SeriesID:     it.SeriesID,
		SeasonNumber: it.SeasonNumber,
		HasMediaInfo: it.HasMediaInfo,
		IsShortcut:   it.IsShortcut,
		AddedAt:      it.AddedAt,
		UpdatedAt:    it.UpdatedAt,
	}
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	if s.deps.Users == nil {
		writeError(w, http.StatusServiceUnavailable, "NO_USER_CACHE", "User cache not configured")
		return
	}

	view := s.deps.Users.AdminView()
	resp := listUsersResponse{Items: make([]userResponse, len(view))}
	for i, u := range view {
		resp.Items[i] = userResponse{
			ID:              u.ID,
			Name:            u.Name,
			IsAdministrator: u.IsAdministrator,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	sc := s.deps.Scope.Current()

	resp := statusResponse{
		Status: "ok",
		Catchup: catchupStatus{
			Enabled:             sc.CatchupEnabled,
			Running:             s.deps.Manager.Running(),
			Tasks:               taskNames(sc.EnabledTasks),
			FingerprintUnlocked: sc.FingerprintUnlocked,
			Queues:              s.deps.Manager.Stats(),
		},
	}

	if _, total, err := s.deps.Library.ListItems(library.ItemFilter{Limit: 1}); err == nil {
		resp.Items = total
	}
	if s.deps.Users != nil {
		resp.Users = s.deps.Users.Count()
	}

	writeJSON(w, http.StatusOK, resp)
}

func taskNames(set catchup.TaskSet) []string {
	kinds := set.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return names
}
