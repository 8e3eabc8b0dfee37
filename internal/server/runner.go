// Package server wires the daemon together: event bus, dispatch pipeline,
// adapters, maintenance, and the HTTP API.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/mediarr/internal/adapters/session"
	v1 "github.com/vmunix/mediarr/internal/api/v1"
	"github.com/vmunix/mediarr/internal/catchup"
	"github.com/vmunix/mediarr/internal/config"
	"github.com/vmunix/mediarr/internal/events"
	"github.com/vmunix/mediarr/internal/extract"
	"github.com/vmunix/mediarr/internal/handlers"
	"github.com/vmunix/mediarr/internal/library"
	"github.com/vmunix/mediarr/internal/maintenance"
	"github.com/vmunix/mediarr/internal/notify"
	"github.com/vmunix/mediarr/internal/users"
)

// Runner owns the lifecycle of every long-running component.
type Runner struct {
	db     *sql.DB
	cfg    *config.Config
	logger *slog.Logger
}

// NewRunner creates a runner over an opened, migrated database.
func NewRunner(db *sql.DB, cfg *config.Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{db: db, cfg: cfg, logger: logger}
}

// Run starts all components and blocks until the context is canceled or a
// component fails. Shutdown drains the catch-up queues before returning.
func (r *Runner) Run(ctx context.Context) error {
	eventLog := events.NewEventLog(r.db)
	bus := events.NewBus(eventLog, r.logger.With("component", "bus"))
	defer bus.Close()

	libraryStore := library.NewStore(r.db)
	resolver := library.NewResolver(libraryStore)

	userCache := users.NewCache(users.NewStore(r.db))
	if err := userCache.Refresh(ctx); err != nil {
		return fmt.Errorf("load users: %w", err)
	}

	var notifier catchup.Notifier
	if r.cfg.Notifications.WebhookURL != "" {
		notifier = notify.NewWebhook(r.cfg.Notifications.WebhookURL, r.logger.With("component", "notify"))
	} else {
		notifier = notify.NewLogOnly(r.logger.With("component", "notify"))
	}

	// Extraction collaborators
	sidecars := extract.NewSidecarStore(r.cfg.Media.SidecarDir)
	ext := catchup.Extractors{
		MediaInfo: extract.NewProber(r.cfg.Media.FFprobePath, sidecars,
			r.cfg.Catchup.PersistMediaInfo, libraryStore, r.logger.With("component", "mediainfo")),
		Fingerprint: extract.NewFingerprintTool(r.cfg.Media.FingerprintTool,
			r.logger.With("component", "fingerprint")),
		IntroSkip: extract.NewIntroSkipTool(r.cfg.Media.IntroDetectTool, libraryStore,
			r.logger.With("component", "introskip")),
	}

	// Dispatch pipeline
	scope := catchup.NewHolder(r.cfg.CatchupScope())
	manager := catchup.NewManager(r.cfg.CatchupManagerConfig(), ext, r.logger.With("component", "queues"))
	if scope.Current().CatchupEnabled {
		manager.Initialize(ctx)
	}
	defer manager.Stop()

	background := catchup.NewBackground(0, 0, r.logger.With("component", "background"))
	defer background.Close()

	engine := catchup.NewEngine(scope, manager, notifier, libraryStore,
		userCache, libraryStore, sidecars, background, r.logger.With("component", "engine"))

	// Maintenance
	maint := maintenance.New(maintenance.Config{
		EventRetention: time.Duration(r.cfg.Maintenance.EventRetentionDays) * 24 * time.Hour,
		PruneSchedule:  r.cfg.Maintenance.PruneSchedule,
		SweepSchedule:  r.cfg.Maintenance.SweepSchedule,
	}, eventLog, sidecarsForSweep(r.cfg, sidecars), libraryStore, r.logger.With("component", "maintenance"))
	if err := maint.Schedule(); err != nil {
		return err
	}
	maint.Start()
	defer maint.Stop()

	// HTTP API
	apiServer, err := v1.New(v1.ServerDeps{
		Library:  libraryStore,
		Scope:    scope,
		Manager:  manager,
		EventLog: eventLog,
		Users:    userCache,
	})
	if err != nil {
		return err
	}
	mux := http.NewServeMux()
	apiServer.RegisterRoutes(mux)

	addr := fmt.Sprintf("%s:%d", r.cfg.Server.Host, r.cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: logRequests(mux, r.logger)}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return handlers.NewCatchupHandler(bus, engine, libraryStore,
			r.logger.With("component", "catchup-handler")).Start(ctx)
	})

	if r.cfg.Session != nil {
		client := session.NewClient(r.cfg.Session.URL, r.cfg.Session.Token)
		adapter := session.New(bus, client, resolver,
			r.cfg.Session.PollInterval.Std(), r.cfg.Session.MinConfidence,
			r.logger.With("component", "session"))
		g.Go(func() error { return adapter.Start(ctx) })
	}

	g.Go(func() error {
		r.logger.Info("http server starting", "addr", addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// sidecarsForSweep returns the sweep target, or nil when media-info
// persistence is off and no side files are ever written.
func sidecarsForSweep(cfg *config.Config, sidecars *extract.SidecarStore) maintenance.SidecarStore {
	if !cfg.Catchup.PersistMediaInfo {
		return nil
	}
	return sidecars
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 200 { // Only capture first WriteHeader call
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, status: 200}
		next.ServeHTTP(wrapped, r)
		log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
