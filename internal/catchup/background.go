package catchup

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/time/rate"
)

// Background runs fire-and-forget side effects (notifications, sidecar
// cleanup) off the event path. A rate limiter keeps a burst of library
// events from fanning out into an unbounded goroutine spike.
type Background struct {
	logger  *slog.Logger
	limiter *rate.Limiter
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewBackground creates a runner allowing up to rps task launches per second
// with the given burst.
func NewBackground(rps float64, burst int, logger *slog.Logger) *Background {
	if rps <= 0 {
		rps = 10
	}
	if burst <= 0 {
		burst = 5
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Background{
		logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Go launches fn on its own goroutine after a limiter slot frees up. Errors
// are logged, not returned; the caller has already moved on.
func (b *Background) Go(name string, fn func(ctx context.Context) error) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		if err := b.limiter.Wait(b.ctx); err != nil {
			return
		}
		if err := fn(b.ctx); err != nil {
			b.logger.Warn("background task failed", "task", name, "error", err)
		}
	}()
}

// Close cancels pending tasks and waits for running ones to return.
func (b *Background) Close() {
	b.cancel()
	b.wg.Wait()
}
