package refresh

import (
	"context"
	"log/slog"
	"time"
)

// Refreshable re-fetches a remote list
type Refreshable interface {
	Refresh(ctx context.Context) error
}

// Invalidator drops a cached copy of remote data
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Refresher periodically re-fetches published projects so the cache and the
// last good list stay current between visits.
type Refresher struct {
	projects Refreshable
	cache    Invalidator
	interval time.Duration
}

// NewRefresher creates a new refresh worker. cache may be nil.
func NewRefresher(projects Refreshable, cache Invalidator, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	return &Refresher{
		projects: projects,
		cache:    cache,
		interval: interval,
	}
}

// Start begins the refresh worker in a goroutine
func (r *Refresher) Start(ctx context.Context) {
	go r.run(ctx)
}

func (r *Refresher) run(ctx context.Context) {
	slog.Info("projects refresher started", "interval", r.interval)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	// Run immediately on start
	r.refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("projects refresher stopped")
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

func (r *Refresher) refresh(ctx context.Context) {
	slog.Debug("running refresh cycle")

	if r.cache != nil {
		if err := r.cache.Invalidate(ctx); err != nil {
			slog.Warn("failed to invalidate projects cache", "error", err)
		}
	}

	if err := r.projects.Refresh(ctx); err != nil {
		slog.Error("failed to refresh projects", "error", err)
		return
	}

	slog.Debug("projects refreshed")
}
