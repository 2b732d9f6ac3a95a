package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lib/pq"
)

// ChangesChannel is the NOTIFY channel the table triggers publish on.
// The payload is the name of the changed table.
const ChangesChannel = "portfolio_changes"

// ChangeHandler reacts to a change of table
type ChangeHandler func(ctx context.Context, table string)

// Listener forwards LISTEN/NOTIFY events for the portfolio tables
type Listener struct {
	dsn string

	mu       sync.RWMutex
	handlers []ChangeHandler
}

// NewListener creates a listener for dsn
func NewListener(dsn string) *Listener {
	return &Listener{dsn: dsn}
}

// OnChange registers a handler
func (l *Listener) OnChange(h ChangeHandler) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handlers = append(l.handlers, h)
}

// Start subscribes to the changes channel and dispatches in a goroutine
// until ctx is cancelled.
func (l *Listener) Start(ctx context.Context) error {
	listener := pq.NewListener(l.dsn, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			slog.Warn("change listener event", "event", ev, "error", err)
		}
	})

	if err := listener.Listen(ChangesChannel); err != nil {
		listener.Close()
		return fmt.Errorf("failed to listen on %s: %w", ChangesChannel, err)
	}

	go l.run(ctx, listener)
	return nil
}

func (l *Listener) run(ctx context.Context, listener *pq.Listener) {
	slog.Info("change listener started", "channel", ChangesChannel)
	defer listener.Close()

	for {
		select {
		case <-ctx.Done():
			slog.Info("change listener stopped")
			return
		case n := <-listener.Notify:
			// nil after a reconnect; state may have changed while disconnected
			if n == nil {
				l.dispatch(ctx, projectsTable)
				l.dispatch(ctx, guestbookTable)
				continue
			}
			l.dispatch(ctx, n.Extra)
		case <-time.After(90 * time.Second):
			go func() {
				if err := listener.Ping(); err != nil {
					slog.Warn("change listener ping failed", "error", err)
				}
			}()
		}
	}
}

func (l *Listener) dispatch(ctx context.Context, table string) {
	l.mu.RLock()
	handlers := append([]ChangeHandler(nil), l.handlers...)
	l.mu.RUnlock()

	slog.Debug("table changed", "table", table)
	for _, h := range handlers {
		h(ctx, table)
	}
}

// IsProjects reports whether table is the projects table
func IsProjects(table string) bool { return table == projectsTable }

// IsGuestbook reports whether table is the guestbook table
func IsGuestbook(table string) bool { return table == guestbookTable }
