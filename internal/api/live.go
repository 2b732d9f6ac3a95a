package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/terra-clan/portfolio/internal/models"
)

const (
	liveWriteWait    = 10 * time.Second
	livePingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Live message types
const (
	LiveTypeHome          = "home"
	LiveTypeRemoteChanged = "remote_changed"
)

// LiveMessage is pushed to /ws/home subscribers
type LiveMessage struct {
	Type    string                `json:"type"`
	Version uint64                `json:"version"`
	Data    *models.HomeViewModel `json:"data,omitempty"`
	Table   string                `json:"table,omitempty"`
}

// LiveSource produces the current home view model
type LiveSource interface {
	Live() (models.HomeViewModel, uint64)
}

// LiveHub fans home view model updates out to websocket subscribers.
// Pending notifications are coalesced per subscriber, so a slow subscriber
// skips intermediate versions but always receives the latest one.
type LiveHub struct {
	source LiveSource

	mu          sync.Mutex
	subscribers map[uuid.UUID]*liveSubscriber
}

type liveSubscriber struct {
	wake chan struct{}

	mu     sync.Mutex
	home   bool
	tables []string
}

func (s *liveSubscriber) mark(home bool, table string) {
	s.mu.Lock()
	if home {
		s.home = true
	}
	if table != "" && !slices.Contains(s.tables, table) {
		s.tables = append(s.tables, table)
	}
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *liveSubscriber) take() (bool, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	home, tables := s.home, s.tables
	s.home, s.tables = false, nil
	return home, tables
}

// NewLiveHub creates a hub over source
func NewLiveHub(source LiveSource) *LiveHub {
	return &LiveHub{
		source:      source,
		subscribers: make(map[uuid.UUID]*liveSubscriber),
	}
}

// Notify marks the home view model as changed for every subscriber. It is
// registered as a content store observer.
func (h *LiveHub) Notify(uint64) {
	h.broadcast(true, "")
}

// NotifyRemoteChange tells subscribers that a remote table changed so they
// can re-fetch the matching page
func (h *LiveHub) NotifyRemoteChange(table string) {
	h.broadcast(false, table)
}

// Subscribers returns the number of connected subscribers
func (h *LiveHub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

func (h *LiveHub) current() LiveMessage {
	vm, version := h.source.Live()
	return LiveMessage{Type: LiveTypeHome, Version: version, Data: &vm}
}

func (h *LiveHub) broadcast(home bool, table string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, sub := range h.subscribers {
		sub.mark(home, table)
	}
}

// pending drains the notifications queued for sub. The home message is
// built at drain time and carries the current version.
func (h *LiveHub) pending(sub *liveSubscriber) []LiveMessage {
	home, tables := sub.take()

	msgs := make([]LiveMessage, 0, len(tables)+1)
	if home {
		msgs = append(msgs, h.current())
	}
	for _, table := range tables {
		msgs = append(msgs, LiveMessage{Type: LiveTypeRemoteChanged, Table: table})
	}
	return msgs
}

func (h *LiveHub) subscribe() (uuid.UUID, *liveSubscriber) {
	id := uuid.New()
	sub := &liveSubscriber{wake: make(chan struct{}, 1)}

	h.mu.Lock()
	h.subscribers[id] = sub
	h.mu.Unlock()

	return id, sub
}

func (h *LiveHub) unsubscribe(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subscribers, id)
}

func (s *Server) handleHomeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade to websocket", "error", err)
		return
	}
	defer conn.Close()

	id, sub := s.live.subscribe()
	defer s.live.unsubscribe(id)

	slog.Info("live websocket connected", "subscriber", id)

	if err := sendLiveMessage(conn, s.live.current()); err != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Read side only detects the client going away
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					slog.Debug("websocket read error", "error", err)
				}
				return
			}
		}
	}()

	ping := time.NewTicker(livePingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("live websocket disconnected", "subscriber", id)
			return
		case <-sub.wake:
			for _, msg := range s.live.pending(sub) {
				if err := sendLiveMessage(conn, msg); err != nil {
					return
				}
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(liveWriteWait)); err != nil {
				slog.Debug("failed to ping live subscriber", "error", err)
				return
			}
		}
	}
}

func sendLiveMessage(conn *websocket.Conn, msg LiveMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("failed to marshal live message", "error", err)
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Debug("failed to send live message", "error", err)
		return err
	}
	return nil
}
