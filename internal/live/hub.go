// Package live pushes counter updates to connected browsers over WebSocket.
package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
)

const writeTimeout = 5 * time.Second

// Conn is the subset of *websocket.Conn the hub writes to.
type Conn interface {
	Write(ctx context.Context, typ websocket.MessageType, p []byte) error
	Close(code websocket.StatusCode, reason string) error
}

// CounterUpdate is the message sent on every change.
type CounterUpdate struct {
	StudentsHelped int64 `json:"students_helped"`
}

type connKey struct {
	userID    string
	sessionID string
}

// subscriber owns one connection. Its writer goroutine is the only caller of
// conn.Write, so a stalled peer never holds up Broadcast or other peers.
type subscriber struct {
	conn    Conn
	updates chan []byte // latest payload wins
	done    chan struct{}
}

func (s *subscriber) offer(payload []byte) {
	select {
	case s.updates <- payload:
		return
	default:
	}
	select {
	case <-s.updates:
	default:
	}
	select {
	case s.updates <- payload:
	default:
	}
}

// Hub tracks one live connection per device and tab session.
type Hub struct {
	mu     sync.RWMutex
	active map[connKey]*subscriber
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{active: make(map[connKey]*subscriber)}
}

// Register adds a connection, closing any previous one for the same tab.
func (h *Hub) Register(userID, sessionID string, conn Conn) {
	sub := &subscriber{
		conn:    conn,
		updates: make(chan []byte, 1),
		done:    make(chan struct{}),
	}
	key := connKey{userID: userID, sessionID: sessionID}

	h.mu.Lock()
	if existing, ok := h.active[key]; ok {
		if existing.conn == conn {
			h.mu.Unlock()
			return
		}
		close(existing.done)
		_ = existing.conn.Close(websocket.StatusNormalClosure, "session replaced")
	}
	h.active[key] = sub
	h.mu.Unlock()

	go h.writeLoop(key, sub)
	slog.Debug("Live session registered", "user_id", userID, "session_id", sessionID)
}

// Unregister removes conn if it is still the tab's current connection.
func (h *Hub) Unregister(userID, sessionID string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	key := connKey{userID: userID, sessionID: sessionID}
	if current, ok := h.active[key]; ok && current.conn == conn {
		delete(h.active, key)
		close(current.done)
		slog.Debug("Live session unregistered", "user_id", userID, "session_id", sessionID)
	}
}

// Len returns the number of live connections.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.active)
}

// Broadcast queues the counter value for every connection and returns
// without waiting for any write.
func (h *Hub) Broadcast(value int64) {
	payload, err := json.Marshal(CounterUpdate{StudentsHelped: value})
	if err != nil {
		slog.Error("Failed to encode counter update", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.active {
		sub.offer(payload)
	}
}

// writeLoop sends queued payloads until the subscriber is removed. A failed
// write drops the connection.
func (h *Hub) writeLoop(key connKey, sub *subscriber) {
	for {
		select {
		case <-sub.done:
			return
		case payload := <-sub.updates:
			ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			err := sub.conn.Write(ctx, websocket.MessageText, payload)
			cancel()
			if err != nil {
				slog.Debug("Dropping live session after failed write", "user_id", key.userID, "session_id", key.sessionID, "error", err)
				h.Unregister(key.userID, key.sessionID, sub.conn)
				_ = sub.conn.Close(websocket.StatusGoingAway, "write failed")
				return
			}
		}
	}
}

// CloseAll closes every connection, used on shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for key, sub := range h.active {
		close(sub.done)
		_ = sub.conn.Close(websocket.StatusGoingAway, "server shutting down")
		delete(h.active, key)
	}
}
