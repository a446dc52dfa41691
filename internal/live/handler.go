package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/soumil/jeeprep/internal/identity"
)

// CounterReader returns the current counter value.
type CounterReader interface {
	Read(ctx context.Context) int64
}

// Handler upgrades requests to WebSocket and streams counter updates.
type Handler struct {
	hub            *Hub
	counter        CounterReader
	originPatterns []string
}

// NewHandler creates a live counter handler. originPatterns follow
// websocket.AcceptOptions; an empty list allows same-origin only.
func NewHandler(hub *Hub, counter CounterReader, originPatterns []string) *Handler {
	return &Handler{hub: hub, counter: counter, originPatterns: originPatterns}
}

// ServeHTTP implements http.Handler for the WebSocket upgrade.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		slog.Warn("Failed to accept live WebSocket", "error", err, "user_id", userID)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			slog.Debug("Failed to close live websocket", "error", closeErr, "user_id", userID)
		}
	}()

	// The client only listens; CloseRead drains control frames and cancels ctx on disconnect.
	ctx := ws.CloseRead(r.Context())

	initial, err := json.Marshal(CounterUpdate{StudentsHelped: h.counter.Read(ctx)})
	if err != nil {
		return
	}
	if err := ws.Write(ctx, websocket.MessageText, initial); err != nil {
		slog.Debug("Failed to send initial counter", "error", err, "user_id", userID)
		return
	}

	h.hub.Register(userID, sessionID, ws)
	defer h.hub.Unregister(userID, sessionID, ws)

	<-ctx.Done()
}
