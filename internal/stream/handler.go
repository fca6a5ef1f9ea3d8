package stream

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/incidentflow/incidentflow/internal/pkg/ctxlog"
)

// HandlerConfig contains websocket handler configuration.
type HandlerConfig struct {
	// OriginPatterns passed to the websocket accept options. Empty means
	// same-origin only.
	OriginPatterns []string
	WriteTimeout   time.Duration
}

// Handler upgrades HTTP requests to websocket sessions on the hub.
type Handler struct {
	hub    *Hub
	config HandlerConfig
}

// NewHandler creates a new websocket handler.
func NewHandler(hub *Hub, config HandlerConfig) *Handler {
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = 5 * time.Second
	}
	return &Handler{hub: hub, config: config}
}

// Serve handles GET /ws. The connection is not credential-gated; the session
// lives until the client disconnects, the buffer overflows, or shutdown.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	opts := &websocket.AcceptOptions{}
	if len(h.config.OriginPatterns) > 0 {
		opts.OriginPatterns = h.config.OriginPatterns
	}

	conn, err := websocket.Accept(w, r, opts)
	if err != nil {
		ctxlog.FromContext(r.Context()).Warn("websocket accept failed", "error", err)
		return
	}

	session := h.hub.Connect()
	if session == nil {
		_ = conn.Close(websocket.StatusGoingAway, "shutting down")
		return
	}
	defer h.hub.Disconnect(session.ID)

	logger := ctxlog.FromContext(r.Context()).With("session_id", session.ID)
	logger.Info("live-channel session connected")
	defer logger.Info("live-channel session closed")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Read pump: the client never sends application data, but reading is
	// required to process control frames and detect disconnects.
	readErr := make(chan error, 1)
	go func() {
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				readErr <- err
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "closed")
			return
		case <-readErr:
			_ = conn.Close(websocket.StatusNormalClosure, "closed")
			return
		case event, ok := <-session.Events():
			if !ok {
				// Disconnected by the hub (overflow or shutdown).
				_ = conn.Close(websocket.StatusTryAgainLater, "dropped")
				return
			}
			writeCtx, cancelWrite := context.WithTimeout(ctx, h.config.WriteTimeout)
			err := wsjson.Write(writeCtx, conn, event)
			cancelWrite()
			if err != nil {
				_ = conn.Close(websocket.StatusNormalClosure, "write failed")
				return
			}
		}
	}
}
