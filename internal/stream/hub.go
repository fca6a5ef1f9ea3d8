// Package stream implements the live channel: a per-process registry of
// connected client sessions with best-effort fan-out.
package stream

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/incidentflow/incidentflow/internal/pkg/metrics"
)

// Event is the frame delivered to every subscriber.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Session is one connected client. It carries no persisted state and is
// identified by an opaque handle.
type Session struct {
	ID string
	ch chan Event
}

// Events returns the session's outbound queue. The channel is closed when
// the session is disconnected or dropped.
func (s *Session) Events() <-chan Event {
	return s.ch
}

// Hub is the connection registry. It is owned by the process and passed
// explicitly to whoever needs to publish, never a global.
type Hub struct {
	mu       sync.Mutex
	sessions map[string]*Session
	buffer   int
	closed   bool
}

// NewHub creates a hub whose sessions buffer up to buffer events each.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 64
	}
	return &Hub{
		sessions: make(map[string]*Session),
		buffer:   buffer,
	}
}

// Connect registers a new session. Connections are accepted unconditionally;
// only the write path is credential-gated. Returns nil after Close.
func (h *Hub) Connect() *Session {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}

	session := &Session{
		ID: uuid.NewString(),
		ch: make(chan Event, h.buffer),
	}
	h.sessions[session.ID] = session
	metrics.StreamSessions.Set(float64(len(h.sessions)))
	return session
}

// Disconnect releases the session. Idempotent.
func (h *Hub) Disconnect(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(id)
}

// Publish delivers the event to every session connected at the moment of the
// call. Delivery is independent per session: a session whose buffer is full
// is dropped rather than blocking the publisher or the other sessions.
// Sessions connecting afterwards do not receive the event.
func (h *Hub) Publish(event string, payload interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}

	var overflowed []string
	for id, session := range h.sessions {
		select {
		case session.ch <- Event{Event: event, Data: payload}:
		default:
			overflowed = append(overflowed, id)
		}
	}

	for _, id := range overflowed {
		slog.Warn("dropping slow live-channel session", "session_id", id)
		h.remove(id)
		metrics.StreamSessionsDropped.Inc()
	}

	metrics.StreamEventsPublished.WithLabelValues(event).Inc()
}

// Close disconnects every session and rejects further connects.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for id := range h.sessions {
		h.remove(id)
	}
}

// Len returns the number of connected sessions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// remove deletes and closes a session. Caller must hold the mutex.
func (h *Hub) remove(id string) {
	session, ok := h.sessions[id]
	if !ok {
		return
	}
	delete(h.sessions, id)
	close(session.ch)
	metrics.StreamSessions.Set(float64(len(h.sessions)))
}
