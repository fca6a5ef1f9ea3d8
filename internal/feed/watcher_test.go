package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/incidentflow/incidentflow/internal/domain"
	"github.com/incidentflow/incidentflow/internal/incidents"
	"github.com/incidentflow/incidentflow/internal/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newStreamServer serves a real hub-backed live channel at /ws and the given
// snapshot handler at /incidents.
func newStreamServer(t *testing.T, hub *stream.Hub, snapshot http.HandlerFunc) *httptest.Server {
	t.Helper()

	handler := stream.NewHandler(hub, stream.HandlerConfig{WriteTimeout: time.Second})

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", handler.Serve)
	mux.HandleFunc("/incidents", snapshot)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	t.Cleanup(hub.Close)
	return srv
}

func waitChange(t *testing.T, changes <-chan []*domain.Incident) []*domain.Incident {
	t.Helper()

	select {
	case list := <-changes:
		return list
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for feed change")
		return nil
	}
}

func TestWatcher_SnapshotFailureReturnsError(t *testing.T) {
	hub := stream.NewHub(8)
	srv := newStreamServer(t, hub, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"message":"missing credential"}}`))
	})

	var calls int
	watcher := &Watcher{
		BaseURL:  srv.URL,
		OnChange: func([]*domain.Incident) { calls++ },
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := watcher.Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch snapshot")
	assert.Zero(t, calls, "a failed snapshot must not expose a partial list")
	assert.Empty(t, watcher.Incidents())
}

func TestWatcher_ReconcilesSnapshotAndStream(t *testing.T) {
	hub := stream.NewHub(8)
	srv := newStreamServer(t, hub, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "snapshot-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]*domain.Incident{{ID: 1, Title: "seed"}})
	})

	changes := make(chan []*domain.Incident, 8)
	watcher := &Watcher{
		BaseURL:  srv.URL,
		Token:    "snapshot-token",
		OnChange: func(list []*domain.Incident) { changes <- list },
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx) }()

	snapshot := waitChange(t, changes)
	assert.Equal(t, []int64{1}, ids(snapshot))

	require.Eventually(t, func() bool { return hub.Len() == 1 },
		2*time.Second, 10*time.Millisecond, "watcher session must be attached")

	// A duplicate of a snapshot id and a foreign event name are both ignored;
	// only the unseen id changes the feed.
	hub.Publish(incidents.EventNewIncident, &domain.Incident{ID: 1, Title: "duplicate"})
	hub.Publish("unrelated_event", &domain.Incident{ID: 7})
	hub.Publish(incidents.EventNewIncident, &domain.Incident{ID: 2, Title: "streamed"})

	merged := waitChange(t, changes)
	assert.Equal(t, []int64{2, 1}, ids(merged), "unseen id prepended, duplicate counted once")
	assert.Equal(t, "seed", merged[1].Title, "the snapshot copy wins over the duplicate")

	cancel()
	require.NoError(t, <-done)
}
