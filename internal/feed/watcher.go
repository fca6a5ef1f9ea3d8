package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/incidentflow/incidentflow/internal/domain"
	"github.com/incidentflow/incidentflow/internal/incidents"
)

// Watcher follows a running server: it attaches to the live channel, fetches
// the incident snapshot, and keeps a Feed reconciled with the stream.
//
// The channel is attached before the snapshot fetch; an incident created in
// between is then seen twice (snapshot and stream) and deduplicated by the
// feed, instead of being missed.
type Watcher struct {
	// BaseURL of the server, e.g. http://localhost:8080.
	BaseURL string
	// Token is the credential for the snapshot fetch.
	Token string
	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client
	// OnChange, if set, is called with the full sequence after every change.
	OnChange func([]*domain.Incident)

	feed *Feed
}

// Incidents returns the current reconciled sequence, newest first.
func (w *Watcher) Incidents() []*domain.Incident {
	if w.feed == nil {
		return nil
	}
	return w.feed.Incidents()
}

// Run connects and follows the stream until ctx is cancelled or the
// connection fails. If the snapshot fetch fails, Run returns the error
// without ever exposing a partial list.
func (w *Watcher) Run(ctx context.Context) error {
	w.feed = New()

	conn, _, err := websocket.Dial(ctx, w.BaseURL+"/ws", &websocket.DialOptions{
		HTTPClient: w.httpClient(),
	})
	if err != nil {
		return fmt.Errorf("attach live channel: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "done")

	snapshot, err := w.fetchSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("fetch snapshot: %w", err)
	}

	w.feed.ReplaceSnapshot(snapshot)
	w.notify()

	for {
		var event struct {
			Event string           `json:"event"`
			Data  *domain.Incident `json:"data"`
		}
		if err := wsjson.Read(ctx, conn, &event); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read live channel: %w", err)
		}

		if event.Event != incidents.EventNewIncident || event.Data == nil {
			continue
		}
		if w.feed.Apply(event.Data) {
			w.notify()
		}
	}
}

func (w *Watcher) fetchSnapshot(ctx context.Context) ([]*domain.Incident, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.BaseURL+"/incidents", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", w.Token)

	resp, err := w.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("snapshot request failed: status=%d body=%s", resp.StatusCode, body)
	}

	var list []*domain.Incident
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return list, nil
}

func (w *Watcher) notify() {
	if w.OnChange != nil {
		w.OnChange(w.feed.Incidents())
	}
}

func (w *Watcher) httpClient() *http.Client {
	if w.HTTPClient != nil {
		return w.HTTPClient
	}
	return http.DefaultClient
}
