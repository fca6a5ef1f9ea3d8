// Package feed reconciles the one-time incident snapshot with the live
// stream into a single display-ordered sequence without duplicates.
package feed

import (
	"sync"

	"github.com/incidentflow/incidentflow/internal/domain"
)

// Feed is the merged incident sequence, newest first, keyed by incident id.
// A client may receive a broadcast for an incident created between the
// snapshot fetch and the stream attachment; Apply is idempotent so that
// incident is counted once.
type Feed struct {
	mu    sync.Mutex
	order []int64
	byID  map[int64]*domain.Incident
}

// New creates an empty feed.
func New() *Feed {
	return &Feed{
		byID: make(map[int64]*domain.Incident),
	}
}

// ReplaceSnapshot replaces the whole sequence with the fetched list.
// The list is expected newest first, as served by the API.
func (f *Feed) ReplaceSnapshot(list []*domain.Incident) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.order = make([]int64, 0, len(list))
	f.byID = make(map[int64]*domain.Incident, len(list))
	for _, incident := range list {
		if _, seen := f.byID[incident.ID]; seen {
			continue
		}
		f.order = append(f.order, incident.ID)
		f.byID[incident.ID] = incident
	}
}

// Apply merges one streamed incident. Unseen ids are prepended; ids already
// present are ignored. Reports whether the sequence changed.
func (f *Feed) Apply(incident *domain.Incident) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, seen := f.byID[incident.ID]; seen {
		return false
	}
	f.order = append([]int64{incident.ID}, f.order...)
	f.byID[incident.ID] = incident
	return true
}

// Incidents returns a copy of the merged sequence, newest first.
func (f *Feed) Incidents() []*domain.Incident {
	f.mu.Lock()
	defer f.mu.Unlock()

	list := make([]*domain.Incident, 0, len(f.order))
	for _, id := range f.order {
		list = append(list, f.byID[id])
	}
	return list
}

// Len returns the number of distinct incidents in the feed.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.order)
}
