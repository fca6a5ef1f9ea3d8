// Package incidents implements incident creation and listing with live
// fan-out to connected clients.
package incidents

import (
	"context"
	"fmt"
	"strings"

	"github.com/incidentflow/incidentflow/internal/domain"
	"github.com/incidentflow/incidentflow/internal/pkg/ctxlog"
)

// EventNewIncident is the live-channel event emitted for every created
// incident.
const EventNewIncident = "new_incident"

// Publisher delivers an event to every currently connected live-channel
// session. Delivery is fire-and-forget: it never fails the create request.
type Publisher interface {
	Publish(event string, payload interface{})
}

// Service implements incident business logic.
type Service struct {
	repo      Repository
	publisher Publisher
}

// NewService creates a new incident service. The publisher is injected so
// tests can substitute a fake registry.
func NewService(repo Repository, publisher Publisher) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
	}
}

// CreateInput holds data for creating an incident.
type CreateInput struct {
	Title       string
	Description string
	Severity    domain.Severity
}

// List returns the current incident snapshot, most recent first.
func (s *Service) List(ctx context.Context) ([]*domain.Incident, error) {
	return s.repo.List(ctx)
}

// Create validates the input, persists the incident, and broadcasts the
// created record to all connected sessions. The broadcast is issued strictly
// after the store commit, so a client reacting to it and re-fetching the list
// is guaranteed to find the incident already present. The same record is
// broadcast and returned; on any failure nothing is persisted or broadcast.
func (s *Service) Create(ctx context.Context, input CreateInput, creatorID string) (*domain.Incident, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	incident := &domain.Incident{
		Title:       title,
		Description: input.Description,
		Severity:    domain.NormalizeSeverity(input.Severity),
		Status:      domain.StatusOpen,
		CreatedBy:   creatorID,
	}

	if err := s.repo.Create(ctx, incident); err != nil {
		return nil, fmt.Errorf("create incident: %w", err)
	}

	s.publisher.Publish(EventNewIncident, incident)

	ctxlog.FromContext(ctx).Info("incident created",
		"incident_id", incident.ID,
		"severity", incident.Severity,
		"created_by", incident.CreatedBy,
	)

	return incident, nil
}
