package incidents

import (
	"context"

	"github.com/incidentflow/incidentflow/internal/domain"
)

// Repository defines the interface for incident storage.
type Repository interface {
	// Create inserts an incident and fills the store-assigned id,
	// created_at, and resolved creator_name. Returns ErrCreatorNotFound
	// if created_by violates the referential constraint.
	Create(ctx context.Context, incident *domain.Incident) error

	// List returns all incidents with creator names, most recent first.
	// Ties on created_at are broken by id, which reflects insertion order.
	List(ctx context.Context) ([]*domain.Incident, error)
}
