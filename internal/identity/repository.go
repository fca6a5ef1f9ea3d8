package identity

import (
	"context"

	"github.com/incidentflow/incidentflow/internal/domain"
)

// Repository defines the interface for user storage.
type Repository interface {
	// CreateUser inserts a user and fills the store-assigned id and
	// created_at. Returns ErrEmailExists on a duplicate email.
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
}
