// Package postgres provides PostgreSQL implementation of incidents repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/incidentflow/incidentflow/internal/domain"
	"github.com/incidentflow/incidentflow/internal/incidents"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// foreignKeyViolation is the PostgreSQL error code for FK constraint violations.
const foreignKeyViolation = "23503"

// Repository implements incidents.Repository using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create inserts a new incident. The id and created_at are assigned by the
// store; the creator display name is resolved in the same statement so the
// returned record is complete for broadcasting.
func (r *Repository) Create(ctx context.Context, incident *domain.Incident) error {
	query := `
		WITH inserted AS (
			INSERT INTO incidents (title, description, severity, status, created_by)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_by, created_at
		)
		SELECT inserted.id, inserted.created_at, u.name
		FROM inserted
		JOIN users u ON u.id = inserted.created_by
	`
	err := r.db.QueryRow(ctx, query,
		incident.Title,
		incident.Description,
		incident.Severity,
		incident.Status,
		incident.CreatedBy,
	).Scan(&incident.ID, &incident.CreatedAt, &incident.CreatorName)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return incidents.ErrCreatorNotFound
		}
		return fmt.Errorf("create incident: %w", err)
	}
	return nil
}

// List retrieves all incidents with creator names, most recent first.
// The id tiebreak makes two incidents inserted in sequence always appear in
// that sequence, regardless of created_at resolution.
func (r *Repository) List(ctx context.Context) ([]*domain.Incident, error) {
	query := `
		SELECT
			i.id, i.title, i.description, i.severity, i.status,
			i.created_by, u.name, i.created_at
		FROM incidents i
		JOIN users u ON u.id = i.created_by
		ORDER BY i.created_at DESC, i.id DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}
	defer rows.Close()

	var list []*domain.Incident
	for rows.Next() {
		var incident domain.Incident
		if err := rows.Scan(
			&incident.ID,
			&incident.Title,
			&incident.Description,
			&incident.Severity,
			&incident.Status,
			&incident.CreatedBy,
			&incident.CreatorName,
			&incident.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan incident: %w", err)
		}
		list = append(list, &incident)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate incidents: %w", err)
	}
	return list, nil
}
