package domain

import "time"

// Severity represents the severity level of an incident.
type Severity string

// Severity levels.
const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityCritical Severity = "critical"
)

// IsValid checks if the severity is a recognized value.
func (s Severity) IsValid() bool {
	return s == SeverityLow || s == SeverityMedium || s == SeverityCritical
}

// NormalizeSeverity returns the severity itself when recognized and
// SeverityLow otherwise. Severity only affects display, so unknown values
// fall back to the default instead of failing the request.
func NormalizeSeverity(s Severity) Severity {
	if s.IsValid() {
		return s
	}
	return SeverityLow
}

// Status represents the lifecycle status of an incident.
type Status string

// Incident statuses. Only StatusOpen is assigned by this service;
// no transition flow exists yet.
const (
	StatusOpen Status = "open"
)

// Incident is a reported operational issue. Immutable once created;
// id and created_at are assigned by the store at insert time.
type Incident struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Severity    Severity  `json:"severity"`
	Status      Status    `json:"status"`
	CreatedBy   string    `json:"created_by"`
	CreatorName string    `json:"creator_name"`
	CreatedAt   time.Time `json:"created_at"`
}
