package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/qfdstudio/hoq/internal/qfd"
)

// Project is one House of Quality worksheet. Raw QFD entities hang off a
// project, and project reads and writes are always scoped by the owning
// user. Child entity operations are scoped by project id; handlers resolve
// project ownership first.
type Project struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Competitors []string  `json:"competitors"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ProjectFilter struct {
	Name   string
	Limit  int
	Offset int
}

// Stats is the admin-facing inventory across all users.
type Stats struct {
	TotalProjects              int `json:"total_projects"`
	TotalCustomerRequirements  int `json:"total_customer_requirements"`
	TotalTechnicalRequirements int `json:"total_technical_requirements"`
	TotalRelationships         int `json:"total_relationships"`
	TotalCorrelations          int `json:"total_correlations"`
}

type Store interface {
	// Projects (owner-scoped)
	CreateProject(ctx context.Context, p *Project) error
	GetProject(ctx context.Context, ownerID string, id uuid.UUID) (*Project, error)
	ListProjects(ctx context.Context, ownerID string, filter ProjectFilter) ([]*Project, error)
	UpdateProject(ctx context.Context, p *Project) error
	DeleteProject(ctx context.Context, ownerID string, id uuid.UUID) error

	// Customer requirements
	CreateCustomerRequirement(ctx context.Context, projectID uuid.UUID, cr *qfd.CustomerRequirement) error
	GetCustomerRequirement(ctx context.Context, projectID, id uuid.UUID) (*qfd.CustomerRequirement, error)
	ListCustomerRequirements(ctx context.Context, projectID uuid.UUID) ([]qfd.CustomerRequirement, error)
	UpdateCustomerRequirement(ctx context.Context, projectID uuid.UUID, cr *qfd.CustomerRequirement) error
	DeleteCustomerRequirement(ctx context.Context, projectID, id uuid.UUID) error

	// Technical requirements
	CreateTechnicalRequirement(ctx context.Context, projectID uuid.UUID, tr *qfd.TechnicalRequirement) error
	GetTechnicalRequirement(ctx context.Context, projectID, id uuid.UUID) (*qfd.TechnicalRequirement, error)
	ListTechnicalRequirements(ctx context.Context, projectID uuid.UUID) ([]qfd.TechnicalRequirement, error)
	UpdateTechnicalRequirement(ctx context.Context, projectID uuid.UUID, tr *qfd.TechnicalRequirement) error
	DeleteTechnicalRequirement(ctx context.Context, projectID, id uuid.UUID) error

	// Relationship matrix cells
	UpsertRelationship(ctx context.Context, projectID uuid.UUID, rel qfd.Relationship) error
	ListRelationships(ctx context.Context, projectID uuid.UUID) ([]qfd.Relationship, error)
	DeleteRelationship(ctx context.Context, projectID, customerID, technicalID uuid.UUID) error

	// Correlation roof cells, stored in canonical pair order
	UpsertCorrelation(ctx context.Context, projectID uuid.UUID, corr qfd.TechnicalCorrelation) error
	ListCorrelations(ctx context.Context, projectID uuid.UUID) ([]qfd.TechnicalCorrelation, error)
	DeleteCorrelation(ctx context.Context, projectID, req1ID, req2ID uuid.UUID) error

	// GetSnapshot assembles the complete engine input for one project.
	GetSnapshot(ctx context.Context, projectID uuid.UUID) (*qfd.Snapshot, error)

	GetStats(ctx context.Context) (*Stats, error)

	Close() error
}
