package events

import "time"

const (
	EntityProject              = "project"
	EntityCustomerRequirement  = "customer_requirement"
	EntityTechnicalRequirement = "technical_requirement"
	EntityRelationship         = "relationship"
	EntityCorrelation          = "correlation"

	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ProjectChangedEvent records a mutation to a project or one of its matrix
// entities. OwnerID rides along so consumers can load snapshots without an
// extra lookup.
type ProjectChangedEvent struct {
	ProjectID string    `json:"project_id"`
	OwnerID   string    `json:"owner_id"`
	Entity    string    `json:"entity"`
	Action    string    `json:"action"`
	EntityID  string    `json:"entity_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type AnalysisComputedEvent struct {
	ProjectID      string    `json:"project_id"`
	OwnerID        string    `json:"owner_id"`
	TechnicalCount int       `json:"technical_count"`
	TopTechnicalID string    `json:"top_technical_id,omitempty"`
	TopScore       int       `json:"top_score"`
	ComputedAt     time.Time `json:"computed_at"`
}
