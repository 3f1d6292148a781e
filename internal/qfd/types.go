package qfd

import (
	"fmt"

	"github.com/google/uuid"
)

// Strength expresses how strongly a technical requirement addresses a
// customer requirement. Only the classic QFD values are legal.
type Strength int

const (
	StrengthNone     Strength = 0
	StrengthWeak     Strength = 1
	StrengthModerate Strength = 3
	StrengthStrong   Strength = 9
)

// Valid reports whether s is one of the four legal strength values.
func (s Strength) Valid() bool {
	switch s {
	case StrengthNone, StrengthWeak, StrengthModerate, StrengthStrong:
		return true
	}
	return false
}

// ParseStrength validates a raw strength value from the boundary.
func ParseStrength(v int) (Strength, error) {
	s := Strength(v)
	if !s.Valid() {
		return 0, fmt.Errorf("invalid relationship strength %d (want 0, 1, 3 or 9)", v)
	}
	return s, nil
}

// Correlation expresses the signed interaction between two technical
// requirements on the House of Quality roof.
type Correlation int

const (
	CorrelationStrongNegative Correlation = -2
	CorrelationNegative       Correlation = -1
	CorrelationNone           Correlation = 0
	CorrelationPositive       Correlation = 1
	CorrelationStrongPositive Correlation = 2
)

// Valid reports whether c is within the legal -2..2 range.
func (c Correlation) Valid() bool {
	return c >= CorrelationStrongNegative && c <= CorrelationStrongPositive
}

// ParseCorrelation validates a raw correlation value from the boundary.
func ParseCorrelation(v int) (Correlation, error) {
	c := Correlation(v)
	if !c.Valid() {
		return 0, fmt.Errorf("invalid correlation %d (want -2..2)", v)
	}
	return c, nil
}

// CustomerRequirement is one customer-voiced need. Ratings holds one
// competitor benchmark per competitor, in project competitor order.
type CustomerRequirement struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Importance  int       `json:"importance"` // 1..5
	Ratings     []int     `json:"ratings"`    // each 1..5
}

// TechnicalRequirement is one measurable engineering characteristic.
type TechnicalRequirement struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Unit        string    `json:"unit"`
	Target      string    `json:"target"`
	Difficulty  int       `json:"difficulty"` // 1..5
}

// Relationship is one cell of the relationship matrix. At most one record
// exists per (customer, technical) pair; an absent cell means StrengthNone.
type Relationship struct {
	CustomerID  uuid.UUID `json:"customer_requirement_id"`
	TechnicalID uuid.UUID `json:"technical_requirement_id"`
	Strength    Strength  `json:"strength"`
}

// TechnicalCorrelation is one roof cell between two distinct technical
// requirements. The pair is unordered; records are stored canonically with
// the lexicographically smaller id first.
type TechnicalCorrelation struct {
	Req1ID      uuid.UUID   `json:"requirement1_id"`
	Req2ID      uuid.UUID   `json:"requirement2_id"`
	Correlation Correlation `json:"correlation"`
}

// CanonicalPair orders two requirement ids with the lexicographically
// smaller one first.
func CanonicalPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if b.String() < a.String() {
		return b, a
	}
	return a, b
}

// Canonical returns the correlation with its pair in canonical order.
func (c TechnicalCorrelation) Canonical() TechnicalCorrelation {
	c.Req1ID, c.Req2ID = CanonicalPair(c.Req1ID, c.Req2ID)
	return c
}

// Snapshot is the complete raw input for one analysis run. The engine never
// mutates it.
type Snapshot struct {
	Competitors           []string               `json:"competitors"`
	CustomerRequirements  []CustomerRequirement  `json:"customer_requirements"`
	TechnicalRequirements []TechnicalRequirement `json:"technical_requirements"`
	Relationships         []Relationship         `json:"relationships"`
	Correlations          []TechnicalCorrelation `json:"correlations"`
}

// Level is an ordinal classification band.
type Level string

const (
	LevelLow      Level = "low"
	LevelMedium   Level = "medium"
	LevelHigh     Level = "high"
	LevelCritical Level = "critical"
)

// Impact is the categorical correlation posture of one requirement.
type Impact string

const (
	ImpactIsolated    Impact = "isolated"
	ImpactSynergistic Impact = "synergistic"
	ImpactConflicted  Impact = "conflicted"
	ImpactComplex     Impact = "complex"
)

// TechnicalPriority is the scored ranking entry for one technical
// requirement. Score is the raw importance-weighted sum; RelativeWeight is
// its share of the total score in percent.
type TechnicalPriority struct {
	TechnicalID    uuid.UUID `json:"technical_requirement_id"`
	Description    string    `json:"description"`
	Score          int       `json:"score"`
	RelativeWeight float64   `json:"relative_weight"`
}

// CorrelationSummary aggregates one requirement's roof records.
type CorrelationSummary struct {
	PositiveCount int    `json:"positive_count"`
	NegativeCount int    `json:"negative_count"`
	NetImpact     int    `json:"net_impact"`
	Impact        Impact `json:"impact"`
}

// TargetImpact combines priority, classification, and correlation posture
// for one technical requirement.
type TargetImpact struct {
	TechnicalID         uuid.UUID          `json:"technical_requirement_id"`
	Description         string             `json:"description"`
	Score               int                `json:"score"`
	NormalizedPriority  float64            `json:"normalized_priority"`
	Difficulty          int                `json:"difficulty"`
	Challenge           Level              `json:"challenge"`
	StrategicImportance Level              `json:"strategic_importance"`
	Correlation         CorrelationSummary `json:"correlation"`
	Recommendation      string             `json:"recommendation"`
}

// CorrelationInsight narrates one non-zero roof record for planning.
type CorrelationInsight struct {
	Requirement1   string      `json:"requirement1"`
	Requirement2   string      `json:"requirement2"`
	Correlation    Correlation `json:"correlation"`
	Score1         int         `json:"score1"`
	Score2         int         `json:"score2"`
	Impact         string      `json:"impact"`
	Recommendation string      `json:"recommendation"`
}

// Analysis bundles the three derived views computed in one pass.
type Analysis struct {
	Priorities []TechnicalPriority  `json:"priorities"`
	Targets    []TargetImpact       `json:"targets"`
	Insights   []CorrelationInsight `json:"insights"`
}
