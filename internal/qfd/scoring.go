package qfd

import "github.com/google/uuid"

// matrixCell identifies one cell of the relationship matrix.
type matrixCell struct {
	customer  uuid.UUID
	technical uuid.UUID
}

// relationshipIndex builds a strength lookup keyed by matrix cell. Absent
// cells read back as StrengthNone.
func relationshipIndex(rels []Relationship) map[matrixCell]Strength {
	idx := make(map[matrixCell]Strength, len(rels))
	for _, r := range rels {
		idx[matrixCell{r.CustomerID, r.TechnicalID}] = r.Strength
	}
	return idx
}

// ScorePriorities computes the raw priority score for every technical
// requirement:
//
//	score(t) = Σ over customer requirements c of importance(c) × strength(c,t)
//
// A missing relationship contributes nothing. Relative weights are left at
// zero; NormalizeWeights fills them in. Input order is preserved.
func ScorePriorities(snap Snapshot) []TechnicalPriority {
	idx := relationshipIndex(snap.Relationships)

	priorities := make([]TechnicalPriority, 0, len(snap.TechnicalRequirements))
	for _, tr := range snap.TechnicalRequirements {
		score := 0
		for _, cr := range snap.CustomerRequirements {
			score += cr.Importance * int(idx[matrixCell{cr.ID, tr.ID}])
		}
		priorities = append(priorities, TechnicalPriority{
			TechnicalID: tr.ID,
			Description: tr.Description,
			Score:       score,
		})
	}
	return priorities
}

// NormalizeWeights fills in each entry's relative weight as a percentage of
// the total raw score. A zero total returns the input unchanged so callers
// never see a division by zero or NaN weights. The input slice is not
// mutated.
func NormalizeWeights(priorities []TechnicalPriority) []TechnicalPriority {
	total := 0
	for _, p := range priorities {
		total += p.Score
	}
	if total == 0 {
		return priorities
	}

	out := make([]TechnicalPriority, len(priorities))
	copy(out, priorities)
	for i := range out {
		out[i].RelativeWeight = float64(out[i].Score) / float64(total) * 100
	}
	return out
}

// maxScore returns the highest raw score in the ranking, 0 when empty.
func maxScore(priorities []TechnicalPriority) int {
	max := 0
	for _, p := range priorities {
		if p.Score > max {
			max = p.Score
		}
	}
	return max
}

// normalizedPriority expresses a raw score as a percentage of the maximum
// score in the ranking. Distinct from relative weight, which is a share of
// the total.
func normalizedPriority(score, max int) float64 {
	if max == 0 {
		return 0
	}
	return float64(score) / float64(max) * 100
}
