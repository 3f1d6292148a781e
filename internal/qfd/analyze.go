package qfd

import "github.com/google/uuid"

// AnalyzeTargets produces the per-requirement impact analysis: raw and
// normalized priority, challenge and strategic-importance bands, correlation
// posture, and a sequencing recommendation. Input order is preserved.
func AnalyzeTargets(snap Snapshot) []TargetImpact {
	priorities := NormalizeWeights(ScorePriorities(snap))
	return analyzeTargets(snap, priorities)
}

func analyzeTargets(snap Snapshot, priorities []TechnicalPriority) []TargetImpact {
	max := maxScore(priorities)
	corrIdx := correlationIndex(snap.Correlations)

	targets := make([]TargetImpact, 0, len(snap.TechnicalRequirements))
	for i, tr := range snap.TechnicalRequirements {
		score := priorities[i].Score
		normalized := normalizedPriority(score, max)
		summary := summarizeCorrelations(corrIdx[tr.ID])

		targets = append(targets, TargetImpact{
			TechnicalID:         tr.ID,
			Description:         tr.Description,
			Score:               score,
			NormalizedPriority:  normalized,
			Difficulty:          tr.Difficulty,
			Challenge:           challengeLevel(tr.Difficulty, normalized),
			StrategicImportance: strategicImportance(normalized, tr.Difficulty),
			Correlation:         summary,
			Recommendation:      targetRecommendation(normalized, tr.Difficulty, summary),
		})
	}
	return targets
}

// AnalyzeInsights produces one insight per non-zero correlation record.
// Records pointing at unknown requirement ids are skipped rather than
// reported; referential checks belong at the boundary.
func AnalyzeInsights(snap Snapshot) []CorrelationInsight {
	priorities := NormalizeWeights(ScorePriorities(snap))
	return analyzeInsights(snap, priorities)
}

func analyzeInsights(snap Snapshot, priorities []TechnicalPriority) []CorrelationInsight {
	descByID := make(map[uuid.UUID]string, len(snap.TechnicalRequirements))
	for _, tr := range snap.TechnicalRequirements {
		descByID[tr.ID] = tr.Description
	}
	scoreByID := make(map[uuid.UUID]int, len(priorities))
	for _, p := range priorities {
		scoreByID[p.TechnicalID] = p.Score
	}

	insights := make([]CorrelationInsight, 0, len(snap.Correlations))
	for _, c := range snap.Correlations {
		if c.Correlation == CorrelationNone {
			continue
		}
		desc1, ok1 := descByID[c.Req1ID]
		desc2, ok2 := descByID[c.Req2ID]
		if !ok1 || !ok2 {
			continue
		}

		score1 := scoreByID[c.Req1ID]
		score2 := scoreByID[c.Req2ID]
		insights = append(insights, CorrelationInsight{
			Requirement1:   desc1,
			Requirement2:   desc2,
			Correlation:    c.Correlation,
			Score1:         score1,
			Score2:         score2,
			Impact:         impactDescription(c.Correlation),
			Recommendation: pairRecommendation(c.Correlation, score1+score2),
		})
	}
	return insights
}

// Analyze runs the full pipeline once and bundles the three derived views.
func Analyze(snap Snapshot) Analysis {
	priorities := NormalizeWeights(ScorePriorities(snap))
	return Analysis{
		Priorities: priorities,
		Targets:    analyzeTargets(snap, priorities),
		Insights:   analyzeInsights(snap, priorities),
	}
}
