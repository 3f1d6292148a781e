package qfd

// targetRecommendation picks the sequencing advice for one requirement from
// its normalized priority, difficulty, and correlation posture. Rules are
// evaluated in order; the first match wins. High priority means
// normalizedPriority > 50; high difficulty means difficulty >= 4.
func targetRecommendation(normalized float64, difficulty int, summary CorrelationSummary) string {
	highPriority := normalized > 50
	highDifficulty := difficulty >= 4
	hasPositive := summary.PositiveCount > 0
	hasNegative := summary.NegativeCount > 0

	switch {
	case highPriority && highDifficulty && hasNegative:
		return "Critical path with conflicts: plan a phased rollout and resolve trade-offs first."
	case highPriority && hasPositive:
		return "Opportunity: bundle with positively correlated requirements to multiply the payoff."
	case highPriority && highDifficulty:
		return "High-stakes focus area: assign senior capacity and plan explicit risk mitigation."
	case highPriority:
		return "Priority requirement: schedule for early implementation."
	case hasPositive:
		return "Implement alongside its synergistic partners to share the effort."
	case hasNegative:
		return "Proceed with caution: verify conflicting requirements are not degraded."
	default:
		return "Standard requirement: implement independently as capacity allows."
	}
}
