package qfd

// challengeLevel bands the implementation challenge of one requirement from
// its difficulty and normalized priority.
//
//	challengeScore = difficulty*20 + normalizedPriority*0.3
//
// Maps to: >80 critical, >60 high, >40 medium, else low.
func challengeLevel(difficulty int, normalized float64) Level {
	score := float64(difficulty)*20 + normalized*0.3

	switch {
	case score > 80:
		return LevelCritical
	case score > 60:
		return LevelHigh
	case score > 40:
		return LevelMedium
	default:
		return LevelLow
	}
}

// strategicImportance bands a requirement by normalized priority, with
// difficulty >= 4 escalating the two upper bands one step.
func strategicImportance(normalized float64, difficulty int) Level {
	switch {
	case normalized > 70:
		if difficulty >= 4 {
			return LevelCritical
		}
		return LevelHigh
	case normalized > 40:
		if difficulty >= 4 {
			return LevelHigh
		}
		return LevelMedium
	case normalized > 20:
		return LevelMedium
	default:
		return LevelLow
	}
}
