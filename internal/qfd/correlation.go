package qfd

import "github.com/google/uuid"

// Raw-score sums above these thresholds upgrade a pair recommendation to
// its urgent wording. Sums are raw scores, not normalized percentages.
const (
	strongPositiveSumThreshold = 50
	positiveSumThreshold       = 40
	negativeSumThreshold       = 60
	strongNegativeSumThreshold = 50
)

// correlationIndex maps each requirement id to its correlation records,
// indexed from both pair positions. Zero-valued records are dropped; they
// are equivalent to no record at all.
func correlationIndex(correlations []TechnicalCorrelation) map[uuid.UUID][]TechnicalCorrelation {
	idx := make(map[uuid.UUID][]TechnicalCorrelation)
	for _, c := range correlations {
		if c.Correlation == CorrelationNone {
			continue
		}
		idx[c.Req1ID] = append(idx[c.Req1ID], c)
		idx[c.Req2ID] = append(idx[c.Req2ID], c)
	}
	return idx
}

// summarizeCorrelations aggregates one requirement's roof records into
// partner counts, a net signed impact, and a categorical label:
//
//	net = (2×strongPos + pos) − (2×strongNeg + neg)
//
// No records → isolated; net > 1 → synergistic; net < −1 → conflicted;
// everything else → complex.
func summarizeCorrelations(records []TechnicalCorrelation) CorrelationSummary {
	var strongPos, pos, neg, strongNeg int
	for _, c := range records {
		switch c.Correlation {
		case CorrelationStrongPositive:
			strongPos++
		case CorrelationPositive:
			pos++
		case CorrelationNegative:
			neg++
		case CorrelationStrongNegative:
			strongNeg++
		}
	}

	summary := CorrelationSummary{
		PositiveCount: strongPos + pos,
		NegativeCount: strongNeg + neg,
		NetImpact:     (2*strongPos + pos) - (2*strongNeg + neg),
	}

	switch {
	case strongPos+pos+neg+strongNeg == 0:
		summary.Impact = ImpactIsolated
	case summary.NetImpact > 1:
		summary.Impact = ImpactSynergistic
	case summary.NetImpact < -1:
		summary.Impact = ImpactConflicted
	default:
		summary.Impact = ImpactComplex
	}
	return summary
}

// impactDescription returns the fixed narration for one correlation value.
func impactDescription(c Correlation) string {
	switch c {
	case CorrelationStrongPositive:
		return "Improving one requirement strongly reinforces the other."
	case CorrelationPositive:
		return "Improving one requirement tends to benefit the other."
	case CorrelationNegative:
		return "Improving one requirement tends to degrade the other."
	case CorrelationStrongNegative:
		return "Improving one requirement works directly against the other."
	default:
		return "No interaction between these requirements."
	}
}

// pairRecommendation picks the sequencing advice for one correlated pair.
// The wording escalates when the pair's combined raw score crosses the
// per-value threshold.
func pairRecommendation(c Correlation, scoreSum int) string {
	switch c {
	case CorrelationStrongPositive:
		if scoreSum > strongPositiveSumThreshold {
			return "HIGH PRIORITY: implement both requirements together for maximum impact."
		}
		return "Bundle these requirements when scheduling allows; the gains compound."
	case CorrelationPositive:
		if scoreSum > positiveSumThreshold {
			return "Sequence these requirements back to back to capture the shared benefit."
		}
		return "Keep the pairing in mind; coordination helps but is not urgent."
	case CorrelationNegative:
		if scoreSum > negativeSumThreshold {
			return "Both requirements carry weight; agree an explicit trade-off before fixing targets."
		}
		return "Monitor the tension and revisit targets if either requirement gains priority."
	case CorrelationStrongNegative:
		if scoreSum > strongNegativeSumThreshold {
			return "CONFLICT: these high-value requirements pull in opposite directions; resolve the trade-off at design level."
		}
		return "Document the conflict and pick the primary requirement before implementation."
	default:
		return "No action needed."
	}
}
