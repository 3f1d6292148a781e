package qfd

// Presentation lookups for UI layers rendering the House of Quality. The
// engine itself never consumes these.

// Symbol returns the matrix glyph drawn in a relationship cell.
func (s Strength) Symbol() string {
	switch s {
	case StrengthStrong:
		return "●"
	case StrengthModerate:
		return "○"
	case StrengthWeak:
		return "▽"
	default:
		return ""
	}
}

// Title returns the display name for a strength value.
func (s Strength) Title() string {
	switch s {
	case StrengthStrong:
		return "Strong"
	case StrengthModerate:
		return "Moderate"
	case StrengthWeak:
		return "Weak"
	default:
		return "None"
	}
}

// Color returns the chart color for a strength value.
func (s Strength) Color() string {
	switch s {
	case StrengthStrong:
		return "#1d4ed8"
	case StrengthModerate:
		return "#3b82f6"
	case StrengthWeak:
		return "#93c5fd"
	default:
		return "#e5e7eb"
	}
}

// Symbol returns the roof glyph drawn in a correlation cell.
func (c Correlation) Symbol() string {
	switch c {
	case CorrelationStrongPositive:
		return "++"
	case CorrelationPositive:
		return "+"
	case CorrelationNegative:
		return "-"
	case CorrelationStrongNegative:
		return "--"
	default:
		return ""
	}
}

// Title returns the display name for a correlation value.
func (c Correlation) Title() string {
	switch c {
	case CorrelationStrongPositive:
		return "Strong Positive"
	case CorrelationPositive:
		return "Positive"
	case CorrelationNegative:
		return "Negative"
	case CorrelationStrongNegative:
		return "Strong Negative"
	default:
		return "None"
	}
}

// Color returns the chart color for a correlation value.
func (c Correlation) Color() string {
	switch c {
	case CorrelationStrongPositive:
		return "#15803d"
	case CorrelationPositive:
		return "#4ade80"
	case CorrelationNegative:
		return "#f87171"
	case CorrelationStrongNegative:
		return "#b91c1c"
	default:
		return "#e5e7eb"
	}
}

// LegendEntry describes one enum value for UI layers.
type LegendEntry struct {
	Value  int    `json:"value"`
	Title  string `json:"title"`
	Symbol string `json:"symbol"`
	Color  string `json:"color"`
}

// LegendTable carries the presentation tables for both enums.
type LegendTable struct {
	Strengths    []LegendEntry `json:"strengths"`
	Correlations []LegendEntry `json:"correlations"`
}

// Legend returns the full presentation tables in value order.
func Legend() LegendTable {
	strengths := []Strength{StrengthNone, StrengthWeak, StrengthModerate, StrengthStrong}
	correlations := []Correlation{
		CorrelationStrongNegative,
		CorrelationNegative,
		CorrelationNone,
		CorrelationPositive,
		CorrelationStrongPositive,
	}

	table := LegendTable{}
	for _, s := range strengths {
		table.Strengths = append(table.Strengths, LegendEntry{
			Value:  int(s),
			Title:  s.Title(),
			Symbol: s.Symbol(),
			Color:  s.Color(),
		})
	}
	for _, c := range correlations {
		table.Correlations = append(table.Correlations, LegendEntry{
			Value:  int(c),
			Title:  c.Title(),
			Symbol: c.Symbol(),
			Color:  c.Color(),
		})
	}
	return table
}
