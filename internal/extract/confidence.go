package extract

import "strings"

// ConfidenceScore computes a heuristic confidence for an extraction.
// Starts at 1.0 and reduces for hedging language; both reductions apply
// independently, so the result stays in (0, 1].
func ConfidenceScore(text string) float64 {
	lower := strings.ToLower(text)

	score := 1.0
	if strings.Contains(lower, "undisclosed") {
		score *= 0.9
	}
	if strings.Contains(lower, "rumor") || strings.Contains(lower, "report") {
		score *= 0.8
	}
	return score
}
