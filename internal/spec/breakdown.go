package spec

// BreakdownResult is the classification returned by the task breakdown stage.
type BreakdownResult struct {
	Host            string   `json:"host"`
	ShouldContinue  bool     `json:"shouldContinue"`
	CustomFunctions bool     `json:"customFunctions"`
	Complexity      int      `json:"complexity"` // 1-100
	Data            []string `json:"data"`
}

// Band buckets a complexity score.
type Band string

const (
	BandLow      Band = "low"       // 1-25
	BandMedium   Band = "medium"    // 26-50
	BandHigh     Band = "high"      // 51-75
	BandVeryHigh Band = "very_high" // 76-100
)

// AdvancedModelThreshold is the complexity above which code generation
// switches to the stronger model.
const AdvancedModelThreshold = 50

// ComplexityBand maps a score to its band. Out of range scores are clamped.
func ComplexityBand(score int) Band {
	switch {
	case score <= 25:
		return BandLow
	case score <= 50:
		return BandMedium
	case score <= 75:
		return BandHigh
	default:
		return BandVeryHigh
	}
}

// NeedsAdvancedModel reports whether a complexity score selects the stronger model.
func NeedsAdvancedModel(complexity int) bool {
	return complexity > AdvancedModelThreshold
}
