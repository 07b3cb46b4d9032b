package confidence

// Weights are the scoring deductions. They are heuristic calibration
// constants, injectable so hosts and tests can re-tune them; only their
// relative ordering is load-bearing.
type Weights struct {
	EmptyName      float64 // flat deduction for a nameless component
	MissingDims    float64 // max deduction, scaled by the missing fraction
	IssueBudget    float64 // cap on the total issue deduction
	PerErrorIssue  float64 // cost of each error-level issue
	PerWarnIssue   float64 // cost of each warning-level issue
	UnknownTerm    float64 // name matches no professional term
	CorrectedTag   float64 // dimensions were unit-corrected
	InferredTag    float64 // dimensions were borrowed from context
}

// DefaultWeights returns the reference calibration.
func DefaultWeights() Weights {
	return Weights{
		EmptyName:     0.1,
		MissingDims:   0.3,
		IssueBudget:   0.3,
		PerErrorIssue: 0.15,
		PerWarnIssue:  0.05,
		UnknownTerm:   0.2,
		CorrectedTag:  0.05,
		InferredTag:   0.05,
	}
}

// DefaultThreshold is the acceptance bar for recognized components.
const DefaultThreshold = 0.95
