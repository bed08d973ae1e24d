package strategy

import "github.com/wolfman30/scambait/internal/analysis"

var baseSeconds = map[Tag]float64{
	Confusion:           30,
	Questions:           60,
	Tangent:             90,
	PaymentConfusion:    120,
	TechnicalProblems:   120,
	AuthorityChallenge:  90,
	PhysicalLimitations: 150,
	HoldMusic:           180,
	MaximumTimeWaste:    300,
}

// fallbackSeconds is used for a tag outside the table.
const fallbackSeconds = 60

// BaseSeconds returns the unscaled time a strategy is expected to burn.
func BaseSeconds(t Tag) float64 {
	if s, ok := baseSeconds[t]; ok {
		return s
	}
	return fallbackSeconds
}

// Multiplier scales the base time by how agitated the counterpart is;
// angry callers stay on the line longer.
func Multiplier(frustrationLevel float64) float64 {
	switch {
	case frustrationLevel > 2:
		return 1.5
	case frustrationLevel > 1:
		return 1.2
	default:
		return 1
	}
}

// Estimate returns the seconds a strategy is expected to waste for this message.
func Estimate(t Tag, r analysis.Result) float64 {
	return BaseSeconds(t) * Multiplier(r.FrustrationLevel)
}
