package strategy

import (
	"math/rand"

	"github.com/wolfman30/scambait/internal/analysis"
)

// CumulativeFrustrationLimit forces maximum_time_waste once a conversation's
// running frustration exceeds it.
const CumulativeFrustrationLimit = 3.0

// Medium-signal thresholds used by the later rules.
const (
	mediumUrgency   = 4
	mediumAuthority = 3
	mediumPayment   = 4
	mediumInfo      = 3
	manyCommands    = 3
	shoutingCaps    = 0.3
	manyExclaims    = 3
)

// Decision is the chosen tag plus what produced it.
type Decision struct {
	Tag        Tag      `json:"strategy"`
	Rule       int      `json:"rule"`
	Reason     string   `json:"reason"`
	Candidates []Tag    `json:"candidates"`
	Flags      []string `json:"flags,omitempty"`
}

type rule struct {
	reason     string
	when       func(r analysis.Result, cumulative float64) bool
	candidates []Tag
}

// rules are evaluated in order; the first match wins.
var rules = []rule{
	{"highly frustrated", func(r analysis.Result, c float64) bool {
		return r.HighlyFrustrated || c > CumulativeFrustrationLimit
	}, []Tag{MaximumTimeWaste}},
	{"threatening", func(r analysis.Result, _ float64) bool { return r.Threatening },
		[]Tag{AuthorityChallenge}},
	{"escalating", func(r analysis.Result, _ float64) bool { return r.Escalating },
		[]Tag{HoldMusic, MaximumTimeWaste, PhysicalLimitations}},
	{"authority claim", func(r analysis.Result, _ float64) bool { return r.AuthorityClaim },
		[]Tag{AuthorityChallenge}},
	{"high urgency", func(r analysis.Result, _ float64) bool { return r.HighUrgency },
		[]Tag{PhysicalLimitations, TechnicalProblems, HoldMusic}},
	{"payment scam", func(r analysis.Result, _ float64) bool { return r.PaymentScam },
		[]Tag{PaymentConfusion}},
	{"info phishing", func(r analysis.Result, _ float64) bool { return r.InfoPhishing },
		[]Tag{Questions}},
	{"medium urgency", func(r analysis.Result, _ float64) bool { return r.UrgencyScore >= mediumUrgency },
		[]Tag{PhysicalLimitations, TechnicalProblems, Confusion}},
	{"medium authority", func(r analysis.Result, _ float64) bool { return r.AuthorityScore >= mediumAuthority },
		[]Tag{AuthorityChallenge, Questions, Confusion}},
	{"payment request", func(r analysis.Result, _ float64) bool { return r.PaymentScore >= mediumPayment },
		[]Tag{PaymentConfusion}},
	{"info request", func(r analysis.Result, _ float64) bool { return r.InfoScore >= mediumInfo },
		[]Tag{Questions, Tangent}},
	{"many commands", func(r analysis.Result, _ float64) bool { return r.CommandCount >= manyCommands },
		[]Tag{Confusion}},
	{"shouting", func(r analysis.Result, _ float64) bool {
		return r.CapsRatio > shoutingCaps || r.ExclamationCount >= manyExclaims
	}, []Tag{TechnicalProblems}},
	{"default", func(analysis.Result, float64) bool { return true },
		[]Tag{Confusion, Questions, Tangent, TechnicalProblems}},
}

// Select picks the strategy for a message given the conversation's
// cumulative frustration before this turn. Ties are broken with rng only;
// the global source is never used. A nil rng takes the first candidate.
func Select(r analysis.Result, cumulativeFrustration float64, rng *rand.Rand) Decision {
	for i, rl := range rules {
		if !rl.when(r, cumulativeFrustration) {
			continue
		}
		tag := rl.candidates[0]
		if len(rl.candidates) > 1 && rng != nil {
			tag = rl.candidates[rng.Intn(len(rl.candidates))]
		}
		return Decision{
			Tag:        tag,
			Rule:       i + 1,
			Reason:     rl.reason,
			Candidates: append([]Tag(nil), rl.candidates...),
			Flags:      r.Flags(),
		}
	}
	// unreachable: the last rule always matches
	panic("strategy: no rule matched")
}
