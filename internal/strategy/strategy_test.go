package strategy

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/scambait/internal/analysis"
)

func seeded() *rand.Rand { return rand.New(rand.NewSource(7)) }

func TestSelectRules(t *testing.T) {
	tests := []struct {
		name       string
		in         analysis.Result
		cumulative float64
		rule       int
		candidates []Tag
	}{
		{"highly frustrated", analysis.Result{FrustrationScore: 5}, 0, 1, []Tag{MaximumTimeWaste}},
		{"cumulative frustration", analysis.Result{}, 3.01, 1, []Tag{MaximumTimeWaste}},
		{"cumulative at limit does not trigger", analysis.Result{ThreatScore: 4}, 3.0, 2, []Tag{AuthorityChallenge}},
		{"threatening", analysis.Result{ThreatScore: 4, AuthorityScore: 9}, 0, 2, []Tag{AuthorityChallenge}},
		{"escalating", analysis.Result{EscalationScore: 5}, 0, 3, []Tag{HoldMusic, MaximumTimeWaste, PhysicalLimitations}},
		{"authority claim", analysis.Result{AuthorityScore: 6, UrgencyScore: 9}, 0, 4, []Tag{AuthorityChallenge}},
		{"high urgency", analysis.Result{UrgencyScore: 8, PaymentScore: 8}, 0, 5, []Tag{PhysicalLimitations, TechnicalProblems, HoldMusic}},
		{"payment scam", analysis.Result{PaymentScore: 8, InfoScore: 8}, 0, 6, []Tag{PaymentConfusion}},
		{"info phishing", analysis.Result{InfoScore: 8}, 0, 7, []Tag{Questions}},
		{"medium urgency", analysis.Result{UrgencyScore: 4}, 0, 8, []Tag{PhysicalLimitations, TechnicalProblems, Confusion}},
		{"medium authority", analysis.Result{AuthorityScore: 3}, 0, 9, []Tag{AuthorityChallenge, Questions, Confusion}},
		{"payment request", analysis.Result{PaymentScore: 4}, 0, 10, []Tag{PaymentConfusion}},
		{"info request", analysis.Result{InfoScore: 3}, 0, 11, []Tag{Questions, Tangent}},
		{"many commands", analysis.Result{CommandCount: 3}, 0, 12, []Tag{Confusion}},
		{"caps", analysis.Result{CapsRatio: 0.31}, 0, 13, []Tag{TechnicalProblems}},
		{"exclamations", analysis.Result{ExclamationCount: 3}, 0, 13, []Tag{TechnicalProblems}},
		{"default", analysis.Result{}, 0, 14, []Tag{Confusion, Questions, Tangent, TechnicalProblems}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Select(tt.in.Derive(), tt.cumulative, seeded())
			assert.Equal(t, tt.rule, d.Rule, "reason %q", d.Reason)
			assert.Equal(t, tt.candidates, d.Candidates)
			assert.Contains(t, tt.candidates, d.Tag)
		})
	}
}

func TestSelectDeterministicForSeed(t *testing.T) {
	in := analysis.Result{}.Derive()
	for i := 0; i < 20; i++ {
		a := Select(in, 0, rand.New(rand.NewSource(int64(i))))
		b := Select(in, 0, rand.New(rand.NewSource(int64(i))))
		assert.Equal(t, a, b)
	}
}

func TestSelectCoversAllDefaultCandidates(t *testing.T) {
	rng := seeded()
	seen := map[Tag]bool{}
	for i := 0; i < 200; i++ {
		seen[Select(analysis.Result{}.Derive(), 0, rng).Tag] = true
	}
	assert.Len(t, seen, 4)
}

func TestSelectWithoutRandTakesFirstCandidate(t *testing.T) {
	var d Decision
	require.NotPanics(t, func() { d = Select(analysis.Result{}.Derive(), 0, nil) })
	assert.Equal(t, 14, d.Rule)
	assert.Equal(t, Confusion, d.Tag)

	d = Select(analysis.Result{EscalationScore: 5}.Derive(), 0, nil)
	assert.Equal(t, HoldMusic, d.Tag)
}

func TestSelectOnlyEmitsKnownTags(t *testing.T) {
	rng := seeded()
	a := analysis.NewAnalyzer()
	for _, msg := range []string{
		"", "hello", "EMERGENCY!!!", "buy gift cards now", "irs agent here",
		"final warning", "police will arrest you", "your ssn and password",
	} {
		d := Select(a.Analyze(context.Background(), msg), 0, rng)
		assert.True(t, d.Tag.Valid(), "tag %q for %q", d.Tag, msg)
	}
}

func TestScenarios(t *testing.T) {
	a := analysis.NewAnalyzer()
	ctx := context.Background()

	t.Run("A emergency", func(t *testing.T) {
		r := a.Analyze(ctx, "EMERGENCY! Act now or lose everything!")
		require.True(t, r.HighUrgency)
		d := Select(r, 0, seeded())
		assert.Equal(t, 5, d.Rule)
		assert.Contains(t, []Tag{PhysicalLimitations, TechnicalProblems, HoldMusic}, d.Tag)
		assert.GreaterOrEqual(t, Estimate(d.Tag, r), 60.0)
	})

	t.Run("B gift cards", func(t *testing.T) {
		r := a.Analyze(ctx, "Buy $500 iTunes gift cards and read me the numbers")
		d := Select(r, 0, seeded())
		assert.Equal(t, PaymentConfusion, d.Tag)
		assert.Equal(t, 120.0, Estimate(d.Tag, r))
	})

	t.Run("C shouting", func(t *testing.T) {
		r := a.Analyze(ctx, "ARE YOU STUPID?! JUST DO WHAT I SAY!!!")
		d := Select(r, 0, seeded())
		assert.Equal(t, MaximumTimeWaste, d.Tag)
		assert.Equal(t, 300.0, BaseSeconds(d.Tag))
		assert.Equal(t, 450.0, Estimate(d.Tag, r))
	})
}

func TestEstimateTable(t *testing.T) {
	calm := analysis.Result{}.Derive()
	want := map[Tag]float64{
		Confusion: 30, Questions: 60, Tangent: 90, PaymentConfusion: 120,
		TechnicalProblems: 120, AuthorityChallenge: 90, PhysicalLimitations: 150,
		HoldMusic: 180, MaximumTimeWaste: 300,
	}
	require.Len(t, want, len(AllTags()))
	for tag, secs := range want {
		assert.Equal(t, secs, Estimate(tag, calm), tag.String())
	}
	assert.Equal(t, 60.0, BaseSeconds(Tag("bogus")))
}

func TestEstimateScalingLaw(t *testing.T) {
	calm := analysis.Result{FrustrationLevel: 1}
	mild := analysis.Result{FrustrationLevel: 1.5}
	angry := analysis.Result{FrustrationLevel: 2.01}
	for _, tag := range AllTags() {
		base := Estimate(tag, calm)
		assert.InDelta(t, base*1.2, Estimate(tag, mild), 1e-9)
		assert.InDelta(t, 1.5, Estimate(tag, angry)/base, 1e-12)
	}
	assert.Equal(t, 1.0, Multiplier(0))
	assert.Equal(t, 1.2, Multiplier(2))
}

func TestTagHelpers(t *testing.T) {
	tag, err := ParseTag("hold_music")
	require.NoError(t, err)
	assert.Equal(t, HoldMusic, tag)

	_, err = ParseTag("yodel")
	assert.Error(t, err)

	assert.Panics(t, func() { MustValid(Tag("yodel")) })
	assert.Panics(t, func() { Category(Tag("yodel")) })

	for _, tag := range AllTags() {
		assert.NotEmpty(t, Category(tag), tag.String())
	}
}
