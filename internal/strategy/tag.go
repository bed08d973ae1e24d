package strategy

import "fmt"

// Tag is one of the closed set of response strategies.
type Tag string

const (
	Confusion           Tag = "confusion"
	HoldMusic           Tag = "hold_music"
	Questions           Tag = "questions"
	Tangent             Tag = "tangent"
	TechnicalProblems   Tag = "technical_problems"
	PhysicalLimitations Tag = "physical_limitations"
	AuthorityChallenge  Tag = "authority_challenge"
	PaymentConfusion    Tag = "payment_confusion"
	MaximumTimeWaste    Tag = "maximum_time_waste"
)

var allTags = []Tag{
	Confusion, HoldMusic, Questions, Tangent, TechnicalProblems,
	PhysicalLimitations, AuthorityChallenge, PaymentConfusion, MaximumTimeWaste,
}

// AllTags returns every strategy tag in declaration order.
func AllTags() []Tag {
	out := make([]Tag, len(allTags))
	copy(out, allTags)
	return out
}

// Valid reports whether t belongs to the closed set.
func (t Tag) Valid() bool {
	_, ok := baseSeconds[t]
	return ok
}

func (t Tag) String() string { return string(t) }

// ParseTag converts a string into a Tag.
func ParseTag(s string) (Tag, error) {
	t := Tag(s)
	if !t.Valid() {
		return "", fmt.Errorf("strategy: unknown tag %q", s)
	}
	return t, nil
}

// MustValid panics when t is outside the closed set. The engine never
// produces such a tag, so hitting this is a programming error.
func MustValid(t Tag) Tag {
	if !t.Valid() {
		panic(fmt.Sprintf("strategy: tag %q is not a known strategy", t))
	}
	return t
}

// Catalog categories that reply pools are keyed by.
const (
	CategoryGiftCards       = "gift_cards"
	CategoryGiftCardNumbers = "gift_card_numbers"
	CategoryHoldMusic       = "hold_music"
	CategoryTechSupport     = "tech_support"
	CategoryIRSAuthority    = "irs_authority"
	CategoryRomance         = "romance_inheritance"
	CategoryQuestions       = "questions"
	CategoryTangents        = "tangents"
	CategoryHearing         = "hearing"
	CategoryCombo           = "combo"
)

var tagCategory = map[Tag]string{
	Confusion:           CategoryCombo,
	HoldMusic:           CategoryHoldMusic,
	Questions:           CategoryQuestions,
	Tangent:             CategoryTangents,
	TechnicalProblems:   CategoryTechSupport,
	PhysicalLimitations: CategoryHearing,
	AuthorityChallenge:  CategoryIRSAuthority,
	PaymentConfusion:    CategoryGiftCards,
	MaximumTimeWaste:    CategoryHoldMusic,
}

// Category maps a strategy onto the reply pool the catalog draws from.
func Category(t Tag) string {
	return tagCategory[MustValid(t)]
}
