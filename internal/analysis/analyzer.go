package analysis

import (
	"context"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var analyzerTracer = otel.Tracer("scambait/analyzer")

// Analyzer scores scammer messages across the keyword categories. It holds
// no per-message state and is safe for concurrent use.
type Analyzer struct {
	tables  map[Category][]keyword
	threats []string
	command *regexp.Regexp
}

// NewAnalyzer creates an analyzer loaded with the default keyword tables.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		tables: map[Category][]keyword{
			CategoryUrgency:     urgencyKeywords,
			CategoryAuthority:   authorityKeywords,
			CategoryPayment:     paymentKeywords,
			CategoryInfo:        infoKeywords,
			CategoryFrustration: frustrationKeywords,
			CategoryEscalation:  escalationKeywords,
		},
		threats: threatPhrases,
		// RE2 \b only counts ASCII letters as word characters, so a verb
		// right after an accented letter still matches.
		command: regexp.MustCompile(`\b(` + strings.Join(commandVerbs, "|") + `)\b`),
	}
}

// Analyze scores one message. Empty input yields the zero Result.
func (a *Analyzer) Analyze(ctx context.Context, text string) Result {
	_, span := analyzerTracer.Start(ctx, "analysis.analyze")
	defer span.End()

	if text == "" {
		return Result{}.Derive()
	}
	lower := strings.ToLower(text)

	r := Result{
		UrgencyScore:     a.score(lower, CategoryUrgency),
		AuthorityScore:   a.score(lower, CategoryAuthority),
		PaymentScore:     a.score(lower, CategoryPayment),
		InfoScore:        a.score(lower, CategoryInfo),
		FrustrationScore: a.score(lower, CategoryFrustration),
		EscalationScore:  a.score(lower, CategoryEscalation),
		ThreatScore:      a.threatScore(lower),
		QuestionCount:    strings.Count(text, "?"),
		ExclamationCount: strings.Count(text, "!"),
		CommandCount:     len(a.command.FindAllStringIndex(lower, -1)),
		CapsRatio:        capsRatio(text),
		AllCapsWords:     allCapsWords(text),
	}
	r = r.Derive()

	span.SetAttributes(
		attribute.Int("analysis.urgency", r.UrgencyScore),
		attribute.Int("analysis.authority", r.AuthorityScore),
		attribute.Int("analysis.payment", r.PaymentScore),
		attribute.Int("analysis.info", r.InfoScore),
		attribute.Int("analysis.threat", r.ThreatScore),
		attribute.Float64("analysis.frustration_level", r.FrustrationLevel),
		attribute.StringSlice("analysis.flags", r.Flags()),
	)
	return r
}

// Score returns the raw keyword score of one category for already
// lower-cased text.
func (a *Analyzer) Score(lower string, category Category) int {
	return a.score(lower, category)
}

func (a *Analyzer) score(lower string, category Category) int {
	total := 0
	for _, kw := range a.tables[category] {
		if strings.Contains(lower, kw.phrase) {
			total += kw.weight
		}
	}
	return total
}

func (a *Analyzer) threatScore(lower string) int {
	total := 0
	for _, phrase := range a.threats {
		if strings.Contains(lower, phrase) {
			total += threatWeight
		}
	}
	return total
}

func capsRatio(text string) float64 {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	upper := 0
	for _, r := range text {
		if unicode.IsUpper(r) {
			upper++
		}
	}
	return float64(upper) / float64(n)
}

// allCapsWords counts words longer than two runes that have at least one
// upper-case letter and no lower-case letters ("STUPID?!" counts, "I" and
// "$500" do not).
func allCapsWords(text string) int {
	count := 0
	for _, word := range strings.Fields(text) {
		if utf8.RuneCountInString(word) <= 2 {
			continue
		}
		hasUpper, hasLower := false, false
		for _, r := range word {
			switch {
			case unicode.IsUpper(r):
				hasUpper = true
			case unicode.IsLower(r):
				hasLower = true
			}
		}
		if hasUpper && !hasLower {
			count++
		}
	}
	return count
}
