package analysis

// Flag thresholds. A score equal to the threshold sets the flag.
const (
	HighUrgencyThreshold      = 8
	AuthorityClaimThreshold   = 6
	PaymentScamThreshold      = 8
	InfoPhishingThreshold     = 8
	EscalatingThreshold       = 5
	ThreateningThreshold      = 4
	HighlyFrustratedThreshold = 1.5
)

// Result is the per-message analysis. It is a value type; callers receive a copy.
type Result struct {
	UrgencyScore     int `json:"urgency_score"`
	AuthorityScore   int `json:"authority_score"`
	PaymentScore     int `json:"payment_score"`
	InfoScore        int `json:"info_score"`
	FrustrationScore int `json:"frustration_score"`
	EscalationScore  int `json:"escalation_score"`
	ThreatScore      int `json:"threat_score"`

	QuestionCount    int     `json:"question_count"`
	CommandCount     int     `json:"command_count"`
	CapsRatio        float64 `json:"caps_ratio"`
	ExclamationCount int     `json:"exclamation_count"`
	AllCapsWords     int     `json:"all_caps_words"`

	FrustrationLevel float64 `json:"frustration_level"`
	TotalSuspicion   int     `json:"total_suspicion"`

	HighUrgency      bool `json:"is_high_urgency"`
	AuthorityClaim   bool `json:"is_authority_claim"`
	PaymentScam      bool `json:"is_payment_scam"`
	InfoPhishing     bool `json:"is_info_phishing"`
	HighlyFrustrated bool `json:"is_highly_frustrated"`
	Escalating       bool `json:"is_escalating"`
	Threatening      bool `json:"is_threatening"`
}

// Derive fills the derived level, suspicion total and threshold flags from
// the raw scores and counters. Analyze calls it; tests use it to build
// results at exact boundaries.
func (r Result) Derive() Result {
	level := r.CapsRatio*2 +
		float64(r.ExclamationCount)*0.2 +
		float64(r.FrustrationScore)*0.3 +
		float64(r.AllCapsWords)*0.1 +
		float64(r.EscalationScore)*0.2
	// "please" on its own scores negative; a level never drops below zero so
	// the conversation total only grows.
	if level < 0 {
		level = 0
	}
	r.FrustrationLevel = level
	r.TotalSuspicion = r.UrgencyScore + r.AuthorityScore + r.PaymentScore + r.InfoScore + r.ThreatScore

	r.HighUrgency = r.UrgencyScore >= HighUrgencyThreshold
	r.AuthorityClaim = r.AuthorityScore >= AuthorityClaimThreshold
	r.PaymentScam = r.PaymentScore >= PaymentScamThreshold
	r.InfoPhishing = r.InfoScore >= InfoPhishingThreshold
	r.HighlyFrustrated = r.FrustrationLevel >= HighlyFrustratedThreshold
	r.Escalating = r.EscalationScore >= EscalatingThreshold
	r.Threatening = r.ThreatScore >= ThreateningThreshold
	return r
}

// Flags lists the names of the threshold flags that are set, in a fixed order.
func (r Result) Flags() []string {
	var flags []string
	add := func(set bool, name string) {
		if set {
			flags = append(flags, name)
		}
	}
	add(r.HighUrgency, "high_urgency")
	add(r.AuthorityClaim, "authority_claim")
	add(r.PaymentScam, "payment_scam")
	add(r.InfoPhishing, "info_phishing")
	add(r.HighlyFrustrated, "highly_frustrated")
	add(r.Escalating, "escalating")
	add(r.Threatening, "threatening")
	return flags
}
