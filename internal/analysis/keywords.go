package analysis

// Category names a keyword table.
type Category string

const (
	CategoryUrgency     Category = "urgency"
	CategoryAuthority   Category = "authority"
	CategoryPayment     Category = "payment"
	CategoryInfo        Category = "info"
	CategoryFrustration Category = "frustration"
	CategoryEscalation  Category = "escalation"
)

type keyword struct {
	phrase string
	weight int
}

// Keyword tables. Phrases are lower case; matching is substring based.
var (
	urgencyKeywords = []keyword{
		{"immediately", 5}, {"urgent", 4}, {"now", 4}, {"right now", 5},
		{"asap", 4}, {"quickly", 3}, {"fast", 3}, {"hurry", 4},
		{"emergency", 5}, {"critical", 4}, {"final notice", 5},
		{"last chance", 5}, {"expire", 3}, {"deadline", 4},
		{"minutes", 4}, {"seconds", 5}, {"hours", 3}, {"time", 2},
	}

	authorityKeywords = []keyword{
		{"police", 5}, {"fbi", 5}, {"irs", 4}, {"government", 4},
		{"microsoft", 3}, {"apple", 3}, {"bank", 4}, {"security", 3},
		{"agent", 4}, {"officer", 4}, {"department", 3}, {"official", 4},
		{"federal", 5}, {"arrest", 5}, {"warrant", 5}, {"legal", 4},
		{"court", 4}, {"judge", 4}, {"attorney", 4}, {"lawyer", 4},
	}

	paymentKeywords = []keyword{
		{"gift card", 5}, {"itunes", 4}, {"google play", 4}, {"amazon", 3},
		{"target", 4}, {"walmart", 4}, {"steam", 4}, {"visa", 3},
		{"prepaid", 4}, {"wire transfer", 5}, {"bitcoin", 5}, {"crypto", 5},
		{"western union", 5}, {"moneygram", 5}, {"cash", 2}, {"money", 2},
		{"pay", 2}, {"payment", 3}, {"purchase", 3}, {"buy", 3},
	}

	infoKeywords = []keyword{
		{"social security", 5}, {"ssn", 5}, {"credit card", 5}, {"bank account", 5},
		{"password", 5}, {"pin", 4}, {"date of birth", 4}, {"address", 3},
		{"full name", 2}, {"phone number", 2}, {"email", 2}, {"verification", 3},
		{"confirm", 2}, {"verify", 3}, {"account number", 4}, {"routing", 4},
	}

	frustrationKeywords = []keyword{
		{"stupid", 3}, {"idiot", 3}, {"damn", 2}, {"hell", 2}, {"shit", 3},
		{"listen", 2}, {"understand", 2}, {"why", 2}, {"what", 1},
		{"sir", 1}, {"madam", 1},
		{"please", -1},
	}

	escalationKeywords = []keyword{
		{"final warning", 5}, {"last time", 4}, {"not listening", 3},
		{"wasting time", 4}, {"hanging up", 3}, {"transfer", 2},
		{"supervisor", 3}, {"manager", 3}, {"cooperate", 3},
	}

	// Each distinct phrase present adds threatWeight to the threat score.
	threatPhrases = []string{"arrest", "jail", "police", "warrant", "legal action", "lawsuit", "court"}
)

const threatWeight = 2

var commandVerbs = []string{"go", "buy", "get", "give", "tell", "read", "say", "do", "download", "click", "type", "enter"}
