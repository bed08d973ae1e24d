// Package catalog holds the canned replies the engine speaks back, grouped
// into pools by category.
package catalog

import (
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/wolfman30/scambait/internal/strategy"
)

// Routing phrases, most specific first.
var (
	numberRequestPhrases = []string{"read the numbers", "card numbers", "code on the card", "scratch off", "activation code", "card code"}
	giftCardWords        = []string{"gift card", "target", "walmart", "amazon", "itunes", "visa", "prepaid"}
	techWords            = []string{"computer", "virus", "microsoft", "windows", "technical", "support", "remote"}
	authorityWords       = []string{"irs", "tax", "arrest", "police", "government", "social security", "legal"}
	romanceWords         = []string{"prince", "love", "inheritance", "gold", "nigeria", "soldier", "money"}
	holdWords            = []string{"hold", "wait", "music", "pause"}
)

var fallbackCategories = []string{
	strategy.CategoryGiftCards,
	strategy.CategoryTechSupport,
	strategy.CategoryIRSAuthority,
	strategy.CategoryRomance,
}

// Catalog picks reply text. It is safe for concurrent use.
type Catalog struct {
	mu      sync.Mutex
	rng     *rand.Rand
	pools   map[string][]string
	generic []string
}

// New returns a catalog over the built-in pools. A nil rng is seeded from
// the clock.
func New(rng *rand.Rand) *Catalog {
	return NewWithPools(rng, defaultPools())
}

// NewWithPools builds a catalog over custom pools.
func NewWithPools(rng *rand.Rand, pools map[string][]string) *Catalog {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	names := make([]string, 0, len(pools))
	for name := range pools {
		names = append(names, name)
	}
	sort.Strings(names)

	c := &Catalog{rng: rng, pools: make(map[string][]string, len(pools))}
	for _, name := range names {
		pool := pools[name]
		if len(pool) == 0 {
			continue
		}
		c.pools[name] = append([]string(nil), pool...)
		c.generic = append(c.generic, pool...)
	}
	if len(c.generic) == 0 {
		c.generic = []string{greetings[0]}
	}
	return c
}

// Pick returns a reply for tag. Unknown tags draw from every pool.
func (c *Catalog) Pick(tag strategy.Tag) string {
	if !tag.Valid() {
		return c.pick(c.generic)
	}
	return c.PickCategory(strategy.Category(tag))
}

// PickCategory returns a reply from the named pool, or from every pool
// when the name is unknown.
func (c *Catalog) PickCategory(category string) string {
	pool, ok := c.pools[category]
	if !ok {
		pool = c.generic
	}
	return c.pick(pool)
}

// PickFor refines the pool choice using what the caller just said.
func (c *Catalog) PickFor(tag strategy.Tag, text string) string {
	lower := strings.ToLower(text)
	switch tag {
	case strategy.Confusion:
		switch {
		case strings.Contains(lower, "computer"):
			return c.PickCategory(strategy.CategoryTechSupport)
		case containsAny(lower, "gift card", "target", "walmart"):
			return c.PickCategory(strategy.CategoryGiftCards)
		}
		if category := Route(text); category != "" {
			return c.PickCategory(category)
		}
		return c.PickCategory(c.pick(fallbackCategories))
	case strategy.PaymentConfusion:
		switch {
		case containsAny(lower, numberRequestPhrases...):
			return c.PickCategory(strategy.CategoryGiftCardNumbers)
		case strings.Contains(lower, "gift card"):
			return c.PickCategory(strategy.CategoryGiftCards)
		}
		return c.PickCategory(strategy.CategoryCombo)
	}
	return c.Pick(tag)
}

// Greeting returns an opener for a call that has not said anything yet.
func (c *Catalog) Greeting() string {
	return c.pick(greetings)
}

// Route maps free text onto a pool by keyword, returning "" when nothing
// matches.
func Route(text string) string {
	lower := strings.ToLower(text)
	switch {
	case containsAny(lower, numberRequestPhrases...):
		return strategy.CategoryGiftCardNumbers
	case containsAny(lower, giftCardWords...):
		return strategy.CategoryGiftCards
	case containsAny(lower, techWords...):
		return strategy.CategoryTechSupport
	case containsAny(lower, authorityWords...):
		return strategy.CategoryIRSAuthority
	case containsAny(lower, romanceWords...):
		return strategy.CategoryRomance
	case containsAny(lower, holdWords...):
		return strategy.CategoryHoldMusic
	}
	return ""
}

// Pool returns a copy of the named pool.
func (c *Catalog) Pool(category string) []string {
	return append([]string(nil), c.pools[category]...)
}

func (c *Catalog) pick(options []string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return options[c.rng.Intn(len(options))]
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
