package categorizer

import (
	"regexp"

	"notekeeper/internal/models"
)

// Catalog is an immutable set of matching rules per category, evaluated
// in a fixed priority order. Construct one with NewCatalog or use
// DefaultCatalog.
type Catalog struct {
	priority []models.Category
	rules    map[models.Category][]*regexp.Regexp
}

// Priority is the fixed evaluation order. The first category with any
// matching rule wins; ties never reach lower-priority categories.
func (c *Catalog) Priority() []models.Category {
	out := make([]models.Category, len(c.priority))
	copy(out, c.priority)
	return out
}

// NewCatalog compiles the given patterns into a catalog. The priority
// slice controls evaluation order; categories without rules are skipped.
func NewCatalog(priority []models.Category, patterns map[models.Category][]string) (*Catalog, error) {
	rules := make(map[models.Category][]*regexp.Regexp, len(patterns))
	for cat, pats := range patterns {
		compiled := make([]*regexp.Regexp, 0, len(pats))
		for _, p := range pats {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, err
			}
			compiled = append(compiled, re)
		}
		rules[cat] = compiled
	}

	prio := make([]models.Category, len(priority))
	copy(prio, priority)

	return &Catalog{priority: prio, rules: rules}, nil
}

// Keyword patterns are matched case-insensitively. The quote category
// additionally carries structural rules: quoted spans and attribution
// markers (a dash followed by a capitalized name), which stay
// case-sensitive so "- bruce" does not count as an attribution.
var defaultPatterns = map[models.Category][]string{
	models.CategoryTask: {
		`(?i)\b(buy|purchase|get|pick up|order|shop|shopping)\b`,
		`(?i)\b(call|phone|text|message|email|contact)\b`,
		`(?i)\b(meeting|appointment|schedule|book|reserve)\b`,
		`(?i)\b(clean|wash|organize|sort|arrange)\b`,
		`(?i)\b(fix|repair|maintain|check|inspect)\b`,
		`(?i)\b(pay|bill|invoice|rent|mortgage)\b`,
		`(?i)\b(study|read|learn|practice|exercise)\b`,
		`(?i)\b(cook|prepare|make|bake|grill)\b`,
		`(?i)\b(drive|travel|go to|visit|attend)\b`,
		`(?i)\b(remember|don't forget|remind)\b`,
		`(?i)\b(todo|to do|to-do|task|action item)\b`,
		`(?i)\b(deadline|due|by|before|until)\b`,
		`(?i)\b(tomorrow|today|next week|this week)\b`,
		`(?i)\b(urgent|important|priority|asap)\b`,
	},
	models.CategoryIdea: {
		`(?i)\b(idea|concept|brainstorm|innovation)\b`,
		`(?i)\b(project|plan|strategy|approach|method)\b`,
		`(?i)\b(create|build|develop|design|invent)\b`,
		`(?i)\b(startup|business|company|venture)\b`,
		`(?i)\b(improve|enhance|optimize|upgrade)\b`,
		`(?i)\b(research|explore|investigate|analyze)\b`,
		`(?i)\b(what if|imagine|suppose|consider)\b`,
		`(?i)\b(feature|functionality|tool|app|website)\b`,
		`(?i)\b(problem|solution|solve|fix|address)\b`,
		`(?i)\b(opportunity|potential|possibility)\b`,
		`(?i)\b(creative|artistic|design|art)\b`,
		`(?i)\b(technology|tech|software|hardware)\b`,
	},
	models.CategoryQuote: {
		"[\"“”][^\"“”]*[\"“”]",
		"[\"“”]",
		`[-\x{2014}]\s*[A-Z][a-z]+`,
		`(?i)\b(said|says|quoted|according to)\b`,
		`(?i)\b(quote|quotation|saying|proverb)\b`,
		`(?i)\b(inspirational|motivational|wise)\b`,
		`(?i)\b(famous|well-known|celebrity|author)\b`,
		`(?i)\b(book|article|speech|interview)\b`,
		`(?i)\b(philosophy|wisdom|life lesson)\b`,
		`(?i)\b(remember this|keep in mind|note to self)\b`,
	},
}

var defaultPriority = []models.Category{models.CategoryTask, models.CategoryIdea, models.CategoryQuote}

// DefaultCatalog returns the built-in rule catalog.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(defaultPriority, defaultPatterns)
	if err != nil {
		panic(err)
	}
	return c
}
