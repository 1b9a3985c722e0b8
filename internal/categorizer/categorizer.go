// Package categorizer assigns every note one of the fixed categories
// (task, idea, quote, other) by evaluating an immutable rule catalog in
// a fixed priority order. It is pure: no I/O, no state beyond the
// catalog handed to it at construction.
package categorizer

import "notekeeper/internal/models"

// FallbackConfidence is reported when no rule matches and the note
// falls back to the "other" category.
const FallbackConfidence = 0.1

type Categorizer struct {
	catalog *Catalog
}

func New(catalog *Catalog) *Categorizer {
	return &Categorizer{catalog: catalog}
}

// Categorize returns the first category in priority order with at least
// one matching rule, plus a confidence in [0,1]: the share of that
// category's rules that matched. Texts matching nothing are filed under
// "other" with FallbackConfidence.
//
// Empty or whitespace-only text is a caller precondition; the service
// layer rejects it before it gets here.
func (c *Categorizer) Categorize(text string) (models.Category, float64) {
	for _, cat := range c.catalog.priority {
		rules := c.catalog.rules[cat]
		if len(rules) == 0 {
			continue
		}

		matched := 0
		for _, re := range rules {
			if re.MatchString(text) {
				matched++
			}
		}
		if matched == 0 {
			continue
		}

		confidence := float64(matched) / float64(len(rules))
		if confidence > 1 {
			confidence = 1
		}
		return cat, confidence
	}

	return models.CategoryOther, FallbackConfidence
}
