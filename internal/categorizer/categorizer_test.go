package categorizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notekeeper/internal/models"
)

func TestCategorizeScenarios(t *testing.T) {
	c := New(DefaultCatalog())

	tests := []struct {
		text string
		want models.Category
	}{
		{"Buy milk tomorrow", models.CategoryTask},
		{"What if we built a garden app", models.CategoryIdea},
		{`"Be water, my friend" - Bruce Lee`, models.CategoryQuote},
		{"Just a thought", models.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, _ := c.Categorize(tt.text)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTaskKeywordWithoutQuoteMarkersIsTask(t *testing.T) {
	c := New(DefaultCatalog())

	for _, text := range []string{
		"call the dentist",
		"pay rent on friday",
		"URGENT: fix the sink",
		"remember to pick up the keys",
	} {
		got, _ := c.Categorize(text)
		assert.Equal(t, models.CategoryTask, got, "text %q", text)
	}
}

func TestFullyQuotedTextIsQuote(t *testing.T) {
	c := New(DefaultCatalog())

	got, conf := c.Categorize(`"the obstacle is the way"`)
	assert.Equal(t, models.CategoryQuote, got)
	assert.Greater(t, conf, 0.0)
}

// Priority is task, then idea, then quote. A quoted text that also
// contains a task keyword files under task, not quote.
func TestPriorityOrderIsPinned(t *testing.T) {
	c := New(DefaultCatalog())

	got, _ := c.Categorize(`"buy the dip" they said`)
	assert.Equal(t, models.CategoryTask, got)

	got, _ = c.Categorize(`a brainstorm, according to Sun Tzu`)
	assert.Equal(t, models.CategoryIdea, got)
}

func TestConfidenceBounds(t *testing.T) {
	c := New(DefaultCatalog())

	// No rule matches: fixed low-certainty constant.
	cat, conf := c.Categorize("zzz qqq")
	assert.Equal(t, models.CategoryOther, cat)
	assert.Equal(t, FallbackConfidence, conf)

	// Single matching rule out of the task set.
	cat, conf = c.Categorize("buy")
	assert.Equal(t, models.CategoryTask, cat)
	assert.InDelta(t, 1.0/14.0, conf, 1e-9)

	cat, conf = c.Categorize("buy milk today, pay the bill, book a meeting, clean up, fix the door, study, cook dinner, drive there, remember the deadline, urgent todo")
	assert.Equal(t, models.CategoryTask, cat)
	assert.LessOrEqual(t, conf, 1.0)
	assert.Greater(t, conf, 0.5)
}

func TestCategorizeIsDeterministic(t *testing.T) {
	c := New(DefaultCatalog())

	cat1, conf1 := c.Categorize("plan a startup around wiser shopping")
	cat2, conf2 := c.Categorize("plan a startup around wiser shopping")
	assert.Equal(t, cat1, cat2)
	assert.Equal(t, conf1, conf2)
}

func TestCustomCatalog(t *testing.T) {
	catalog, err := NewCatalog(
		[]models.Category{models.CategoryIdea},
		map[models.Category][]string{
			models.CategoryIdea: {`(?i)\beureka\b`},
		},
	)
	require.NoError(t, err)

	c := New(catalog)
	cat, conf := c.Categorize("Eureka!")
	assert.Equal(t, models.CategoryIdea, cat)
	assert.Equal(t, 1.0, conf)

	cat, conf = c.Categorize("buy milk")
	assert.Equal(t, models.CategoryOther, cat)
	assert.Equal(t, FallbackConfidence, conf)
}

func TestNewCatalogRejectsBadPattern(t *testing.T) {
	_, err := NewCatalog(
		[]models.Category{models.CategoryTask},
		map[models.Category][]string{models.CategoryTask: {`(unclosed`}},
	)
	require.Error(t, err)
}
