package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	page, size := Clamp(0, 10, 10, 50)
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, size)

	page, size = Clamp(-5, 0, 10, 50)
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, size)

	_, size = Clamp(1, 500, 10, 50)
	assert.Equal(t, 50, size)

	page, size = Clamp(3, 20, 10, 50)
	assert.Equal(t, 3, page)
	assert.Equal(t, 20, size)
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(1, 10))
	assert.Equal(t, 10, Offset(2, 10))
	assert.Equal(t, 40, Offset(5, 10))
}

func TestNewTotals(t *testing.T) {
	r := New([]int{1, 2, 3}, 1, 10, 3)
	assert.Equal(t, 1, r.TotalPages)
	assert.Equal(t, 3, r.TotalCount)
	assert.False(t, r.HasPrev)
	assert.False(t, r.HasNext)

	r = New([]int{1}, 1, 10, 15)
	assert.Equal(t, 2, r.TotalPages)
	assert.True(t, r.HasNext)
	assert.False(t, r.HasPrev)

	r = New([]int{1}, 2, 10, 15)
	assert.True(t, r.HasPrev)
	assert.False(t, r.HasNext)
}

// Even an empty result set renders as "page 1 of 1".
func TestNewEmptyResult(t *testing.T) {
	r := New[string](nil, 1, 10, 0)
	assert.Equal(t, 1, r.TotalPages)
	assert.Equal(t, 0, r.TotalCount)
	assert.Empty(t, r.Items)
	assert.False(t, r.HasPrev)
	assert.False(t, r.HasNext)
}

// A page past the end keeps the true totals and empty items.
func TestNewPagePastEnd(t *testing.T) {
	r := New[string](nil, 999, 10, 3)
	assert.Empty(t, r.Items)
	assert.Equal(t, 3, r.TotalCount)
	assert.Equal(t, 1, r.TotalPages)
	assert.True(t, r.HasPrev)
	assert.False(t, r.HasNext)
}

func TestExactPageBoundary(t *testing.T) {
	r := New([]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 1, 10, 20)
	assert.Equal(t, 2, r.TotalPages)

	r = New([]int{1}, 2, 10, 20)
	assert.Equal(t, 2, r.TotalPages)
	assert.False(t, r.HasNext)
}
