// Package pagination shapes filtered-list and search results into
// uniform pages so the message-formatting layer never needs to know
// which query produced them.
package pagination

// PageResult is one bounded slice of an ordered result set.
type PageResult[T any] struct {
	Items      []T
	Page       int
	PageSize   int
	TotalPages int
	TotalCount int
	HasPrev    bool
	HasNext    bool
}

// Clamp normalizes a requested page and page size. Pages below 1 are
// forgiven rather than rejected: stale navigation state from an old
// message should not error. Page sizes are bounded by maxPageSize.
func Clamp(page, pageSize, defaultPageSize, maxPageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if maxPageSize > 0 && pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// Offset converts a 1-based page into a row offset.
func Offset(page, pageSize int) int {
	return (page - 1) * pageSize
}

// New assembles a PageResult from a page of items and the total row
// count. TotalPages is at least 1 even for an empty result, so "page 1
// of 1" always renders. A page past the end carries empty items with
// the correct totals.
func New[T any](items []T, page, pageSize, totalCount int) PageResult[T] {
	totalPages := (totalCount + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	return PageResult[T]{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		TotalCount: totalCount,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
	}
}
