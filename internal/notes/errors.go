package notes

import (
	"errors"
	"fmt"
)

// ErrNotFound covers both a genuinely missing row and a row owned by
// someone else; callers must not be able to tell the two apart.
var ErrNotFound = errors.New("not found")

// ValidationError rejects malformed input. The reason is user-visible
// and specific; validation failures are never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// LimitExceededError rejects an operation that would push the owner
// past a configured cap.
type LimitExceededError struct {
	Limit int
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("limit of %d active reminders reached", e.Limit)
}
