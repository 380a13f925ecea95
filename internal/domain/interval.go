package domain

import (
	"fmt"
	"time"
)

// ValidateInterval checks that a proposed booking interval is well-formed and not in the past:
// start >= now, end > now and end > start.
func ValidateInterval(start, end, now time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrInvalidInterval)
	}
	if start.Before(now) {
		return fmt.Errorf("%w: start must not be in the past", ErrInvalidInterval)
	}
	if !end.After(now) {
		return fmt.Errorf("%w: end must be in the future", ErrInvalidInterval)
	}
	if !end.After(start) {
		return fmt.Errorf("%w: end must be after start", ErrInvalidInterval)
	}
	return nil
}
