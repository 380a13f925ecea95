package domain

import (
	"fmt"
	"strings"
	"time"
)

// BookingState is a query-time bucket used only for filtering, never persisted
type BookingState string

const (
	StateAll      BookingState = "ALL"
	StateCurrent  BookingState = "CURRENT"
	StatePast     BookingState = "PAST"
	StateFuture   BookingState = "FUTURE"
	StateWaiting  BookingState = "WAITING"
	StateRejected BookingState = "REJECTED"
)

var knownStates = []BookingState{
	StateAll,
	StateCurrent,
	StatePast,
	StateFuture,
	StateWaiting,
	StateRejected,
}

// ParseBookingState converts a raw filter value into a BookingState.
// The comparison ignores case; an empty value means ALL.
func ParseBookingState(raw string) (BookingState, error) {
	value := strings.ToUpper(strings.TrimSpace(raw))
	if value == "" {
		return StateAll, nil
	}

	for _, state := range knownStates {
		if BookingState(value) == state {
			return state, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrUnknownState, raw)
}

// Matches reports whether the booking falls into the bucket at the given moment.
// Time buckets ignore status and status buckets ignore time.
func (s BookingState) Matches(b *Booking, now time.Time) bool {
	switch s {
	case StateAll:
		return true
	case StateCurrent:
		return b.IsCurrent(now)
	case StatePast:
		return b.IsPast(now)
	case StateFuture:
		return b.IsFuture(now)
	case StateWaiting:
		return b.Status == StatusWaiting
	case StateRejected:
		return b.Status == StatusRejected
	default:
		return false
	}
}

// BookingsFilter describes a list query over the record store
type BookingsFilter struct {
	State BookingState
	Now   time.Time
	Page  Page
}
