package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusWaiting  BookingStatus = "WAITING"
	StatusApproved BookingStatus = "APPROVED"
	StatusRejected BookingStatus = "REJECTED"
)

// statusTransitions defines which status changes the owner's decision may produce.
// APPROVED and REJECTED are terminal.
var statusTransitions = map[BookingStatus][]BookingStatus{
	StatusWaiting:  {StatusApproved, StatusRejected},
	StatusApproved: {},
	StatusRejected: {},
}

// IsValid returns true if the status is a recognized booking status
func (s BookingStatus) IsValid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransitionTo returns true if a transition from this status to the target is allowed
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible from this status
func (s BookingStatus) IsTerminal() bool {
	return len(statusTransitions[s]) == 0
}

// DecisionStatus returns the status an owner's approve/reject decision leads to
func DecisionStatus(approve bool) BookingStatus {
	if approve {
		return StatusApproved
	}
	return StatusRejected
}

// Booking represents a request to use an item for a time interval
type Booking struct {
	ID       int64
	ItemID   int64
	BookerID int64
	Start    time.Time
	End      time.Time
	Status   BookingStatus

	// Denormalized data of the booked item, captured at creation
	ItemName string
	OwnerID  int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsDecided returns true if the owner has already approved or rejected the booking
func (b *Booking) IsDecided() bool {
	return b.Status != StatusWaiting
}

// IsCurrent returns true if the booking is in progress: start <= now < end
func (b *Booking) IsCurrent(now time.Time) bool {
	return !b.Start.After(now) && now.Before(b.End)
}

// IsPast returns true if the booking has ended: end < now
func (b *Booking) IsPast(now time.Time) bool {
	return b.End.Before(now)
}

// IsFuture returns true if the booking has not started yet: start > now
func (b *Booking) IsFuture(now time.Time) bool {
	return b.Start.After(now)
}

// IsFinishedApproved returns true for an approved booking whose interval has elapsed
func (b *Booking) IsFinishedApproved(now time.Time) bool {
	return b.Status == StatusApproved && b.IsPast(now)
}

// AdjacentBookings holds the last and the next approved bookings of an item relative to a moment.
// Either may be nil.
type AdjacentBookings struct {
	Last *Booking
	Next *Booking
}
