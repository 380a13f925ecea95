package domain

// CanCreate forbids booking one's own item
func CanCreate(ownerID, requesterID int64) error {
	if ownerID == requesterID {
		return ErrSelfBookingForbidden
	}
	return nil
}

// CanDecide allows only the item owner to approve or reject
func CanDecide(ownerID, callerID int64) error {
	if callerID != ownerID {
		return ErrNotOwner
	}
	return nil
}

// CanView allows the item owner and the booker to see a booking.
// Deciding is stricter than viewing: the booker may view but never decide.
func CanView(ownerID, bookerID, callerID int64) error {
	if callerID != ownerID && callerID != bookerID {
		return ErrForbidden
	}
	return nil
}
