package get_finished_booking

import "context"

type BookingService interface {
	HasFinishedBooking(ctx context.Context, bookerID, itemID int64) (bool, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
