package get_items_bookings

import (
	"context"

	"github.com/m04kA/SMC-SharingService/internal/service/bookings/models"
)

type BookingService interface {
	AdjacentForItems(ctx context.Context, viewerID int64, itemIDs []int64) ([]models.ItemBookingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
