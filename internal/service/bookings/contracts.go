package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SharingService/internal/domain"
	"github.com/m04kA/SMC-SharingService/internal/integrations/itemservice"
)

// BookingRepository интерфейс хранилища бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus, at time.Time) (*domain.Booking, error)
	ListByBooker(ctx context.Context, bookerID int64, filter domain.BookingsFilter) ([]*domain.Booking, error)
	ListByOwner(ctx context.Context, ownerID int64, filter domain.BookingsFilter) ([]*domain.Booking, error)
	AdjacentApproved(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]domain.AdjacentBookings, error)
	HasFinishedApproved(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error)
}

// UserServiceClient интерфейс клиента для UserService
type UserServiceClient interface {
	Exists(ctx context.Context, userID int64) (bool, error)
}

// ItemServiceClient интерфейс клиента для ItemService
type ItemServiceClient interface {
	GetItem(ctx context.Context, itemID int64) (*itemservice.Item, error)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реализация TimeProvider с реальным временем
type RealTimeProvider struct{}

// Now возвращает текущее время в UTC
func (RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}

// MetricsRecorder интерфейс бизнес-метрик бронирований
type MetricsRecorder interface {
	BookingCreated()
	BookingDecided(status string)
}

type noopMetrics struct{}

func (noopMetrics) BookingCreated()       {}
func (noopMetrics) BookingDecided(string) {}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
