package booking

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-SharingService/internal/domain"
)

// MemoryRepository хранилище бронирований в памяти процесса.
// Идентификаторы выдаются самим хранилищем, наружу отдаются только копии записей.
type MemoryRepository struct {
	mu       sync.RWMutex
	nextID   int64
	bookings map[int64]*domain.Booking
}

// NewMemoryRepository создает пустое хранилище в памяти
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{bookings: make(map[int64]*domain.Booking)}
}

// Create сохраняет бронирование и присваивает ему следующий ID
func (r *MemoryRepository) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	stored := *booking
	stored.ID = r.nextID
	r.bookings[stored.ID] = &stored

	created := stored
	return &created, nil
}

// GetByID возвращает копию бронирования или ErrBookingNotFound
func (r *MemoryRepository) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}

	found := *stored
	return &found, nil
}

// UpdateStatus меняет статус, только если текущий статус равен from.
// Иначе возвращает ErrStatusConflict, проверка и запись выполняются под одной блокировкой.
func (r *MemoryRepository) UpdateStatus(_ context.Context, id int64, from, to domain.BookingStatus, at time.Time) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	if stored.Status != from {
		return nil, ErrStatusConflict
	}

	stored.Status = to
	stored.UpdatedAt = at

	updated := *stored
	return &updated, nil
}

// ListByBooker возвращает страницу бронирований арендатора, отсортированных по началу (сначала новые)
func (r *MemoryRepository) ListByBooker(_ context.Context, bookerID int64, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	return r.list("ListByBooker", filter, func(b *domain.Booking) bool { return b.BookerID == bookerID })
}

// ListByOwner возвращает страницу бронирований вещей владельца, отсортированных по началу (сначала новые)
func (r *MemoryRepository) ListByOwner(_ context.Context, ownerID int64, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	return r.list("ListByOwner", filter, func(b *domain.Booking) bool { return b.OwnerID == ownerID })
}

func (r *MemoryRepository) list(op string, filter domain.BookingsFilter, subject func(*domain.Booking) bool) ([]*domain.Booking, error) {
	if _, err := statePredicate(filter.State, filter.Now); err != nil {
		return nil, fmt.Errorf("%w: %s - %v", ErrInvalidFilter, op, err)
	}

	r.mu.RLock()
	matched := make([]*domain.Booking, 0)
	for _, stored := range r.bookings {
		if subject(stored) && filter.State.Matches(stored, filter.Now) {
			found := *stored
			matched = append(matched, &found)
		}
	}
	r.mu.RUnlock()

	sortByStartDesc(matched)
	return filter.Page.Slice(matched), nil
}

// AdjacentApproved возвращает для каждой вещи последнее (start < now) и ближайшее (start >= now)
// подтвержденные бронирования. Вещи без подтвержденных бронирований в результат не попадают.
func (r *MemoryRepository) AdjacentApproved(_ context.Context, itemIDs []int64, now time.Time) (map[int64]domain.AdjacentBookings, error) {
	wanted := make(map[int64]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = struct{}{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[int64]domain.AdjacentBookings)
	for _, stored := range r.bookings {
		if _, ok := wanted[stored.ItemID]; !ok || stored.Status != domain.StatusApproved {
			continue
		}

		adj := result[stored.ItemID]
		candidate := *stored
		if stored.Start.Before(now) {
			if adj.Last == nil || isCloser(&candidate, adj.Last, candidate.Start.After(adj.Last.Start)) {
				adj.Last = &candidate
			}
		} else {
			if adj.Next == nil || isCloser(&candidate, adj.Next, candidate.Start.Before(adj.Next.Start)) {
				adj.Next = &candidate
			}
		}
		result[stored.ItemID] = adj
	}

	return result, nil
}

// isCloser при равном начале отдает предпочтение меньшему ID
func isCloser(candidate, current *domain.Booking, nearer bool) bool {
	if candidate.Start.Equal(current.Start) {
		return candidate.ID < current.ID
	}
	return nearer
}

// HasFinishedApproved проверяет, есть ли у арендатора подтвержденное и завершившееся бронирование вещи
func (r *MemoryRepository) HasFinishedApproved(_ context.Context, bookerID, itemID int64, now time.Time) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, stored := range r.bookings {
		if stored.BookerID == bookerID && stored.ItemID == itemID && stored.IsFinishedApproved(now) {
			return true, nil
		}
	}
	return false, nil
}

func sortByStartDesc(bookings []*domain.Booking) {
	sort.Slice(bookings, func(i, j int) bool {
		if bookings[i].Start.Equal(bookings[j].Start) {
			return bookings[i].ID > bookings[j].ID
		}
		return bookings[i].Start.After(bookings[j].Start)
	})
}
