package booking

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SharingService/internal/domain"
	"github.com/m04kA/SMC-SharingService/pkg/psqlbuilder"
)

type store interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus, at time.Time) (*domain.Booking, error)
	ListByBooker(ctx context.Context, bookerID int64, filter domain.BookingsFilter) ([]*domain.Booking, error)
	ListByOwner(ctx context.Context, ownerID int64, filter domain.BookingsFilter) ([]*domain.Booking, error)
	AdjacentApproved(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]domain.AdjacentBookings, error)
	HasFinishedApproved(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error)
}

var (
	_ store = (*Repository)(nil)
	_ store = (*MemoryRepository)(nil)
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

const (
	ownerID  int64 = 1
	bookerID int64 = 2
	itemID   int64 = 10
)

func setupSQLite(t *testing.T) store {
	t.Helper()

	db, err := sql.Open(psqlbuilder.DriverSQLite, ":memory:")
	require.NoError(t, err)
	// Каждое соединение к :memory: открывает отдельную БД
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, EnsureSchema(context.Background(), db, psqlbuilder.DriverSQLite))

	repo, err := NewRepository(db, psqlbuilder.DriverSQLite)
	require.NoError(t, err)
	return repo
}

func setupMemory(t *testing.T) store {
	t.Helper()
	return NewMemoryRepository()
}

func forEachStore(t *testing.T, fn func(t *testing.T, s store)) {
	t.Run("sqlite", func(t *testing.T) { fn(t, setupSQLite(t)) })
	t.Run("memory", func(t *testing.T) { fn(t, setupMemory(t)) })
}

func newBooking(item, booker int64, start, end time.Time, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ItemID:    item,
		ItemName:  "Drill",
		BookerID:  booker,
		OwnerID:   ownerID,
		Start:     start,
		End:       end,
		Status:    status,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
}

func mustCreate(t *testing.T, s store, b *domain.Booking) *domain.Booking {
	t.Helper()
	created, err := s.Create(context.Background(), b)
	require.NoError(t, err)
	return created
}

func allPage() domain.Page {
	return domain.Page{Index: 0, Size: 100}
}

func ids(bookings []*domain.Booking) []int64 {
	result := make([]int64, len(bookings))
	for i, b := range bookings {
		result[i] = b.ID
	}
	return result
}

func TestNewRepository_UnknownDriver(t *testing.T) {
	_, err := NewRepository(nil, "mysql")
	assert.ErrorIs(t, err, ErrBuildQuery)
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	db, err := sql.Open(psqlbuilder.DriverSQLite, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, EnsureSchema(ctx, db, psqlbuilder.DriverSQLite))
	require.NoError(t, EnsureSchema(ctx, db, psqlbuilder.DriverSQLite))
	assert.Error(t, EnsureSchema(ctx, db, "oracle"))
}

func TestCreateAndGet(t *testing.T) {
	forEachStore(t, func(t *testing.T, s store) {
		ctx := context.Background()
		start := testNow.Add(time.Hour)
		end := testNow.Add(2 * time.Hour)

		first := mustCreate(t, s, newBooking(itemID, bookerID, start, end, domain.StatusWaiting))
		second := mustCreate(t, s, newBooking(itemID, bookerID, start, end, domain.StatusWaiting))

		assert.NotZero(t, first.ID)
		assert.NotEqual(t, first.ID, second.ID)

		got, err := s.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, itemID, got.ItemID)
		assert.Equal(t, bookerID, got.BookerID)
		assert.Equal(t, ownerID, got.OwnerID)
		assert.Equal(t, "Drill", got.ItemName)
		assert.Equal(t, domain.StatusWaiting, got.Status)
		assert.True(t, start.Equal(got.Start))
		assert.True(t, end.Equal(got.End))
	})
}

func TestGetByID_NotFound(t *testing.T) {
	forEachStore(t, func(t *testing.T, s store) {
		_, err := s.GetByID(context.Background(), 999)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestUpdateStatus(t *testing.T) {
	forEachStore(t, func(t *testing.T, s store) {
		ctx := context.Background()
		created := mustCreate(t, s, newBooking(itemID, bookerID, testNow.Add(time.Hour), testNow.Add(2*time.Hour), domain.StatusWaiting))
		decidedAt := testNow.Add(time.Minute)

		updated, err := s.UpdateStatus(ctx, created.ID, domain.StatusWaiting, domain.StatusApproved, decidedAt)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusApproved, updated.Status)
		assert.True(t, decidedAt.Equal(updated.UpdatedAt))

		_, err = s.UpdateStatus(ctx, created.ID, domain.StatusWaiting, domain.StatusRejected, decidedAt)
		assert.ErrorIs(t, err, ErrStatusConflict)

		got, err := s.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusApproved, got.Status)

		_, err = s.UpdateStatus(ctx, 999, domain.StatusWaiting, domain.StatusApproved, decidedAt)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestUpdateStatus_ConcurrentDecisionsHaveOneWinner(t *testing.T) {
	forEachStore(t, func(t *testing.T, s store) {
		ctx := context.Background()
		created := mustCreate(t, s, newBooking(itemID, bookerID, testNow.Add(time.Hour), testNow.Add(2*time.Hour), domain.StatusWaiting))

		const attempts = 10
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			winners   int
			conflicts int
		)

		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(approve bool) {
				defer wg.Done()
				_, err := s.UpdateStatus(ctx, created.ID, domain.StatusWaiting, domain.DecisionStatus(approve), testNow)

				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					winners++
				case errors.Is(err, ErrStatusConflict):
					conflicts++
				}
			}(i%2 == 0)
		}
		wg.Wait()

		assert.Equal(t, 1, winners)
		assert.Equal(t, attempts-1, conflicts)
	})
}

func TestListByBooker_States(t *testing.T) {
	forEachStore(t, func(t *testing.T, s store) {
		ctx := context.Background()

		past := mustCreate(t, s, newBooking(itemID, bookerID, testNow.Add(-48*time.Hour), testNow.Add(-47*time.Hour), domain.StatusApproved))
		current := mustCreate(t, s, newBooking(itemID, bookerID, testNow.Add(-time.Hour), testNow.Add(time.Hour), domain.StatusWaiting))
		future := mustCreate(t, s, newBooking(itemID, bookerID, testNow.Add(24*time.Hour), testNow.Add(25*time.Hour), domain.StatusApproved))
		rejected := mustCreate(t, s, newBooking(itemID, bookerID, testNow.Add(48*time.Hour), testNow.Add(49*time.Hour), domain.StatusRejected))
		staleWaiting := mustCreate(t, s, newBooking(itemID, bookerID, testNow.Add(-72*time.Hour), testNow.Add(-71*time.Hour), domain.StatusWaiting))
		mustCreate(t, s, newBooking(itemID, 3, testNow.Add(time.Hour), testNow.Add(2*time.Hour), domain.StatusWaiting))

		tests := []struct {
			state    domain.BookingState
			expected []int64
		}{
			{domain.StateAll, []int64{rejected.ID, future.ID, current.ID, past.ID, staleWaiting.ID}},
			{domain.StateCurrent, []int64{current.ID}},
			{domain.StatePast, []int64{past.ID, staleWaiting.ID}},
			{domain.StateFuture, []int64{rejected.ID, future.ID}},
			{domain.StateWaiting, []int64{current.ID, staleWaiting.ID}},
			{domain.StateRejected, []int64{rejected.ID}},
		}

		for _, tt := range tests {
			t.Run(string(tt.state), func(t *testing.T) {
				got, err := s.ListByBooker(ctx, bookerID, domain.BookingsFilter{State: tt.state, Now: testNow, Page: allPage()})
				require.NoError(t, err)
				assert.Equal(t, tt.expected, ids(got))
			})
		}
	})
}

func TestListByBooker_StateBoundaries(t *testing.T) {
	moments := []struct {
		name string
		now  time.Time
	}{
		{"whole second", testNow},
		{"sub-second", testNow.Add(500 * time.Millisecond)},
	}

	for _, moment := range moments {
		t.Run(moment.name, func(t *testing.T) {
			forEachStore(t, func(t *testing.T, s store) {
				ctx := context.Background()
				now := moment.now

				startsNow := mustCreate(t, s, newBooking(itemID, bookerID, now, now.Add(time.Hour), domain.StatusApproved))
				endsNow := mustCreate(t, s, newBooking(itemID, bookerID, now.Add(-2*time.Hour), now, domain.StatusApproved))
				endedBefore := mustCreate(t, s, newBooking(itemID, bookerID, now.Add(-3*time.Hour), now.Add(-time.Millisecond), domain.StatusApproved))

				tests := []struct {
					state    domain.BookingState
					expected []int64
				}{
					{domain.StateAll, []int64{startsNow.ID, endsNow.ID, endedBefore.ID}},
					{domain.StateCurrent, []int64{startsNow.ID}},
					{domain.StatePast, []int64{endedBefore.ID}},
					{domain.StateFuture, []int64{}},
				}

				for _, tt := range tests {
					got, err := s.ListByBooker(ctx, bookerID, domain.BookingsFilter{State: tt.state, Now: now, Page: allPage()})
					require.NoError(t, err)
					assert.Equal(t, tt.expected, ids(got), tt.state)
				}
			})
		})
	}
}

func TestListByBooker_UnknownState(t *testing.T) {
	forEachStore(t, func(t *testing.T, s store) {
		_, err := s.ListByBooker(context.Background(), bookerID, domain.BookingsFilter{State: "LATER", Now: testNow, Page: allPage()})
		assert.ErrorIs(t, err, ErrInvalidFilter)
	})
}

func TestListByOwner(t *testing.T) {
	forEachStore(t, func(t *testing.T, s store) {
		ctx := context.Background()

		mine := mustCreate(t, s, newBooking(itemID, bookerID, testNow.Add(time.Hour), testNow.Add(2*time.Hour), domain.StatusWaiting))
		foreign := newBooking(20, bookerID, testNow.Add(time.Hour), testNow.Add(2*time.Hour), domain.StatusWaiting)
		foreign.OwnerID = 5
		mustCreate(t, s, foreign)

		got, err := s.ListByOwner(ctx, ownerID, domain.BookingsFilter{State: domain.StateAll, Now: testNow, Page: allPage()})
		require.NoError(t, err)
		assert.Equal(t, []int64{mine.ID}, ids(got))
	})
}

func TestList_Pagination(t *testing.T) {
	forEachStore(t, func(t *testing.T, s store) {
		ctx := context.Background()

		var created []*domain.Booking
		for i := 0; i < 5; i++ {
			start := testNow.Add(time.Duration(i+1) * time.Hour)
			created = append(created, mustCreate(t, s, newBooking(itemID, bookerID, start, start.Add(30*time.Minute), domain.StatusWaiting)))
		}

		filter := domain.BookingsFilter{State: domain.StateAll, Now: testNow, Page: domain.Page{Index: 1, Size: 2}}
		got, err := s.ListByBooker(ctx, bookerID, filter)
		require.NoError(t, err)
		assert.Equal(t, []int64{created[2].ID, created[1].ID}, ids(got))

		filter.Page = domain.Page{Index: 5, Size: 2}
		got, err = s.ListByBooker(ctx, bookerID, filter)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestList_HugePageIndexIsEmpty(t *testing.T) {
	forEachStore(t, func(t *testing.T, s store) {
		ctx := context.Background()
		mustCreate(t, s, newBooking(itemID, bookerID, testNow.Add(time.Hour), testNow.Add(2*time.Hour), domain.StatusWaiting))

		page, err := domain.NewPage(math.MaxInt/5, 10)
		require.NoError(t, err)

		for _, state := range []domain.BookingState{domain.StateAll, domain.StateFuture} {
			filter := domain.BookingsFilter{State: state, Now: testNow, Page: page}

			got, err := s.ListByBooker(ctx, bookerID, filter)
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Empty(t, got)

			got, err = s.ListByOwner(ctx, ownerID, filter)
			require.NoError(t, err)
			assert.Empty(t, got)
		}

		_, err = s.ListByBooker(ctx, bookerID, domain.BookingsFilter{State: "LATER", Now: testNow, Page: page})
		assert.ErrorIs(t, err, ErrInvalidFilter)
	})
}

func TestAdjacentApproved(t *testing.T) {
	forEachStore(t, func(t *testing.T, s store) {
		ctx := context.Background()

		last := mustCreate(t, s, newBooking(itemID, bookerID, testNow.Add(-48*time.Hour), testNow.Add(-47*time.Hour), domain.StatusApproved))
		mustCreate(t, s, newBooking(itemID, bookerID, testNow.Add(-time.Hour), testNow.Add(time.Hour), domain.StatusWaiting))
		next := mustCreate(t, s, newBooking(itemID, bookerID, testNow.Add(24*time.Hour), testNow.Add(25*time.Hour), domain.StatusApproved))
		mustCreate(t, s, newBooking(itemID, bookerID, testNow.Add(-96*time.Hour), testNow.Add(-95*time.Hour), domain.StatusApproved))
		mustCreate(t, s, newBooking(itemID, bookerID, testNow.Add(72*time.Hour), testNow.Add(73*time.Hour), domain.StatusApproved))
		mustCreate(t, s, newBooking(itemID, bookerID, testNow.Add(30*time.Minute), testNow.Add(time.Hour), domain.StatusRejected))

		otherNext := mustCreate(t, s, newBooking(20, bookerID, testNow, testNow.Add(time.Hour), domain.StatusApproved))

		got, err := s.AdjacentApproved(ctx, []int64{itemID, 20, 30}, testNow)
		require.NoError(t, err)

		require.Contains(t, got, itemID)
		require.NotNil(t, got[itemID].Last)
		require.NotNil(t, got[itemID].Next)
		assert.Equal(t, last.ID, got[itemID].Last.ID)
		assert.Equal(t, next.ID, got[itemID].Next.ID)

		// start == now считается следующим
		require.Contains(t, got, int64(20))
		assert.Nil(t, got[20].Last)
		require.NotNil(t, got[20].Next)
		assert.Equal(t, otherNext.ID, got[20].Next.ID)

		assert.NotContains(t, got, int64(30))
	})
}

func TestAdjacentApproved_NoItems(t *testing.T) {
	forEachStore(t, func(t *testing.T, s store) {
		got, err := s.AdjacentApproved(context.Background(), nil, testNow)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestHasFinishedApproved(t *testing.T) {
	forEachStore(t, func(t *testing.T, s store) {
		ctx := context.Background()

		mustCreate(t, s, newBooking(itemID, bookerID, testNow.Add(-48*time.Hour), testNow.Add(-47*time.Hour), domain.StatusRejected))
		mustCreate(t, s, newBooking(itemID, bookerID, testNow.Add(-time.Hour), testNow.Add(time.Hour), domain.StatusApproved))

		ok, err := s.HasFinishedApproved(ctx, bookerID, itemID, testNow)
		require.NoError(t, err)
		assert.False(t, ok)

		mustCreate(t, s, newBooking(itemID, bookerID, testNow.Add(-3*time.Hour), testNow.Add(-2*time.Hour), domain.StatusApproved))

		ok, err = s.HasFinishedApproved(ctx, bookerID, itemID, testNow)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = s.HasFinishedApproved(ctx, 3, itemID, testNow)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
