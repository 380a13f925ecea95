package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SharingService/internal/domain"
	"github.com/m04kA/SMC-SharingService/pkg/psqlbuilder"
)

var bookingColumns = []string{
	"id",
	"item_id",
	"item_name",
	"booker_id",
	"owner_id",
	"start_time",
	"end_time",
	"status",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db      DBExecutor
	builder squirrel.StatementBuilderType
}

// NewRepository создает новый экземпляр репозитория бронирований для указанного драйвера БД
func NewRepository(db DBExecutor, driver string) (*Repository, error) {
	builder, err := psqlbuilder.For(driver)
	if err != nil {
		return nil, fmt.Errorf("%w: NewRepository - %v", ErrBuildQuery, err)
	}
	return &Repository{db: db, builder: builder}, nil
}

// Create сохраняет новое бронирование и возвращает его с присвоенным ID
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	query, args, err := r.builder.Insert("bookings").
		Columns(
			"item_id",
			"item_name",
			"booker_id",
			"owner_id",
			"start_time",
			"end_time",
			"status",
			"created_at",
			"updated_at",
		).
		Values(
			booking.ItemID,
			booking.ItemName,
			booking.BookerID,
			booking.OwnerID,
			booking.Start.UTC(),
			booking.End.UTC(),
			string(booking.Status),
			booking.CreatedAt.UTC(),
			booking.UpdatedAt.UTC(),
		).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	created := *booking
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&created.ID); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return &created, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	query, args, err := r.builder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// UpdateStatus переводит бронирование из статуса from в статус to одним условным запросом
// и возвращает обновленную запись. Если статус уже отличается от from, возвращает ErrStatusConflict.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus, at time.Time) (*domain.Booking, error) {
	query, args, err := r.builder.Update("bookings").
		Set("status", string(to)).
		Set("updated_at", at.UTC()).
		Where(squirrel.Eq{"id": id, "status": string(from)}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	// Ни одна строка не обновлена: бронирования нет или статус уже изменен
	if rowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrStatusConflict
	}

	return r.GetByID(ctx, id)
}

// ListByBooker возвращает страницу бронирований арендатора, отсортированных по началу (сначала новые)
func (r *Repository) ListByBooker(ctx context.Context, bookerID int64, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	return r.list(ctx, "ListByBooker", squirrel.Eq{"booker_id": bookerID}, filter)
}

// ListByOwner возвращает страницу бронирований вещей владельца, отсортированных по началу (сначала новые)
func (r *Repository) ListByOwner(ctx context.Context, ownerID int64, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	return r.list(ctx, "ListByOwner", squirrel.Eq{"owner_id": ownerID}, filter)
}

func (r *Repository) list(ctx context.Context, op string, subject squirrel.Sqlizer, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	selectBuilder := r.builder.Select(bookingColumns...).
		From("bookings").
		Where(subject)

	predicate, err := statePredicate(filter.State, filter.Now.UTC())
	if err != nil {
		return nil, fmt.Errorf("%w: %s - %v", ErrInvalidFilter, op, err)
	}
	if predicate != nil {
		selectBuilder = selectBuilder.Where(predicate)
	}

	if filter.Page.Beyond() {
		return []*domain.Booking{}, nil
	}

	query, args, err := selectBuilder.
		OrderBy("start_time DESC", "id DESC").
		Limit(uint64(filter.Page.Size)).
		Offset(uint64(filter.Page.Offset())).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// statePredicate переводит фильтр состояния в условие WHERE. Для ALL условия нет.
func statePredicate(state domain.BookingState, now time.Time) (squirrel.Sqlizer, error) {
	switch state {
	case domain.StateAll:
		return nil, nil
	case domain.StateCurrent:
		return squirrel.And{
			squirrel.LtOrEq{"start_time": now},
			squirrel.Gt{"end_time": now},
		}, nil
	case domain.StatePast:
		return squirrel.Lt{"end_time": now}, nil
	case domain.StateFuture:
		return squirrel.Gt{"start_time": now}, nil
	case domain.StateWaiting:
		return squirrel.Eq{"status": string(domain.StatusWaiting)}, nil
	case domain.StateRejected:
		return squirrel.Eq{"status": string(domain.StatusRejected)}, nil
	default:
		return nil, fmt.Errorf("unknown state %q", state)
	}
}

// AdjacentApproved возвращает для каждой вещи последнее (start < now) и ближайшее (start >= now)
// подтвержденные бронирования. Выполняет по одному запросу на каждое направление для всех вещей сразу.
// Вещи без подтвержденных бронирований в результат не попадают.
func (r *Repository) AdjacentApproved(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]domain.AdjacentBookings, error) {
	result := make(map[int64]domain.AdjacentBookings)
	if len(itemIDs) == 0 {
		return result, nil
	}
	now = now.UTC()

	last, err := r.adjacent(ctx, itemIDs, squirrel.Lt{"b.start_time": now}, "MAX", "<", now)
	if err != nil {
		return nil, err
	}
	next, err := r.adjacent(ctx, itemIDs, squirrel.GtOrEq{"b.start_time": now}, "MIN", ">=", now)
	if err != nil {
		return nil, err
	}

	for itemID, booking := range last {
		adj := result[itemID]
		adj.Last = booking
		result[itemID] = adj
	}
	for itemID, booking := range next {
		adj := result[itemID]
		adj.Next = booking
		result[itemID] = adj
	}

	return result, nil
}

// adjacent выбирает подтвержденные бронирования с крайним (aggregate) началом по каждой вещи
// среди бронирований, начало которых находится по нужную сторону от now
func (r *Repository) adjacent(
	ctx context.Context,
	itemIDs []int64,
	side squirrel.Sqlizer,
	aggregate, operator string,
	now time.Time,
) (map[int64]*domain.Booking, error) {
	columns := make([]string, len(bookingColumns))
	for i, column := range bookingColumns {
		columns[i] = "b." + column
	}

	edge := fmt.Sprintf(
		"b.start_time = (SELECT %s(o.start_time) FROM bookings o WHERE o.item_id = b.item_id AND o.status = ? AND o.start_time %s ?)",
		aggregate, operator,
	)

	query, args, err := r.builder.Select(columns...).
		From("bookings b").
		Where(squirrel.Eq{"b.item_id": itemIDs}).
		Where(squirrel.Eq{"b.status": string(domain.StatusApproved)}).
		Where(side).
		Where(squirrel.Expr(edge, string(domain.StatusApproved), now)).
		OrderBy("b.item_id", "b.id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: AdjacentApproved - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: AdjacentApproved - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings, err := scanBookings(rows)
	if err != nil {
		return nil, err
	}

	// При совпадении начала побеждает бронирование с меньшим ID
	byItem := make(map[int64]*domain.Booking, len(bookings))
	for _, booking := range bookings {
		if _, ok := byItem[booking.ItemID]; !ok {
			byItem[booking.ItemID] = booking
		}
	}

	return byItem, nil
}

// HasFinishedApproved проверяет, есть ли у пользователя завершившееся подтвержденное бронирование вещи
func (r *Repository) HasFinishedApproved(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error) {
	query, args, err := r.builder.Select("COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{
			"booker_id": bookerID,
			"item_id":   itemID,
			"status":    string(domain.StatusApproved),
		}).
		Where(squirrel.Lt{"end_time": now.UTC()}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: HasFinishedApproved - build select query: %v", ErrBuildQuery, err)
	}

	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("%w: HasFinishedApproved - scan count: %v", ErrScanRow, err)
	}

	return count > 0, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var status string

	err := row.Scan(
		&booking.ID,
		&booking.ItemID,
		&booking.ItemName,
		&booking.BookerID,
		&booking.OwnerID,
		&booking.Start,
		&booking.End,
		&status,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.Status = domain.BookingStatus(status)
	booking.Start = booking.Start.UTC()
	booking.End = booking.End.UTC()
	booking.CreatedAt = booking.CreatedAt.UTC()
	booking.UpdatedAt = booking.UpdatedAt.UTC()

	return &booking, nil
}

func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan booking: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
