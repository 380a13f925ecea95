package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SharingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SharingService/internal/infra/storage/booking"
	itemClient "github.com/m04kA/SMC-SharingService/internal/integrations/itemservice"
	"github.com/m04kA/SMC-SharingService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo  BookingRepository
	userClient   UserServiceClient
	itemClient   ItemServiceClient
	timeProvider TimeProvider
	metrics      MetricsRecorder
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований.
// metrics может быть nil, тогда бизнес-метрики не пишутся.
func NewService(
	bookingRepo BookingRepository,
	userClient UserServiceClient,
	itemClient ItemServiceClient,
	timeProvider TimeProvider,
	metrics MetricsRecorder,
	logger Logger,
) *Service {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Service{
		bookingRepo:  bookingRepo,
		userClient:   userClient,
		itemClient:   itemClient,
		timeProvider: timeProvider,
		metrics:      metrics,
		logger:       logger,
	}
}

// Create создает бронирование в статусе WAITING.
// Порядок проверок: вещь существует и доступна, арендатор существует, арендатор не владелец, интервал корректен.
func (s *Service) Create(ctx context.Context, req *models.CreateBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Create: booking item=%d by user=%d", req.ItemID, req.BookerID)

	item, err := s.itemClient.GetItem(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, itemClient.ErrItemNotFound) {
			s.logger.Warn("Create: item=%d not found", req.ItemID)
			return nil, domain.ErrItemNotFound
		}
		s.logger.Error("Create: ItemService error for item=%d: %v", req.ItemID, err)
		return nil, fmt.Errorf("%w: Create - item lookup: %v", ErrInternal, err)
	}

	if !item.Available {
		s.logger.Warn("Create: item=%d is not available", req.ItemID)
		return nil, domain.ErrItemUnavailable
	}

	if err := s.ensureUserExists(ctx, "Create", req.BookerID); err != nil {
		return nil, err
	}

	if err := domain.CanCreate(item.OwnerID, req.BookerID); err != nil {
		s.logger.Warn("Create: user=%d tried to book own item=%d", req.BookerID, req.ItemID)
		return nil, err
	}

	now := s.timeProvider.Now()
	if err := domain.ValidateInterval(req.Start, req.End, now); err != nil {
		s.logger.Warn("Create: invalid interval start=%s end=%s: %v", req.Start, req.End, err)
		return nil, err
	}

	booking := &domain.Booking{
		ItemID:    item.ID,
		BookerID:  req.BookerID,
		Start:     req.Start.UTC(),
		End:       req.End.UTC(),
		Status:    domain.StatusWaiting,
		ItemName:  item.Name,
		OwnerID:   item.OwnerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.bookingRepo.Create(ctx, booking)
	if err != nil {
		s.logger.Error("Create: repository error for item=%d: %v", req.ItemID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.metrics.BookingCreated()
	s.logger.Info("Create: successfully created booking id=%d", created.ID)
	return models.FromDomainBooking(created), nil
}

// Decide фиксирует решение владельца. Решение принимается ровно один раз:
// смена статуса выполняется условным обновлением, поэтому из двух одновременных решений проходит одно.
func (s *Service) Decide(ctx context.Context, req *models.DecideBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Decide: booking id=%d approved=%t by user=%d", req.BookingID, req.Approved, req.OwnerID)

	booking, err := s.getBooking(ctx, "Decide", req.BookingID)
	if err != nil {
		return nil, err
	}

	if booking.IsDecided() {
		s.logger.Warn("Decide: booking id=%d already decided, status=%s", req.BookingID, booking.Status)
		return nil, domain.ErrAlreadyDecided
	}

	if err := domain.CanDecide(booking.OwnerID, req.OwnerID); err != nil {
		s.logger.Warn("Decide: user=%d is not the owner of booking id=%d", req.OwnerID, req.BookingID)
		return nil, err
	}

	target := domain.DecisionStatus(req.Approved)
	if !booking.Status.CanTransitionTo(target) {
		return nil, domain.ErrAlreadyDecided
	}

	updated, err := s.bookingRepo.UpdateStatus(ctx, booking.ID, booking.Status, target, s.timeProvider.Now())
	if err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrStatusConflict):
			s.logger.Warn("Decide: booking id=%d decided concurrently", req.BookingID)
			return nil, domain.ErrAlreadyDecided
		case errors.Is(err, bookingRepo.ErrBookingNotFound):
			return nil, domain.ErrBookingNotFound
		default:
			s.logger.Error("Decide: repository error for booking id=%d: %v", req.BookingID, err)
			return nil, fmt.Errorf("%w: Decide - repository error: %v", ErrInternal, err)
		}
	}

	s.metrics.BookingDecided(string(updated.Status))
	s.logger.Info("Decide: booking id=%d is now %s", updated.ID, updated.Status)
	return models.FromDomainBooking(updated), nil
}

// GetByID получает бронирование по ID.
// Просматривать бронирование могут только владелец вещи и арендатор.
func (s *Service) GetByID(ctx context.Context, bookingID, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", bookingID, userID)

	booking, err := s.getBooking(ctx, "GetByID", bookingID)
	if err != nil {
		return nil, err
	}

	if err := domain.CanView(booking.OwnerID, booking.BookerID, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, bookingID)
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// ListByBooker возвращает бронирования пользователя как арендатора
func (s *Service) ListByBooker(ctx context.Context, req *models.ListBookingsRequest) ([]models.BookingResponse, error) {
	return s.list(ctx, "ListByBooker", req, s.bookingRepo.ListByBooker)
}

// ListByOwner возвращает бронирования вещей пользователя как владельца
func (s *Service) ListByOwner(ctx context.Context, req *models.ListBookingsRequest) ([]models.BookingResponse, error) {
	return s.list(ctx, "ListByOwner", req, s.bookingRepo.ListByOwner)
}

type listFunc func(ctx context.Context, userID int64, filter domain.BookingsFilter) ([]*domain.Booking, error)

func (s *Service) list(ctx context.Context, op string, req *models.ListBookingsRequest, fetch listFunc) ([]models.BookingResponse, error) {
	s.logger.Info("%s: fetching bookings for user=%d state=%s from=%d size=%d", op, req.UserID, req.State, req.From, req.Size)

	state, err := domain.ParseBookingState(req.State)
	if err != nil {
		s.logger.Warn("%s: unknown state=%q", op, req.State)
		return nil, err
	}

	page, err := domain.NewPage(req.From, req.Size)
	if err != nil {
		s.logger.Warn("%s: invalid page from=%d size=%d", op, req.From, req.Size)
		return nil, err
	}

	if err := s.ensureUserExists(ctx, op, req.UserID); err != nil {
		return nil, err
	}

	filter := domain.BookingsFilter{
		State: state,
		Now:   s.timeProvider.Now(),
		Page:  page,
	}

	bookings, err := fetch(ctx, req.UserID, filter)
	if err != nil {
		s.logger.Error("%s: repository error for user=%d: %v", op, req.UserID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	s.logger.Info("%s: successfully fetched %d bookings for user=%d", op, len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// AdjacentForItems возвращает последнее и следующее подтвержденные бронирования для каждой из вещей.
// Бронирования видны только владельцу вещи, для чужих вещей оба поля пустые.
func (s *Service) AdjacentForItems(ctx context.Context, viewerID int64, itemIDs []int64) ([]models.ItemBookingsResponse, error) {
	s.logger.Info("AdjacentForItems: fetching last/next for %d items, viewer=%d", len(itemIDs), viewerID)

	unique := make([]int64, 0, len(itemIDs))
	seen := make(map[int64]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	adjacent, err := s.bookingRepo.AdjacentApproved(ctx, unique, s.timeProvider.Now())
	if err != nil {
		s.logger.Error("AdjacentForItems: repository error: %v", err)
		return nil, fmt.Errorf("%w: AdjacentForItems - repository error: %v", ErrInternal, err)
	}

	result := make([]models.ItemBookingsResponse, 0, len(unique))
	for _, itemID := range unique {
		adj := adjacent[itemID]
		if !ownedBy(adj, viewerID) {
			adj = domain.AdjacentBookings{}
		}
		result = append(result, models.FromDomainAdjacent(itemID, adj))
	}

	return result, nil
}

func ownedBy(adj domain.AdjacentBookings, viewerID int64) bool {
	switch {
	case adj.Last != nil:
		return adj.Last.OwnerID == viewerID
	case adj.Next != nil:
		return adj.Next.OwnerID == viewerID
	default:
		return false
	}
}

// HasFinishedBooking проверяет, пользовался ли пользователь вещью по подтвержденному и завершившемуся бронированию
func (s *Service) HasFinishedBooking(ctx context.Context, bookerID, itemID int64) (bool, error) {
	finished, err := s.bookingRepo.HasFinishedApproved(ctx, bookerID, itemID, s.timeProvider.Now())
	if err != nil {
		s.logger.Error("HasFinishedBooking: repository error for user=%d item=%d: %v", bookerID, itemID, err)
		return false, fmt.Errorf("%w: HasFinishedBooking - repository error: %v", ErrInternal, err)
	}
	return finished, nil
}

func (s *Service) getBooking(ctx context.Context, op string, bookingID int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, bookingID)
			return nil, domain.ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, bookingID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

func (s *Service) ensureUserExists(ctx context.Context, op string, userID int64) error {
	exists, err := s.userClient.Exists(ctx, userID)
	if err != nil {
		s.logger.Error("%s: UserService error for user=%d: %v", op, userID, err)
		return fmt.Errorf("%w: %s - user lookup: %v", ErrInternal, op, err)
	}
	if !exists {
		s.logger.Warn("%s: user=%d not found", op, userID)
		return domain.ErrUserNotFound
	}
	return nil
}
