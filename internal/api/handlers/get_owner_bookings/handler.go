package get_owner_bookings

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/m04kA/SMC-SharingService/internal/api/handlers"
	"github.com/m04kA/SMC-SharingService/internal/api/middleware"
	"github.com/m04kA/SMC-SharingService/internal/domain"
	"github.com/m04kA/SMC-SharingService/internal/service/bookings/models"
)

const (
	msgMissingUserID   = "отсутствует ID пользователя"
	msgInvalidPage     = "некорректные параметры пагинации"
	msgUserNotFound    = "пользователь не найден"
	msgUnknownStateFmt = "Unknown state: %s"
)

type Handler struct {
	service    BookingService
	pagination handlers.Pagination
	logger     Logger
}

func NewHandler(service BookingService, pagination handlers.Pagination, logger Logger) *Handler {
	return &Handler{
		service:    service,
		pagination: pagination,
		logger:     logger,
	}
}

// Handle GET /api/v1/bookings/owner?state=ALL&from=0&size=10
// Возвращает бронирования вещей пользователя как владельца, отсортированные по началу (сначала новые)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings/owner - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	from, size, err := h.pagination.Parse(r)
	if err != nil {
		h.logger.Warn("GET /bookings/owner - Invalid pagination: user_id=%d, error=%v", userID, err)
		handlers.RespondBadRequest(w, msgInvalidPage)
		return
	}

	state := r.URL.Query().Get("state")

	result, err := h.service.ListByOwner(r.Context(), &models.ListBookingsRequest{
		UserID: userID,
		State:  state,
		From:   from,
		Size:   size,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnknownState):
			h.logger.Warn("GET /bookings/owner - Unknown state: user_id=%d, state=%s", userID, state)
			handlers.RespondBadRequest(w, fmt.Sprintf(msgUnknownStateFmt, state))

		case errors.Is(err, domain.ErrInvalidPage):
			h.logger.Warn("GET /bookings/owner - Invalid page: user_id=%d, from=%d, size=%d", userID, from, size)
			handlers.RespondBadRequest(w, msgInvalidPage)

		case errors.Is(err, domain.ErrUserNotFound):
			h.logger.Warn("GET /bookings/owner - User not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgUserNotFound)

		default:
			h.logger.Error("GET /bookings/owner - Failed to get bookings: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings/owner - Bookings retrieved successfully: user_id=%d, count=%d", userID, len(result))
	handlers.RespondJSON(w, http.StatusOK, result)
}
