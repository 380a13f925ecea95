package get_user_bookings

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

// Handle GET /api/v1/bookings?state=ALL&from=0&size=10
// Возвращает бронирования пользователя как арендатора, отсортированные по началу (сначала новые)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	from, size, err := h.pagination.Parse(r)
	if err != nil {
		h.logger.Warn("GET /bookings - Invalid pagination: user_id=%d, error=%v", userID, err)
		handlers.RespondBadRequest(w, msgInvalidPage)
		return
	}

	state := r.URL.Query().Get("state")

	result, err := h.service.ListByBooker(r.Context(), &models.ListBookingsRequest{
		UserID: userID,
		State:  state,
		From:   from,
		Size:   size,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnknownState):
			h.logger.Warn("GET /bookings - Unknown state: user_id=%d, state=%s", userID, state)
			handlers.RespondBadRequest(w, fmt.Sprintf(msgUnknownStateFmt, state))

		case errors.Is(err, domain.ErrInvalidPage):
			h.logger.Warn("GET /bookings - Invalid page: user_id=%d, from=%d, size=%d", userID, from, size)
			handlers.RespondBadRequest(w, msgInvalidPage)

		case errors.Is(err, domain.ErrUserNotFound):
			h.logger.Warn("GET /bookings - User not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgUserNotFound)

		default:
			h.logger.Error("GET /bookings - Failed to get bookings: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings - Bookings retrieved successfully: user_id=%d, count=%d", userID, len(result))
	handlers.RespondJSON(w, http.StatusOK, result)
}
