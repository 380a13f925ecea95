package decide_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SharingService/internal/api/handlers"
	"github.com/m04kA/SMC-SharingService/internal/api/middleware"
	"github.com/m04kA/SMC-SharingService/internal/domain"
	"github.com/m04kA/SMC-SharingService/internal/service/bookings/models"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgInvalidApproved  = "параметр approved должен быть true или false"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgNotFound         = "бронирование не найдено"
	msgNotOwner         = "решение может принять только владелец вещи"
	msgAlreadyDecided   = "решение по бронированию уже принято"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}?approved=true|false
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	approved, err := strconv.ParseBool(r.URL.Query().Get("approved"))
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Invalid approved parameter: booking_id=%d, error=%v", bookingID, err)
		handlers.RespondBadRequest(w, msgInvalidApproved)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.Decide(r.Context(), &models.DecideBookingRequest{
		BookingID: bookingID,
		OwnerID:   userID,
		Approved:  approved,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id} - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, domain.ErrNotOwner):
			h.logger.Warn("PATCH /bookings/{id} - Not owner: booking_id=%d, user_id=%d", bookingID, userID)
			handlers.RespondNotFound(w, msgNotOwner)

		case errors.Is(err, domain.ErrAlreadyDecided):
			h.logger.Warn("PATCH /bookings/{id} - Already decided: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgAlreadyDecided)

		default:
			h.logger.Error("PATCH /bookings/{id} - Failed to decide booking: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id} - Booking decided: booking_id=%d, user_id=%d, status=%s",
		bookingID, userID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}
