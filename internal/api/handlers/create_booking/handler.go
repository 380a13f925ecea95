package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SharingService/internal/api/handlers"
	"github.com/m04kA/SMC-SharingService/internal/api/middleware"
	"github.com/m04kA/SMC-SharingService/internal/domain"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgInvalidInterval      = "некорректный интервал бронирования"
	msgItemUnavailable      = "вещь недоступна для бронирования"
	msgItemNotFound         = "вещь не найдена"
	msgUserNotFound         = "пользователь не найден"
	msgSelfBookingForbidden = "владелец не может бронировать свою вещь"
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

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: user_id=%d, error=%v", userID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrItemNotFound):
			h.logger.Warn("POST /bookings - Item not found: item_id=%d", serviceReq.ItemID)
			handlers.RespondNotFound(w, msgItemNotFound)

		case errors.Is(err, domain.ErrUserNotFound):
			h.logger.Warn("POST /bookings - User not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgUserNotFound)

		case errors.Is(err, domain.ErrSelfBookingForbidden):
			h.logger.Warn("POST /bookings - Owner books own item: user_id=%d, item_id=%d", userID, serviceReq.ItemID)
			handlers.RespondNotFound(w, msgSelfBookingForbidden)

		case errors.Is(err, domain.ErrItemUnavailable):
			h.logger.Warn("POST /bookings - Item unavailable: item_id=%d", serviceReq.ItemID)
			handlers.RespondBadRequest(w, msgItemUnavailable)

		case errors.Is(err, domain.ErrInvalidInterval):
			h.logger.Warn("POST /bookings - Invalid interval: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidInterval)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, item_id=%d, error=%v",
				userID, serviceReq.ItemID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d, item_id=%d",
		result.ID, userID, serviceReq.ItemID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
