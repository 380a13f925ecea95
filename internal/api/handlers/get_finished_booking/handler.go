package get_finished_booking

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SharingService/internal/api/handlers"
	"github.com/m04kA/SMC-SharingService/internal/service/bookings/models"
)

const (
	msgInvalidItemID = "некорректный ID вещи"
	msgInvalidUserID = "некорректный ID пользователя"
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

// Handle GET /api/v1/internal/items/{itemId}/bookers/{userId}/finished
// Используется сервисом комментариев: оставить отзыв можно только после завершенной аренды
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	itemID, err := strconv.ParseInt(vars["itemId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /internal/items/{itemId}/bookers/{userId}/finished - Invalid item ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidItemID)
		return
	}

	userID, err := strconv.ParseInt(vars["userId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /internal/items/{itemId}/bookers/{userId}/finished - Invalid user ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	finished, err := h.service.HasFinishedBooking(r.Context(), userID, itemID)
	if err != nil {
		h.logger.Error("GET /internal/items/{itemId}/bookers/{userId}/finished - Failed: item_id=%d, user_id=%d, error=%v",
			itemID, userID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, models.FinishedBookingResponse{Finished: finished})
}
