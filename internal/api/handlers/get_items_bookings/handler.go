package get_items_bookings

import (
	"net/http"

	"github.com/m04kA/SMC-SharingService/internal/api/handlers"
	"github.com/m04kA/SMC-SharingService/internal/api/middleware"
)

const (
	msgInvalidItemIDs = "некорректный список ID вещей"
	msgMissingUserID  = "отсутствует ID пользователя"
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

// Handle GET /api/v1/internal/items/bookings?itemIds=1,2,3
// Возвращает последнее и следующее подтвержденные бронирования вещей вызывающего владельца
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /internal/items/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	itemIDs, err := parseItemIDs(r.URL.Query().Get("itemIds"))
	if err != nil {
		h.logger.Warn("GET /internal/items/bookings - Invalid item ids: %v", err)
		handlers.RespondBadRequest(w, msgInvalidItemIDs)
		return
	}

	result, err := h.service.AdjacentForItems(r.Context(), userID, itemIDs)
	if err != nil {
		h.logger.Error("GET /internal/items/bookings - Failed to get bookings: user_id=%d, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /internal/items/bookings - Retrieved for %d items, user_id=%d", len(result), userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
