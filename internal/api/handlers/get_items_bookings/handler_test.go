package get_items_bookings

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SharingService/internal/api/middleware"
	"github.com/m04kA/SMC-SharingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-SharingService/pkg/logger"
)

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) AdjacentForItems(ctx context.Context, viewerID int64, itemIDs []int64) ([]models.ItemBookingsResponse, error) {
	args := m.Called(ctx, viewerID, itemIDs)
	if resp := args.Get(0); resp != nil {
		return resp.([]models.ItemBookingsResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestParseItemIDs(t *testing.T) {
	ids, err := parseItemIDs("1, 2,3")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids)

	for _, raw := range []string{"", "1,,2", "a", "0", "-4"} {
		_, err := parseItemIDs(raw)
		assert.Error(t, err, raw)
	}
}

func TestHandle(t *testing.T) {
	svc := new(MockBookingService)
	svc.On("AdjacentForItems", mock.Anything, int64(1), []int64{10, 20}).
		Return([]models.ItemBookingsResponse{{ItemID: 10}, {ItemID: 20}}, nil)
	svc.On("AdjacentForItems", mock.Anything, int64(1), []int64{30}).Return(nil, errors.New("boom"))
	h := NewHandler(svc, logger.NewWithWriter(io.Discard, "error"))

	send := func(query string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/internal/items/bookings"+query, nil)
		r = r.WithContext(middleware.WithUserID(r.Context(), 1))
		w := httptest.NewRecorder()
		h.Handle(w, r)
		return w
	}

	w := send("?itemIds=10,20")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"itemId":10,"lastBooking":null,"nextBooking":null},{"itemId":20,"lastBooking":null,"nextBooking":null}]`, w.Body.String())

	assert.Equal(t, http.StatusBadRequest, send("?itemIds=x").Code)
	assert.Equal(t, http.StatusInternalServerError, send("?itemIds=30").Code)
}
