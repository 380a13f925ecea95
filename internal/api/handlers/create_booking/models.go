package create_booking

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-SharingService/internal/service/bookings/models"
)

// localDateTimeLayout формат без часового пояса, время считается UTC
const localDateTimeLayout = "2006-01-02T15:04:05"

var (
	errMissingItemID = errors.New("itemId is required")
	errMissingDates  = errors.New("start and end are required")
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ItemID *int64 `json:"itemId"`
	Start  string `json:"start"` // RFC3339 или "2006-01-02T15:04:05"
	End    string `json:"end"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateBookingRequest) ToServiceRequest(bookerID int64) (*models.CreateBookingRequest, error) {
	if r.ItemID == nil {
		return nil, errMissingItemID
	}
	if r.Start == "" || r.End == "" {
		return nil, errMissingDates
	}

	start, err := parseDateTime(r.Start)
	if err != nil {
		return nil, err
	}
	end, err := parseDateTime(r.End)
	if err != nil {
		return nil, err
	}

	return &models.CreateBookingRequest{
		BookerID: bookerID,
		ItemID:   *r.ItemID,
		Start:    start,
		End:      end,
	}, nil
}

func parseDateTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	return time.ParseInLocation(localDateTimeLayout, value, time.UTC)
}
