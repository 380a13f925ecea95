package models

import (
	"time"

	"github.com/m04kA/SMC-SharingService/internal/domain"
)

// Request модели

// CreateBookingRequest запрос на создание бронирования
type CreateBookingRequest struct {
	BookerID int64     `json:"-"`
	ItemID   int64     `json:"itemId"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// DecideBookingRequest решение владельца по бронированию
type DecideBookingRequest struct {
	BookingID int64
	OwnerID   int64
	Approved  bool
}

// ListBookingsRequest запрос на получение списка бронирований
type ListBookingsRequest struct {
	UserID int64
	State  string
	From   int
	Size   int
}

// Response модели

// BookerResponse арендатор в ответе
type BookerResponse struct {
	ID int64 `json:"id"`
}

// ItemResponse вещь в ответе
type ItemResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID     int64          `json:"id"`
	Start  time.Time      `json:"start"`
	End    time.Time      `json:"end"`
	Status string         `json:"status"`
	Booker BookerResponse `json:"booker"`
	Item   ItemResponse   `json:"item"`
}

// ShortBookingResponse краткое бронирование для карточки вещи
type ShortBookingResponse struct {
	ID       int64     `json:"id"`
	BookerID int64     `json:"bookerId"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// ItemBookingsResponse последнее и следующее подтвержденные бронирования вещи
type ItemBookingsResponse struct {
	ItemID      int64                 `json:"itemId"`
	LastBooking *ShortBookingResponse `json:"lastBooking"`
	NextBooking *ShortBookingResponse `json:"nextBooking"`
}

// FinishedBookingResponse признак завершенного подтвержденного бронирования
type FinishedBookingResponse struct {
	Finished bool `json:"finished"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:     b.ID,
		Start:  b.Start,
		End:    b.End,
		Status: string(b.Status),
		Booker: BookerResponse{ID: b.BookerID},
		Item:   ItemResponse{ID: b.ItemID, Name: b.ItemName},
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) []BookingResponse {
	resp := make([]BookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp = append(resp, *bookingResp)
		}
	}
	return resp
}

// FromDomainShortBooking конвертирует domain модель в краткий DTO
func FromDomainShortBooking(b *domain.Booking) *ShortBookingResponse {
	if b == nil {
		return nil
	}

	return &ShortBookingResponse{
		ID:       b.ID,
		BookerID: b.BookerID,
		Start:    b.Start,
		End:      b.End,
	}
}

// FromDomainAdjacent конвертирует последнее и следующее бронирования вещи в DTO
func FromDomainAdjacent(itemID int64, adj domain.AdjacentBookings) ItemBookingsResponse {
	return ItemBookingsResponse{
		ItemID:      itemID,
		LastBooking: FromDomainShortBooking(adj.Last),
		NextBooking: FromDomainShortBooking(adj.Next),
	}
}
