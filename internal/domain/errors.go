package domain

import "errors"

// Ошибки бизнес-правил бронирования. Все они являются ошибками клиента или конфликтом состояния
// и не подлежат повтору.
var (
	// ErrInvalidInterval возвращается, когда интервал бронирования некорректен
	ErrInvalidInterval = errors.New("booking: invalid interval")

	// ErrSelfBookingForbidden возвращается при попытке забронировать собственную вещь
	ErrSelfBookingForbidden = errors.New("booking: owner cannot book own item")

	// ErrItemUnavailable возвращается, когда вещь недоступна для бронирования
	ErrItemUnavailable = errors.New("booking: item is not available")

	// ErrItemNotFound возвращается, когда вещь не найдена
	ErrItemNotFound = errors.New("booking: item not found")

	// ErrUserNotFound возвращается, когда пользователь не найден
	ErrUserNotFound = errors.New("booking: user not found")

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking: booking not found")

	// ErrNotOwner возвращается, когда решение принимает не владелец вещи
	ErrNotOwner = errors.New("booking: only the item owner can decide")

	// ErrForbidden возвращается, когда бронирование просматривает не владелец и не арендатор
	ErrForbidden = errors.New("booking: access denied")

	// ErrAlreadyDecided возвращается при повторном решении по бронированию
	ErrAlreadyDecided = errors.New("booking: status already decided")

	// ErrUnknownState возвращается при неизвестном значении фильтра
	ErrUnknownState = errors.New("booking: unknown state")

	// ErrInvalidPage возвращается при некорректных параметрах пагинации
	ErrInvalidPage = errors.New("booking: invalid page")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("booking: invalid input data")
)
