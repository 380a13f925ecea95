package bookings

import "errors"

// ErrInternal возвращается при внутренних ошибках сервиса: недоступности хранилища или внешних сервисов.
// Ошибки бизнес-правил возвращаются как ошибки пакета domain.
var ErrInternal = errors.New("service: internal error")
