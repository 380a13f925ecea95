package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-SharingService/internal/domain"
)

// Pagination параметры пагинации списков
type Pagination struct {
	DefaultSize int
	MaxSize     int
}

// Parse читает from и size из query. Отсутствующие параметры заменяются значениями по умолчанию,
// size больше MaxSize урезается. Отрицательные значения пропускаются как есть и отклоняются сервисом.
func (p Pagination) Parse(r *http.Request) (from, size int, err error) {
	query := r.URL.Query()

	from = domain.DefaultPageIndex
	if raw := query.Get("from"); raw != "" {
		if from, err = strconv.Atoi(raw); err != nil {
			return 0, 0, fmt.Errorf("%w: from=%q", domain.ErrInvalidPage, raw)
		}
	}

	size = p.DefaultSize
	if size <= 0 {
		size = domain.DefaultPageSize
	}
	if raw := query.Get("size"); raw != "" {
		if size, err = strconv.Atoi(raw); err != nil {
			return 0, 0, fmt.Errorf("%w: size=%q", domain.ErrInvalidPage, raw)
		}
	}

	if p.MaxSize > 0 && size > p.MaxSize {
		size = p.MaxSize
	}

	return from, size, nil
}
