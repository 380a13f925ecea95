package get_items_bookings

import (
	"fmt"
	"strconv"
	"strings"
)

// maxItemIDs ограничение на число вещей в одном запросе
const maxItemIDs = 500

// parseItemIDs разбирает список ID вида "1,2,3"
func parseItemIDs(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("itemIds is required")
	}

	parts := strings.Split(raw, ",")
	if len(parts) > maxItemIDs {
		return nil, fmt.Errorf("too many item ids: %d > %d", len(parts), maxItemIDs)
	}

	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid item id %q", part)
		}
		ids = append(ids, id)
	}

	return ids, nil
}
