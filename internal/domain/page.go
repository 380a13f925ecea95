package domain

import (
	"fmt"
	"math"
)

// Pagination defaults
const (
	DefaultPageIndex = 0
	DefaultPageSize  = 10
)

// Page is a zero-based page index with a positive page size
type Page struct {
	Index int
	Size  int
}

// NewPage validates pagination parameters
func NewPage(index, size int) (Page, error) {
	if index < 0 {
		return Page{}, fmt.Errorf("%w: page index must not be negative", ErrInvalidPage)
	}
	if size <= 0 {
		return Page{}, fmt.Errorf("%w: page size must be positive", ErrInvalidPage)
	}
	return Page{Index: index, Size: size}, nil
}

// Beyond reports whether the page starts past any representable offset.
// Such a page is always empty.
func (p Page) Beyond() bool {
	return p.Size > 0 && p.Index > math.MaxInt/p.Size
}

// Offset returns the number of records to skip, saturating at math.MaxInt
func (p Page) Offset() int {
	if p.Beyond() {
		return math.MaxInt
	}
	return p.Index * p.Size
}

// Slice cuts the page out of an ordered result set. Out-of-range pages are empty.
func (p Page) Slice(bookings []*Booking) []*Booking {
	if p.Beyond() {
		return []*Booking{}
	}

	offset := p.Offset()
	if offset >= len(bookings) {
		return []*Booking{}
	}

	end := offset + p.Size
	if end > len(bookings) {
		end = len(bookings)
	}
	return bookings[offset:end]
}
