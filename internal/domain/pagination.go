package domain

import "math"

// PaginationParams holds offset-based pagination parameters for list queries.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Offset returns the row offset for the current page (0-based).
// Formula: (Page - 1) * PageSize, saturating at math.MaxInt.
func (p PaginationParams) Offset() int {
	if p.Page < 1 || p.PageSize < 1 {
		return 0
	}
	if p.Overflows() {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PageSize
}

// Overflows reports whether the offset of the page does not fit in an int.
func (p PaginationParams) Overflows() bool {
	return p.Page > 1 && p.PageSize > 0 && p.Page-1 > math.MaxInt/p.PageSize
}

// Limit returns the maximum number of rows for the current page.
func (p PaginationParams) Limit() int {
	return p.PageSize
}

// CheckPage returns ErrInvalidPage when the page lies past the last page of total rows.
// The first page is always valid, even for an empty result.
func (p PaginationParams) CheckPage(total int) error {
	if p.Page < 1 {
		return ErrInvalidPage
	}
	if p.Page > 1 && p.Offset() >= total {
		return ErrInvalidPage
	}
	return nil
}
