package service

import "math"

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
	// MaxPage keeps (page-1)*limit from overflowing int.
	MaxPage = math.MaxInt / MaxPageSize
)

// Pagination describes one page of a listing.
type Pagination struct {
	Current int   `json:"current"`
	Pages   int   `json:"pages"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
}

// NormalizePage clamps a 1-based page and a page size to sane values.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

// Offset converts a 1-based page into a row offset.
func Offset(page, limit int) int {
	return (page - 1) * limit
}

// NewPagination computes pages = ceil(total/limit).
func NewPagination(total int64, page, limit int) Pagination {
	return Pagination{
		Current: page,
		Pages:   int(math.Ceil(float64(total) / float64(limit))),
		Total:   total,
		Limit:   limit,
	}
}
