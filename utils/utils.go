package utils

import "math"

// Pagination represents the pagination details.
type Pagination struct {
	TotalItems  int `json:"totalItems"`
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
	TotalPages  int `json:"totalPages"`
}

// CreatePagination creates a Pagination object.
func CreatePagination(totalItems, page, pageSize int) *Pagination {
	if pageSize <= 0 {
		pageSize = 10 // Default page size
	}
	if page <= 0 {
		page = 1 // Default page
	}

	totalPages := int(math.Ceil(float64(totalItems) / float64(pageSize)))

	return &Pagination{
		TotalItems:  totalItems,
		CurrentPage: page,
		PageSize:    pageSize,
		TotalPages:  totalPages,
	}
}

// Bounds returns the half-open slice range [start, end) of the current page.
// Pages past the end give an empty range at TotalItems.
func (p *Pagination) Bounds() (int, int) {
	if p.TotalItems <= 0 || p.PageSize <= 0 || p.CurrentPage-1 > p.TotalItems/p.PageSize {
		return p.TotalItems, p.TotalItems
	}
	start := min((p.CurrentPage-1)*p.PageSize, p.TotalItems)
	end := start + min(p.PageSize, p.TotalItems-start)
	return start, end
}
