package models

// Pagination is the envelope attached to every list response.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalItems  int64 `json:"totalItems"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
	Limit       int   `json:"limit"`
}

// NewPagination computes the envelope for a page/limit pair over totalItems.
// hasNextPage is true iff (page × limit) < totalItems.
func NewPagination(page, limit int, totalItems int64) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int((totalItems + int64(limit) - 1) / int64(limit))
	}
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
		HasNextPage: int64(page)*int64(limit) < totalItems,
		HasPrevPage: page > 1,
		Limit:       limit,
	}
}
