package services

import (
	"fmt"

	"callforscience/models"
)

// DefaultPageSize is used when no page size is requested.
const DefaultPageSize = 20

// PageSizes is the menu of page sizes offered to the user.
var PageSizes = []int{10, 20, 30, 50}

// ValidPageSize reports whether size is on the menu.
func ValidPageSize(size int) bool {
	for _, s := range PageSizes {
		if s == size {
			return true
		}
	}
	return false
}

// PageRequest is the 1-based page and page size the user is looking at.
type PageRequest struct {
	Page int
	Size int
}

// NewPageRequest validates size against the menu. A zero size selects DefaultPageSize.
func NewPageRequest(page, size int) (PageRequest, error) {
	if size == 0 {
		size = DefaultPageSize
	}
	if !ValidPageSize(size) {
		return PageRequest{}, fmt.Errorf("%w: page size %d", models.ErrInvalidCriteria, size)
	}
	return PageRequest{Page: page, Size: size}, nil
}

// WithSize changes the page size and goes back to the first page.
func (r PageRequest) WithSize(size int) PageRequest {
	return PageRequest{Page: 1, Size: size}
}

// Next returns the request for the following page. Paginate clamps it.
func (r PageRequest) Next() PageRequest { return PageRequest{Page: r.Page + 1, Size: r.Size} }

// Prev returns the request for the previous page. Paginate clamps it.
func (r PageRequest) Prev() PageRequest { return PageRequest{Page: r.Page - 1, Size: r.Size} }

// TotalPages returns ceil(count/size), never less than 1.
func TotalPages(count, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	pages := (count + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

// Paginate returns the contiguous slice [(page-1)*size, page*size) of items.
// The page is clamped into [1, TotalPages].
func Paginate(items []*models.Listing, req PageRequest) *models.Page {
	size := req.Size
	if size <= 0 {
		size = DefaultPageSize
	}
	total := TotalPages(len(items), size)

	page := req.Page
	if page < 1 {
		page = 1
	}
	if page > total {
		page = total
	}

	start := (page - 1) * size
	end := start + size
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}

	return &models.Page{
		Items:      items[start:end:end],
		Total:      len(items),
		Page:       page,
		PerPage:    size,
		TotalPages: total,
	}
}
