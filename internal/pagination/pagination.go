// Package pagination pages through month listings.
package pagination

import "gorm.io/gorm"

const (
	// DefaultPageSize covers a typical month in one page.
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// PageRequest is bound from the page and page_size query parameters.
type PageRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=200"`
}

// Normalized returns p with zero fields defaulted and the size capped.
func (p PageRequest) Normalized() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.PageSize < 1:
		p.PageSize = DefaultPageSize
	case p.PageSize > MaxPageSize:
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset is the number of rows before the page. p must be normalized.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// PageResponse is one page of T plus the totals needed to page further.
type PageResponse[T any] struct {
	Data       []T   `json:"data"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// NewPageResponse builds the response for req given the total row count.
// Data is never nil so that it encodes as [].
func NewPageResponse[T any](data []T, req PageRequest, totalItems int64) PageResponse[T] {
	req = req.Normalized()
	if data == nil {
		data = []T{}
	}
	size := int64(req.PageSize)
	totalPages := int((totalItems + size - 1) / size)
	return PageResponse[T]{
		Data:       data,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
		HasNext:    req.Page < totalPages,
	}
}

// Paginate is a GORM scope applying the page's OFFSET and LIMIT.
func Paginate(req PageRequest) func(db *gorm.DB) *gorm.DB {
	req = req.Normalized()
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(req.Offset()).Limit(req.PageSize)
	}
}
