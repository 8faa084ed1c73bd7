package pagination

import (
	"gorm.io/gorm"
)

// DefaultLimit is used when the client does not send a limit.
const DefaultLimit = 100

// PageRequest holds offset pagination parameters parsed from query strings.
type PageRequest struct {
	Skip  int `form:"skip" binding:"omitempty,min=0"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=1000"`
}

// Defaults fills in default values when skip or limit are not provided.
func (p *PageRequest) Defaults() {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
}

// PageResponse wraps a list of items with offset metadata.
type PageResponse[T any] struct {
	Data       []T   `json:"data"`
	Skip       int   `json:"skip"`
	Limit      int   `json:"limit"`
	TotalItems int64 `json:"total_items"`
}

// NewPageResponse creates a PageResponse from the given data and total count.
func NewPageResponse[T any](data []T, skip, limit int, totalItems int64) PageResponse[T] {
	if data == nil {
		data = []T{}
	}
	return PageResponse[T]{
		Data:       data,
		Skip:       skip,
		Limit:      limit,
		TotalItems: totalItems,
	}
}

// Paginate returns a GORM scope that applies OFFSET and LIMIT for the given page request.
func Paginate(req PageRequest) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(req.Skip).Limit(req.Limit)
	}
}
