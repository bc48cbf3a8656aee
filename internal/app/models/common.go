package models

type WebResponse[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}

type PaginationRequest struct {
	Page  int `json:"page" validate:"omitempty,min=1"`
	Limit int `json:"limit" validate:"omitempty,min=1,max=100"`
}

// Normalize applies the default page/limit used across list endpoints.
func (p *PaginationRequest) Normalize() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = 10
	}
}

func (p *PaginationRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

type Pagination[T any] struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalPages int  `json:"total_pages"`
	TotalItems int  `json:"total_items"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
	Items      T    `json:"items"`
}

// NewPagination assembles a page envelope from a slice and total row count.
func NewPagination[T any](req *PaginationRequest, items T, totalItems int64) *Pagination[T] {
	totalPages := int((totalItems + int64(req.Limit) - 1) / int64(req.Limit))
	return &Pagination[T]{
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: totalPages,
		TotalItems: int(totalItems),
		HasNext:    req.Page < totalPages,
		HasPrev:    req.Page > 1,
		Items:      items,
	}
}
