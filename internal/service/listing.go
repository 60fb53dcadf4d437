package service

import "cinetheque/internal/pagination"

// Listing is one page of results together with the unpaged total.
type Listing[T any] struct {
	Items      []T             `json:"items"`
	Total      int64           `json:"total"`
	Pagination pagination.Page `json:"pagination"`
}

func newListing[T any](items []T, total int64, req pagination.Request) *Listing[T] {
	if items == nil {
		items = []T{}
	}
	return &Listing[T]{
		Items:      items,
		Total:      total,
		Pagination: pagination.FromRequest(req, int(total)),
	}
}
