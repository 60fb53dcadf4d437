// Package pagination implements offset pagination math shared by list endpoints.
package pagination

import "fmt"

const (
	// DefaultPerPage is the page size used by grid views.
	DefaultPerPage = 12
	// ListPerPage is the page size used by forum topic lists.
	ListPerPage = 10
	// MaxPerPage bounds any caller-supplied page size.
	MaxPerPage = 100
)

// Request is a requested page before the total is known.
type Request struct {
	Page    int
	PerPage int
}

// NewRequest normalizes a 1-based page number and a page size.
func NewRequest(page, perPage, defaultPerPage int) Request {
	if defaultPerPage <= 0 {
		defaultPerPage = DefaultPerPage
	}
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	if page < 1 {
		page = 1
	}
	return Request{Page: page, PerPage: perPage}
}

// Offset is the number of rows to skip.
func (r Request) Offset() int {
	return (r.Page - 1) * r.PerPage
}

// Limit is the number of rows to fetch.
func (r Request) Limit() int {
	return r.PerPage
}

// Page describes one page of a counted result set.
// StartIndex is inclusive and EndIndex exclusive, both 0-based, so
// items[StartIndex:EndIndex] is the visible slice of the full set.
type Page struct {
	Count      int `json:"count"`
	PerPage    int `json:"per_page"`
	Page       int `json:"page"`
	PageCount  int `json:"page_count"`
	StartIndex int `json:"start_index"`
	EndIndex   int `json:"end_index"`
}

// New computes the page for count items shown itemsPerPage at a time.
func New(count, itemsPerPage, page int) Page {
	if count < 0 {
		count = 0
	}
	if itemsPerPage <= 0 {
		itemsPerPage = DefaultPerPage
	}
	if page < 1 {
		page = 1
	}

	p := Page{
		Count:     count,
		PerPage:   itemsPerPage,
		Page:      page,
		PageCount: PageCount(count, itemsPerPage),
	}

	p.StartIndex = (page - 1) * itemsPerPage
	if p.StartIndex > count {
		p.StartIndex = count
	}
	p.EndIndex = p.StartIndex + itemsPerPage
	if p.EndIndex > count {
		p.EndIndex = count
	}
	return p
}

// FromRequest computes the page for a request once the total is known.
func FromRequest(r Request, count int) Page {
	return New(count, r.PerPage, r.Page)
}

// PageCount returns ceil(count / itemsPerPage).
func PageCount(count, itemsPerPage int) int {
	if count <= 0 || itemsPerPage <= 0 {
		return 0
	}
	return (count + itemsPerPage - 1) / itemsPerPage
}

// Empty reports whether the page renders no items.
func (p Page) Empty() bool {
	return p.EndIndex <= p.StartIndex
}

// HasPrev reports whether an earlier page exists.
func (p Page) HasPrev() bool {
	return p.Page > 1 && p.PageCount > 0
}

// HasNext reports whether a later page exists.
func (p Page) HasNext() bool {
	return p.Page < p.PageCount
}

// Label renders the visible range as "start–end of count" with 1-based,
// inclusive bounds. An empty page renders the empty string.
func (p Page) Label() string {
	if p.Empty() {
		return ""
	}
	return fmt.Sprintf("%d–%d of %d", p.StartIndex+1, p.EndIndex, p.Count)
}
