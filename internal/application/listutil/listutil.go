// Package listutil parses paging query parameters and slices result sets.
package listutil

import (
	"net/url"
	"slices"
	"strconv"
)

// PageParams carries pagination parameters parsed from a request.
type PageParams struct {
	Page    int // 1-indexed page number
	PerPage int // rows per page
}

// PageInfo carries pagination metadata returned alongside a page of results.
type PageInfo struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// DefaultPerPage is the default number of rows per page.
const DefaultPerPage = 20

// PerPageOptions are the allowed rows-per-page values.
var PerPageOptions = []int{10, 20, 50, 100}

// ParsePageParams extracts page and per_page from URL query values.
// PRE: none
// POST: returns valid PageParams with defaults applied
func ParsePageParams(q url.Values) PageParams {
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if !slices.Contains(PerPageOptions, perPage) {
		perPage = DefaultPerPage
	}
	return PageParams{Page: page, PerPage: perPage}
}

// NewPageInfo computes pagination metadata.
// PRE: total >= 0
// POST: returns PageInfo with TotalPages >= 1 and Page clamped to [1, TotalPages]
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	totalPages := max((total+perPage-1)/perPage, 1)
	page = min(max(page, 1), totalPages)
	return PageInfo{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Offset returns the index of the first row on the current page.
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Paginate returns the page of items described by params together with its metadata.
// POST: the returned slice has at most params.PerPage elements
func Paginate[T any](items []T, params PageParams) ([]T, PageInfo) {
	info := NewPageInfo(params.Page, params.PerPage, len(items))
	start := min(info.Offset(), len(items))
	end := min(start+info.PerPage, len(items))
	return items[start:end], info
}
