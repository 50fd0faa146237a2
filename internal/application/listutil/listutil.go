// Package listutil parses list-view query parameters and pages through
// in-memory result sets. The backend returns whole collections, so search,
// sorting and pagination all happen on this side.
package listutil

import (
	"net/url"
	"strconv"
	"strings"
)

// DefaultPerPage is the default number of rows per page.
const DefaultPerPage = 20

// PerPageOptions are the allowed rows-per-page values.
var PerPageOptions = []int{10, 20, 50, 100}

// Params carries the list parameters read from a request.
type Params struct {
	Search  string // free-text query, "q"
	Sort    string // one of the allowed columns, or ""
	Dir     string // "asc" or "desc"
	Page    int    // 1-indexed
	PerPage int
}

// Parse reads q, sort, dir, page and per_page from query values. Unknown sort
// columns are dropped and out-of-range values fall back to defaults.
// POST: Dir is "asc" or "desc", Page >= 1, PerPage is one of PerPageOptions
func Parse(q url.Values, sortColumns []string) Params {
	p := Params{
		Search:  strings.TrimSpace(q.Get("q")),
		Sort:    q.Get("sort"),
		Dir:     q.Get("dir"),
		PerPage: DefaultPerPage,
	}
	if !contains(sortColumns, p.Sort) {
		p.Sort = ""
	}
	if p.Dir != "desc" {
		p.Dir = "asc"
	}
	p.Page, _ = strconv.Atoi(q.Get("page"))
	if p.Page < 1 {
		p.Page = 1
	}
	if n, err := strconv.Atoi(q.Get("per_page")); err == nil && containsInt(PerPageOptions, n) {
		p.PerPage = n
	}
	return p
}

// Query encodes p for a link to page, keeping search and sort. Defaults are
// left out so links stay short.
func (p Params) Query(page int) string {
	v := url.Values{}
	if page > 1 {
		v.Set("page", strconv.Itoa(page))
	}
	if p.Search != "" {
		v.Set("q", p.Search)
	}
	if p.Sort != "" {
		v.Set("sort", p.Sort)
		v.Set("dir", p.Dir)
	}
	if p.PerPage != DefaultPerPage && p.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(p.PerPage))
	}
	return v.Encode()
}

// SortQuery returns the query for a column header link: clicking the active
// column flips its direction, any other column starts ascending.
func (p Params) SortQuery(col string) string {
	next := p
	next.Sort = col
	next.Dir = "asc"
	if p.Sort == col && p.Dir == "asc" {
		next.Dir = "desc"
	}
	return next.Query(1)
}

// PageInfo carries pagination metadata for rendering.
type PageInfo struct {
	Page       int
	PerPage    int
	Total      int
	TotalPages int
}

// NewPageInfo computes pagination metadata, clamping page into range.
// POST: 1 <= Page <= TotalPages, TotalPages >= 1
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if total < 0 {
		total = 0
	}
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	page = min(max(page, 1), totalPages)
	return PageInfo{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

func (p PageInfo) offset() int {
	return (p.Page - 1) * p.PerPage
}

// StartRow returns the 1-indexed first row on the page, or 0 when empty.
func (p PageInfo) StartRow() int {
	if p.Total == 0 {
		return 0
	}
	return p.offset() + 1
}

// EndRow returns the 1-indexed last row on the page.
func (p PageInfo) EndRow() int {
	return min(p.offset()+p.PerPage, p.Total)
}

// PageNumbers returns at most five page numbers centred on the current page.
func (p PageInfo) PageNumbers() []int {
	const buttons = 5
	start := max(p.Page-buttons/2, 1)
	end := start + buttons - 1
	if end > p.TotalPages {
		end = p.TotalPages
		start = max(end-buttons+1, 1)
	}
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}

// ShowPagination is true when the rows do not fit on one page.
func (p PageInfo) ShowPagination() bool {
	return p.Total > p.PerPage
}

// Paginate returns the slice of items on the page described by info.
// INVARIANT: items is not modified
func Paginate[T any](items []T, info PageInfo) []T {
	start := min(info.offset(), len(items))
	end := min(start+info.PerPage, len(items))
	return items[start:end]
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsInt(list []int, n int) bool {
	for _, v := range list {
		if v == n {
			return true
		}
	}
	return false
}
