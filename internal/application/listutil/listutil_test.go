package listutil

import (
	"net/url"
	"reflect"
	"testing"
)

// TestParse_Defaults verifies defaults when no query values are provided.
func TestParse_Defaults(t *testing.T) {
	p := Parse(url.Values{}, []string{"name"})
	want := Params{Dir: "asc", Page: 1, PerPage: DefaultPerPage}
	if p != want {
		t.Errorf("Parse = %+v, want %+v", p, want)
	}
}

// TestParse_Values verifies each parameter and its fallback.
func TestParse_Values(t *testing.T) {
	tests := []struct {
		name  string
		query url.Values
		want  Params
	}{
		{"all valid", url.Values{"q": {" ana "}, "sort": {"name"}, "dir": {"desc"}, "page": {"3"}, "per_page": {"50"}},
			Params{Search: "ana", Sort: "name", Dir: "desc", Page: 3, PerPage: 50}},
		{"unknown column", url.Values{"sort": {"password"}}, Params{Dir: "asc", Page: 1, PerPage: DefaultPerPage}},
		{"bad dir", url.Values{"dir": {"sideways"}}, Params{Dir: "asc", Page: 1, PerPage: DefaultPerPage}},
		{"negative page", url.Values{"page": {"-1"}}, Params{Dir: "asc", Page: 1, PerPage: DefaultPerPage}},
		{"per_page not offered", url.Values{"per_page": {"25"}}, Params{Dir: "asc", Page: 1, PerPage: DefaultPerPage}},
		{"garbage page", url.Values{"page": {"x"}}, Params{Dir: "asc", Page: 1, PerPage: DefaultPerPage}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.query, []string{"name", "document"}); got != tt.want {
				t.Errorf("Parse = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// TestParams_Query verifies defaults are omitted and search survives paging.
func TestParams_Query(t *testing.T) {
	p := Params{Search: "ruiz", Sort: "name", Dir: "desc", Page: 1, PerPage: DefaultPerPage}
	if got := p.Query(2); got != "dir=desc&page=2&q=ruiz&sort=name" {
		t.Errorf("Query(2) = %q", got)
	}
	if got := (Params{Dir: "asc", PerPage: 50}).Query(1); got != "per_page=50" {
		t.Errorf("Query(1) = %q", got)
	}
}

// TestParams_SortQuery verifies the active column toggles direction.
func TestParams_SortQuery(t *testing.T) {
	p := Params{Sort: "name", Dir: "asc", PerPage: DefaultPerPage}
	if got := p.SortQuery("name"); got != "dir=desc&sort=name" {
		t.Errorf("SortQuery(active) = %q", got)
	}
	if got := p.SortQuery("document"); got != "dir=asc&sort=document" {
		t.Errorf("SortQuery(other) = %q", got)
	}
}

// TestNewPageInfo verifies page clamping and total page computation.
func TestNewPageInfo(t *testing.T) {
	tests := []struct {
		page, perPage, total int
		want                 PageInfo
	}{
		{1, 20, 0, PageInfo{Page: 1, PerPage: 20, Total: 0, TotalPages: 1}},
		{1, 20, 45, PageInfo{Page: 1, PerPage: 20, Total: 45, TotalPages: 3}},
		{9, 20, 45, PageInfo{Page: 3, PerPage: 20, Total: 45, TotalPages: 3}},
		{0, 0, 5, PageInfo{Page: 1, PerPage: DefaultPerPage, Total: 5, TotalPages: 1}},
		{1, 10, -3, PageInfo{Page: 1, PerPage: 10, Total: 0, TotalPages: 1}},
	}
	for _, tt := range tests {
		if got := NewPageInfo(tt.page, tt.perPage, tt.total); got != tt.want {
			t.Errorf("NewPageInfo(%d,%d,%d) = %+v, want %+v", tt.page, tt.perPage, tt.total, got, tt.want)
		}
	}
}

// TestPageInfo_Rows verifies start and end rows, including the empty case.
func TestPageInfo_Rows(t *testing.T) {
	p := NewPageInfo(3, 20, 45)
	if p.StartRow() != 41 || p.EndRow() != 45 {
		t.Errorf("rows = %d-%d, want 41-45", p.StartRow(), p.EndRow())
	}
	empty := NewPageInfo(1, 20, 0)
	if empty.StartRow() != 0 || empty.EndRow() != 0 {
		t.Errorf("empty rows = %d-%d, want 0-0", empty.StartRow(), empty.EndRow())
	}
	if empty.ShowPagination() {
		t.Error("ShowPagination should be false for an empty list")
	}
}

// TestPageInfo_PageNumbers verifies the window is centred and clamped.
func TestPageInfo_PageNumbers(t *testing.T) {
	tests := []struct {
		page, total int
		want        []int
	}{
		{1, 200, []int{1, 2, 3, 4, 5}},
		{5, 200, []int{3, 4, 5, 6, 7}},
		{10, 200, []int{6, 7, 8, 9, 10}},
		{2, 30, []int{1, 2}},
	}
	for _, tt := range tests {
		got := NewPageInfo(tt.page, 20, tt.total).PageNumbers()
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("PageNumbers(page %d, total %d) = %v, want %v", tt.page, tt.total, got, tt.want)
		}
	}
}

// TestPaginate verifies slicing at the edges.
func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	if got := Paginate(items, NewPageInfo(2, 10, len(items))); !reflect.DeepEqual(got, items) {
		t.Errorf("single page = %v", got)
	}
	info := PageInfo{Page: 3, PerPage: 2, Total: 5, TotalPages: 3}
	if got := Paginate(items, info); !reflect.DeepEqual(got, []int{5}) {
		t.Errorf("last page = %v, want [5]", got)
	}
	beyond := PageInfo{Page: 9, PerPage: 2, Total: 5, TotalPages: 3}
	if got := Paginate(items, beyond); len(got) != 0 {
		t.Errorf("beyond end = %v, want empty", got)
	}
}
