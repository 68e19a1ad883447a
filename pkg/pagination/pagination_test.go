package pagination

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValidateClamps(t *testing.T) {
	tests := []struct {
		in   PaginationParams
		want PaginationParams
	}{
		{PaginationParams{}, PaginationParams{Page: 1, PerPage: 15}},
		{PaginationParams{Page: 3, PerPage: 500}, PaginationParams{Page: 3, PerPage: 100}},
		{PaginationParams{Page: -2, PerPage: 20}, PaginationParams{Page: 1, PerPage: 20}},
	}
	for _, tt := range tests {
		got := tt.in
		got.Validate()
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Validate(%+v) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestNewPagination(t *testing.T) {
	got := NewPagination(2, 15, 31)
	want := &Pagination{CurrentPage: 2, PerPage: 15, Total: 31, TotalPages: 3, HasNext: true, HasPrev: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NewPagination mismatch (-want +got):\n%s", diff)
	}
	p := PaginationParams{Page: 2, PerPage: 15}
	if p.Offset() != 15 {
		t.Errorf("Offset() = %d, want 15", p.Offset())
	}
}

func TestFromQuery(t *testing.T) {
	tests := []struct {
		page, perPage string
		want          PaginationParams
	}{
		{"", "", PaginationParams{Page: 1, PerPage: 50}},
		{"3", "20", PaginationParams{Page: 3, PerPage: 20}},
		{"x", "1000", PaginationParams{Page: 1, PerPage: MaxPerPage}},
		{"0", "-1", PaginationParams{Page: 1, PerPage: DefaultPerPage}},
	}
	for _, tt := range tests {
		got := FromQuery(tt.page, tt.perPage, 50)
		if diff := cmp.Diff(tt.want, *got); diff != "" {
			t.Errorf("FromQuery(%q, %q) mismatch (-want +got):\n%s", tt.page, tt.perPage, diff)
		}
	}
}

func TestPaginateEmpty(t *testing.T) {
	var none []string
	got := Paginate(none, DefaultPagination(), 0)
	if got.Items == nil || len(got.Items) != 0 {
		t.Errorf("Items = %#v, want empty slice", got.Items)
	}
	if got.Pagination.TotalPages != 0 || got.Pagination.HasNext {
		t.Errorf("Pagination = %+v", got.Pagination)
	}
}
