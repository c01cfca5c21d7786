package catalog

import (
	"testing"

	"github.com/google/uuid"
)

func TestNormalizePageLimitLiteralPolicy(t *testing.T) {
	cases := []struct {
		name        string
		page, limit string
	}{
		{"absent", "", ""},
		{"numeric", "2", "25"},
		{"negative", "-3", "-1"},
		{"zero", "0", "0"},
		{"non numeric", "abc", "ten"},
		{"float", "1.5", "2.5"},
		{"huge", "99999999999999999999", "1e9"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := Normalize(RawParams{Page: tc.page, Limit: tc.limit}, Options{MaxLimit: 100})
			if q.Skip != 0 || q.Limit != DefaultLimit {
				t.Fatalf("expected skip 0 limit %d, got skip %d limit %d", DefaultLimit, q.Skip, q.Limit)
			}
		})
	}
}

func TestNormalizeHonorPageParams(t *testing.T) {
	opts := Options{HonorPageParams: true, MaxLimit: 50}

	cases := []struct {
		name        string
		page, limit string
		skip, size  int
	}{
		{"second page", "2", "10", 10, 10},
		{"third page of five", "3", "5", 10, 5},
		{"limit clamped", "1", "500", 0, 50},
		{"negative page", "-4", "10", 0, 10},
		{"zero limit", "2", "0", 10, 10},
		{"garbage", "x", "y", 0, 10},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := Normalize(RawParams{Page: tc.page, Limit: tc.limit}, opts)
			if q.Skip != tc.skip || q.Limit != tc.size {
				t.Fatalf("expected skip %d limit %d, got skip %d limit %d", tc.skip, tc.size, q.Skip, q.Limit)
			}
			if q.Skip < 0 {
				t.Fatalf("negative skip %d", q.Skip)
			}
		})
	}
}

func TestNormalizeSortBy(t *testing.T) {
	cases := map[string]SortField{
		"title":       SortByTitle,
		"createdAt":   SortByCreatedAt,
		"updatedAt":   SortByUpdatedAt,
		"":            SortByCreatedAt,
		"views":       SortByCreatedAt,
		"TITLE":       SortByCreatedAt,
		"owner; drop": SortByCreatedAt,
	}

	for in, want := range cases {
		if got := Normalize(RawParams{SortBy: in}, Options{}).SortBy; got != want {
			t.Fatalf("sortBy %q: expected %q, got %q", in, want, got)
		}
	}
}

func TestNormalizeSortDirection(t *testing.T) {
	cases := map[string]SortDirection{
		"asc":  Ascending,
		"desc": Descending,
		"":     Ascending,
		"DESC": Ascending,
		"-1":   Ascending,
	}

	for in, want := range cases {
		if got := Normalize(RawParams{SortType: in}, Options{}).SortDirection; got != want {
			t.Fatalf("sortType %q: expected %d, got %d", in, want, got)
		}
	}
}

func TestNormalizeSearchField(t *testing.T) {
	cases := map[string]SearchField{
		"title":       SearchTitle,
		"description": SearchDescription,
		"":            SearchAny,
		"owner":       SearchAny,
	}

	for in, want := range cases {
		if got := Normalize(RawParams{SearchField: in}, Options{}).SearchField; got != want {
			t.Fatalf("searchField %q: expected %q, got %q", in, want, got)
		}
	}
}

func TestNormalizeOwnerFilter(t *testing.T) {
	id := uuid.NewString()

	if got := Normalize(RawParams{UserID: id}, Options{}).OwnerFilter; got != id {
		t.Fatalf("expected owner filter %q, got %q", id, got)
	}
	for _, bad := range []string{"", "42", "not-a-uuid", "64b7f0c2e1d3a4b5c6d7e8f9"} {
		if got := Normalize(RawParams{UserID: bad}, Options{}).OwnerFilter; got != "" {
			t.Fatalf("userId %q: expected no owner filter, got %q", bad, got)
		}
	}
}

func TestNormalizeTrimsTextFilter(t *testing.T) {
	q := Normalize(RawParams{Query: "  cats  "}, Options{})
	if q.TextFilter != "cats" {
		t.Fatalf("unexpected text filter %q", q.TextFilter)
	}
}
