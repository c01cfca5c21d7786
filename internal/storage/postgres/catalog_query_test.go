package postgres

import (
	"strings"
	"testing"

	"github.com/princekumarofficial/video-service/internal/catalog"
)

func TestBuildListQueryMatchAll(t *testing.T) {
	query, args := buildListQuery(catalog.Query{
		Skip:          10,
		Limit:         10,
		SortBy:        catalog.SortByCreatedAt,
		SortDirection: catalog.Ascending,
	})

	if strings.Contains(query, "WHERE") {
		t.Fatalf("match-all query must not filter:\n%s", query)
	}
	if !strings.Contains(query, "LEFT JOIN users u ON u.id = v.owner_id") {
		t.Fatalf("expected owner join:\n%s", query)
	}
	if !strings.Contains(query, "ORDER BY v.created_at ASC, v.id ASC") {
		t.Fatalf("expected created_at ordering with id tie-break:\n%s", query)
	}
	if !strings.HasSuffix(query, "OFFSET $1 LIMIT $2") {
		t.Fatalf("expected window placeholders:\n%s", query)
	}
	if len(args) != 2 || args[0] != 10 || args[1] != 10 {
		t.Fatalf("unexpected args %v", args)
	}
}

func TestBuildListQueryFiltersAndSort(t *testing.T) {
	query, args := buildListQuery(catalog.Query{
		Limit:         5,
		TextFilter:    "50%_off",
		SortBy:        catalog.SortByTitle,
		SortDirection: catalog.Descending,
		OwnerFilter:   "6f1c2a4e-8d7b-4b8a-9a51-3f0e2d1c0b9a",
	})

	if !strings.Contains(query, "v.owner_id = $1") {
		t.Fatalf("expected owner filter:\n%s", query)
	}
	if !strings.Contains(query, "(v.title ILIKE $2 OR v.description ILIKE $2)") {
		t.Fatalf("expected text filter on both fields:\n%s", query)
	}
	if !strings.Contains(query, `ORDER BY v.title COLLATE "C" DESC, v.id ASC`) {
		t.Fatalf("expected title ordering:\n%s", query)
	}
	if args[1] != `%50\%\_off%` {
		t.Fatalf("expected escaped like pattern, got %v", args[1])
	}
	if len(args) != 4 || args[2] != 0 || args[3] != 5 {
		t.Fatalf("unexpected args %v", args)
	}
}

func TestBuildListQuerySearchFieldRestriction(t *testing.T) {
	cases := map[catalog.SearchField]string{
		catalog.SearchTitle:       "WHERE v.title ILIKE $1",
		catalog.SearchDescription: "WHERE v.description ILIKE $1",
	}

	for field, want := range cases {
		query, _ := buildListQuery(catalog.Query{Limit: 10, TextFilter: "cat", SearchField: field, SortBy: catalog.SortByUpdatedAt})
		if !strings.Contains(query, want) {
			t.Fatalf("field %q: expected %q in:\n%s", field, want, query)
		}
		if !strings.Contains(query, "ORDER BY v.updated_at ASC") {
			t.Fatalf("expected updated_at ordering:\n%s", query)
		}
	}
}

func TestBuildListQueryUnknownSortFallsBack(t *testing.T) {
	query, _ := buildListQuery(catalog.Query{Limit: 10, SortBy: "views"})

	if !strings.Contains(query, "ORDER BY v.created_at ASC") {
		t.Fatalf("expected fallback to created_at:\n%s", query)
	}
}
