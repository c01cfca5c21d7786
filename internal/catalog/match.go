package catalog

import (
	"strings"

	"github.com/princekumarofficial/video-service/internal/types"
	"golang.org/x/text/cases"
)

var folder = cases.Fold()

// Matches reports whether v passes the owner and text filters.
// Text matching is a case-insensitive substring test; an empty filter matches everything.
func (q Query) Matches(v types.Video) bool {
	if q.OwnerFilter != "" && v.OwnerID != q.OwnerFilter {
		return false
	}
	if q.TextFilter == "" {
		return true
	}

	needle := folder.String(q.TextFilter)
	switch q.SearchField {
	case SearchTitle:
		return strings.Contains(folder.String(v.Title), needle)
	case SearchDescription:
		return strings.Contains(folder.String(v.Description), needle)
	default:
		return strings.Contains(folder.String(v.Title), needle) ||
			strings.Contains(folder.String(v.Description), needle)
	}
}

// Less orders a before b by SortBy in SortDirection, breaking ties by ID
// ascending so equal requests page identically.
func (q Query) Less(a, b types.Video) bool {
	if c := q.compare(a, b); c != 0 {
		if q.SortDirection == Descending {
			return c > 0
		}
		return c < 0
	}
	return a.ID < b.ID
}

func (q Query) compare(a, b types.Video) int {
	switch q.SortBy {
	case SortByTitle:
		return strings.Compare(a.Title, b.Title)
	case SortByUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}
