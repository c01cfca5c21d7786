package postgres

import (
	"fmt"
	"strings"

	"github.com/princekumarofficial/video-service/internal/catalog"
)

const videoColumns = `v.id, v.title, v.description, v.media_url, v.media_key, v.thumbnail_url, v.thumbnail_key,
	v.duration, v.owner_id, v.is_published, v.created_at, v.updated_at`

const ownerColumns = `u.username AS owner_username, u.email AS owner_email, u.avatar AS owner_avatar`

// sortColumns maps catalog sort fields to SQL. Titles use the C collation so
// the order matches byte-wise comparison in the memory store.
var sortColumns = map[catalog.SortField]string{
	catalog.SortByTitle:     `v.title COLLATE "C"`,
	catalog.SortByCreatedAt: "v.created_at",
	catalog.SortByUpdatedAt: "v.updated_at",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildListQuery renders the filter -> sort -> window -> owner join pipeline as one statement.
func buildListQuery(q catalog.Query) (string, []interface{}) {
	var (
		where []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.OwnerFilter != "" {
		where = append(where, "v.owner_id = "+arg(q.OwnerFilter))
	}

	if q.TextFilter != "" {
		pattern := arg("%" + likeEscaper.Replace(q.TextFilter) + "%")
		switch q.SearchField {
		case catalog.SearchTitle:
			where = append(where, "v.title ILIKE "+pattern)
		case catalog.SearchDescription:
			where = append(where, "v.description ILIKE "+pattern)
		default:
			where = append(where, fmt.Sprintf("(v.title ILIKE %s OR v.description ILIKE %s)", pattern, pattern))
		}
	}

	column, ok := sortColumns[q.SortBy]
	if !ok {
		column = sortColumns[catalog.SortByCreatedAt]
	}
	direction := "ASC"
	if q.SortDirection == catalog.Descending {
		direction = "DESC"
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(videoColumns)
	sb.WriteString(", ")
	sb.WriteString(ownerColumns)
	sb.WriteString("\nFROM videos v\nLEFT JOIN users u ON u.id = v.owner_id")
	if len(where) > 0 {
		sb.WriteString("\nWHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	fmt.Fprintf(&sb, "\nORDER BY %s %s, v.id ASC", column, direction)
	fmt.Fprintf(&sb, "\nOFFSET %s LIMIT %s", arg(q.Skip), arg(q.Limit))

	return sb.String(), args
}
