// Package catalog turns untrusted list parameters into a bounded Query and
// defines the filter and ordering semantics every video store must follow.
package catalog

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

type SortField string

const (
	SortByTitle     SortField = "title"
	SortByCreatedAt SortField = "createdAt"
	SortByUpdatedAt SortField = "updatedAt"
)

type SortDirection int

const (
	Ascending  SortDirection = 1
	Descending SortDirection = -1
)

type SearchField string

const (
	SearchAny         SearchField = ""
	SearchTitle       SearchField = "title"
	SearchDescription SearchField = "description"
)

// RawParams are list parameters as they arrive on the URL, unvalidated.
type RawParams struct {
	Page        string
	Limit       string
	Query       string
	SearchField string
	SortBy      string
	SortType    string
	UserID      string
}

// Options tune normalization.
type Options struct {
	// HonorPageParams makes numeric page/limit values count. When false,
	// any page or limit resets to the defaults.
	HonorPageParams bool
	MaxLimit        int
}

// Query is a safe, bounded list specification.
type Query struct {
	Skip          int
	Limit         int
	TextFilter    string
	SearchField   SearchField
	SortBy        SortField
	SortDirection SortDirection
	OwnerFilter   string
}

// Normalize never fails: invalid input is replaced by safe defaults.
func Normalize(raw RawParams, opts Options) Query {
	page, limit := DefaultPage, DefaultLimit
	if opts.HonorPageParams {
		page = positiveInt(raw.Page, DefaultPage, 0)
		limit = positiveInt(raw.Limit, DefaultLimit, opts.MaxLimit)
	}

	return Query{
		Skip:          (page - 1) * limit,
		Limit:         limit,
		TextFilter:    strings.TrimSpace(raw.Query),
		SearchField:   normalizeSearchField(raw.SearchField),
		SortBy:        normalizeSortBy(raw.SortBy),
		SortDirection: normalizeSortDirection(raw.SortType),
		OwnerFilter:   normalizeOwner(raw.UserID),
	}
}

func positiveInt(value string, fallback, max int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 1 {
		return fallback
	}
	if max > 0 && n > max {
		return max
	}
	return n
}

func normalizeSearchField(value string) SearchField {
	switch SearchField(value) {
	case SearchTitle, SearchDescription:
		return SearchField(value)
	default:
		return SearchAny
	}
}

func normalizeSortBy(value string) SortField {
	switch SortField(value) {
	case SortByTitle, SortByCreatedAt, SortByUpdatedAt:
		return SortField(value)
	default:
		return SortByCreatedAt
	}
}

func normalizeSortDirection(value string) SortDirection {
	if value == "desc" {
		return Descending
	}
	return Ascending
}

func normalizeOwner(value string) string {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return ""
	}
	return id.String()
}

// IsValidID reports whether id is a well-formed video or user identifier.
func IsValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
