// Package services provides repository interfaces and SQLite implementations
// for store and entry data access. This layer bridges the raw SQLite store
// with the HTTP API, translating pagination descriptors into filtered,
// sorted, counted queries.
package services

import (
	"errors"
	"strings"
	"time"
)

// Pagination bounds for list queries.
const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

// Pagination is the raw descriptor built from query parameters. All fields
// are normalized defensively; no combination of inputs is an error.
type Pagination struct {
	Page     int    // 1-based page number.
	PageSize int    // Rows per page (default 10, max 50).
	Sort     string // "field:direction" expression (validated per-repository).
	Search   string // Case-insensitive substring filter.
}

// PagedResult wraps one page of a list query with its totals.
type PagedResult[T any] struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
	Items      []T `json:"items"`
}

// Sentinel errors returned by repositories.
var (
	ErrNotFound      = errors.New("not found")
	ErrStoreNotFound = errors.New("store not found")
)

// normalizePagination applies defaults and caps. An oversized page size is
// clamped to the maximum, but an invalid one falls back to the default, not
// the minimum; that asymmetry is part of the observed contract.
func normalizePagination(p Pagination) Pagination {
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.Page < 1 {
		p.Page = 1
	}
	p.Search = strings.ToLower(strings.TrimSpace(p.Search))
	return p
}

// offset returns the number of rows to skip for the page.
func (p Pagination) offset() int {
	return (p.Page - 1) * p.PageSize
}

// sortClause resolves a "field:direction" expression into an ORDER BY body.
// The field is matched case-insensitively against allowed; an unrecognized
// field falls back to defaultCol ascending. Direction descends only when the
// second token is "desc" (any case).
func sortClause(expr string, allowed map[string]string, defaultCol string) string {
	field, direction, _ := strings.Cut(expr, ":")
	col, ok := allowed[strings.ToLower(strings.TrimSpace(field))]
	if !ok {
		return defaultCol + " ASC"
	}
	if strings.EqualFold(strings.TrimSpace(direction), "desc") {
		return col + " DESC"
	}
	return col + " ASC"
}

// newPagedResult assembles a page from a normalized descriptor, a total row
// count, and the page's items. Items is never nil.
func newPagedResult[T any](p Pagination, total int, items []T) *PagedResult[T] {
	if items == nil {
		items = []T{}
	}
	return &PagedResult[T]{
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalItems: total,
		TotalPages: (total + p.PageSize - 1) / p.PageSize,
		Items:      items,
	}
}

// sqlTimeLayout is how entry timestamps are bound: UTC text, so SQLite's
// date() grouping and lexicographic range comparison are exact. Reads go
// through the driver's DATETIME conversion, not this layout.
const sqlTimeLayout = "2006-01-02 15:04:05"

// DateLayout is the calendar-date format used in statistics rows and
// date-filter path parameters.
const DateLayout = "2006-01-02"

func formatTime(t time.Time) string {
	return t.UTC().Format(sqlTimeLayout)
}
