package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/HerbHall/footfall/internal/services"
)

// timestampLayouts are accepted for entry timestamps and statistics range
// bounds, tried in order. A bare date parses to midnight UTC.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	services.DateLayout,
}

// pathID parses the {id} path segment into a positive integer identity.
func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// queryPagination builds a raw pagination descriptor from query parameters.
// Unparseable numbers become zero and are normalized by the repositories.
func queryPagination(r *http.Request) services.Pagination {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))
	return services.Pagination{
		Page:     page,
		PageSize: pageSize,
		Sort:     q.Get("sort"),
		Search:   q.Get("search"),
	}
}

// parseDay parses a yyyy-MM-dd calendar date.
func parseDay(raw string) (time.Time, error) {
	d, err := time.Parse(services.DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected yyyy-MM-dd", raw)
	}
	return d, nil
}

// parseTimestamp parses an entry timestamp or range bound.
func parseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", raw)
}

// queryRange parses the required startDate/endDate query parameters and
// rejects inverted ranges.
func queryRange(r *http.Request) (start, end time.Time, err error) {
	q := r.URL.Query()
	start, err = parseTimestamp(q.Get("startDate"))
	if err != nil {
		return start, end, fmt.Errorf("invalid startDate: %w", err)
	}
	end, err = parseTimestamp(q.Get("endDate"))
	if err != nil {
		return start, end, fmt.Errorf("invalid endDate: %w", err)
	}
	if start.After(end) {
		return start, end, fmt.Errorf("startDate must not be after endDate")
	}
	return start, end, nil
}
