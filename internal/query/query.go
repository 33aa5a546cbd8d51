// Package query filters and sorts a report snapshot. Apply is a pure
// function: it never mutates its input and its sort is stable, so ties keep
// the collection's original order.
package query

import (
	"sort"
	"strings"

	"opengov/api/internal/report"
)

const All = "all"

const (
	SortByDate     = "date"
	SortByStatus   = "status"
	SortByCategory = "category"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Criteria holds the dashboard filter controls. Empty Category/Status are
// treated like "all". Empty SortBy leaves the collection unsorted.
type Criteria struct {
	Search    string
	Category  string
	Status    string
	SortBy    string
	SortOrder string
}

// Apply returns the filtered, ordered view of reports for c.
func Apply(reports []report.Report, c Criteria) []report.Report {
	search := strings.ToLower(strings.TrimSpace(c.Search))

	out := make([]report.Report, 0, len(reports))
	for _, r := range reports {
		if search != "" &&
			!strings.Contains(strings.ToLower(r.Title), search) &&
			!strings.Contains(strings.ToLower(r.Description), search) {
			continue
		}
		if !matches(c.Category, string(r.Category)) {
			continue
		}
		if !matches(c.Status, string(r.Status)) {
			continue
		}
		out = append(out, r)
	}

	if c.SortBy == "" {
		return out
	}

	desc := c.SortOrder == OrderDesc
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return lessBy(c.SortBy, out[j], out[i])
		}
		return lessBy(c.SortBy, out[i], out[j])
	})
	return out
}

func matches(filter, value string) bool {
	return filter == "" || filter == All || filter == value
}

func lessBy(sortBy string, a, b report.Report) bool {
	switch sortBy {
	case SortByStatus:
		return a.Status < b.Status
	case SortByCategory:
		return a.Category < b.Category
	default:
		return a.CreatedAt.Before(b.CreatedAt)
	}
}
