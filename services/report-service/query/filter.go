// Package query holds the read-side views over the report collection:
// predicate filtering and derived statistics. Everything here is a pure
// function of its input.
package query

import (
	"strconv"
	"strings"
	"time"

	"campus-facility-report-system/services/report-service/models"
)

// Date range filters, measured as whole-day difference between now and the
// report's creation time.
const (
	RangeAll   = "all"
	RangeToday = "today"
	RangeWeek  = "week"
	RangeMonth = "month"
)

// Criteria is the predicate set applied to a listing. Zero values ("" and
// false) mean "no restriction" except Viewer: non-admin callers only ever
// see their own reports.
type Criteria struct {
	Viewer    string
	IsAdmin   bool
	Status    string
	Building  string
	DateRange string
	Query     string
}

// Filter narrows reports to those matching every criterion. Order is
// preserved; filters never reorder.
func Filter(reports []models.Report, c Criteria, now time.Time) []models.Report {
	q := strings.ToLower(strings.TrimSpace(c.Query))

	out := make([]models.Report, 0, len(reports))
	for _, r := range reports {
		if !c.IsAdmin && r.ReporterID != c.Viewer {
			continue
		}
		if c.Status != "" && c.Status != "all" && string(r.Status) != c.Status {
			continue
		}
		if c.Building != "" && c.Building != "all" && r.Building != c.Building {
			continue
		}
		if !withinRange(r.CreatedAt, now, c.DateRange) {
			continue
		}
		if !matchesQuery(r, q) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func withinRange(createdAt, now time.Time, dateRange string) bool {
	var maxDays int
	switch dateRange {
	case RangeToday:
		maxDays = 0
	case RangeWeek:
		maxDays = 7
	case RangeMonth:
		maxDays = 30
	default:
		return true
	}
	days := int(now.Sub(createdAt).Hours() / 24)
	return days <= maxDays
}

func matchesQuery(r models.Report, q string) bool {
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.Building), q) ||
		strings.Contains(strings.ToLower(r.Floor), q) ||
		strings.Contains(strings.ToLower(r.Room), q) ||
		strings.Contains(strings.ToLower(r.Description), q) ||
		strings.Contains(strconv.FormatInt(r.ID, 10), q)
}
