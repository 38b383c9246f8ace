package store

import (
	"time"

	"campus-facility-report-system/services/report-service/models"
)

// duplicateWindow is the resubmission window: a report at the same location
// within the last hour, on the same calendar day, blocks a new submission.
const duplicateWindow = time.Hour

// FindDuplicate returns the first existing report the candidate duplicates,
// or nil. Existing reports are scanned in collection order.
func FindDuplicate(candidate models.Report, existing []models.Report, now time.Time) *models.Report {
	for i := range existing {
		r := existing[i]

		age := now.Sub(r.CreatedAt)
		if age < 0 {
			age = -age
		}
		if age >= duplicateWindow {
			continue
		}
		if !r.SameLocation(candidate) {
			continue
		}
		if !sameCalendarDay(r.CreatedAt, now) {
			continue
		}
		return &existing[i]
	}
	return nil
}

func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}
