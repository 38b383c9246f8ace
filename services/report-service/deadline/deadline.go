// Package deadline maps an urgency level to a due date. It is also the
// repair mechanism for reports whose stored deadline cannot be normalized.
package deadline

import (
	"time"

	"campus-facility-report-system/services/report-service/dates"
	"campus-facility-report-system/services/report-service/models"
)

// Hours granted per urgency level. Urgent is a half day; fractional days are
// honored at hour resolution, never rounded up.
var urgencyHours = map[models.Urgency]time.Duration{
	models.UrgencyLow:    14 * 24 * time.Hour,
	models.UrgencyNormal: 7 * 24 * time.Hour,
	models.UrgencyHigh:   24 * time.Hour,
	models.UrgencyUrgent: 12 * time.Hour,
}

// Deadline is a computed due date in every form callers need.
type Deadline struct {
	At        time.Time
	Canonical string
	Display   string
}

// Compute derives the due date for urgency from the reference time. Unknown
// urgency levels fall back to the normal service window.
func Compute(urgency models.Urgency, ref time.Time) Deadline {
	hours, ok := urgencyHours[urgency]
	if !ok {
		hours = urgencyHours[models.UrgencyNormal]
	}
	at := ref.Add(hours)
	canonical := at.Format(dates.CanonicalLayout)
	return Deadline{
		At:        at,
		Canonical: canonical,
		Display:   dates.ToDisplay(canonical),
	}
}
