package models

import (
	"time"
)

// Urgency is the caller-declared severity of a fault. It drives the deadline
// policy and is immutable after submission.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyNormal Urgency = "normal"
	UrgencyHigh   Urgency = "high"
	UrgencyUrgent Urgency = "urgent"
)

// Valid reports whether u is one of the known urgency levels.
func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyNormal, UrgencyHigh, UrgencyUrgent:
		return true
	}
	return false
}

// Status is the lifecycle stage of a report.
type Status string

const (
	StatusSubmitted  Status = "submitted"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusSubmitted, StatusProcessing, StatusCompleted:
		return true
	}
	return false
}

// Report is a single facility fault report. Deadline holds the canonical
// YYYY-MM-DD due date; an empty string means an administrator cleared it.
type Report struct {
	ID          int64      `json:"id"`
	ReporterID  string     `json:"reporter_id"`
	Building    string     `json:"building"`
	Floor       string     `json:"floor"`
	Room        string     `json:"room"`
	Description string     `json:"description"`
	ImageURL    string     `json:"image_url,omitempty"`
	Urgency     Urgency    `json:"urgency"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	Deadline    string     `json:"deadline,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// SameLocation reports whether both reports point at the same
// (building, floor, room) triple.
func (r Report) SameLocation(other Report) bool {
	return r.Building == other.Building && r.Floor == other.Floor && r.Room == other.Room
}

// SubmitForm is the intake payload handed over by the presentation layer.
type SubmitForm struct {
	Building    string  `json:"building"`
	Floor       string  `json:"floor"`
	Room        string  `json:"room"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url,omitempty"`
	Urgency     Urgency `json:"urgency"`
}

// ReportEvent is published to the reports exchange when a report is created
// or its status changes.
type ReportEvent struct {
	Type       string    `json:"type"` // new_report, status_update
	ReportID   int64     `json:"report_id"`
	Building   string    `json:"building"`
	Floor      string    `json:"floor"`
	Room       string    `json:"room"`
	Urgency    Urgency   `json:"urgency"`
	Status     Status    `json:"status"`
	ReporterID string    `json:"reporter_id"`
	Deadline   string    `json:"deadline,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
