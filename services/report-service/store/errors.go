package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a status or deadline update targets a report
// id that does not exist.
var ErrNotFound = errors.New("report not found")

// ValidationError marks a required submission field that was missing or
// blank. The submission is not committed.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %q is required", e.Field)
}

// DuplicateReportError is returned when a submission matches an existing
// report inside the duplicate window. ExistingID identifies the conflicting
// report so the caller can reference it.
type DuplicateReportError struct {
	ExistingID int64
}

func (e *DuplicateReportError) Error() string {
	return fmt.Sprintf("duplicate of report %d within the last hour", e.ExistingID)
}
