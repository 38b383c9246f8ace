// Package store owns the authoritative in-memory report collection and keeps
// it mirrored to durable storage. All mutations go through here; reads get
// snapshots. Views never hold a live reference into the collection.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"campus-facility-report-system/pkg/kvstore"
	"campus-facility-report-system/services/report-service/dates"
	"campus-facility-report-system/services/report-service/deadline"
	"campus-facility-report-system/services/report-service/models"
)

// DefaultKey is the single storage key the serialized collection lives under.
const DefaultKey = "facility_reports"

// Store serializes all writes in call order; one mutation completes before
// the next is observed.
type Store struct {
	mu         sync.Mutex
	kv         kvstore.Store
	key        string
	reports    []models.Report // most-recent-first
	lastID     int64
	selectedID int64 // 0 = nothing selected
}

func New(kv kvstore.Store, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{kv: kv, key: key}
}

// Load replaces the collection with the durable record. A missing record
// means an empty collection; a corrupt record is logged and treated the same
// way, never fatal. Deadlines that no longer normalize are recomputed from
// the report's urgency.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, kvstore.ErrNotFound) {
		s.reports = nil
		return nil
	}
	if err != nil {
		return err
	}

	var loaded []models.Report
	if err := json.Unmarshal(raw, &loaded); err != nil {
		log.Printf("[WARN] Stored report collection is corrupt, starting empty: %v", err)
		s.reports = nil
		return nil
	}

	for i := range loaded {
		r := &loaded[i]
		if r.Deadline != "" && dates.Normalize(r.Deadline) == "" {
			repaired := deadline.Compute(r.Urgency, r.CreatedAt)
			log.Printf("[WARN] Report %d has unreadable deadline %q, recomputed to %s", r.ID, r.Deadline, repaired.Canonical)
			r.Deadline = repaired.Canonical
		}
		if r.ID > s.lastID {
			s.lastID = r.ID
		}
	}

	s.reports = loaded
	return nil
}

// Submit validates the form, runs duplicate detection against the current
// collection, stamps the urgency-driven deadline and commits the new report
// at the front of the collection.
func (s *Store) Submit(ctx context.Context, form models.SubmitForm, reporterID string, now time.Time) (models.Report, error) {
	description := strings.TrimSpace(form.Description)

	switch {
	case strings.TrimSpace(form.Building) == "":
		return models.Report{}, &ValidationError{Field: "building"}
	case strings.TrimSpace(form.Floor) == "":
		return models.Report{}, &ValidationError{Field: "floor"}
	case strings.TrimSpace(form.Room) == "":
		return models.Report{}, &ValidationError{Field: "room"}
	case description == "":
		return models.Report{}, &ValidationError{Field: "description"}
	}

	urgency := form.Urgency
	if urgency == "" {
		urgency = models.UrgencyNormal
	}
	if !urgency.Valid() {
		return models.Report{}, &ValidationError{Field: "urgency"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	candidate := models.Report{
		Building: form.Building,
		Floor:    form.Floor,
		Room:     form.Room,
	}
	if dup := FindDuplicate(candidate, s.reports, now); dup != nil {
		return models.Report{}, &DuplicateReportError{ExistingID: dup.ID}
	}

	report := models.Report{
		ID:          s.nextID(now),
		ReporterID:  reporterID,
		Building:    form.Building,
		Floor:       form.Floor,
		Room:        form.Room,
		Description: description,
		ImageURL:    form.ImageURL,
		Urgency:     urgency,
		Status:      models.StatusSubmitted,
		CreatedAt:   now,
		Deadline:    deadline.Compute(urgency, now).Canonical,
	}

	s.reports = append([]models.Report{report}, s.reports...)
	s.persistLocked(ctx)
	return report, nil
}

// UpdateStatus sets a report's status. CompletedAt is stamped only on the
// transition into completed; a later non-completed edit leaves it in place.
func (s *Store) UpdateStatus(ctx context.Context, id int64, newStatus models.Status, now time.Time) (models.Report, error) {
	if !newStatus.Valid() {
		return models.Report{}, &ValidationError{Field: "status"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return models.Report{}, ErrNotFound
	}

	r := &s.reports[idx]
	r.Status = newStatus
	if newStatus == models.StatusCompleted {
		completed := now
		r.CompletedAt = &completed
	}

	s.persistLocked(ctx)
	return *r, nil
}

// UpdateDeadline sets a report's deadline from a raw date string. An empty
// string clears the deadline; input that cannot be normalized is logged and
// leaves the report unchanged. The asymmetry is deliberate.
func (s *Store) UpdateDeadline(ctx context.Context, id int64, rawDate string) (models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return models.Report{}, ErrNotFound
	}
	r := &s.reports[idx]

	if strings.TrimSpace(rawDate) == "" {
		r.Deadline = ""
		s.persistLocked(ctx)
		return *r, nil
	}

	canonical := dates.Normalize(rawDate)
	if canonical == "" {
		log.Printf("[WARN] Discarding unparsable deadline %q for report %d", rawDate, id)
		return *r, nil
	}

	r.Deadline = canonical
	s.persistLocked(ctx)
	return *r, nil
}

// All returns a snapshot of the collection in store order, most recent first.
func (s *Store) All() []models.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make([]models.Report, len(s.reports))
	copy(snapshot, s.reports)
	return snapshot
}

// Get returns a copy of one report.
func (s *Store) Get(id int64) (models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return models.Report{}, ErrNotFound
	}
	return s.reports[idx], nil
}

// Select marks a report as the current map/detail selection.
func (s *Store) Select(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(id) < 0 {
		return ErrNotFound
	}
	s.selectedID = id
	return nil
}

// ClearSelection drops the current selection.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedID = 0
}

// Selected resolves the selection against the canonical collection at read
// time, so the caller always sees the copy the store holds now. A selection
// pointing at a vanished report reads as empty.
func (s *Store) Selected() (models.Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedID == 0 {
		return models.Report{}, false
	}
	idx := s.indexOf(s.selectedID)
	if idx < 0 {
		return models.Report{}, false
	}
	return s.reports[idx], true
}

// Persist mirrors the collection to durable storage. An empty collection
// removes the record entirely.
func (s *Store) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeThrough(ctx)
}

// persistLocked mirrors after a mutation. The in-memory collection stays
// authoritative, so a failed mirror write is logged rather than surfaced.
func (s *Store) persistLocked(ctx context.Context) {
	if err := s.writeThrough(ctx); err != nil {
		log.Printf("[WARN] Failed to mirror report collection: %v", err)
	}
}

func (s *Store) writeThrough(ctx context.Context) error {
	if len(s.reports) == 0 {
		return s.kv.Delete(ctx, s.key)
	}
	raw, err := json.Marshal(s.reports)
	if err != nil {
		return err
	}
	return s.kv.Put(ctx, s.key, raw)
}

func (s *Store) indexOf(id int64) int {
	for i := range s.reports {
		if s.reports[i].ID == id {
			return i
		}
	}
	return -1
}

// nextID hands out millisecond timestamps, bumped when two submissions land
// inside the same millisecond so ids stay unique and creation ordered.
func (s *Store) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}
