package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"campus-facility-report-system/pkg/kvstore"
	"campus-facility-report-system/services/report-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() models.SubmitForm {
	return models.SubmitForm{
		Building:    "공학관",
		Floor:       "3층",
		Room:        "301호",
		Description: "전등이 깜빡거립니다",
		Urgency:     models.UrgencyNormal,
	}
}

func newTestStore() (*Store, *kvstore.MemoryStore) {
	kv := kvstore.NewMemoryStore()
	return New(kv, DefaultKey), kv
}

func TestSubmitCreatesReport(t *testing.T) {
	s, _ := newTestStore()
	now := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)

	report, err := s.Submit(context.Background(), validForm(), "202012345", now)
	require.NoError(t, err)

	assert.Equal(t, "202012345", report.ReporterID)
	assert.Equal(t, models.StatusSubmitted, report.Status)
	assert.Equal(t, now, report.CreatedAt)
	assert.Equal(t, "2025-03-12", report.Deadline) // normal = 7 days
	assert.Nil(t, report.CompletedAt)
}

func TestSubmitTrimsDescription(t *testing.T) {
	s, _ := newTestStore()
	form := validForm()
	form.Description = "  고장났어요  "

	report, err := s.Submit(context.Background(), form, "202012345", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "고장났어요", report.Description)
}

func TestSubmitRejectsBlankDescription(t *testing.T) {
	s, _ := newTestStore()
	form := validForm()
	form.Description = "   "

	_, err := s.Submit(context.Background(), form, "202012345", time.Now())

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "description", vErr.Field)
	assert.Empty(t, s.All(), "collection must be unchanged after a rejected submission")
}

func TestSubmitRejectsMissingLocationFields(t *testing.T) {
	s, _ := newTestStore()

	for _, field := range []string{"building", "floor", "room"} {
		form := validForm()
		switch field {
		case "building":
			form.Building = ""
		case "floor":
			form.Floor = ""
		case "room":
			form.Room = ""
		}

		_, err := s.Submit(context.Background(), form, "202012345", time.Now())

		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, field, vErr.Field)
	}
}

func TestSubmitDefaultsUrgencyToNormal(t *testing.T) {
	s, _ := newTestStore()
	form := validForm()
	form.Urgency = ""

	report, err := s.Submit(context.Background(), form, "202012345", time.Now())
	require.NoError(t, err)
	assert.Equal(t, models.UrgencyNormal, report.Urgency)
}

func TestSubmitDetectsDuplicates(t *testing.T) {
	s, _ := newTestStore()
	now := time.Date(2025, 3, 5, 10, 0, 0, 0, time.Local)

	first, err := s.Submit(context.Background(), validForm(), "202012345", now)
	require.NoError(t, err)

	_, err = s.Submit(context.Background(), validForm(), "202099999", now.Add(30*time.Minute))

	var dupErr *DuplicateReportError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, first.ID, dupErr.ExistingID)
	assert.Len(t, s.All(), 1, "exactly one report accepted")
}

func TestSubmitAcceptsResubmissionAfterWindow(t *testing.T) {
	s, _ := newTestStore()
	now := time.Date(2025, 3, 5, 10, 0, 0, 0, time.Local)

	_, err := s.Submit(context.Background(), validForm(), "202012345", now)
	require.NoError(t, err)

	_, err = s.Submit(context.Background(), validForm(), "202012345", now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Len(t, s.All(), 2)
}

func TestSubmitOrdersMostRecentFirst(t *testing.T) {
	s, _ := newTestStore()
	now := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)

	form2 := validForm()
	form2.Room = "302호"

	first, err := s.Submit(context.Background(), validForm(), "202012345", now)
	require.NoError(t, err)
	second, err := s.Submit(context.Background(), form2, "202012345", now.Add(time.Minute))
	require.NoError(t, err)

	all := s.All()
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, first.ID, all[1].ID)
	assert.Greater(t, second.ID, first.ID)
}

func TestSubmitIDsStayUniqueWithinSameMillisecond(t *testing.T) {
	s, _ := newTestStore()
	now := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)

	form2 := validForm()
	form2.Room = "302호"

	first, err := s.Submit(context.Background(), validForm(), "202012345", now)
	require.NoError(t, err)
	second, err := s.Submit(context.Background(), form2, "202012345", now)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Greater(t, second.ID, first.ID)
}

func TestUpdateStatusStampsCompletedAt(t *testing.T) {
	s, _ := newTestStore()
	now := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)

	report, err := s.Submit(context.Background(), validForm(), "202012345", now)
	require.NoError(t, err)

	completedAt := now.Add(time.Hour)
	updated, err := s.UpdateStatus(context.Background(), report.ID, models.StatusCompleted, completedAt)
	require.NoError(t, err)
	require.NotNil(t, updated.CompletedAt)
	assert.Equal(t, completedAt, *updated.CompletedAt)

	// Moving backward does not clear the completion stamp.
	reopened, err := s.UpdateStatus(context.Background(), report.ID, models.StatusProcessing, completedAt.Add(time.Hour))
	require.NoError(t, err)
	require.NotNil(t, reopened.CompletedAt)
	assert.Equal(t, completedAt, *reopened.CompletedAt)
}

func TestUpdateStatusUnknownID(t *testing.T) {
	s, _ := newTestStore()
	_, err := s.UpdateStatus(context.Background(), 42, models.StatusProcessing, time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	s, _ := newTestStore()
	report, err := s.Submit(context.Background(), validForm(), "202012345", time.Now())
	require.NoError(t, err)

	_, err = s.UpdateStatus(context.Background(), report.ID, models.Status("rejected"), time.Now())

	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestUpdateDeadlineClearsOnEmptyInput(t *testing.T) {
	s, _ := newTestStore()
	report, err := s.Submit(context.Background(), validForm(), "202012345", time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, report.Deadline)

	updated, err := s.UpdateDeadline(context.Background(), report.ID, "")
	require.NoError(t, err)
	assert.Empty(t, updated.Deadline)
}

func TestUpdateDeadlineIgnoresUnparsableInput(t *testing.T) {
	s, _ := newTestStore()
	report, err := s.Submit(context.Background(), validForm(), "202012345", time.Now())
	require.NoError(t, err)

	updated, err := s.UpdateDeadline(context.Background(), report.ID, "not-a-date")
	require.NoError(t, err)
	assert.Equal(t, report.Deadline, updated.Deadline, "unparsable edits leave the deadline unchanged")
}

func TestUpdateDeadlineNormalizesInput(t *testing.T) {
	s, _ := newTestStore()
	report, err := s.Submit(context.Background(), validForm(), "202012345", time.Now())
	require.NoError(t, err)

	updated, err := s.UpdateDeadline(context.Background(), report.ID, "2025.12.1")
	require.NoError(t, err)
	assert.Equal(t, "2025-12-01", updated.Deadline)

	_, err = s.UpdateDeadline(context.Background(), 42, "2025-12-01")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPersistLoadRoundTrip(t *testing.T) {
	s, kv := newTestStore()
	now := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)

	form2 := validForm()
	form2.Room = "302호"
	form2.Urgency = models.UrgencyUrgent

	_, err := s.Submit(context.Background(), validForm(), "202012345", now)
	require.NoError(t, err)
	_, err = s.Submit(context.Background(), form2, "202054321", now.Add(time.Minute))
	require.NoError(t, err)

	reloaded := New(kv, DefaultKey)
	require.NoError(t, reloaded.Load(context.Background()))

	assert.Equal(t, s.All(), reloaded.All())
}

func TestLoadMissingRecordMeansEmpty(t *testing.T) {
	s, _ := newTestStore()
	require.NoError(t, s.Load(context.Background()))
	assert.Empty(t, s.All())
}

func TestLoadToleratesCorruptRecord(t *testing.T) {
	s, kv := newTestStore()
	require.NoError(t, kv.Put(context.Background(), DefaultKey, []byte("{definitely not json")))

	require.NoError(t, s.Load(context.Background()))
	assert.Empty(t, s.All())
}

func TestLoadRepairsBrokenDeadlines(t *testing.T) {
	_, kv := newTestStore()
	created := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)
	records := []models.Report{{
		ID:          1,
		ReporterID:  "202012345",
		Building:    "공학관",
		Floor:       "3층",
		Room:        "301호",
		Description: "유리창 파손",
		Urgency:     models.UrgencyHigh,
		Status:      models.StatusSubmitted,
		CreatedAt:   created,
		Deadline:    "???",
	}}
	raw, err := json.Marshal(records)
	require.NoError(t, err)
	require.NoError(t, kv.Put(context.Background(), DefaultKey, raw))

	s := New(kv, DefaultKey)
	require.NoError(t, s.Load(context.Background()))

	all := s.All()
	require.Len(t, all, 1)
	assert.Equal(t, "2025-03-06", all[0].Deadline, "recomputed from urgency and creation time")
}

func TestPersistRemovesRecordWhenEmpty(t *testing.T) {
	s, kv := newTestStore()
	require.NoError(t, kv.Put(context.Background(), DefaultKey, []byte("[]")))

	require.NoError(t, s.Persist(context.Background()))

	_, err := kv.Get(context.Background(), DefaultKey)
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestSelectedFollowsCanonicalCopy(t *testing.T) {
	s, _ := newTestStore()
	report, err := s.Submit(context.Background(), validForm(), "202012345", time.Now())
	require.NoError(t, err)

	require.NoError(t, s.Select(report.ID))

	_, err = s.UpdateStatus(context.Background(), report.ID, models.StatusProcessing, time.Now())
	require.NoError(t, err)

	selected, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, models.StatusProcessing, selected.Status, "selection reflects the store's copy, not a stale cache")

	s.ClearSelection()
	_, ok = s.Selected()
	assert.False(t, ok)

	assert.ErrorIs(t, s.Select(999), ErrNotFound)
}
