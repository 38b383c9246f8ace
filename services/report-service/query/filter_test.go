package query

import (
	"testing"
	"time"

	"campus-facility-report-system/services/report-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var filterNow = time.Date(2025, 3, 5, 14, 0, 0, 0, time.UTC)

func sampleReports() []models.Report {
	return []models.Report{
		{ID: 4, ReporterID: "202011111", Building: "공학관", Floor: "3층", Room: "301호", Description: "전등 고장", Status: models.StatusSubmitted, CreatedAt: filterNow.Add(-30 * time.Minute)},
		{ID: 3, ReporterID: "202022222", Building: "도서관", Floor: "1층", Room: "열람실", Description: "에어컨 소음", Status: models.StatusProcessing, CreatedAt: filterNow.Add(-25 * time.Hour)},
		{ID: 2, ReporterID: "202011111", Building: "기숙사", Floor: "5층", Room: "502호", Description: "수도 누수", Status: models.StatusCompleted, CreatedAt: filterNow.Add(-10 * 24 * time.Hour)},
		{ID: 1, ReporterID: "202033333", Building: "공학관", Floor: "2층", Room: "201호", Description: "문 손잡이 파손", Status: models.StatusSubmitted, CreatedAt: filterNow.Add(-40 * 24 * time.Hour)},
	}
}

func ids(reports []models.Report) []int64 {
	out := make([]int64, 0, len(reports))
	for _, r := range reports {
		out = append(out, r.ID)
	}
	return out
}

func TestFilterOwnership(t *testing.T) {
	got := Filter(sampleReports(), Criteria{Viewer: "202011111"}, filterNow)
	assert.Equal(t, []int64{4, 2}, ids(got))
}

func TestFilterAdminSeesAll(t *testing.T) {
	got := Filter(sampleReports(), Criteria{Viewer: "admin01", IsAdmin: true}, filterNow)
	assert.Equal(t, []int64{4, 3, 2, 1}, ids(got))
}

func TestFilterByStatus(t *testing.T) {
	got := Filter(sampleReports(), Criteria{IsAdmin: true, Status: "submitted"}, filterNow)
	assert.Equal(t, []int64{4, 1}, ids(got))

	got = Filter(sampleReports(), Criteria{IsAdmin: true, Status: "all"}, filterNow)
	assert.Len(t, got, 4)
}

func TestFilterByBuilding(t *testing.T) {
	got := Filter(sampleReports(), Criteria{IsAdmin: true, Building: "공학관"}, filterNow)
	assert.Equal(t, []int64{4, 1}, ids(got))
}

func TestFilterByDateRange(t *testing.T) {
	// 30 minutes old is "today"; 25 hours old is not.
	got := Filter(sampleReports(), Criteria{IsAdmin: true, DateRange: RangeToday}, filterNow)
	assert.Equal(t, []int64{4}, ids(got))

	got = Filter(sampleReports(), Criteria{IsAdmin: true, DateRange: RangeWeek}, filterNow)
	assert.Equal(t, []int64{4, 3}, ids(got))

	got = Filter(sampleReports(), Criteria{IsAdmin: true, DateRange: RangeMonth}, filterNow)
	assert.Equal(t, []int64{4, 3, 2}, ids(got))

	got = Filter(sampleReports(), Criteria{IsAdmin: true, DateRange: RangeAll}, filterNow)
	assert.Len(t, got, 4)
}

func TestFilterByFreeTextQuery(t *testing.T) {
	got := Filter(sampleReports(), Criteria{IsAdmin: true, Query: "누수"}, filterNow)
	assert.Equal(t, []int64{2}, ids(got))

	// Matches against the decimal id as well.
	got = Filter(sampleReports(), Criteria{IsAdmin: true, Query: "4"}, filterNow)
	assert.Equal(t, []int64{4}, ids(got))

	// Blank query matches everything.
	got = Filter(sampleReports(), Criteria{IsAdmin: true, Query: "   "}, filterNow)
	assert.Len(t, got, 4)
}

func TestFilterQueryIsCaseInsensitive(t *testing.T) {
	reports := []models.Report{
		{ID: 1, Building: "Main Hall", Floor: "1F", Room: "101", Description: "Broken Window", Status: models.StatusSubmitted, CreatedAt: filterNow},
	}
	got := Filter(reports, Criteria{IsAdmin: true, Query: "broken window"}, filterNow)
	require.Len(t, got, 1)
}

func TestFilterCombinesPredicates(t *testing.T) {
	got := Filter(sampleReports(), Criteria{
		Viewer:    "202011111",
		Status:    "submitted",
		Building:  "공학관",
		DateRange: RangeToday,
	}, filterNow)
	assert.Equal(t, []int64{4}, ids(got))
}

func TestFilterPreservesOrder(t *testing.T) {
	got := Filter(sampleReports(), Criteria{IsAdmin: true, Building: "공학관"}, filterNow)
	require.Len(t, got, 2)
	assert.True(t, got[0].ID > got[1].ID, "store order must be preserved")
}
