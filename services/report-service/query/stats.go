package query

import (
	"sort"

	"campus-facility-report-system/services/report-service/models"
)

// StatusCounts tallies reports per lifecycle stage. All three stages are
// always present, even at zero.
type StatusCounts struct {
	Submitted  int `json:"submitted"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
}

// LocationCount is one "{building} {floor}" group and its report count.
type LocationCount struct {
	Location string `json:"location"`
	Count    int    `json:"count"`
}

// Stats is the aggregate view over a (possibly filtered) collection.
type Stats struct {
	StatusCounts StatusCounts    `json:"status_counts"`
	TopLocations []LocationCount `json:"top_locations"`
}

// Aggregate computes status counts and the topN most-reported locations.
// Ties keep first-encountered order.
func Aggregate(reports []models.Report, topN int) Stats {
	var counts StatusCounts
	locationCounts := make(map[string]int)
	var locationOrder []string

	for _, r := range reports {
		switch r.Status {
		case models.StatusSubmitted:
			counts.Submitted++
		case models.StatusProcessing:
			counts.Processing++
		case models.StatusCompleted:
			counts.Completed++
		}

		loc := r.Building + " " + r.Floor
		if _, seen := locationCounts[loc]; !seen {
			locationOrder = append(locationOrder, loc)
		}
		locationCounts[loc]++
	}

	top := make([]LocationCount, 0, len(locationOrder))
	for _, loc := range locationOrder {
		top = append(top, LocationCount{Location: loc, Count: locationCounts[loc]})
	}
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Count > top[j].Count
	})
	if topN > 0 && len(top) > topN {
		top = top[:topN]
	}

	return Stats{StatusCounts: counts, TopLocations: top}
}

// BuildingStats is the per-building rollup the map visualization consumes.
type BuildingStats struct {
	Building   string  `json:"building"`
	Count      int     `json:"count"`
	Submitted  int     `json:"submitted"`
	Processing int     `json:"processing"`
	Completed  int     `json:"completed"`
	HasUrgent  bool    `json:"has_urgent"`
	HasHigh    bool    `json:"has_high"`
	Lat        float64 `json:"lat,omitempty"`
	Lng        float64 `json:"lng,omitempty"`
}

// AggregateByBuilding groups reports per building, keeping first-encountered
// building order.
func AggregateByBuilding(reports []models.Report) []BuildingStats {
	byBuilding := make(map[string]*BuildingStats)
	var order []string

	for _, r := range reports {
		bs, ok := byBuilding[r.Building]
		if !ok {
			bs = &BuildingStats{Building: r.Building}
			byBuilding[r.Building] = bs
			order = append(order, r.Building)
		}
		bs.Count++
		switch r.Status {
		case models.StatusSubmitted:
			bs.Submitted++
		case models.StatusProcessing:
			bs.Processing++
		case models.StatusCompleted:
			bs.Completed++
		}
		if r.Urgency == models.UrgencyUrgent {
			bs.HasUrgent = true
		}
		if r.Urgency == models.UrgencyHigh {
			bs.HasHigh = true
		}
	}

	out := make([]BuildingStats, 0, len(order))
	for _, b := range order {
		out = append(out, *byBuilding[b])
	}
	return out
}
