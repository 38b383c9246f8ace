// Package campus is the static campus catalog: the buildings and floors
// reports can point at, and the coordinate table the map boundary consumes.
package campus

// Coordinate is a building's position on the campus map.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Buildings reports can be filed against, in form display order.
var Buildings = []string{
	"백년관",
	"공학관",
	"도서관",
	"교양관",
	"인문경상관",
	"어문관",
	"기숙사",
	"주차장",
	"자연과학관",
	"후생관",
	"학생회관",
}

// Floors selectable on the intake form.
var Floors = []string{
	"지하2층",
	"지하1층",
	"1층",
	"2층",
	"3층",
	"4층",
	"5층",
	"6층",
	"7층",
	"8층",
}

// BuildingCoordinates maps each building to its surveyed position.
var BuildingCoordinates = map[string]Coordinate{
	"백년관":   {Lat: 37.33734649116593, Lng: 127.26548524902515},
	"공학관":   {Lat: 37.33760215213574, Lng: 127.26798567357692},
	"도서관":   {Lat: 37.33677693774583, Lng: 127.26832691635222},
	"교양관":   {Lat: 37.339809326464454, Lng: 127.27208427942806},
	"인문경상관": {Lat: 37.33977645549827, Lng: 127.27461196939714},
	"어문관":   {Lat: 37.338136140181824, Lng: 127.27285688210742},
	"기숙사":   {Lat: 37.33452634133701, Lng: 127.26343854797861},
	"주차장":   {Lat: 37.33738437241575, Lng: 127.26667025522217},
	"자연과학관": {Lat: 37.338935246799004, Lng: 127.26917920999111},
	"후생관":   {Lat: 37.33778977973904, Lng: 127.26868598313412},
	"학생회관":  {Lat: 37.33729145709139, Lng: 127.26989729060432},
}

// KnownBuilding reports whether the map has a position for the building.
func KnownBuilding(name string) bool {
	_, ok := BuildingCoordinates[name]
	return ok
}
