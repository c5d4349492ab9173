package location

// Location is a physical meeting venue.
type Location struct {
	ID                   int64   `json:"id"`
	Name                 string  `json:"name"`
	Line1                string  `json:"line1"`
	Line2                *string `json:"line2,omitempty"`
	City                 string  `json:"city"`
	State                string  `json:"state"`
	Zip                  string  `json:"zip"`
	Latitude             float64 `json:"latitude"`
	Longitude            float64 `json:"longitude"`
	WheelchairAccessible bool    `json:"wheelchair_accessible"`
}

// Point is the subset of a location needed to place it on the map.
type Point struct {
	ID        int64
	Latitude  float64
	Longitude float64
}

// Meeting is a recurring group meeting held at a location.
type Meeting struct {
	ID         int64
	LocationID int64
	Title      string
	Details    *string
}

// Hour is one weekly occurrence of a meeting, with the meeting type name
// already resolved. Day is a three-letter code (mon..sun); StartTime and
// EndTime are stored time-of-day strings such as "19:30:00".
type Hour struct {
	MeetingID       int64
	Day             string
	StartTime       string
	EndTime         string
	SpecialInterest *string
	Type            *string
}
