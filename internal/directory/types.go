package directory

import "github.com/nerrad567/meetingmap/internal/location"

// Detail is the location detail payload. Location is nil when no location
// matches the requested ID; Meetings is never nil.
type Detail struct {
	Location *location.Location `json:"location,omitempty"`
	Meetings []MeetingDetail    `json:"meetings"`
}

// MeetingDetail is one meeting with its formatted hours.
type MeetingDetail struct {
	Title   string       `json:"title"`
	Details *string      `json:"details"`
	Hours   []HourDetail `json:"hours"`
}

// HourDetail is one weekly slot ready for display.
type HourDetail struct {
	Day             string  `json:"day"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	SpecialInterest *string `json:"special_interest"`
	Type            *string `json:"type"`
}
