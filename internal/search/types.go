package search

// Center is the point a neighborhood filter was applied around.
type Center struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Info describes which filters were applied. Unapplied filters are omitted.
type Info struct {
	Center *Center `json:"center,omitempty"`
	Day    string  `json:"day,omitempty"`
}

// Result is the search response. IDs are ascending and never nil.
type Result struct {
	IDs  []int64 `json:"ids"`
	Info Info    `json:"info"`
}

// Config tunes how entities become filters.
type Config struct {
	// MinConfidence is the lowest confidence an entity may have and still
	// filter results.
	MinConfidence float64

	// NeighborhoodRadius is the maximum central angle, in radians, between a
	// location and the neighborhood point.
	NeighborhoodRadius float64
}
