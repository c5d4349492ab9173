package influxdb

import (
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// searchMeasurement is the measurement every search point is written to.
const searchMeasurement = "searches"

// SearchPoint summarises one completed search.
type SearchPoint struct {
	Neighborhood bool
	Datetime     bool
	Day          string // day code when the datetime filter applied
	QueryLength  int
	Results      int
	Duration     time.Duration
	Time         time.Time
}

// WriteSearch queues a search point. Disconnected clients drop it silently.
func (c *Client) WriteSearch(p SearchPoint) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(newSearchPoint(p))
}

func newSearchPoint(p SearchPoint) *write.Point {
	tags := map[string]string{
		"neighborhood": strconv.FormatBool(p.Neighborhood),
		"datetime":     strconv.FormatBool(p.Datetime),
	}
	if p.Day != "" {
		tags["day"] = p.Day
	}

	ts := p.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	return write.NewPoint(
		searchMeasurement,
		tags,
		map[string]interface{}{
			"query_length": p.QueryLength,
			"results":      p.Results,
			"duration_ms":  float64(p.Duration) / float64(time.Millisecond),
		},
		ts,
	)
}
