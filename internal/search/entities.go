package search

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nerrad567/meetingmap/internal/nlp"
	"github.com/nerrad567/meetingmap/internal/schedule"
)

// plan is the set of filters derived from one intent response.
type plan struct {
	center *Center
	day    string
}

func (s *Service) planFilters(resp *nlp.Response) (plan, error) {
	var p plan

	if e, ok := resp.First(nlp.KindNeighborhood); ok && s.confident(e) {
		c, err := parseCenter(e.Metadata)
		if err != nil {
			return plan{}, err
		}
		p.center = c
	}

	if e, ok := resp.First(nlp.KindDatetime); ok && s.confident(e) {
		day, err := parseDay(e)
		if err != nil {
			return plan{}, err
		}
		p.day = day
	}

	return p, nil
}

func (s *Service) confident(e nlp.Entity) bool {
	return e.Confidence >= s.cfg.MinConfidence
}

// parseCenter reads "lat,lon".
func parseCenter(metadata string) (*Center, error) {
	latStr, lonStr, ok := strings.Cut(metadata, ",")
	if !ok {
		return nil, fmt.Errorf("%w: neighborhood metadata %q is not lat,lon", ErrInvalidEntity, metadata)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: neighborhood latitude %q", ErrInvalidEntity, latStr)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: neighborhood longitude %q", ErrInvalidEntity, lonStr)
	}
	return &Center{Lat: lat, Lon: lon}, nil
}

// parseDay returns the day code of a datetime entity's timestamp, taken in
// the offset the timestamp carries.
func parseDay(e nlp.Entity) (string, error) {
	raw := e.StringValue()
	if raw == "" {
		raw = e.Metadata
	}

	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return schedule.CodeForWeekday(t.Weekday()), nil
		}
	}
	return "", fmt.Errorf("%w: datetime %q", ErrInvalidEntity, raw)
}
