package directory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/nerrad567/meetingmap/internal/location"
	"github.com/nerrad567/meetingmap/internal/schedule"
)

// Logger defines the logging interface used by the Service.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Service builds map and detail views from a location.Repository.
// All methods are safe for concurrent use.
type Service struct {
	repo   location.Repository
	logger Logger
}

// NewService creates a directory service over repo.
func NewService(repo location.Repository) *Service {
	return &Service{
		repo:   repo,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the service.
func (s *Service) SetLogger(logger Logger) {
	s.logger = logger
}

// LocationCount returns how many locations the store holds.
func (s *Service) LocationCount(ctx context.Context) (int, error) {
	ids, err := s.repo.ListIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting locations: %w", err)
	}
	return len(ids), nil
}

// FeatureCollection returns one Point feature per location, with the
// feature ID set to the location ID and coordinates in [lon, lat] order.
func (s *Service) FeatureCollection(ctx context.Context) (*geojson.FeatureCollection, error) {
	points, err := s.repo.ListPoints(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading map points: %w", err)
	}

	fc := geojson.NewFeatureCollection()
	for _, p := range points {
		f := geojson.NewFeature(orb.Point{p.Longitude, p.Latitude})
		f.ID = p.ID
		fc.Append(f)
	}
	return fc, nil
}

// Detail returns the location identified by rawID with its meetings and
// hours. rawID comes straight from the URL; an ID that is not an integer
// matches nothing, the same as an unknown ID.
func (s *Service) Detail(ctx context.Context, rawID string) (*Detail, error) {
	detail := &Detail{Meetings: []MeetingDetail{}}

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		s.logger.Debug("non-numeric location id", "id", rawID)
		return detail, nil
	}

	loc, err := s.repo.GetLocation(ctx, id)
	switch {
	case errors.Is(err, location.ErrLocationNotFound):
		s.logger.Debug("location not found", "id", id)
	case err != nil:
		return nil, fmt.Errorf("loading location: %w", err)
	default:
		detail.Location = loc
	}

	meetings, err := s.repo.ListMeetings(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading meetings: %w", err)
	}
	if len(meetings) == 0 {
		return detail, nil
	}

	meetingIDs := make([]int64, len(meetings))
	for i, m := range meetings {
		meetingIDs[i] = m.ID
	}
	hours, err := s.repo.ListHours(ctx, meetingIDs)
	if err != nil {
		return nil, fmt.Errorf("loading meeting hours: %w", err)
	}

	byMeeting := make(map[int64][]HourDetail, len(meetings))
	for _, h := range hours {
		hd, err := formatHour(h)
		if err != nil {
			return nil, fmt.Errorf("formatting hour of meeting %d: %w", h.MeetingID, err)
		}
		byMeeting[h.MeetingID] = append(byMeeting[h.MeetingID], hd)
	}

	for _, m := range meetings {
		mh := byMeeting[m.ID]
		if mh == nil {
			mh = []HourDetail{}
		}
		slices.SortStableFunc(mh, func(a, b HourDetail) int {
			return schedule.CompareDays(a.Day, b.Day)
		})
		detail.Meetings = append(detail.Meetings, MeetingDetail{
			Title:   m.Title,
			Details: m.Details,
			Hours:   mh,
		})
	}

	slices.SortStableFunc(detail.Meetings, func(a, b MeetingDetail) int {
		return strings.Compare(a.Title, b.Title)
	})
	return detail, nil
}

func formatHour(h location.Hour) (HourDetail, error) {
	day, err := schedule.DayName(h.Day)
	if err != nil {
		return HourDetail{}, err
	}
	start, err := schedule.FormatTime12h(h.StartTime)
	if err != nil {
		return HourDetail{}, fmt.Errorf("start time: %w", err)
	}
	end, err := schedule.FormatTime12h(h.EndTime)
	if err != nil {
		return HourDetail{}, fmt.Errorf("end time: %w", err)
	}
	return HourDetail{
		Day:             day,
		StartTime:       start,
		EndTime:         end,
		SpecialInterest: h.SpecialInterest,
		Type:            h.Type,
	}, nil
}
