package directory

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/nerrad567/meetingmap/internal/location"
	"github.com/nerrad567/meetingmap/internal/schedule"
)

// fakeRepository serves canned rows and records which meeting IDs were
// asked for.
type fakeRepository struct {
	points    []location.Point
	locations map[int64]*location.Location
	meetings  map[int64][]location.Meeting
	hours     []location.Hour
	ids       []int64
	err       error

	hoursCalledWith []int64
}

func (f *fakeRepository) ListPoints(context.Context) ([]location.Point, error) {
	return f.points, f.err
}

func (f *fakeRepository) GetLocation(_ context.Context, id int64) (*location.Location, error) {
	if f.err != nil {
		return nil, f.err
	}
	loc, ok := f.locations[id]
	if !ok {
		return nil, location.ErrLocationNotFound
	}
	return loc, nil
}

func (f *fakeRepository) ListMeetings(_ context.Context, locationID int64) ([]location.Meeting, error) {
	return f.meetings[locationID], nil
}

func (f *fakeRepository) ListHours(_ context.Context, ids []int64) ([]location.Hour, error) {
	f.hoursCalledWith = ids
	return f.hours, nil
}

func (f *fakeRepository) ListIDs(context.Context) ([]int64, error) { return f.ids, f.err }

func (f *fakeRepository) IDsNear(context.Context, float64, float64, float64) ([]int64, error) {
	return nil, nil
}

func (f *fakeRepository) IDsWithMeetingOn(context.Context, string) ([]int64, error) {
	return nil, nil
}

func strPtr(s string) *string { return &s }

func newFixtureRepository() *fakeRepository {
	return &fakeRepository{
		locations: map[int64]*location.Location{
			1: {ID: 1, Name: "Central Hall", Latitude: 40.758, Longitude: -73.9855},
		},
		meetings: map[int64][]location.Meeting{
			1: {
				{ID: 10, LocationID: 1, Title: "Sunrise Group", Details: strPtr("Back entrance")},
				{ID: 11, LocationID: 1, Title: "Evening Reflection"},
				{ID: 12, LocationID: 1, Title: "Sunrise Group"},
			},
		},
		hours: []location.Hour{
			{MeetingID: 10, Day: "sun", StartTime: "07:00:00", EndTime: "08:00:00"},
			{MeetingID: 10, Day: "wed", StartTime: "07:00:00", EndTime: "08:00:00", Type: strPtr("Open")},
			{MeetingID: 10, Day: "mon", StartTime: "19:30:00", EndTime: "20:30:00", SpecialInterest: strPtr("Women")},
			{MeetingID: 10, Day: "wed", StartTime: "18:00:00", EndTime: "19:00:00"},
			{MeetingID: 11, Day: "fri", StartTime: "00:15:00", EndTime: "12:45:00"},
		},
	}
}

func TestFeatureCollection(t *testing.T) {
	repo := &fakeRepository{points: []location.Point{
		{ID: 1, Latitude: 40.758, Longitude: -73.9855},
		{ID: 2, Latitude: 51.5074, Longitude: -0.1278},
	}}
	svc := NewService(repo)

	fc, err := svc.FeatureCollection(context.Background())
	if err != nil {
		t.Fatalf("FeatureCollection() error = %v", err)
	}

	raw, err := json.Marshal(fc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded struct {
		Type     string `json:"type"`
		Features []struct {
			ID       int64 `json:"id"`
			Type     string
			Geometry struct {
				Type        string     `json:"type"`
				Coordinates [2]float64 `json:"coordinates"`
			} `json:"geometry"`
		} `json:"features"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if decoded.Type != "FeatureCollection" {
		t.Errorf("type = %q, want FeatureCollection", decoded.Type)
	}
	if len(decoded.Features) != 2 {
		t.Fatalf("len(features) = %d, want 2", len(decoded.Features))
	}
	f := decoded.Features[1]
	if f.ID != 2 || f.Geometry.Type != "Point" {
		t.Errorf("feature = %+v", f)
	}
	if f.Geometry.Coordinates != [2]float64{-0.1278, 51.5074} {
		t.Errorf("coordinates = %v, want [lon lat]", f.Geometry.Coordinates)
	}
}

func TestFeatureCollection_Empty(t *testing.T) {
	fc, err := NewService(&fakeRepository{}).FeatureCollection(context.Background())
	if err != nil {
		t.Fatalf("FeatureCollection() error = %v", err)
	}
	if len(fc.Features) != 0 {
		t.Errorf("len(features) = %d, want 0", len(fc.Features))
	}
}

func TestFeatureCollection_StoreError(t *testing.T) {
	storeErr := errors.New("db down")
	_, err := NewService(&fakeRepository{err: storeErr}).FeatureCollection(context.Background())
	if !errors.Is(err, storeErr) {
		t.Errorf("error = %v, want wrapped store error", err)
	}
}

func TestDetail(t *testing.T) {
	repo := newFixtureRepository()
	svc := NewService(repo)

	d, err := svc.Detail(context.Background(), "1")
	if err != nil {
		t.Fatalf("Detail() error = %v", err)
	}

	if d.Location == nil || d.Location.Name != "Central Hall" {
		t.Fatalf("Location = %+v", d.Location)
	}
	if len(repo.hoursCalledWith) != 3 {
		t.Errorf("hours requested for %v, want all three meetings", repo.hoursCalledWith)
	}

	titles := []string{}
	for _, m := range d.Meetings {
		titles = append(titles, m.Title)
	}
	wantTitles := []string{"Evening Reflection", "Sunrise Group", "Sunrise Group"}
	for i := range wantTitles {
		if titles[i] != wantTitles[i] {
			t.Fatalf("titles = %v, want %v", titles, wantTitles)
		}
	}

	// Equal titles keep store order: meeting 10 (with details) before 12.
	if d.Meetings[1].Details == nil || *d.Meetings[1].Details != "Back entrance" {
		t.Errorf("tie order not preserved: %+v", d.Meetings[1])
	}
	if d.Meetings[2].Hours == nil || len(d.Meetings[2].Hours) != 0 {
		t.Errorf("meeting without hours should have an empty list, got %v", d.Meetings[2].Hours)
	}

	evening := d.Meetings[0].Hours
	if len(evening) != 1 || evening[0].StartTime != "12:15AM" || evening[0].EndTime != "12:45PM" {
		t.Errorf("evening hours = %+v", evening)
	}

	sunrise := d.Meetings[1].Hours
	wantDays := []string{"Monday", "Wednesday", "Wednesday", "Sunday"}
	if len(sunrise) != len(wantDays) {
		t.Fatalf("len(hours) = %d, want %d", len(sunrise), len(wantDays))
	}
	for i, want := range wantDays {
		if sunrise[i].Day != want {
			t.Errorf("hours[%d].Day = %q, want %q", i, sunrise[i].Day, want)
		}
	}
	if sunrise[0].StartTime != "7:30PM" || sunrise[0].SpecialInterest == nil {
		t.Errorf("monday hour = %+v", sunrise[0])
	}
	// Equal weekdays keep store order.
	if sunrise[1].StartTime != "7:00AM" || sunrise[2].StartTime != "6:00PM" {
		t.Errorf("wednesday order = %q, %q", sunrise[1].StartTime, sunrise[2].StartTime)
	}
	if sunrise[1].Type == nil || *sunrise[1].Type != "Open" {
		t.Errorf("type = %v, want Open", sunrise[1].Type)
	}
}

func TestDetail_UnknownID(t *testing.T) {
	svc := NewService(newFixtureRepository())

	for _, id := range []string{"999", "abc", ""} {
		t.Run(id, func(t *testing.T) {
			d, err := svc.Detail(context.Background(), id)
			if err != nil {
				t.Fatalf("Detail(%q) error = %v", id, err)
			}
			if d.Location != nil {
				t.Errorf("Location = %+v, want nil", d.Location)
			}
			if d.Meetings == nil || len(d.Meetings) != 0 {
				t.Errorf("Meetings = %v, want empty non-nil slice", d.Meetings)
			}

			raw, err := json.Marshal(d)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(raw) != `{"meetings":[]}` {
				t.Errorf("json = %s", raw)
			}
		})
	}
}

func TestDetail_UnknownDayCode(t *testing.T) {
	repo := newFixtureRepository()
	repo.hours = []location.Hour{{MeetingID: 10, Day: "xyz", StartTime: "07:00:00", EndTime: "08:00:00"}}

	_, err := NewService(repo).Detail(context.Background(), "1")
	if !errors.Is(err, schedule.ErrUnknownDay) {
		t.Errorf("error = %v, want ErrUnknownDay", err)
	}
}

func TestDetail_MalformedTime(t *testing.T) {
	repo := newFixtureRepository()
	repo.hours = []location.Hour{{MeetingID: 10, Day: "mon", StartTime: "07:00:00", EndTime: "x"}}

	_, err := NewService(repo).Detail(context.Background(), "1")
	if !errors.Is(err, schedule.ErrInvalidTime) {
		t.Errorf("error = %v, want ErrInvalidTime", err)
	}
}

func TestDetail_StoreError(t *testing.T) {
	storeErr := errors.New("db down")
	_, err := NewService(&fakeRepository{err: storeErr}).Detail(context.Background(), "1")
	if !errors.Is(err, storeErr) {
		t.Errorf("error = %v, want wrapped store error", err)
	}
}

func TestLocationCount(t *testing.T) {
	svc := NewService(&fakeRepository{ids: []int64{1, 2, 5}})

	n, err := svc.LocationCount(context.Background())
	if err != nil {
		t.Fatalf("LocationCount() error = %v", err)
	}
	if n != 3 {
		t.Errorf("LocationCount() = %d, want 3", n)
	}

	failing := NewService(&fakeRepository{err: errors.New("store down")})
	if _, err := failing.LocationCount(context.Background()); err == nil {
		t.Error("LocationCount() should surface store errors")
	}
}
