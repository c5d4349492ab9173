package location

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
)

// Repository defines the read operations the map, detail and search
// features need.
type Repository interface {
	// ListPoints returns the coordinates of every location, ordered by ID.
	ListPoints(ctx context.Context) ([]Point, error)

	// GetLocation returns one location or ErrLocationNotFound.
	GetLocation(ctx context.Context, id int64) (*Location, error)

	// ListMeetings returns the meetings held at a location, ordered by ID.
	ListMeetings(ctx context.Context, locationID int64) ([]Meeting, error)

	// ListHours returns the hours of the given meetings, ordered by hour ID.
	ListHours(ctx context.Context, meetingIDs []int64) ([]Hour, error)

	// ListIDs returns every location ID in ascending order.
	ListIDs(ctx context.Context) ([]int64, error)

	// IDsNear returns the IDs of locations whose central angle to (lat, lon)
	// is at most radius radians.
	IDsNear(ctx context.Context, lat, lon, radius float64) ([]int64, error)

	// IDsWithMeetingOn returns the IDs of locations with at least one meeting
	// hour on the given day code.
	IDsWithMeetingOn(ctx context.Context, day string) ([]int64, error)
}

// haversineAngle is the central angle between a row and a bound point.
// Arguments: lat, lat, lat, lon, lon.
const haversineAngle = `2 * asin(sqrt(
	sin((radians(latitude) - radians(?)) / 2) * sin((radians(latitude) - radians(?)) / 2) +
	cos(radians(?)) * cos(radians(latitude)) *
	sin((radians(longitude) - radians(?)) / 2) * sin((radians(longitude) - radians(?)) / 2)
))`

var locationColumns = []string{
	"id", "name", "line1", "line2", "city", "state", "zip",
	"latitude", "longitude", "wheelchair_accessible",
}

// SQLRepository implements Repository over database/sql.
type SQLRepository struct {
	db      *sql.DB
	builder squirrel.StatementBuilderType
}

// NewSQLRepository creates a repository that binds parameters with the
// given placeholder format (squirrel.Question for SQLite, squirrel.Dollar
// for PostgreSQL).
func NewSQLRepository(db *sql.DB, placeholder squirrel.PlaceholderFormat) *SQLRepository {
	return &SQLRepository{
		db:      db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(placeholder),
	}
}

// ListPoints returns the coordinates of every location.
func (r *SQLRepository) ListPoints(ctx context.Context) ([]Point, error) {
	rows, err := r.query(ctx, r.builder.
		Select("id", "latitude", "longitude").
		From("locations").
		OrderBy("id"))
	if err != nil {
		return nil, fmt.Errorf("querying location points: %w", err)
	}
	defer rows.Close()

	var points []Point
	for rows.Next() {
		var p Point
		if err := rows.Scan(&p.ID, &p.Latitude, &p.Longitude); err != nil {
			return nil, fmt.Errorf("scanning location point: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating location points: %w", err)
	}
	return points, nil
}

// GetLocation returns a single location by ID.
func (r *SQLRepository) GetLocation(ctx context.Context, id int64) (*Location, error) {
	query, args, err := r.builder.
		Select(locationColumns...).
		From("locations").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building location query: %w", err)
	}

	var (
		loc   Location
		line2 sql.NullString
	)
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&loc.ID, &loc.Name, &loc.Line1, &line2, &loc.City, &loc.State, &loc.Zip,
		&loc.Latitude, &loc.Longitude, &loc.WheelchairAccessible,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLocationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying location %d: %w", id, err)
	}
	loc.Line2 = stringPtr(line2)
	return &loc, nil
}

// ListMeetings returns the meetings held at a location.
func (r *SQLRepository) ListMeetings(ctx context.Context, locationID int64) ([]Meeting, error) {
	rows, err := r.query(ctx, r.builder.
		Select("id", "location_id", "title", "details").
		From("meetings").
		Where(squirrel.Eq{"location_id": locationID}).
		OrderBy("id"))
	if err != nil {
		return nil, fmt.Errorf("querying meetings for location %d: %w", locationID, err)
	}
	defer rows.Close()

	var meetings []Meeting
	for rows.Next() {
		var (
			m       Meeting
			details sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.LocationID, &m.Title, &details); err != nil {
			return nil, fmt.Errorf("scanning meeting: %w", err)
		}
		m.Details = stringPtr(details)
		meetings = append(meetings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating meetings: %w", err)
	}
	return meetings, nil
}

// ListHours returns the hours of the given meetings with the meeting type
// name left-joined in. An empty ID list returns no hours without a query.
func (r *SQLRepository) ListHours(ctx context.Context, meetingIDs []int64) ([]Hour, error) {
	if len(meetingIDs) == 0 {
		return nil, nil
	}

	rows, err := r.query(ctx, r.builder.
		Select("h.meeting_id", "h.day", "h.start_time", "h.end_time", "h.special_interest", "t.name").
		From("meeting_hours h").
		LeftJoin("meeting_types t ON t.id = h.meeting_type_id").
		Where(squirrel.Eq{"h.meeting_id": meetingIDs}).
		OrderBy("h.id"))
	if err != nil {
		return nil, fmt.Errorf("querying meeting hours: %w", err)
	}
	defer rows.Close()

	var hours []Hour
	for rows.Next() {
		var (
			h               Hour
			specialInterest sql.NullString
			typeName        sql.NullString
		)
		if err := rows.Scan(&h.MeetingID, &h.Day, &h.StartTime, &h.EndTime, &specialInterest, &typeName); err != nil {
			return nil, fmt.Errorf("scanning meeting hour: %w", err)
		}
		h.SpecialInterest = stringPtr(specialInterest)
		h.Type = stringPtr(typeName)
		hours = append(hours, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating meeting hours: %w", err)
	}
	return hours, nil
}

// ListIDs returns every location ID.
func (r *SQLRepository) ListIDs(ctx context.Context) ([]int64, error) {
	ids, err := r.queryIDs(ctx, r.builder.
		Select("id").
		From("locations").
		OrderBy("id"))
	if err != nil {
		return nil, fmt.Errorf("listing location ids: %w", err)
	}
	return ids, nil
}

// IDsNear returns the IDs of locations within radius radians of (lat, lon).
func (r *SQLRepository) IDsNear(ctx context.Context, lat, lon, radius float64) ([]int64, error) {
	ids, err := r.queryIDs(ctx, r.builder.
		Select("id").
		From("locations").
		Where(squirrel.Expr(haversineAngle+" <= ?", lat, lat, lat, lon, lon, radius)).
		OrderBy("id"))
	if err != nil {
		return nil, fmt.Errorf("querying locations near %f,%f: %w", lat, lon, err)
	}
	return ids, nil
}

// IDsWithMeetingOn returns the IDs of locations with a meeting on day.
func (r *SQLRepository) IDsWithMeetingOn(ctx context.Context, day string) ([]int64, error) {
	ids, err := r.queryIDs(ctx, r.builder.
		Select("m.location_id").
		Distinct().
		From("meetings m").
		Join("meeting_hours h ON h.meeting_id = m.id").
		Where(squirrel.Eq{"h.day": day}).
		OrderBy("m.location_id"))
	if err != nil {
		return nil, fmt.Errorf("querying locations meeting on %s: %w", day, err)
	}
	return ids, nil
}

func (r *SQLRepository) query(ctx context.Context, b squirrel.SelectBuilder) (*sql.Rows, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}
	return r.db.QueryContext(ctx, query, args...)
}

func (r *SQLRepository) queryIDs(ctx context.Context, b squirrel.SelectBuilder) ([]int64, error) {
	rows, err := r.query(ctx, b)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ids: %w", err)
	}
	return ids, nil
}

// stringPtr converts a nullable column to a *string.
func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
