// Package location provides read access to meeting locations, the meetings
// held at them and each meeting's weekly hours.
//
// The store is owned by an upstream process, so the Repository interface is
// read-only. SQLRepository builds every statement with squirrel so the same
// queries run on SQLite and PostgreSQL; the caller supplies the placeholder
// format of its driver.
//
// # Geographic filter
//
// IDsNear compares the haversine central angle between each location and a
// point, in radians, against a radius also in radians. The angle is not
// multiplied by the Earth's radius.
//
// # Thread Safety
//
// SQLRepository is safe for concurrent use from multiple goroutines
// (database/sql connection pooling).
package location
