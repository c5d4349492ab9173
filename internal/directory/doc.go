// Package directory assembles the read models served to the map page and
// the location detail panel.
//
// FeatureCollection turns every stored location into a GeoJSON point feature
// keyed by location ID. Detail joins a location with its meetings and their
// weekly hours, formats days and times for display, and sorts the result:
// meetings by title and hours by weekday (Monday first). Both sorts are stable
// so ties keep store order.
package directory
