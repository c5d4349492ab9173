// Package search turns a free-text query into a set of location IDs.
//
// The query is sent to the intent extraction service. Of the entities it
// returns, only the best candidate per kind is considered, and only when its
// confidence reaches the configured minimum:
//
//   - neighborhood: metadata "lat,lon" becomes a great-circle radius filter
//   - datetime: the weekday of the timestamp becomes a meeting-day filter
//
// Every applied filter runs concurrently with the base "all locations" query
// and the results are intersected. Info reports which filters were applied so
// the page can show them, independently of whether anything matched.
package search
