// Package api provides the HTTP server for meetingmap.
//
// Routes:
//
//	GET  /                    map page with all locations inlined as GeoJSON
//	GET  /static/*            page assets
//	GET  /api/{locationID}    location detail with meetings and hours
//	POST /api/search          natural-language search, body {"q": "..."}
//	GET  /api/system/metrics  runtime and connection pool statistics (JSON)
//	GET  /health              store connectivity
//	GET  /metrics             Prometheus exposition
//
// Every failure on the page and /api routes is handled the same way: it is
// logged with the request ID and the full error chain, and the client gets
// a bare 500 with no body. A search body that is not valid JSON counts as an
// empty query.
//
// The server follows the same lifecycle pattern as the infrastructure components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
package api
