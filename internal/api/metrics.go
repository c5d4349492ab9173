package api

import (
	"net/http"
	"runtime"
	"time"
)

// SystemMetrics is the /api/system/metrics response: process health,
// connection pool usage and the size of the meeting directory.
type SystemMetrics struct {
	Timestamp     string           `json:"timestamp"`
	Version       string           `json:"version"`
	UptimeSeconds int64            `json:"uptime_seconds"`
	Runtime       RuntimeMetrics   `json:"runtime"`
	Database      DatabaseMetrics  `json:"database"`
	Directory     DirectoryMetrics `json:"directory"`
}

// RuntimeMetrics contains Go runtime statistics.
type RuntimeMetrics struct {
	Goroutines    int     `json:"goroutines"`
	HeapAllocMB   float64 `json:"heap_alloc_mb"`
	HeapObjects   uint64  `json:"heap_objects"`
	NumGC         uint32  `json:"num_gc"`
	LastGCPauseMs float64 `json:"last_gc_pause_ms"`
}

// DatabaseMetrics reports the shared pool the search filters fan out over.
type DatabaseMetrics struct {
	Open         int   `json:"open"`
	InUse        int   `json:"in_use"`
	Idle         int   `json:"idle"`
	WaitCount    int64 `json:"wait_count"`
	WaitMs       int64 `json:"wait_ms"`
	MaxOpenConns int   `json:"max_open_conns"`
}

// DirectoryMetrics describes the data served on the map.
type DirectoryMetrics struct {
	Locations int `json:"locations"`
}

// handleSystemMetrics returns runtime, pool and directory statistics.
// A store failure while counting locations takes the generic failure path.
func (s *Server) handleSystemMetrics(w http.ResponseWriter, r *http.Request) {
	locations, err := s.directory.LocationCount(r.Context())
	if err != nil {
		s.writeServerError(w, r, err)
		return
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	var lastPause time.Duration
	if mem.NumGC > 0 {
		lastPause = time.Duration(mem.PauseNs[(mem.NumGC+255)%256])
	}

	pool := s.store.Stats()

	writeJSON(w, http.StatusOK, SystemMetrics{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Version:       s.version,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		Runtime: RuntimeMetrics{
			Goroutines:    runtime.NumGoroutine(),
			HeapAllocMB:   float64(mem.HeapAlloc) / (1 << 20),
			HeapObjects:   mem.HeapObjects,
			NumGC:         mem.NumGC,
			LastGCPauseMs: float64(lastPause) / float64(time.Millisecond),
		},
		Database: DatabaseMetrics{
			Open:         pool.OpenConnections,
			InUse:        pool.InUse,
			Idle:         pool.Idle,
			WaitCount:    pool.WaitCount,
			WaitMs:       pool.WaitDuration.Milliseconds(),
			MaxOpenConns: pool.MaxOpenConnections,
		},
		Directory: DirectoryMetrics{Locations: locations},
	})
}
