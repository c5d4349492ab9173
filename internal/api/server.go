package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/paulmach/orb/geojson"
	"golang.org/x/time/rate"

	"github.com/nerrad567/meetingmap/internal/directory"
	"github.com/nerrad567/meetingmap/internal/infrastructure/config"
	"github.com/nerrad567/meetingmap/internal/infrastructure/logging"
	"github.com/nerrad567/meetingmap/internal/infrastructure/metrics"
	"github.com/nerrad567/meetingmap/internal/search"
	"github.com/nerrad567/meetingmap/internal/web"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Directory serves map and detail read models. *directory.Service
// satisfies it.
type Directory interface {
	FeatureCollection(ctx context.Context) (*geojson.FeatureCollection, error)
	Detail(ctx context.Context, rawID string) (*directory.Detail, error)
	LocationCount(ctx context.Context) (int, error)
}

// Searcher resolves free-text queries. *search.Service satisfies it.
type Searcher interface {
	Search(ctx context.Context, q string) (*search.Result, error)
}

// Store is the database view the health and metrics endpoints need.
// *database.DB satisfies it.
type Store interface {
	HealthCheck(ctx context.Context) error
	Stats() sql.DBStats
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config    config.APIConfig
	Security  config.SecurityConfig
	Web       config.WebConfig
	Site      config.SiteConfig
	Logger    *logging.Logger
	Store     Store
	Directory Directory
	Search    Searcher
	Metrics   *metrics.Metrics // optional
	Version   string
}

// Server is the HTTP server for meetingmap.
type Server struct {
	cfg       config.APIConfig
	secCfg    config.SecurityConfig
	webCfg    config.WebConfig
	logger    *logging.Logger
	store     Store
	directory Directory
	search    Searcher
	metrics   *metrics.Metrics
	page      *web.Renderer
	limiter   *rate.Limiter
	version   string
	startTime time.Time
	server    *http.Server
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called. The index template is
// parsed here, so a broken embedded asset fails fast. When rate limiting is
// enabled, one token bucket is created and shared by all /api/search callers.
//
// Parameters:
//   - deps: Required dependencies (logger, store, directory, search) and
//     optional metrics
//
// Returns:
//   - *Server: Configured server ready to start
//   - error: If required dependencies are missing or the template is invalid
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if deps.Directory == nil {
		return nil, fmt.Errorf("directory is required")
	}
	if deps.Search == nil {
		return nil, fmt.Errorf("search is required")
	}

	title := deps.Site.Name
	if title == "" {
		title = "Meeting Map"
	}
	page, err := web.NewRenderer(title, deps.Web.MapboxToken)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:       deps.Config,
		secCfg:    deps.Security,
		webCfg:    deps.Web,
		logger:    deps.Logger.Component("api"),
		store:     deps.Store,
		directory: deps.Directory,
		search:    deps.Search,
		metrics:   deps.Metrics,
		page:      page,
		version:   deps.Version,
		startTime: time.Now(),
	}

	if rl := deps.Security.RateLimit; rl.Enabled && rl.RequestsPerMinute > 0 {
		burst := rl.Burst
		if burst <= 0 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(float64(rl.RequestsPerMinute)/60), burst)
	}

	return s, nil
}

// Start begins listening for HTTP connections in a background goroutine.
// The server can be stopped with Close().
func (s *Server) Start(_ context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		s.logger.Info("API server starting", "address", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections. Closing a server that was
// never started is a no-op.
//
// Returns:
//   - error: If shutdown encounters an error
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}
	return nil
}
