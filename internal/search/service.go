package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/nerrad567/meetingmap/internal/infrastructure/influxdb"
	"github.com/nerrad567/meetingmap/internal/location"
	"github.com/nerrad567/meetingmap/internal/nlp"
)

// Extractor returns the entities recognised in a query. *nlp.Client
// satisfies it.
type Extractor interface {
	Extract(ctx context.Context, q string) (*nlp.Response, error)
}

// Recorder receives one analytics point per completed search.
// *influxdb.Client satisfies it.
type Recorder interface {
	WriteSearch(p influxdb.SearchPoint)
}

// Observer receives one metrics observation per completed search.
// *metrics.Metrics satisfies it.
type Observer interface {
	ObserveSearch(neighborhood, datetime bool, results int)
}

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

type noopRecorder struct{}

func (noopRecorder) WriteSearch(influxdb.SearchPoint) {}

type noopObserver struct{}

func (noopObserver) ObserveSearch(bool, bool, int) {}

// Service runs searches. It is safe for concurrent use.
type Service struct {
	repo      location.Repository
	extractor Extractor
	cfg       Config
	tracer    trace.Tracer

	logger   Logger
	recorder Recorder
	observer Observer
}

// NewService creates a search service.
func NewService(repo location.Repository, extractor Extractor, cfg Config) *Service {
	return &Service{
		repo:      repo,
		extractor: extractor,
		cfg:       cfg,
		tracer:    otel.Tracer("meetingmap/search"),
		logger:    noopLogger{},
		recorder:  noopRecorder{},
		observer:  noopObserver{},
	}
}

// SetLogger sets the logger for the service.
func (s *Service) SetLogger(logger Logger) {
	s.logger = logger
}

// SetRecorder installs an analytics sink.
func (s *Service) SetRecorder(r Recorder) {
	s.recorder = r
}

// SetObserver installs a metrics sink.
func (s *Service) SetObserver(o Observer) {
	s.observer = o
}

// Search resolves q into matching location IDs. An empty or blank query
// skips intent extraction and matches every location.
//
// Failures of the intent service or the store are returned as-is; there is
// no retry and no fallback to an unfiltered result.
func (s *Service) Search(ctx context.Context, q string) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "search.Search")
	defer span.End()

	start := time.Now()
	result, err := s.search(ctx, q)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		return nil, err
	}

	hasCenter := result.Info.Center != nil
	span.SetAttributes(
		attribute.Bool("search.neighborhood", hasCenter),
		attribute.String("search.day", result.Info.Day),
		attribute.Int("search.results", len(result.IDs)),
	)
	span.SetStatus(codes.Ok, "")

	s.observer.ObserveSearch(hasCenter, result.Info.Day != "", len(result.IDs))
	s.recorder.WriteSearch(influxdb.SearchPoint{
		Neighborhood: hasCenter,
		Datetime:     result.Info.Day != "",
		Day:          result.Info.Day,
		QueryLength:  len(q),
		Results:      len(result.IDs),
		Duration:     time.Since(start),
		Time:         start,
	})
	s.logger.Debug("search completed",
		"neighborhood", hasCenter,
		"day", result.Info.Day,
		"results", len(result.IDs),
	)
	return result, nil
}

func (s *Service) search(ctx context.Context, q string) (*Result, error) {
	var p plan
	if strings.TrimSpace(q) != "" {
		resp, err := s.extractor.Extract(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("extracting intent: %w", err)
		}
		if p, err = s.planFilters(resp); err != nil {
			return nil, err
		}
	}

	var all, near, onDay []int64
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ids, err := s.repo.ListIDs(gctx)
		if err != nil {
			return fmt.Errorf("listing locations: %w", err)
		}
		all = ids
		return nil
	})
	if p.center != nil {
		g.Go(func() error {
			ids, err := s.repo.IDsNear(gctx, p.center.Lat, p.center.Lon, s.cfg.NeighborhoodRadius)
			if err != nil {
				return fmt.Errorf("applying neighborhood filter: %w", err)
			}
			near = ids
			return nil
		})
	}
	if p.day != "" {
		g.Go(func() error {
			ids, err := s.repo.IDsWithMeetingOn(gctx, p.day)
			if err != nil {
				return fmt.Errorf("applying datetime filter: %w", err)
			}
			onDay = ids
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ids := all
	if p.center != nil {
		ids = intersect(ids, near)
	}
	if p.day != "" {
		ids = intersect(ids, onDay)
	}
	if ids == nil {
		ids = []int64{}
	}

	return &Result{
		IDs:  ids,
		Info: Info{Center: p.center, Day: p.day},
	}, nil
}

// intersect keeps the elements of base that also appear in filter,
// preserving the order of base.
func intersect(base, filter []int64) []int64 {
	keep := make(map[int64]struct{}, len(filter))
	for _, id := range filter {
		keep[id] = struct{}{}
	}
	out := make([]int64, 0, min(len(base), len(filter)))
	for _, id := range base {
		if _, ok := keep[id]; ok {
			out = append(out, id)
		}
	}
	return out
}
