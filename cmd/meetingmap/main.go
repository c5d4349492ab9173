// Meeting Map - find recovery meetings on a map or by asking in plain words.
//
// This is the main entry point for the meetingmap server. It serves the map
// page, location details and the natural-language search endpoint.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/nerrad567/meetingmap/migrations"

	"github.com/nerrad567/meetingmap/internal/api"
	"github.com/nerrad567/meetingmap/internal/directory"
	"github.com/nerrad567/meetingmap/internal/infrastructure/config"
	"github.com/nerrad567/meetingmap/internal/infrastructure/database"
	"github.com/nerrad567/meetingmap/internal/infrastructure/influxdb"
	"github.com/nerrad567/meetingmap/internal/infrastructure/logging"
	"github.com/nerrad567/meetingmap/internal/infrastructure/metrics"
	"github.com/nerrad567/meetingmap/internal/location"
	"github.com/nerrad567/meetingmap/internal/nlp"
	"github.com/nerrad567/meetingmap/internal/search"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// startupCheckTimeout bounds the health checks run before serving.
const startupCheckTimeout = 5 * time.Second

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// It returns nil on clean shutdown.
func run(ctx context.Context) error {
	log := logging.Default()
	log.Info("starting meetingmap",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	db, err := database.Open(ctx, database.Config{
		Driver:       cfg.Database.Driver,
		Path:         cfg.Database.Path,
		WALMode:      cfg.Database.WALMode,
		BusyTimeout:  cfg.Database.BusyTimeout,
		DSN:          cfg.Database.DSN,
		MaxOpenConns: cfg.Database.MaxOpenConns,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "driver", db.Driver())

	if cfg.Database.ShouldMigrate() {
		if migrateErr := db.Migrate(ctx); migrateErr != nil {
			return fmt.Errorf("running migrations: %w", migrateErr)
		}
		log.Info("database migrations complete")
	} else {
		log.Info("database migrations skipped, store is managed externally")
	}

	m := metrics.New()

	influxClient, err := connectInflux(ctx, cfg.InfluxDB, log)
	if err != nil {
		return err
	}
	if influxClient != nil {
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
	}

	nlpClient, err := nlp.NewClient(nlp.Config{
		BaseURL:  cfg.NLP.BaseURL,
		Version:  cfg.NLP.Version,
		Token:    cfg.NLP.Token,
		Timeout:  time.Duration(cfg.NLP.Timeout) * time.Second,
		CacheTTL: time.Duration(cfg.NLP.CacheTTL) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("creating NLP client: %w", err)
	}
	nlpClient.SetObserver(m)

	repo := location.NewSQLRepository(db.DB, db.Placeholder())

	directorySvc := directory.NewService(repo)
	directorySvc.SetLogger(log.Component("directory"))

	searchSvc := search.NewService(repo, nlpClient, search.Config{
		MinConfidence:      cfg.Search.MinConfidence,
		NeighborhoodRadius: cfg.Search.NeighborhoodRadius,
	})
	searchSvc.SetLogger(log.Component("search"))
	searchSvc.SetObserver(m)
	if influxClient != nil {
		searchSvc.SetRecorder(influxClient)
	}

	server, err := api.New(api.Deps{
		Config:    cfg.API,
		Security:  cfg.Security,
		Web:       cfg.Web,
		Site:      cfg.Site,
		Logger:    log,
		Store:     db,
		Directory: directorySvc,
		Search:    searchSvc,
		Metrics:   m,
		Version:   version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	checkCtx, cancel := context.WithTimeout(ctx, startupCheckTimeout)
	defer cancel()
	if err := healthCheck(checkCtx, db, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")
	<-ctx.Done()
	log.Info("shutdown signal received, cleaning up")

	log.Info("meetingmap stopped")
	return nil
}

// connectInflux opens the analytics sink when enabled. A nil client with a
// nil error means analytics are off.
func connectInflux(ctx context.Context, cfg config.InfluxDBConfig, log *logging.Logger) (*influxdb.Client, error) {
	if !cfg.Enabled {
		log.Info("InfluxDB disabled")
		return nil, nil
	}

	client, err := influxdb.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to InfluxDB: %w", err)
	}
	client.SetOnError(func(err error) {
		log.Error("InfluxDB write error", "error", err)
	})
	log.Info("InfluxDB connected",
		"url", cfg.URL,
		"org", cfg.Org,
		"bucket", cfg.Bucket,
	)
	return client, nil
}

// getConfigPath returns the configuration file path.
// Uses MEETINGMAP_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("MEETINGMAP_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies the store and, when enabled, the analytics sink.
func healthCheck(ctx context.Context, db *database.DB, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}
	return nil
}
