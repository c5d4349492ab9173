package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nerrad567/meetingmap/internal/infrastructure/config"
	"github.com/nerrad567/meetingmap/internal/infrastructure/database"
	"github.com/nerrad567/meetingmap/internal/infrastructure/logging"
)

// writeConfig writes a config file and points MEETINGMAP_CONFIG at it.
func writeConfig(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	t.Setenv("MEETINGMAP_CONFIG", path)
}

func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("MEETINGMAP_CONFIG", "/nonexistent/path/config.yaml")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := run(ctx)
	if err == nil {
		t.Fatal("run() should fail with invalid config path")
	}
	if !strings.Contains(err.Error(), "loading config") {
		t.Errorf("error = %v, want loading config failure", err)
	}
}

func TestRun_MissingNLPToken(t *testing.T) {
	t.Setenv("MEETINGMAP_NLP_TOKEN", "")
	writeConfig(t, `
database:
  path: "`+filepath.Join(t.TempDir(), "mm.db")+`"
nlp:
  token: ""
`)

	err := run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "nlp.token") {
		t.Fatalf("run() error = %v, want nlp.token validation failure", err)
	}
}

func TestRun_InfluxUnreachable(t *testing.T) {
	writeConfig(t, `
database:
  path: "`+filepath.Join(t.TempDir(), "mm.db")+`"
api:
  host: "127.0.0.1"
  port: 38471
nlp:
  token: "test-token"
influxdb:
  enabled: true
  url: "http://127.0.0.1:1"
  org: "test"
  bucket: "searches"
logging:
  level: error
`)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	err := run(ctx)
	if err == nil || !strings.Contains(err.Error(), "connecting to InfluxDB") {
		t.Fatalf("run() error = %v, want InfluxDB connection failure", err)
	}
}

func TestRun_CleanShutdown(t *testing.T) {
	writeConfig(t, `
database:
  path: "`+filepath.Join(t.TempDir(), "mm.db")+`"
api:
  host: "127.0.0.1"
  port: 38472
nlp:
  token: "test-token"
logging:
  level: error
`)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := run(ctx); err != nil {
		t.Fatalf("run() error = %v, want clean shutdown", err)
	}
}

func TestRun_MigrateDisabled(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "mm.db")
	writeConfig(t, `
database:
  path: "`+dbPath+`"
  migrate: false
api:
  host: "127.0.0.1"
  port: 38473
nlp:
  token: "test-token"
logging:
  level: error
`)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := run(ctx); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	db, err := database.Open(context.Background(), database.Config{Path: dbPath, BusyTimeout: 5})
	if err != nil {
		t.Fatalf("reopening database: %v", err)
	}
	defer db.Close() //nolint:errcheck // Test cleanup

	var tables int
	if err := db.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table'").Scan(&tables); err != nil {
		t.Fatalf("counting tables: %v", err)
	}
	if tables != 0 {
		t.Errorf("store has %d tables, want none when migrations are disabled", tables)
	}
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("MEETINGMAP_CONFIG", "")
	if got := getConfigPath(); got != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want %q", got, defaultConfigPath)
	}

	t.Setenv("MEETINGMAP_CONFIG", "/etc/meetingmap/config.yaml")
	if got := getConfigPath(); got != "/etc/meetingmap/config.yaml" {
		t.Errorf("getConfigPath() = %q, want override", got)
	}
}

func TestConnectInflux_Disabled(t *testing.T) {
	client, err := connectInflux(context.Background(), config.InfluxDBConfig{}, logging.Discard())
	if err != nil || client != nil {
		t.Errorf("connectInflux(disabled) = %v, %v; want nil, nil", client, err)
	}
}

func TestHealthCheck(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(ctx, database.Config{
		Path:        filepath.Join(t.TempDir(), "hc.db"),
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}

	if err := healthCheck(ctx, db, nil); err != nil {
		t.Errorf("healthCheck() error = %v", err)
	}

	db.Close() //nolint:errcheck // Test setup
	if err := healthCheck(ctx, db, nil); err == nil {
		t.Error("healthCheck() on closed database should fail")
	}
}
