package database

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver ("pgx")
	"github.com/mattn/go-sqlite3"
)

// Database configuration constants.
const (
	// dirPermissions is the permission mode for the SQLite database directory.
	dirPermissions = 0750

	// filePermissions is the permission mode for the SQLite database file.
	filePermissions = 0600

	// msPerSecond converts seconds to milliseconds.
	msPerSecond = 1000

	// connectionTimeout is the timeout for verifying database connectivity.
	connectionTimeout = 5 * time.Second

	// connMaxIdleTime is how long idle connections are kept open.
	connMaxIdleTime = 30 * time.Minute

	// sqliteDriverName is the go-sqlite3 driver registered with trig functions.
	sqliteDriverName = "sqlite3_meetingmap"

	// postgresDriverName is the database/sql name pgx registers itself under.
	postgresDriverName = "pgx"
)

// Supported drivers, matching config.DatabaseConfig.Driver.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

func init() {
	sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: registerMathFunctions,
	})
}

// registerMathFunctions installs the scalar functions the haversine predicate
// needs. PostgreSQL ships them natively; SQLite only with a compile-time flag.
func registerMathFunctions(conn *sqlite3.SQLiteConn) error {
	funcs := map[string]func(float64) float64{
		"radians": func(deg float64) float64 { return deg * math.Pi / 180 },
		"sin":     math.Sin,
		"cos":     math.Cos,
		"asin":    math.Asin,
		"sqrt":    math.Sqrt,
	}
	for name, fn := range funcs {
		if err := conn.RegisterFunc(name, numeric(fn), true); err != nil {
			return fmt.Errorf("registering sqlite function %s: %w", name, err)
		}
	}
	return nil
}

// numeric adapts fn to accept SQLite INTEGER or REAL arguments.
func numeric(fn func(float64) float64) func(any) (float64, error) {
	return func(v any) (float64, error) {
		switch x := v.(type) {
		case float64:
			return fn(x), nil
		case int64:
			return fn(float64(x)), nil
		default:
			return 0, fmt.Errorf("numeric argument required, got %T", v)
		}
	}
}

// DB wraps a sql.DB connection with migration support, health checks,
// dialect-aware query building and lifecycle management.
type DB struct {
	*sql.DB
	driver string
	path   string
}

// Config contains database configuration options.
// These map to the database section of config.yaml.
type Config struct {
	// Driver is DriverSQLite (default) or DriverPostgres.
	Driver string

	// Path is the filesystem path to the SQLite database file.
	// The directory will be created if it doesn't exist.
	Path string

	// WALMode enables Write-Ahead Logging for better concurrent access.
	WALMode bool

	// BusyTimeout is the maximum time to wait for a SQLite lock (seconds).
	BusyTimeout int

	// DSN is the PostgreSQL connection string.
	DSN string

	// MaxOpenConns caps the PostgreSQL pool. SQLite always uses one connection.
	MaxOpenConns int
}

// Open creates a new database connection with the specified configuration.
//
// It performs the following setup:
//  1. Selects the backend from cfg.Driver (sqlite when empty)
//  2. For sqlite: creates the directory, opens the file through the driver
//     that registers the trig functions, applies busy timeout, foreign keys
//     and optional WAL, and pins the pool to one connection
//  3. For postgres: opens a pgx pool sized by cfg.MaxOpenConns
//  4. Verifies the connection with a ping
//  5. Sets sqlite file permissions (0600)
//
// Parameters:
//   - ctx: Context bounding the initial ping
//   - cfg: Database configuration
//
// Returns:
//   - *DB: Connected database wrapper
//   - error: ErrUnsupportedDriver for an unknown driver, or if connecting fails
func Open(ctx context.Context, cfg Config) (*DB, error) {
	var (
		sqlDB *sql.DB
		err   error
	)

	switch cfg.Driver {
	case DriverSQLite, "":
		cfg.Driver = DriverSQLite
		sqlDB, err = openSQLite(cfg)
	case DriverPostgres:
		sqlDB, err = openPostgres(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	db := &DB{
		DB:     sqlDB,
		driver: cfg.Driver,
		path:   cfg.Path,
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectionTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		sqlDB.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("verifying database connection: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		// First run may not have created the file yet.
		_ = os.Chmod(cfg.Path, filePermissions) //nolint:errcheck // Intentional
	}

	return db, nil
}

// openSQLite opens the SQLite file with pragmas applied through the DSN.
func openSQLite(cfg Config) (*sql.DB, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	// See: https://github.com/mattn/go-sqlite3#connection-string
	connStr := fmt.Sprintf("file:%s?_busy_timeout=%d&_foreign_keys=on",
		cfg.Path,
		cfg.BusyTimeout*msPerSecond,
	)
	if cfg.WALMode {
		connStr += "&_journal_mode=WAL&_synchronous=NORMAL"
	}

	sqlDB, err := sql.Open(sqliteDriverName, connStr)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// A single connection also keeps ":memory:" databases coherent.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)
	return sqlDB, nil
}

// openPostgres opens a pgx-backed pool.
func openPostgres(cfg Config) (*sql.DB, error) {
	sqlDB, err := sql.Open(postgresDriverName, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening postgres database: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 10
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxOpen / 2)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)
	return sqlDB, nil
}

// Close closes the database connection gracefully.
// It should be called when the application shuts down.
//
// Returns:
//   - error: If closing fails
func (db *DB) Close() error {
	if db.DB == nil {
		return nil
	}
	if err := db.DB.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}

// Driver returns the configured driver name.
func (db *DB) Driver() string {
	return db.driver
}

// Path returns the filesystem path to the SQLite database file ("" for postgres).
func (db *DB) Path() string {
	return db.path
}

// Placeholder returns the bind-parameter style of the underlying driver.
func (db *DB) Placeholder() squirrel.PlaceholderFormat {
	return PlaceholderFor(db.driver)
}

// Builder returns a squirrel statement builder for the underlying driver.
func (db *DB) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(db.Placeholder())
}

// PlaceholderFor maps a driver name to its bind-parameter style.
func PlaceholderFor(driver string) squirrel.PlaceholderFormat {
	if driver == DriverPostgres {
		return squirrel.Dollar
	}
	return squirrel.Question
}

// HealthCheck verifies the database is accessible and functioning.
func (db *DB) HealthCheck(ctx context.Context) error {
	var result int
	err := db.QueryRowContext(ctx, "SELECT 1").Scan(&result)
	if err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}

// Stats returns database connection pool statistics.
func (db *DB) Stats() sql.DBStats {
	return db.DB.Stats()
}

// ExecContext executes a query that doesn't return rows.
// This is a convenience wrapper that provides consistent error handling.
func (db *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	result, err := db.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	return result, nil
}

// BeginTx starts a new transaction with the given options.
func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	tx, err := db.DB.BeginTx(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	return tx, nil
}
