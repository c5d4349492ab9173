package database

import (
	"context"
	"embed"
	"testing"
	"time"
)

const testMigrationsDir = "testdata"

//go:embed testdata/*.sql
var testMigrationsFS embed.FS

// useTestMigrations swaps the package-level FS for the duration of the test.
func useTestMigrations(t *testing.T, fsys embed.FS, dir string) {
	t.Helper()
	origFS, origDir := MigrationsFS, MigrationsDir
	t.Cleanup(func() {
		MigrationsFS = origFS
		MigrationsDir = origDir
	})
	MigrationsFS = fsys
	MigrationsDir = dir
}

func TestMigrate(t *testing.T) {
	useTestMigrations(t, testMigrationsFS, testMigrationsDir)

	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	// Both migrations ran, in order: the second adds a column to the first's table.
	if _, err := db.ExecContext(ctx,
		"INSERT INTO test_points (id, latitude, longitude, label) VALUES (1, 40.7, -74.0, 'a')",
	); err != nil {
		t.Fatalf("insert into migrated table: %v", err)
	}

	applied, pending, err := db.GetMigrationStatus(ctx)
	if err != nil {
		t.Fatalf("GetMigrationStatus() error = %v", err)
	}
	if len(applied) != 2 {
		t.Errorf("expected 2 applied migrations, got %d", len(applied))
	}
	if len(pending) != 0 {
		t.Errorf("expected 0 pending migrations, got %d", len(pending))
	}
	if len(applied) > 0 && applied[0].AppliedAt.IsZero() {
		t.Error("AppliedAt not recorded")
	}

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
}

func TestMigrateNoMigrations(t *testing.T) {
	var emptyFS embed.FS
	useTestMigrations(t, emptyFS, ".")

	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() with no migrations error = %v", err)
	}
}

func TestMigrateMissingDirectory(t *testing.T) {
	useTestMigrations(t, testMigrationsFS, "does-not-exist")

	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
}

func TestGetMigrationStatus(t *testing.T) {
	useTestMigrations(t, testMigrationsFS, testMigrationsDir)

	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	ctx := context.Background()
	if err := db.createMigrationsTable(ctx); err != nil {
		t.Fatalf("createMigrationsTable() error = %v", err)
	}

	applied, pending, err := db.GetMigrationStatus(ctx)
	if err != nil {
		t.Fatalf("GetMigrationStatus() error = %v", err)
	}
	if len(applied) != 0 {
		t.Errorf("expected 0 applied, got %d", len(applied))
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending, got %d", len(pending))
	}
	if pending[0].Name != "create_test_points" || pending[1].Name != "add_test_points_label" {
		t.Errorf("pending order = %q, %q", pending[0].Name, pending[1].Name)
	}
}

func TestParseMigrationFilename(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		wantVersion string
		wantName    string
		wantOk      bool
	}{
		{
			name:        "valid up migration",
			filename:    "20260118_120000_create_locations.up.sql",
			wantVersion: "20260118_120000",
			wantName:    "create_locations",
			wantOk:      true,
		},
		{
			name:        "multi-word name",
			filename:    "20260118_120000_add_zip_to_locations.up.sql",
			wantVersion: "20260118_120000",
			wantName:    "add_zip_to_locations",
			wantOk:      true,
		},
		{name: "down migration ignored", filename: "20260118_120000_create_locations.down.sql"},
		{name: "not sql file", filename: "readme.txt"},
		{name: "missing direction", filename: "20260118_120000_create_locations.sql"},
		{name: "invalid format", filename: "invalid.up.sql"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, name, ok := parseMigrationFilename(tt.filename)
			if ok != tt.wantOk {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOk)
			}
			if !ok {
				return
			}
			if version != tt.wantVersion {
				t.Errorf("version = %v, want %v", version, tt.wantVersion)
			}
			if name != tt.wantName {
				t.Errorf("name = %v, want %v", name, tt.wantName)
			}
		})
	}
}
