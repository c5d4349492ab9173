// Package migrations compiles the schema files into the binary and hands
// them to the database package on import.
package migrations

import (
	"embed"

	"github.com/nerrad567/meetingmap/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
