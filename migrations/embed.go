// Package migrations compiles the schema SQL into the binary and hands it
// to the database package, so a deployment never depends on loose .sql
// files. Import it for side effects from the composition root.
package migrations

import (
	"embed"

	"github.com/hearthway/hearth-core/internal/infrastructure/database"
)

//go:embed *.sql
var files embed.FS

func init() {
	database.MigrationsFS = files
	database.MigrationsDir = "."
}
