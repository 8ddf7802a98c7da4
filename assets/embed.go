// assets/embed.go
//
// Files compiled into the binary so the server runs with no external files:
// default config, default level catalog, default star script and SQL migrations.

package assets

import (
	"embed"
	"io/fs"
)

//go:embed config.yaml catalog.yaml stars.tengo sql/*.sql
var FS embed.FS

// MigrationsDir is the directory inside Migrations() holding *.sql files.
const MigrationsDir = "sql"

func Migrations() fs.FS { return FS }

func mustRead(name string) []byte {
	b, err := FS.ReadFile(name)
	if err != nil {
		panic("assets: missing embedded " + name)
	}
	return b
}

func DefaultConfig() []byte { return mustRead("config.yaml") }

func DefaultCatalog() []byte { return mustRead("catalog.yaml") }

func DefaultStarsScript() []byte { return mustRead("stars.tengo") }
