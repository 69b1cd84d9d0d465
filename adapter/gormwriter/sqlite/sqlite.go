// Package sqlite registers the "sqlite" dialector with gormwriter; importing
// it for its side effect wires gorm.io/driver/sqlite (and transitively
// mattn/go-sqlite3) into a gormwriter.Writer.
package sqlite

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sboussekeyt/spring-batch-rs/adapter/gormwriter"
)

func init() {
	gormwriter.RegisterDialector("sqlite", func(dsn string) gorm.Dialector {
		return sqlite.Open(dsn)
	})
}
