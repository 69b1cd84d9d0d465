// Package postgres registers the "postgres" dialector with gormwriter;
// importing it for its side effect wires gorm.io/driver/postgres into a
// gormwriter.Writer.
package postgres

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/sboussekeyt/spring-batch-rs/adapter/gormwriter"
)

func init() {
	gormwriter.RegisterDialector("postgres", func(dsn string) gorm.Dialector {
		return postgres.Open(dsn)
	})
}
