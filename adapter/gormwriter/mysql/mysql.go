// Package mysql registers the "mysql" dialector with gormwriter; importing
// it for its side effect wires gorm.io/driver/mysql (and transitively
// go-sql-driver/mysql) into a gormwriter.Writer.
package mysql

import (
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/sboussekeyt/spring-batch-rs/adapter/gormwriter"
)

func init() {
	gormwriter.RegisterDialector("mysql", func(dsn string) gorm.Dialector {
		return mysql.Open(dsn)
	})
}
