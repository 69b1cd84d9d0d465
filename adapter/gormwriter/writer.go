// Package gormwriter provides a relational Writer[T] adapter backed by
// gorm.io/gorm, using a small dialector registry so the concrete database
// driver (sqlite, mysql, postgres) is chosen by name rather than compiled
// in.
package gormwriter

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"
)

// DialectorFactory builds a gorm.Dialector from a DSN string.
type DialectorFactory func(dsn string) gorm.Dialector

var (
	dialectorMu       sync.RWMutex
	dialectorRegistry = make(map[string]DialectorFactory)
)

// RegisterDialector registers a DialectorFactory under dbType (e.g.
// "sqlite", "mysql", "postgres"). Driver packages call this from an init
// function.
func RegisterDialector(dbType string, factory DialectorFactory) {
	dialectorMu.Lock()
	defer dialectorMu.Unlock()
	dialectorRegistry[dbType] = factory
}

func dialectorFor(dbType, dsn string) (gorm.Dialector, error) {
	dialectorMu.RLock()
	factory, ok := dialectorRegistry[dbType]
	dialectorMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("gormwriter: no dialector registered for database type %q", dbType)
	}
	return factory(dsn), nil
}

// Writer commits chunks of T via gorm's batch Create, one call per chunk as
// the engine's writer contract requires.
type Writer[T any] struct {
	dbType string
	dsn    string
	table  string
	db     *gorm.DB
}

// New returns a Writer that opens its connection lazily on Open. dbType must
// have a DialectorFactory registered (import the relevant driver subpackage
// for its side-effecting init()).
func New[T any](dbType, dsn, table string) *Writer[T] {
	return &Writer[T]{dbType: dbType, dsn: dsn, table: table}
}

// NewWithDB wraps an already-open *gorm.DB, skipping the dialector registry
// and Open's auto-migration. Used when the caller manages the connection
// itself, e.g. in tests against a mocked driver. Close still closes the
// wrapped connection.
func NewWithDB[T any](db *gorm.DB, table string) *Writer[T] {
	return &Writer[T]{db: db, table: table}
}

// Open implements engine.Opener: it establishes the database connection and
// auto-migrates the target table from T's struct shape. A Writer built with
// NewWithDB already holds its connection, so Open does nothing for it.
func (w *Writer[T]) Open(ctx context.Context) error {
	if w.db != nil {
		return nil
	}
	dialector, err := dialectorFor(w.dbType, w.dsn)
	if err != nil {
		return err
	}
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return fmt.Errorf("gormwriter: open %s: %w", w.dbType, err)
	}
	var zero T
	if w.table != "" {
		db = db.Table(w.table)
	}
	if err := db.AutoMigrate(&zero); err != nil {
		return fmt.Errorf("gormwriter: auto-migrate: %w", err)
	}
	w.db = db
	return nil
}

// Write implements engine.Writer[T]: the whole chunk is inserted in a
// single gorm.CreateInBatches call, which itself runs inside one
// transaction, so a mid-chunk failure leaves no partial rows — consistent
// with the engine's "entire chunk is skipped on write failure" semantics.
func (w *Writer[T]) Write(ctx context.Context, items []T) error {
	if len(items) == 0 {
		return nil
	}
	tx := w.db.WithContext(ctx)
	if w.table != "" {
		tx = tx.Table(w.table)
	}
	return tx.CreateInBatches(items, len(items)).Error
}

// Close implements engine.Closer.
func (w *Writer[T]) Close(ctx context.Context) error {
	if w.db == nil {
		return nil
	}
	sqlDB, err := w.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
