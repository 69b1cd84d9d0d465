// Package job builds the csv-to-sqlite import job: a single chunk step that
// reads product rows from an embedded CSV file, converts each row to a
// Product, and writes completed chunks into SQLite via gorm.
package job

import (
	"bytes"
	"context"
	"strconv"

	"github.com/sboussekeyt/spring-batch-rs/adapter/csv"
	"github.com/sboussekeyt/spring-batch-rs/adapter/gormwriter"
	_ "github.com/sboussekeyt/spring-batch-rs/adapter/gormwriter/sqlite"
	"github.com/sboussekeyt/spring-batch-rs/batcherr"
	"github.com/sboussekeyt/spring-batch-rs/engine"
	"github.com/sboussekeyt/spring-batch-rs/internal/config"
	"github.com/sboussekeyt/spring-batch-rs/metrics"
)

// Product is the row shape written to the "products" table.
type Product struct {
	SKU   string  `gorm:"column:sku;primaryKey"`
	Name  string  `gorm:"column:name"`
	Price float64 `gorm:"column:price"`
}

// Params bundles the job's fx-provided dependencies.
type Params struct {
	Config   *config.Config
	InputCSV []byte
	Recorder metrics.Recorder
	Tracer   metrics.Tracer
}

// headerSkippingReader drops the first row a csv.Reader yields, so the
// engine never sees the CSV's column header as a data row.
type headerSkippingReader struct {
	inner   *csv.Reader
	skipped bool
}

func (r *headerSkippingReader) Read(ctx context.Context) ([]string, bool, error) {
	if !r.skipped {
		r.skipped = true
		if _, ok, err := r.inner.Read(ctx); err != nil || !ok {
			return nil, ok, err
		}
	}
	return r.inner.Read(ctx)
}

// New builds the "csv-to-sqlite" job: one chunk step reading CSV rows from
// p.InputCSV, converting them to Product, and writing committed chunks to
// the database named in p.Config.Database.DSN.
func New(p Params) (*engine.Job, error) {
	reader := &headerSkippingReader{inner: csv.NewReader(bytes.NewReader(p.InputCSV))}
	processor := engine.ProcessorFunc[[]string, Product](func(_ context.Context, row []string) (Product, error) {
		return rowToProduct(row)
	})
	writer := gormwriter.New[Product](p.Config.Database.Type, p.Config.Database.DSN, "products")

	step, err := engine.NewChunkStep[[]string, Product]("import-products").
		Reader(reader).
		Processor(processor).
		Writer(writer).
		CommitInterval(p.Config.Job.CommitInterval).
		SkipLimit(p.Config.Job.SkipLimit).
		MetricRecorder(p.Recorder).
		Tracer(p.Tracer).
		Build()
	if err != nil {
		return nil, err
	}

	return engine.NewJob(p.Config.Job.Name).
		Start(step).
		MetricRecorder(p.Recorder).
		Tracer(p.Tracer).
		Build()
}

func rowToProduct(row []string) (Product, error) {
	if len(row) != 3 {
		return Product{}, batcherr.Newf(batcherr.ProcessError, "import-products", "expected 3 columns, got %d", len(row))
	}
	price, err := strconv.ParseFloat(row[2], 64)
	if err != nil {
		return Product{}, batcherr.Newf(batcherr.ProcessError, "import-products", "invalid price %q: %v", row[2], err)
	}
	return Product{SKU: row[0], Name: row[1], Price: price}, nil
}
