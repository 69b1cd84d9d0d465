// Package parquetwriter provides a partition-buffering Writer[T] that
// accumulates chunks in memory and, on Close, encodes each partition to a
// Parquet file and uploads it via a gcsblob.Store. Buffering until Close is
// necessary because a Parquet row group needs every row of a partition in
// hand before it can be sized and written.
package parquetwriter

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/mapstructure"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/sboussekeyt/spring-batch-rs/adapter/gcsblob"
	"github.com/sboussekeyt/spring-batch-rs/batcherr"
)

// Config is decoded from a plain map via mapstructure, so the writer can be
// constructed from a generic properties map.
type Config struct {
	Bucket          string `mapstructure:"bucket"`
	OutputBaseDir   string `mapstructure:"outputBaseDir"`
	CompressionType string `mapstructure:"compressionType"`
}

// Writer buffers items of type T by partition key and flushes each
// partition to one Parquet file on Close.
type Writer[T any] struct {
	name             string
	config           Config
	store            gcsblob.Store
	itemPrototype    *T
	partitionKeyFunc func(T) (string, error)

	buffered map[string][]T
	total    int
}

// New decodes properties into a Config, validates required fields, and
// returns a ready-to-open Writer. itemPrototype provides the struct shape
// parquet-go reflects over; partitionKeyFunc groups buffered rows into
// separate output files (e.g. by date).
func New[T any](name string, properties map[string]interface{}, store gcsblob.Store, itemPrototype *T, partitionKeyFunc func(T) (string, error)) (*Writer[T], error) {
	var cfg Config
	if err := mapstructure.Decode(properties, &cfg); err != nil {
		return nil, batcherr.Newf(batcherr.ConfigurationError, name, "decode parquet writer properties: %v", err)
	}
	if cfg.Bucket == "" {
		return nil, batcherr.Newf(batcherr.ConfigurationError, name, "parquet writer %q requires 'bucket'", name)
	}
	if cfg.OutputBaseDir == "" {
		return nil, batcherr.Newf(batcherr.ConfigurationError, name, "parquet writer %q requires 'outputBaseDir'", name)
	}
	if cfg.CompressionType == "" {
		cfg.CompressionType = "SNAPPY"
	}
	return &Writer[T]{
		name:             name,
		config:           cfg,
		store:            store,
		itemPrototype:    itemPrototype,
		partitionKeyFunc: partitionKeyFunc,
		buffered:         make(map[string][]T),
	}, nil
}

// Write implements engine.Writer[T]: it only buffers, grouping rows by
// partition key. The chunk is considered committed (from the engine's
// perspective) once buffered; the actual Parquet encode/upload happens in
// Close, where an error is reported once per partition rather than per item.
func (w *Writer[T]) Write(ctx context.Context, items []T) error {
	for _, item := range items {
		key, err := w.partitionKeyFunc(item)
		if err != nil {
			return batcherr.Newf(batcherr.WriteError, w.name, "partition key: %v", err)
		}
		w.buffered[key] = append(w.buffered[key], item)
		w.total++
	}
	return nil
}

// Close encodes every buffered partition to a Parquet file and uploads it,
// aggregating per-partition failures via go-multierror rather than aborting
// on the first one, then closes the underlying store.
func (w *Writer[T]) Close(ctx context.Context) error {
	defer func() { w.buffered = make(map[string][]T); w.total = 0 }()

	if w.total == 0 {
		return w.store.Close()
	}

	codec, err := compressionCodec(w.config.CompressionType)
	if err != nil {
		return batcherr.Newf(batcherr.LifecycleError, w.name, "%v", err)
	}

	var multiErr *multierror.Error
	for partitionKey, items := range w.buffered {
		if err := w.flushPartition(ctx, partitionKey, items, codec); err != nil {
			multiErr = multierror.Append(multiErr, err)
		}
	}

	if err := w.store.Close(); err != nil {
		multiErr = multierror.Append(multiErr, err)
	}

	if multiErr != nil {
		return batcherr.New(batcherr.LifecycleError, w.name, multiErr)
	}
	return nil
}

func (w *Writer[T]) flushPartition(ctx context.Context, partitionKey string, items []T, codec parquet.CompressionCodec) error {
	buf := new(bytes.Buffer)
	pw, err := writer.NewParquetWriterFromWriter(buf, w.itemPrototype, int64(len(items)))
	if err != nil {
		return fmt.Errorf("parquet writer for partition %q: %w", partitionKey, err)
	}
	pw.CompressionType = codec

	for _, item := range items {
		if err := pw.Write(item); err != nil {
			return fmt.Errorf("write item to partition %q: %w", partitionKey, err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("finalize partition %q: %w", partitionKey, err)
	}

	object := path.Join(w.config.OutputBaseDir, partitionKey, fmt.Sprintf("data_%s.parquet", time.Now().Format("20060102150405")))
	if err := w.store.Upload(ctx, w.config.Bucket, object, buf); err != nil {
		return fmt.Errorf("upload partition %q to %s: %w", partitionKey, object, err)
	}
	return nil
}

func compressionCodec(name string) (parquet.CompressionCodec, error) {
	switch strings.ToUpper(name) {
	case "SNAPPY":
		return parquet.CompressionCodec_SNAPPY, nil
	case "GZIP":
		return parquet.CompressionCodec_GZIP, nil
	case "NONE", "":
		return parquet.CompressionCodec_UNCOMPRESSED, nil
	default:
		return 0, fmt.Errorf("unsupported compression type %q", name)
	}
}
