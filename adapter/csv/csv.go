// Package csv provides Reader and Writer adapters over encoding/csv,
// satisfying the engine's Reader[[]string] and Writer[[]string] contracts.
// Plain-text formats like this one are implemented directly against the
// standard library rather than a third-party CSV parser (see DESIGN.md).
package csv

import (
	"context"
	"encoding/csv"
	"io"
)

// Reader reads records from an underlying io.Reader one row at a time.
type Reader struct {
	r *csv.Reader
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: csv.NewReader(r)}
}

// Read implements engine.Reader[[]string]. It returns ok=false on
// io.EOF and keeps returning ok=false on every subsequent call, per the
// reader contract.
func (r *Reader) Read(ctx context.Context) ([]string, bool, error) {
	record, err := r.r.Read()
	if err == io.EOF {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return record, true, nil
}

// Writer appends rows to an underlying io.Writer. Each chunk is one Write
// call into a buffered csv.Writer; Flush, called once by the engine after
// the last chunk, pushes the buffered bytes to the underlying writer before
// the step completes.
type Writer struct {
	w *csv.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: csv.NewWriter(w)}
}

// Write implements engine.Writer[[]string].
func (w *Writer) Write(ctx context.Context, rows [][]string) error {
	for _, row := range rows {
		if err := w.w.Write(row); err != nil {
			return err
		}
	}
	return w.w.Error()
}

// Flush implements engine.Flusher.
func (w *Writer) Flush(ctx context.Context) error {
	w.w.Flush()
	return w.w.Error()
}
