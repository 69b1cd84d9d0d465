// Package jsonl provides a Reader adapter over newline-delimited JSON,
// satisfying the engine's Reader[json.RawMessage] contract. Like the csv
// adapter, it uses encoding/json directly — see DESIGN.md.
package jsonl

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
)

// Reader reads one JSON value per line from an underlying io.Reader.
type Reader struct {
	scanner *bufio.Scanner
}

func NewReader(r io.Reader) *Reader {
	return &Reader{scanner: bufio.NewScanner(r)}
}

// Read implements engine.Reader[json.RawMessage]. Blank lines are skipped.
func (r *Reader) Read(ctx context.Context) (json.RawMessage, bool, error) {
	for r.scanner.Scan() {
		line := r.scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		out := make(json.RawMessage, len(line))
		copy(out, line)
		return out, true, nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, false, err
	}
	return nil, false, nil
}
