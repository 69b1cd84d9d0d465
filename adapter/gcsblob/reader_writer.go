package gcsblob

import (
	"bytes"
	"context"
	"fmt"
	"io"
)

// Writer uploads each chunk it is given as one blob per item, named
// fmt.Sprintf(objectPattern, sequence). It satisfies engine.Writer[[]byte].
type Writer struct {
	store         Store
	bucket        string
	objectPattern string
	seq           int
}

func NewWriter(store Store, bucket, objectPattern string) *Writer {
	return &Writer{store: store, bucket: bucket, objectPattern: objectPattern}
}

// Write implements engine.Writer[[]byte]: every item in the chunk becomes
// its own object, uploaded in order before Write returns. The first upload
// failure stops the loop and is reported as a write error for the whole
// chunk; objects uploaded before it are not removed, and no partial-chunk
// retry is attempted, consistent with the engine's whole-chunk-skip
// contract.
func (w *Writer) Write(ctx context.Context, items [][]byte) error {
	for _, item := range items {
		w.seq++
		object := fmt.Sprintf(w.objectPattern, w.seq)
		if err := w.store.Upload(ctx, w.bucket, object, bytes.NewReader(item)); err != nil {
			return fmt.Errorf("gcsblob writer: upload %s: %w", object, err)
		}
	}
	return nil
}

func (w *Writer) Close(ctx context.Context) error {
	return w.store.Close()
}

// Reader lists objects under prefix once, then downloads and yields them one
// at a time, satisfying engine.Reader[[]byte].
type Reader struct {
	store   Store
	bucket  string
	prefix  string
	objects []string
	pos     int
	listed  bool
}

func NewReader(store Store, bucket, prefix string) *Reader {
	return &Reader{store: store, bucket: bucket, prefix: prefix}
}

func (r *Reader) Read(ctx context.Context) ([]byte, bool, error) {
	if !r.listed {
		objects, err := r.store.List(ctx, r.bucket, r.prefix)
		if err != nil {
			return nil, false, err
		}
		r.objects = objects
		r.listed = true
	}
	if r.pos >= len(r.objects) {
		return nil, false, nil
	}
	object := r.objects[r.pos]
	r.pos++

	rc, err := r.store.Download(ctx, r.bucket, object)
	if err != nil {
		return nil, false, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}
