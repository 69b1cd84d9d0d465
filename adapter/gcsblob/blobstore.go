// Package gcsblob provides a small object-storage abstraction plus a
// Google Cloud Storage-backed implementation and a local-filesystem
// implementation, satisfying the engine's Writer[[]byte] contract (and,
// via Reader, its Reader[[]byte] contract) for adapters that move
// whole blobs rather than structured rows.
package gcsblob

import (
	"context"
	"io"
)

// Store is a minimal blob storage backend: upload one object, download one
// object, list objects under a prefix.
type Store interface {
	Upload(ctx context.Context, bucket, object string, data io.Reader) error
	Download(ctx context.Context, bucket, object string) (io.ReadCloser, error)
	List(ctx context.Context, bucket, prefix string) ([]string, error)
	Close() error
}
