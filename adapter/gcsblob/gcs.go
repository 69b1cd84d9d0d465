package gcsblob

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GCSStore is a Store backed by a real Google Cloud Storage client.
type GCSStore struct {
	client *storage.Client
}

// NewGCSStore builds a GCSStore. Pass option.WithCredentialsFile(path) or
// any other client option the caller's environment needs; an empty opts
// list uses Application Default Credentials.
func NewGCSStore(ctx context.Context, opts ...option.ClientOption) (*GCSStore, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcsblob: new client: %w", err)
	}
	return &GCSStore{client: client}, nil
}

func (s *GCSStore) Upload(ctx context.Context, bucket, object string, data io.Reader) error {
	w := s.client.Bucket(bucket).Object(object).NewWriter(ctx)
	if _, err := io.Copy(w, data); err != nil {
		_ = w.Close()
		return fmt.Errorf("gcsblob: upload %s/%s: %w", bucket, object, err)
	}
	return w.Close()
}

func (s *GCSStore) Download(ctx context.Context, bucket, object string) (io.ReadCloser, error) {
	r, err := s.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcsblob: download %s/%s: %w", bucket, object, err)
	}
	return r, nil
}

func (s *GCSStore) List(ctx context.Context, bucket, prefix string) ([]string, error) {
	var names []string
	it := s.client.Bucket(bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("gcsblob: list %s/%s: %w", bucket, prefix, err)
		}
		names = append(names, attrs.Name)
	}
	return names, nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}

var _ Store = (*GCSStore)(nil)
