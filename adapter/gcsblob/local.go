package gcsblob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore is a Store backed by the local filesystem, treating bucket as
// a subdirectory of baseDir. Useful for tests and local development without
// a live GCS project.
type LocalStore struct {
	baseDir string
}

func NewLocalStore(baseDir string) (*LocalStore, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("gcsblob: baseDir must be specified")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("gcsblob: create baseDir %q: %w", baseDir, err)
	}
	return &LocalStore{baseDir: baseDir}, nil
}

func (s *LocalStore) resolve(bucket, object string) (string, error) {
	full := filepath.Join(s.baseDir, bucket, object)
	if !strings.HasPrefix(full, filepath.Clean(s.baseDir)) {
		return "", fmt.Errorf("gcsblob: object path escapes baseDir: %s/%s", bucket, object)
	}
	return full, nil
}

func (s *LocalStore) Upload(ctx context.Context, bucket, object string, data io.Reader) error {
	full, err := s.resolve(bucket, object)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	f, err := os.Create(full)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(f, data)
	return err
}

func (s *LocalStore) Download(ctx context.Context, bucket, object string) (io.ReadCloser, error) {
	full, err := s.resolve(bucket, object)
	if err != nil {
		return nil, err
	}
	return os.Open(full)
}

func (s *LocalStore) List(ctx context.Context, bucket, prefix string) ([]string, error) {
	root := filepath.Join(s.baseDir, bucket)
	var names []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if strings.HasPrefix(rel, prefix) {
			names = append(names, rel)
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return names, nil
}

func (s *LocalStore) Close() error { return nil }

var _ Store = (*LocalStore)(nil)
