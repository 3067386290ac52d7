// Package storage provides the local-disk BlobStore used for uploaded
// video files. Alternative backends (object storage) plug in behind
// ports.BlobStore.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStore writes video blobs under a single uploads directory and
// serves them from a fixed URL prefix.
type LocalStore struct {
	dir    string
	prefix string
}

// NewLocalStore creates the uploads directory if needed. prefix is the
// public path recorded on video documents (e.g. "/uploads").
func NewLocalStore(dir, prefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, prefix: prefix}, nil
}

// Save streams the blob to disk and returns its serving path.
func (s *LocalStore) Save(_ context.Context, filename string, r io.Reader) (string, error) {
	f, err := os.Create(filepath.Join(s.dir, filename))
	if err != nil {
		return "", fmt.Errorf("create video file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write video file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close video file: %w", err)
	}

	return s.prefix + "/" + filename, nil
}

// Remove deletes a stored blob; a missing file is not an error.
func (s *LocalStore) Remove(_ context.Context, filename string) error {
	err := os.Remove(filepath.Join(s.dir, filename))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove video file: %w", err)
	}
	return nil
}
