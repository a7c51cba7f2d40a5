// Package storage keeps uploaded announcement photos, on local disk or in an
// S3-compatible bucket.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

var (
	ErrNotFound    = errors.New("file not found")
	ErrInvalidName = errors.New("invalid file name")
)

// Store is the file backend the application writes photos to.
type Store interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Remove(ctx context.Context, name string) error
}

// cleanName rejects anything that is not a plain file name.
func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	lower := strings.ToLower(name)
	if name == "" || strings.Contains(name, "..") || strings.Contains(lower, "%2e") ||
		strings.ContainsAny(name, "/\\\x00") || path.Base(name) != name {
		return "", ErrInvalidName
	}
	return name, nil
}
