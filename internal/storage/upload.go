package storage

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"antiquites/internal/domain"
	"antiquites/internal/imageset"
)

const MaxFileSize = 5 << 20

// Uploader accepts the photos posted with a new announcement and stores them
// under generated names.
type Uploader struct {
	Store    Store
	MaxFiles int
	MaxSize  int64
	Log      *zap.Logger
}

func NewUploader(store Store, log *zap.Logger) *Uploader {
	return &Uploader{Store: store, MaxFiles: imageset.MaxImages, MaxSize: MaxFileSize, Log: log}
}

// Accept checks every file before writing any of them, then stores them in order and
// returns the stored names. On a write failure the files stored so far are removed.
func (u *Uploader) Accept(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	if len(files) > u.MaxFiles {
		return nil, &domain.ValidationError{Field: "images", Reason: fmt.Sprintf("at most %d photos", u.MaxFiles)}
	}
	for _, fh := range files {
		if fh.Size > u.MaxSize {
			return nil, &domain.ValidationError{Field: "images", Reason: fmt.Sprintf("%s exceeds %d MB", fh.Filename, u.MaxSize>>20)}
		}
		if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
			return nil, &domain.ValidationError{Field: "images", Reason: "only images are allowed"}
		}
	}

	names := make([]string, 0, len(files))
	for _, fh := range files {
		name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
		if err := u.save(ctx, name, fh); err != nil {
			u.Discard(ctx, names)
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

func (u *Uploader) save(ctx context.Context, name string, fh *multipart.FileHeader) error {
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()
	return u.Store.Save(ctx, name, f, fh.Size, fh.Header.Get("Content-Type"))
}

// Discard removes stored files, logging failures.
func (u *Uploader) Discard(ctx context.Context, names []string) {
	for _, n := range names {
		if err := u.Store.Remove(ctx, n); err != nil {
			u.Log.Warn("could not discard upload", zap.String("file", n), zap.Error(err))
		}
	}
}
