package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// LocalStore writes images to a filesystem served under a URL prefix.
type LocalStore struct {
	fs        afero.Fs
	urlPrefix string
}

// NewLocalStore creates a LocalStore rooted at root on the OS filesystem.
func NewLocalStore(root, urlPrefix string) *LocalStore {
	return NewLocalStoreFs(afero.NewBasePathFs(afero.NewOsFs(), root), urlPrefix)
}

// NewLocalStoreFs creates a LocalStore on an arbitrary afero filesystem.
func NewLocalStoreFs(fs afero.Fs, urlPrefix string) *LocalStore {
	return &LocalStore{
		fs:        fs,
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
	}
}

// Save writes img to dir/<uuid><ext>.
func (s *LocalStore) Save(_ context.Context, dir string, img *Image) (string, error) {
	dir = strings.Trim(dir, "/")
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory %s: %w", dir, err)
	}
	ref := path.Join(dir, uuid.New().String()+img.Extension)
	if err := afero.WriteFile(s.fs, ref, img.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image %s: %w", ref, err)
	}
	return ref, nil
}

// Delete removes ref from disk.
func (s *LocalStore) Delete(_ context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	if err := s.fs.Remove(ref); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete image %s: %w", ref, err)
	}
	return nil
}

// URL returns ref under the configured prefix.
func (s *LocalStore) URL(ref string) string {
	if ref == "" {
		return ""
	}
	return path.Join(s.urlPrefix, ref)
}
