// Package images stores post images in object storage and serves them
// back under /images. Keys are derived from the upload timestamp plus the
// original file name so concurrent uploads of the same file never collide.
package images

import (
	"context"
	"io"
	"log"
	"path"
	"strings"
	"time"
)

// PathPrefix is the public path prefix for stored images; the remainder
// of the path is the object key.
const PathPrefix = "images/"

// allowedTypes are the declared content types accepted for upload. Files
// outside this set are skipped, not rejected.
var allowedTypes = map[string]bool{
	"image/png":  true,
	"image/jpg":  true,
	"image/jpeg": true,
}

// ObjectStore defines the interface for image object storage.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)
	Remove(ctx context.Context, key string) error
}

// Manager names, stores, serves and deletes image objects.
type Manager struct {
	store ObjectStore
}

func NewManager(store ObjectStore) *Manager {
	return &Manager{store: store}
}

// Allowed reports whether the declared content type may be stored.
func Allowed(contentType string) bool {
	return allowedTypes[contentType]
}

// ObjectKey maps a public image path back to its object key. Returns ""
// for paths outside the images namespace.
func ObjectKey(p string) string {
	key, ok := strings.CutPrefix(p, PathPrefix)
	if !ok {
		return ""
	}
	return key
}

// Save stores the file and returns its public path.
func (m *Manager) Save(ctx context.Context, filename, contentType string, r io.Reader, size int64) (string, error) {
	key := time.Now().UTC().Format("2006-01-02T15:04:05.000Z") + "-" + path.Base(filename)
	if err := m.store.Upload(ctx, key, r, size, contentTypeOrDefault(contentType)); err != nil {
		return "", err
	}
	return PathPrefix + key, nil
}

// Open returns a reader over the image at the given object key.
func (m *Manager) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	return m.store.Open(ctx, key)
}

// Clear deletes the image behind a public path, best-effort: the removal
// runs detached and failures are only logged. A missing object is not an
// error anyone sees.
func (m *Manager) Clear(imagePath string) {
	key := ObjectKey(imagePath)
	if key == "" {
		return
	}
	go func() {
		if err := m.store.Remove(context.Background(), key); err != nil {
			log.Printf("clear image %s: %v", key, err)
		}
	}()
}

func contentTypeOrDefault(ct string) string {
	if ct == "" {
		return "application/octet-stream"
	}
	return ct
}
