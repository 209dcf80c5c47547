package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"
)

// MediaRepository defines the interface for media object storage. Upload
// returns the stable public URL of the stored object.
type MediaRepository interface {
	Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)
	Delete(ctx context.Context, objectPath string) error
	URL(objectPath string) string
}

// GenerateObjectPath creates a unique object path for one uploaded asset,
// grouped by kind, e.g. "image/3f2a…9c.jpg".
func GenerateObjectPath(kind string, ext string) string {
	return path.Join(kind, fmt.Sprintf("%s%s", uuid.New().String(), ext))
}
