package storage

import (
	"context"
	"io"
	"time"
)

// Storage is the interface all object storage backends implement
type Storage interface {
	// Put stores an object under the given key.
	Put(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Get returns a reader for the object. The caller closes it.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether the key is present.
	Exists(ctx context.Context, key string) (bool, error)

	// GetURL returns the public URL for a key.
	GetURL(key string) string

	// GetInfo returns object metadata.
	GetInfo(ctx context.Context, key string) (*FileInfo, error)
}

// FileInfo describes a stored object
type FileInfo struct {
	Key          string
	Size         int64
	ContentType  string
	URL          string
	LastModified time.Time
}

// Config holds S3/MinIO connection configuration
type Config struct {
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string
}

// AllowedMimeTypes maps an upload category to the accepted content types
var AllowedMimeTypes = map[string][]string{
	"image":  {"image/jpeg", "image/png", "image/webp", "image/gif"},
	"avatar": {"image/jpeg", "image/png", "image/webp"},
}

// MaxFileSizes maps an upload category to its maximum size in bytes
var MaxFileSizes = map[string]int64{
	"image":  10 * 1024 * 1024,
	"avatar": 5 * 1024 * 1024,
}
