package videos

import (
	"context"
	"io"
	"time"
)

// AWSRepository is the object store capability: put, get, list-with-prefix,
// presign and delete against a single configured bucket.
type AWSRepository interface {
	PutObject(ctx context.Context, key, contentType string, body io.Reader) error
	GetObject(ctx context.Context, key string) (io.ReadCloser, error)
	ListObjects(ctx context.Context, prefix string) ([]string, error)
	GetPresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
	RemoveObject(ctx context.Context, key string) error
}
