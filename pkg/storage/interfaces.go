package storage

import (
	"context"
	"io"
)

// ObjectStorage is the durable blob store artifacts are published to.
type ObjectStorage interface {
	// Upload stores the object under key and returns its public URL.
	Upload(ctx context.Context, key string, src io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}
