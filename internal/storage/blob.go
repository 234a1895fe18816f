package storage

import (
	"context"
	"errors"
)

// ErrNotFound reports a key with no readable object. A recent put may lag
// behind reads, so callers fetching fresh keys should go through Fetcher.
var ErrNotFound = errors.New("blob not found")

// BlobStore abstracts the object store holding source scripts.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete is a no-op when the key is absent.
	Delete(ctx context.Context, key string) error
}
