package ports

import (
	"context"
	"io"
)

// ObjectStorage defines the contract for storing raw upload bytes outside
// the relational store. Keys are opaque to the core; adapters decide how
// keys map onto the backing medium.
type ObjectStorage interface {
	// Put writes the content under key, overwriting any previous object.
	Put(ctx context.Context, key string, content io.Reader) error

	// Get opens the object stored under key. The caller closes the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object stored under key. Deleting a missing
	// object is not an error.
	Delete(ctx context.Context, key string) error
}
