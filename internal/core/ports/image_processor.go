package ports

import (
	"context"
)

// ImageProcessor turns a raw menu image upload into its serving rendition.
// Implementations read the source object from storage, validate and decode
// it, scale it down, and write the result back under a derived key.
type ImageProcessor interface {
	// Process handles the object stored under sourceKey and returns the
	// storage key of the processed rendition.
	Process(ctx context.Context, sourceKey string) (string, error)
}
