package storage

import (
	"context"
	"io"
)

// ObjectStore persists photo evidence and returns a long-lived read URL for
// each stored object. Implementations must not leave a partially written
// object visible on error.
type ObjectStore interface {
	Upload(ctx context.Context, objectPath string, r io.Reader, contentType string) (string, error)
}
