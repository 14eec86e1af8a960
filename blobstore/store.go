package blobstore

import (
	"context"
	"errors"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// ErrAborted is returned by a WritableBlob after Abort.
var ErrAborted = errors.New("blob write aborted")

// Store is the sink generated corpora are written to.
// Implementations must be safe for concurrent use.
type Store interface {
	// Create creates or overwrites a blob for streaming writes.
	// The blob becomes visible once Close returns nil.
	Create(ctx context.Context, name string) (WritableBlob, error)
	// Open opens a blob for sequential reading.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// Put writes a small blob in one call.
	Put(ctx context.Context, name string, data []byte) error
	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error
	// List returns the sorted names of all blobs with the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// WritableBlob is a blob being written.
type WritableBlob interface {
	io.Writer
	// Close finishes the write and reports any deferred error.
	Close() error
	// Abort stops the write. Any bytes already persisted may remain.
	Abort() error
}

// Locator is implemented by stores that can describe where a blob lives,
// for logging.
type Locator interface {
	Location(name string) string
}

// Location returns a human-readable location of name in s.
func Location(s Store, name string) string {
	if l, ok := s.(Locator); ok {
		return l.Location(name)
	}
	return name
}

// ReadAll reads a whole blob.
func ReadAll(ctx context.Context, s Store, name string) ([]byte, error) {
	r, err := s.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
