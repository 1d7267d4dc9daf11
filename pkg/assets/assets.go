package assets

import (
	"context"
	"errors"
	"io"
	"time"
)

// Store defines the interface for uploaded-image storage backends. Names
// are flat file names assigned by the upload layer; backends never see
// directories.
type Store interface {
	// Save stores the named file
	Save(ctx context.Context, name string, reader io.Reader) error

	// Open streams the named file
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// Delete removes the named file
	Delete(ctx context.Context, name string) error

	// URL returns a browser-reachable URL for the named file, or
	// ErrNoDirectURL when the backend can only stream through Open
	URL(ctx context.Context, name string) (string, error)

	// Meta retrieves size and content type for the named file
	Meta(ctx context.Context, name string) (*Meta, error)
}

// Meta contains metadata about a stored file
type Meta struct {
	Name        string
	Size        int64
	ContentType string
	UpdatedAt   time.Time
}

var (
	// ErrNotFound indicates the named file is not in the store
	ErrNotFound = errors.New("asset not found")

	// ErrNoDirectURL indicates the backend has no client-facing URL and
	// content must be streamed through Open
	ErrNoDirectURL = errors.New("asset store has no direct URL")
)
