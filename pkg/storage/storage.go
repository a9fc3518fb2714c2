// Package storage keeps uploaded statements on disk for the short time it
// takes to extract them.
package storage

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned for an unknown or already removed upload.
	ErrNotFound = errors.New("file not found")
	// ErrTooLarge is returned when an upload exceeds the configured limit.
	ErrTooLarge = errors.New("file too large")
)

// FileInfo contains metadata about a stored file
type FileInfo struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	Path        string    `json:"path"` // Internal storage path
	CreatedAt   time.Time `json:"created_at"`
}

// Storage defines the operations on temporary uploads
type Storage interface {
	// Save stores an upload and returns its metadata
	Save(ctx context.Context, filename string, contentType string, r io.Reader) (*FileInfo, error)

	// Open returns a reader for a stored upload
	Open(ctx context.Context, fileID uuid.UUID) (io.ReadCloser, *FileInfo, error)

	// LocalPath returns the absolute path of the stored upload
	LocalPath(ctx context.Context, fileID uuid.UUID) (string, error)

	// Delete removes an upload; deleting a missing upload is not an error
	Delete(ctx context.Context, fileID uuid.UUID) error

	// List returns every stored upload
	List(ctx context.Context) ([]*FileInfo, error)

	// Sweep removes uploads older than maxAge and reports how many were removed
	Sweep(ctx context.Context, maxAge time.Duration) (int, error)
}
