// Package storage defines persistence contracts for map files and their
// upload history.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// MapExtension is the suffix every stored map carries.
const MapExtension = ".explo"

var (
	// ErrNotFound indicates a requested map does not exist.
	ErrNotFound = errors.New("map not found")
	// ErrInvalidName indicates a map name that cannot address a file in the
	// map directory.
	ErrInvalidName = errors.New("invalid map name")
)

// ReadError reports a map that exists but could not be read.
type ReadError struct {
	Name string
	Err  error
}

// Error implements the error interface.
func (e *ReadError) Error() string {
	return fmt.Sprintf("read map %q: %v", e.Name, e.Err)
}

// Unwrap returns the underlying I/O error.
func (e *ReadError) Unwrap() error {
	return e.Err
}

// WriteError reports a failed map write. No partial file is left behind.
type WriteError struct {
	Name string
	Err  error
}

// Error implements the error interface.
func (e *WriteError) Error() string {
	return fmt.Sprintf("write map %q: %v", e.Name, e.Err)
}

// Unwrap returns the underlying I/O error.
func (e *WriteError) Unwrap() error {
	return e.Err
}

// MapStore reads and writes map files.
type MapStore interface {
	ListMaps(ctx context.Context) ([]string, error)
	GetMap(ctx context.Context, name string) (string, error)
	// UploadMap stores content and returns the file name it was stored as.
	UploadMap(ctx context.Context, name string, content string) (string, error)
}

// Revision records one successful upload.
type Revision struct {
	Name       string
	SizeBytes  int64
	Checksum   string
	UploadedAt time.Time
}

// RevisionPage stores one page of revisions.
type RevisionPage struct {
	Revisions     []Revision
	NextPageToken string
}

// RevisionStore persists upload history.
type RevisionStore interface {
	RecordRevision(ctx context.Context, revision Revision) error
	ListRevisions(ctx context.Context, name string, pageSize int, pageToken string) (RevisionPage, error)
}

// ValidateName rejects names that are empty or would escape the map
// directory.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidName)
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return fmt.Errorf("%w: %q must be a plain file name", ErrInvalidName, name)
	}
	return nil
}

// StoredName returns the file name a map is stored under: name with the
// map extension appended when missing.
func StoredName(name string) string {
	if strings.HasSuffix(name, MapExtension) {
		return name
	}
	return name + MapExtension
}
