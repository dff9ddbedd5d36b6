// Package filesystem stores maps as plain files in one directory.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/louisbranch/navfiles/internal/services/navfiles/storage"
)

// tempPrefix marks in-flight uploads; ListMaps never reports them.
const tempPrefix = ".upload-"

// Store reads and writes maps under a fixed directory.
type Store struct {
	dir string
}

// Open returns a store rooted at dir, creating the directory if needed.
func Open(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("map directory is required")
	}
	cleanDir := filepath.Clean(dir)
	if err := os.MkdirAll(cleanDir, 0o755); err != nil {
		return nil, fmt.Errorf("create map dir: %w", err)
	}
	return &Store{dir: cleanDir}, nil
}

// Dir returns the map directory.
func (s *Store) Dir() string {
	return s.dir
}

// ListMaps returns the file names in the map directory in lexical order.
func (s *Store) ListMaps(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list maps: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), tempPrefix) {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// GetMap returns the content of name. A name without the map extension
// reads its stored form first, so "lab" finds "lab.explo" even when a plain
// "lab" file also exists.
func (s *Store) GetMap(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := validateName(name); err != nil {
		return "", err
	}

	stored := storage.StoredName(name)
	content, err := s.read(stored)
	if errors.Is(err, storage.ErrNotFound) && stored != name {
		content, err = s.read(name)
	}
	return content, err
}

// validateName rejects names in the temp file namespace ListMaps hides.
func validateName(name string) error {
	if err := storage.ValidateName(name); err != nil {
		return err
	}
	if strings.HasPrefix(name, tempPrefix) {
		return fmt.Errorf("%w: %q uses the reserved %q prefix", storage.ErrInvalidName, name, tempPrefix)
	}
	return nil
}

func (s *Store) read(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", storage.ErrNotFound
		}
		return "", &storage.ReadError{Name: name, Err: err}
	}
	return string(data), nil
}

// UploadMap writes content in full under the stored form of name, replacing
// any previous file. The write goes to a temp file that is renamed into
// place, so readers never observe a partial map.
func (s *Store) UploadMap(ctx context.Context, name string, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := validateName(name); err != nil {
		return "", err
	}
	stored := storage.StoredName(name)

	tmp, err := os.CreateTemp(s.dir, tempPrefix+"*")
	if err != nil {
		return "", &storage.WriteError{Name: stored, Err: err}
	}
	tmpPath := tmp.Name()
	fail := func(err error) (string, error) {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", &storage.WriteError{Name: stored, Err: err}
	}

	if _, err := tmp.WriteString(content); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		return fail(err)
	}
	if err := os.Rename(tmpPath, filepath.Join(s.dir, stored)); err != nil {
		_ = os.Remove(tmpPath)
		return "", &storage.WriteError{Name: stored, Err: err}
	}
	return stored, nil
}

var _ storage.MapStore = (*Store)(nil)
