// Package sqlite provides a SQLite-backed ledger of map uploads.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/navfiles/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/navfiles/internal/services/navfiles/storage"
	"github.com/louisbranch/navfiles/internal/services/navfiles/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists map revisions in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite revision store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// RecordRevision appends one upload record.
func (s *Store) RecordRevision(ctx context.Context, revision storage.Revision) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	name := strings.TrimSpace(revision.Name)
	if name == "" {
		return fmt.Errorf("map name is required")
	}
	if revision.SizeBytes < 0 {
		return fmt.Errorf("size must not be negative")
	}
	uploadedAt := revision.UploadedAt
	if uploadedAt.IsZero() {
		uploadedAt = time.Now()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO map_revisions (name, size_bytes, checksum, uploaded_at)
		 VALUES (?, ?, ?, ?)`,
		name,
		revision.SizeBytes,
		revision.Checksum,
		toMillis(uploadedAt),
	)
	if err != nil {
		return fmt.Errorf("record map revision: %w", err)
	}
	return nil
}

// ListRevisions returns one page of revisions for name, newest first. The
// page token is the row id of the last revision on the previous page.
func (s *Store) ListRevisions(ctx context.Context, name string, pageSize int, pageToken string) (storage.RevisionPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.RevisionPage{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.RevisionPage{}, fmt.Errorf("storage is not configured")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return storage.RevisionPage{}, fmt.Errorf("map name is required")
	}
	if pageSize <= 0 {
		return storage.RevisionPage{}, fmt.Errorf("page size must be greater than zero")
	}

	var (
		rows *sql.Rows
		err  error
	)
	pageToken = strings.TrimSpace(pageToken)
	if pageToken == "" {
		rows, err = s.sqlDB.QueryContext(
			ctx,
			`SELECT id, name, size_bytes, checksum, uploaded_at
			   FROM map_revisions
			  WHERE name = ?
			  ORDER BY id DESC
			  LIMIT ?`,
			name,
			pageSize+1,
		)
	} else {
		afterID, parseErr := strconv.ParseInt(pageToken, 10, 64)
		if parseErr != nil {
			return storage.RevisionPage{}, fmt.Errorf("invalid page token %q", pageToken)
		}
		rows, err = s.sqlDB.QueryContext(
			ctx,
			`SELECT id, name, size_bytes, checksum, uploaded_at
			   FROM map_revisions
			  WHERE name = ? AND id < ?
			  ORDER BY id DESC
			  LIMIT ?`,
			name,
			afterID,
			pageSize+1,
		)
	}
	if err != nil {
		return storage.RevisionPage{}, fmt.Errorf("list map revisions: %w", err)
	}
	defer rows.Close()

	page := storage.RevisionPage{Revisions: make([]storage.Revision, 0, pageSize)}
	var ids []int64
	for rows.Next() {
		var (
			id         int64
			revision   storage.Revision
			uploadedAt int64
		)
		if err := rows.Scan(&id, &revision.Name, &revision.SizeBytes, &revision.Checksum, &uploadedAt); err != nil {
			return storage.RevisionPage{}, fmt.Errorf("list map revisions: %w", err)
		}
		revision.UploadedAt = fromMillis(uploadedAt)
		page.Revisions = append(page.Revisions, revision)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return storage.RevisionPage{}, fmt.Errorf("list map revisions: %w", err)
	}
	if len(page.Revisions) > pageSize {
		page.NextPageToken = strconv.FormatInt(ids[pageSize-1], 10)
		page.Revisions = page.Revisions[:pageSize]
	}
	return page, nil
}

var _ storage.RevisionStore = (*Store)(nil)
