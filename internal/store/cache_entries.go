package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/datallboy/mediashelf/internal/cache"
	"github.com/datallboy/mediashelf/internal/domain"
	"github.com/segmentio/ksuid"
)

// PutEntry stores a response body under (cacheName, url), replacing any previous entry.
// The body is written to a fresh blob before the index row points at it, so a reader
// never sees a half written payload.
func (s *PersistentStore) PutEntry(ctx context.Context, cacheName, url string, status int, header http.Header, body io.Reader) (*domain.CacheEntry, error) {
	blobID := ksuid.New().String()

	w, err := s.blobs.Create(blobID)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob: %w", err)
	}

	size, err := io.Copy(w, body)
	if err != nil {
		cache.Abort(w)
		return nil, fmt.Errorf("failed to write blob for %s: %w", url, err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize blob for %s: %w", url, err)
	}

	entry := &domain.CacheEntry{
		CacheName: cacheName,
		URL:       url,
		Status:    status,
		Header:    header.Clone(),
		BlobID:    blobID,
		Size:      size,
		CachedAt:  time.Now(),
	}

	oldBlob, err := s.upsertEntry(ctx, entry)
	if err != nil {
		_ = s.blobs.Remove(blobID)
		return nil, err
	}

	if oldBlob != "" && oldBlob != blobID {
		_ = s.blobs.Remove(oldBlob)
	}

	return entry, nil
}

func (s *PersistentStore) upsertEntry(ctx context.Context, entry *domain.CacheEntry) (string, error) {
	var dbo cacheEntryDBO
	if err := dbo.FromDomain(entry); err != nil {
		return "", fmt.Errorf("failed to encode headers: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	var oldBlob string
	err = tx.QueryRowContext(ctx,
		"SELECT blob_id FROM cache_entries WHERE cache_name = ? AND url = ?",
		dbo.CacheName, dbo.URL).Scan(&oldBlob)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("failed to look up cache entry: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO cache_entries (cache_name, url, status, header, blob_id, size, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(cache_name, url) DO UPDATE SET
			status = excluded.status,
			header = excluded.header,
			blob_id = excluded.blob_id,
			size = excluded.size,
			cached_at = excluded.cached_at`,
		dbo.CacheName, dbo.URL, dbo.Status, dbo.Header, dbo.BlobID, dbo.Size, dbo.CachedAt,
	)
	if err != nil {
		return "", fmt.Errorf("failed to upsert cache entry %s: %w", dbo.URL, err)
	}

	return oldBlob, tx.Commit()
}

// MatchEntry looks up the entry stored under the exact url and opens its body.
// Returns domain.ErrCacheMiss when nothing is stored.
func (s *PersistentStore) MatchEntry(ctx context.Context, cacheName, url string) (*domain.CacheEntry, io.ReadCloser, error) {
	entry, err := s.GetEntry(ctx, cacheName, url)
	if err != nil {
		return nil, nil, err
	}

	body, err := s.blobs.Open(entry.BlobID)
	if err != nil {
		// Entry deleted between the lookup and the open
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, domain.ErrCacheMiss
		}
		return nil, nil, fmt.Errorf("failed to open blob %s: %w", entry.BlobID, err)
	}

	return entry, body, nil
}

func (s *PersistentStore) GetEntry(ctx context.Context, cacheName, url string) (*domain.CacheEntry, error) {
	query := `
		SELECT cache_name, url, status, header, blob_id, size, cached_at
		FROM cache_entries
		WHERE cache_name = ? AND url = ? LIMIT 1`

	var dbo cacheEntryDBO
	err := s.db.QueryRowContext(ctx, query, cacheName, url).Scan(
		&dbo.CacheName, &dbo.URL, &dbo.Status, &dbo.Header, &dbo.BlobID, &dbo.Size, &dbo.CachedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to fetch cache entry: %w", err)
	}

	return dbo.ToDomain(), nil
}

// DeleteEntry removes the entry for url. Deleting an absent entry is a no-op and
// reports false.
func (s *PersistentStore) DeleteEntry(ctx context.Context, cacheName, url string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var blobID string
	err = tx.QueryRowContext(ctx,
		"SELECT blob_id FROM cache_entries WHERE cache_name = ? AND url = ?",
		cacheName, url).Scan(&blobID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up cache entry: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM cache_entries WHERE cache_name = ? AND url = ?", cacheName, url); err != nil {
		return false, fmt.Errorf("failed to delete cache entry %s: %w", url, err)
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}

	if err := s.blobs.Remove(blobID); err != nil {
		return true, fmt.Errorf("entry removed but blob %s remains: %w", blobID, err)
	}

	return true, nil
}

// ListEntries returns every entry of a cache, oldest first.
func (s *PersistentStore) ListEntries(ctx context.Context, cacheName string) ([]*domain.CacheEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT cache_name, url, status, header, blob_id, size, cached_at
		FROM cache_entries
		WHERE cache_name = ?
		ORDER BY cached_at ASC, url ASC`, cacheName)
	if err != nil {
		return nil, fmt.Errorf("failed to list cache entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.CacheEntry
	for rows.Next() {
		var dbo cacheEntryDBO
		if err := rows.Scan(&dbo.CacheName, &dbo.URL, &dbo.Status, &dbo.Header, &dbo.BlobID, &dbo.Size, &dbo.CachedAt); err != nil {
			return nil, err
		}
		entries = append(entries, dbo.ToDomain())
	}

	return entries, rows.Err()
}

// PurgeCachesExcept drops every entry whose cache name differs from keep.
// This is how a cache version bump invalidates old payloads.
func (s *PersistentStore) PurgeCachesExcept(ctx context.Context, keep string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, "SELECT blob_id FROM cache_entries WHERE cache_name != ?", keep)
	if err != nil {
		return 0, fmt.Errorf("failed to list stale entries: %w", err)
	}

	var blobIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		blobIDs = append(blobIDs, id)
	}
	rows.Close()

	if len(blobIDs) == 0 {
		return 0, nil
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM cache_entries WHERE cache_name != ?", keep); err != nil {
		return 0, fmt.Errorf("failed to purge stale entries: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	for _, id := range blobIDs {
		_ = s.blobs.Remove(id)
	}

	return len(blobIDs), nil
}
