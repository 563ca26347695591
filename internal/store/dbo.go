package store

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/datallboy/mediashelf/internal/domain"
)

// cacheEntryDBO maps to the cache_entries table
type cacheEntryDBO struct {
	CacheName string `db:"cache_name"`
	URL       string `db:"url"`
	Status    int    `db:"status"`
	Header    string `db:"header"`
	BlobID    string `db:"blob_id"`
	Size      int64  `db:"size"`
	CachedAt  int64  `db:"cached_at"`
}

// Mapper: DBO to Domain CacheEntry
func (e *cacheEntryDBO) ToDomain() *domain.CacheEntry {
	header := http.Header{}
	if e.Header != "" {
		// A corrupt header column still leaves the body servable
		_ = json.Unmarshal([]byte(e.Header), &header)
	}

	return &domain.CacheEntry{
		CacheName: e.CacheName,
		URL:       e.URL,
		Status:    e.Status,
		Header:    header,
		BlobID:    e.BlobID,
		Size:      e.Size,
		CachedAt:  time.Unix(e.CachedAt, 0),
	}
}

// Mapper: Domain CacheEntry to DBO
func (e *cacheEntryDBO) FromDomain(entry *domain.CacheEntry) error {
	header := entry.Header
	if header == nil {
		header = http.Header{}
	}
	raw, err := json.Marshal(header)
	if err != nil {
		return err
	}

	e.CacheName = entry.CacheName
	e.URL = entry.URL
	e.Status = entry.Status
	e.Header = string(raw)
	e.BlobID = entry.BlobID
	e.Size = entry.Size

	if !entry.CachedAt.IsZero() {
		e.CachedAt = entry.CachedAt.Unix()
	} else {
		e.CachedAt = time.Now().Unix()
	}
	return nil
}
