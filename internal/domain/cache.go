package domain

import (
	"net/http"
	"time"
)

// DefaultCacheName is the versioned namespace of the media cache.
// Bumping the version makes the worker discard entries stored under older names.
const DefaultCacheName = "media-cache-v1"

// CacheEntry describes a stored response. The body lives in the blob store under BlobID.
type CacheEntry struct {
	CacheName string      `json:"cache_name"`
	URL       string      `json:"url"`
	Status    int         `json:"status"`
	Header    http.Header `json:"header"`
	BlobID    string      `json:"blob_id"`
	Size      int64       `json:"size"`
	CachedAt  time.Time   `json:"cached_at"`
}
