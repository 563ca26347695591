package controllers

import (
	"time"

	"github.com/datallboy/mediashelf/internal/domain"
)

type ItemView struct {
	domain.LibraryItem
	Offline  bool `json:"offline"`
	Favorite bool `json:"favorite"`
}

type FavoriteResponse struct {
	ID       string `json:"id"`
	Favorite bool   `json:"favorite"`
}

type CommandResponse struct {
	ID      string `json:"id"`
	Offline bool   `json:"offline"`
}

type IDListResponse struct {
	IDs []string `json:"ids"`
}

type CacheEntryView struct {
	URL         string    `json:"url"`
	Status      int       `json:"status"`
	ContentType string    `json:"content_type,omitempty"`
	Size        int64     `json:"size"`
	CachedAt    time.Time `json:"cached_at"`
}

type CacheListResponse struct {
	CacheName string           `json:"cache_name"`
	Entries   []CacheEntryView `json:"entries"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
