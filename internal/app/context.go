package app

import (
	"context"
	"net/http"

	"github.com/datallboy/mediashelf/internal/domain"
	"github.com/datallboy/mediashelf/internal/infra/config"
	"github.com/datallboy/mediashelf/internal/infra/logger"
)

type Library interface {
	All() []domain.LibraryItem
	Get(id string) (domain.LibraryItem, error)
	ByKind(kind domain.ItemKind) []domain.LibraryItem
}

type OfflineController interface {
	RequestDownload(ctx context.Context, item domain.LibraryItem) error
	RequestDelete(ctx context.Context, item domain.LibraryItem) error
	ToggleFavorite(ctx context.Context, item domain.LibraryItem) (bool, error)
	IsOffline(id string) bool
	IsFavorite(id string) bool
	OfflineIDs() []string
	FavoriteIDs() []string
}

type CacheWorker interface {
	Active() bool
	PostMessage(cmd domain.Command) error
	CacheName() string
	// Client fetches through the cache interception policy
	Client() *http.Client
}

type CacheIndex interface {
	ListEntries(ctx context.Context, cacheName string) ([]*domain.CacheEntry, error)
}

// Context hold the core environment and shared resources for mediashelf.
// The worker owns the cache store; the offline controller owns the id sets.
type Context struct {
	Config *config.Config
	Logger *logger.Logger

	Library Library
	Offline OfflineController
	Worker  CacheWorker
	Cache   CacheIndex
}

// NewContext initializes the base environment.
func NewContext(cfg *config.Config, log *logger.Logger) *Context {
	return &Context{
		Config: cfg,
		Logger: log,
	}
}
