// Package offline is the foreground side of offline playback. The Controller asks the
// cache worker to download or delete media and keeps the persisted offline and
// favorite sets.
//
// The offline set is updated optimistically: an id is added as soon as the DOWNLOAD
// command is posted, without waiting for the worker. A failed download therefore
// leaves the id marked offline; nothing reconciles the set with the cache store.
package offline

import (
	"context"
	"errors"
	"fmt"

	"github.com/datallboy/mediashelf/internal/domain"
	"github.com/datallboy/mediashelf/internal/infra/logger"
)

// CacheWorker is the part of the background worker the controller talks to.
type CacheWorker interface {
	Active() bool
	PostMessage(cmd domain.Command) error
}

type Controller struct {
	worker    CacheWorker
	log       *logger.Logger
	offline   *IDSet
	favorites *IDSet
}

// NewController loads both persisted sets. Unreadable sets start empty.
func NewController(ctx context.Context, worker CacheWorker, prefs prefStore, log *logger.Logger) *Controller {
	return &Controller{
		worker:    worker,
		log:       log,
		offline:   LoadIDSet(ctx, prefs, OfflineKey, log),
		favorites: LoadIDSet(ctx, prefs, FavoritesKey, log),
	}
}

// RequestDownload posts a DOWNLOAD command for item and marks it offline right away.
func (c *Controller) RequestDownload(ctx context.Context, item domain.LibraryItem) error {
	if !item.HasMedia() {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedOperation, item.ID)
	}

	if err := c.post(domain.DownloadCommand{ItemID: item.ID, URL: item.MediaURL}); err != nil {
		return err
	}

	c.log.Info("Download requested for %s", item.ID)
	return c.offline.Add(ctx, item.ID)
}

// RequestDelete posts a DELETE command for item and clears its offline mark right away.
func (c *Controller) RequestDelete(ctx context.Context, item domain.LibraryItem) error {
	if !item.HasMedia() {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedOperation, item.ID)
	}

	if err := c.post(domain.DeleteCommand{ItemID: item.ID, URL: item.MediaURL}); err != nil {
		// The id stays in the offline set even though the user asked to remove it
		c.log.Warn("Delete for %s dropped: %v", item.ID, err)
		return err
	}

	c.log.Info("Delete requested for %s", item.ID)
	return c.offline.Remove(ctx, item.ID)
}

func (c *Controller) post(cmd domain.Command) error {
	if c.worker == nil || !c.worker.Active() {
		return domain.ErrWorkerUnavailable
	}
	if err := c.worker.PostMessage(cmd); err != nil {
		if errors.Is(err, domain.ErrWorkerUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %v", domain.ErrWorkerUnavailable, err)
	}
	return nil
}

func (c *Controller) IsOffline(id string) bool {
	return c.offline.Has(id)
}

func (c *Controller) OfflineIDs() []string {
	return c.offline.IDs()
}

// ToggleFavorite flips the favorite mark of item and reports the new state.
func (c *Controller) ToggleFavorite(ctx context.Context, item domain.LibraryItem) (bool, error) {
	return c.favorites.Toggle(ctx, item.ID)
}

func (c *Controller) IsFavorite(id string) bool {
	return c.favorites.Has(id)
}

func (c *Controller) FavoriteIDs() []string {
	return c.favorites.IDs()
}
