package worker

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/datallboy/mediashelf/internal/domain"
)

func (w *Worker) execute(ctx context.Context, cmd domain.Command) error {
	switch c := cmd.(type) {
	case domain.DownloadCommand:
		return w.download(ctx, c)
	case domain.DeleteCommand:
		return w.delete(ctx, c)
	default:
		return fmt.Errorf("%w: %T", domain.ErrInvalidCommand, cmd)
	}
}

// download fetches the url and stores the full response under it. Any failure leaves
// the cache untouched.
func (w *Worker) download(ctx context.Context, cmd domain.DownloadCommand) error {
	u, err := url.Parse(cmd.URL)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidCommand, err)
	}
	key := cacheKey(u)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, key, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidCommand, err)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrNetworkFailure, key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: network response was not ok for %s: %s", domain.ErrNetworkFailure, key, resp.Status)
	}

	w.log.Info("Caching new resource: %s", key)

	entry, err := w.store.PutEntry(ctx, w.cacheName, key, resp.StatusCode, resp.Header, resp.Body)
	if err != nil {
		return fmt.Errorf("failed to cache %s: %w", key, err)
	}

	w.log.Debug("Cached %s (%d bytes, blob %s)", key, entry.Size, entry.BlobID)
	return nil
}

func (w *Worker) delete(ctx context.Context, cmd domain.DeleteCommand) error {
	u, err := url.Parse(cmd.URL)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidCommand, err)
	}
	key := cacheKey(u)

	w.log.Info("Deleting resource: %s", key)

	removed, err := w.store.DeleteEntry(ctx, w.cacheName, key)
	if err != nil {
		return err
	}
	if !removed {
		w.log.Debug("Nothing cached for %s", key)
	}
	return nil
}
