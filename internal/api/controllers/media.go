package controllers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/datallboy/mediashelf/internal/app"
	"github.com/datallboy/mediashelf/internal/domain"
	"github.com/labstack/echo/v5"
)

// messages are tiny JSON envelopes; anything bigger is not a command
const maxMessageBytes = 64 << 10

type MediaController struct {
	App *app.Context
}

// Stream plays an item's media through the interceptor, so cached items are served
// from the local store and everything else from the provider.
func (ctrl *MediaController) Stream(c *echo.Context) error {
	item, err := ctrl.App.Library.Get(c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	if !item.HasMedia() {
		return writeError(c, fmt.Errorf("%w: %s", domain.ErrUnsupportedOperation, item.ID))
	}

	req, err := http.NewRequestWithContext(c.Request().Context(), http.MethodGet, item.MediaURL, nil)
	if err != nil {
		return writeError(c, err)
	}
	if r := c.Request().Header.Get("Range"); r != "" {
		req.Header.Set("Range", r)
	}

	resp, err := ctrl.App.Worker.Client().Do(req)
	if err != nil {
		ctrl.App.Logger.Warn("Playback fetch for %s failed: %v", item.ID, err)
		return writeError(c, fmt.Errorf("%w: %v", domain.ErrNetworkFailure, err))
	}
	defer resp.Body.Close()

	for _, h := range []string{"Content-Length", "Content-Range", "Accept-Ranges", "ETag", "Last-Modified"} {
		if v := resp.Header.Get(h); v != "" {
			c.Response().Header().Set(h, v)
		}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return c.Stream(resp.StatusCode, contentType, resp.Body)
}

// PostMessage accepts a raw worker envelope, e.g.
// {"type":"DOWNLOAD","payload":{"id":"a1","url":"https://..."}}.
// It goes straight to the worker and does not touch the offline set.
func (ctrl *MediaController) PostMessage(c *echo.Context) error {
	data, err := io.ReadAll(io.LimitReader(c.Request().Body, maxMessageBytes))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	cmd, err := domain.DecodeCommand(data)
	if err != nil {
		return writeError(c, err)
	}

	if err := ctrl.App.Worker.PostMessage(cmd); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusAccepted)
}

// ListCache shows what the current cache version holds.
func (ctrl *MediaController) ListCache(c *echo.Context) error {
	name := ctrl.App.Worker.CacheName()
	entries, err := ctrl.App.Cache.ListEntries(c.Request().Context(), name)
	if err != nil {
		return writeError(c, err)
	}

	resp := CacheListResponse{CacheName: name, Entries: make([]CacheEntryView, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, CacheEntryView{
			URL:         e.URL,
			Status:      e.Status,
			ContentType: e.Header.Get("Content-Type"),
			Size:        e.Size,
			CachedAt:    e.CachedAt,
		})
	}
	return c.JSON(http.StatusOK, resp)
}
