package controllers

import (
	"net/http"

	"github.com/datallboy/mediashelf/internal/app"
	"github.com/datallboy/mediashelf/internal/domain"
	"github.com/labstack/echo/v5"
)

type LibraryController struct {
	App *app.Context
}

func (ctrl *LibraryController) view(item domain.LibraryItem) ItemView {
	return ItemView{
		LibraryItem: item,
		Offline:     ctrl.App.Offline.IsOffline(item.ID),
		Favorite:    ctrl.App.Offline.IsFavorite(item.ID),
	}
}

// List returns the catalog, optionally filtered by ?kind=
func (ctrl *LibraryController) List(c *echo.Context) error {
	var items []domain.LibraryItem
	if kind := c.QueryParam("kind"); kind != "" {
		items = ctrl.App.Library.ByKind(domain.ItemKind(kind))
	} else {
		items = ctrl.App.Library.All()
	}

	views := make([]ItemView, 0, len(items))
	for _, item := range items {
		views = append(views, ctrl.view(item))
	}
	return c.JSON(http.StatusOK, views)
}

func (ctrl *LibraryController) Get(c *echo.Context) error {
	item, err := ctrl.App.Library.Get(c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, ctrl.view(item))
}

// Download asks the worker to cache the item. The response does not wait for the
// download; the item is reported offline immediately.
func (ctrl *LibraryController) Download(c *echo.Context) error {
	item, err := ctrl.App.Library.Get(c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	if err := ctrl.App.Offline.RequestDownload(c.Request().Context(), item); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusAccepted, CommandResponse{ID: item.ID, Offline: ctrl.App.Offline.IsOffline(item.ID)})
}

func (ctrl *LibraryController) Delete(c *echo.Context) error {
	item, err := ctrl.App.Library.Get(c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	if err := ctrl.App.Offline.RequestDelete(c.Request().Context(), item); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusAccepted, CommandResponse{ID: item.ID, Offline: ctrl.App.Offline.IsOffline(item.ID)})
}

func (ctrl *LibraryController) Offline(c *echo.Context) error {
	return c.JSON(http.StatusOK, IDListResponse{IDs: ctrl.App.Offline.OfflineIDs()})
}

func (ctrl *LibraryController) ToggleFavorite(c *echo.Context) error {
	item, err := ctrl.App.Library.Get(c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	fav, err := ctrl.App.Offline.ToggleFavorite(c.Request().Context(), item)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, FavoriteResponse{ID: item.ID, Favorite: fav})
}

func (ctrl *LibraryController) Favorites(c *echo.Context) error {
	return c.JSON(http.StatusOK, IDListResponse{IDs: ctrl.App.Offline.FavoriteIDs()})
}
