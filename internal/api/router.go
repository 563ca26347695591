package api

import (
	"github.com/datallboy/mediashelf/internal/api/controllers"
	"github.com/datallboy/mediashelf/internal/app"
	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
)

func RegisterRoutes(e *echo.Echo, app *app.Context) {

	// Middleware: Request Logger
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c *echo.Context, v middleware.RequestLoggerValues) error {
			app.Logger.Info("%s %s | %d | %s", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))

	libCtrl := &controllers.LibraryController{App: app}
	mediaCtrl := &controllers.MediaController{App: app}

	api := e.Group("/api")

	// Catalog with offline / favorite flags
	api.GET("/items", libCtrl.List)
	api.GET("/items/:id", libCtrl.Get)

	// Offline commands
	api.POST("/items/:id/offline", libCtrl.Download)
	api.DELETE("/items/:id/offline", libCtrl.Delete)
	api.GET("/offline", libCtrl.Offline)

	api.POST("/items/:id/favorite", libCtrl.ToggleFavorite)
	api.GET("/favorites", libCtrl.Favorites)

	// Raw worker protocol and cache inspection
	api.POST("/worker/messages", mediaCtrl.PostMessage)
	api.GET("/cache", mediaCtrl.ListCache)

	// Playback goes through the interceptor
	e.GET("/media/:id", mediaCtrl.Stream)
}
