package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/datallboy/mediashelf/internal/api"
	"github.com/labstack/echo/v5"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the background cache worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Cancelled on Ctrl+C / SIGTERM
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			c, err := bootstrap(ctx, true)
			if err != nil {
				return err
			}
			defer c.close()

			log := c.app.Logger

			// The worker lives for the whole process, independent of any request
			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				c.worker.Supervise(ctx)
			}()

			e := echo.New()
			api.RegisterRoutes(e, c.app)

			srv := &http.Server{
				Addr:              ":" + c.app.Config.Port,
				Handler:           e,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info("Listening on %s", srv.Addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case <-ctx.Done():
			case err := <-errCh:
				if err != nil {
					stop()
					wg.Wait()
					return err
				}
			}

			log.Info("Shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Warn("HTTP shutdown: %v", err)
			}

			// Pending downloads finish before the store closes
			wg.Wait()
			return nil
		},
	}
}
