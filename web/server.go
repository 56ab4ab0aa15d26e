package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dasdy/softkbd/web/routes"
)

func disableCacheInDevMode(dev bool, next http.Handler) http.Handler {
	if !dev {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

func BuildServer(handler *routes.ServerHandler, dev bool) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("/combo", disableCacheInDevMode(dev, http.HandlerFunc(handler.CombosHandle)))
	mux.Handle("/neighbors", disableCacheInDevMode(dev, http.HandlerFunc(handler.NeighborsHandle)))
	mux.Handle("/", disableCacheInDevMode(dev, http.HandlerFunc(handler.StatsHandle)))

	return mux
}

// StartServer serves the statistics pages until ctx is done.
func StartServer(ctx context.Context, port int, handler *routes.ServerHandler, dev bool) error {
	slog.Info("Running interface", "port", port)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           BuildServer(handler, dev),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errs := make(chan error, 1)

	go func() {
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return fmt.Errorf("could not run server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server: %w", err)
		}

		if err := <-errs; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("could not run server: %w", err)
		}

		return nil
	}
}
