package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// App представляет HTTP сервер приложения
type App struct {
	logger *slog.Logger
	server *http.Server
}

// NewApp создает App поверх собранного роутера
func NewApp(logger *slog.Logger, addr string, handler http.Handler) *App {
	return &App{
		logger: logger,
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Run запускает сервер и блокируется до отмены ctx,
// после чего выполняет graceful shutdown
func (a *App) Run(ctx context.Context) error {
	errC := make(chan error, 1)

	go func() {
		a.logger.Info("HTTP server listening", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
	}()

	select {
	case err := <-errC:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}

	return nil
}
