package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"laborviz/internal/config"
	"laborviz/internal/fetchers"
	"laborviz/internal/logger"
	"laborviz/internal/mocks"
	"laborviz/internal/server"
	"laborviz/internal/storage"
)

// newSource builds the data source selected by cfg. For static sources
// the returned storage client holds the documents and must be closed by
// the caller; it is nil otherwise.
func newSource(ctx context.Context, cfg *config.Config) (fetchers.Source, storage.StorageClient, error) {
	switch cfg.DataSource {
	case config.SourceREST:
		baseURL := fetchers.ResolveBaseURL(cfg.APIBaseURL, cfg.APIOrigin)
		return fetchers.NewRESTSource(baseURL, cfg.FetchTimeout), nil, nil

	case config.SourceStatic:
		store, err := storage.NewStorageClient(ctx, cfg, cfg.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open data storage: %w", err)
		}
		return fetchers.NewStaticSource(store), store, nil

	case config.SourceMock:
		return mocks.NewMockService(), nil, nil
	}
	return nil, nil, fmt.Errorf("unsupported data source: %s", cfg.DataSource)
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logCloser, err := logger.Setup(logger.Options{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		File:        cfg.LogFile,
		Environment: cfg.Environment,
	})
	if err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}
	defer logCloser.Close()

	logger.Info("Starting labor hours dashboard", map[string]interface{}{
		"port":        cfg.Port,
		"environment": cfg.Environment,
		"source":      cfg.DataSource,
		"storage":     cfg.StorageMode,
		"version":     config.GetVersion(),
	})

	source, dataStore, err := newSource(ctx, cfg)
	if err != nil {
		return err
	}
	if dataStore != nil {
		defer dataStore.Close()
	}

	exports, err := storage.NewStorageClient(ctx, cfg, cfg.ExportDir)
	if err != nil {
		return fmt.Errorf("failed to open export storage: %w", err)
	}

	srv, err := server.NewServer(cfg, fetchers.NewDataAccess(source), exports)
	if err != nil {
		exports.Close()
		return fmt.Errorf("failed to create server: %w", err)
	}
	defer srv.Close()

	srv.Start(ctx)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server listening", map[string]interface{}{"addr": httpServer.Addr})
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigChan:
		logger.Info("Shutting down server", map[string]interface{}{"signal": sig.String()})
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", err)
	}

	logger.Info("Server stopped")
	return nil
}

func main() {
	if err := run(context.Background()); err != nil {
		logger.Fatal("Service failed", err)
	}
}
