package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"moonlabel.dev/internal/app"
	"moonlabel.dev/internal/appconf"
	"moonlabel.dev/internal/dataset"
	"moonlabel.dev/internal/logging"
	"moonlabel.dev/internal/restapi"
	"moonlabel.dev/internal/webui"
	"moonlabel.dev/snapshotdb"
)

const shutdownTimeout = 10 * time.Second

// buildApplication opens the snapshot store and loads the dataset. The
// returned cleanup releases both.
func buildApplication(ctx context.Context, cfg appconf.Config, logger *slog.Logger) (*app.Application, func(), error) {
	application := &app.Application{Config: cfg, Logger: logger}

	opts := []dataset.Option{dataset.WithLogger(logger)}
	if cfg.DBPath != "" {
		store, err := snapshotdb.NewClient(app.SnapshotConfig(cfg), logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open snapshot store: %w", err)
		}
		application.Store = store
		opts = append(opts, dataset.WithRecorder(store))
	}

	manager, err := dataset.InitManager(ctx, app.DatasetConfig(cfg), opts...)
	if err != nil {
		if application.Store != nil {
			logging.SafeCloseWithLogging(application.Store, logger, "snapshot_store")
		}
		return nil, nil, fmt.Errorf("failed to initialize dataset manager: %w", err)
	}
	application.Manager = manager

	cleanup := func() {
		manager.Shutdown()
		if application.Store != nil {
			logging.SafeCloseWithLogging(application.Store, logger, "snapshot_store")
		}
	}
	return application, cleanup, nil
}

// newHandler wires the API and debug routes behind the shared middleware.
func newHandler(application *app.Application) (http.Handler, *restapi.RestAPI) {
	router := httprouter.New()

	api := restapi.NewRestAPI(application)
	api.SetRoutes(router)

	ui := &webui.WebUI{Application: application}
	ui.SetWebUIRoutes(router)

	return restapi.Handler(router, application.Logger), api
}

func run(ctx context.Context, cfg appconf.Config, logger *slog.Logger) error {
	application, cleanup, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	handler, api := newHandler(application)
	defer api.Shutdown()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: restapi.RefreshTimeout + 2*time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	return serve(ctx, srv, logger)
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received, starting graceful shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("server stopped")
	return nil
}
