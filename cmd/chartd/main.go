// Command chartd serves the sea level chart: JSON views, hit testing and
// rendered chart images over the NOAA sea level dataset.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/sea-level-chart/internal/adapter/csvsource"
	"github.com/couchcryptid/sea-level-chart/internal/adapter/httpadapter"
	"github.com/couchcryptid/sea-level-chart/internal/config"
	"github.com/couchcryptid/sea-level-chart/internal/dataset"
	"github.com/couchcryptid/sea-level-chart/internal/domain"
	"github.com/couchcryptid/sea-level-chart/internal/observability"
	"github.com/couchcryptid/sea-level-chart/internal/render"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loader := dataset.NewLoader(csvsource.New(cfg.DatasetPath), logger, metrics)
	store, err := loader.Load(ctx)
	if err != nil {
		logger.Error("failed to load dataset", "path", cfg.DatasetPath, "error", err)
		os.Exit(1)
	}

	catalog := domain.CatalogFor(store)
	if !catalog.Contains(cfg.DefaultCategory) {
		logger.Warn("default category not in catalog", "category", cfg.DefaultCategory)
	}

	renderer := render.NewRenderer(loader, logger, metrics)
	charts := render.NewCachedCharter(renderer, cfg.RenderCacheSize, metrics)
	animator := render.NewAnimator(clockwork.NewRealClock(), cfg.FrameInterval, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, httpadapter.Deps{
		Ready:           loader,
		Stores:          loader,
		Charts:          charts,
		Phase:           animator,
		Catalog:         catalog,
		DefaultCategory: cfg.DefaultCategory,
		ChartWidth:      cfg.ChartWidth,
		ChartHeight:     cfg.ChartHeight,
	}, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Reload the dataset on SIGHUP.
	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)
	defer signal.Stop(reload)
	go func() {
		onReload := func(s *domain.Store) {
			srv.SetCatalog(domain.CatalogFor(s))
			charts.Purge()
		}
		if err := loader.Watch(ctx, reload, onReload); err != nil {
			logger.Error("dataset watcher error", "error", err)
		}
	}()

	// Start gauge animation.
	go func() {
		if err := animator.Run(ctx); err != nil {
			logger.Error("animator error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete", "frames", animator.Frames())
}
