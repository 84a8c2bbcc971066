package main

import (
	"Classifieds/internal/config"
	"Classifieds/internal/handlers"
	"Classifieds/internal/metrics"
	"Classifieds/internal/middleware"
	"Classifieds/internal/repo"
	"Classifieds/internal/service"
	"Classifieds/internal/storage"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN, sugar)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	store, err := storage.NewLocalStore(cfg.MediaRoot)
	if err != nil {
		sugar.Fatalw("failed to initialize media storage", "error", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	itemRepo := repo.NewItemRepository(gormDB)
	taxonomyRepo := repo.NewTaxonomyRepository(gormDB)
	userRepo := repo.NewUserRepository(gormDB)

	h := handlers.NewHandler(handlers.Deps{
		Users:    service.NewUserService(userRepo),
		Items:    service.NewItemService(itemRepo, taxonomyRepo, store, collector, sugar, service.LimitsFromConfig(cfg)),
		Taxonomy: service.NewTaxonomyService(taxonomyRepo, itemRepo),
		Metrics:  collector,
		Gatherer: reg,
		Logger:   sugar,
		Config:   cfg,
	})
	defer h.Close()

	srv := &http.Server{
		Addr:              cfg.BaseURL,
		Handler:           h.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sugar.Infow("Starting server", "addr", cfg.BaseURL)
	sugar.Infow("Config",
		"ServerURL", cfg.ServerURL,
		"SiteDomain", cfg.SiteDomain,
		"MediaRoot", cfg.MediaRoot,
		"ItemPerUserLimit", cfg.ItemPerUserLimit,
		"ImageSlots", cfg.ImageSlots,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("Server failed", "error", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			sugar.Errorw("Server shutdown failed", "error", err)
		}
		sugar.Infow("Server stopped")
	}
}
