package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"gatherly/internal/amqp"
	"gatherly/internal/calendar"
	"gatherly/internal/catalog"
	"gatherly/internal/config"
	apphttp "gatherly/internal/http"
	applog "gatherly/internal/log"
	"gatherly/internal/saved"
	"gatherly/internal/scheduler"
	"gatherly/internal/services"
	"gatherly/internal/storage"
)

func main() {
	// .env is for local development; absent in containers.
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("failed to initialize storage", applog.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	var amqpClient *amqp.Client
	if cfg.ReportSyncEnabled() {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("failed to connect to AMQP", applog.FieldError, err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		logger.Info("report sync enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("report sync disabled, expenses stay local")
	}

	catalogSvc := catalog.NewService(catalogSource(cfg), logger)

	cron := scheduler.New(catalogSvc, logger)
	if err := cron.Start(cfg.CatalogRefreshSpec); err != nil {
		logger.Error("failed to start catalog refresh schedule",
			applog.FieldError, err, "spec", cfg.CatalogRefreshSpec)
		os.Exit(1)
	}
	defer cron.Stop()

	srv := apphttp.NewServer(apphttp.Config{
		Addr: ":" + cfg.Port,
		Expander: calendar.ExpanderConfig{
			MinStart:      cfg.WindowMinStart,
			MaxEnd:        cfg.WindowMaxEnd,
			Step:          cfg.WindowStep,
			EdgeThreshold: cfg.WindowEdgeThreshold,
		},
	}, apphttp.Deps{
		Groups:      services.NewGroupService(repo),
		Expenses:    services.NewExpenseService(repo, amqpClient),
		Newsletters: services.NewNewsletterService(repo),
		Catalog:     catalogSvc,
		Saved:       saved.NewStore(cfg.SavedEventsPath),
	}, logger)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", applog.FieldError, err)
		}
		cancel()
	}()

	logger.Info("starting gatherly server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("server stopped")
}

// catalogSource picks the configured event source: the JSON feed wins, the
// ICS feed is the alternative, nil serves the built-in fallback list.
func catalogSource(cfg *config.Config) catalog.Source {
	switch {
	case cfg.CatalogFeedURL != "":
		return catalog.NewFeedClient(cfg.CatalogFeedURL, cfg.CatalogTimeout)
	case cfg.CatalogICSURL != "":
		return catalog.NewICSClient(cfg.CatalogICSURL, cfg.CatalogTimeout)
	default:
		return nil
	}
}
