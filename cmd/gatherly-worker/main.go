package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"gatherly/internal/amqp"
	"gatherly/internal/config"
	applog "gatherly/internal/log"
	"gatherly/internal/sheets"
	"gatherly/internal/sheets/google"
	"gatherly/internal/sheets/memory"
	"gatherly/internal/storage"
	"gatherly/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentWorker)
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	if !cfg.ReportSyncEnabled() {
		logger.Error("AMQP_URL is not set, nothing to consume")
		os.Exit(1)
	}

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("failed to initialize storage", applog.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var writer sheets.ReportWriter
	if cfg.GoogleSpreadsheetID != "" {
		writer, err = google.New(ctx, google.Config{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			CredentialsJSON: cfg.GoogleCredentialsJSON,
			CredentialsFile: cfg.GoogleCredentialsFile,
		})
		if err != nil {
			logger.Error("failed to create Google Sheets client", applog.FieldError, err)
			os.Exit(1)
		}
		logger.Info("report destination: Google Sheets",
			"spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)
	} else {
		writer = memory.New()
		logger.Warn("GOOGLE_SPREADSHEET_ID is not set, syncing to in-memory store only")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("failed to connect to AMQP", applog.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	syncWorker := worker.NewReportSyncWorker(repo, writer, cfg.SyncBatchSize)

	// Catch up on anything that stayed pending while the worker was down.
	if err := syncWorker.StartupSyncCheck(ctx); err != nil {
		logger.Error("startup sync check failed", applog.FieldError, err)
	}

	go func() {
		err := amqpClient.ConsumeReportSync(ctx, func(msg *amqp.ReportSyncMessage) error {
			return syncWorker.HandleSyncMessage(ctx, msg)
		})
		if err != nil && ctx.Err() == nil {
			logger.Error("AMQP consumer stopped", applog.FieldError, err)
			cancel()
		}
	}()

	// Periodic scan backs up the queue: expenses whose publish was lost
	// still reach the report.
	ticker := time.NewTicker(cfg.SyncInterval)
	defer ticker.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("report sync worker started",
		"queue", cfg.AMQPQueue, "interval", cfg.SyncInterval.String())

	for {
		select {
		case <-ticker.C:
			if err := syncWorker.ProcessPendingExpenses(ctx); err != nil {
				logger.Error("pending expense scan failed", applog.FieldError, err)
			}
		case sig := <-sigChan:
			logger.Info("shutdown signal received", "signal", sig.String())
			cancel()
			logger.Info("report sync worker stopped")
			return
		case <-ctx.Done():
			logger.Info("report sync worker stopped")
			return
		}
	}
}
