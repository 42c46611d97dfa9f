package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rental-analytics/config"
	"rental-analytics/models"
	"rental-analytics/sentiment"
	"rental-analytics/server"
	"rental-analytics/services"
	"rental-analytics/storage"
	"rental-analytics/utils"
)

func main() {
	cfg := config.Load()
	logger := utils.NewLogger(utils.ParseLevel(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration: %v", err)
		os.Exit(1)
	}

	logger.Info("=== Rental Analytics starting ===")
	logger.Info("Config: listings=%s | reviews=%s | cutoff=%s | sample=%d | workers=%d",
		cfg.ListingsPath, cfg.ReviewsPath, cfg.ReviewCutoff.Format(config.DateLayout),
		cfg.LocationSampleSize, cfg.SentimentWorkers)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// load
	dataset, err := storage.LoadDataset(cfg.ListingsPath, cfg.ReviewsPath, cfg.CSVDelimiter)
	if err != nil {
		logger.Error("Failed to load datasets: %v", err)
		os.Exit(1)
	}
	logger.Info("Loaded %d listings and %d reviews", dataset.Listings.Nrow(), dataset.Reviews.Nrow())

	pipeline := services.NewPipeline(logger,
		services.NewSentimentService(logger, sentiment.NewVader(), cfg.SentimentWorkers),
		services.PipelineConfig{Cutoff: cfg.ReviewCutoff, SampleSize: cfg.LocationSampleSize})

	report, err := pipeline.Run(ctx, dataset.RawListings(), dataset.RawReviews())
	if err != nil {
		logger.Error("Report computation failed: %v", err)
		os.Exit(1)
	}
	services.NewInsightService(logger).Print(report)

	exportReport(ctx, cfg, logger, report)

	// ready → serve
	httpServer := server.NewServer(cfg, logger, report, services.NewQueryService(dataset.Listings))

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server on %s", cfg.Addr())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			logger.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error: %v", err)
	}
	logger.Info("Shutdown complete")
}

// exportReport writes the optional CSV and PostgreSQL snapshots. Failures
// are logged; serving does not depend on them.
func exportReport(ctx context.Context, cfg *config.Config, logger *utils.Logger, report *models.Report) {
	var writers []storage.ReportWriter

	if cfg.ExportCSVDir != "" {
		csvWriter, err := storage.NewCSVWriter(cfg.ExportCSVDir)
		if err != nil {
			logger.Error("Failed to create CSV writer: %v", err)
		} else {
			logger.Info("Exporting report CSVs to %s", csvWriter.Dir())
			writers = append(writers, csvWriter)
		}
	}

	if cfg.PostgresEnabled {
		retry := &utils.RetryConfig{MaxAttempts: cfg.MaxRetries, BaseDelay: 2 * time.Second, Logger: logger}
		pgWriter, err := storage.NewPostgresWriter(ctx, cfg.DSN(), retry)
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
		} else {
			writers = append(writers, pgWriter)
		}
	}

	for _, w := range writers {
		if err := w.Write(report); err != nil {
			logger.Error("Report snapshot write failed: %v", err)
		} else {
			logger.Info("Report snapshot written (%T)", w)
		}
		if err := w.Close(); err != nil {
			logger.Warn("Closing snapshot writer: %v", err)
		}
	}
}
