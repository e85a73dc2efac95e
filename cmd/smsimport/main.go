package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/storeops/smsimport/internal/config"
	"github.com/storeops/smsimport/internal/logger"
	"github.com/storeops/smsimport/internal/repository"
	"github.com/storeops/smsimport/internal/service"
	"github.com/storeops/smsimport/internal/status"
	"github.com/storeops/smsimport/internal/statusui"
	"github.com/storeops/smsimport/internal/upshop"
)

// Exit codes consumed by the SMS task scheduler.
const (
	exitImported = 0 // at least one order imported
	exitFailure  = 1 // run aborted (connectivity, auth, job failure)
	exitNoOrders = 2 // clean run, zero orders imported
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "Path to config file")
	statusAddr := flag.String("status-addr", "", "Serve the status page on this address (overrides config)")
	noStatus := flag.Bool("no-status", false, "Disable the status page")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.GetDefault().WithError(err).Error("Failed to load config")
		return exitFailure
	}

	appLogger := logger.New(&logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		File:        cfg.Log.File,
		FileOnly:    cfg.Log.FileOnly,
		MaxSize:     cfg.Log.MaxSize,
		MaxBackups:  cfg.Log.MaxBackups,
		MaxAge:      cfg.Log.MaxAge,
		Compress:    cfg.Log.Compress,
		ServiceName: "smsimport",
	})
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		appLogger.WithError(err).Error("Invalid configuration")
		return exitFailure
	}

	runID := uuid.New().String()
	runLogger := appLogger.WithFields(logger.Fields{
		logger.FieldRunID: runID,
		logger.FieldStore: cfg.Import.StoreNumber,
	})
	runLogger.Info("=== Start run ===")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = logger.WithLogger(ctx, runLogger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		runLogger.Info("Received shutdown signal, canceling...")
		cancel()
	}()

	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		runLogger.WithError(err).Error("Failed to open SMS database")
		return exitFailure
	}

	feed := status.NewFeed()
	if *statusAddr != "" {
		cfg.Status.Enabled = true
		cfg.Status.Addr = *statusAddr
	}
	if *noStatus {
		cfg.Status.Enabled = false
	}
	if cfg.Status.Enabled {
		server := statusui.NewServer(feed, cfg.Status.Addr)
		server.Start()
		defer server.Shutdown()
		runLogger.WithField("addr", cfg.Status.Addr).Info("Status page enabled")
	}

	client := upshop.NewClient(&upshop.Config{
		BaseURL:        cfg.Upshop.BaseURL,
		StoreNumber:    cfg.Import.StoreNumber,
		RequestTimeout: cfg.Upshop.RequestTimeout,
		PollInterval:   cfg.Upshop.PollInterval,
		PollTimeout:    cfg.Upshop.PollTimeout,
	})

	stagingRepo := repository.NewStagingRepository(db)
	vendorRepo := repository.NewVendorRepository(db)

	importer := service.NewImportService(
		client,
		stagingRepo,
		service.NewVendorCache(vendorRepo),
		runLogger,
		&service.ImportConfig{
			Username:    cfg.Upshop.Username,
			Password:    cfg.Upshop.Password,
			Reporter:    feed,
			CloseTarget: func() error { return repository.CloseDB(db) },
		},
	)

	stats, err := importer.Run(ctx)
	runLogger.Info("=== End run ===")

	if err != nil {
		return exitFailure
	}
	if stats.OrdersImported() == 0 {
		return exitNoOrders
	}
	return exitImported
}
