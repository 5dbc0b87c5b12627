package main

import (
	"context"
	"errors"
	"flag"
	"log" // Use standard log only for initial fatal errors before logger is set up
	"os"

	"github.com/weneed1t/binanceCryptoHistory/config"
	"github.com/weneed1t/binanceCryptoHistory/internal/adapters/binanceclient"
	"github.com/weneed1t/binanceCryptoHistory/internal/adapters/filestore"
	"github.com/weneed1t/binanceCryptoHistory/internal/adapters/logger"
	"github.com/weneed1t/binanceCryptoHistory/internal/adapters/sqlite"
	"github.com/weneed1t/binanceCryptoHistory/internal/app"
	"github.com/weneed1t/binanceCryptoHistory/internal/ports"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}

	// 2. Initialize Logger
	appLogger := logger.NewStdLogger(cfg.LogLevel)
	appLogger.Info(context.Background(), "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String()})

	// 3. Initialize Exchange Client (Binance Adapter)
	binanceClient, err := binanceclient.New(binanceclient.Config{
		APIKey:    cfg.APIKey,
		SecretKey: cfg.SecretKey,
		Logger:    appLogger,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize Binance client")
		log.Fatalf("FATAL: Failed to initialize Binance client: %v", err)
	}
	appLogger.Info(context.Background(), "Binance client initialized")

	// 4. Initialize Dataset Store (filesystem adapter)
	store, err := filestore.New(filestore.Config{
		OutputDir: cfg.OutputDir,
		Format:    cfg.Format,
		Logger:    appLogger,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize dataset store")
		log.Fatalf("FATAL: Failed to initialize dataset store: %v", err)
	}
	appLogger.Info(context.Background(), "Dataset store initialized", map[string]interface{}{"outputDir": cfg.OutputDir, "format": string(cfg.Format)})

	// 5. Initialize SQLite Archive (optional)
	var archive ports.KlineArchive
	if cfg.SQLitePath != "" {
		repo, err := sqlite.NewRepository(sqlite.Config{
			DBPath: cfg.SQLitePath,
			Logger: appLogger,
		})
		if err != nil {
			appLogger.Error(context.Background(), err, "FATAL: Failed to initialize SQLite archive")
			log.Fatalf("FATAL: Failed to initialize SQLite archive: %v", err)
		}
		defer func() {
			if err := repo.Close(); err != nil {
				appLogger.Error(context.Background(), err, "Error closing SQLite archive")
			}
		}()
		archive = repo
		appLogger.Info(context.Background(), "SQLite archive initialized", map[string]interface{}{"path": cfg.SQLitePath})
	}

	// 6. Initialize Application Service
	historyService, err := app.NewHistoryService(
		cfg,
		appLogger,
		binanceClient, // Pass the concrete implementation, service expects the interface
		store,         // Pass the concrete implementation, service expects the interface
		archive,       // Stays nil unless --sqlite-path was given
	)
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize history service")
		log.Fatalf("FATAL: Failed to initialize history service: %v", err)
	}
	appLogger.Info(context.Background(), "History service initialized")

	// 7. Run the Download
	// Use context.Background() as the base context for the application run
	if err := historyService.Run(context.Background()); err != nil {
		appLogger.Error(context.Background(), err, "History download exited with error")
		log.Fatalf("FATAL: History download exited with error: %v", err)
	}

	appLogger.Info(context.Background(), "Application finished gracefully.")
}
