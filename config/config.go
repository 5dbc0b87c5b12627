package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/weneed1t/binanceCryptoHistory/internal/adapters/filestore"
	"github.com/weneed1t/binanceCryptoHistory/internal/adapters/logger" // Import the logger package for LogLevel
	"github.com/weneed1t/binanceCryptoHistory/internal/domain"
)

const (
	defaultAssets     = "BTC,ETH"
	defaultResolution = "1h"
	defaultStartDate  = "2020-01-01"
	defaultOutputDir  = "crypto_data"
	defaultFormat     = "json"
	defaultBatchLimit = 1000

	// maxBatchLimit is the exchange-side cap on klines per request.
	maxBatchLimit = 1000
)

// Config holds all application configuration.
type Config struct {
	// Binance API. Keys are optional: kline endpoints are public.
	APIKey    string
	SecretKey string

	// Fetch Parameters
	Assets     []string          // Asset names as requested, e.g. ["BTC", "ETH"]
	Resolution domain.Resolution // Validated candlestick resolution
	StartDate  string            // Raw date string, parsed inside the fetch path
	EndDate    string            // Raw date string, parsed inside the fetch path
	BatchLimit int               // Records per exchange request, 1..1000

	// Output
	OutputDir  string
	Format     filestore.Format
	SQLitePath string // Empty disables the SQLite archive

	// Logging
	LogLevel logger.LogLevel // Use the LogLevel type from the logger adapter
}

// LoadConfig loads configuration from the environment (.env file supported)
// and the given command-line arguments. Flags win over environment values.
func LoadConfig(args []string) (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var errs []string // Collect validation errors

	// Binance API
	cfg.APIKey = getEnv("BINANCE_API_KEY", "")
	cfg.SecretKey = getEnv("BINANCE_API_SECRET", "")

	// Logging
	logLevelStr := getEnv("LOG_LEVEL", "INFO")
	cfg.LogLevel = logger.ParseLevel(logLevelStr) // Use the parser from the logger package

	fs := flag.NewFlagSet("binance-crypto-history", flag.ContinueOnError)
	assets := fs.String("assets", defaultAssets, "comma-separated asset names to fetch")
	resolution := fs.String("resolution", defaultResolution,
		fmt.Sprintf("candlestick resolution, one of: %s", strings.Join(domain.SupportedResolutions(), ", ")))
	startDate := fs.String("start-date", defaultStartDate, "range start date (e.g. 2020-01-01)")
	endDate := fs.String("end-date", time.Now().UTC().Format("2006-01-02"), "range end date, defaults to today")
	outputFolder := fs.String("output-folder", defaultOutputDir, "directory the dataset files are written to")
	format := fs.String("format", getEnv("OUTPUT_FORMAT", defaultFormat), "dataset file format: json or csv")
	sqlitePath := fs.String("sqlite-path", getEnv("SQLITE_PATH", ""), "optional SQLite archive database path (empty disables archiving)")
	batchLimit := fs.Int("batch-limit", getEnvAsInt("BATCH_LIMIT", defaultBatchLimit), "maximum records per exchange request")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.Assets = splitAssets(*assets)
	if len(cfg.Assets) == 0 {
		errs = append(errs, "at least one asset must be provided via --assets")
	}

	// Reject unknown resolutions up front, mirroring the fetch-path check.
	res, err := domain.ParseResolution(*resolution)
	if err != nil {
		errs = append(errs, err.Error())
	}
	cfg.Resolution = res

	// Dates stay raw strings here: the fetch path owns date parsing so a bad
	// date surfaces as a per-asset error, not a startup failure.
	cfg.StartDate = *startDate
	cfg.EndDate = *endDate

	cfg.OutputDir = *outputFolder
	if cfg.OutputDir == "" {
		errs = append(errs, "--output-folder must not be empty")
	}

	parsedFormat, err := filestore.ParseFormat(*format)
	if err != nil {
		errs = append(errs, err.Error())
	}
	cfg.Format = parsedFormat

	cfg.SQLitePath = *sqlitePath

	cfg.BatchLimit = *batchLimit
	if cfg.BatchLimit <= 0 || cfg.BatchLimit > maxBatchLimit {
		errs = append(errs, fmt.Sprintf("--batch-limit must be between 1 and %d", maxBatchLimit))
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// splitAssets turns a comma-separated list into trimmed, non-empty names.
// Case is preserved exactly as given.
func splitAssets(s string) []string {
	parts := strings.Split(s, ",")
	assets := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			assets = append(assets, trimmed)
		}
	}
	return assets
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
