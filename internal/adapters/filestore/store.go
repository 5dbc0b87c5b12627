package filestore

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/weneed1t/binanceCryptoHistory/internal/domain"
	"github.com/weneed1t/binanceCryptoHistory/internal/ports"

	"github.com/spf13/afero"
)

// Format selects the on-disk encoding of dataset files.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat validates s against the supported dataset formats.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported dataset format: %q", s)
	}
}

// csvHeader lists the dataset columns in serialization order.
var csvHeader = []string{
	"open_time", "open", "high", "low", "close", "volume", "close_time",
	"quote_asset_volume", "number_of_trades", "taker_buy_base_volume",
	"taker_buy_quote_volume", "ignore", "day_of_month", "hour_of_day",
	"day_of_year",
}

// Store implements the ports.DatasetStore interface on top of an afero
// filesystem, so tests run against an in-memory fs.
type Store struct {
	fs        afero.Fs
	outputDir string
	format    Format
	logger    ports.Logger
}

// Config holds configuration specific to the dataset store.
type Config struct {
	OutputDir string
	Format    Format   // Defaults to FormatJSON
	Fs        afero.Fs // Defaults to the OS filesystem
	Logger    ports.Logger
}

// New creates the store and ensures the output directory exists.
func New(cfg Config) (*Store, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for dataset store")
	}
	if cfg.OutputDir == "" {
		return nil, fmt.Errorf("output directory is required for dataset store")
	}
	format := cfg.Format
	if format == "" {
		format = FormatJSON
	}
	if _, err := ParseFormat(string(format)); err != nil {
		return nil, err
	}
	fs := cfg.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if err := fs.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory %q: %w: %w", cfg.OutputDir, ports.ErrWriteFailed, err)
	}

	return &Store{
		fs:        fs,
		outputDir: cfg.OutputDir,
		format:    format,
		logger:    cfg.Logger,
	}, nil
}

// WriteDataset persists records under the requested asset name and returns
// the written path. The file is named <asset>_<resolution>.<ext> and always
// rewritten whole.
func (s *Store) WriteDataset(ctx context.Context, asset string, resolution domain.Resolution, records []domain.NormalizedKline) (string, error) {
	path := filepath.Join(s.outputDir, fmt.Sprintf("%s_%s.%s", asset, resolution, s.format))

	var data []byte
	var err error
	switch s.format {
	case FormatCSV:
		data, err = encodeCSV(records)
	default:
		data, err = encodeJSON(asset, records)
	}
	if err != nil {
		return "", fmt.Errorf("encoding dataset for %q: %w: %w", asset, ports.ErrWriteFailed, err)
	}

	if err := afero.WriteFile(s.fs, path, data, 0644); err != nil {
		return "", fmt.Errorf("writing dataset file %q: %w: %w", path, ports.ErrWriteFailed, err)
	}

	s.logger.Info(ctx, "Dataset written", map[string]interface{}{
		"asset":   asset,
		"path":    path,
		"records": len(records),
	})
	return path, nil
}

// encodeJSON renders {"<asset>": [...]} pretty-printed with 4-space indent.
// A nil record slice still serializes as an empty list, not null.
func encodeJSON(asset string, records []domain.NormalizedKline) ([]byte, error) {
	if records == nil {
		records = []domain.NormalizedKline{}
	}
	payload := map[string][]domain.NormalizedKline{asset: records}
	return json.MarshalIndent(payload, "", "    ")
}

func encodeCSV(records []domain.NormalizedKline) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	writer.Write(csvHeader)
	for _, r := range records {
		writer.Write([]string{
			strconv.FormatInt(r.OpenTime, 10),
			r.Open,
			r.High,
			r.Low,
			r.Close,
			r.Volume,
			strconv.FormatInt(r.CloseTime, 10),
			r.QuoteAssetVolume,
			strconv.FormatInt(r.NumberOfTrades, 10),
			r.TakerBuyBaseVolume,
			r.TakerBuyQuoteVolume,
			r.Ignore,
			strconv.Itoa(r.DayOfMonth),
			strconv.Itoa(r.HourOfDay),
			strconv.Itoa(r.DayOfYear),
		})
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
