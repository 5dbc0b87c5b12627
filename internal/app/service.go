package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/weneed1t/binanceCryptoHistory/config"
	"github.com/weneed1t/binanceCryptoHistory/internal/domain"
	"github.com/weneed1t/binanceCryptoHistory/internal/ports"
)

// quoteCurrency is appended to asset names that do not already mention it,
// forming the exchange trading pair (BTC -> BTCUSDT).
const quoteCurrency = "USDT"

// HistoryService orchestrates the download pipeline: it resolves each
// configured asset to a trading pair, pages klines out of the exchange,
// normalizes them and hands the records to the dataset store.
type HistoryService struct {
	cfg      *config.Config
	logger   ports.Logger
	exchange ports.ExchangeClient
	store    ports.DatasetStore
	archive  ports.KlineArchive // Optional; nil disables the archive
}

// NewHistoryService creates a new application service instance.
func NewHistoryService(
	cfg *config.Config,
	logger ports.Logger,
	exchange ports.ExchangeClient,
	store ports.DatasetStore,
	archive ports.KlineArchive,
) (*HistoryService, error) {

	// Validate dependencies. The archive is the only optional one.
	if cfg == nil || logger == nil || exchange == nil || store == nil {
		return nil, fmt.Errorf("missing required dependencies for HistoryService")
	}

	// Validate config values needed by the service.
	if len(cfg.Assets) == 0 {
		return nil, fmt.Errorf("configuration Assets must not be empty")
	}
	if cfg.BatchLimit <= 0 {
		return nil, fmt.Errorf("configuration BatchLimit must be positive")
	}

	return &HistoryService{
		cfg:      cfg,
		logger:   logger,
		exchange: exchange,
		store:    store,
		archive:  archive,
	}, nil
}

// Run downloads the configured date range for every asset in turn. A failure
// on one asset is logged and does not stop the remaining assets. An interrupt
// signal stops the run between assets; whatever was already fetched for the
// current asset has been flushed to disk by then.
func (s *HistoryService) Run(ctx context.Context) error {
	started := time.Now()
	s.logger.Info(ctx, "Starting history download", map[string]interface{}{
		"assets":     s.cfg.Assets,
		"resolution": s.cfg.Resolution.String(),
		"startDate":  s.cfg.StartDate,
		"endDate":    s.cfg.EndDate,
		"outputDir":  s.cfg.OutputDir,
	})

	// Create a context that can be canceled by signals
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			s.logger.Info(ctx, "Received shutdown signal", map[string]interface{}{"signal": sig.String()})
			cancel()
		case <-ctx.Done():
		}
	}()

	succeeded, failed := 0, 0
	for _, asset := range s.cfg.Assets {
		if ctx.Err() != nil {
			s.logger.Warn(ctx, "Run interrupted, skipping remaining assets", map[string]interface{}{
				"skipped": len(s.cfg.Assets) - succeeded - failed,
			})
			break
		}
		if err := s.processAsset(ctx, asset); err != nil {
			s.logger.Error(ctx, err, "Failed to process asset", map[string]interface{}{"asset": asset})
			failed++
			continue
		}
		succeeded++
	}

	s.logger.Info(ctx, "History download finished", map[string]interface{}{
		"succeeded": succeeded,
		"failed":    failed,
		"elapsed":   time.Since(started).String(),
	})
	return nil
}

// FetchRange pages klines for one trading pair between two dates. The
// resolution and both dates are validated before the first network call.
// Once fetching has started, an exchange error ends the loop early: the
// error is logged and the records collected so far are returned without an
// error so the caller can still persist a partial dataset.
func (s *HistoryService) FetchRange(ctx context.Context, symbol, resolution, startDate, endDate string) ([]domain.Kline, error) {
	op := "FetchRange"

	res, err := domain.ParseResolution(resolution)
	if err != nil {
		return nil, err
	}
	start, err := domain.ParseDate(startDate)
	if err != nil {
		return nil, fmt.Errorf("start date: %w", err)
	}
	end, err := domain.ParseDate(endDate)
	if err != nil {
		return nil, fmt.Errorf("end date: %w", err)
	}

	startTS := start.UnixMilli()
	endTS := end.UnixMilli()
	s.logger.Debug(ctx, op+": Range resolved", map[string]interface{}{
		"symbol":   symbol,
		"interval": res.Interval(),
		"startTS":  startTS,
		"endTS":    endTS,
	})

	var klines []domain.Kline
	for startTS < endTS {
		batch, err := s.exchange.GetKlines(ctx, symbol, res.Interval(), startTS, endTS, s.cfg.BatchLimit)
		if err != nil {
			// Keep what was fetched so far so the caller can persist it.
			s.logger.Error(ctx, err, op+": Exchange request failed, stopping with partial data", map[string]interface{}{
				"symbol":  symbol,
				"fetched": len(klines),
			})
			break
		}
		if len(batch) == 0 {
			// The exchange has no more data before endTS.
			break
		}
		klines = append(klines, batch...)
		// Resume just past the last candle we received.
		startTS = batch[len(batch)-1].OpenTime + 1
		s.logger.Debug(ctx, op+": Batch received", map[string]interface{}{
			"symbol":    symbol,
			"batchSize": len(batch),
			"total":     len(klines),
			"nextTS":    startTS,
		})
	}

	return klines, nil
}

// processAsset downloads, normalizes and persists one asset end to end.
func (s *HistoryService) processAsset(ctx context.Context, asset string) error {
	op := "processAsset"
	symbol := ensureQuoteSuffix(asset)

	s.logger.Info(ctx, op+": Fetching asset history", map[string]interface{}{
		"asset":      asset,
		"symbol":     symbol,
		"resolution": s.cfg.Resolution.String(),
	})

	klines, err := s.FetchRange(ctx, symbol, s.cfg.Resolution.String(), s.cfg.StartDate, s.cfg.EndDate)
	if err != nil {
		return fmt.Errorf("fetching %s failed: %w", symbol, err)
	}

	records := domain.NormalizeKlines(klines)

	path, err := s.store.WriteDataset(ctx, asset, s.cfg.Resolution, records)
	if err != nil {
		return fmt.Errorf("writing dataset for %s failed: %w", asset, err)
	}
	s.logger.Info(ctx, op+": Dataset persisted", map[string]interface{}{
		"asset":   asset,
		"records": len(records),
		"path":    path,
	})

	if s.archive != nil {
		if err := s.archive.SaveDataset(ctx, asset, symbol, s.cfg.Resolution, records); err != nil {
			return fmt.Errorf("archiving %s failed: %w", asset, err)
		}
		total, err := s.archive.CountByAsset(ctx, asset, s.cfg.Resolution)
		if err != nil {
			// The dataset is already on disk, a failed count is not worth failing the asset.
			s.logger.Warn(ctx, op+": Could not count archived records", map[string]interface{}{"asset": asset, "error": err.Error()})
		} else {
			s.logger.Info(ctx, op+": Archive updated", map[string]interface{}{"asset": asset, "archivedTotal": total})
		}
	}

	return nil
}

// ensureQuoteSuffix returns the exchange trading pair for an asset name.
// Assets already mentioning the quote currency pass through untouched.
func ensureQuoteSuffix(asset string) string {
	if strings.Contains(asset, quoteCurrency) {
		return asset
	}
	return asset + quoteCurrency
}
