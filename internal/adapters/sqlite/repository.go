package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/weneed1t/binanceCryptoHistory/internal/domain"
	"github.com/weneed1t/binanceCryptoHistory/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Repository implements the ports.KlineArchive interface using SQLite. It is
// an optional secondary sink next to the dataset files, useful when fetched
// history should stay queryable across runs.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository creates a new SQLite repository instance.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/crypto_history.db" // Default path
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000") // WAL mode for better concurrency
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %w: %w", dbPath, ports.ErrDBConnection, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("failed to ping database at '%s': %w: %w", dbPath, ports.ErrDBConnection, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// Connection pool settings (important for SQLite)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cfg.Logger.Info(context.Background(), "SQLite database connection established", map[string]interface{}{"path": dbPath})

	repo := &Repository{db: db, logger: cfg.Logger}

	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	return repo, nil
}

// initializeSchema creates tables if they don't exist.
func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS klines (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		asset TEXT NOT NULL,
		symbol TEXT NOT NULL,
		resolution TEXT NOT NULL,
		open_time INTEGER NOT NULL,
		open TEXT NOT NULL,
		high TEXT NOT NULL,
		low TEXT NOT NULL,
		close TEXT NOT NULL,
		volume TEXT NOT NULL,
		close_time INTEGER NOT NULL,
		quote_asset_volume TEXT NOT NULL,
		number_of_trades INTEGER NOT NULL,
		taker_buy_base_volume TEXT NOT NULL,
		taker_buy_quote_volume TEXT NOT NULL,
		ignore_field TEXT NOT NULL DEFAULT '0',
		day_of_month INTEGER NOT NULL,
		hour_of_day INTEGER NOT NULL,
		day_of_year INTEGER NOT NULL
	);
	-- One row per candle; re-fetching a range replaces instead of duplicating.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_klines_asset_resolution_open_time
		ON klines (asset, resolution, open_time);
	`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema initialization: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	if r.db != nil {
		r.logger.Info(context.Background(), "Closing SQLite database connection")
		return r.db.Close()
	}
	return nil
}

// SaveDataset upserts all records for (asset, resolution) in one transaction.
func (r *Repository) SaveDataset(ctx context.Context, asset, symbol string, resolution domain.Resolution, records []domain.NormalizedKline) error {
	if len(records) == 0 {
		r.logger.Debug(ctx, "No records to archive", map[string]interface{}{"asset": asset})
		return nil
	}

	const query = `
	INSERT OR REPLACE INTO klines (
		asset, symbol, resolution, open_time, open, high, low, close, volume,
		close_time, quote_asset_volume, number_of_trades,
		taker_buy_base_volume, taker_buy_quote_volume, ignore_field,
		day_of_month, hour_of_day, day_of_year
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin archive transaction for asset %s: %w", asset, err)
	}

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare archive insert for asset %s: %w", asset, err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx,
			asset, symbol, string(resolution), rec.OpenTime, rec.Open, rec.High, rec.Low, rec.Close, rec.Volume,
			rec.CloseTime, rec.QuoteAssetVolume, rec.NumberOfTrades,
			rec.TakerBuyBaseVolume, rec.TakerBuyQuoteVolume, rec.Ignore,
			rec.DayOfMonth, rec.HourOfDay, rec.DayOfYear,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert kline open_time=%d for asset %s: %w", rec.OpenTime, asset, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit archive transaction for asset %s: %w", asset, err)
	}

	r.logger.Debug(ctx, "Klines archived", map[string]interface{}{
		"asset":      asset,
		"symbol":     symbol,
		"resolution": string(resolution),
		"records":    len(records),
	})
	return nil
}

// FindByAsset retrieves archived records for (asset, resolution) in ascending
// open-time order. A non-positive limit returns everything.
func (r *Repository) FindByAsset(ctx context.Context, asset string, resolution domain.Resolution, limit int) ([]domain.NormalizedKline, error) {
	const query = `
	SELECT open_time, open, high, low, close, volume, close_time,
	       quote_asset_volume, number_of_trades, taker_buy_base_volume,
	       taker_buy_quote_volume, ignore_field, day_of_month, hour_of_day, day_of_year
	FROM klines
	WHERE asset = ? AND resolution = ?
	ORDER BY open_time ASC
	LIMIT ?`

	if limit <= 0 {
		limit = -1 // SQLite treats a negative limit as unlimited
	}

	rows, err := r.db.QueryContext(ctx, query, asset, string(resolution), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query klines for asset %s: %w: %w", asset, ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	records := make([]domain.NormalizedKline, 0)
	for rows.Next() {
		rec, err := scanKline(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan kline during FindByAsset: %w", err)
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating kline rows: %w", err)
	}
	return records, nil
}

// CountByAsset reports how many records are archived for (asset, resolution).
func (r *Repository) CountByAsset(ctx context.Context, asset string, resolution domain.Resolution) (int, error) {
	const query = `SELECT COUNT(*) FROM klines WHERE asset = ? AND resolution = ?`
	var count int
	err := r.db.QueryRowContext(ctx, query, asset, string(resolution)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count klines for asset %s: %w: %w", asset, ports.ErrQueryFailed, err)
	}
	return count, nil
}

// scanner defines an interface compatible with *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanKline scans a row into a domain.NormalizedKline.
func scanKline(s scanner) (domain.NormalizedKline, error) {
	var rec domain.NormalizedKline
	err := s.Scan(
		&rec.OpenTime, &rec.Open, &rec.High, &rec.Low, &rec.Close, &rec.Volume,
		&rec.CloseTime, &rec.QuoteAssetVolume, &rec.NumberOfTrades,
		&rec.TakerBuyBaseVolume, &rec.TakerBuyQuoteVolume, &rec.Ignore,
		&rec.DayOfMonth, &rec.HourOfDay, &rec.DayOfYear)
	if err != nil {
		return domain.NormalizedKline{}, err
	}
	return rec, nil
}
