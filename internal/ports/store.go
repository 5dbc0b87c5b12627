package ports

import (
	"context"

	"github.com/weneed1t/binanceCryptoHistory/internal/domain"
)

// DatasetStore writes one asset's normalized klines to its dataset file.
type DatasetStore interface {
	// WriteDataset persists records under the requested asset name and
	// returns the path of the written file. The asset name, not the
	// exchange symbol, keys the dataset and names the file.
	WriteDataset(ctx context.Context, asset string, resolution domain.Resolution, records []domain.NormalizedKline) (string, error)
}

// KlineArchive is an optional secondary sink that keeps normalized klines
// queryable across runs.
type KlineArchive interface {
	// SaveDataset upserts records for (asset, resolution). Re-running the
	// same range must not duplicate rows.
	SaveDataset(ctx context.Context, asset, symbol string, resolution domain.Resolution, records []domain.NormalizedKline) error
	// CountByAsset reports how many records are archived for (asset, resolution).
	CountByAsset(ctx context.Context, asset string, resolution domain.Resolution) (int, error)
}
