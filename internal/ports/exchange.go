package ports

import (
	"context"

	"github.com/weneed1t/binanceCryptoHistory/internal/domain"
)

// ExchangeClient is the single capability the tool needs from an exchange:
// fetching one page of historical klines. Keeping the surface this narrow
// means the orchestrator and its tests never touch SDK types.
type ExchangeClient interface {
	// GetKlines retrieves up to limit klines for symbol and interval whose
	// open time falls within [startTime, endTime], both in milliseconds
	// since epoch. Records are returned in ascending open-time order.
	GetKlines(ctx context.Context, symbol, interval string, startTime, endTime int64, limit int) ([]domain.Kline, error)
}
