package binanceclient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/weneed1t/binanceCryptoHistory/internal/domain"
	"github.com/weneed1t/binanceCryptoHistory/internal/ports"

	binance "github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
)

// Client implements the ports.ExchangeClient interface using the go-binance
// spot market client.
type Client struct {
	spotClient *binance.Client
	logger     ports.Logger
}

// Config holds configuration specific to the Binance client adapter.
type Config struct {
	APIKey    string
	SecretKey string
	BaseURL   string // Optional override, mainly for tests
	Logger    ports.Logger
}

// New creates a new Binance client adapter. API keys may be empty: kline
// endpoints are public and work unauthenticated.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Binance client")
	}
	if cfg.APIKey == "" || cfg.SecretKey == "" {
		cfg.Logger.Warn(context.Background(), "APIKey or SecretKey is empty. Client will only work for public endpoints.")
	}

	client := binance.NewClient(cfg.APIKey, cfg.SecretKey)
	if cfg.BaseURL != "" {
		client.BaseURL = cfg.BaseURL
	}
	cfg.Logger.Info(context.Background(), "Binance spot client configured", map[string]interface{}{"baseURL": client.BaseURL})

	return &Client{
		spotClient: client,
		logger:     cfg.Logger,
	}, nil
}

// handleError translates common Binance API errors into standardized ports errors.
func (c *Client) handleError(ctx context.Context, err error, operation string) error {
	if err == nil {
		return nil
	}

	fields := map[string]interface{}{"operation": operation, "originalError": err.Error()}

	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		fields["apiErrorCode"] = apiErr.Code
		fields["apiErrorMessage"] = apiErr.Message

		// Map the Binance error codes the klines endpoint can produce.
		var mappedErr error
		switch apiErr.Code {
		case -1003: // Too many requests
			mappedErr = ports.ErrRateLimited
		case -1000, -1001, -1016: // Internal error / disconnected / service shutting down
			mappedErr = ports.ErrExchangeUnavailable
		case -1021: // Timestamp for this request is outside of the recvWindow
			mappedErr = ports.ErrTimeout
		case -1022, -2014, -2015: // Bad signature / API-key format / key permissions
			mappedErr = ports.ErrAuthenticationFailed
		case -1121: // Invalid symbol
			mappedErr = ports.ErrInvalidSymbol
		case -1100, -1101, -1102, -1103, -1104, -1105, -1106, -1111, -1120, -1127, -1130: // Parameter/request format errors
			mappedErr = ports.ErrInvalidRequest
		default:
			mappedErr = ports.ErrUnknown
		}
		finalErr := fmt.Errorf("%s failed: %w: %w", operation, mappedErr, err)
		c.logger.Error(ctx, err, fmt.Sprintf("%s failed with API error", operation), fields)
		return finalErr
	}

	// Handle non-API errors (network, context cancellation, etc.)
	var finalErr error
	if errors.Is(err, context.DeadlineExceeded) {
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrTimeout, err)
	} else if errors.Is(err, context.Canceled) {
		finalErr = fmt.Errorf("%s operation canceled: %w: %w", operation, ports.ErrContextCanceled, err)
	} else if strings.Contains(err.Error(), "use of closed network connection") ||
		strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "connection reset by peer") {
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrConnectionFailed, err)
	} else {
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrUnknown, err)
	}

	c.logger.Error(ctx, err, fmt.Sprintf("%s failed", operation), fields)
	return finalErr
}

// GetKlines retrieves one page of historical klines for the given symbol and
// interval. Both time bounds are milliseconds since epoch and inclusive; the
// exchange caps limit at 1000.
func (c *Client) GetKlines(ctx context.Context, symbol, interval string, startTime, endTime int64, limit int) ([]domain.Kline, error) {
	op := "GetKlines"
	binanceKlines, err := c.spotClient.NewKlinesService().
		Symbol(symbol).
		Interval(interval).
		StartTime(startTime).
		EndTime(endTime).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, c.handleError(ctx, err, op)
	}

	domainKlines := make([]domain.Kline, 0, len(binanceKlines))
	for _, bk := range binanceKlines {
		if bk == nil {
			return nil, c.handleError(ctx, errors.New("received nil historical kline"), op)
		}
		domainKlines = append(domainKlines, translateKline(bk))
	}

	c.logger.Debug(ctx, op+" successful", map[string]interface{}{
		"symbol":    symbol,
		"interval":  interval,
		"startTime": startTime,
		"count":     len(domainKlines),
	})
	return domainKlines, nil
}

// translateKline maps the SDK kline onto the domain type. Decimal fields are
// carried through as strings untouched. The spot SDK drops the trailing
// "ignore" column of the raw API response, so it is reconstructed as "0".
func translateKline(bk *binance.Kline) domain.Kline {
	return domain.Kline{
		OpenTime:            bk.OpenTime,
		Open:                bk.Open,
		High:                bk.High,
		Low:                 bk.Low,
		Close:               bk.Close,
		Volume:              bk.Volume,
		CloseTime:           bk.CloseTime,
		QuoteAssetVolume:    bk.QuoteAssetVolume,
		NumberOfTrades:      bk.TradeNum,
		TakerBuyBaseVolume:  bk.TakerBuyBaseAssetVolume,
		TakerBuyQuoteVolume: bk.TakerBuyQuoteAssetVolume,
		Ignore:              "0",
	}
}
