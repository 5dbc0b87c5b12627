package domain

import "time"

// Kline is a single candlestick exactly as the exchange reports it. Price
// and volume fields stay decimal strings so no precision is lost between
// the API and the written dataset.
type Kline struct {
	OpenTime            int64  // Interval start, milliseconds since epoch
	Open                string // Opening price
	High                string // Highest price
	Low                 string // Lowest price
	Close               string // Closing price
	Volume              string // Base asset volume
	CloseTime           int64  // Interval end, milliseconds since epoch
	QuoteAssetVolume    string // Quote asset volume
	NumberOfTrades      int64  // Trade count within the interval
	TakerBuyBaseVolume  string // Taker buy base asset volume
	TakerBuyQuoteVolume string // Taker buy quote asset volume
	Ignore              string // Unused field carried through as-is
}

// NormalizedKline is the dataset record written to disk: the raw fields
// under stable snake_case names plus calendar parts derived from the open
// time in UTC. Field order here is the serialization order.
type NormalizedKline struct {
	OpenTime            int64  `json:"open_time"`
	Open                string `json:"open"`
	High                string `json:"high"`
	Low                 string `json:"low"`
	Close               string `json:"close"`
	Volume              string `json:"volume"`
	CloseTime           int64  `json:"close_time"`
	QuoteAssetVolume    string `json:"quote_asset_volume"`
	NumberOfTrades      int64  `json:"number_of_trades"`
	TakerBuyBaseVolume  string `json:"taker_buy_base_volume"`
	TakerBuyQuoteVolume string `json:"taker_buy_quote_volume"`
	Ignore              string `json:"ignore"`
	DayOfMonth          int    `json:"day_of_month"`
	HourOfDay           int    `json:"hour_of_day"`
	DayOfYear           int    `json:"day_of_year"`
}

// Normalize renames the raw fields and derives the UTC calendar parts from
// the open time.
func (k Kline) Normalize() NormalizedKline {
	openedAt := time.UnixMilli(k.OpenTime).UTC()
	return NormalizedKline{
		OpenTime:            k.OpenTime,
		Open:                k.Open,
		High:                k.High,
		Low:                 k.Low,
		Close:               k.Close,
		Volume:              k.Volume,
		CloseTime:           k.CloseTime,
		QuoteAssetVolume:    k.QuoteAssetVolume,
		NumberOfTrades:      k.NumberOfTrades,
		TakerBuyBaseVolume:  k.TakerBuyBaseVolume,
		TakerBuyQuoteVolume: k.TakerBuyQuoteVolume,
		Ignore:              k.Ignore,
		DayOfMonth:          openedAt.Day(),
		HourOfDay:           openedAt.Hour(),
		DayOfYear:           openedAt.YearDay(),
	}
}

// NormalizeKlines maps klines record-for-record, preserving order. The
// result is never nil so an empty fetch still serializes as an empty list.
func NormalizeKlines(klines []Kline) []NormalizedKline {
	normalized := make([]NormalizedKline, 0, len(klines))
	for _, k := range klines {
		normalized = append(normalized, k.Normalize())
	}
	return normalized
}
