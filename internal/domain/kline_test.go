package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKlineNormalize(t *testing.T) {
	k := Kline{
		OpenTime:            1609459200000, // 2021-01-01T00:00:00Z
		Open:                "28923.63000000",
		High:                "29031.34000000",
		Low:                 "28690.17000000",
		Close:               "29331.69000000",
		Volume:              "54182.92532800",
		CloseTime:           1609462799999,
		QuoteAssetVolume:    "1582526989.16187252",
		NumberOfTrades:      1314910,
		TakerBuyBaseVolume:  "27619.48937700",
		TakerBuyQuoteVolume: "806180562.15160110",
		Ignore:              "0",
	}

	n := k.Normalize()

	assert.Equal(t, int64(1609459200000), n.OpenTime)
	assert.Equal(t, "28923.63000000", n.Open)
	assert.Equal(t, "29031.34000000", n.High)
	assert.Equal(t, "28690.17000000", n.Low)
	assert.Equal(t, "29331.69000000", n.Close)
	assert.Equal(t, "54182.92532800", n.Volume)
	assert.Equal(t, int64(1609462799999), n.CloseTime)
	assert.Equal(t, "1582526989.16187252", n.QuoteAssetVolume)
	assert.Equal(t, int64(1314910), n.NumberOfTrades)
	assert.Equal(t, "27619.48937700", n.TakerBuyBaseVolume)
	assert.Equal(t, "806180562.15160110", n.TakerBuyQuoteVolume)
	assert.Equal(t, "0", n.Ignore)
	assert.Equal(t, 1, n.DayOfMonth)
	assert.Equal(t, 0, n.HourOfDay)
	assert.Equal(t, 1, n.DayOfYear)
}

func TestKlineNormalizeCalendarParts(t *testing.T) {
	tests := []struct {
		name           string
		openTime       int64
		wantDayOfMonth int
		wantHourOfDay  int
		wantDayOfYear  int
	}{
		{
			name:           "new year midnight",
			openTime:       1609459200000, // 2021-01-01T00:00:00Z
			wantDayOfMonth: 1,
			wantHourOfDay:  0,
			wantDayOfYear:  1,
		},
		{
			name:           "leap year final day",
			openTime:       1609455600000, // 2020-12-31T23:00:00Z
			wantDayOfMonth: 31,
			wantHourOfDay:  23,
			wantDayOfYear:  366,
		},
		{
			name:           "mid year afternoon",
			openTime:       1623762000000, // 2021-06-15T13:00:00Z
			wantDayOfMonth: 15,
			wantHourOfDay:  13,
			wantDayOfYear:  166,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := Kline{OpenTime: tt.openTime}.Normalize()
			assert.Equal(t, tt.wantDayOfMonth, n.DayOfMonth)
			assert.Equal(t, tt.wantHourOfDay, n.HourOfDay)
			assert.Equal(t, tt.wantDayOfYear, n.DayOfYear)
		})
	}
}

func TestNormalizeKlines(t *testing.T) {
	klines := []Kline{
		{OpenTime: 1609459200000, Open: "100.1"},
		{OpenTime: 1609462800000, Open: "101.2"},
		{OpenTime: 1609466400000, Open: "102.3"},
	}

	normalized := NormalizeKlines(klines)

	require.Len(t, normalized, 3)
	assert.Equal(t, int64(1609459200000), normalized[0].OpenTime)
	assert.Equal(t, int64(1609462800000), normalized[1].OpenTime)
	assert.Equal(t, int64(1609466400000), normalized[2].OpenTime)
	assert.Equal(t, "100.1", normalized[0].Open)
	assert.Equal(t, "102.3", normalized[2].Open)
}

func TestNormalizeKlinesEmpty(t *testing.T) {
	normalized := NormalizeKlines(nil)
	require.NotNil(t, normalized)
	assert.Empty(t, normalized)
}
