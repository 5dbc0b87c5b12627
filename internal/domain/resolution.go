package domain

import (
	"errors"
	"fmt"
)

// ErrUnsupportedResolution is returned when a resolution string is not part
// of the supported set.
var ErrUnsupportedResolution = errors.New("unsupported resolution")

// Resolution identifies a candlestick duration supported by the tool.
type Resolution string

const (
	Resolution15m Resolution = "15m"
	Resolution30m Resolution = "30m"
	Resolution1h  Resolution = "1h"
	Resolution4h  Resolution = "4h"
	Resolution12h Resolution = "12h"
	Resolution1d  Resolution = "1d"
	Resolution1w  Resolution = "1w"
)

// supportedResolutions fixes the ordering used in help text and listings.
var supportedResolutions = []Resolution{
	Resolution15m,
	Resolution30m,
	Resolution1h,
	Resolution4h,
	Resolution12h,
	Resolution1d,
	Resolution1w,
}

// resolutionIntervals maps each supported resolution to the interval code
// sent to the exchange in klines requests.
var resolutionIntervals = map[Resolution]string{
	Resolution15m: "15m",
	Resolution30m: "30m",
	Resolution1h:  "1h",
	Resolution4h:  "4h",
	Resolution12h: "12h",
	Resolution1d:  "1d",
	Resolution1w:  "1w",
}

// ParseResolution validates s against the supported set. It must be called
// before any exchange request is built from user input.
func ParseResolution(s string) (Resolution, error) {
	r := Resolution(s)
	if _, ok := resolutionIntervals[r]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedResolution, s)
	}
	return r, nil
}

// Interval returns the exchange interval code for the resolution. It is
// empty for values that never went through ParseResolution.
func (r Resolution) Interval() string {
	return resolutionIntervals[r]
}

func (r Resolution) String() string {
	return string(r)
}

// SupportedResolutions lists the valid resolution names in duration order.
func SupportedResolutions() []string {
	names := make([]string, 0, len(supportedResolutions))
	for _, r := range supportedResolutions {
		names = append(names, string(r))
	}
	return names
}
