package repository

// Timeframe represents candle resolution buckets.
type Timeframe string

const (
	TF1m  Timeframe = "1m"
	TF5m  Timeframe = "5m"
	TF15m Timeframe = "15m"
	TF1h  Timeframe = "1h"
	TF4h  Timeframe = "4h"
	TF1d  Timeframe = "1d"
)

// bucketMs is the fixed bucket duration table, in milliseconds.
var bucketMs = map[Timeframe]int64{
	TF1m:  60_000,
	TF5m:  300_000,
	TF15m: 900_000,
	TF1h:  3_600_000,
	TF4h:  14_400_000,
	TF1d:  86_400_000,
}

// IsValidTimeframe returns true if tf is a supported timeframe.
func IsValidTimeframe(tf Timeframe) bool {
	_, ok := bucketMs[tf]
	return ok
}

// DefaultTimeframe returns the default timeframe.
func DefaultTimeframe() Timeframe { return TF1m }

// NormalizeTimeframe converts raw string to a valid timeframe (or default).
// Unknown symbols are rejected at the API boundary; this is the defensive
// fallback if one ever reaches the core.
func NormalizeTimeframe(s string) Timeframe {
	if s == "" {
		return DefaultTimeframe()
	}
	tf := Timeframe(s)
	if IsValidTimeframe(tf) {
		return tf
	}
	return DefaultTimeframe()
}

// BucketMs returns the bucket duration for tf in milliseconds.
// Falls back to the default timeframe's bucket for unknown symbols.
func BucketMs(tf Timeframe) int64 {
	if ms, ok := bucketMs[tf]; ok {
		return ms
	}
	return bucketMs[DefaultTimeframe()]
}

// Timeframes lists the supported timeframes in ascending bucket order.
func Timeframes() []Timeframe {
	return []Timeframe{TF1m, TF5m, TF15m, TF1h, TF4h, TF1d}
}
