package models

// TradeType marks the side of an observed swap.
type TradeType string

const (
	TradeBuy  TradeType = "buy"
	TradeSell TradeType = "sell"
)

// Candle is one OHLCV bucket of the chart series.
// Time is the bucket start in unix seconds, aligned to the active timeframe.
type Candle struct {
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// Tick is a single observed trade event from a real-time source.
// Ephemeral: consumed by the pipeline and aggregator, never stored.
type Tick struct {
	Mint      string
	Price     float64
	Timestamp int64 // unix ms
	TradeType TradeType
}

// PriceQuote is the latest known price from the history collaborator.
type PriceQuote struct {
	Price     float64 `json:"price"`
	Timestamp int64   `json:"timestamp"` // unix ms
}

// ChartUpdate is an incremental or full update pushed to chart consumers
// and to the configured downstream backend.
// Reset signals that the series was rebuilt (history load or resync) and
// the view should be refit; incremental updates carry only the last candle.
type ChartUpdate struct {
	Mint      string   `json:"mint"`
	Timeframe string   `json:"timeframe"`
	Reset     bool     `json:"reset,omitempty"`
	Candles   []Candle `json:"candles,omitempty"`
	Candle    *Candle  `json:"candle,omitempty"`
}
