package models

// Requests for chart HTTP endpoints. Defined in domain for consistency and reuse.

type CandlesRequest struct {
	Mint string `query:"mint" json:"mint" validate:"required"`
	// TF left empty means "keep the session's current timeframe"; the
	// handler must not treat a fetch as a timeframe switch.
	TF    string `query:"tf" json:"tf" validate:"omitempty,oneof=1m 5m 15m 1h 4h 1d"`
	Limit int    `query:"limit" json:"limit" default:"500" validate:"gte=1,lte=5000"`
}

type IndicatorsRequest struct {
	Mint string `query:"mint" json:"mint" validate:"required"`
}

type SettingsRequest struct {
	Mint       string           `param:"mint" json:"-" validate:"required"`
	Timeframe  string           `json:"timeframe" default:"1m" validate:"oneof=1m 5m 15m 1h 4h 1d"`
	Indicators IndicatorToggles `json:"indicators"`
}

type ToolRequest struct {
	Mint string `param:"mint" json:"-" validate:"required"`
	Tool string `json:"tool" validate:"oneof='' vline hline trend ray fib"`
}

type PointRequest struct {
	Mint  string  `param:"mint" json:"-" validate:"required"`
	Time  int64   `json:"time" validate:"gte=0"`
	Price float64 `json:"price"`
}

type CandlesResponse struct {
	Mint      string   `json:"mint"`
	Timeframe string   `json:"timeframe"`
	Precision int      `json:"precision"`
	MinMove   float64  `json:"minMove"`
	Count     int      `json:"count"`
	Candles   []Candle `json:"candles"`
}

type IndicatorsResponse struct {
	Mint       string           `json:"mint"`
	Timeframe  string           `json:"timeframe"`
	Toggles    IndicatorToggles `json:"toggles"`
	Indicators IndicatorSet     `json:"indicators"`
}

type DrawingsResponse struct {
	Mint     string             `json:"mint"`
	Drawings []DrawingPrimitive `json:"drawings"`
}
