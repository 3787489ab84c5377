package models

// IndicatorPoint is one value of a single-line overlay series.
type IndicatorPoint struct {
	Time  int64   `json:"time"`
	Value float64 `json:"value"`
}

// BandPoint is one value of the Bollinger overlay.
type BandPoint struct {
	Time   int64   `json:"time"`
	Middle float64 `json:"middle"`
	Upper  float64 `json:"upper"`
	Lower  float64 `json:"lower"`
}

// MACDPoint is one value of the MACD overlay.
type MACDPoint struct {
	Time      int64   `json:"time"`
	MACD      float64 `json:"macd"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// IndicatorToggles selects which overlays are active.
type IndicatorToggles struct {
	SMA       bool `json:"sma"`
	EMA       bool `json:"ema"`
	Bollinger bool `json:"bollinger"`
	MACD      bool `json:"macd"`
}

// IndicatorSet holds every active overlay series, re-derived wholesale from
// the candle series. A nil slice means the corresponding toggle is off.
type IndicatorSet struct {
	SMA       []IndicatorPoint `json:"sma,omitempty"`
	EMA       []IndicatorPoint `json:"ema,omitempty"`
	Bollinger []BandPoint      `json:"bollinger,omitempty"`
	MACD      []MACDPoint      `json:"macd,omitempty"`
}
