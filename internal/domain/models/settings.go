package models

// ChartSettings is the per-mint settings snapshot persisted across sessions.
type ChartSettings struct {
	Timeframe  string           `json:"timeframe"`
	Indicators IndicatorToggles `json:"indicators"`
}
