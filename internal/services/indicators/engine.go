package indicators

import "SolCharts/internal/domain/models"

// Params holds the indicator periods. Defaults match the dashboard presets.
type Params struct {
	SMAPeriod  int
	EMAPeriod  int
	BollPeriod int
	BollK      float64
	MACDFast   int
	MACDSlow   int
	MACDSignal int
}

// DefaultParams returns the preset periods.
func DefaultParams() Params {
	return Params{
		SMAPeriod:  20,
		EMAPeriod:  9,
		BollPeriod: 20,
		BollK:      2,
		MACDFast:   12,
		MACDSlow:   26,
		MACDSignal: 9,
	}
}

// Engine recomputes overlay series from the full candle sequence.
// Stateless: every call rebuilds the requested series wholesale, so a
// disabled toggle discards its series instead of hiding it.
type Engine struct {
	params Params
}

func NewEngine(params Params) *Engine {
	return &Engine{params: params}
}

// Compute derives every toggled-on overlay from candles.
func (e *Engine) Compute(candles []models.Candle, toggles models.IndicatorToggles) models.IndicatorSet {
	var set models.IndicatorSet
	if toggles.SMA {
		set.SMA = SMA(candles, e.params.SMAPeriod)
	}
	if toggles.EMA {
		set.EMA = EMA(candles, e.params.EMAPeriod)
	}
	if toggles.Bollinger {
		set.Bollinger = Bollinger(candles, e.params.BollPeriod, e.params.BollK)
	}
	if toggles.MACD {
		set.MACD = MACD(candles, e.params.MACDFast, e.params.MACDSlow, e.params.MACDSignal)
	}
	return set
}
