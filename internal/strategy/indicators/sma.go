package indicators

import (
	"context"
	"fmt"

	"stockBacktester/internal/domain"
)

// SMAConfig holds configuration for the simple moving average indicator
type SMAConfig struct {
	IndicatorConfig
}

// SMA implements the simple moving average indicator
type SMA struct {
	BaseIndicator
	config SMAConfig
}

// NewSMA creates a new SMA indicator instance
func NewSMA(config SMAConfig) *SMA {
	return &SMA{
		BaseIndicator: BaseIndicator{Config: config.IndicatorConfig},
		config:        config,
	}
}

// Name returns the name of the indicator
func (s *SMA) Name() string {
	return "SMA"
}

// Calculate computes the arithmetic mean of the last `period` closes.
// Like RSI it requires period+1 bars of history, so the first value a
// rule can act on appears on the same schedule for both indicators.
func (s *SMA) Calculate(_ context.Context, bars []*domain.PriceBar) (float64, error) {
	period := s.Config.Period
	if len(bars) < period+1 {
		return 0, fmt.Errorf("not enough data (%d) to calculate SMA for period %d", len(bars), period)
	}

	total := 0.0
	for i := len(bars) - period; i < len(bars); i++ {
		total += bars[i].Close
	}
	return total / float64(period), nil
}
