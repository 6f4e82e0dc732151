package indicators

import (
	"context"
	"fmt"

	"stockBacktester/internal/domain"
)

// RSIConfig holds configuration for the RSI indicator
type RSIConfig struct {
	IndicatorConfig
}

// RSI implements the Relative Strength Index indicator
type RSI struct {
	BaseIndicator
	config RSIConfig
}

// NewRSI creates a new RSI indicator instance
func NewRSI(config RSIConfig) *RSI {
	return &RSI{
		BaseIndicator: BaseIndicator{Config: config.IndicatorConfig},
		config:        config,
	}
}

// Name returns the name of the indicator
func (r *RSI) Name() string {
	return "RSI"
}

// Calculate computes the RSI over the trailing period using the
// average-gain/average-loss ratio: RSI = 100 - 100/(1 + avgGain/avgLoss).
// When the window contains no losses the value saturates at 100.
func (r *RSI) Calculate(_ context.Context, bars []*domain.PriceBar) (float64, error) {
	period := r.Config.Period
	if len(bars) < period+1 {
		return 0, fmt.Errorf("not enough data (%d) to calculate RSI for period %d", len(bars), period)
	}

	// Average the gains and losses of the last `period` close-to-close changes.
	var avgGain, avgLoss float64
	for i := len(bars) - period; i < len(bars); i++ {
		change := bars[i].Close - bars[i-1].Close
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	if avgLoss == 0 {
		return 100, nil
	}

	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs)), nil
}
