package indicators

import (
	"context"

	"stockBacktester/internal/domain"
)

// Indicator represents a technical indicator that can be calculated from price data
type Indicator interface {
	// Calculate computes the indicator value as of the most recent bar in
	// the given window. Implementations are pure: they never look past the
	// window they are handed.
	Calculate(ctx context.Context, bars []*domain.PriceBar) (float64, error)

	// RequiredDataPoints returns the minimum number of bars needed for calculation
	RequiredDataPoints() int

	// Name returns the name of the indicator
	Name() string
}

// IndicatorConfig holds common configuration for indicators
type IndicatorConfig struct {
	Period int
}

// BaseIndicator provides common functionality for indicators
type BaseIndicator struct {
	Config IndicatorConfig
}

// RequiredDataPoints returns the minimum number of bars needed for
// calculation. Window indicators look one bar further back than their
// period so the first bar of the window has a predecessor.
func (b *BaseIndicator) RequiredDataPoints() int {
	return b.Config.Period + 1
}
