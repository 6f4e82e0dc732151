package ports

import (
	"context"
	"time"

	"stockBacktester/internal/domain"
)

// BarProvider defines the contract with the historical data source.
// Implementations must return bars gap-free in trading days, ascending by
// date, with positive OHLC prices and non-negative volume. The engine
// performs no I/O itself; a full series is materialized before a run.
type BarProvider interface {
	// GetDailyBars retrieves daily bars for the symbol over [start, end].
	GetDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]*domain.PriceBar, error)
}
