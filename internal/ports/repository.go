package ports

import (
	"context"

	"stockBacktester/internal/domain"
)

// RunRepository defines the interface for storing and retrieving finished
// backtest runs.
type RunRepository interface {
	// SaveRun persists a finished run with its trade history and returns
	// the assigned run ID.
	SaveRun(ctx context.Context, result *domain.Result) (int64, error)
	// FindRuns retrieves the most recent stored runs for a symbol, up to a
	// limit. An empty symbol matches all runs.
	FindRuns(ctx context.Context, symbol string, limit int) ([]*domain.RunSummary, error)
	// FindTrades retrieves the closed trades recorded for a stored run,
	// ordered by entry date.
	FindTrades(ctx context.Context, runID int64) ([]*domain.Trade, error)
}
