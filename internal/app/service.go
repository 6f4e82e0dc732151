// Package app wires the backtest engine to its collaborators: the market
// data provider that supplies bars, and the repository that records
// finished runs. It owns request validation, so every configuration error
// surfaces before a simulation starts.
package app

import (
	"context"
	"fmt"
	"time"

	"stockBacktester/internal/domain"
	"stockBacktester/internal/ports"
	"stockBacktester/internal/strategy/backtesting"
	"stockBacktester/internal/strategy/templates"
)

// Maximum allowed backtest span.
const maxSpanYears = 5

// Request carries the full configuration for a backtest run.
type Request struct {
	Symbol         string         `json:"symbol"`
	StartDate      time.Time      `json:"start_date"`
	EndDate        time.Time      `json:"end_date"`
	InitialCapital float64        `json:"initial_capital"`
	Rules          domain.RuleSet `json:"rules"`
}

// BacktestService orchestrates backtest runs against a data provider and
// persists finished results.
type BacktestService struct {
	logger   ports.Logger
	provider ports.BarProvider
	runs     ports.RunRepository
	now      func() time.Time // Injected for date-validation tests
}

// NewBacktestService creates a new backtest service instance. The run
// repository may be nil, in which case results are not persisted.
func NewBacktestService(logger ports.Logger, provider ports.BarProvider, runs ports.RunRepository) (*BacktestService, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required for backtest service")
	}
	if provider == nil {
		return nil, fmt.Errorf("bar provider is required for backtest service")
	}
	return &BacktestService{
		logger:   logger,
		provider: provider,
		runs:     runs,
		now:      time.Now,
	}, nil
}

// Run executes a full backtest request: validates it, materializes the
// bar series, runs the simulation, and records the finished result.
func (s *BacktestService) Run(ctx context.Context, req Request) (*domain.Result, error) {
	if err := s.validateRequest(&req); err != nil {
		return nil, err
	}

	bars, err := s.provider.GetDailyBars(ctx, req.Symbol, req.StartDate, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load bars for %s: %w", req.Symbol, err)
	}
	s.logger.Debug(ctx, "Loaded historical bars", map[string]interface{}{
		"symbol": req.Symbol,
		"bars":   len(bars),
	})

	result, err := backtesting.Run(ctx, bars, backtesting.Config{
		Symbol:         req.Symbol,
		InitialCapital: req.InitialCapital,
		Rules:          req.Rules,
	})
	if err != nil {
		return nil, err
	}
	// The request carries the authoritative range even when the provider
	// returned no bars for it.
	result.Config.StartDate = req.StartDate
	result.Config.EndDate = req.EndDate

	s.logger.Info(ctx, "Backtest completed", map[string]interface{}{
		"symbol":       req.Symbol,
		"totalTrades":  result.Statistics.TotalTrades,
		"totalReturn":  result.Performance.TotalReturn,
		"finalCapital": result.Capital.Final,
		"sharpeRatio":  result.Performance.SharpeRatio,
		"maxDrawdown":  result.Performance.MaxDrawdown,
		"equityPoints": len(result.EquityCurve),
	})

	// Persistence is best effort: a finished simulation is still returned
	// when the store is unavailable.
	if s.runs != nil {
		if _, err := s.runs.SaveRun(ctx, result); err != nil {
			s.logger.Warn(ctx, "Failed to persist backtest run", map[string]interface{}{
				"symbol": req.Symbol,
				"error":  err.Error(),
			})
		}
	}

	return result, nil
}

// QuickRun executes a backtest over the last monthsBack months with the
// canonical default strategy and a 10,000 starting balance. Useful for
// validating a symbol without constructing a full rule set.
func (s *BacktestService) QuickRun(ctx context.Context, symbol string, monthsBack int) (*domain.Result, error) {
	if monthsBack <= 0 || monthsBack > maxSpanYears*12 {
		return nil, fmt.Errorf("%w: months_back must be in [1, %d], got %d", ports.ErrInvalidRequest, maxSpanYears*12, monthsBack)
	}

	end := s.now().Truncate(24 * time.Hour)
	return s.Run(ctx, Request{
		Symbol:         symbol,
		StartDate:      end.AddDate(0, -monthsBack, 0),
		EndDate:        end,
		InitialCapital: 10000,
		Rules:          templates.Default().Rules,
	})
}

// Templates returns the static catalog of named strategy templates.
func (s *BacktestService) Templates() []templates.Template {
	return templates.All()
}

// Runs lists previously stored runs for a symbol, newest first.
func (s *BacktestService) Runs(ctx context.Context, symbol string, limit int) ([]*domain.RunSummary, error) {
	if s.runs == nil {
		return nil, nil
	}
	return s.runs.FindRuns(ctx, symbol, limit)
}

func (s *BacktestService) validateRequest(req *Request) error {
	if req.Symbol == "" {
		return fmt.Errorf("%w: symbol must not be empty", ports.ErrInvalidRequest)
	}
	if req.InitialCapital <= 0 {
		return fmt.Errorf("%w: initial_capital must be positive, got %v", ports.ErrInvalidRequest, req.InitialCapital)
	}
	if !req.StartDate.Before(req.EndDate) {
		return fmt.Errorf("%w: start_date %s must be before end_date %s",
			ports.ErrInvalidDateRange, req.StartDate.Format("2006-01-02"), req.EndDate.Format("2006-01-02"))
	}
	if req.EndDate.After(req.StartDate.AddDate(maxSpanYears, 0, 0)) {
		return fmt.Errorf("%w: span exceeds %d years", ports.ErrInvalidDateRange, maxSpanYears)
	}
	if req.EndDate.After(s.now()) {
		return fmt.Errorf("%w: end_date %s is in the future",
			ports.ErrInvalidDateRange, req.EndDate.Format("2006-01-02"))
	}
	// Validate a clone: defaulting must not write through the caller's
	// rule slices, which may be shared between runs.
	rules := req.Rules.Clone()
	if err := rules.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ports.ErrInvalidRules, err)
	}
	return nil
}
