// Package backtesting drives the bar-by-bar simulation: it tracks cash,
// open positions and the equity curve, consults the rule evaluator each
// bar, and computes final performance metrics once the series ends.
package backtesting

import (
	"context"
	"fmt"
	"math"
	"time"

	"stockBacktester/internal/domain"
	"stockBacktester/internal/strategy/analytics"
	"stockBacktester/internal/strategy/rules"
)

// Config holds configuration for one backtest run.
type Config struct {
	Symbol         string
	InitialCapital float64
	Rules          domain.RuleSet
}

// Run executes a backtest over the given bars, which must be ascending by
// date and gap-free in trading days. Rule validation happens before the
// loop starts, so a malformed rule set fails fast rather than mid-run.
// An empty bar series yields a trivial zero-trade result, matching data
// availability being outside the engine's control.
//
// Each bar is processed in a fixed order: exit checks on open positions,
// then an entry check under the max-positions cap, then the equity-curve
// update. Indicators only ever see bars up to and including the current
// one, so deleting future bars from the input cannot change any decision
// already made (no look-ahead).
func Run(ctx context.Context, bars []*domain.PriceBar, cfg Config) (*domain.Result, error) {
	if cfg.InitialCapital <= 0 {
		return nil, fmt.Errorf("initial capital must be positive, got %v", cfg.InitialCapital)
	}
	evaluator, err := rules.NewEvaluator(cfg.Rules)
	if err != nil {
		return nil, err
	}
	ruleSet := evaluator.RuleSet()

	var (
		capital      = cfg.InitialCapital
		peakEquity   = cfg.InitialCapital
		positions    []*domain.Trade
		closedTrades []*domain.Trade
		curve        = make([]domain.EquityPoint, 0, len(bars))
	)

	for i, bar := range bars {
		price := bar.Close
		history := bars[:i+1]

		// 1. Exit checks on existing positions, before any new entry.
		remaining := positions[:0]
		for _, pos := range positions {
			pos.UpdatePeak(price)
			if shouldExit, reason := evaluator.CheckExit(ctx, pos, price); shouldExit {
				pos.CloseAt(bar.Date, price, reason)
				// Return the cost basis plus realized pnl; for long
				// positions this equals quantity * exit price.
				capital += float64(pos.Quantity)*pos.EntryPrice + *pos.PNL
				closedTrades = append(closedTrades, pos)
				continue
			}
			remaining = append(remaining, pos)
		}
		positions = remaining

		// 2. Entry check, capped by max open positions.
		if len(positions) < ruleSet.MaxPositions && evaluator.CheckEntry(ctx, history, price) {
			positionSize := capital * ruleSet.PositionSizePercent / 100
			quantity := int64(math.Floor(positionSize / price))
			if quantity > 0 {
				capital -= float64(quantity) * price
				positions = append(positions, &domain.Trade{
					Symbol:     cfg.Symbol,
					Side:       ruleSet.Side,
					Quantity:   quantity,
					EntryDate:  bar.Date,
					EntryPrice: price,
					Status:     domain.StatusOpen,
					PeakPrice:  price,
				})
			}
		}

		// 3. Equity curve update, marking open positions to the close.
		equity := capital
		for _, pos := range positions {
			unrealized := (price - pos.EntryPrice) * float64(pos.Quantity)
			if pos.Side == domain.SideShort {
				unrealized = -unrealized
			}
			equity += float64(pos.Quantity)*pos.EntryPrice + unrealized
		}
		if equity > peakEquity {
			peakEquity = equity
		}
		curve = append(curve, domain.EquityPoint{
			Date:     bar.Date,
			Value:    equity,
			Drawdown: peakEquity - equity,
		})
	}

	// Force-close anything still open at the final bar so the trade
	// history fully accounts for all capital deployed.
	if len(positions) > 0 {
		lastBar := bars[len(bars)-1]
		for _, pos := range positions {
			pos.CloseAt(lastBar.Date, lastBar.Close, domain.ReasonEndOfBacktest)
			capital += float64(pos.Quantity)*pos.EntryPrice + *pos.PNL
			closedTrades = append(closedTrades, pos)
		}
		positions = nil
	}

	var start, end time.Time
	if len(bars) > 0 {
		start = bars[0].Date
		end = bars[len(bars)-1].Date
	}
	performance, statistics := analytics.ComputeMetrics(closedTrades, curve, cfg.InitialCapital, capital, start, end)

	return &domain.Result{
		Performance: performance,
		Statistics:  statistics,
		Capital: domain.Capital{
			Initial: cfg.InitialCapital,
			Final:   capital,
		},
		Config: domain.RunConfig{
			Symbol:         cfg.Symbol,
			StartDate:      start,
			EndDate:        end,
			InitialCapital: cfg.InitialCapital,
			Rules:          ruleSet,
		},
		EquityCurve:  curve,
		TradeHistory: closedTrades,
	}, nil
}
