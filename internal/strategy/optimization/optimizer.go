// Package optimization sweeps exit-rule parameters over a fixed bar
// series. Each take-profit/stop-loss combination is an isolated engine
// run with its own state, so combinations can execute concurrently
// without threatening the single run's determinism.
package optimization

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"stockBacktester/internal/domain"
	"stockBacktester/internal/strategy/backtesting"
)

// Config holds configuration for one optimization sweep.
type Config struct {
	Symbol         string
	InitialCapital float64
	BaseRules      domain.RuleSet // Entry rules and sizing kept fixed across the grid
	TakeProfits    []float64      // Candidate take-profit percentages
	StopLosses     []float64      // Candidate stop-loss percentages
	ScoreFunction  func(domain.Performance, domain.Statistics) float64
}

// Result holds one evaluated grid point.
type Result struct {
	TakeProfit float64
	StopLoss   float64
	Run        *domain.Result
	Score      float64
}

// Optimize backtests every take-profit/stop-loss combination over the
// given bars and returns results ranked by score, best first. Ties and
// ordering are resolved deterministically by the grid coordinates.
func Optimize(ctx context.Context, bars []*domain.PriceBar, cfg Config) ([]Result, error) {
	if len(cfg.TakeProfits) == 0 || len(cfg.StopLosses) == 0 {
		return nil, fmt.Errorf("optimization grid is empty")
	}
	score := cfg.ScoreFunction
	if score == nil {
		score = DefaultScoreFunction
	}

	type combo struct{ tp, sl float64 }
	combos := make([]combo, 0, len(cfg.TakeProfits)*len(cfg.StopLosses))
	for _, tp := range cfg.TakeProfits {
		for _, sl := range cfg.StopLosses {
			combos = append(combos, combo{tp: tp, sl: sl})
		}
	}

	results := make([]Result, len(combos))
	errs := make([]error, len(combos))
	var wg sync.WaitGroup

	for i, c := range combos {
		wg.Add(1)
		go func(i int, c combo) {
			defer wg.Done()

			rules := cfg.BaseRules.Clone()
			rules.ExitRules = []domain.ExitRule{
				{Type: domain.ExitTakeProfit, Value: c.tp},
				{Type: domain.ExitStopLoss, Value: c.sl},
			}

			run, err := backtesting.Run(ctx, bars, backtesting.Config{
				Symbol:         cfg.Symbol,
				InitialCapital: cfg.InitialCapital,
				Rules:          rules,
			})
			if err != nil {
				errs[i] = fmt.Errorf("combination tp=%v sl=%v: %w", c.tp, c.sl, err)
				return
			}
			results[i] = Result{
				TakeProfit: c.tp,
				StopLoss:   c.sl,
				Run:        run,
				Score:      score(run.Performance, run.Statistics),
			}
		}(i, c)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].TakeProfit != results[j].TakeProfit {
			return results[i].TakeProfit < results[j].TakeProfit
		}
		return results[i].StopLoss < results[j].StopLoss
	})
	return results, nil
}

// DefaultScoreFunction combines return, risk and consistency metrics into
// a single ranking score.
func DefaultScoreFunction(perf domain.Performance, stats domain.Statistics) float64 {
	score := perf.TotalReturnPercent
	score += stats.WinRate * 0.1
	score -= perf.MaxDrawdownPercent * 0.5
	if stats.ProfitFactor != nil {
		score += *stats.ProfitFactor
	}
	return score
}
