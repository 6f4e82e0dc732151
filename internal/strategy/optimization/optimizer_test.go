package optimization

import (
	"context"
	"reflect"
	"testing"
	"time"

	"stockBacktester/internal/domain"
)

func testBars() []*domain.PriceBar {
	// Oversold dip at 96 for RSI(3), then a rally: deep take profits stay
	// open longer than shallow ones.
	closes := []float64{100, 101, 102, 99, 96, 98, 100, 102, 104, 106}
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]*domain.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = &domain.PriceBar{
			Date:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}

func baseRules() domain.RuleSet {
	return domain.RuleSet{
		EntryRules: []domain.EntryRule{
			{Indicator: domain.IndicatorRSI, Operator: domain.OpLessThan, Value: 30, Period: 3},
		},
		PositionSizePercent: 10,
		MaxPositions:        1,
	}
}

func TestOptimize_CoversTheGrid(t *testing.T) {
	bars := testBars()

	results, err := Optimize(context.Background(), bars, Config{
		Symbol:         "TEST",
		InitialCapital: 10000,
		BaseRules:      baseRules(),
		TakeProfits:    []float64{3, 5, 8},
		StopLosses:     []float64{1, 2},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(results) != 6 {
		t.Fatalf("Expected 6 grid points, got %d", len(results))
	}

	seen := make(map[[2]float64]bool)
	for _, r := range results {
		key := [2]float64{r.TakeProfit, r.StopLoss}
		if seen[key] {
			t.Errorf("Duplicate grid point tp=%v sl=%v", r.TakeProfit, r.StopLoss)
		}
		seen[key] = true
		if r.Run == nil {
			t.Errorf("Grid point tp=%v sl=%v missing its run", r.TakeProfit, r.StopLoss)
		}
	}
}

func TestOptimize_RanksByScore(t *testing.T) {
	bars := testBars()

	results, err := Optimize(context.Background(), bars, Config{
		Symbol:         "TEST",
		InitialCapital: 10000,
		BaseRules:      baseRules(),
		TakeProfits:    []float64{3, 5, 8},
		StopLosses:     []float64{1, 2},
		// Score by raw return so the ranking is easy to verify.
		ScoreFunction: func(perf domain.Performance, _ domain.Statistics) float64 {
			return perf.TotalReturnPercent
		},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("Results not sorted by score at index %d: %.4f after %.4f",
				i, results[i].Score, results[i-1].Score)
		}
	}
}

func TestOptimize_Deterministic(t *testing.T) {
	bars := testBars()
	cfg := Config{
		Symbol:         "TEST",
		InitialCapital: 10000,
		BaseRules:      baseRules(),
		TakeProfits:    []float64{3, 5, 8},
		StopLosses:     []float64{1, 2, 3},
	}

	first, err := Optimize(context.Background(), bars, cfg)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	second, err := Optimize(context.Background(), bars, cfg)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("Expected identical rankings across runs of the same grid")
	}
}

func TestOptimize_EmptyGrid(t *testing.T) {
	_, err := Optimize(context.Background(), testBars(), Config{
		Symbol:         "TEST",
		InitialCapital: 10000,
		BaseRules:      baseRules(),
	})
	if err == nil {
		t.Error("Expected an error for an empty grid")
	}
}

func TestOptimize_DoesNotMutateBaseRules(t *testing.T) {
	base := baseRules()
	base.ExitRules = []domain.ExitRule{{Type: domain.ExitTakeProfit, Value: 42}}

	_, err := Optimize(context.Background(), testBars(), Config{
		Symbol:         "TEST",
		InitialCapital: 10000,
		BaseRules:      base,
		TakeProfits:    []float64{5},
		StopLosses:     []float64{2},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(base.ExitRules) != 1 || base.ExitRules[0].Value != 42 {
		t.Errorf("Base rules mutated by the sweep: %+v", base.ExitRules)
	}
}
