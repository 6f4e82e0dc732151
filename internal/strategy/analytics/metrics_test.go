package analytics

import (
	"math"
	"testing"
	"time"

	"stockBacktester/internal/domain"
)

func closedTrade(pnl float64) *domain.Trade {
	exitDate := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	exitPrice := 100.0
	pnlPercent := pnl // Not exercised by these tests
	return &domain.Trade{
		Symbol:     "TEST",
		Side:       domain.SideLong,
		Quantity:   1,
		EntryDate:  time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		EntryPrice: 100.0,
		ExitDate:   &exitDate,
		ExitPrice:  &exitPrice,
		PNL:        &pnl,
		PNLPercent: &pnlPercent,
		Status:     domain.StatusClosed,
		ExitReason: domain.ReasonTakeProfit,
	}
}

func TestComputeMetrics_TradeStatistics(t *testing.T) {
	// Four trades: +200, +300, -100, -100. Two winners, two losers,
	// 50% win rate, profit factor 500/200 = 2.5.
	trades := []*domain.Trade{
		closedTrade(200),
		closedTrade(300),
		closedTrade(-100),
		closedTrade(-100),
	}
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 2, 0)

	perf, stats := ComputeMetrics(trades, nil, 10000, 10300, start, end)

	if stats.TotalTrades != 4 {
		t.Errorf("Expected 4 trades, got %d", stats.TotalTrades)
	}
	if stats.WinningTrades != 2 || stats.LosingTrades != 2 {
		t.Errorf("Expected 2 winners and 2 losers, got %d/%d", stats.WinningTrades, stats.LosingTrades)
	}
	if stats.WinRate != 50.0 {
		t.Errorf("Expected 50%% win rate, got %.2f", stats.WinRate)
	}
	if stats.AverageWin != 250.0 {
		t.Errorf("Expected average win 250, got %.2f", stats.AverageWin)
	}
	if stats.AverageLoss != -100.0 {
		t.Errorf("Expected average loss -100, got %.2f", stats.AverageLoss)
	}
	if stats.ProfitFactor == nil {
		t.Fatal("Expected a profit factor")
	}
	if math.Abs(*stats.ProfitFactor-2.5) > 1e-9 {
		t.Errorf("Expected profit factor 2.5, got %.4f", *stats.ProfitFactor)
	}

	if perf.TotalReturn != 300.0 {
		t.Errorf("Expected total return 300, got %.2f", perf.TotalReturn)
	}
	if math.Abs(perf.TotalReturnPercent-3.0) > 1e-9 {
		t.Errorf("Expected total return 3%%, got %.4f", perf.TotalReturnPercent)
	}
}

func TestComputeMetrics_ProfitFactorNilWithoutLosses(t *testing.T) {
	trades := []*domain.Trade{closedTrade(100), closedTrade(50)}
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	_, stats := ComputeMetrics(trades, nil, 10000, 10150, start, start.AddDate(0, 1, 0))

	if stats.ProfitFactor != nil {
		t.Errorf("Expected nil profit factor with no losing trades, got %.2f", *stats.ProfitFactor)
	}
	if stats.WinRate != 100.0 {
		t.Errorf("Expected 100%% win rate, got %.2f", stats.WinRate)
	}
	if stats.AverageLoss != 0 {
		t.Errorf("Expected zero average loss, got %.2f", stats.AverageLoss)
	}
}

func TestComputeMetrics_BreakEvenTradeCountsAsLoss(t *testing.T) {
	trades := []*domain.Trade{closedTrade(100), closedTrade(0)}
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	_, stats := ComputeMetrics(trades, nil, 10000, 10100, start, start.AddDate(0, 1, 0))

	if stats.WinningTrades != 1 || stats.LosingTrades != 1 {
		t.Errorf("Expected break-even trade in the losing bucket, got %d/%d",
			stats.WinningTrades, stats.LosingTrades)
	}
	// Gross loss is zero, so the profit factor stays undefined.
	if stats.ProfitFactor != nil {
		t.Errorf("Expected nil profit factor when gross loss is zero, got %.2f", *stats.ProfitFactor)
	}
}

func TestComputeMetrics_EmptyRun(t *testing.T) {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	perf, stats := ComputeMetrics(nil, nil, 10000, 10000, start, start.AddDate(1, 0, 0))

	if stats.TotalTrades != 0 || stats.WinRate != 0 {
		t.Errorf("Expected empty statistics, got %+v", stats)
	}
	if perf.TotalReturn != 0 || perf.SharpeRatio != 0 || perf.MaxDrawdown != 0 {
		t.Errorf("Expected zeroed performance, got %+v", perf)
	}
}

func TestAnnualizedReturn(t *testing.T) {
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)

	t.Run("doubling over two years", func(t *testing.T) {
		end := start.Add(2 * 365 * 24 * time.Hour)
		perf, _ := ComputeMetrics(nil, nil, 10000, 20000, start, end)
		// (2^(1/2) - 1) * 100 ≈ 41.42%
		if math.Abs(perf.AnnualizedReturn-41.4213562) > 1e-4 {
			t.Errorf("Expected ~41.42%% annualized, got %.4f", perf.AnnualizedReturn)
		}
	})

	t.Run("sub-day span falls back to total return", func(t *testing.T) {
		end := start.Add(6 * time.Hour)
		perf, _ := ComputeMetrics(nil, nil, 10000, 10500, start, end)
		if perf.AnnualizedReturn != perf.TotalReturnPercent {
			t.Errorf("Expected fallback to total return %.2f, got %.2f",
				perf.TotalReturnPercent, perf.AnnualizedReturn)
		}
	})

	t.Run("zeroed-out account falls back", func(t *testing.T) {
		end := start.AddDate(1, 0, 0)
		perf, _ := ComputeMetrics(nil, nil, 10000, 0, start, end)
		if perf.AnnualizedReturn != -100.0 {
			t.Errorf("Expected -100%% via fallback, got %.2f", perf.AnnualizedReturn)
		}
	})
}

func curveFromValues(values ...float64) []domain.EquityPoint {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	curve := make([]domain.EquityPoint, len(values))
	peak := 0.0
	for i, v := range values {
		if v > peak {
			peak = v
		}
		curve[i] = domain.EquityPoint{
			Date:     start.AddDate(0, 0, i),
			Value:    v,
			Drawdown: peak - v,
		}
	}
	return curve
}

func TestSharpeRatio(t *testing.T) {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	t.Run("flat curve has zero sharpe", func(t *testing.T) {
		curve := curveFromValues(10000, 10000, 10000, 10000)
		perf, _ := ComputeMetrics(nil, curve, 10000, 10000, start, end)
		if perf.SharpeRatio != 0 {
			t.Errorf("Expected zero Sharpe on a flat curve, got %.4f", perf.SharpeRatio)
		}
	})

	t.Run("steady gains have positive sharpe", func(t *testing.T) {
		curve := curveFromValues(10000, 10100, 10250, 10300, 10500)
		perf, _ := ComputeMetrics(nil, curve, 10000, 10500, start, end)
		if perf.SharpeRatio <= 0 {
			t.Errorf("Expected positive Sharpe, got %.4f", perf.SharpeRatio)
		}
	})

	t.Run("too few points", func(t *testing.T) {
		curve := curveFromValues(10000)
		perf, _ := ComputeMetrics(nil, curve, 10000, 10000, start, end)
		if perf.SharpeRatio != 0 {
			t.Errorf("Expected zero Sharpe with a single point, got %.4f", perf.SharpeRatio)
		}
	})
}

func TestMaxDrawdown(t *testing.T) {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	t.Run("single deep trough", func(t *testing.T) {
		// Peak 12000, trough 9000: drawdown 3000 = 25% of the peak.
		curve := curveFromValues(10000, 12000, 9000, 11000)
		perf, _ := ComputeMetrics(nil, curve, 10000, 11000, start, end)
		if perf.MaxDrawdown != 3000 {
			t.Errorf("Expected max drawdown 3000, got %.2f", perf.MaxDrawdown)
		}
		if math.Abs(perf.MaxDrawdownPercent-25.0) > 1e-9 {
			t.Errorf("Expected 25%% max drawdown, got %.4f", perf.MaxDrawdownPercent)
		}
	})

	t.Run("monotone rise has no drawdown", func(t *testing.T) {
		curve := curveFromValues(10000, 10500, 11000)
		perf, _ := ComputeMetrics(nil, curve, 10000, 11000, start, end)
		if perf.MaxDrawdown != 0 || perf.MaxDrawdownPercent != 0 {
			t.Errorf("Expected zero drawdown, got %.2f (%.2f%%)",
				perf.MaxDrawdown, perf.MaxDrawdownPercent)
		}
	})
}
