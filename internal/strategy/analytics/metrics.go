// Package analytics computes performance metrics from the trades and
// equity curve a finished simulation produced. Arithmetic edge cases
// (flat equity, no losing trades, sub-day spans) never raise; they are
// absorbed into defined sentinel values so callers can render "N/A".
package analytics

import (
	"math"
	"time"

	"stockBacktester/internal/domain"
)

// Trading days per year, the annualization constant for daily-bar Sharpe.
const tradingDaysPerYear = 252

// ComputeMetrics derives the performance and per-trade statistics of a
// run. Trades must all be closed; curve points must be in date order.
func ComputeMetrics(
	trades []*domain.Trade,
	curve []domain.EquityPoint,
	initialCapital, finalCapital float64,
	start, end time.Time,
) (domain.Performance, domain.Statistics) {
	perf := domain.Performance{
		TotalReturn: finalCapital - initialCapital,
	}
	if initialCapital > 0 {
		perf.TotalReturnPercent = perf.TotalReturn / initialCapital * 100
	}
	perf.AnnualizedReturn = annualizedReturn(initialCapital, finalCapital, start, end, perf.TotalReturnPercent)
	perf.SharpeRatio = sharpeRatio(curve)
	perf.MaxDrawdown, perf.MaxDrawdownPercent = maxDrawdown(curve)

	return perf, tradeStatistics(trades)
}

// annualizedReturn computes ((final/initial)^(1/years) - 1) * 100 with
// years measured in 365-day units. Spans shorter than one day fall back
// to the total return percentage to avoid the exponent blowing up.
func annualizedReturn(initial, final float64, start, end time.Time, totalReturnPercent float64) float64 {
	years := end.Sub(start).Hours() / 24 / 365
	if years < 1.0/365 || initial <= 0 || final <= 0 {
		return totalReturnPercent
	}
	return (math.Pow(final/initial, 1/years) - 1) * 100
}

// sharpeRatio computes the annualized Sharpe ratio from the daily returns
// implied by consecutive equity-curve values. Zero when the return series
// is too short or has no variance.
func sharpeRatio(curve []domain.EquityPoint) float64 {
	if len(curve) < 2 {
		return 0
	}

	returns := make([]float64, 0, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		prev := curve[i-1].Value
		if prev == 0 {
			return 0
		}
		returns = append(returns, (curve[i].Value-prev)/prev)
	}
	if len(returns) < 2 {
		return 0
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))

	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns) - 1)
	stdDev := math.Sqrt(variance)
	if stdDev == 0 {
		return 0
	}

	return mean / stdDev * math.Sqrt(tradingDaysPerYear)
}

// maxDrawdown finds the deepest recorded drawdown and expresses it both
// absolutely and relative to the equity peak in force at that point.
func maxDrawdown(curve []domain.EquityPoint) (float64, float64) {
	var maxDD, maxDDPercent float64
	for _, point := range curve {
		if point.Drawdown > maxDD {
			maxDD = point.Drawdown
			// The running peak at this point is the value plus its decline.
			peak := point.Value + point.Drawdown
			if peak > 0 {
				maxDDPercent = maxDD / peak * 100
			}
		}
	}
	return maxDD, maxDDPercent
}

// tradeStatistics aggregates per-trade counts, averages, win rate and
// profit factor. ProfitFactor stays nil when there are no losing trades.
func tradeStatistics(trades []*domain.Trade) domain.Statistics {
	stats := domain.Statistics{TotalTrades: len(trades)}
	if len(trades) == 0 {
		return stats
	}

	var grossProfit, grossLoss float64
	for _, trade := range trades {
		if trade.PNL == nil {
			continue
		}
		pnl := *trade.PNL
		if pnl > 0 {
			stats.WinningTrades++
			grossProfit += pnl
		} else {
			stats.LosingTrades++
			grossLoss += pnl
		}
	}

	stats.WinRate = float64(stats.WinningTrades) / float64(stats.TotalTrades) * 100
	if stats.WinningTrades > 0 {
		stats.AverageWin = grossProfit / float64(stats.WinningTrades)
	}
	if stats.LosingTrades > 0 {
		stats.AverageLoss = grossLoss / float64(stats.LosingTrades)
	}
	if grossLoss < 0 {
		pf := grossProfit / math.Abs(grossLoss)
		stats.ProfitFactor = &pf
	}
	return stats
}
