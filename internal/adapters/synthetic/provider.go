package synthetic

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"stockBacktester/internal/domain"
	"stockBacktester/internal/ports"
)

// Provider implements ports.BarProvider with generated data, so the
// engine can run offline. Bars are produced on weekdays only and are
// deterministic for a given symbol and date range.
type Provider struct {
	logger ports.Logger
}

// New creates a new synthetic data provider.
func New(logger ports.Logger) (*Provider, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required for synthetic data provider")
	}
	return &Provider{logger: logger}, nil
}

// GetDailyBars generates one bar per weekday between start and end
// (inclusive). Prices follow a slow upward drift with seeded noise and
// an occasional multi-day dip, which gives oscillator rules something
// to trigger on.
func (p *Provider) GetDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]*domain.PriceBar, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrContextCanceled, err)
	}
	if !start.Before(end) {
		return nil, fmt.Errorf("%w: start %s is not before end %s",
			ports.ErrInvalidDateRange, start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	rng := rand.New(rand.NewSource(seed(symbol, start, end)))

	// Base price derived from the symbol so different tickers do not
	// look identical.
	price := 50.0 + float64(rng.Intn(200))
	var bars []*domain.PriceBar

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}

		drift := 0.0005 * price
		noise := rng.NormFloat64() * 0.015 * price
		// Cyclical component pushes the series through pullbacks deep
		// enough to move RSI into oversold territory.
		cycle := math.Sin(float64(len(bars))/9.0) * 0.01 * price

		open := price
		close := price + drift + noise + cycle
		if close < 1.0 {
			close = 1.0
		}
		high := math.Max(open, close) * (1 + rng.Float64()*0.008)
		low := math.Min(open, close) * (1 - rng.Float64()*0.008)
		volume := int64(500_000 + rng.Intn(2_000_000))

		bars = append(bars, &domain.PriceBar{
			Date:   time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  close,
			Volume: volume,
		})
		price = close
	}

	p.logger.Debug(ctx, "synthetic bars generated", map[string]interface{}{
		"symbol": symbol,
		"bars":   len(bars),
	})
	return bars, nil
}

// seed folds the symbol and date range into a stable RNG seed.
func seed(symbol string, start, end time.Time) int64 {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	h.Write([]byte(start.Format("2006-01-02")))
	h.Write([]byte(end.Format("2006-01-02")))
	return int64(h.Sum64())
}
