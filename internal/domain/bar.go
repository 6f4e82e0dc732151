package domain

import "time"

// PriceBar represents one trading day's OHLCV record.
// Bars are produced by a BarProvider and are never mutated by the engine.
type PriceBar struct {
	Date   time.Time `json:"date"`   // Calendar date, trading-day granularity
	Open   float64   `json:"open"`   // Opening price
	High   float64   `json:"high"`   // Highest price
	Low    float64   `json:"low"`    // Lowest price
	Close  float64   `json:"close"`  // Closing price
	Volume int64     `json:"volume"` // Traded volume (non-negative)
}
