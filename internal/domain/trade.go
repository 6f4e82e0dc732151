package domain

import "time"

// Trade represents one simulated round-trip. While a trade is open the
// ExitDate, ExitPrice, PNL and PNLPercent fields are all nil; closing a
// trade populates all four together.
type Trade struct {
	ID         int64      `json:"id,omitempty"`
	Symbol     string     `json:"symbol"`
	Side       Side       `json:"side"`
	Quantity   int64      `json:"quantity"` // Whole shares
	EntryDate  time.Time  `json:"entry_date"`
	EntryPrice float64    `json:"entry_price"`
	ExitDate   *time.Time `json:"exit_date"`
	ExitPrice  *float64   `json:"exit_price"`
	PNL        *float64   `json:"pnl"`
	PNLPercent *float64   `json:"pnl_percent"`
	Status     TradeStatus `json:"status"`
	ExitReason ExitReason  `json:"exit_reason,omitempty"`

	// PeakPrice tracks the most favorable close seen since entry (highest
	// for long, lowest for short). Used by trailing-stop evaluation.
	PeakPrice float64 `json:"-"`
}

// IsOpen reports whether the trade has not been closed yet.
func (t *Trade) IsOpen() bool {
	return t.Status == StatusOpen
}

// UnrealizedPNLPercent returns the current percentage gain of the position
// at the given price. The sign convention flips for short positions.
func (t *Trade) UnrealizedPNLPercent(currentPrice float64) float64 {
	pct := (currentPrice - t.EntryPrice) / t.EntryPrice * 100
	if t.Side == SideShort {
		return -pct
	}
	return pct
}

// CloseAt closes the trade at the given date and price, populating the
// exit fields and realized PNL in one step.
func (t *Trade) CloseAt(date time.Time, price float64, reason ExitReason) {
	pnl := (price - t.EntryPrice) * float64(t.Quantity)
	if t.Side == SideShort {
		pnl = -pnl
	}
	pnlPercent := t.UnrealizedPNLPercent(price)

	exitDate := date
	exitPrice := price
	t.ExitDate = &exitDate
	t.ExitPrice = &exitPrice
	t.PNL = &pnl
	t.PNLPercent = &pnlPercent
	t.Status = StatusClosed
	t.ExitReason = reason
}

// UpdatePeak records a new favorable extreme if the given price improves
// on the current one.
func (t *Trade) UpdatePeak(price float64) {
	if t.Side == SideShort {
		if price < t.PeakPrice {
			t.PeakPrice = price
		}
		return
	}
	if price > t.PeakPrice {
		t.PeakPrice = price
	}
}
