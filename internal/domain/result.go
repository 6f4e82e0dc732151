package domain

import "time"

// EquityPoint is one point on the equity curve: total account value
// (cash plus mark-to-market open positions) after a simulated bar.
// Drawdown is the absolute decline from the running peak equity.
type EquityPoint struct {
	Date     time.Time `json:"date"`
	Value    float64   `json:"value"`
	Drawdown float64   `json:"drawdown"`
}

// Performance holds the return and risk metrics of a finished run.
type Performance struct {
	TotalReturn        float64 `json:"total_return"`
	TotalReturnPercent float64 `json:"total_return_percent"`
	AnnualizedReturn   float64 `json:"annualized_return"`
	SharpeRatio        float64 `json:"sharpe_ratio"`
	MaxDrawdown        float64 `json:"max_drawdown"`
	MaxDrawdownPercent float64 `json:"max_drawdown_percent"`
}

// Statistics holds the per-trade aggregates of a finished run.
// ProfitFactor is nil when the run has no losing trades, so callers can
// render "N/A" instead of a division blow-up.
type Statistics struct {
	TotalTrades   int      `json:"total_trades"`
	WinningTrades int      `json:"winning_trades"`
	LosingTrades  int      `json:"losing_trades"`
	WinRate       float64  `json:"win_rate"`
	AverageWin    float64  `json:"average_win"`
	AverageLoss   float64  `json:"average_loss"`
	ProfitFactor  *float64 `json:"profit_factor"`
}

// Capital records the cash boundaries of a run.
type Capital struct {
	Initial float64 `json:"initial"`
	Final   float64 `json:"final"`
}

// RunConfig echoes the configuration a result was produced with.
type RunConfig struct {
	Symbol         string    `json:"symbol"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	InitialCapital float64   `json:"initial_capital"`
	Rules          RuleSet   `json:"rules"`
}

// Result is the aggregate output of one backtest run. It is constructed
// once when the simulation ends and never mutated afterwards.
type Result struct {
	Performance  Performance   `json:"performance"`
	Statistics   Statistics    `json:"statistics"`
	Capital      Capital       `json:"capital"`
	Config       RunConfig     `json:"config"`
	EquityCurve  []EquityPoint `json:"equity_curve"`
	TradeHistory []*Trade      `json:"trade_history"`
}

// RunSummary is the condensed form of a stored run, as listed by a
// RunRepository.
type RunSummary struct {
	ID                 int64     `json:"id"`
	Symbol             string    `json:"symbol"`
	StartDate          time.Time `json:"start_date"`
	EndDate            time.Time `json:"end_date"`
	TotalTrades        int       `json:"total_trades"`
	TotalReturnPercent float64   `json:"total_return_percent"`
	CreatedAt          time.Time `json:"created_at"`
}
