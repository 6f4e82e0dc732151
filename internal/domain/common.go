package domain

// Side represents the direction of a simulated position.
type Side string

const (
	SideLong  Side = "long"
	SideShort Side = "short"
)

// TradeStatus represents the lifecycle state of a simulated trade.
type TradeStatus string

const (
	StatusOpen   TradeStatus = "open"
	StatusClosed TradeStatus = "closed"
)

// ExitReason indicates which rule closed a position.
// Rule-driven closures carry the triggering rule's type name; positions
// still open when the bar series ends are closed with ReasonEndOfBacktest.
type ExitReason string

const (
	ReasonTakeProfit    ExitReason = "take_profit"
	ReasonStopLoss      ExitReason = "stop_loss"
	ReasonTrailingStop  ExitReason = "trailing_stop"
	ReasonEndOfBacktest ExitReason = "end_of_backtest"
)
