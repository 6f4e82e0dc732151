// Package rules interprets declarative entry/exit rule sets against price
// history and open positions, producing the boolean signals the backtest
// engine acts on.
package rules

import (
	"context"
	"fmt"

	"stockBacktester/internal/domain"
	"stockBacktester/internal/strategy/indicators"
)

// Evaluator translates a validated RuleSet into entry and exit decisions.
// It is stateless across bars; per-position state (the trailing-stop peak)
// lives on the Trade itself.
type Evaluator struct {
	ruleSet    domain.RuleSet
	entryIndic []indicators.Indicator // Parallel to ruleSet.EntryRules; nil for PRICE rules
}

// NewEvaluator validates the rule set (filling defaulted periods) and
// builds the indicator instances its entry rules reference. The input is
// cloned first: defaulting happens on the copy, so the caller's rule set
// stays untouched and can be shared between concurrent runs.
func NewEvaluator(ruleSet domain.RuleSet) (*Evaluator, error) {
	ruleSet = ruleSet.Clone()
	if err := ruleSet.Validate(); err != nil {
		return nil, err
	}

	entryIndic := make([]indicators.Indicator, len(ruleSet.EntryRules))
	for i, rule := range ruleSet.EntryRules {
		switch rule.Indicator {
		case domain.IndicatorRSI:
			entryIndic[i] = indicators.NewRSI(indicators.RSIConfig{
				IndicatorConfig: indicators.IndicatorConfig{Period: rule.Period},
			})
		case domain.IndicatorSMA:
			entryIndic[i] = indicators.NewSMA(indicators.SMAConfig{
				IndicatorConfig: indicators.IndicatorConfig{Period: rule.Period},
			})
		case domain.IndicatorPrice:
			// Compared directly against the current price.
		}
	}

	return &Evaluator{ruleSet: ruleSet, entryIndic: entryIndic}, nil
}

// RuleSet returns the validated rule set the evaluator was built from,
// including any defaulted fields.
func (e *Evaluator) RuleSet() domain.RuleSet {
	return e.ruleSet
}

// RequiredDataPoints returns the minimum number of bars needed before any
// entry rule can produce a defined value.
func (e *Evaluator) RequiredDataPoints() int {
	return e.ruleSet.RequiredDataPoints()
}

// CheckEntry evaluates every entry rule against the price history up to
// and including the current bar. All rules must hold (AND semantics); a
// rule whose indicator cannot be computed yet makes the whole evaluation
// false, so no position opens on insufficient history.
func (e *Evaluator) CheckEntry(ctx context.Context, bars []*domain.PriceBar, currentPrice float64) bool {
	for i, rule := range e.ruleSet.EntryRules {
		var value float64
		if rule.Indicator == domain.IndicatorPrice {
			value = currentPrice
		} else {
			v, err := e.entryIndic[i].Calculate(ctx, bars)
			if err != nil {
				return false
			}
			value = v
		}
		if !compare(value, rule.Operator, rule.Value) {
			return false
		}
	}
	return true
}

// CheckExit evaluates the exit rules against an open position at the
// current price. Rules are independent (OR semantics) and checked in a
// fixed order: take_profit, then stop_loss, then trailing_stop. The first
// match wins and determines the recorded exit reason.
func (e *Evaluator) CheckExit(_ context.Context, trade *domain.Trade, currentPrice float64) (bool, domain.ExitReason) {
	pnlPercent := trade.UnrealizedPNLPercent(currentPrice)

	for _, exitType := range []domain.ExitType{domain.ExitTakeProfit, domain.ExitStopLoss, domain.ExitTrailingStop} {
		for _, rule := range e.ruleSet.ExitRules {
			if rule.Type != exitType {
				continue
			}
			switch rule.Type {
			case domain.ExitTakeProfit:
				if pnlPercent >= rule.Value {
					return true, domain.ReasonTakeProfit
				}
			case domain.ExitStopLoss:
				if pnlPercent <= -rule.Value {
					return true, domain.ReasonStopLoss
				}
			case domain.ExitTrailingStop:
				if retracePercent(trade, currentPrice) >= rule.Value {
					return true, domain.ReasonTrailingStop
				}
			}
		}
	}
	return false, ""
}

// retracePercent measures how far the price has given back from the
// position's peak favorable excursion, as a positive percentage.
func retracePercent(trade *domain.Trade, currentPrice float64) float64 {
	if trade.PeakPrice == 0 {
		return 0
	}
	retrace := (trade.PeakPrice - currentPrice) / trade.PeakPrice * 100
	if trade.Side == domain.SideShort {
		retrace = -retrace
	}
	return retrace
}

func compare(value float64, op domain.Operator, threshold float64) bool {
	switch op {
	case domain.OpLessThan:
		return value < threshold
	case domain.OpGreaterThan:
		return value > threshold
	case domain.OpEqual:
		return value == threshold
	}
	// Unreachable after RuleSet validation.
	panic(fmt.Sprintf("unknown operator %q", op))
}
