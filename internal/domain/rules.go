package domain

import "fmt"

// Indicator names a technical indicator an entry rule can reference.
// The set is closed; Validate rejects anything else before a simulation
// starts, so the evaluator never sees an unknown indicator mid-run.
type Indicator string

const (
	IndicatorRSI   Indicator = "RSI"
	IndicatorSMA   Indicator = "SMA"
	IndicatorPrice Indicator = "PRICE"
)

// Operator is the comparison applied between an indicator value and the
// rule threshold. Equality is exact on float64; callers needing tolerance
// must pre-round their threshold.
type Operator string

const (
	OpLessThan    Operator = "<"
	OpGreaterThan Operator = ">"
	OpEqual       Operator = "="
)

// ExitType names an exit rule variant.
type ExitType string

const (
	ExitTakeProfit   ExitType = "take_profit"
	ExitStopLoss     ExitType = "stop_loss"
	ExitTrailingStop ExitType = "trailing_stop"
)

// Default indicator look-back periods, applied when a rule leaves Period
// unset. The rule triple {indicator, operator, value} carries no period
// in the wire format, so these mirror the conventional settings.
const (
	DefaultRSIPeriod = 14
	DefaultSMAPeriod = 20
)

// EntryRule is one declarative entry condition. All entry rules of a
// RuleSet must hold on the same bar for an entry signal to fire.
type EntryRule struct {
	Indicator Indicator `json:"indicator"`
	Operator  Operator  `json:"operator"`
	Value     float64   `json:"value"`
	Period    int       `json:"period,omitempty"` // 0 means the indicator default
}

// ExitRule is one declarative exit condition; any single exit rule
// triggering closes the position. Value is a percentage.
type ExitRule struct {
	Type  ExitType `json:"type"`
	Value float64  `json:"value"`
}

// RuleSet is the full strategy configuration for one backtest run.
// It is immutable for the duration of the run once validated.
type RuleSet struct {
	EntryRules          []EntryRule `json:"entry_rules"`
	ExitRules           []ExitRule  `json:"exit_rules"`
	PositionSizePercent float64     `json:"position_size_percent"` // Fraction of current capital per entry, (0,100]
	MaxPositions        int         `json:"max_positions"`         // Concurrent open positions cap
	Side                Side        `json:"side,omitempty"`        // Defaults to long
}

// Validate checks the rule set and fills in defaulted fields (indicator
// periods, side). It fails fast with a message naming the offending rule
// so a malformed configuration never reaches the simulation loop.
func (r *RuleSet) Validate() error {
	if len(r.EntryRules) == 0 {
		return fmt.Errorf("rule set must contain at least one entry rule")
	}
	for i := range r.EntryRules {
		rule := &r.EntryRules[i]
		switch rule.Indicator {
		case IndicatorRSI:
			if rule.Period == 0 {
				rule.Period = DefaultRSIPeriod
			}
		case IndicatorSMA:
			if rule.Period == 0 {
				rule.Period = DefaultSMAPeriod
			}
		case IndicatorPrice:
			// No look-back window.
		default:
			return fmt.Errorf("entry rule %d references unknown indicator %q", i, rule.Indicator)
		}
		if rule.Period < 0 {
			return fmt.Errorf("entry rule %d: period cannot be negative", i)
		}
		switch rule.Operator {
		case OpLessThan, OpGreaterThan, OpEqual:
		default:
			return fmt.Errorf("entry rule %d references unknown operator %q", i, rule.Operator)
		}
	}
	for i, rule := range r.ExitRules {
		switch rule.Type {
		case ExitTakeProfit, ExitStopLoss, ExitTrailingStop:
		default:
			return fmt.Errorf("exit rule %d references unknown type %q", i, rule.Type)
		}
		if rule.Value <= 0 {
			return fmt.Errorf("exit rule %d (%s): value must be a positive percentage", i, rule.Type)
		}
	}
	if r.PositionSizePercent <= 0 || r.PositionSizePercent > 100 {
		return fmt.Errorf("position_size_percent must be in (0, 100], got %v", r.PositionSizePercent)
	}
	if r.MaxPositions <= 0 {
		return fmt.Errorf("max_positions must be positive, got %d", r.MaxPositions)
	}
	switch r.Side {
	case "":
		r.Side = SideLong
	case SideLong, SideShort:
	default:
		return fmt.Errorf("unknown side %q", r.Side)
	}
	return nil
}

// Clone returns a deep copy of the rule set so shared configurations
// (e.g. catalog templates) stay immutable when a copy is validated.
func (r RuleSet) Clone() RuleSet {
	out := r
	out.EntryRules = append([]EntryRule(nil), r.EntryRules...)
	out.ExitRules = append([]ExitRule(nil), r.ExitRules...)
	return out
}

// RequiredDataPoints returns the minimum number of bars needed before any
// entry rule of the set can produce a defined value. Window indicators
// look one bar further back than their period.
func (r *RuleSet) RequiredDataPoints() int {
	required := 1
	for _, rule := range r.EntryRules {
		var n int
		switch rule.Indicator {
		case IndicatorRSI, IndicatorSMA:
			n = rule.Period + 1
		case IndicatorPrice:
			n = 1
		}
		if n > required {
			required = n
		}
	}
	return required
}
