// Package templates ships a fixed catalog of named strategy rule sets for
// callers that want a ready-made configuration instead of building one.
// The catalog is static data initialized once at startup; accessors hand
// out copies so callers can never mutate it.
package templates

import "stockBacktester/internal/domain"

// DefaultName is the template QuickRun-style entry points apply.
const DefaultName = "rsi-oversold"

// Template pairs a named, described rule set for catalog listing.
type Template struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Rules       domain.RuleSet `json:"rules"`
}

var catalog = []Template{
	{
		Name:        "rsi-oversold",
		Description: "Buy when RSI(14) drops below 30; take profit at +5%, stop loss at -2%.",
		Rules: domain.RuleSet{
			EntryRules: []domain.EntryRule{
				{Indicator: domain.IndicatorRSI, Operator: domain.OpLessThan, Value: 30},
			},
			ExitRules: []domain.ExitRule{
				{Type: domain.ExitTakeProfit, Value: 5},
				{Type: domain.ExitStopLoss, Value: 2},
			},
			PositionSizePercent: 10,
			MaxPositions:        1,
		},
	},
	{
		Name:        "rsi-deep-oversold",
		Description: "Buy only on deep oversold readings (RSI(14) below 20); wider 8%/3% exits.",
		Rules: domain.RuleSet{
			EntryRules: []domain.EntryRule{
				{Indicator: domain.IndicatorRSI, Operator: domain.OpLessThan, Value: 20},
			},
			ExitRules: []domain.ExitRule{
				{Type: domain.ExitTakeProfit, Value: 8},
				{Type: domain.ExitStopLoss, Value: 3},
			},
			PositionSizePercent: 10,
			MaxPositions:        1,
		},
	},
	{
		Name:        "rsi-oversold-trailing",
		Description: "RSI(14) oversold entry that rides winners with a 4% trailing stop.",
		Rules: domain.RuleSet{
			EntryRules: []domain.EntryRule{
				{Indicator: domain.IndicatorRSI, Operator: domain.OpLessThan, Value: 30},
			},
			ExitRules: []domain.ExitRule{
				{Type: domain.ExitTrailingStop, Value: 4},
				{Type: domain.ExitStopLoss, Value: 3},
			},
			PositionSizePercent: 10,
			MaxPositions:        1,
		},
	},
	{
		Name:        "rsi-overbought-short",
		Description: "Short when RSI(14) rises above 70; take profit at +4%, stop loss at -2%.",
		Rules: domain.RuleSet{
			EntryRules: []domain.EntryRule{
				{Indicator: domain.IndicatorRSI, Operator: domain.OpGreaterThan, Value: 70},
			},
			ExitRules: []domain.ExitRule{
				{Type: domain.ExitTakeProfit, Value: 4},
				{Type: domain.ExitStopLoss, Value: 2},
			},
			PositionSizePercent: 10,
			MaxPositions:        1,
			Side:                domain.SideShort,
		},
	},
}

// All returns a copy of the catalog in declaration order.
func All() []Template {
	out := make([]Template, len(catalog))
	for i, t := range catalog {
		t.Rules = t.Rules.Clone()
		out[i] = t
	}
	return out
}

// Find retrieves a template by name. The second return value indicates
// whether the template exists.
func Find(name string) (Template, bool) {
	for _, t := range catalog {
		if t.Name == name {
			t.Rules = t.Rules.Clone()
			return t, true
		}
	}
	return Template{}, false
}

// Default returns the canonical default strategy template.
func Default() Template {
	t, _ := Find(DefaultName)
	return t
}
