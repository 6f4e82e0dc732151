package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"stockBacktester/config"
	"stockBacktester/internal/adapters/logger"
	"stockBacktester/internal/strategy/optimization"
	"stockBacktester/internal/strategy/templates"
	"stockBacktester/internal/utils"
)

// Sweeps take-profit/stop-loss combinations for a strategy template over
// bars loaded from a CSV file and prints the ranked grid.
func main() {
	var (
		csvPath      = flag.String("csv", "", "path to a daily bars CSV (required)")
		templateName = flag.String("template", templates.DefaultName, "strategy template to sweep")
	)
	flag.Parse()

	if *csvPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	appLogger := logger.NewStdLogger(cfg.LogLevel)
	ctx := context.Background()

	bars, err := utils.ReadBarsFromCSV(*csvPath)
	if err != nil {
		appLogger.Error(ctx, err, "Error loading bars", map[string]interface{}{"file": *csvPath})
		log.Fatalf("Error loading bars from %s: %v", *csvPath, err)
	}
	appLogger.Info(ctx, "Loaded bars", map[string]interface{}{"file": *csvPath, "count": len(bars)})

	tmpl, ok := templates.Find(*templateName)
	if !ok {
		log.Fatalf("Unknown strategy template: %s", *templateName)
	}

	results, err := optimization.Optimize(ctx, bars, optimization.Config{
		Symbol:         cfg.Symbol,
		InitialCapital: cfg.InitialCapital,
		BaseRules:      tmpl.Rules,
		TakeProfits:    []float64{2, 3, 5, 8},
		StopLosses:     []float64{1, 2, 3},
	})
	if err != nil {
		appLogger.Error(ctx, err, "Optimization failed")
		log.Fatalf("Optimization failed: %v", err)
	}

	fmt.Printf("\nTemplate %q over %d bars, %.2f starting capital:\n\n", tmpl.Name, len(bars), cfg.InitialCapital)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight|tabwriter.Debug)
	fmt.Fprintln(w, "TP%\tSL%\tTrades\tWinRate\tReturn%\tSharpe\tMaxDD%\tScore\t")
	for _, r := range results {
		fmt.Fprintf(w, "%.1f\t%.1f\t%d\t%.1f\t%.2f\t%.2f\t%.2f\t%.3f\t\n",
			r.TakeProfit,
			r.StopLoss,
			r.Run.Statistics.TotalTrades,
			r.Run.Statistics.WinRate,
			r.Run.Performance.TotalReturnPercent,
			r.Run.Performance.SharpeRatio,
			r.Run.Performance.MaxDrawdownPercent,
			r.Score,
		)
	}
	w.Flush()

	best := results[0]
	fmt.Printf("\nBest exits: take profit %.1f%%, stop loss %.1f%% (score %.3f)\n",
		best.TakeProfit, best.StopLoss, best.Score)
}
