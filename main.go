package main

import (
	"context"
	"fmt"
	"log" // Use standard log only for initial fatal errors before logger is set up
	"os"
	"time"

	"stockBacktester/config"
	"stockBacktester/internal/adapters/binancedata"
	"stockBacktester/internal/adapters/logger"
	"stockBacktester/internal/adapters/sqlite"
	"stockBacktester/internal/adapters/synthetic"
	"stockBacktester/internal/app"
	"stockBacktester/internal/domain"
	"stockBacktester/internal/ports"
	"stockBacktester/internal/strategy/templates"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}

	// 2. Initialize Logger
	appLogger := logger.NewStdLogger(cfg.LogLevel)
	ctx := context.Background()
	appLogger.Info(ctx, "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String()})

	// 3. Initialize Repository (Database Adapter)
	repo, err := sqlite.NewRepository(sqlite.Config{
		DBPath: cfg.DBPath,
		Logger: appLogger,
	})
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to initialize database repository")
		log.Fatalf("FATAL: Failed to initialize database repository: %v", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			appLogger.Error(ctx, err, "Error closing database repository")
		}
	}()

	// 4. Initialize Data Provider
	var provider ports.BarProvider
	switch cfg.DataProvider {
	case config.ProviderBinance:
		provider, err = binancedata.New(binancedata.Config{
			APIKey:    cfg.APIKey,
			SecretKey: cfg.SecretKey,
			Logger:    appLogger,
		})
	default:
		provider, err = synthetic.New(appLogger)
	}
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to initialize data provider")
		log.Fatalf("FATAL: Failed to initialize data provider: %v", err)
	}
	appLogger.Info(ctx, "Data provider initialized", map[string]interface{}{"provider": cfg.DataProvider})

	// 5. Initialize Application Service
	service, err := app.NewBacktestService(appLogger, provider, repo)
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to initialize backtest service")
		log.Fatalf("FATAL: Failed to initialize backtest service: %v", err)
	}

	// 6. Resolve the strategy rules and run
	rules, err := resolveRules(cfg)
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Invalid strategy configuration")
		log.Fatalf("FATAL: Invalid strategy configuration: %v", err)
	}

	end := time.Now().UTC().Truncate(24 * time.Hour)
	result, err := service.Run(ctx, app.Request{
		Symbol:         cfg.Symbol,
		StartDate:      end.AddDate(0, -cfg.MonthsBack, 0),
		EndDate:        end,
		InitialCapital: cfg.InitialCapital,
		Rules:          rules,
	})
	if err != nil {
		appLogger.Error(ctx, err, "Backtest failed")
		os.Exit(1)
	}

	printReport(result)
}

// resolveRules builds the rule set for the configured run: the named
// template (or the catalog default), with env overrides applied on top.
func resolveRules(cfg *config.Config) (domain.RuleSet, error) {
	tmpl := templates.Default()
	if cfg.Template != "" {
		found, ok := templates.Find(cfg.Template)
		if !ok {
			return domain.RuleSet{}, fmt.Errorf("unknown strategy template %q", cfg.Template)
		}
		tmpl = found
	}
	rules := tmpl.Rules

	rules.PositionSizePercent = cfg.PositionSizePercent
	rules.MaxPositions = cfg.MaxPositions
	for i := range rules.EntryRules {
		if rules.EntryRules[i].Indicator == domain.IndicatorRSI {
			rules.EntryRules[i].Period = cfg.RSIPeriod
			if rules.EntryRules[i].Operator == domain.OpLessThan {
				rules.EntryRules[i].Value = cfg.RSIOversold
			}
		}
	}
	for i := range rules.ExitRules {
		switch rules.ExitRules[i].Type {
		case domain.ExitTakeProfit:
			if cfg.TakeProfitPercent > 0 {
				rules.ExitRules[i].Value = cfg.TakeProfitPercent
			}
		case domain.ExitStopLoss:
			if cfg.StopLossPercent > 0 {
				rules.ExitRules[i].Value = cfg.StopLossPercent
			}
		}
	}
	return rules, nil
}

func printReport(result *domain.Result) {
	fmt.Println()
	fmt.Println("=== Backtest Report ===")
	fmt.Printf("Symbol:          %s\n", result.Config.Symbol)
	fmt.Printf("Period:          %s to %s\n",
		result.Config.StartDate.Format("2006-01-02"),
		result.Config.EndDate.Format("2006-01-02"))
	fmt.Printf("Capital:         %.2f -> %.2f\n", result.Capital.Initial, result.Capital.Final)
	fmt.Printf("Total Return:    %.2f (%.2f%%)\n",
		result.Performance.TotalReturn, result.Performance.TotalReturnPercent)
	fmt.Printf("Annualized:      %.2f%%\n", result.Performance.AnnualizedReturn)
	fmt.Printf("Sharpe Ratio:    %.2f\n", result.Performance.SharpeRatio)
	fmt.Printf("Max Drawdown:    %.2f (%.2f%%)\n",
		result.Performance.MaxDrawdown, result.Performance.MaxDrawdownPercent)
	fmt.Printf("Trades:          %d (W:%d / L:%d, win rate %.1f%%)\n",
		result.Statistics.TotalTrades, result.Statistics.WinningTrades,
		result.Statistics.LosingTrades, result.Statistics.WinRate)
	if result.Statistics.ProfitFactor != nil {
		fmt.Printf("Profit Factor:   %.2f\n", *result.Statistics.ProfitFactor)
	} else {
		fmt.Printf("Profit Factor:   N/A\n")
	}
	fmt.Println()
	for _, t := range result.TradeHistory {
		fmt.Printf("  %s %-5s qty %-5d entry %.2f @ %s  exit %.2f @ %s  pnl %+.2f (%s)\n",
			t.Symbol, t.Side, t.Quantity,
			t.EntryPrice, t.EntryDate.Format("2006-01-02"),
			*t.ExitPrice, t.ExitDate.Format("2006-01-02"),
			*t.PNL, t.ExitReason)
	}
}
