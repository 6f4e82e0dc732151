package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"stockBacktester/config"
	"stockBacktester/internal/adapters/binancedata"
	"stockBacktester/internal/adapters/logger"
	"stockBacktester/internal/utils"
)

// Fetches daily bars for the configured symbol and writes them to a CSV
// file that cmd/backtest_runner can replay offline.
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

	// 3. Initialize Data Provider
	provider, err := binancedata.New(binancedata.Config{
		APIKey:    cfg.APIKey,
		SecretKey: cfg.SecretKey,
		Logger:    appLogger,
	})
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to initialize data provider")
		log.Fatalf("FATAL: Failed to initialize data provider: %v", err)
	}

	end := time.Now().UTC().Truncate(24 * time.Hour)
	start := end.AddDate(0, -cfg.MonthsBack, 0)

	fmt.Printf("Fetching daily bars for %s from %s to %s...\n",
		cfg.Symbol, start.Format("2006-01-02"), end.Format("2006-01-02"))
	bars, err := provider.GetDailyBars(ctx, cfg.Symbol, start, end)
	if err != nil {
		appLogger.Error(ctx, err, "Error fetching bars")
		log.Fatalf("Error fetching bars: %v", err)
	}
	appLogger.Info(ctx, "Fetched bars", map[string]interface{}{"count": len(bars)})

	if err := os.MkdirAll("data", 0755); err != nil {
		log.Fatalf("Error creating data directory: %v", err)
	}
	filename := fmt.Sprintf("data/%s_1d_%s_to_%s.csv",
		cfg.Symbol, start.Format("20060102"), end.Format("20060102"))
	if err := utils.WriteBarsToCSV(bars, filename); err != nil {
		appLogger.Error(ctx, err, "Error writing CSV")
		log.Fatalf("Error writing CSV: %v", err)
	}
	appLogger.Info(ctx, "Saved bars", map[string]interface{}{"filename": filename})
}
