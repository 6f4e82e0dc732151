package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"stockBacktester/internal/adapters/logger"
)

// Data provider selection values.
const (
	ProviderSynthetic = "synthetic"
	ProviderBinance   = "binance"
)

// Config holds all application configuration.
type Config struct {
	// Backtest Parameters
	Symbol         string
	MonthsBack     int     // Lookback window for the default run
	InitialCapital float64 // Starting cash

	// Strategy Parameters
	Template            string  // Named rule template; empty uses the catalog default
	PositionSizePercent float64 // Percent of cash committed per entry
	MaxPositions        int     // Max simultaneously open positions
	TakeProfitPercent   float64 // Overrides the template's take_profit when > 0
	StopLossPercent     float64 // Overrides the template's stop_loss when > 0
	RSIPeriod           int
	RSIOversold         float64

	// Data Provider
	DataProvider string // "synthetic" or "binance"
	APIKey       string
	SecretKey    string

	// Database
	DBPath string

	// Logging
	LogLevel logger.LogLevel
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var err error
	var errs []string // Collect validation errors

	// Backtest Parameters
	cfg.Symbol = getEnv("SYMBOL", "AAPL")
	if cfg.Symbol == "" {
		errs = append(errs, "SYMBOL must be set")
	}

	cfg.MonthsBack, err = getEnvAsIntRequired("MONTHS_BACK", 12)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid MONTHS_BACK: %v", err))
	} else if cfg.MonthsBack <= 0 || cfg.MonthsBack > 60 {
		errs = append(errs, "MONTHS_BACK must be between 1 and 60")
	}

	cfg.InitialCapital, err = getEnvAsFloatRequired("INITIAL_CAPITAL", 10000.0)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid INITIAL_CAPITAL: %v", err))
	} else if cfg.InitialCapital <= 0 {
		errs = append(errs, "INITIAL_CAPITAL must be positive")
	}

	// Strategy Parameters
	cfg.Template = getEnv("STRATEGY_TEMPLATE", "")

	cfg.PositionSizePercent, err = getEnvAsFloatRequired("POSITION_SIZE_PERCENT", 10.0)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid POSITION_SIZE_PERCENT: %v", err))
	} else if cfg.PositionSizePercent <= 0 || cfg.PositionSizePercent > 100 {
		errs = append(errs, "POSITION_SIZE_PERCENT must be between 0 and 100")
	}

	cfg.MaxPositions, err = getEnvAsIntRequired("MAX_POSITIONS", 1)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid MAX_POSITIONS: %v", err))
	} else if cfg.MaxPositions <= 0 {
		errs = append(errs, "MAX_POSITIONS must be positive")
	}

	cfg.TakeProfitPercent = getEnvAsFloat("TAKE_PROFIT_PERCENT", 0)
	cfg.StopLossPercent = getEnvAsFloat("STOP_LOSS_PERCENT", 0)
	if cfg.TakeProfitPercent < 0 {
		errs = append(errs, "TAKE_PROFIT_PERCENT cannot be negative")
	}
	if cfg.StopLossPercent < 0 {
		errs = append(errs, "STOP_LOSS_PERCENT cannot be negative")
	}

	cfg.RSIPeriod = getEnvAsInt("RSI_PERIOD", 14)
	cfg.RSIOversold = getEnvAsFloat("RSI_OVERSOLD", 30.0)
	if cfg.RSIPeriod <= 0 {
		errs = append(errs, "RSI_PERIOD must be positive")
	}
	if cfg.RSIOversold < 0 || cfg.RSIOversold > 100 {
		errs = append(errs, "RSI_OVERSOLD must be between 0 and 100")
	}

	// Data Provider
	cfg.DataProvider = strings.ToLower(getEnv("DATA_PROVIDER", ProviderSynthetic))
	if cfg.DataProvider != ProviderSynthetic && cfg.DataProvider != ProviderBinance {
		errs = append(errs, fmt.Sprintf("DATA_PROVIDER must be %q or %q", ProviderSynthetic, ProviderBinance))
	}
	cfg.APIKey = getEnv("BINANCE_API_KEY", "")
	cfg.SecretKey = getEnv("BINANCE_API_SECRET", "")

	// Database
	cfg.DBPath = getEnv("DB_PATH", "./data/backtests.db")
	if cfg.DBPath == "" {
		errs = append(errs, "DB_PATH must be set")
	}

	// Logging
	logLevelStr := getEnv("LOG_LEVEL", "INFO")
	cfg.LogLevel = logger.ParseLevel(logLevelStr)

	// Combine validation errors
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsIntRequired(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		// Use default if env var is not set at all
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		// Return error if env var is set but invalid
		return 0, fmt.Errorf("invalid integer value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloatRequired(key string, defaultValue float64) (float64, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}
