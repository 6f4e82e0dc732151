package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"stockBacktester/internal/domain"
	"stockBacktester/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Repository implements the ports.RunRepository interface using SQLite.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository creates a new SQLite repository instance.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/backtests.db" // Default path
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// WAL mode for better concurrency between parallel backtest runs.
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		err = fmt.Errorf("%w: failed to open database at '%s': %v", ports.ErrDBConnection, dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("%w: failed to ping database at '%s': %v", ports.ErrDBConnection, dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// SQLite handles concurrency internally; the Go driver benefits from
	// limiting connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	repo := &Repository{db: db, logger: cfg.Logger}
	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}
	cfg.Logger.Info(context.Background(), "SQLite run repository ready", map[string]interface{}{"path": dbPath})

	return repo, nil
}

func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS backtest_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		start_date TIMESTAMP NOT NULL,
		end_date TIMESTAMP NOT NULL,
		initial_capital REAL NOT NULL,
		final_capital REAL NOT NULL,
		total_trades INTEGER NOT NULL,
		winning_trades INTEGER NOT NULL,
		losing_trades INTEGER NOT NULL,
		win_rate REAL NOT NULL,
		profit_factor REAL DEFAULT NULL,
		total_return REAL NOT NULL,
		total_return_percent REAL NOT NULL,
		annualized_return REAL NOT NULL,
		sharpe_ratio REAL NOT NULL,
		max_drawdown REAL NOT NULL,
		max_drawdown_percent REAL NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS backtest_trades (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL,
		symbol TEXT NOT NULL,
		side TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		entry_price REAL NOT NULL,
		exit_price REAL NOT NULL,
		pnl REAL NOT NULL,
		pnl_percent REAL NOT NULL,
		entry_date TIMESTAMP NOT NULL,
		exit_date TIMESTAMP NOT NULL,
		exit_reason TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_backtest_runs_symbol_created ON backtest_runs (symbol, created_at);
	CREATE INDEX IF NOT EXISTS idx_backtest_trades_run ON backtest_trades (run_id, entry_date);
	`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("%w: %v", ports.ErrQueryFailed, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// SaveRun persists a finished run and its closed trades in one
// transaction and returns the assigned run ID.
func (r *Repository) SaveRun(ctx context.Context, result *domain.Result) (int64, error) {
	if result == nil {
		return 0, fmt.Errorf("%w: result must not be nil", ports.ErrInvalidRequest)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to begin transaction: %v", ports.ErrQueryFailed, err)
	}
	defer tx.Rollback()

	var profitFactor sql.NullFloat64
	if result.Statistics.ProfitFactor != nil {
		profitFactor = sql.NullFloat64{Float64: *result.Statistics.ProfitFactor, Valid: true}
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO backtest_runs (
			symbol, start_date, end_date, initial_capital, final_capital,
			total_trades, winning_trades, losing_trades, win_rate, profit_factor,
			total_return, total_return_percent, annualized_return,
			sharpe_ratio, max_drawdown, max_drawdown_percent, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.Config.Symbol,
		result.Config.StartDate,
		result.Config.EndDate,
		result.Capital.Initial,
		result.Capital.Final,
		result.Statistics.TotalTrades,
		result.Statistics.WinningTrades,
		result.Statistics.LosingTrades,
		result.Statistics.WinRate,
		profitFactor,
		result.Performance.TotalReturn,
		result.Performance.TotalReturnPercent,
		result.Performance.AnnualizedReturn,
		result.Performance.SharpeRatio,
		result.Performance.MaxDrawdown,
		result.Performance.MaxDrawdownPercent,
		time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to insert run: %v", ports.ErrQueryFailed, err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: failed to read run ID: %v", ports.ErrQueryFailed, err)
	}

	for _, trade := range result.TradeHistory {
		if trade.ExitDate == nil || trade.ExitPrice == nil || trade.PNL == nil || trade.PNLPercent == nil {
			return 0, fmt.Errorf("%w: trade history contains an open trade", ports.ErrInvalidRequest)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO backtest_trades (
				run_id, symbol, side, quantity, entry_price, exit_price,
				pnl, pnl_percent, entry_date, exit_date, exit_reason
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID,
			trade.Symbol,
			string(trade.Side),
			trade.Quantity,
			trade.EntryPrice,
			*trade.ExitPrice,
			*trade.PNL,
			*trade.PNLPercent,
			trade.EntryDate,
			*trade.ExitDate,
			string(trade.ExitReason),
		); err != nil {
			return 0, fmt.Errorf("%w: failed to insert trade: %v", ports.ErrQueryFailed, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: failed to commit run: %v", ports.ErrQueryFailed, err)
	}
	return runID, nil
}

// FindRuns retrieves the most recent stored runs for a symbol, up to a
// limit. An empty symbol matches all runs.
func (r *Repository) FindRuns(ctx context.Context, symbol string, limit int) ([]*domain.RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, symbol, start_date, end_date, total_trades, total_return_percent, created_at
		FROM backtest_runs`
	args := []interface{}{}
	if symbol != "" {
		query += " WHERE symbol = ?"
		args = append(args, symbol)
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query runs: %v", ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	var summaries []*domain.RunSummary
	for rows.Next() {
		s := &domain.RunSummary{}
		if err := rows.Scan(&s.ID, &s.Symbol, &s.StartDate, &s.EndDate, &s.TotalTrades, &s.TotalReturnPercent, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: failed to scan run row: %v", ports.ErrQueryFailed, err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: run row iteration failed: %v", ports.ErrQueryFailed, err)
	}
	return summaries, nil
}

// FindTrades retrieves the closed trades recorded for a stored run,
// ordered by entry date.
func (r *Repository) FindTrades(ctx context.Context, runID int64) ([]*domain.Trade, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT symbol, side, quantity, entry_price, exit_price,
		       pnl, pnl_percent, entry_date, exit_date, exit_reason
		FROM backtest_trades
		WHERE run_id = ?
		ORDER BY entry_date ASC, id ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query trades: %v", ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	var trades []*domain.Trade
	for rows.Next() {
		var (
			trade      domain.Trade
			side       string
			exitPrice  float64
			pnl        float64
			pnlPercent float64
			exitDate   time.Time
			exitReason string
		)
		if err := rows.Scan(&trade.Symbol, &side, &trade.Quantity, &trade.EntryPrice,
			&exitPrice, &pnl, &pnlPercent, &trade.EntryDate, &exitDate, &exitReason); err != nil {
			return nil, fmt.Errorf("%w: failed to scan trade row: %v", ports.ErrQueryFailed, err)
		}
		trade.Side = domain.Side(side)
		trade.ExitPrice = &exitPrice
		trade.PNL = &pnl
		trade.PNLPercent = &pnlPercent
		trade.ExitDate = &exitDate
		trade.Status = domain.StatusClosed
		trade.ExitReason = domain.ExitReason(exitReason)
		trades = append(trades, &trade)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: trade row iteration failed: %v", ports.ErrQueryFailed, err)
	}
	return trades, nil
}
