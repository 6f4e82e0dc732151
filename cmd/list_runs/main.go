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
	"stockBacktester/internal/adapters/sqlite"
)

// Lists stored backtest runs from the results database, optionally with
// the trade history of a single run.
func main() {
	var (
		symbol = flag.String("symbol", "", "filter runs by symbol (empty for all)")
		limit  = flag.Int("limit", 20, "maximum number of runs to list")
		runID  = flag.Int64("run", 0, "print the trade history of this run ID instead")
	)
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	appLogger := logger.NewStdLogger(cfg.LogLevel)
	ctx := context.Background()

	repo, err := sqlite.NewRepository(sqlite.Config{
		DBPath: cfg.DBPath,
		Logger: appLogger,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to open results database: %v", err)
	}
	defer repo.Close()

	if *runID > 0 {
		printTrades(ctx, repo, *runID)
		return
	}

	summaries, err := repo.FindRuns(ctx, *symbol, *limit)
	if err != nil {
		log.Fatalf("Error listing runs: %v", err)
	}
	if len(summaries) == 0 {
		fmt.Println("No stored runs found.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight|tabwriter.Debug)
	fmt.Fprintln(w, "ID\tSymbol\tStart\tEnd\tTrades\tReturn%\tCreated\t")
	for _, s := range summaries {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%.2f\t%s\t\n",
			s.ID,
			s.Symbol,
			s.StartDate.Format("2006-01-02"),
			s.EndDate.Format("2006-01-02"),
			s.TotalTrades,
			s.TotalReturnPercent,
			s.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	w.Flush()
}

func printTrades(ctx context.Context, repo *sqlite.Repository, runID int64) {
	trades, err := repo.FindTrades(ctx, runID)
	if err != nil {
		log.Fatalf("Error loading trades for run %d: %v", runID, err)
	}
	if len(trades) == 0 {
		fmt.Printf("No trades recorded for run %d.\n", runID)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight|tabwriter.Debug)
	fmt.Fprintln(w, "Symbol\tSide\tQty\tEntry\tEntryDate\tExit\tExitDate\tPnL\tPnL%\tReason\t")
	for _, t := range trades {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%s\t%.2f\t%s\t%+.2f\t%+.2f\t%s\t\n",
			t.Symbol,
			t.Side,
			t.Quantity,
			t.EntryPrice,
			t.EntryDate.Format("2006-01-02"),
			*t.ExitPrice,
			t.ExitDate.Format("2006-01-02"),
			*t.PNL,
			*t.PNLPercent,
			t.ExitReason,
		)
	}
	w.Flush()
}
