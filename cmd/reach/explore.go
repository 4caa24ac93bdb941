package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/reachlab/go-reach/petri"
	"github.com/reachlab/go-reach/pnml"
	"github.com/reachlab/go-reach/reachability"
	"github.com/reachlab/go-reach/store"
)

func explore(args []string) error {
	fs := flag.NewFlagSet("explore", flag.ExitOnError)
	maxStates := fs.Int("max-states", 0, "Stop after this many states (0 = unbounded)")
	workers := fs.Int("workers", 1, "Number of concurrent workers")
	dfs := fs.Bool("dfs", false, "Explore depth-first instead of breadth-first")
	lenient := fs.Bool("lenient", false, "Skip malformed arcs instead of failing")
	allowSource := fs.Bool("allow-source", false, "Accept transitions with no input places")
	printStates := fs.Bool("print", false, "Print every reachable marking")
	dbPath := fs.String("db", "", "Save the run to this SQLite database")
	progress := fs.Int("progress", 100000, "Log progress every N states (0 = silent)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: reach explore <model.pnml> [options]

Compute the full reachable marking set of a 1-safe Petri net.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Full exploration with a state listing
  reach explore model.pnml --print

  # Bounded parallel run, persisted
  reach explore model.pnml --workers 8 --max-states 1000000 --db runs.db
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("model file required")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	net, err := loadNet(fs.Arg(0), *lenient, *allowSource)
	if err != nil {
		return err
	}
	for _, skip := range net.Skips() {
		logger.Warn("skipped malformed arc",
			zap.String("arc", skip.Arc),
			zap.String("source", skip.Source),
			zap.String("target", skip.Target),
			zap.Error(skip.Reason))
	}
	logger.Info("loaded net",
		zap.String("net", net.Name()),
		zap.Int("places", net.PlaceCount()),
		zap.Int("transitions", len(net.Transitions())),
		zap.Int("arcs", net.ArcCount()))

	ex := reachability.NewExplorer(net).
		WithMaxStates(*maxStates).
		WithWorkers(*workers)
	if *dfs {
		ex = ex.WithStrategy(reachability.DFS)
	}
	if *progress > 0 {
		ex = ex.WithReporter(&progressReporter{logger: logger, every: *progress})
	}

	res, err := ex.Explore()
	if err != nil {
		return fmt.Errorf("explore: %w", err)
	}

	printResult(net, res, *printStates)

	if *dbPath != "" {
		db, err := store.Open(*dbPath)
		if err != nil {
			return err
		}
		defer db.Close()
		id, err := db.SaveRun(net, res)
		if err != nil {
			return err
		}
		logger.Info("saved run", zap.String("db", *dbPath), zap.String("run", id))
		fmt.Printf("\nSaved as run %s\n", id)
	}
	return nil
}

func loadNet(path string, lenient, allowSource bool) (*petri.Net, error) {
	opts := []petri.Option{}
	if lenient {
		opts = append(opts, petri.WithMode(petri.Lenient))
	}
	if allowSource {
		opts = append(opts, petri.AllowSourceTransitions())
	}
	net, err := pnml.Load(path, opts...)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return net, nil
}

func printResult(net *petri.Net, res *reachability.Result, printStates bool) {
	fmt.Printf("=== Reachability: %s ===\n\n", net.Name())
	fmt.Printf("Strategy: %s, workers: %d\n", res.Strategy, res.Workers)
	fmt.Printf("Reachable markings: %d", res.StateCount)
	if res.Truncated {
		fmt.Printf(" (partial: %s)", res.TruncateMsg)
	}
	fmt.Printf("\nElapsed: %s\n", res.Elapsed.Round(time.Microsecond))

	if !printStates {
		return
	}
	fmt.Printf("\nPlace order: %v\n", placeOrder(net))
	for _, m := range res.Markings {
		fmt.Println(m)
	}
}

func placeOrder(net *petri.Net) []string {
	ids := make([]string, net.PlaceCount())
	for i := range ids {
		ids[i] = net.PlaceID(i)
	}
	return ids
}

// progressReporter logs the running state count at a fixed interval.
// Discovered may be called from several workers at once, but a stale or
// repeated count in a log line is harmless, so it takes no lock.
type progressReporter struct {
	logger *zap.Logger
	every  int
}

func (r *progressReporter) Discovered(_ reachability.Marking, total int) {
	if total%r.every == 0 {
		r.logger.Info("exploring", zap.Int("states", total))
	}
}

func (r *progressReporter) Done(total int, elapsed time.Duration) {
	r.logger.Info("exploration finished",
		zap.Int("states", total),
		zap.Duration("elapsed", elapsed))
}
