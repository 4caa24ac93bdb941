package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/reachlab/go-reach/store"
)

func runs(args []string) error {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	dbPath := fs.String("db", "", "SQLite database written by 'reach explore --db'")
	show := fs.String("show", "", "Print the markings of this run id")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: reach runs --db <runs.db> [options]

List saved explorations, or print one run's markings with --show.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dbPath == "" {
		fs.Usage()
		return fmt.Errorf("--db required")
	}

	db, err := store.Open(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if *show != "" {
		return showRun(db, *show)
	}

	list, err := db.ListRuns()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}
	for _, r := range list {
		status := "complete"
		if r.Truncated {
			status = "partial"
		}
		fmt.Printf("%s  %-20s %8d states  %-8s %s  %s\n",
			r.ID, r.Net, r.StateCount, status, r.Strategy,
			r.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func showRun(db *store.Store, id string) error {
	run, err := db.GetRun(id)
	if err != nil {
		return err
	}
	markings, err := db.Markings(id)
	if err != nil {
		return err
	}

	fmt.Printf("Run %s: net %q, %d states", run.ID, run.Net, run.StateCount)
	if run.Truncated {
		fmt.Printf(" (partial)")
	}
	fmt.Printf("\nPlace order: %v\n\n", run.Places)
	for _, bits := range markings {
		fmt.Println(bits)
	}
	return nil
}
