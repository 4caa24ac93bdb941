package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "explore":
		if err := explore(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "validate":
		if err := validate(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "info":
		if err := info(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "runs":
		if err := runs(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Println("reach version 1.0.0")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`reach - 1-safe Petri net reachability explorer

Usage:
  reach <command> [options]

Commands:
  explore    Compute the reachable marking set of a PNML net
  validate   Check the structure of a PNML net
  info       Show place/transition/arc counts of a PNML net
  runs       List or inspect explorations saved with --db
  help       Show this help message
  version    Show version information

Examples:
  # Enumerate all reachable markings
  reach explore model.pnml

  # Bounded run with four workers, saved for later inspection
  reach explore model.pnml --max-states 100000 --workers 4 --db runs.db

  # Structural check, tolerating malformed arcs
  reach validate model.pnml --lenient

  # Inspect a saved run
  reach runs --db runs.db --show <run-id>

For command-specific help, run:
  reach <command> --help`)
}
