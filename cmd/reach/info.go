package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/reachlab/go-reach/petri"
	"github.com/reachlab/go-reach/pnml"
	"github.com/reachlab/go-reach/reachability"
)

func info(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: reach info <model.pnml>

Show the structure of a PNML net without exploring it.
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("model file required")
	}

	// Lenient here: info should describe whatever is in the file.
	net, err := pnml.Load(fs.Arg(0),
		petri.WithMode(petri.Lenient), petri.AllowSourceTransitions())
	if err != nil {
		return err
	}

	fmt.Printf("Net:         %s\n", net.Name())
	fmt.Printf("Places:      %d\n", net.PlaceCount())
	fmt.Printf("Transitions: %d\n", len(net.Transitions()))
	fmt.Printf("Arcs:        %d\n", net.ArcCount())
	if skips := net.Skips(); len(skips) > 0 {
		fmt.Printf("Skipped:     %d malformed arc(s)\n", len(skips))
	}

	initial := reachability.InitialMarking(net)
	fmt.Printf("Initial:     %s", initial)
	if marked := initial.MarkedPlaces(net); len(marked) > 0 {
		fmt.Printf("  %v", marked)
	}
	fmt.Println()
	return nil
}
