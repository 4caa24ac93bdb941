package reachability

import "time"

// Reporter receives progress callbacks from an exploration run. It keeps
// diagnostics out of the search loop: the explorer calls it, the caller
// decides what to do with counts and states. Implementations must be
// safe for concurrent use when the explorer runs with multiple workers.
type Reporter interface {
	// Discovered is called once per newly claimed marking with the
	// running state count.
	Discovered(m Marking, total int)
	// Done is called once when exploration terminates.
	Done(total int, elapsed time.Duration)
}

type nopReporter struct{}

func (nopReporter) Discovered(Marking, int) {}
func (nopReporter) Done(int, time.Duration) {}

// ReporterFunc adapts a per-state callback into a Reporter.
type ReporterFunc func(m Marking, total int)

func (f ReporterFunc) Discovered(m Marking, total int) { f(m, total) }

func (f ReporterFunc) Done(int, time.Duration) {}
