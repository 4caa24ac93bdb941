package reachability

import (
	"errors"
	"sync"
	"time"

	"github.com/reachlab/go-reach/petri"
)

// Strategy selects the frontier discipline. Both strategies produce the
// same final reachable set; only the discovery order differs.
type Strategy int

const (
	// BFS expands markings in breadth-first (FIFO) order.
	BFS Strategy = iota
	// DFS expands markings in depth-first (LIFO) order.
	DFS
)

func (s Strategy) String() string {
	if s == DFS {
		return "dfs"
	}
	return "bfs"
}

// ErrNilNet is returned when an explorer is created without a net.
var ErrNilNet = errors.New("reachability: nil net")

// Explorer enumerates the reachable markings of a net. Configure it with
// the With* methods, then call Explore. The zero max-states means no
// cutoff; the state space is finite (at most 2^places markings), so
// exploration always terminates regardless of cycles in the net.
type Explorer struct {
	net       *petri.Net
	strategy  Strategy
	maxStates int
	workers   int
	reporter  Reporter
}

// NewExplorer creates an explorer over the given net.
func NewExplorer(net *petri.Net) *Explorer {
	return &Explorer{net: net, reporter: nopReporter{}}
}

// WithStrategy sets the traversal order. The default is BFS.
func (e *Explorer) WithStrategy(s Strategy) *Explorer {
	e.strategy = s
	return e
}

// WithMaxStates bounds the visited set. When the bound is hit the run
// stops and the result is flagged Truncated; the markings found so far
// are still a correct subset of the reachable set.
func (e *Explorer) WithMaxStates(n int) *Explorer {
	e.maxStates = n
	return e
}

// WithWorkers sets the number of concurrent workers. Values above one
// select the parallel explorer; the default is the single-threaded loop.
// The parallel explorer always uses FIFO order but does not guarantee a
// deterministic discovery sequence.
func (e *Explorer) WithWorkers(n int) *Explorer {
	e.workers = n
	return e
}

// WithReporter installs a progress reporter. The default discards all
// callbacks.
func (e *Explorer) WithReporter(r Reporter) *Explorer {
	if r == nil {
		r = nopReporter{}
	}
	e.reporter = r
	return e
}

// Result is the frozen outcome of one exploration run. Markings holds
// every reachable marking in discovery order, the initial marking first.
type Result struct {
	Markings    []Marking
	StateCount  int
	Truncated   bool
	TruncateMsg string
	Strategy    Strategy
	Workers     int
	MaxStates   int
	Elapsed     time.Duration

	seen map[string]struct{}
}

// Contains reports whether the marking was discovered in this run.
func (r *Result) Contains(m Marking) bool {
	_, ok := r.seen[m.Key()]
	return ok
}

// Keys returns the set of marking keys, useful for comparing runs.
func (r *Result) Keys() map[string]struct{} {
	keys := make(map[string]struct{}, len(r.seen))
	for k := range r.seen {
		keys[k] = struct{}{}
	}
	return keys
}

// visited is the deduplicating state set shared by the serial and
// parallel explorers. claim is the single point where a marking becomes
// part of the result: exactly one caller wins each distinct marking.
type visited struct {
	mu        sync.Mutex
	limit     int
	seen      map[string]struct{}
	order     []Marking
	truncated bool
}

func newVisited(limit int) *visited {
	return &visited{limit: limit, seen: make(map[string]struct{})}
}

// claim inserts the marking if absent and under the state limit. It
// returns true iff the caller claimed a newly discovered marking.
func (v *visited) claim(m Marking) bool {
	key := m.Key()
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.seen[key]; ok {
		return false
	}
	if v.limit > 0 && len(v.order) >= v.limit {
		v.truncated = true
		return false
	}
	v.seen[key] = struct{}{}
	v.order = append(v.order, m)
	return true
}

func (v *visited) count() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.order)
}

func (v *visited) result(strategy Strategy, workers int, elapsed time.Duration) *Result {
	res := &Result{
		Markings:   v.order,
		StateCount: len(v.order),
		Strategy:   strategy,
		Workers:    workers,
		MaxStates:  v.limit,
		Elapsed:    elapsed,
		seen:       v.seen,
	}
	if v.truncated {
		res.Truncated = true
		res.TruncateMsg = "state limit reached"
	}
	return res
}

// Explore runs the search to exhaustion (or to the state limit) and
// returns the reachable set. The result always contains the initial
// marking and is never empty.
func (e *Explorer) Explore() (*Result, error) {
	if e.net == nil {
		return nil, ErrNilNet
	}
	if e.workers > 1 {
		return e.exploreParallel()
	}

	start := time.Now()
	set := newVisited(e.maxStates)
	initial := InitialMarking(e.net)
	set.claim(initial)
	e.reporter.Discovered(initial, 1)

	frontier := []Marking{initial}
	trans := e.net.Transitions()

	for len(frontier) > 0 {
		var m Marking
		if e.strategy == DFS {
			m = frontier[len(frontier)-1]
			frontier = frontier[:len(frontier)-1]
		} else {
			m = frontier[0]
			frontier = frontier[1:]
		}

		for i := range trans {
			t := &trans[i]
			if !Enabled(m, t) {
				continue
			}
			next := Fire(m, t)
			if !set.claim(next) {
				continue
			}
			frontier = append(frontier, next)
			e.reporter.Discovered(next, set.count())
		}
		if set.truncated {
			break
		}
	}

	res := set.result(e.strategy, 1, time.Since(start))
	e.reporter.Done(res.StateCount, res.Elapsed)
	return res, nil
}
