package reachability

import (
	"testing"

	"github.com/reachlab/go-reach/petri"
)

func mustNet(t *testing.T, b *petri.Builder, opts ...petri.Option) *petri.Net {
	t.Helper()
	net, err := b.Done(opts...)
	if err != nil {
		t.Fatalf("building net: %v", err)
	}
	return net
}

// handoffNet moves a single token from p1 to p2.
func handoffNet(t *testing.T) *petri.Net {
	return mustNet(t, petri.Build("handoff").
		Place("p1", true).
		Place("p2", false).
		Transition("t1").
		Flow("p1", "t1", "p2"))
}

// branchNet lets the p1 token go to either p2 or p3.
func branchNet(t *testing.T) *petri.Net {
	return mustNet(t, petri.Build("branch").
		Place("p1", true).
		Place("p2", false).
		Place("p3", false).
		Transition("t1").
		Transition("t2").
		Flow("p1", "t1", "p2").
		Flow("p1", "t2", "p3"))
}

// cycleNet shuttles the token between p1 and p2 forever.
func cycleNet(t *testing.T) *petri.Net {
	return mustNet(t, petri.Build("cycle").
		Place("p1", true).
		Place("p2", false).
		Transition("t1").
		Transition("t2").
		Flow("p1", "t1", "p2").
		Flow("p2", "t2", "p1"))
}

func explore(t *testing.T, net *petri.Net) *Result {
	t.Helper()
	res, err := NewExplorer(net).Explore()
	if err != nil {
		t.Fatalf("explore: %v", err)
	}
	return res
}

func wantSet(t *testing.T, res *Result, want ...Marking) {
	t.Helper()
	if res.StateCount != len(want) {
		t.Fatalf("state count = %d, want %d", res.StateCount, len(want))
	}
	for _, m := range want {
		if !res.Contains(m) {
			t.Errorf("reachable set missing %s", m)
		}
	}
}

func TestHandoff(t *testing.T) {
	res := explore(t, handoffNet(t))
	wantSet(t, res, MarkingOf(1, 0), MarkingOf(0, 1))
}

func TestBranching(t *testing.T) {
	// Two successors of the initial marking, no interference between them.
	res := explore(t, branchNet(t))
	wantSet(t, res, MarkingOf(1, 0, 0), MarkingOf(0, 1, 0), MarkingOf(0, 0, 1))
}

func TestCycleTerminates(t *testing.T) {
	res := explore(t, cycleNet(t))
	wantSet(t, res, MarkingOf(1, 0), MarkingOf(0, 1))
}

func TestResultContainsInitial(t *testing.T) {
	for _, net := range []*petri.Net{handoffNet(t), branchNet(t), cycleNet(t)} {
		res := explore(t, net)
		if res.StateCount == 0 {
			t.Fatal("reachable set is empty")
		}
		initial := InitialMarking(net)
		if !res.Contains(initial) {
			t.Errorf("%s: reachable set missing initial marking", net.Name())
		}
		if !res.Markings[0].Equal(initial) {
			t.Errorf("%s: first discovered marking is not the initial one", net.Name())
		}
	}
}

func TestBFSDiscoveryOrder(t *testing.T) {
	// Breadth-first from (1,0,0): both depth-1 successors precede nothing
	// deeper; with transitions expanded in sorted id order the sequence
	// is fully deterministic.
	res := explore(t, branchNet(t))
	want := []Marking{MarkingOf(1, 0, 0), MarkingOf(0, 1, 0), MarkingOf(0, 0, 1)}
	for i, m := range want {
		if !res.Markings[i].Equal(m) {
			t.Errorf("discovery[%d] = %s, want %s", i, res.Markings[i], m)
		}
	}
}

func TestDFSYieldsSameSet(t *testing.T) {
	net := mustNet(t, petri.Build("chain").
		Place("p1", true).
		Place("p2", false).
		Place("p3", false).
		Place("p4", false).
		Transition("t1").
		Transition("t2").
		Transition("t3").
		Transition("t4").
		Flow("p1", "t1", "p2").
		Flow("p1", "t2", "p3").
		Flow("p2", "t3", "p4").
		Flow("p3", "t4", "p4"))

	bfs := explore(t, net)
	dfs, err := NewExplorer(net).WithStrategy(DFS).Explore()
	if err != nil {
		t.Fatalf("dfs explore: %v", err)
	}

	if bfs.StateCount != dfs.StateCount {
		t.Fatalf("bfs found %d states, dfs %d", bfs.StateCount, dfs.StateCount)
	}
	for _, m := range bfs.Markings {
		if !dfs.Contains(m) {
			t.Errorf("dfs set missing %s", m)
		}
	}
}

func TestFireClearsInputsSetsOutputs(t *testing.T) {
	net := mustNet(t, petri.Build("join").
		Place("a", true).
		Place("b", true).
		Place("c", false).
		Transition("t").
		Arc("a", "t").
		Arc("b", "t").
		Arc("t", "c"))

	tr, _ := net.Transition("t")
	m := InitialMarking(net)
	if !Enabled(m, tr) {
		t.Fatal("t should be enabled with a and b marked")
	}
	next := Fire(m, tr)
	if !next.Equal(MarkingOf(0, 0, 1)) {
		t.Errorf("successor = %s, want 001", next)
	}
	// Fire is pure: the original marking is untouched.
	if !m.Equal(MarkingOf(1, 1, 0)) {
		t.Errorf("source marking mutated: %s", m)
	}
}

func TestFireSelfLoopEndsMarked(t *testing.T) {
	// p is both input and output of t: clear-before-set leaves it at 1.
	net := mustNet(t, petri.Build("selfloop").
		Place("p", true).
		Place("q", false).
		Transition("t").
		Arc("p", "t").
		Arc("t", "p").
		Arc("t", "q"))

	tr, _ := net.Transition("t")
	next := Fire(InitialMarking(net), tr)
	if !next.Equal(MarkingOf(1, 1)) {
		t.Errorf("successor = %s, want 11", next)
	}
}

func TestEnabledRequiresAllInputs(t *testing.T) {
	net := mustNet(t, petri.Build("join").
		Place("a", true).
		Place("b", false).
		Place("c", false).
		Transition("t").
		Arc("a", "t").
		Arc("b", "t").
		Arc("t", "c"))

	tr, _ := net.Transition("t")
	if Enabled(InitialMarking(net), tr) {
		t.Error("t enabled with b unmarked")
	}
}

func TestFiringIntoMarkedPlaceIsIdempotent(t *testing.T) {
	// Set semantics: t fires even though its output q is already marked,
	// and q stays at a single token.
	net := mustNet(t, petri.Build("setsem").
		Place("p", true).
		Place("q", true).
		Transition("t").
		Flow("p", "t", "q"))

	tr, _ := net.Transition("t")
	m := InitialMarking(net)
	if !Enabled(m, tr) {
		t.Fatal("t should be enabled: no output capacity check")
	}
	next := Fire(m, tr)
	if !next.Equal(MarkingOf(0, 1)) {
		t.Errorf("successor = %s, want 01", next)
	}
}

func TestSourceTransitionAlwaysEnabled(t *testing.T) {
	net := mustNet(t, petri.Build("source").
		Place("p", false).
		Transition("t").
		Arc("t", "p"),
		petri.AllowSourceTransitions())

	tr, _ := net.Transition("t")
	if !Enabled(InitialMarking(net), tr) {
		t.Fatal("inputless transition should be vacuously enabled")
	}
	res := explore(t, net)
	wantSet(t, res, MarkingOf(0), MarkingOf(1))
}

func TestMaxStatesTruncates(t *testing.T) {
	// 4 independent token shuttles: 16 reachable markings.
	b := petri.Build("wide")
	for _, s := range []string{"a", "b", "c", "d"} {
		b.Place(s+"0", true).Place(s+"1", false).
			Transition("t"+s).
			Flow(s+"0", "t"+s, s+"1")
	}
	net := mustNet(t, b)

	full := explore(t, net)
	if full.StateCount != 16 || full.Truncated {
		t.Fatalf("full run = %d states (truncated=%v), want 16", full.StateCount, full.Truncated)
	}

	part, err := NewExplorer(net).WithMaxStates(5).Explore()
	if err != nil {
		t.Fatalf("bounded explore: %v", err)
	}
	if !part.Truncated || part.TruncateMsg == "" {
		t.Fatal("bounded run not flagged as truncated")
	}
	if part.StateCount != 5 {
		t.Errorf("bounded run = %d states, want 5", part.StateCount)
	}
	// Partial results are a valid subset of the true reachable set.
	for _, m := range part.Markings {
		if !full.Contains(m) {
			t.Errorf("truncated run found unreachable marking %s", m)
		}
	}
}

func TestReporterSeesEveryState(t *testing.T) {
	net := branchNet(t)
	var seen []Marking
	_, err := NewExplorer(net).
		WithReporter(ReporterFunc(func(m Marking, total int) {
			seen = append(seen, m)
		})).
		Explore()
	if err != nil {
		t.Fatalf("explore: %v", err)
	}
	if len(seen) != 3 {
		t.Errorf("reporter saw %d states, want 3", len(seen))
	}
}

func TestNilNet(t *testing.T) {
	if _, err := NewExplorer(nil).Explore(); err != ErrNilNet {
		t.Fatalf("err = %v, want ErrNilNet", err)
	}
}

func TestMarkingKeyAndClone(t *testing.T) {
	m1 := MarkingOf(1, 0, 1)
	m2 := MarkingOf(1, 0, 1)
	m3 := MarkingOf(1, 1, 0)

	if m1.Key() != m2.Key() {
		t.Error("identical markings produced different keys")
	}
	if m1.Key() == m3.Key() {
		t.Error("distinct markings produced the same key")
	}

	c := m1.Clone()
	c.set(1)
	if m1.Test(1) {
		t.Error("mutating a clone changed the original")
	}
}

func TestMarkingBits(t *testing.T) {
	m := MarkingOf(1, 0, 1)
	bits := m.Bits()
	want := []int{1, 0, 1}
	for i := range want {
		if bits[i] != want[i] {
			t.Errorf("bits[%d] = %d, want %d", i, bits[i], want[i])
		}
	}
	if m.String() != "101" {
		t.Errorf("String() = %q, want 101", m.String())
	}
	if m.Count() != 2 {
		t.Errorf("Count() = %d, want 2", m.Count())
	}
}

func TestMarkedPlaces(t *testing.T) {
	net := branchNet(t)
	names := InitialMarking(net).MarkedPlaces(net)
	if len(names) != 1 || names[0] != "p1" {
		t.Errorf("marked places = %v, want [p1]", names)
	}
}
