// Package petri implements the structural model of a 1-safe Petri net.
// A net is built once from place, transition, and arc descriptions and is
// read-only afterwards. Places hold at most one token, so a marking of the
// net is a boolean vector indexed by the net's place order.
package petri

import (
	"fmt"
	"sort"
)

// PlaceInput describes a place to build: a unique identifier and whether
// the place is marked in the initial state.
type PlaceInput struct {
	ID      string
	Initial bool
}

// TransitionInput describes a transition to build.
type TransitionInput struct {
	ID string
}

// ArcInput describes a directed arc. Source and Target must each resolve
// to exactly one place or transition, and the two endpoints must be of
// different kinds.
type ArcInput struct {
	ID     string
	Source string
	Target string
}

// NetInput is the structural description a net is built from. It is the
// boundary between loaders (PNML, builders, tests) and the net itself.
type NetInput struct {
	Name        string
	Places      []PlaceInput
	Transitions []TransitionInput
	Arcs        []ArcInput
}

// Place is a node that can hold a single token.
type Place struct {
	ID      string
	Initial bool
}

// Transition is an event node. Inputs and Outputs are indices into the
// net's place order, in arc declaration order. Firing consumes the token
// of every input place and marks every output place.
type Transition struct {
	ID      string
	Inputs  []int
	Outputs []int
}

// Mode selects how construction treats malformed arcs.
type Mode int

const (
	// Strict fails construction on the first malformed arc.
	Strict Mode = iota
	// Lenient skips malformed arcs and records each skip on the net.
	// Identifier duplication is fatal in both modes.
	Lenient
)

// Skip records an arc that Lenient construction left out of the net.
type Skip struct {
	Arc    string
	Source string
	Target string
	Reason error
}

// Net is the immutable structural model. Place and transition slices are
// sorted by identifier, so their positions are stable across runs and
// input arrival order.
type Net struct {
	name            string
	places          []Place
	transitions     []Transition
	placeIndex      map[string]int
	transitionIndex map[string]int
	skips           []Skip
}

type config struct {
	mode             Mode
	allowSourceTrans bool
}

// Option adjusts net construction.
type Option func(*config)

// WithMode sets the malformed-arc policy. The default is Strict.
func WithMode(m Mode) Option {
	return func(c *config) { c.mode = m }
}

// AllowSourceTransitions accepts transitions with no input places. Such a
// transition is enabled in every marking and fires unconditionally; by
// default construction rejects it with ErrSourceTransition.
func AllowSourceTransitions() Option {
	return func(c *config) { c.allowSourceTrans = true }
}

// NewNet builds a net from its structural description. It validates the
// description before any exploration can happen: duplicate identifiers,
// unresolvable arc endpoints, and same-kind arcs are all caught here.
func NewNet(in NetInput, opts ...Option) (*Net, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(in.Places) == 0 {
		return nil, ErrEmptyNet
	}

	n := &Net{
		name:            in.Name,
		places:          make([]Place, 0, len(in.Places)),
		transitions:     make([]Transition, 0, len(in.Transitions)),
		placeIndex:      make(map[string]int, len(in.Places)),
		transitionIndex: make(map[string]int, len(in.Transitions)),
	}

	for _, p := range in.Places {
		if _, ok := n.placeIndex[p.ID]; ok {
			return nil, &ValidationError{ID: p.ID, Err: ErrDuplicateID}
		}
		n.placeIndex[p.ID] = 0 // real index assigned after sorting
		n.places = append(n.places, Place{ID: p.ID, Initial: p.Initial})
	}
	sort.Slice(n.places, func(i, j int) bool { return n.places[i].ID < n.places[j].ID })
	for i, p := range n.places {
		n.placeIndex[p.ID] = i
	}

	for _, t := range in.Transitions {
		if _, ok := n.placeIndex[t.ID]; ok {
			return nil, &ValidationError{ID: t.ID, Err: ErrDuplicateID}
		}
		if _, ok := n.transitionIndex[t.ID]; ok {
			return nil, &ValidationError{ID: t.ID, Err: ErrDuplicateID}
		}
		n.transitionIndex[t.ID] = 0
		n.transitions = append(n.transitions, Transition{ID: t.ID})
	}
	sort.Slice(n.transitions, func(i, j int) bool { return n.transitions[i].ID < n.transitions[j].ID })
	for i, t := range n.transitions {
		n.transitionIndex[t.ID] = i
	}

	for _, a := range in.Arcs {
		if err := n.connect(a, cfg.mode); err != nil {
			return nil, err
		}
	}

	if !cfg.allowSourceTrans {
		for i := range n.transitions {
			if len(n.transitions[i].Inputs) == 0 {
				return nil, &StructuralError{Source: n.transitions[i].ID, Err: ErrSourceTransition}
			}
		}
	}

	return n, nil
}

// connect resolves one arc against the place and transition tables and
// wires it into the owning transition's index arrays.
func (n *Net) connect(a ArcInput, mode Mode) error {
	srcPlace, srcIsPlace := n.placeIndex[a.Source]
	srcTrans, srcIsTrans := n.transitionIndex[a.Source]
	dstPlace, dstIsPlace := n.placeIndex[a.Target]
	dstTrans, dstIsTrans := n.transitionIndex[a.Target]

	var reason error
	switch {
	case !srcIsPlace && !srcIsTrans, !dstIsPlace && !dstIsTrans:
		reason = ErrUnknownEndpoint
	case srcIsPlace && dstIsPlace, srcIsTrans && dstIsTrans:
		reason = ErrSameKindArc
	case srcIsPlace && dstIsTrans:
		t := &n.transitions[dstTrans]
		t.Inputs = append(t.Inputs, srcPlace)
		return nil
	default: // transition -> place
		t := &n.transitions[srcTrans]
		t.Outputs = append(t.Outputs, dstPlace)
		return nil
	}

	if mode == Lenient {
		n.skips = append(n.skips, Skip{Arc: a.ID, Source: a.Source, Target: a.Target, Reason: reason})
		return nil
	}
	return &StructuralError{Arc: a.ID, Source: a.Source, Target: a.Target, Err: reason}
}

// Name returns the net's name, which may be empty.
func (n *Net) Name() string { return n.name }

// Places returns the place order: all places sorted by identifier. The
// returned slice is owned by the net and must not be modified.
func (n *Net) Places() []Place { return n.places }

// PlaceCount returns the number of places, the length of every marking.
func (n *Net) PlaceCount() int { return len(n.places) }

// PlaceIndex returns the position of a place in the place order.
func (n *Net) PlaceIndex(id string) (int, bool) {
	i, ok := n.placeIndex[id]
	return i, ok
}

// PlaceID returns the identifier of the place at the given position.
func (n *Net) PlaceID(i int) string { return n.places[i].ID }

// Transitions returns all transitions sorted by identifier. The returned
// slice is owned by the net and must not be modified.
func (n *Net) Transitions() []Transition { return n.transitions }

// Transition looks up a transition by identifier.
func (n *Net) Transition(id string) (*Transition, bool) {
	i, ok := n.transitionIndex[id]
	if !ok {
		return nil, false
	}
	return &n.transitions[i], true
}

// Skips returns the arcs Lenient construction left out, in input order.
func (n *Net) Skips() []Skip { return n.skips }

// ArcCount returns the number of arcs wired into the net.
func (n *Net) ArcCount() int {
	arcs := 0
	for i := range n.transitions {
		arcs += len(n.transitions[i].Inputs) + len(n.transitions[i].Outputs)
	}
	return arcs
}

// String returns a short structural summary.
func (n *Net) String() string {
	return fmt.Sprintf("net %q: %d places, %d transitions, %d arcs",
		n.name, len(n.places), len(n.transitions), n.ArcCount())
}
