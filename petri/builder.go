package petri

import "fmt"

// Builder provides a fluent API for constructing nets in tests and
// examples. Arc identifiers are generated automatically.
//
// Example:
//
//	net, err := petri.Build("handoff").
//	    Place("p1", true).
//	    Place("p2", false).
//	    Transition("t1").
//	    Arc("p1", "t1").
//	    Arc("t1", "p2").
//	    Done()
type Builder struct {
	in      NetInput
	nextArc int
}

// Build creates a new Builder for a net with the given name.
func Build(name string) *Builder {
	return &Builder{in: NetInput{Name: name}}
}

// Place adds a place with the given identifier and initial token.
func (b *Builder) Place(id string, initial bool) *Builder {
	b.in.Places = append(b.in.Places, PlaceInput{ID: id, Initial: initial})
	return b
}

// Transition adds a transition with the given identifier.
func (b *Builder) Transition(id string) *Builder {
	b.in.Transitions = append(b.in.Transitions, TransitionInput{ID: id})
	return b
}

// Arc adds an arc from source to target with a generated identifier.
func (b *Builder) Arc(source, target string) *Builder {
	b.nextArc++
	b.in.Arcs = append(b.in.Arcs, ArcInput{
		ID:     fmt.Sprintf("a%d", b.nextArc),
		Source: source,
		Target: target,
	})
	return b
}

// Flow adds the pair of arcs for the common place -> transition -> place
// pattern.
func (b *Builder) Flow(fromPlace, transition, toPlace string) *Builder {
	return b.Arc(fromPlace, transition).Arc(transition, toPlace)
}

// Input returns the accumulated structural description without building.
func (b *Builder) Input() NetInput { return b.in }

// Done validates the accumulated description and builds the net.
func (b *Builder) Done(opts ...Option) (*Net, error) {
	return NewNet(b.in, opts...)
}
