package petri

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyNet is returned when a net is built with no places.
	ErrEmptyNet = errors.New("petri: net has no places")

	// ErrDuplicateID is returned when a place or transition identifier
	// appears more than once, or a transition reuses a place identifier.
	ErrDuplicateID = errors.New("petri: duplicate identifier")

	// ErrUnknownEndpoint is returned when an arc references an identifier
	// that resolves to neither a place nor a transition.
	ErrUnknownEndpoint = errors.New("petri: arc endpoint not found")

	// ErrSameKindArc is returned when an arc connects two places or two
	// transitions. Arcs must be bipartite.
	ErrSameKindArc = errors.New("petri: arc must connect a place and a transition")

	// ErrSourceTransition is returned when a transition has no input
	// places. Such a transition would be enabled in every marking; see
	// AllowSourceTransitions.
	ErrSourceTransition = errors.New("petri: transition has no input places")
)

// ValidationError reports an identifier problem found while building a net.
type ValidationError struct {
	ID  string
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %q", e.Err, e.ID)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// StructuralError reports an arc or shape problem found while building a
// net. Arc is empty when the problem concerns a node rather than an arc.
type StructuralError struct {
	Arc    string
	Source string
	Target string
	Err    error
}

func (e *StructuralError) Error() string {
	if e.Arc == "" && e.Target == "" {
		return fmt.Sprintf("%v: %q", e.Err, e.Source)
	}
	return fmt.Sprintf("%v: arc %q (%s -> %s)", e.Err, e.Arc, e.Source, e.Target)
}

func (e *StructuralError) Unwrap() error { return e.Err }
