// Package reachability computes the reachable state space of a 1-safe
// Petri net. A state is a Marking, a bit vector with one bit per place;
// the explorer enumerates every marking reachable from the initial one
// by repeated transition firings, deduplicating through a visited set.
package reachability

import (
	"encoding/binary"
	"strings"

	"github.com/bits-and-blooms/bitset"

	"github.com/reachlab/go-reach/petri"
)

// Marking is a token distribution over all places of a net: bit i is set
// iff the place at position i of the net's place order holds a token.
// Markings are values; Fire never mutates its argument. Two markings with
// identical bit patterns are the same state however they were reached.
type Marking struct {
	bits *bitset.BitSet
}

// NewMarking returns an empty marking of the given length.
func NewMarking(places int) Marking {
	return Marking{bits: bitset.New(uint(places))}
}

// InitialMarking builds the net's initial marking: bit i is the initial
// token of the place at position i of the place order.
func InitialMarking(net *petri.Net) Marking {
	m := NewMarking(net.PlaceCount())
	for i, p := range net.Places() {
		if p.Initial {
			m.bits.Set(uint(i))
		}
	}
	return m
}

// MarkingOf builds a marking from an ordered 0/1 vector aligned to the
// place order. Any nonzero entry marks the place.
func MarkingOf(values ...int) Marking {
	m := NewMarking(len(values))
	for i, v := range values {
		if v != 0 {
			m.bits.Set(uint(i))
		}
	}
	return m
}

// Test reports whether the place at position i holds a token.
func (m Marking) Test(i int) bool { return m.bits.Test(uint(i)) }

// Len returns the marking length, the net's place count.
func (m Marking) Len() int { return int(m.bits.Len()) }

// Clone returns an independent copy.
func (m Marking) Clone() Marking {
	return Marking{bits: m.bits.Clone()}
}

// Equal reports whether two markings have identical bit patterns.
func (m Marking) Equal(other Marking) bool {
	return m.bits.Equal(other.bits)
}

// Count returns the number of marked places.
func (m Marking) Count() int { return int(m.bits.Count()) }

// Key returns the packed bit words as a string, usable as a map key. Two
// markings of the same net have equal keys iff they are the same state.
func (m Marking) Key() string {
	words := m.bits.Bytes()
	buf := make([]byte, 8*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint64(buf[8*i:], w)
	}
	return string(buf)
}

// Bits returns the marking as an ordered 0/1 vector aligned to the place
// order.
func (m Marking) Bits() []int {
	out := make([]int, m.Len())
	for i := range out {
		if m.bits.Test(uint(i)) {
			out[i] = 1
		}
	}
	return out
}

// MarkedPlaces returns the identifiers of marked places in place order.
func (m Marking) MarkedPlaces(net *petri.Net) []string {
	var ids []string
	for i := 0; i < m.Len(); i++ {
		if m.bits.Test(uint(i)) {
			ids = append(ids, net.PlaceID(i))
		}
	}
	return ids
}

// String renders the marking as a bit string in place order, e.g. "101".
func (m Marking) String() string {
	var b strings.Builder
	b.Grow(m.Len())
	for i := 0; i < m.Len(); i++ {
		if m.bits.Test(uint(i)) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// set marks the place at position i.
func (m Marking) set(i int) { m.bits.Set(uint(i)) }

// clear unmarks the place at position i.
func (m Marking) clear(i int) { m.bits.Clear(uint(i)) }

// Enabled reports whether the transition may fire in the marking: every
// input place must hold a token. A transition with no inputs is vacuously
// enabled (see petri.AllowSourceTransitions). Output places are not
// checked: marking an already marked place is allowed, firing uses set
// semantics rather than add.
func Enabled(m Marking, t *petri.Transition) bool {
	for _, i := range t.Inputs {
		if !m.bits.Test(uint(i)) {
			return false
		}
	}
	return true
}

// Fire produces the successor marking for a transition that the caller
// has confirmed enabled: copy the marking, clear every input bit, then
// set every output bit. The clear-before-set order is the tie-break for a
// place that is both input and output of the transition: it ends at 1.
func Fire(m Marking, t *petri.Transition) Marking {
	next := m.Clone()
	for _, i := range t.Inputs {
		next.clear(i)
	}
	for _, i := range t.Outputs {
		next.set(i)
	}
	return next
}
