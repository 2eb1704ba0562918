package automaton

import (
	"github.com/coregx/mindfa/internal/conv"
	"github.com/coregx/mindfa/internal/sparse"
)

// epsilonState holds the outgoing transitions of a single epsilon-NFA state:
// a set of epsilon edges, and a mapping from byte to the set of states
// reachable by consuming that byte.
type epsilonState struct {
	epsilon []StateID
	bytes   map[byte][]StateID
}

func newEpsilonState() epsilonState {
	return epsilonState{bytes: make(map[byte][]StateID)}
}

// EpsilonNFABuilder accumulates states and transitions for an epsilon-NFA
// under construction. It is the target the parser emits into while applying
// Thompson's construction; call Build once the pattern has been fully
// parsed to seal the result.
type EpsilonNFABuilder struct {
	states []epsilonState
}

// NewEpsilonNFABuilder returns an empty builder.
func NewEpsilonNFABuilder() *EpsilonNFABuilder {
	return &EpsilonNFABuilder{}
}

// AddState allocates a new state with no outgoing transitions and returns
// its identifier.
func (b *EpsilonNFABuilder) AddState() StateID {
	id := StateID(len(b.states))
	b.states = append(b.states, newEpsilonState())
	return id
}

// AddEpsilon adds an epsilon transition from -> to. Duplicate edges are
// collapsed.
func (b *EpsilonNFABuilder) AddEpsilon(from, to StateID) {
	s := &b.states[from]
	for _, existing := range s.epsilon {
		if existing == to {
			return
		}
	}
	s.epsilon = append(s.epsilon, to)
}

// AddByte adds a transition on a single byte value from -> to. Duplicate
// edges are collapsed.
func (b *EpsilonNFABuilder) AddByte(from StateID, c byte, to StateID) {
	s := &b.states[from]
	for _, existing := range s.bytes[c] {
		if existing == to {
			return
		}
	}
	s.bytes[c] = append(s.bytes[c], to)
}

// AddByteRange adds a transition from -> to for every byte in [lo, hi].
func (b *EpsilonNFABuilder) AddByteRange(from StateID, lo, hi byte, to StateID) {
	for c := int(lo); c <= int(hi); c++ {
		b.AddByte(from, byte(c), to)
	}
}

// DeepCopy duplicates the subgraph reachable from start (following both
// epsilon and byte transitions) into fresh states, and returns the copy's
// entry and exit identifiers. end must be reachable from start; it need not
// be a dead end. This backs counted-repetition expansion ({n,m}), where the
// same sub-pattern is instantiated multiple times in the automaton.
func (b *EpsilonNFABuilder) DeepCopy(start, end StateID) (StateID, StateID, error) {
	mapping := map[StateID]StateID{start: b.AddState()}
	stack := []StateID{start}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		curCopy := mapping[cur]
		orig := b.states[cur]

		for _, next := range orig.epsilon {
			nextCopy, ok := mapping[next]
			if !ok {
				nextCopy = b.AddState()
				mapping[next] = nextCopy
				stack = append(stack, next)
			}
			b.AddEpsilon(curCopy, nextCopy)
		}
		for c, targets := range orig.bytes {
			for _, next := range targets {
				nextCopy, ok := mapping[next]
				if !ok {
					nextCopy = b.AddState()
					mapping[next] = nextCopy
					stack = append(stack, next)
				}
				b.AddByte(curCopy, c, nextCopy)
			}
		}
	}

	endCopy, ok := mapping[end]
	if !ok {
		return 0, 0, &BuildError{Stage: "deep copy", State: end, Message: "end state not reachable from start"}
	}
	return mapping[start], endCopy, nil
}

// Build seals the builder into an immutable EpsilonNFA with the given start
// and end (accepting) state.
func (b *EpsilonNFABuilder) Build(start, end StateID, cfg BuildConfig) (*EpsilonNFA, error) {
	if !cfg.withinLimit(len(b.states)) {
		return nil, ErrResourceLimit
	}
	return &EpsilonNFA{states: b.states, start: start, end: end}, nil
}

// EpsilonNFA is the sealed result of Thompson's construction: a
// nondeterministic automaton with epsilon transitions, a single start state
// and a single accepting (end) state.
type EpsilonNFA struct {
	states []epsilonState
	start  StateID
	end    StateID
}

// Start returns the automaton's single start state.
func (e *EpsilonNFA) Start() StateID { return e.start }

// End returns the automaton's single accepting state.
func (e *EpsilonNFA) End() StateID { return e.end }

// States reports the number of states in the automaton.
func (e *EpsilonNFA) States() int { return len(e.states) }

// epsilonClosure returns the set of states reachable from start using only
// epsilon transitions, including start itself.
func (e *EpsilonNFA) epsilonClosure(start StateID) *sparse.SparseSet {
	closure := sparse.NewSparseSet(conv.IntToUint32(len(e.states)))
	stack := []StateID{start}
	closure.Insert(uint32(start))

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range e.states[cur].epsilon {
			if !closure.Contains(uint32(next)) {
				closure.Insert(uint32(next))
				stack = append(stack, next)
			}
		}
	}
	return closure
}

// Match reports whether input, taken as a whole, is accepted: the automaton
// starts at the epsilon closure of Start and is accepted only if End is a
// member of the closure reached after consuming every byte of input.
func (e *EpsilonNFA) Match(input []byte) bool {
	current := e.epsilonClosure(e.start)
	for _, c := range input {
		next := sparse.NewSparseSet(conv.IntToUint32(len(e.states)))
		current.Iter(func(v uint32) {
			for _, target := range e.states[StateID(v)].bytes[c] {
				closure := e.epsilonClosure(target)
				closure.Iter(func(w uint32) { next.Insert(w) })
			}
		})
		current = next
	}
	return current.Contains(uint32(e.end))
}

// ToNFA performs epsilon-elimination, producing an equivalent automaton
// with no epsilon transitions. For every state s, its closure Cs is
// computed; s is accepting in the result if End belongs to Cs, and for
// every byte c and every state r reached from a state in Cs by a
// c-transition, the result gains a c-transition from s to every state in
// Cr.
func (e *EpsilonNFA) ToNFA(cfg BuildConfig) (*NFA, error) {
	n := len(e.states)
	if !cfg.withinLimit(n) {
		return nil, ErrResourceLimit
	}

	closures := make([]*sparse.SparseSet, n)
	accept := make([]bool, n)
	for s := 0; s < n; s++ {
		closures[s] = e.epsilonClosure(StateID(s))
		accept[s] = closures[s].Contains(uint32(e.end))
	}

	transitions := make([]map[byte][]StateID, n)
	for s := range transitions {
		transitions[s] = make(map[byte][]StateID)
	}

	for s := 0; s < n; s++ {
		closures[s].Iter(func(q uint32) {
			for c, targets := range e.states[q].bytes {
				for _, r := range targets {
					closures[r].Iter(func(w uint32) {
						addUnique(transitions[s], c, StateID(w))
					})
				}
			}
		})
	}

	return &NFA{transitions: transitions, start: e.start, accept: accept}, nil
}

func addUnique(m map[byte][]StateID, c byte, id StateID) {
	for _, existing := range m[c] {
		if existing == id {
			return
		}
	}
	m[c] = append(m[c], id)
}
