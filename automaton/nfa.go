package automaton

import (
	"encoding/binary"
	"sort"

	"github.com/coregx/mindfa/internal/conv"
	"github.com/coregx/mindfa/internal/sparse"
)

// NFA is an epsilon-free nondeterministic automaton: for every state and
// byte there may be zero, one, or many successor states.
type NFA struct {
	transitions []map[byte][]StateID
	start       StateID
	accept      []bool
}

// States reports the number of states in the automaton.
func (n *NFA) States() int { return len(n.transitions) }

// Match reports whether input is accepted, evaluated by tracking the set of
// live states after each byte and checking whether any member of the final
// set is accepting.
func (n *NFA) Match(input []byte) bool {
	current := sparse.NewSparseSet(conv.IntToUint32(len(n.transitions)))
	current.Insert(uint32(n.start))

	for _, c := range input {
		next := sparse.NewSparseSet(conv.IntToUint32(len(n.transitions)))
		current.Iter(func(v uint32) {
			for _, t := range n.transitions[v][c] {
				next.Insert(uint32(t))
			}
		})
		current = next
	}

	accepted := false
	current.Iter(func(v uint32) {
		if n.accept[v] {
			accepted = true
		}
	})
	return accepted
}

// subsetKey canonicalizes a set of states into a comparable, sortable key:
// the states are sorted and packed as big-endian uint32s, so two
// subsets with the same members always produce the same key regardless of
// discovery order.
func subsetKey(states []StateID) string {
	sorted := append([]StateID(nil), states...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	buf := make([]byte, 0, len(sorted)*4)
	for _, s := range sorted {
		buf = binary.BigEndian.AppendUint32(buf, uint32(s))
	}
	return string(buf)
}

// ToDFA performs subset construction, producing a deterministic automaton
// whose states are subsets of NFA states. DFA state 0 is always the
// reserved sink with no outgoing transitions; the real start subset is
// allocated as state 1 onward via a worklist over canonicalized subsets.
func (n *NFA) ToDFA(cfg BuildConfig) (*DFA, error) {
	var transitions []map[byte]StateID
	transitions = append(transitions, map[byte]StateID{}) // SinkState

	subsetOf := make(map[StateID][]StateID)
	subsetToState := make(map[string]StateID)

	startSubset := []StateID{n.start}
	startState := StateID(len(transitions))
	transitions = append(transitions, map[byte]StateID{})
	subsetOf[startState] = startSubset
	subsetToState[subsetKey(startSubset)] = startState

	worklist := []StateID{startState}
	for len(worklist) > 0 {
		cur := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		curSubset := subsetOf[cur]

		byByte := make(map[byte]map[StateID]struct{})
		for _, s := range curSubset {
			for c, targets := range n.transitions[s] {
				set := byByte[c]
				if set == nil {
					set = make(map[StateID]struct{})
					byByte[c] = set
				}
				for _, t := range targets {
					set[t] = struct{}{}
				}
			}
		}

		for c, set := range byByte {
			if len(set) == 0 {
				continue
			}
			next := make([]StateID, 0, len(set))
			for s := range set {
				next = append(next, s)
			}
			key := subsetKey(next)
			nextState, ok := subsetToState[key]
			if !ok {
				if !cfg.withinLimit(len(transitions) + 1) {
					return nil, ErrResourceLimit
				}
				nextState = StateID(len(transitions))
				transitions = append(transitions, map[byte]StateID{})
				subsetOf[nextState] = next
				subsetToState[key] = nextState
				worklist = append(worklist, nextState)
			}
			transitions[cur][c] = nextState
		}
	}

	accept := make([]bool, len(transitions))
	for state, subset := range subsetOf {
		for _, s := range subset {
			if n.accept[s] {
				accept[state] = true
				break
			}
		}
	}

	return &DFA{transitions: transitions, start: startState, accept: accept}, nil
}
