package automaton

// MinDFA is the minimal deterministic automaton equivalent to some DFA: no
// two of its states are behaviorally equivalent. Like DFA, state 0 is
// always the reserved sink, and a missing transition table entry is
// equivalent to a transition to it.
type MinDFA struct {
	transitions []map[byte]StateID
	start       StateID
	accept      []bool
}

// States reports the number of states in the automaton.
func (m *MinDFA) States() int { return len(m.transitions) }

// Match reports whether input is accepted by walking the deterministic
// transition table byte by byte.
func (m *MinDFA) Match(input []byte) bool {
	cur := m.start
	for _, c := range input {
		next, ok := m.transitions[cur][c]
		if !ok {
			return false
		}
		cur = next
	}
	return m.accept[cur]
}
