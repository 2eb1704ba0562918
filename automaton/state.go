// Package automaton holds the four sealed automaton representations that the
// compilation pipeline produces, in order: EpsilonNFA, NFA, DFA, and MinDFA.
// EpsilonNFA follows a builder-then-seal lifecycle: a mutable
// EpsilonNFABuilder accumulates states and transitions, and Build checks the
// state limit and freezes the result into an immutable value. NFA, DFA and
// MinDFA have no builder of their own; each is produced by the previous
// stage's transform (ToNFA, ToDFA, ToMinDFA).
package automaton

// StateID identifies a state within a single automaton's transition table.
// Identifiers are dense, starting at zero, and are unique only within the
// automaton that allocated them.
type StateID uint32

// SinkState is the reserved dead/reject state every DFA and MinDFA
// pre-allocates at index 0. It has no outgoing transitions and never
// accepts. A DFA or MinDFA transition table with no entry for a given
// (state, byte) pair is equivalent to an explicit transition to SinkState.
const SinkState StateID = 0
