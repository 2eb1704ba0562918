package automaton

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildDFA(t *testing.T) *DFA {
	t.Helper()
	e := buildStarABThenC(t)
	n, err := e.ToNFA(DefaultBuildConfig())
	require.NoError(t, err)
	d, err := n.ToDFA(DefaultBuildConfig())
	require.NoError(t, err)
	return d
}

func TestDFAMatch(t *testing.T) {
	d := buildDFA(t)

	tests := []struct {
		input string
		want  bool
	}{
		{"c", true},
		{"ac", true},
		{"bc", true},
		{"ababbac", true},
		{"", false},
		{"ab", false},
		{"cc", false},
	}
	for _, tt := range tests {
		require.Equalf(t, tt.want, d.Match([]byte(tt.input)), "Match(%q)", tt.input)
	}
}

func TestDFAToMinDFAReservedSink(t *testing.T) {
	d := buildDFA(t)
	m, err := d.ToMinDFA(DefaultBuildConfig())
	require.NoError(t, err)

	require.Empty(t, m.transitions[SinkState])
	require.False(t, m.accept[SinkState])
	require.NotEqual(t, SinkState, m.start)
}

func TestDFAToMinDFAAgreesWithDFA(t *testing.T) {
	d := buildDFA(t)
	m, err := d.ToMinDFA(DefaultBuildConfig())
	require.NoError(t, err)

	inputs := []string{"c", "ac", "bc", "ababbac", "", "ab", "cc", "acb", "aaaac"}
	for _, in := range inputs {
		require.Equalf(t, d.Match([]byte(in)), m.Match([]byte(in)), "input %q", in)
	}
}

func TestDFAToMinDFAIsIdempotent(t *testing.T) {
	d := buildDFA(t)
	m1, err := d.ToMinDFA(DefaultBuildConfig())
	require.NoError(t, err)

	// Re-minimizing a DFA built directly from the minimized transition
	// table (by routing it back through the same construction) must not
	// find any further indistinguishable states to merge.
	d2 := &DFA{transitions: m1.transitions, start: m1.start, accept: m1.accept}
	m2, err := d2.ToMinDFA(DefaultBuildConfig())
	require.NoError(t, err)
	require.Equal(t, m1.States(), m2.States())
}

func TestDFAMinimizesRedundantStates(t *testing.T) {
	// "a(b|c)" has two branches after 'a' that both immediately accept.
	// Subset construction gives them two separate accepting DFA states with
	// no outgoing transitions; they are indistinguishable, so minimization
	// merges them and the minimized DFA has strictly fewer states.
	b := NewEpsilonNFABuilder()
	s0 := b.AddState()
	s1 := b.AddState()
	s2 := b.AddState()
	s3 := b.AddState()
	b.AddByte(s0, 'a', s1)
	b.AddByte(s1, 'b', s2)
	b.AddByte(s1, 'c', s3)
	end := b.AddState()
	b.AddEpsilon(s2, end)
	b.AddEpsilon(s3, end)

	e, err := b.Build(s0, end, DefaultBuildConfig())
	require.NoError(t, err)
	n, err := e.ToNFA(DefaultBuildConfig())
	require.NoError(t, err)
	d, err := n.ToDFA(DefaultBuildConfig())
	require.NoError(t, err)
	m, err := d.ToMinDFA(DefaultBuildConfig())
	require.NoError(t, err)

	require.Less(t, m.States(), d.States())
	require.True(t, m.Match([]byte("ab")))
	require.True(t, m.Match([]byte("ac")))
	require.False(t, m.Match([]byte("a")))
}
