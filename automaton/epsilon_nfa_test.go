package automaton

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// buildLiteralAB builds the epsilon-NFA for the literal pattern "ab" by
// hand, exercising the builder the way the parser package would.
func buildLiteralAB(t *testing.T) *EpsilonNFA {
	t.Helper()
	b := NewEpsilonNFABuilder()
	s0 := b.AddState()
	s1 := b.AddState()
	s2 := b.AddState()
	b.AddByte(s0, 'a', s1)
	b.AddByte(s1, 'b', s2)
	e, err := b.Build(s0, s2, DefaultBuildConfig())
	require.NoError(t, err)
	return e
}

func TestEpsilonNFAMatchLiteral(t *testing.T) {
	e := buildLiteralAB(t)

	tests := []struct {
		input string
		want  bool
	}{
		{"ab", true},
		{"a", false},
		{"abc", false},
		{"", false},
		{"ba", false},
	}
	for _, tt := range tests {
		got := e.Match([]byte(tt.input))
		require.Equalf(t, tt.want, got, "Match(%q)", tt.input)
	}
}

func TestEpsilonNFADeepCopy(t *testing.T) {
	b := NewEpsilonNFABuilder()
	s0 := b.AddState()
	s1 := b.AddState()
	b.AddByte(s0, 'x', s1)

	cs, ce, err := b.DeepCopy(s0, s1)
	require.NoError(t, err)
	require.NotEqual(t, s0, cs)
	require.NotEqual(t, s1, ce)

	// The copy must behave identically to the original: an epsilon-NFA
	// entered at cs/ce still accepts only "x".
	e, err := b.Build(cs, ce, DefaultBuildConfig())
	require.NoError(t, err)
	require.True(t, e.Match([]byte("x")))
	require.False(t, e.Match([]byte("y")))
}

func TestEpsilonNFADeepCopyUnreachableEnd(t *testing.T) {
	b := NewEpsilonNFABuilder()
	s0 := b.AddState()
	s1 := b.AddState() // disconnected from s0
	_, _, err := b.DeepCopy(s0, s1)
	require.Error(t, err)
}

func TestEpsilonNFAToNFAPreservesLanguage(t *testing.T) {
	e := buildLiteralAB(t)
	n, err := e.ToNFA(DefaultBuildConfig())
	require.NoError(t, err)

	require.True(t, n.Match([]byte("ab")))
	require.False(t, n.Match([]byte("a")))
	require.False(t, n.Match([]byte("")))
}

func TestEpsilonNFAAlternation(t *testing.T) {
	// (a|b)
	b := NewEpsilonNFABuilder()
	start := b.AddState()
	end := b.AddState()
	a0, a1 := b.AddState(), b.AddState()
	b0, b1 := b.AddState(), b.AddState()
	b.AddByte(a0, 'a', a1)
	b.AddByte(b0, 'b', b1)
	b.AddEpsilon(start, a0)
	b.AddEpsilon(start, b0)
	b.AddEpsilon(a1, end)
	b.AddEpsilon(b1, end)

	e, err := b.Build(start, end, DefaultBuildConfig())
	require.NoError(t, err)

	require.True(t, e.Match([]byte("a")))
	require.True(t, e.Match([]byte("b")))
	require.False(t, e.Match([]byte("c")))
	require.False(t, e.Match([]byte("ab")))
}

func TestEpsilonNFAResourceLimit(t *testing.T) {
	b := NewEpsilonNFABuilder()
	s0 := b.AddState()
	s1 := b.AddState()
	b.AddByte(s0, 'a', s1)

	_, err := b.Build(s0, s1, BuildConfig{MaxStates: 1})
	require.ErrorIs(t, err, ErrResourceLimit)
}
