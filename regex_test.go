package mindfa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/mindfa/automaton"
)

func TestCompileAndMatch(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		input   string
		want    bool
	}{
		{"literal match", "abc", "abc", true},
		{"literal no match", "abc", "abd", false},
		{"alternation left", "cat|dog", "cat", true},
		{"alternation right", "cat|dog", "dog", true},
		{"alternation neither", "cat|dog", "cow", false},
		{"star empty", "a*", "", true},
		{"star repeated", "a*", "aaaaa", true},
		{"plus requires one", "a+", "", false},
		{"class range", "[a-z]+", "hello", true},
		{"class range rejects", "[a-z]+", "Hello", false},
		{"counted repetition", "a{2,4}b", "aaab", true},
		{"counted repetition too few", "a{2,4}b", "ab", false},
		{"counted repetition too many", "a{2,4}b", "aaaaab", false},
		{"combined", "[a-z]+\\d{2,4}", "ab12", true},
		{"combined rejects extra suffix", "[a-z]+\\d{2,4}", "ab12x", false},
		{"anchored whole string", "ab", "xaby", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Compile(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Match([]byte(tt.input)))
		})
	}
}

func TestMustCompilePanicsOnInvalidPattern(t *testing.T) {
	assert.Panics(t, func() {
		MustCompile("[]")
	})
}

func TestMustCompileSucceeds(t *testing.T) {
	assert.NotPanics(t, func() {
		m := MustCompile("a+b*")
		assert.True(t, m.Match([]byte("aaab")))
	})
}

func TestRegexMatchString(t *testing.T) {
	re := NewRegex("[0-9]+")
	ok, err := re.MatchString("12345")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = re.MatchString("123a5")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckAllStagesAgree(t *testing.T) {
	patterns := []string{
		"abc",
		"a|b|c",
		"a*b+c?",
		"[a-zA-Z_][a-zA-Z0-9_]*",
		"(ab|cd){2,3}",
		`\d{3}-\d{4}`,
		".*",
		"",
	}
	inputs := []string{"", "a", "abc", "zZ9_", "abcd", "abab", "123-4567", "anything at all"}

	for _, p := range patterns {
		re := NewRegex(p)
		for _, in := range inputs {
			_, err := re.CheckAllStages(in)
			require.NoErrorf(t, err, "pattern %q input %q", p, in)
		}
	}
}

func TestStringReturnsPattern(t *testing.T) {
	re := NewRegex("a+b*")
	assert.Equal(t, "a+b*", re.String())
}

func TestEndToEndScenarios(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		want    bool
	}{
		{"a*", "aaaaaaaaaaa", true},
		{"a*", "aaaaaaaaaabaaaaaa", false},
		{`[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`, "6.022e+23", true},
		{`[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`, "e+23", false},
		{"[^a-zA-Z0-9]", "@", true},
		{"(a|b){2,4}", "aaba", true},
		{"(a|b){2,4}", "abbaa", false},
		{`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`, "john.smith@example.com", true},
		{"(a|b){0}", "", true},
		{"(a|b)*abb(a|b)*", "aaaabbbbbb", true},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.input, func(t *testing.T) {
			m, err := Compile(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Match([]byte(tt.input)))
		})
	}
}

func TestResourceLimitPropagates(t *testing.T) {
	re := NewRegexWithConfig("a{50,100}", automaton.BuildConfig{MaxStates: 2})
	_, err := re.Compile()
	require.Error(t, err)
}
