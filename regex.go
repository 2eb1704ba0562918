// Package mindfa compiles a pattern through the full regex-to-minimal-DFA
// pipeline: a recursive-descent parser builds an epsilon-NFA via Thompson's
// construction, which is reduced by epsilon-elimination to an NFA, then
// determinized by subset construction into a DFA, then minimized by
// partition refinement into a MinDFA. Every stage exposes anchored,
// whole-string matching, so callers needing only early stages (or wanting
// to compare them against each other) never have to run the rest of the
// pipeline.
//
// Example:
//
//	re := mindfa.NewRegex(`[a-z]+\d{2,4}`)
//	min, err := re.Compile()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if min.Match([]byte("ab12")) {
//	    fmt.Println("matches")
//	}
package mindfa

import (
	"fmt"

	"github.com/coregx/mindfa/automaton"
	"github.com/coregx/mindfa/parser"
)

// Regex holds a pattern and the resource limits to apply while compiling
// it; the pipeline stages themselves are computed lazily, on demand, by the
// To* methods.
type Regex struct {
	pattern string
	config  automaton.BuildConfig
}

// NewRegex returns a Regex for pattern with the default (unlimited) build
// configuration.
func NewRegex(pattern string) *Regex {
	return &Regex{pattern: pattern, config: automaton.DefaultBuildConfig()}
}

// NewRegexWithConfig returns a Regex for pattern using the given build
// configuration, for callers that want to cap the number of states any
// pipeline stage may allocate.
func NewRegexWithConfig(pattern string, config automaton.BuildConfig) *Regex {
	return &Regex{pattern: pattern, config: config}
}

// String returns the original pattern text.
func (r *Regex) String() string { return r.pattern }

// ToEpsilonNFA parses the pattern and applies Thompson's construction,
// returning the resulting epsilon-NFA.
func (r *Regex) ToEpsilonNFA() (*automaton.EpsilonNFA, error) {
	return parser.Parse(r.pattern, r.config)
}

// ToNFA parses the pattern and eliminates epsilon transitions, returning the
// resulting NFA.
func (r *Regex) ToNFA() (*automaton.NFA, error) {
	e, err := r.ToEpsilonNFA()
	if err != nil {
		return nil, err
	}
	return e.ToNFA(r.config)
}

// ToDFA parses the pattern and determinizes it via subset construction,
// returning the resulting DFA.
func (r *Regex) ToDFA() (*automaton.DFA, error) {
	n, err := r.ToNFA()
	if err != nil {
		return nil, err
	}
	return n.ToDFA(r.config)
}

// Compile runs the pattern through the entire pipeline and returns the
// minimized DFA, mirroring the original implementation's generate() chain.
func (r *Regex) Compile() (*automaton.MinDFA, error) {
	d, err := r.ToDFA()
	if err != nil {
		return nil, err
	}
	return d.ToMinDFA(r.config)
}

// Compile parses pattern and runs it through the entire pipeline in one
// call.
func Compile(pattern string) (*automaton.MinDFA, error) {
	return NewRegex(pattern).Compile()
}

// MustCompile is like Compile but panics if pattern fails to compile. It is
// intended for patterns known at init time, such as package-level
// variables.
func MustCompile(pattern string) *automaton.MinDFA {
	m, err := Compile(pattern)
	if err != nil {
		panic(fmt.Sprintf("mindfa: Compile(%q): %v", pattern, err))
	}
	return m
}

// MatchString compiles the pattern and reports whether input matches it in
// full.
func (r *Regex) MatchString(input string) (bool, error) {
	m, err := r.Compile()
	if err != nil {
		return false, err
	}
	return m.Match([]byte(input)), nil
}

// CheckAllStages compiles every pipeline stage and cross-validates that
// they all agree on whether input matches, returning a *StageMismatchError
// if they disagree. This mirrors the original implementation's
// RegularExpression::check and backs the stage-equivalence property tests.
func (r *Regex) CheckAllStages(input string) (bool, error) {
	e, err := r.ToEpsilonNFA()
	if err != nil {
		return false, err
	}
	n, err := e.ToNFA(r.config)
	if err != nil {
		return false, err
	}
	d, err := n.ToDFA(r.config)
	if err != nil {
		return false, err
	}
	m, err := d.ToMinDFA(r.config)
	if err != nil {
		return false, err
	}

	b := []byte(input)
	results := [4]bool{e.Match(b), n.Match(b), d.Match(b), m.Match(b)}
	for _, res := range results[1:] {
		if res != results[0] {
			return false, &StageMismatchError{Pattern: r.pattern, Input: input, Results: results}
		}
	}
	return results[0], nil
}

// StageMismatchError indicates that the four pipeline stages disagreed on
// whether an input matches, which would mean the pipeline transforms are
// not semantically equivalent for this pattern.
type StageMismatchError struct {
	Pattern string
	Input   string
	Results [4]bool // epsilon-NFA, NFA, DFA, MinDFA, in pipeline order
}

func (e *StageMismatchError) Error() string {
	return fmt.Sprintf("mindfa: stage mismatch for pattern %q, input %q: epsilonNFA=%v nfa=%v dfa=%v minDFA=%v",
		e.Pattern, e.Input, e.Results[0], e.Results[1], e.Results[2], e.Results[3])
}
