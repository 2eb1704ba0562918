// Command minregex compiles a pattern to a minimal DFA and reports whether
// a given input string matches it in full.
package main

import (
	"fmt"
	"os"

	"github.com/projectdiscovery/gologger"
	"github.com/spf13/cobra"

	"github.com/coregx/mindfa"
)

var verbose bool

func main() {
	root := &cobra.Command{
		Use:           "minregex <pattern> <input>",
		Short:         "Compile a pattern to a minimal DFA and test a string against it",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "narrate compilation stages")

	if err := root.Execute(); err != nil {
		gologger.Error().Msgf("%v", err)
		os.Exit(1)
	}
}

func run(_ *cobra.Command, args []string) error {
	pattern, input := args[0], args[1]
	re := mindfa.NewRegex(pattern)

	if verbose {
		gologger.Info().Msgf("compiling pattern %q", pattern)
	}

	min, err := re.Compile()
	if err != nil {
		gologger.Fatal().Msgf("failed to compile pattern %q: %v", pattern, err)
		return err
	}

	if verbose {
		gologger.Info().Msgf("minimized DFA ready with %d states, evaluating input %q", min.States(), input)
	}

	if min.Match([]byte(input)) {
		fmt.Println("matches")
	} else {
		fmt.Println("does not match")
	}
	return nil
}
