// Command silkc is the CLI driver for the Silk front end: lexing,
// parsing, and semantic analysis. It has no codegen or execution
// backend — `build` and `run` run the full front-end pipeline and
// report that later stages don't exist yet. Each subcommand is a thin
// cobra command over the shared silk package pipeline.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	silkerrors "github.com/silk-lang/silk/pkgs/errors"

	"github.com/silk-lang/silk"
)

var (
	outputPath   string
	optimizeFlag int
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "silkc",
		Short: "Silk front-end driver: lex, parse, and analyze Silk source",
	}
	root.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "output path (accepted, unused: no codegen stage)")
	root.PersistentFlags().IntVarP(&optimizeFlag, "optimize", "O", 0, "optimization level 0-3 (accepted, unused: no codegen stage)")

	root.AddCommand(newLexCmd(), newCheckCmd(), newBuildCmd(), newRunCmd())
	return root
}

func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func newLexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lex FILE",
		Short: "Print the token stream for FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(args[0])
			if err != nil {
				return err
			}
			tokens, err := silk.Tokenize(src)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			for _, tok := range tokens {
				fmt.Printf("%s\t%s\t%q\n", tok.Span, tok.Kind, tok.Literal)
			}
			return nil
		},
	}
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE",
		Short: "Lex, parse, and semantically analyze FILE, printing diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(args[0])
			if err != nil {
				return err
			}
			ok := runCheck(src)
			if !ok {
				os.Exit(1)
			}
			return nil
		},
	}
}

// runCheck runs the full pipeline and prints every diagnostic to
// stderr; it returns false iff a lex/parse error aborted the pipeline
// or any semantic diagnostic was an error-severity finding.
func runCheck(src string) bool {
	_, _, diags, err := silk.Check(src, silk.DefaultAnalysisOptions())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return false
	}
	ok := true
	for _, d := range diags {
		fmt.Fprintln(os.Stderr, d.String())
		if d.Severity == silkerrors.SeverityError {
			ok = false
		}
	}
	return ok
}

func newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build FILE",
		Short: "Build FILE (front-end only: no codegen stage exists yet)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(args[0])
			if err != nil {
				return err
			}
			if !runCheck(src) {
				os.Exit(1)
			}
			fmt.Fprintln(os.Stderr, "not implemented: code generation (front end only)")
			return nil
		},
	}
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run FILE",
		Short: "Run FILE (front-end only: no execution backend exists yet)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(args[0])
			if err != nil {
				return err
			}
			if !runCheck(src) {
				os.Exit(1)
			}
			fmt.Fprintln(os.Stderr, "not implemented: execution (front end only)")
			return nil
		},
	}
}
