package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
	"github.com/Gabzxcv/Syntaxy-FL/internal/version"
)

const (
	exitInternal      = 1
	exitInputRejected = 2
)

// newRootCmd builds the command tree
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "syntaxy",
		Short: "Multi-language code clone detection",
		Long: `syntaxy finds duplicated code in a single submission.

It validates the source, normalizes it into fragments, fingerprints them
with MinHash/LSH and reports exact, renamed and near-miss clones together
with complexity, maintainability and refactoring suggestions.

Supported languages: python, java, javascript, go, plus a lexical
"generic" mode for anything else.`,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (text, json)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(NewAnalyzeCmd())
	rootCmd.AddCommand(NewBatchCmd())
	rootCmd.AddCommand(NewReportsCmd())
	rootCmd.AddCommand(NewParseCmd())
	rootCmd.AddCommand(NewLanguagesCmd())
	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewVersionCmd())
	return rootCmd
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCode(err)
	}
	return 0
}

// exitCode maps caller mistakes to 2 and engine failures to 1
func exitCode(err error) int {
	var usage *usageError
	if errors.As(err, &usage) || domain.Classify(err) == domain.ClassInputRejected {
		return exitInputRejected
	}
	return exitInternal
}

// usageError marks command-line mistakes caught before any analysis
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func newUsageError(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}
