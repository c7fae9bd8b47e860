package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Gabzxcv/Syntaxy-FL/internal/parser"
)

// NewParseCmd creates the parse command, which prints the syntax tree the
// detector works on
func NewParseCmd() *cobra.Command {
	a := NewAnalyzeCommand()
	cmd := &cobra.Command{
		Use:   "parse <file|->",
		Short: "Validate a submission and print its syntax tree",
		Long: `Validate a submission and print the language-neutral syntax tree
used by clone detection, one node per line. Useful when a clone is missed
or reported unexpectedly.

Examples:
  syntaxy parse submission.py
  echo 'x = 1' | syntaxy parse --language python -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadRuntime(cmd)
			if err != nil {
				return err
			}
			source, language, err := a.readSubmission(cmd, env, args[0])
			if err != nil {
				return err
			}
			unit, err := env.registry.Validate(commandContext(cmd), source, language, parser.Limits{MaxNodes: env.cfg.Analysis.MaxNodes})
			if err != nil {
				return err
			}
			unit.Root.Accept(parser.NewPrinterVisitor(cmd.OutOrStdout()))
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d nodes, confidence %s\n", language, unit.Root.Size(), unit.Confidence)
			return nil
		},
	}
	cmd.Flags().StringVarP(&a.language, "language", "l", "", "Source language (default: from file extension)")
	return cmd
}
