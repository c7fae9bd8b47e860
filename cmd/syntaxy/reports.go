package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
	"github.com/Gabzxcv/Syntaxy-FL/service"
)

// NewReportsCmd creates the reports command group for the report store
func NewReportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Inspect stored reports",
		Long: `List, show and delete reports saved with --store.

The store path comes from --store, or store.path in the configuration file.`,
	}
	cmd.PersistentFlags().String("store", "", "Path of the bbolt report database")

	cmd.AddCommand(newReportsListCmd())
	cmd.AddCommand(newReportsShowCmd())
	cmd.AddCommand(newReportsDeleteCmd())
	return cmd
}

func newReportsListCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored reports, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(env *runtimeEnv, store domain.ReportStore) error {
				summaries, err := store.List(commandContext(cmd), limit)
				if err != nil {
					return err
				}
				format, err := domain.ParseOutputFormat(env.cfg.Output.Format)
				if err != nil {
					return err
				}
				return writeSummaries(cmd, summaries, format)
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of reports (0 lists all)")
	cmd.Flags().StringP("format", "f", "", "Output format: text, json, yaml")
	return cmd
}

func newReportsShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <analysis-id>",
		Short: "Print a stored report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(env *runtimeEnv, store domain.ReportStore) error {
				report, err := store.Get(commandContext(cmd), args[0])
				if err != nil {
					return err
				}
				formatter, format, err := env.formatter(cmd)
				if err != nil {
					return err
				}
				return formatter.Write(report, format, cmd.OutOrStdout())
			})
		},
	}
	cmd.Flags().StringP("format", "f", "", "Output format: text, json, yaml, csv")
	cmd.Flags().Bool("snippets", false, "Show clone snippets and suggested code in text output")
	cmd.Flags().Bool("no-color", false, "Disable colored output")
	return cmd
}

func newReportsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <analysis-id>",
		Short: "Delete a stored report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(env *runtimeEnv, store domain.ReportStore) error {
				if err := store.Delete(commandContext(cmd), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted report %s\n", args[0])
				return nil
			})
		},
	}
}

// withStore opens the configured store for the duration of fn
func withStore(cmd *cobra.Command, fn func(env *runtimeEnv, store domain.ReportStore) error) error {
	env, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	store, err := service.OpenReportStore(env.cfg.Store.Path)
	if err != nil {
		return err
	}
	defer closeStore(store, env.logger)
	return fn(env, store)
}

func writeSummaries(cmd *cobra.Command, summaries []domain.ReportSummary, format domain.OutputFormat) error {
	out := cmd.OutOrStdout()
	switch format {
	case domain.OutputFormatJSON:
		data, err := service.EncodeJSON(summaries)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(out, data)
		return err
	case domain.OutputFormatYAML:
		data, err := service.EncodeYAML(summaries)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(out, data)
		return err
	case domain.OutputFormatText:
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}

	if len(summaries) == 0 {
		fmt.Fprintln(out, "No stored reports.")
		return nil
	}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.AnalysisID,
			string(s.Language),
			strconv.Itoa(s.CloneCount),
			fmt.Sprintf("%.1f%%", s.ClonePercentage),
			time.Unix(0, s.StoredAtUnixNs).Format(time.RFC3339),
		})
	}
	service.RenderTable(out, []string{"Analysis ID", "Language", "Clones", "Clone %", "Stored"}, rows)
	return nil
}
