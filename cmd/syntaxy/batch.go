package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Gabzxcv/Syntaxy-FL/app"
	"github.com/Gabzxcv/Syntaxy-FL/domain"
	"github.com/Gabzxcv/Syntaxy-FL/service"
)

// BatchCommand analyzes a roster of submissions
type BatchCommand struct {
	language   string
	outputPath string
	noProgress bool
}

// NewBatchCommand creates a new batch command
func NewBatchCommand() *BatchCommand {
	return &BatchCommand{}
}

// CreateCobraCommand creates the cobra command for roster analysis
func (b *BatchCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <paths...>",
		Short: "Detect clones in many submissions",
		Long: `Analyze every submission file found under the given paths.

Each file is analyzed on its own; a rejected file is reported in the output
and never stops the others. Directories are walked recursively using the
include and exclude patterns.

Examples:
  syntaxy batch submissions/
  syntaxy batch --include "**/*.java" --workers 4 --format csv roster/
  syntaxy batch --store .syntaxy/reports.db week1/ week2/`,
		Args: cobra.MinimumNArgs(1),
		RunE: b.runBatch,
	}

	cmd.Flags().StringVarP(&b.language, "language", "l", "", "Treat every file as this language")
	cmd.Flags().StringP("mode", "m", "", "Normalization mode: exact or near_miss")
	cmd.Flags().Float64P("threshold", "t", 0, "Similarity threshold in [0,1] (default: mode default)")
	cmd.Flags().Int64("timeout-ms", 0, "Per-submission time budget in milliseconds")
	cmd.Flags().StringSlice("include", nil, "Glob patterns of files to analyze")
	cmd.Flags().StringSlice("exclude", nil, "Glob patterns of files to skip")
	cmd.Flags().IntP("workers", "w", 0, "Concurrent analyses (default: number of CPUs)")
	cmd.Flags().BoolVar(&b.noProgress, "no-progress", false, "Disable the progress bar")
	addOutputFlags(cmd, &b.outputPath)
	return cmd
}

func (b *BatchCommand) runBatch(cmd *cobra.Command, args []string) error {
	env, err := loadRuntime(cmd)
	if err != nil {
		return err
	}

	analysisService, err := env.analysisService()
	if err != nil {
		return err
	}
	formatter, format, err := env.formatter(cmd)
	if err != nil {
		return err
	}
	store, err := env.reportStore()
	if err != nil {
		return err
	}
	defer closeStore(store, env.logger)

	batchCfg := env.cfg.Batch
	collector := service.NewFileCollector(env.registry, batchCfg.IncludePatterns, batchCfg.ExcludePatterns, batchCfg.MaxFileSizeKB)
	progress := service.CreateProgressReporter(cmd.ErrOrStderr(), !b.noProgress)
	executor := service.NewBatchExecutor(analysisService, batchCfg.WorkerCount(), progress, env.logger)

	useCase := app.NewBatchUseCase(collector, executor, formatter, service.NewFileOutputWriter(cmd.ErrOrStderr()), store, env.logger)
	outcome, err := useCase.Execute(commandContext(cmd), app.BatchInput{
		Paths:      args,
		Language:   domain.NormalizeLanguage(b.language),
		Format:     format,
		Writer:     cmd.OutOrStdout(),
		OutputPath: b.outputPath,
	})
	if err != nil {
		return err
	}

	env.logger.WithFields(logrus.Fields{
		"submissions": len(outcome.Results),
		"rejected":    outcome.Failed,
		"skipped":     len(outcome.Skipped),
	}).Info("batch finished")
	return nil
}

// NewBatchCmd creates and returns the batch cobra command
func NewBatchCmd() *cobra.Command {
	return NewBatchCommand().CreateCobraCommand()
}
