package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
	"github.com/Gabzxcv/Syntaxy-FL/internal/config"
	"github.com/Gabzxcv/Syntaxy-FL/internal/logging"
	"github.com/Gabzxcv/Syntaxy-FL/internal/parser"
	"github.com/Gabzxcv/Syntaxy-FL/service"
)

// runtimeEnv holds what every analysis command needs
type runtimeEnv struct {
	cfg      *config.Config
	logger   *logrus.Logger
	registry *parser.Registry
}

// loadRuntime loads configuration for cmd and builds its logger.
// Flags that were set on the command line win over file and environment.
func loadRuntime(cmd *cobra.Command) (*runtimeEnv, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(configPath, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if f := cmd.Flags().Lookup("store"); f != nil && f.Changed {
		cfg.Store.Enabled = true
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Logging.Level = "debug"
	}

	logger, err := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, domain.NewConfigError("invalid logging configuration", err)
	}
	return &runtimeEnv{cfg: cfg, logger: logger, registry: parser.DefaultRegistry()}, nil
}

// analysisService builds the pipeline, wrapped by the result cache when enabled
func (r *runtimeEnv) analysisService() (domain.AnalysisService, error) {
	base := service.NewAnalysisService(r.registry, r.cfg.Analysis, r.logger)
	if !r.cfg.Cache.Enabled {
		return base, nil
	}
	cached, err := service.NewCachedAnalysisService(base, r.cfg.Cache.Size, r.cfg.Analysis.Mode, r.logger)
	if err != nil {
		return nil, err
	}
	return cached, nil
}

// reportStore opens the report store, or returns nil when it is disabled
func (r *runtimeEnv) reportStore() (domain.ReportStore, error) {
	if !r.cfg.Store.Enabled {
		return nil, nil
	}
	store, err := service.OpenReportStore(r.cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	r.logger.WithField("path", r.cfg.Store.Path).Debug("report store opened")
	return store, nil
}

// formatter builds the output formatter for the configured output settings
func (r *runtimeEnv) formatter(cmd *cobra.Command) (domain.OutputFormatter, domain.OutputFormat, error) {
	format, err := domain.ParseOutputFormat(r.cfg.Output.Format)
	if err != nil {
		return nil, "", err
	}
	colored := !r.cfg.Output.NoColor && service.IsInteractive(cmd.OutOrStdout())
	return service.NewOutputFormatter(r.cfg.Output.ShowSnippets, colored), format, nil
}

func closeStore(store domain.ReportStore, logger *logrus.Logger) {
	if store == nil {
		return
	}
	if err := store.Close(); err != nil {
		logger.WithError(err).Warn("failed to close report store")
	}
}

// addOutputFlags registers the flags shared by commands that render reports
func addOutputFlags(cmd *cobra.Command, output *string) {
	cmd.Flags().StringP("format", "f", "", "Output format: text, json, yaml, csv")
	cmd.Flags().Bool("snippets", false, "Show clone snippets and suggested code in text output")
	cmd.Flags().Bool("no-color", false, "Disable colored output")
	cmd.Flags().StringVarP(output, "output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().String("store", "", "Save reports to the bbolt database at this path")
}

// addAnalysisFlags registers the detector overrides
func addAnalysisFlags(cmd *cobra.Command, language *string) {
	cmd.Flags().StringVarP(language, "language", "l", "", "Source language (default: from file extension)")
	cmd.Flags().StringP("mode", "m", "", "Normalization mode: exact or near_miss")
	cmd.Flags().Float64P("threshold", "t", 0, "Similarity threshold in [0,1] (default: mode default)")
	cmd.Flags().Int64("timeout-ms", 0, "Per-submission time budget in milliseconds")
}
