package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Gabzxcv/Syntaxy-FL/app"
	"github.com/Gabzxcv/Syntaxy-FL/domain"
	"github.com/Gabzxcv/Syntaxy-FL/service"
)

// AnalyzeCommand analyzes one submission
type AnalyzeCommand struct {
	language   string
	outputPath string
}

// NewAnalyzeCommand creates a new analyze command
func NewAnalyzeCommand() *AnalyzeCommand {
	return &AnalyzeCommand{}
}

// CreateCobraCommand creates the cobra command for single-submission analysis
func (a *AnalyzeCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <file|->",
		Short: "Detect clones in one submission",
		Long: `Analyze a single source file for duplicated code.

The language is taken from the file extension unless --language is given.
Use "-" to read the source from stdin; --language is then required.

Exit codes:
  0  analysis finished
  1  internal failure
  2  the input was rejected (syntax error, unsupported language, budget exceeded)

Examples:
  syntaxy analyze submission.py
  syntaxy analyze --mode exact --format json Main.java
  cat snippet.js | syntaxy analyze --language javascript -`,
		Args: cobra.ExactArgs(1),
		RunE: a.runAnalyze,
	}

	addAnalysisFlags(cmd, &a.language)
	addOutputFlags(cmd, &a.outputPath)
	return cmd
}

func (a *AnalyzeCommand) runAnalyze(cmd *cobra.Command, args []string) error {
	env, err := loadRuntime(cmd)
	if err != nil {
		return err
	}

	source, language, err := a.readSubmission(cmd, env, args[0])
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

	useCase := app.NewAnalyzeUseCase(analysisService, formatter, service.NewFileOutputWriter(cmd.ErrOrStderr()), store, env.logger)

	metadata := map[string]string{}
	if args[0] != "-" {
		metadata["path"] = args[0]
	}
	_, err = useCase.Execute(commandContext(cmd), app.AnalyzeInput{
		Request: domain.AnalysisRequest{
			Source:   source,
			Language: language,
			Metadata: metadata,
		},
		Format:     format,
		Writer:     cmd.OutOrStdout(),
		OutputPath: a.outputPath,
	})
	return err
}

// readSubmission loads the source text and resolves its language
func (a *AnalyzeCommand) readSubmission(cmd *cobra.Command, env *runtimeEnv, path string) (string, domain.Language, error) {
	language := domain.NormalizeLanguage(a.language)

	var data []byte
	var err error
	if path == "-" {
		if language == "" {
			return "", "", newUsageError("--language is required when reading from stdin")
		}
		data, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", domain.NewInvalidInputError("failed to read stdin", err)
		}
		return string(data), language, nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return "", "", domain.NewFileNotFoundError(path, err)
	}
	if language == "" {
		lang, ok := env.registry.LanguageForExtension(strings.ToLower(filepath.Ext(path)))
		if !ok {
			return "", "", newUsageError("cannot infer the language of %s; use --language", path)
		}
		language = lang
	}
	return string(data), language, nil
}

// commandContext returns the command context, or a background context
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// NewAnalyzeCmd creates and returns the analyze cobra command
func NewAnalyzeCmd() *cobra.Command {
	return NewAnalyzeCommand().CreateCobraCommand()
}
