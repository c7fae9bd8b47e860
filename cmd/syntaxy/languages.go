package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
	"github.com/Gabzxcv/Syntaxy-FL/internal/parser"
	"github.com/Gabzxcv/Syntaxy-FL/service"
)

// NewLanguagesCmd creates the languages command
func NewLanguagesCmd() *cobra.Command {
	var formatName string
	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List supported languages",
		Long: `List the languages syntaxy can analyze.

Languages with confidence "assumed" are handled by the lexical front-end:
their syntax is not validated and their metrics are approximate.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := domain.ParseOutputFormat(formatName)
			if err != nil {
				return err
			}
			languages := parser.DefaultRegistry().Languages()
			return writeLanguages(cmd, languages, format)
		},
	}
	cmd.Flags().StringVarP(&formatName, "format", "f", "text", "Output format: text, json, yaml")
	return cmd
}

func writeLanguages(cmd *cobra.Command, languages []domain.LanguageInfo, format domain.OutputFormat) error {
	out := cmd.OutOrStdout()
	var (
		data string
		err  error
	)
	switch format {
	case domain.OutputFormatJSON:
		data, err = service.EncodeJSON(languages)
	case domain.OutputFormatYAML:
		data, err = service.EncodeYAML(languages)
	case domain.OutputFormatText:
		rows := make([][]string, 0, len(languages))
		for _, lang := range languages {
			rows = append(rows, []string{string(lang.Code), lang.Name, string(lang.Confidence), strings.Join(lang.Extensions, " ")})
		}
		service.RenderTable(out, []string{"Code", "Name", "Confidence", "Extensions"}, rows)
		return nil
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(out, data)
	return err
}
