package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
)

// OutputFormatterImpl renders reports as text, JSON, YAML or CSV
type OutputFormatterImpl struct {
	showSnippets bool
	colored      bool
}

// NewOutputFormatter creates a new output formatter.
// showSnippets adds clone snippets and generated code to text output.
func NewOutputFormatter(showSnippets, colored bool) *OutputFormatterImpl {
	return &OutputFormatterImpl{showSnippets: showSnippets, colored: colored}
}

// Format formats one report according to the specified format
func (f *OutputFormatterImpl) Format(report *domain.AnalysisReport, format domain.OutputFormat) (string, error) {
	if report == nil {
		return "", domain.NewOutputError("no report to format", nil)
	}
	switch format {
	case domain.OutputFormatText, "":
		return f.formatText(report), nil
	case domain.OutputFormatJSON:
		return EncodeJSON(report)
	case domain.OutputFormatYAML:
		return EncodeYAML(report)
	case domain.OutputFormatCSV:
		return f.formatCSV([]csvSource{{report: report}}, false)
	default:
		return "", domain.NewUnsupportedFormatError(string(format))
	}
}

// FormatBatch formats batch results, ordered by correlation id
func (f *OutputFormatterImpl) FormatBatch(results map[string]*domain.BatchResult, format domain.OutputFormat) (string, error) {
	ordered := sortedResults(results)
	switch format {
	case domain.OutputFormatText, "":
		return f.formatBatchText(ordered), nil
	case domain.OutputFormatJSON:
		return EncodeJSON(ordered)
	case domain.OutputFormatYAML:
		return EncodeYAML(ordered)
	case domain.OutputFormatCSV:
		sources := make([]csvSource, 0, len(ordered))
		for _, r := range ordered {
			sources = append(sources, csvSource{correlationID: r.CorrelationID, report: r.Report, errorCode: r.ErrorCode, errorMessage: r.ErrorMessage})
		}
		return f.formatCSV(sources, true)
	default:
		return "", domain.NewUnsupportedFormatError(string(format))
	}
}

// Write writes the formatted report to the writer
func (f *OutputFormatterImpl) Write(report *domain.AnalysisReport, format domain.OutputFormat, writer io.Writer) error {
	output, err := f.Format(report, format)
	if err != nil {
		return err
	}
	return writeString(writer, output)
}

func (f *OutputFormatterImpl) formatText(report *domain.AnalysisReport) string {
	var builder strings.Builder
	utils := NewFormatUtils(f.colored)

	builder.WriteString(utils.FormatMainHeader("Clone Analysis Report"))

	builder.WriteString(utils.FormatSectionHeader("Summary"))
	builder.WriteString(utils.FormatLabelWithIndent(SectionPadding, "Analysis ID", report.AnalysisID))
	builder.WriteString(utils.FormatLabelWithIndent(SectionPadding, "Language", report.Language))
	builder.WriteString(utils.FormatLabelWithIndent(SectionPadding, "Mode", report.Mode))
	builder.WriteString(utils.FormatLabelWithIndent(SectionPadding, "Confidence", report.Confidence))
	builder.WriteString(utils.FormatLabelWithIndent(SectionPadding, "Lines of code", report.LinesOfCode))
	builder.WriteString(utils.FormatLabelWithIndent(SectionPadding, "Clone percentage", utils.FormatPercentage(report.ClonePercentage)))
	builder.WriteString(utils.FormatLabelWithIndent(SectionPadding, "Cyclomatic complexity", formatOptional(report.CyclomaticComplexity)))
	builder.WriteString(utils.FormatLabelWithIndent(SectionPadding, "Maintainability index", utils.FormatMaintainability(report.MaintainabilityIndex)))
	builder.WriteString(utils.FormatLabelWithIndent(SectionPadding, "Execution time", fmt.Sprintf("%dms", report.ExecutionTimeMs)))
	builder.WriteString("\n")

	if len(report.Clones) > 0 {
		builder.WriteString(utils.FormatSectionHeader("Clones"))
		rows := make([][]string, 0, len(report.Clones))
		for _, c := range report.Clones {
			rows = append(rows, []string{
				shortID(c.ID),
				utils.FormatCloneType(c.Type),
				string(c.Granularity),
				fmt.Sprintf("%.2f", c.Similarity),
				formatLocations(c.Locations),
			})
		}
		RenderTable(&builder, []string{"ID", "Type", "Granularity", "Similarity", "Locations"}, rows)
		if f.showSnippets {
			for _, c := range report.Clones {
				fmt.Fprintf(&builder, "  %s (%s)\n%s\n\n", shortID(c.ID), formatLocations(c.Locations), indentBlock(c.RepresentativeSnippet, 4))
			}
		}
	} else {
		builder.WriteString(utils.FormatSectionHeader("Clones"))
		builder.WriteString(strings.Repeat(" ", SectionPadding) + "No clones found.\n\n")
	}

	if len(report.Suggestions) > 0 {
		builder.WriteString(utils.FormatSectionHeader("Refactoring Suggestions"))
		for i, s := range report.Suggestions {
			fmt.Fprintf(&builder, "  %d. %s [%s %.2f] for clone %s\n", i+1, s.RefactoringType, utils.FormatPriority(s.Priority), s.PriorityScore, shortID(s.AffectedCloneID))
			builder.WriteString(utils.FormatLabelWithIndent(5, "Remember", s.Explanation.Remember))
			builder.WriteString(utils.FormatLabelWithIndent(5, "Understand", s.Explanation.Understand))
			builder.WriteString(utils.FormatLabelWithIndent(5, "Apply", s.Explanation.Apply))
			if f.showSnippets {
				builder.WriteString("     After:\n")
				builder.WriteString(indentBlock(s.AfterCode, 7))
				builder.WriteString("\n")
			}
			builder.WriteString("\n")
		}
	}

	if len(report.Functions) > 0 {
		builder.WriteString(utils.FormatSectionHeader("Functions"))
		rows := make([][]string, 0, len(report.Functions))
		for _, fn := range report.Functions {
			rows = append(rows, []string{
				fn.Name,
				fmt.Sprintf("%d-%d", fn.StartLine, fn.EndLine),
				strconv.Itoa(fn.LinesOfCode),
				strconv.Itoa(fn.CyclomaticComplexity),
			})
		}
		RenderTable(&builder, []string{"Function", "Lines", "LOC", "Complexity"}, rows)
	}

	builder.WriteString(utils.FormatWarningsSection(report.Warnings))
	return builder.String()
}

func (f *OutputFormatterImpl) formatBatchText(results []*domain.BatchResult) string {
	var builder strings.Builder
	utils := NewFormatUtils(f.colored)

	builder.WriteString(utils.FormatMainHeader("Batch Clone Analysis"))

	failed := 0
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		if r.Report == nil {
			failed++
			rows = append(rows, []string{r.CorrelationID, "error", "", "", "", "", r.ErrorCode + ": " + r.ErrorMessage})
			continue
		}
		rep := r.Report
		rows = append(rows, []string{
			r.CorrelationID,
			"ok",
			string(rep.Language),
			strconv.Itoa(len(rep.Clones)),
			utils.FormatPercentage(rep.ClonePercentage),
			formatOptional(rep.MaintainabilityIndex),
			strings.Join(rep.Warnings, "; "),
		})
	}
	RenderTable(&builder, []string{"Submission", "Status", "Language", "Clones", "Clone %", "MI", "Notes"}, rows)

	builder.WriteString(utils.FormatSectionHeader("Summary"))
	builder.WriteString(utils.FormatLabelWithIndent(SectionPadding, "Submissions", len(results)))
	builder.WriteString(utils.FormatLabelWithIndent(SectionPadding, "Analyzed", len(results)-failed))
	builder.WriteString(utils.FormatLabelWithIndent(SectionPadding, "Rejected", failed))
	return builder.String()
}

type csvSource struct {
	correlationID string
	report        *domain.AnalysisReport
	errorCode     string
	errorMessage  string
}

// formatCSV writes one row per clone location
func (f *OutputFormatterImpl) formatCSV(sources []csvSource, batch bool) (string, error) {
	var builder strings.Builder
	writer := csv.NewWriter(&builder)

	header := []string{"analysis_id", "clone_id", "type", "granularity", "similarity", "start_line", "end_line"}
	if batch {
		header = append([]string{"correlation_id"}, append(header, "error_code", "error")...)
	}
	if err := writer.Write(header); err != nil {
		return "", domain.NewOutputError("failed to write CSV header", err)
	}

	for _, src := range sources {
		if src.report == nil {
			if batch {
				row := []string{src.correlationID, "", "", "", "", "", "", "", src.errorCode, src.errorMessage}
				if err := writer.Write(row); err != nil {
					return "", domain.NewOutputError("failed to write CSV row", err)
				}
			}
			continue
		}
		for _, c := range src.report.Clones {
			for _, loc := range c.Locations {
				row := []string{
					src.report.AnalysisID,
					c.ID,
					string(c.Type),
					string(c.Granularity),
					strconv.FormatFloat(c.Similarity, 'f', 4, 64),
					strconv.Itoa(loc.StartLine),
					strconv.Itoa(loc.EndLine),
				}
				if batch {
					row = append([]string{src.correlationID}, append(row, "", "")...)
				}
				if err := writer.Write(row); err != nil {
					return "", domain.NewOutputError("failed to write CSV row", err)
				}
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", domain.NewOutputError("failed to flush CSV", err)
	}
	return builder.String(), nil
}

// RenderTable writes a borderless left-aligned table
func RenderTable(w io.Writer, headers []string, rows [][]string) {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
				Formatting: tw.CellFormatting{AutoFormat: tw.Off},
			},
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.Border{Left: tw.Off, Right: tw.Off, Top: tw.Off, Bottom: tw.Off},
			Settings: tw.Settings{
				Separators: tw.Separators{BetweenColumns: tw.Off},
			},
		}),
	)
	table.Header(headers)
	for _, row := range rows {
		_ = table.Append(row)
	}
	_ = table.Render()
	fmt.Fprintln(w)
}

func sortedResults(results map[string]*domain.BatchResult) []*domain.BatchResult {
	out := make([]*domain.BatchResult, 0, len(results))
	for _, r := range results {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CorrelationID < out[j].CorrelationID
	})
	return out
}

func formatLocations(locations []domain.LineRange) string {
	parts := make([]string, len(locations))
	for i, loc := range locations {
		parts[i] = fmt.Sprintf("%d-%d", loc.StartLine, loc.EndLine)
	}
	return strings.Join(parts, ", ")
}

func formatOptional(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *v)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
