package service

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
)

// EncodeJSON returns an indented JSON string for the given value.
func EncodeJSON(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", domain.NewOutputError("failed to marshal JSON", err)
	}
	return string(data) + "\n", nil
}

// EncodeYAML returns a YAML string for the given value.
func EncodeYAML(v interface{}) (string, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "", domain.NewOutputError("failed to marshal YAML", err)
	}
	return string(data), nil
}

// Standard formatting constants
const (
	HeaderWidth    = 40
	SectionPadding = 2
)

// FormatUtils provides shared text formatting helpers
type FormatUtils struct {
	bold   *color.Color
	red    *color.Color
	yellow *color.Color
	green  *color.Color
}

// NewFormatUtils creates format helpers; colored=false renders plain text
func NewFormatUtils(colored bool) *FormatUtils {
	u := &FormatUtils{
		bold:   color.New(color.Bold),
		red:    color.New(color.FgRed),
		yellow: color.New(color.FgYellow),
		green:  color.New(color.FgGreen),
	}
	if colored {
		for _, c := range []*color.Color{u.bold, u.red, u.yellow, u.green} {
			c.EnableColor()
		}
	} else {
		for _, c := range []*color.Color{u.bold, u.red, u.yellow, u.green} {
			c.DisableColor()
		}
	}
	return u
}

// FormatMainHeader creates a standardized main header
func (f *FormatUtils) FormatMainHeader(title string) string {
	return f.bold.Sprint(title) + "\n" + strings.Repeat("=", HeaderWidth) + "\n\n"
}

// FormatSectionHeader creates a standardized section header
func (f *FormatUtils) FormatSectionHeader(title string) string {
	return f.bold.Sprint(strings.ToUpper(title)) + "\n" + strings.Repeat("-", len(title)) + "\n"
}

// FormatLabelWithIndent creates a formatted label with specific indentation
func (f *FormatUtils) FormatLabelWithIndent(indent int, label string, value interface{}) string {
	return fmt.Sprintf("%s%s: %v\n", strings.Repeat(" ", indent), label, value)
}

// FormatPercentage formats a percentage value consistently
func (f *FormatUtils) FormatPercentage(value float64) string {
	return fmt.Sprintf("%.1f%%", value)
}

// FormatCloneType colors a clone type by severity
func (f *FormatUtils) FormatCloneType(t domain.CloneType) string {
	switch t {
	case domain.CloneTypeExact:
		return f.red.Sprint(string(t))
	case domain.CloneTypeRenamed:
		return f.yellow.Sprint(string(t))
	default:
		return string(t)
	}
}

// FormatPriority colors a priority label
func (f *FormatUtils) FormatPriority(label string) string {
	switch label {
	case "high":
		return f.red.Sprint(label)
	case "medium":
		return f.yellow.Sprint(label)
	default:
		return f.green.Sprint(label)
	}
}

// FormatMaintainability colors a maintainability index; higher is better
func (f *FormatUtils) FormatMaintainability(mi *float64) string {
	if mi == nil {
		return "n/a"
	}
	text := fmt.Sprintf("%.2f", *mi)
	switch {
	case *mi >= 65:
		return f.green.Sprint(text)
	case *mi >= 40:
		return f.yellow.Sprint(text)
	default:
		return f.red.Sprint(text)
	}
}

// FormatWarningsSection creates a standardized warnings section
func (f *FormatUtils) FormatWarningsSection(warnings []string) string {
	if len(warnings) == 0 {
		return ""
	}
	var builder strings.Builder
	builder.WriteString(f.FormatSectionHeader("Warnings"))
	for _, warning := range warnings {
		builder.WriteString(strings.Repeat(" ", SectionPadding) + f.yellow.Sprint("! ") + warning + "\n")
	}
	builder.WriteString("\n")
	return builder.String()
}

// indentBlock prefixes every line of text
func indentBlock(text string, indent int) string {
	pad := strings.Repeat(" ", indent)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = pad + line
		}
	}
	return strings.Join(lines, "\n")
}

func writeString(w io.Writer, s string) error {
	if _, err := io.WriteString(w, s); err != nil {
		return domain.NewOutputError("failed to write output", err)
	}
	return nil
}
