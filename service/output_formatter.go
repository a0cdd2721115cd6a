package service

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ludo-technologies/rscan/domain"
	"github.com/ludo-technologies/rscan/internal/constants"
)

// OutputFormatterImpl renders analysis responses as text or JSON
type OutputFormatterImpl struct {
	// ShowSuggestions controls whether advisory findings are printed in
	// text output. JSON output always carries the full response.
	ShowSuggestions bool
}

// NewOutputFormatter creates a new output formatter
func NewOutputFormatter(showSuggestions bool) *OutputFormatterImpl {
	return &OutputFormatterImpl{ShowSuggestions: showSuggestions}
}

// WriteJSON writes data as indented JSON to the writer
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Write writes the analysis response in the specified format
func (f *OutputFormatterImpl) Write(response *domain.AnalyzeResponse, format string, writer io.Writer) error {
	switch format {
	case constants.OutputFormatJSON:
		return WriteJSON(writer, response)
	case constants.OutputFormatText, "":
		return f.writeText(response, writer)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func (f *OutputFormatterImpl) writeText(response *domain.AnalyzeResponse, writer io.Writer) error {
	if response.Error != nil {
		_, err := fmt.Fprintf(writer, "error [%s]: %s\n", response.Error.Code, response.Error.Message)
		return err
	}

	files := make([]string, 0, len(response.DiagnosticsByFile))
	for file := range response.DiagnosticsByFile {
		files = append(files, file)
	}
	sort.Strings(files)

	var errors, warnings, suggestions int
	for _, file := range files {
		diags := response.DiagnosticsByFile[file]
		printed := false
		for _, d := range diags {
			switch {
			case d.Suggestion:
				suggestions++
			case d.Level == domain.SeverityError:
				errors++
			case d.Level == domain.SeverityWarn:
				warnings++
			}
			if d.Suggestion && !f.ShowSuggestions {
				continue
			}
			if !printed {
				if _, err := fmt.Fprintf(writer, "%s\n", file); err != nil {
					return err
				}
				printed = true
			}
			if _, err := fmt.Fprintf(writer, "  %s\n", formatDiagnostic(d)); err != nil {
				return err
			}
		}
	}

	if _, err := fmt.Fprintf(writer, "\n%d files analyzed: %d errors, %d warnings, %d suggestions (%.1fms)\n",
		len(response.DiagnosticsByFile), errors, warnings, suggestions, response.Duration); err != nil {
		return err
	}
	if len(response.RulesExecuted) > 0 {
		if _, err := fmt.Fprintf(writer, "rules: %s\n", strings.Join(response.RulesExecuted, ", ")); err != nil {
			return err
		}
	}
	return nil
}

func formatDiagnostic(d domain.Diagnostic) string {
	level := string(d.Level)
	if d.Suggestion {
		level = "suggestion"
	}
	pos := ""
	if d.Loc != nil && d.Loc.Range != nil {
		pos = fmt.Sprintf(" [%d-%d]", d.Loc.Range.From, d.Loc.Range.To)
	}
	rule := d.Rule
	if rule == "" {
		rule = "suggestion"
	}
	return fmt.Sprintf("%-7s %s%s  %s", level, rule, pos, d.Message)
}
