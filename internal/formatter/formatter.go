// Package formatter renders analysis reports for the terminal and for machines
package formatter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alevsk/ci-scope/internal/types"
	"gopkg.in/yaml.v3"
)

// Formatter defines the interface for formatting pipeline reports
type Formatter interface {
	Format(report *types.PipelineReport) (string, error)
}

// Type represents the type of formatter
type Type string

const (
	// TypeText formats reports as indented sections
	TypeText Type = "text"
	// TypeJSON formats data as JSON
	TypeJSON Type = "json"
	// TypeYAML formats data as YAML
	TypeYAML Type = "yaml"
	// TypeTable formats data as tables
	TypeTable Type = "table"
	// TypeMarkdown formats data as markdown tables
	TypeMarkdown Type = "markdown"
)

// Text implements sectioned plain text formatting
type Text struct{}

// JSON implements JSON formatting
type JSON struct{}

// YAML implements YAML formatting
type YAML struct{}

// Format formats the report as JSON
func (j *JSON) Format(report *types.PipelineReport) (string, error) {
	bytes, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error formatting as JSON: %w", err)
	}
	return string(bytes) + "\n", nil
}

// Format formats the report as YAML
func (y *YAML) Format(report *types.PipelineReport) (string, error) {
	bytes, err := yaml.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("error formatting as YAML: %w", err)
	}
	return string(bytes), nil
}

// Format formats the report as four indented sections
func (t *Text) Format(report *types.PipelineReport) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "\nAnalyzing GitLab CI file: %s\n\n", report.Path)

	b.WriteString("Included files:\n")
	for _, inc := range report.IncludedFiles {
		fmt.Fprintf(&b, "  - %s (from project: %s)\n", inc.File, inc.Project)
	}

	b.WriteString("\nStages defined in pipeline:\n")
	for _, stage := range report.Stages {
		fmt.Fprintf(&b, "  - %s\n", stage)
	}

	b.WriteString("\nJobs by stage:\n")
	for _, group := range report.JobsByStage {
		fmt.Fprintf(&b, "  Stage: %s\n", group.Stage)
		for _, job := range group.Jobs {
			fmt.Fprintf(&b, "    - %s (extends: %s)\n", job.Name, extendsText(job))
		}
	}

	b.WriteString("\nMapping jobs to included files:\n")
	for _, group := range report.Mapping {
		fmt.Fprintf(&b, "  Stage: %s\n", group.Stage)
		for _, m := range group.Jobs {
			fmt.Fprintf(&b, "    - Job: %s\n", m.Job)
			fmt.Fprintf(&b, "      Extends: %s\n", m.Extends)
			fmt.Fprintf(&b, "      Included file: %s\n", m.IncludedFile)
			fmt.Fprintf(&b, "      Project: %s\n\n", m.Project)
		}
	}

	return b.String(), nil
}

// extendsText renders a job's extends value as written, or None
func extendsText(job types.JobEntry) string {
	if job.ExtendsText != "" {
		return job.ExtendsText
	}
	switch len(job.Extends) {
	case 0:
		return "None"
	case 1:
		return job.Extends[0]
	default:
		return "[" + strings.Join(job.Extends, ", ") + "]"
	}
}

// ParseType converts a string to a Type
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeText, TypeJSON, TypeYAML, TypeTable, TypeMarkdown:
		return Type(s), nil
	default:
		return "", fmt.Errorf("unknown formatter type: %s", s)
	}
}

// NewFormatter creates a new formatter of the specified type
func NewFormatter(t Type) (Formatter, error) {
	switch t {
	case TypeText:
		return &Text{}, nil
	case TypeJSON:
		return &JSON{}, nil
	case TypeYAML:
		return &YAML{}, nil
	case TypeTable:
		return &Table{}, nil
	case TypeMarkdown:
		return &Markdown{}, nil
	default:
		return nil, fmt.Errorf("unknown formatter type: %s", t)
	}
}
