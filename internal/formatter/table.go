package formatter

import (
	"strings"

	"github.com/alevsk/ci-scope/internal/types"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Table implements table formatting
type Table struct{}

// Markdown implements markdown formatting
type Markdown struct{}

// Format formats the report as tables using go-pretty/v6/table
func (t *Table) Format(report *types.PipelineReport) (string, error) {
	tables := buildTables(report)
	rendered := make([]string, 0, len(tables))
	for _, t := range tables {
		rendered = append(rendered, t.writer.Render())
	}
	return strings.Join(rendered, "\n\n") + "\n", nil
}

// Format formats the report as markdown tables
func (m *Markdown) Format(report *types.PipelineReport) (string, error) {
	tables := buildTables(report)
	rendered := make([]string, 0, len(tables))
	for _, t := range tables {
		rendered = append(rendered, "### "+t.title+"\n\n"+t.writer.RenderMarkdown())
	}
	return strings.Join(rendered, "\n\n") + "\n", nil
}

// titledTable keeps the title next to its writer for markdown headings
type titledTable struct {
	title  string
	writer table.Writer
}

// newTable creates a writer with the common style
func newTable(title string, header table.Row) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(nil)
	tw.SetStyle(table.StyleLight)
	tw.Style().Options.SeparateColumns = true
	tw.SetTitle(title)
	tw.AppendHeader(header)
	return tw
}

// buildTables builds the included files, stages, jobs and mapping tables
func buildTables(report *types.PipelineReport) []titledTable {
	includedTable := newTable("INCLUDED FILES", table.Row{"FILE", "PROJECT"})
	for _, inc := range report.IncludedFiles {
		includedTable.AppendRow(table.Row{inc.File, inc.Project})
	}

	stagesTable := newTable("STAGES", table.Row{"#", "STAGE"})
	for i, stage := range report.Stages {
		stagesTable.AppendRow(table.Row{i + 1, stage})
	}

	jobsTable := newTable("JOBS BY STAGE", table.Row{"STAGE", "JOB", "EXTENDS"})
	for _, group := range report.JobsByStage {
		for _, job := range group.Jobs {
			jobsTable.AppendRow(table.Row{group.Stage, job.Name, extendsText(job)})
		}
	}

	mappingTable := newTable("JOBS MAPPED TO INCLUDED FILES", table.Row{"STAGE", "JOB", "EXTENDS", "INCLUDED FILE", "PROJECT"})
	for _, group := range report.Mapping {
		for _, m := range group.Jobs {
			mappingTable.AppendRow(table.Row{group.Stage, m.Job, m.Extends, m.IncludedFile, m.Project})
		}
	}

	return []titledTable{
		{title: "Included files", writer: includedTable},
		{title: "Stages", writer: stagesTable},
		{title: "Jobs by stage", writer: jobsTable},
		{title: "Mapping jobs to included files", writer: mappingTable},
	}
}

// RelationshipTable renders the relationships of a directory scan, sorted by
// source and target
func RelationshipTable(report *types.RelationshipReport) string {
	tw := newTable("RELATIONSHIPS", table.Row{"SOURCE", "TARGET", "KIND"})
	for _, rel := range report.Relationships {
		tw.AppendRow(table.Row{rel.Source, rel.Target, string(rel.Kind)})
	}
	tw.SortBy([]table.SortBy{
		{Name: "SOURCE", Mode: table.Asc},
		{Name: "TARGET", Mode: table.Asc},
	})
	return tw.Render() + "\n"
}
