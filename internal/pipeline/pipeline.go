package pipeline

import (
	"fmt"
	"sort"

	"github.com/alevsk/ci-scope/internal/document"
	"github.com/alevsk/ci-scope/internal/types"
)

// Analysis is the stage and template breakdown of one pipeline file
type Analysis struct {
	Path           string
	IncludedFiles  *IncludedFiles
	DeclaredStages []string
	Stages         *StageIndex
	Extensions     JobExtensions
	Mapping        []StageMapping
}

// Analyze builds the full breakdown of doc. The document root must be a mapping.
func Analyze(doc *document.Document) (*Analysis, error) {
	if doc == nil {
		return nil, document.ErrEmptyDocument
	}
	if err := doc.Root.Expect(document.KindMapping); err != nil {
		return nil, fmt.Errorf("%s: %w", doc.Path, err)
	}

	var declared []string
	if v, ok := doc.Root.Get("stages"); ok && v.Kind() == document.KindSequence {
		declared, _ = v.Strings()
	}

	included := IndexIncludes(doc)
	stages, extensions := Aggregate(doc)

	return &Analysis{
		Path:           doc.Path,
		IncludedFiles:  included,
		DeclaredStages: declared,
		Stages:         stages,
		Extensions:     extensions,
		Mapping:        Map(stages, extensions, included),
	}, nil
}

// StageNames returns the declared stages, or the stages jobs use sorted by name
// when the file declares none
func (a *Analysis) StageNames() []string {
	if len(a.DeclaredStages) > 0 {
		return a.DeclaredStages
	}
	names := append([]string(nil), a.Stages.Stages()...)
	sort.Strings(names)
	return names
}

// Report converts the analysis into its serializable form
func (a *Analysis) Report() *types.PipelineReport {
	report := &types.PipelineReport{
		Path:   a.Path,
		Stages: a.StageNames(),
	}

	for _, file := range a.IncludedFiles.Files() {
		project, _ := a.IncludedFiles.Project(file)
		report.IncludedFiles = append(report.IncludedFiles, types.IncludedFile{File: file, Project: project})
	}

	for _, stage := range a.Stages.Stages() {
		group := types.StageJobs{Stage: stage}
		for _, job := range a.Stages.Jobs(stage) {
			entry := types.JobEntry{Name: job}
			if ext, ok := a.Extensions[job]; ok {
				entry.Extends = ext.Names()
				entry.ExtendsText = ext.String()
			}
			group.Jobs = append(group.Jobs, entry)
		}
		report.JobsByStage = append(report.JobsByStage, group)
	}

	for _, m := range a.Mapping {
		group := types.StageMappedJobs{Stage: m.Stage}
		for _, job := range m.Jobs {
			group.Jobs = append(group.Jobs, types.MappedJob(job))
		}
		report.Mapping = append(report.Mapping, group)
	}

	return report
}
