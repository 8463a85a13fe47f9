// Package pipeline groups the jobs of a single CI configuration by stage and maps
// their templates onto included files
package pipeline

import (
	"strings"

	"github.com/alevsk/ci-scope/internal/document"
	"github.com/alevsk/ci-scope/internal/logger"
)

// StageIndex maps a stage to its jobs, keeping first-seen order of both
type StageIndex struct {
	order []string
	jobs  map[string][]string
}

// NewStageIndex creates an empty StageIndex
func NewStageIndex() *StageIndex {
	return &StageIndex{jobs: make(map[string][]string)}
}

// Add appends job to stage, creating the stage on first use
func (s *StageIndex) Add(stage, job string) {
	if _, ok := s.jobs[stage]; !ok {
		s.order = append(s.order, stage)
	}
	s.jobs[stage] = append(s.jobs[stage], job)
}

// Stages returns stage names in first-seen order
func (s *StageIndex) Stages() []string {
	return s.order
}

// Jobs returns the jobs of stage in document order
func (s *StageIndex) Jobs(stage string) []string {
	return s.jobs[stage]
}

// Len returns the number of stages
func (s *StageIndex) Len() int {
	return len(s.order)
}

// Extends is a job's extends value as written: one template name or a list
type Extends struct {
	names []string
	list  bool
}

// SingleExtends builds an Extends written as a plain string
func SingleExtends(name string) Extends {
	return Extends{names: []string{name}}
}

// ListExtends builds an Extends written as a list
func ListExtends(names ...string) Extends {
	return Extends{names: names, list: true}
}

// IsList reports whether the value was written as a list
func (e Extends) IsList() bool {
	return e.list
}

// Names returns the template names in written order
func (e Extends) Names() []string {
	return e.names
}

// Single returns the template name when the value was a plain string
func (e Extends) Single() (string, bool) {
	if e.list || len(e.names) != 1 {
		return "", false
	}
	return e.names[0], true
}

// String renders the value the way it was written
func (e Extends) String() string {
	if s, ok := e.Single(); ok {
		return s
	}
	quoted := make([]string, len(e.names))
	for i, name := range e.names {
		quoted[i] = "'" + name + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// JobExtensions maps a job name to its extends value
type JobExtensions map[string]Extends

// parseExtends reads an extends value without normalising it
func parseExtends(v *document.Value) (Extends, bool) {
	switch v.Kind() {
	case document.KindScalar:
		s, _ := v.Scalar()
		return SingleExtends(s), true
	case document.KindSequence:
		names, _ := v.Strings()
		return ListExtends(names...), true
	default:
		return Extends{}, false
	}
}

// NullStage is the bucket for jobs whose stage key has no value
const NullStage = "None"

// Aggregate groups the top-level jobs of doc by their stage. Entries without a
// stage key, such as hidden templates, are not jobs and are ignored.
func Aggregate(doc *document.Document) (*StageIndex, JobExtensions) {
	stages := NewStageIndex()
	extensions := make(JobExtensions)
	if doc == nil {
		return stages, extensions
	}

	for _, entry := range doc.Root.Entries() {
		if entry.Value.Kind() != document.KindMapping {
			continue
		}
		stageValue, ok := entry.Value.Get("stage")
		if !ok {
			continue
		}
		stage, ok := stageValue.Scalar()
		if stageValue.Kind() == document.KindNull {
			stage, ok = NullStage, true
		}
		if !ok {
			logger.Debug().Str("path", doc.Path).Str("job", entry.Key).
				Stringer("kind", stageValue.Kind()).Msg("skipping job with unsupported stage")
			continue
		}
		stages.Add(stage, entry.Key)

		if extendsValue, ok := entry.Value.Get("extends"); ok {
			if ext, ok := parseExtends(extendsValue); ok {
				extensions[entry.Key] = ext
			}
		}
	}

	return stages, extensions
}
