package pipeline

import "strings"

// MappedJob links a job to the included file presumed to define its template
type MappedJob struct {
	Job          string
	Extends      string
	IncludedFile string
	Project      string
}

// StageMapping is the list of mapped jobs of one stage
type StageMapping struct {
	Stage string
	Jobs  []MappedJob
}

// Map associates each job extending a dotted template with the first included
// file whose name contains the template name without its dot. Jobs with no
// match and jobs extending a list of templates are left out. Every stage is
// present in the result, in stage order.
func Map(stages *StageIndex, extensions JobExtensions, included *IncludedFiles) []StageMapping {
	out := make([]StageMapping, 0, stages.Len())
	for _, stage := range stages.Stages() {
		mapping := StageMapping{Stage: stage, Jobs: []MappedJob{}}
		for _, job := range stages.Jobs(stage) {
			ext, ok := extensions[job]
			if !ok {
				continue
			}
			template, ok := ext.Single()
			if !ok || !strings.HasPrefix(template, ".") {
				continue
			}
			name := template[1:]
			for _, file := range included.Files() {
				if !strings.Contains(file, name) {
					continue
				}
				project, _ := included.Project(file)
				mapping.Jobs = append(mapping.Jobs, MappedJob{
					Job:          job,
					Extends:      template,
					IncludedFile: file,
					Project:      project,
				})
				break
			}
		}
		out = append(out, mapping)
	}
	return out
}
