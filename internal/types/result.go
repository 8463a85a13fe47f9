// Package types holds the report structures shared by the formatter and the API
package types

import "github.com/alevsk/ci-scope/internal/relation"

// ParseFailure records a file that could not be loaded
type ParseFailure struct {
	Path    string `json:"path" yaml:"path"`
	Message string `json:"message" yaml:"message"`
}

// GraphEdge is a single edge of the rendered dependency graph
type GraphEdge struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
	Kind   string `json:"kind" yaml:"kind"`
}

// RelationshipReport is the outcome of scanning a directory tree
type RelationshipReport struct {
	Root          string                  `json:"root" yaml:"root"`
	Files         []string                `json:"files" yaml:"files"`
	Relationships []relation.Relationship `json:"relationships" yaml:"relationships"`
	Nodes         []string                `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	Edges         []GraphEdge             `json:"edges,omitempty" yaml:"edges,omitempty"`
	Failures      []ParseFailure          `json:"failures,omitempty" yaml:"failures,omitempty"`
	Timestamp     int64                   `json:"timestamp" yaml:"timestamp"`
}

// IncludedFile is a file pulled in from another project
type IncludedFile struct {
	File    string `json:"file" yaml:"file"`
	Project string `json:"project" yaml:"project"`
}

// JobEntry is a job and the templates it extends
type JobEntry struct {
	Name string `json:"name" yaml:"name"`
	// Extends lists the template names, empty when the job extends nothing
	Extends []string `json:"extends,omitempty" yaml:"extends,omitempty"`
	// ExtendsText is the extends value as written
	ExtendsText string `json:"-" yaml:"-"`
}

// StageJobs groups jobs under one stage
type StageJobs struct {
	Stage string     `json:"stage" yaml:"stage"`
	Jobs  []JobEntry `json:"jobs" yaml:"jobs"`
}

// MappedJob links a job to the included file presumed to define its template
type MappedJob struct {
	Job          string `json:"job" yaml:"job"`
	Extends      string `json:"extends" yaml:"extends"`
	IncludedFile string `json:"includedFile" yaml:"includedFile"`
	Project      string `json:"project" yaml:"project"`
}

// StageMappedJobs groups mapped jobs under one stage
type StageMappedJobs struct {
	Stage string      `json:"stage" yaml:"stage"`
	Jobs  []MappedJob `json:"jobs" yaml:"jobs"`
}

// PipelineReport is the outcome of analyzing a single pipeline file
type PipelineReport struct {
	Path          string            `json:"path" yaml:"path"`
	IncludedFiles []IncludedFile    `json:"includedFiles" yaml:"includedFiles"`
	Stages        []string          `json:"stages" yaml:"stages"`
	JobsByStage   []StageJobs       `json:"jobsByStage" yaml:"jobsByStage"`
	Mapping       []StageMappedJobs `json:"mapping" yaml:"mapping"`
}
