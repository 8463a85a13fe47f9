// Package relation extracts include and extends relationships between CI configuration files
package relation

import "strings"

// Kind labels a relationship
type Kind string

const (
	// KindInclude links a file to a file it includes with `include: local`
	KindInclude Kind = "include"
	// KindExtends links a file to another file presumed to define a bare template name
	KindExtends Kind = "extends"

	localExtendsPrefix = "extends:"
)

// LocalExtends returns the kind for a dotted, in-file template reference
func LocalExtends(template string) Kind {
	return Kind(localExtendsPrefix + template)
}

// IsLocalExtends reports whether k was built by LocalExtends
func (k Kind) IsLocalExtends() bool {
	return strings.HasPrefix(string(k), localExtendsPrefix)
}

// Template returns the template name encoded in a local extends kind
func (k Kind) Template() string {
	return strings.TrimPrefix(string(k), localExtendsPrefix)
}

// Relationship is a directed edge between two files
type Relationship struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
	Kind   Kind   `json:"kind" yaml:"kind"`
}

// Pool is the ordered set of candidate file paths discovered under a root
type Pool []string
