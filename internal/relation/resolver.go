package relation

import (
	"strings"

	"github.com/alevsk/ci-scope/internal/document"
	"github.com/alevsk/ci-scope/internal/logger"
)

// Resolver turns parsed documents into relationships
type Resolver struct {
	matcher Matcher
}

// NewResolver creates a Resolver using m, or the heuristic matcher when m is nil
func NewResolver(m Matcher) *Resolver {
	if m == nil {
		m = HeuristicMatcher{}
	}
	return &Resolver{matcher: m}
}

// Resolve extracts relationships from docs, visiting files in pool order.
// Paths without a document (parse failures) are skipped.
func (r *Resolver) Resolve(pool Pool, docs map[string]*document.Document) []Relationship {
	var rels []Relationship
	for _, path := range pool {
		doc, ok := docs[path]
		if !ok || doc == nil {
			continue
		}
		rels = append(rels, r.includes(pool, path, doc.Root)...)
		rels = append(rels, r.extends(pool, path, doc.Root)...)
	}
	return rels
}

func (r *Resolver) includes(pool Pool, path string, root *document.Value) []Relationship {
	include, ok := root.Get("include")
	if !ok {
		return nil
	}

	var entries []*document.Value
	switch include.Kind() {
	case document.KindSequence:
		entries = include.Items()
	case document.KindMapping:
		entries = []*document.Value{include}
	default:
		logger.Debug().Str("path", path).Stringer("kind", include.Kind()).Msg("skipping include of unsupported shape")
		return nil
	}

	var rels []Relationship
	for _, entry := range entries {
		localValue, ok := entry.Get("local")
		if !ok {
			continue
		}
		local, ok := localValue.Scalar()
		if !ok || local == "" {
			continue
		}
		for _, target := range r.matcher.MatchInclude(pool, local) {
			rels = append(rels, Relationship{Source: path, Target: target, Kind: KindInclude})
		}
	}
	return rels
}

func (r *Resolver) extends(pool Pool, path string, root *document.Value) []Relationship {
	var rels []Relationship
	for _, entry := range root.Entries() {
		if entry.Value.Kind() != document.KindMapping {
			continue
		}
		extendsValue, ok := entry.Value.Get("extends")
		if !ok {
			continue
		}
		templates, ok := extendsValue.Strings()
		if !ok {
			logger.Debug().Str("path", path).Str("job", entry.Key).Msg("skipping extends of unsupported shape")
			continue
		}
		for _, template := range templates {
			// An empty name would match every file
			if template == "" {
				continue
			}
			if strings.HasPrefix(template, ".") {
				rels = append(rels, Relationship{Source: path, Target: path, Kind: LocalExtends(template)})
				continue
			}
			for _, target := range r.matcher.MatchTemplate(pool, template) {
				rels = append(rels, Relationship{Source: path, Target: target, Kind: KindExtends})
			}
		}
	}
	return rels
}
