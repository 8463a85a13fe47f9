package relation

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Matching strategies
const (
	StrategyHeuristic = "heuristic"
	StrategyExact     = "exact"
)

// ErrUnknownStrategy is returned for an unrecognised matcher strategy
var ErrUnknownStrategy = errors.New("unknown matcher strategy")

// Matcher maps references found in a document onto paths of the pool
type Matcher interface {
	// MatchInclude returns the pool paths an `include: local` value refers to
	MatchInclude(pool Pool, local string) []string
	// MatchTemplate returns the pool paths presumed to define a bare template name
	MatchTemplate(pool Pool, name string) []string
}

// HeuristicMatcher is the best-effort matcher: include paths match by suffix and
// template names match any path containing them. It over-matches; a template
// named "build" matches every path containing "build".
type HeuristicMatcher struct{}

// MatchInclude returns every pool path ending with local
func (HeuristicMatcher) MatchInclude(pool Pool, local string) []string {
	var out []string
	for _, p := range pool {
		if strings.HasSuffix(p, local) {
			out = append(out, p)
		}
	}
	return out
}

// MatchTemplate returns every pool path containing name
func (HeuristicMatcher) MatchTemplate(pool Pool, name string) []string {
	var out []string
	for _, p := range pool {
		if strings.Contains(p, name) {
			out = append(out, p)
		}
	}
	return out
}

// ExactMatcher resolves include paths against Root and matches template names
// against file names without their extension.
type ExactMatcher struct {
	Root string
}

// MatchInclude returns the pool path equal to local resolved under Root
func (m ExactMatcher) MatchInclude(pool Pool, local string) []string {
	want := filepath.Clean(filepath.Join(m.Root, filepath.FromSlash(strings.TrimPrefix(local, "/"))))
	var out []string
	for _, p := range pool {
		if filepath.Clean(p) == want {
			out = append(out, p)
		}
	}
	return out
}

// MatchTemplate returns pool paths whose base name without extension is name
func (ExactMatcher) MatchTemplate(pool Pool, name string) []string {
	var out []string
	for _, p := range pool {
		base := filepath.Base(p)
		if strings.TrimSuffix(base, filepath.Ext(base)) == name {
			out = append(out, p)
		}
	}
	return out
}

// NewMatcher returns the matcher for the named strategy. An empty strategy
// selects the heuristic matcher.
func NewMatcher(strategy, root string) (Matcher, error) {
	switch strategy {
	case "", StrategyHeuristic:
		return HeuristicMatcher{}, nil
	case StrategyExact:
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
		}
		return ExactMatcher{Root: abs}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, strategy)
	}
}
