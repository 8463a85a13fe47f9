// Package analyzer wires discovery, loading and resolution into the two analyses
// the tool offers: a relationship scan of a directory tree and a breakdown of a
// single pipeline file
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alevsk/ci-scope/internal/discovery"
	"github.com/alevsk/ci-scope/internal/document"
	"github.com/alevsk/ci-scope/internal/graph"
	"github.com/alevsk/ci-scope/internal/logger"
	"github.com/alevsk/ci-scope/internal/pipeline"
	"github.com/alevsk/ci-scope/internal/relation"
	"github.com/alevsk/ci-scope/internal/types"
)

// Options holds configuration for the analyzer
type Options struct {
	// Root is the directory scanned for pipeline files
	Root string
	// Pattern is the discovery glob, relative to Root
	Pattern string
	// Matcher names the reference matching strategy
	Matcher string
}

// DefaultOptions returns the default analyzer options
func DefaultOptions() *Options {
	return &Options{
		Root:    ".",
		Pattern: discovery.DefaultPattern,
		Matcher: relation.StrategyHeuristic,
	}
}

// Error types for analysis operations
var (
	ErrFileNotFound = errors.New("file not found")
	ErrOutsideRoot  = errors.New("path is outside the root directory")
)

// Scan is the outcome of a relationship scan
type Scan struct {
	Root          string
	Files         relation.Pool
	Relationships []relation.Relationship
	Failures      []types.ParseFailure
	Graph         *graph.DependencyGraph
}

// Report converts the scan into its serializable form
func (s *Scan) Report() *types.RelationshipReport {
	report := &types.RelationshipReport{
		Root:          s.Root,
		Files:         s.Files,
		Relationships: s.Relationships,
		Failures:      s.Failures,
		Timestamp:     time.Now().Unix(),
	}
	if s.Graph != nil {
		report.Nodes = s.Graph.Nodes()
		report.Edges = s.Graph.Edges()
	}
	return report
}

// Analyzer runs analyses over a directory tree
type Analyzer struct {
	opts     *Options
	finder   discovery.Finder
	loader   document.Loader
	resolver *relation.Resolver
}

// New creates a new Analyzer with the given options
func New(opts *Options) (*Analyzer, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Root == "" {
		opts.Root = "."
	}

	finder, err := discovery.NewGlobFinder(opts.Pattern)
	if err != nil {
		return nil, err
	}
	matcher, err := relation.NewMatcher(opts.Matcher, opts.Root)
	if err != nil {
		return nil, err
	}

	return &Analyzer{
		opts:     opts,
		finder:   finder,
		loader:   document.NewFileLoader(false),
		resolver: relation.NewResolver(matcher),
	}, nil
}

// Root returns the directory the analyzer scans
func (a *Analyzer) Root() string {
	return a.opts.Root
}

// Scan discovers every pipeline file under the root, parses each once, and
// resolves relationships between them. A file that fails to load is logged and
// skipped.
func (a *Analyzer) Scan(ctx context.Context) (*Scan, error) {
	files, err := a.finder.Find(ctx, a.opts.Root)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("root", a.opts.Root).Int("files", len(files)).Msg("discovered pipeline files")

	scan := &Scan{Root: a.opts.Root, Files: relation.Pool(files)}
	docs := make(map[string]*document.Document, len(files))
	for _, path := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		doc, err := a.loader.Load(path)
		if err != nil {
			// Empty files carry no references; only real failures are reported
			if !errors.Is(err, document.ErrEmptyDocument) {
				logger.Warn().Str("path", path).Err(err).Msg("error parsing file")
				scan.Failures = append(scan.Failures, types.ParseFailure{Path: path, Message: err.Error()})
			}
			continue
		}
		docs[path] = doc
	}

	scan.Relationships = a.resolver.Resolve(scan.Files, docs)
	logger.Debug().Int("relationships", len(scan.Relationships)).Msg("resolved relationships")

	scan.Graph, err = graph.Build(scan.Relationships)
	if err != nil {
		return nil, fmt.Errorf("failed to build graph: %w", err)
	}

	return scan, nil
}

// Pipeline loads a single pipeline file and breaks it down by stage. Invalid
// UTF-8 in the file is dropped rather than rejected.
func (a *Analyzer) Pipeline(ctx context.Context, path string) (*pipeline.Analysis, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	doc, err := document.NewFileLoader(true).Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	return pipeline.Analyze(doc)
}

// PipelineInRoot resolves rel against the root, refusing paths that escape it,
// and analyzes the result
func (a *Analyzer) PipelineInRoot(ctx context.Context, rel string) (*pipeline.Analysis, error) {
	root, err := filepath.Abs(a.opts.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root: %w", err)
	}
	path := filepath.Join(root, filepath.FromSlash(rel))
	inside, err := filepath.Rel(root, path)
	if err != nil || inside == ".." || strings.HasPrefix(inside, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("%w: %s", ErrOutsideRoot, rel)
	}
	return a.Pipeline(ctx, path)
}

