// Package graph builds the file dependency graph drawn from relationships
package graph

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"

	graphlib "github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"

	"github.com/alevsk/ci-scope/internal/relation"
	"github.com/alevsk/ci-scope/internal/types"
)

const kindAttribute = "label"

// DependencyGraph is a directed graph keyed by file base names. Relationships
// between the same pair of names share one edge carrying the last kind seen.
type DependencyGraph struct {
	g             graphlib.Graph[string, string]
	relationships int
}

// ShortName returns the node identifier for path
func ShortName(path string) string {
	return filepath.Base(path)
}

// Build adds one node per distinct short name and one edge per relationship.
// Cycles, including self-loops, are kept.
func Build(rels []relation.Relationship) (*DependencyGraph, error) {
	d := &DependencyGraph{
		g: graphlib.New(graphlib.StringHash, graphlib.Directed()),
	}
	for _, rel := range rels {
		if err := d.Add(rel); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Add inserts rel into the graph
func (d *DependencyGraph) Add(rel relation.Relationship) error {
	source := ShortName(rel.Source)
	target := ShortName(rel.Target)

	for _, node := range []string{source, target} {
		if err := d.g.AddVertex(node); err != nil && !errors.Is(err, graphlib.ErrVertexAlreadyExists) {
			return fmt.Errorf("failed to add node %s: %w", node, err)
		}
	}

	attr := graphlib.EdgeAttribute(kindAttribute, string(rel.Kind))
	err := d.g.AddEdge(source, target, attr)
	if errors.Is(err, graphlib.ErrEdgeAlreadyExists) {
		err = d.g.UpdateEdge(source, target, attr)
	}
	if err != nil {
		return fmt.Errorf("failed to add edge %s -> %s: %w", source, target, err)
	}

	d.relationships++
	return nil
}

// Relationships returns how many relationships were added
func (d *DependencyGraph) Relationships() int {
	return d.relationships
}

// Nodes returns the node identifiers sorted by name
func (d *DependencyGraph) Nodes() []string {
	adjacency, err := d.g.AdjacencyMap()
	if err != nil {
		return nil
	}
	nodes := make([]string, 0, len(adjacency))
	for node := range adjacency {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	return nodes
}

// Edges returns the edges sorted by source then target
func (d *DependencyGraph) Edges() []types.GraphEdge {
	adjacency, err := d.g.AdjacencyMap()
	if err != nil {
		return nil
	}
	var edges []types.GraphEdge
	for source, targets := range adjacency {
		for target, edge := range targets {
			edges = append(edges, types.GraphEdge{
				Source: source,
				Target: target,
				Kind:   edge.Properties.Attributes[kindAttribute],
			})
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Target < edges[j].Target
	})
	return edges
}

// HasEdge reports whether an edge source -> target exists
func (d *DependencyGraph) HasEdge(source, target string) bool {
	_, err := d.g.Edge(source, target)
	return err == nil
}

// WriteDOT writes the graph in Graphviz DOT format
func (d *DependencyGraph) WriteDOT(w io.Writer) error {
	if err := draw.DOT(d.g, w); err != nil {
		return fmt.Errorf("failed to write DOT: %w", err)
	}
	return nil
}
