// Package graph builds the coupling graph from aggregated pair weights
// and derives structure from it: centrality, clusters, hotspots and
// bridges.
package graph

import (
	"sort"

	"github.com/panbanda/cochange/pkg/analyzer/cochange"
	"github.com/panbanda/cochange/pkg/models"
)

// Builder materializes a Graph from aggregated pair statistics.
type Builder struct {
	minWeight    float64
	minCochanges int
}

// BuilderOption is a functional option for configuring Builder.
type BuilderOption func(*Builder)

// WithMinWeight sets the minimum accumulated weight for an edge.
func WithMinWeight(w float64) BuilderOption {
	return func(b *Builder) {
		b.minWeight = w
	}
}

// WithMinCochanges sets the minimum raw co-change count for an edge.
func WithMinCochanges(n int) BuilderOption {
	return func(b *Builder) {
		b.minCochanges = n
	}
}

// NewBuilder creates a graph builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		minWeight:    0.5,
		minCochanges: 3,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build constructs the coupling graph. Every file observed in any commit
// becomes a node; an edge is materialized only when both the raw count
// and the accumulated weight clear their thresholds. One-off coincidental
// co-changes are suppressed, genuinely repeated ones survive even when
// each occurrence sat in a moderately large commit.
func (b *Builder) Build(res *cochange.Result) *Graph {
	g := &Graph{
		index: make(map[string]struct{}),
		adj:   make(map[string][]Neighbor),
	}
	if res == nil {
		return g
	}

	for file := range res.FileCommits {
		g.index[file] = struct{}{}
		g.nodes = append(g.nodes, file)
	}
	sort.Strings(g.nodes)

	for pair, stat := range res.Pairs {
		if stat.Count < b.minCochanges || stat.Weight < b.minWeight {
			continue
		}
		g.edges = append(g.edges, models.GraphEdge{
			FileA:     pair.A,
			FileB:     pair.B,
			Weight:    stat.Weight,
			Cochanges: stat.Count,
		})
		g.adj[pair.A] = append(g.adj[pair.A], Neighbor{Path: pair.B, Weight: stat.Weight, Count: stat.Count})
		g.adj[pair.B] = append(g.adj[pair.B], Neighbor{Path: pair.A, Weight: stat.Weight, Count: stat.Count})
	}
	g.sortAdjacency()
	return g
}
