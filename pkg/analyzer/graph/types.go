package graph

import (
	"sort"

	"github.com/panbanda/cochange/pkg/models"
)

// Neighbor is one side of a weighted undirected edge.
type Neighbor struct {
	Path   string
	Weight float64
	Count  int
}

// Graph is an undirected weighted coupling graph over file paths,
// backed by an adjacency map sized for the operations this engine
// needs: weighted degree, threshold-filtered traversal, edge listing.
// There are no self-loops and every materialized edge has weight > 0.
type Graph struct {
	nodes []string
	index map[string]struct{}
	adj   map[string][]Neighbor
	edges []models.GraphEdge
}

// NodeCount returns the number of nodes, including isolated ones.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of materialized edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Nodes returns all node paths in lexical order.
func (g *Graph) Nodes() []string { return g.nodes }

// Edges returns all edges ordered by (FileA, FileB).
func (g *Graph) Edges() []models.GraphEdge { return g.edges }

// Neighbors returns the adjacency list of a node in lexical order.
func (g *Graph) Neighbors(path string) []Neighbor { return g.adj[path] }

// HasNode reports whether the file was observed in any commit.
func (g *Graph) HasNode(path string) bool {
	_, ok := g.index[path]
	return ok
}

// HasEdge reports whether a qualifying edge links the two files.
func (g *Graph) HasEdge(a, b string) bool {
	if a == b {
		return false
	}
	for _, n := range g.adj[a] {
		if n.Path == b {
			return true
		}
	}
	return false
}

// WeightedDegree returns the sum of incident edge weights.
func (g *Graph) WeightedDegree(path string) float64 {
	var sum float64
	for _, n := range g.adj[path] {
		sum += n.Weight
	}
	return sum
}

func (g *Graph) sortAdjacency() {
	for _, neighbors := range g.adj {
		sort.Slice(neighbors, func(i, j int) bool {
			return neighbors[i].Path < neighbors[j].Path
		})
	}
	sort.Slice(g.edges, func(i, j int) bool {
		if g.edges[i].FileA != g.edges[j].FileA {
			return g.edges[i].FileA < g.edges[j].FileA
		}
		return g.edges[i].FileB < g.edges[j].FileB
	})
}
