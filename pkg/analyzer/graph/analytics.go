package graph

import (
	"context"
	"runtime"
	"sort"

	"github.com/panbanda/cochange/pkg/models"
	"github.com/sourcegraph/conc/pool"
	"gonum.org/v1/gonum/stat"
)

// Analytics derives structure from a coupling graph.
type Analytics struct {
	strongEdge        float64
	hotspotPercentile float64
	workers           int
}

// AnalyticsOption is a functional option for configuring Analytics.
type AnalyticsOption func(*Analytics)

// WithStrongEdgeWeight sets the clustering threshold. Edges below it
// still exist in the graph but do not bind files into one cluster.
func WithStrongEdgeWeight(w float64) AnalyticsOption {
	return func(a *Analytics) {
		a.strongEdge = w
	}
}

// WithHotspotPercentile sets the centrality percentile for hotspots.
func WithHotspotPercentile(p float64) AnalyticsOption {
	return func(a *Analytics) {
		a.hotspotPercentile = p
	}
}

// WithWorkers sets the worker count for per-cluster scoring.
func WithWorkers(n int) AnalyticsOption {
	return func(a *Analytics) {
		a.workers = n
	}
}

// NewAnalytics creates a graph analytics engine.
func NewAnalytics(opts ...AnalyticsOption) *Analytics {
	a := &Analytics{
		strongEdge:        2.0,
		hotspotPercentile: 0.95,
		workers:           runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.workers <= 0 {
		a.workers = runtime.NumCPU()
	}
	return a
}

// Analysis is the analytics output over one graph.
type Analysis struct {
	Nodes    []models.GraphNode
	Edges    []models.GraphEdge
	Clusters []models.Cluster
	Hotspots []string
	Bridges  []models.GraphEdge
}

// Analyze computes centrality, clusters, hotspots and bridges.
// All computations return empty results on an empty graph.
func (a *Analytics) Analyze(ctx context.Context, g *Graph) *Analysis {
	res := &Analysis{}
	if g == nil || g.NodeCount() == 0 {
		return res
	}

	nodes, rawCounts := a.centrality(g)
	clusterOf := a.clusterMembership(g)
	res.Clusters = a.scoreClusters(ctx, g, clusterOf)

	for i := range nodes {
		if id, ok := clusterOf[nodes[i].Path]; ok {
			nodes[i].Cluster = id
		}
	}

	res.Hotspots = a.hotspots(nodes, rawCounts)
	hot := make(map[string]struct{}, len(res.Hotspots))
	for _, h := range res.Hotspots {
		hot[h] = struct{}{}
	}
	for i := range nodes {
		_, nodes[i].Hotspot = hot[nodes[i].Path]
	}
	res.Nodes = nodes

	res.Edges = make([]models.GraphEdge, len(g.Edges()))
	copy(res.Edges, g.Edges())
	for i := range res.Edges {
		ca, okA := clusterOf[res.Edges[i].FileA]
		cb, okB := clusterOf[res.Edges[i].FileB]
		if okA && okB && ca != cb {
			res.Edges[i].Bridge = true
			res.Bridges = append(res.Bridges, res.Edges[i])
		}
	}
	return res
}

// centrality computes normalized degree-weighted centrality per node.
// Returns the node list in lexical order plus each node's summed raw
// co-change count, used only for hotspot tie-breaking.
func (a *Analytics) centrality(g *Graph) ([]models.GraphNode, map[string]int) {
	nodes := make([]models.GraphNode, 0, g.NodeCount())
	rawCounts := make(map[string]int, g.NodeCount())

	var maxWeighted float64
	for _, path := range g.Nodes() {
		var wd float64
		var raw int
		neighbors := g.Neighbors(path)
		for _, n := range neighbors {
			wd += n.Weight
			raw += n.Count
		}
		if wd > maxWeighted {
			maxWeighted = wd
		}
		rawCounts[path] = raw
		nodes = append(nodes, models.GraphNode{
			Path:           path,
			Degree:         len(neighbors),
			WeightedDegree: wd,
			Cluster:        models.UnclusteredID,
		})
	}
	if maxWeighted > 0 {
		for i := range nodes {
			nodes[i].Centrality = nodes[i].WeightedDegree / maxWeighted
		}
	}
	return nodes, rawCounts
}

// clusterMembership partitions nodes into connected components under
// strong edges. Components below two nodes stay unclustered. Cluster IDs
// are assigned in order of each component's lexically smallest member.
func (a *Analytics) clusterMembership(g *Graph) map[string]int {
	clusterOf := make(map[string]int)
	visited := make(map[string]struct{}, g.NodeCount())
	nextID := 0

	for _, start := range g.Nodes() {
		if _, ok := visited[start]; ok {
			continue
		}
		visited[start] = struct{}{}

		component := []string{start}
		queue := []string{start}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, n := range g.Neighbors(cur) {
				if n.Weight < a.strongEdge {
					continue
				}
				if _, ok := visited[n.Path]; ok {
					continue
				}
				visited[n.Path] = struct{}{}
				component = append(component, n.Path)
				queue = append(queue, n.Path)
			}
		}

		if len(component) < 2 {
			continue
		}
		for _, path := range component {
			clusterOf[path] = nextID
		}
		nextID++
	}
	return clusterOf
}

// scoreClusters computes internal cohesion and external coupling for
// each cluster. Scoring fans out across clusters with read-only access
// to the shared graph; results land in indexed slots so the output
// order never depends on scheduling.
func (a *Analytics) scoreClusters(ctx context.Context, g *Graph, clusterOf map[string]int) []models.Cluster {
	count := 0
	for _, id := range clusterOf {
		if id >= count {
			count = id + 1
		}
	}
	if count == 0 {
		return nil
	}

	clusters := make([]models.Cluster, count)
	for path, id := range clusterOf {
		clusters[id].ID = id
		clusters[id].Files = append(clusters[id].Files, path)
	}

	p := pool.New().WithMaxGoroutines(a.workers)
	for id := range clusters {
		p.Go(func() {
			select {
			case <-ctx.Done():
				return
			default:
			}
			sort.Strings(clusters[id].Files)
			clusters[id].Cohesion, clusters[id].ExternalCoupling = scoreOne(g, clusterOf, id)
		})
	}
	p.Wait()
	return clusters
}

func scoreOne(g *Graph, clusterOf map[string]int, id int) (cohesion, external float64) {
	var internalSum, externalSum float64
	var internalN, externalN int
	for _, e := range g.Edges() {
		ca, okA := clusterOf[e.FileA]
		cb, okB := clusterOf[e.FileB]
		inA := okA && ca == id
		inB := okB && cb == id
		switch {
		case inA && inB:
			internalSum += e.Weight
			internalN++
		case inA || inB:
			externalSum += e.Weight
			externalN++
		}
	}
	if internalN > 0 {
		cohesion = internalSum / float64(internalN)
	}
	if externalN > 0 {
		external = externalSum / float64(externalN)
	}
	return cohesion, external
}

// hotspots returns files whose centrality clears the configured
// percentile of all node centralities, ordered by centrality, then raw
// co-change count, then lexical path.
func (a *Analytics) hotspots(nodes []models.GraphNode, rawCounts map[string]int) []string {
	if len(nodes) == 0 {
		return nil
	}

	centralities := make([]float64, len(nodes))
	for i, n := range nodes {
		centralities[i] = n.Centrality
	}
	sort.Float64s(centralities)
	cut := stat.Quantile(a.hotspotPercentile, stat.Empirical, centralities, nil)

	var hot []models.GraphNode
	for _, n := range nodes {
		if n.Centrality > 0 && n.Centrality >= cut {
			hot = append(hot, n)
		}
	}
	sort.Slice(hot, func(i, j int) bool {
		if hot[i].Centrality != hot[j].Centrality {
			return hot[i].Centrality > hot[j].Centrality
		}
		if rawCounts[hot[i].Path] != rawCounts[hot[j].Path] {
			return rawCounts[hot[i].Path] > rawCounts[hot[j].Path]
		}
		return hot[i].Path < hot[j].Path
	})

	paths := make([]string, len(hot))
	for i, n := range hot {
		paths[i] = n.Path
	}
	return paths
}
