package graph

import (
	"context"
	"math"
	"testing"

	"github.com/panbanda/cochange/pkg/analyzer/cochange"
	"github.com/panbanda/cochange/pkg/models"
)

// twoClusterGraph builds A-B and C-D strongly coupled, with a weak
// B-C edge linking the two groups.
func twoClusterGraph(t *testing.T) *Graph {
	t.Helper()
	pairs := map[cochange.Pair]cochange.Stat{
		cochange.MakePair("a.go", "b.go"): {Weight: 3, Count: 3},
		cochange.MakePair("c.go", "d.go"): {Weight: 3, Count: 3},
		cochange.MakePair("b.go", "c.go"): {Weight: 1, Count: 3},
	}
	return NewBuilder(WithMinWeight(0.5), WithMinCochanges(3)).
		Build(result([]string{"a.go", "b.go", "c.go", "d.go"}, pairs))
}

func TestAnalyze_Centrality(t *testing.T) {
	analysis := NewAnalytics(WithStrongEdgeWeight(2), WithHotspotPercentile(0.95)).
		Analyze(context.Background(), twoClusterGraph(t))

	want := map[string]float64{
		"a.go": 0.75, // 3 / 4
		"b.go": 1.0,  // (3+1) / 4
		"c.go": 1.0,
		"d.go": 0.75,
	}
	if len(analysis.Nodes) != 4 {
		t.Fatalf("got %d nodes, want 4", len(analysis.Nodes))
	}
	for _, n := range analysis.Nodes {
		if math.Abs(n.Centrality-want[n.Path]) > 1e-12 {
			t.Errorf("centrality(%s) = %v, want %v", n.Path, n.Centrality, want[n.Path])
		}
	}
}

func TestAnalyze_Clusters(t *testing.T) {
	analysis := NewAnalytics(WithStrongEdgeWeight(2)).Analyze(context.Background(), twoClusterGraph(t))

	if len(analysis.Clusters) != 2 {
		t.Fatalf("got %d clusters, want 2", len(analysis.Clusters))
	}
	c0, c1 := analysis.Clusters[0], analysis.Clusters[1]
	if len(c0.Files) != 2 || c0.Files[0] != "a.go" || c0.Files[1] != "b.go" {
		t.Errorf("cluster 0 files = %v", c0.Files)
	}
	if len(c1.Files) != 2 || c1.Files[0] != "c.go" || c1.Files[1] != "d.go" {
		t.Errorf("cluster 1 files = %v", c1.Files)
	}

	// Internal edge weight 3; one external edge of weight 1 leaves each.
	for _, c := range analysis.Clusters {
		if math.Abs(c.Cohesion-3) > 1e-12 {
			t.Errorf("cluster %d cohesion = %v, want 3", c.ID, c.Cohesion)
		}
		if math.Abs(c.ExternalCoupling-1) > 1e-12 {
			t.Errorf("cluster %d external = %v, want 1", c.ID, c.ExternalCoupling)
		}
	}

	for _, n := range analysis.Nodes {
		if n.Cluster == models.UnclusteredID {
			t.Errorf("node %s unclustered", n.Path)
		}
	}
}

func TestAnalyze_SingletonsStayUnclustered(t *testing.T) {
	pairs := map[cochange.Pair]cochange.Stat{
		cochange.MakePair("a.go", "b.go"): {Weight: 1, Count: 3}, // below strong threshold
	}
	g := NewBuilder(WithMinWeight(0.5), WithMinCochanges(3)).
		Build(result([]string{"a.go", "b.go", "lonely.go"}, pairs))
	analysis := NewAnalytics(WithStrongEdgeWeight(2)).Analyze(context.Background(), g)

	if len(analysis.Clusters) != 0 {
		t.Errorf("got %d clusters, want 0", len(analysis.Clusters))
	}
	for _, n := range analysis.Nodes {
		if n.Cluster != models.UnclusteredID {
			t.Errorf("node %s should be unclustered", n.Path)
		}
	}
}

func TestAnalyze_Bridges(t *testing.T) {
	analysis := NewAnalytics(WithStrongEdgeWeight(2)).Analyze(context.Background(), twoClusterGraph(t))

	if len(analysis.Bridges) != 1 {
		t.Fatalf("got %d bridges, want 1", len(analysis.Bridges))
	}
	b := analysis.Bridges[0]
	if b.FileA != "b.go" || b.FileB != "c.go" || !b.Bridge {
		t.Errorf("bridge = %+v", b)
	}

	bridged := 0
	for _, e := range analysis.Edges {
		if e.Bridge {
			bridged++
		}
	}
	if bridged != 1 {
		t.Errorf("%d edges flagged as bridges, want 1", bridged)
	}
}

func TestAnalyze_Hotspots(t *testing.T) {
	analysis := NewAnalytics(WithStrongEdgeWeight(2), WithHotspotPercentile(0.95)).
		Analyze(context.Background(), twoClusterGraph(t))

	// b.go and c.go share the top centrality; ties break lexically.
	if len(analysis.Hotspots) != 2 {
		t.Fatalf("hotspots = %v, want two entries", analysis.Hotspots)
	}
	if analysis.Hotspots[0] != "b.go" || analysis.Hotspots[1] != "c.go" {
		t.Errorf("hotspots = %v, want [b.go c.go]", analysis.Hotspots)
	}
	for _, n := range analysis.Nodes {
		wantHot := n.Path == "b.go" || n.Path == "c.go"
		if n.Hotspot != wantHot {
			t.Errorf("node %s hotspot = %v, want %v", n.Path, n.Hotspot, wantHot)
		}
	}
}

func TestAnalyze_EmptyGraph(t *testing.T) {
	analysis := NewAnalytics().Analyze(context.Background(), NewBuilder().Build(nil))
	if len(analysis.Nodes) != 0 || len(analysis.Edges) != 0 ||
		len(analysis.Clusters) != 0 || len(analysis.Hotspots) != 0 || len(analysis.Bridges) != 0 {
		t.Errorf("empty graph should yield empty analysis: %+v", analysis)
	}
}

func TestAnalyze_IsolatedNodesHaveZeroCentrality(t *testing.T) {
	g := NewBuilder().Build(result([]string{"x.go", "y.go"}, map[cochange.Pair]cochange.Stat{}))
	analysis := NewAnalytics().Analyze(context.Background(), g)
	if len(analysis.Hotspots) != 0 {
		t.Errorf("isolated nodes can never be hotspots: %v", analysis.Hotspots)
	}
	for _, n := range analysis.Nodes {
		if n.Centrality != 0 {
			t.Errorf("centrality(%s) = %v, want 0", n.Path, n.Centrality)
		}
	}
}
