package models

// GraphNode is a file observed in at least one commit. Nodes exist even
// when the file has no qualifying edges, so "no detected coupling" is a
// reportable category rather than an omission.
type GraphNode struct {
	Path           string  `json:"path"`
	Degree         int     `json:"degree"`
	WeightedDegree float64 `json:"weighted_degree"`
	Centrality     float64 `json:"centrality"` // 0-1, normalized by graph max
	Hotspot        bool    `json:"hotspot"`
	Cluster        int     `json:"cluster"` // -1 when unclustered
}

// GraphEdge is a qualifying co-change pair. FileA < FileB lexically.
type GraphEdge struct {
	FileA     string  `json:"file_a"`
	FileB     string  `json:"file_b"`
	Weight    float64 `json:"weight"`
	Cochanges int     `json:"cochanges"`
	Bridge    bool    `json:"bridge"`
}

// Cluster is a group of files connected by strong edges.
type Cluster struct {
	ID               int      `json:"id"`
	Files            []string `json:"files"`
	Cohesion         float64  `json:"cohesion"`          // avg internal edge weight
	ExternalCoupling float64  `json:"external_coupling"` // avg weight of outgoing edges
}

// UnclusteredID marks nodes that belong to no cluster.
const UnclusteredID = -1
