package models

import "time"

// Warning codes attached to a CouplingReport.
const (
	WarnEmptyFileSet  = "empty_file_set"
	WarnZeroTimestamp = "zero_timestamp"
	WarnPairCapHit    = "pair_cap_exceeded"
)

// Warning records a recoverable input problem or a reported degradation.
// Warnings never abort a run; they are surfaced for the rendering layer.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Commit  string `json:"commit,omitempty"`
}

// Summary provides aggregate statistics over a coupling report.
type Summary struct {
	TotalFiles     int     `json:"total_files"`
	TotalEdges     int     `json:"total_edges"`
	StrongEdges    int     `json:"strong_edges"`
	TotalClusters  int     `json:"total_clusters"`
	TotalSessions  int     `json:"total_sessions"`
	TotalCascades  int     `json:"total_cascades"`
	MeanCentrality float64 `json:"mean_centrality"`
	MaxCentrality  float64 `json:"max_centrality"`
}

// CouplingReport is the full analysis output. It is plain serializable
// data handed to rendering and export collaborators; it carries no
// behavior beyond summary bookkeeping.
type CouplingReport struct {
	GeneratedAt     time.Time   `json:"generated_at"`
	TotalCommits    int         `json:"total_commits"`
	AnalyzedCommits int         `json:"analyzed_commits"`
	Nodes           []GraphNode `json:"nodes"`
	Edges           []GraphEdge `json:"edges"`
	Clusters        []Cluster   `json:"clusters"`
	Hotspots        []string    `json:"hotspots"`
	Bridges         []GraphEdge `json:"bridges"`
	Sessions        []Session   `json:"sessions"`
	Cascades        []Cascade   `json:"cascades"`
	Warnings        []Warning   `json:"warnings,omitempty"`
	Summary         Summary     `json:"summary"`
}
