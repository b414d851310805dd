// Package coupling runs the full temporal coupling pipeline:
// aggregation, graph construction, graph analytics, and session and
// cascade detection, producing a single CouplingReport value.
//
// Each stage is a pure component taking the previous stage's output;
// no state is shared across concurrent analysis runs.
package coupling

import (
	"context"
	"time"

	"github.com/panbanda/cochange/pkg/analyzer/cochange"
	"github.com/panbanda/cochange/pkg/analyzer/graph"
	"github.com/panbanda/cochange/pkg/analyzer/timeline"
	"github.com/panbanda/cochange/pkg/config"
	"github.com/panbanda/cochange/pkg/models"
	"gonum.org/v1/gonum/stat"
)

// Analyzer composes the pipeline stages under one configuration.
type Analyzer struct {
	cfg     *config.Config
	workers int
	now     func() time.Time
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithWorkers sets the worker count for the parallel stages.
func WithWorkers(n int) Option {
	return func(a *Analyzer) {
		a.workers = n
	}
}

// WithClock overrides the report timestamp source (useful for testing).
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		a.now = now
	}
}

// New creates a pipeline analyzer. A nil config uses defaults.
func New(cfg *config.Config, opts ...Option) *Analyzer {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	a := &Analyzer{
		cfg: cfg,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze runs the pipeline over the commit stream. The input need not
// be ordered; it is stable-sorted by (timestamp, ID) before any stage
// runs. Configuration is validated first and an inconsistent config is
// fatal. Degenerate inputs (empty stream, all-single-file commits)
// produce a valid empty-ish report, never an error.
func (a *Analyzer) Analyze(ctx context.Context, commits []models.CommitRecord) (*models.CouplingReport, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}

	sorted := make([]models.CommitRecord, len(commits))
	copy(sorted, commits)
	models.SortCommits(sorted)

	agg, err := cochange.New(
		cochange.WithWorkers(a.workers),
		cochange.WithMaxPairs(a.cfg.Limits.MaxPairs),
	).Aggregate(ctx, sorted)
	if err != nil {
		return nil, err
	}

	g := graph.NewBuilder(
		graph.WithMinWeight(a.cfg.Thresholds.MinWeight),
		graph.WithMinCochanges(a.cfg.Thresholds.MinCochanges),
	).Build(agg)

	analysis := graph.NewAnalytics(
		graph.WithStrongEdgeWeight(a.cfg.Thresholds.StrongEdgeWeight),
		graph.WithHotspotPercentile(a.cfg.Thresholds.HotspotPercentile),
		graph.WithWorkers(a.workers),
	).Analyze(ctx, g)

	detector := timeline.New(
		timeline.WithSessionWindow(a.cfg.Windows.SessionWindow()),
		timeline.WithCascadeWindow(a.cfg.Windows.CascadeWindow()),
		timeline.WithCascadeMaxScan(a.cfg.Windows.CascadeMaxScan),
	)
	sessions := detector.Sessions(sorted, g)
	cascades := detector.Cascades(sorted, g)

	report := &models.CouplingReport{
		GeneratedAt:     a.now().UTC(),
		TotalCommits:    agg.TotalCommits,
		AnalyzedCommits: agg.AnalyzedCommits,
		Nodes:           analysis.Nodes,
		Edges:           analysis.Edges,
		Clusters:        analysis.Clusters,
		Hotspots:        analysis.Hotspots,
		Bridges:         analysis.Bridges,
		Sessions:        sessions,
		Cascades:        cascades,
		Warnings:        agg.Warnings,
	}
	report.Summary = a.summarize(report)
	return report, nil
}

func (a *Analyzer) summarize(r *models.CouplingReport) models.Summary {
	s := models.Summary{
		TotalFiles:    len(r.Nodes),
		TotalEdges:    len(r.Edges),
		TotalClusters: len(r.Clusters),
		TotalSessions: len(r.Sessions),
		TotalCascades: len(r.Cascades),
	}
	for _, e := range r.Edges {
		if e.Weight >= a.cfg.Thresholds.StrongEdgeWeight {
			s.StrongEdges++
		}
	}
	if len(r.Nodes) > 0 {
		centralities := make([]float64, len(r.Nodes))
		for i, n := range r.Nodes {
			centralities[i] = n.Centrality
			if n.Centrality > s.MaxCentrality {
				s.MaxCentrality = n.Centrality
			}
		}
		s.MeanCentrality = stat.Mean(centralities, nil)
	}
	return s
}
