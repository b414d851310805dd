// Package cochange aggregates weighted file-pair co-occurrence counts
// from a commit stream.
//
// Each commit with n changed files contributes n*(n-1)/2 pairs, each of
// weight 1/(n-1). The denominator is the number of partners a file has
// within the commit: a 2-file commit contributes a full unit of weight
// per pair, a 50-file bulk edit a vanishingly small one, which
// neutralizes mechanical bulk-change noise without dropping data.
package cochange

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"github.com/panbanda/cochange/pkg/models"
	"github.com/sourcegraph/conc/pool"
)

// Aggregator computes pair weights over a commit stream.
type Aggregator struct {
	workers  int
	maxPairs int
}

// Option is a functional option for configuring Aggregator.
type Option func(*Aggregator)

// WithWorkers sets the number of concurrent workers (<= 0 uses NumCPU).
func WithWorkers(n int) Option {
	return func(a *Aggregator) {
		a.workers = n
	}
}

// WithMaxPairs caps the number of distinct pairs (0 = unlimited).
func WithMaxPairs(n int) Option {
	return func(a *Aggregator) {
		a.maxPairs = n
	}
}

// New creates a new co-change aggregator.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		workers:  runtime.NumCPU(),
		maxPairs: 0,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.workers <= 0 {
		a.workers = runtime.NumCPU()
	}
	return a
}

// partial is the per-worker accumulation over one contiguous chunk.
type partial struct {
	pairs       map[Pair]Stat
	fileCommits map[string]int
	analyzed    int
	warnings    []models.Warning
}

// Aggregate scans the commit stream and produces merged pair statistics.
// Commits are pair-counted concurrently in contiguous chunks; the chunk
// partials are merged in input order so the result is deterministic
// regardless of worker scheduling.
func (a *Aggregator) Aggregate(ctx context.Context, commits []models.CommitRecord) (*Result, error) {
	res := &Result{
		Pairs:        make(map[Pair]Stat),
		FileCommits:  make(map[string]int),
		TotalCommits: len(commits),
	}
	if len(commits) == 0 {
		return res, nil
	}

	chunks := chunkCommits(commits, a.workers)
	partials := make([]*partial, len(chunks))

	p := pool.New().WithMaxGoroutines(a.workers).WithContext(ctx)
	for i, chunk := range chunks {
		p.Go(func(ctx context.Context) error {
			part, err := aggregateChunk(ctx, chunk)
			if err != nil {
				return err
			}
			partials[i] = part
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	// Single-pass deterministic reduce, in chunk order.
	for _, part := range partials {
		for file, n := range part.fileCommits {
			res.FileCommits[file] += n
		}
		for _, pair := range part.sortedPairs(a.maxPairs > 0) {
			stat := part.pairs[pair]
			existing, ok := res.Pairs[pair]
			if !ok && a.maxPairs > 0 && len(res.Pairs) >= a.maxPairs {
				res.Truncated = true
				continue
			}
			existing.Weight += stat.Weight
			existing.Count += stat.Count
			res.Pairs[pair] = existing
		}
		res.analyzedAndWarn(part)
	}

	if res.Truncated {
		res.Warnings = append(res.Warnings, models.Warning{
			Code: models.WarnPairCapHit,
			Message: fmt.Sprintf(
				"distinct pair count exceeded the configured cap of %d; coupling data is truncated", a.maxPairs),
		})
	}
	return res, nil
}

func (r *Result) analyzedAndWarn(part *partial) {
	r.AnalyzedCommits += part.analyzed
	r.Warnings = append(r.Warnings, part.warnings...)
}

// sortedPairs returns the partial's pair keys. When the pair cap is in
// play the keys are sorted so that any truncation is deterministic;
// without a cap the merge is order-insensitive and sorting is skipped.
func (p *partial) sortedPairs(deterministic bool) []Pair {
	keys := make([]Pair, 0, len(p.pairs))
	for pair := range p.pairs {
		keys = append(keys, pair)
	}
	if deterministic {
		sort.Slice(keys, func(i, j int) bool {
			if keys[i].A != keys[j].A {
				return keys[i].A < keys[j].A
			}
			return keys[i].B < keys[j].B
		})
	}
	return keys
}

// aggregateChunk pair-counts one contiguous slice of commits.
func aggregateChunk(ctx context.Context, commits []models.CommitRecord) (*partial, error) {
	part := &partial{
		pairs:       make(map[Pair]Stat),
		fileCommits: make(map[string]int),
	}
	for i := range commits {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		c := &commits[i]
		if c.Timestamp.IsZero() {
			part.warnings = append(part.warnings, models.Warning{
				Code:    models.WarnZeroTimestamp,
				Message: "commit has no timestamp; it still contributes pairs but cannot anchor sessions or cascades",
				Commit:  c.ID,
			})
		}
		files := c.UniqueFiles()
		if len(files) == 0 {
			part.warnings = append(part.warnings, models.Warning{
				Code:    models.WarnEmptyFileSet,
				Message: "commit has no changed files; skipped for pairing",
				Commit:  c.ID,
			})
			continue
		}
		for _, f := range files {
			part.fileCommits[f]++
		}
		if len(files) < 2 {
			continue
		}

		// Every unordered pair of the n files, each weighted 1/(n-1).
		w := 1 / float64(len(files)-1)
		for i := 0; i < len(files); i++ {
			for j := i + 1; j < len(files); j++ {
				pair := MakePair(files[i], files[j])
				stat := part.pairs[pair]
				stat.Weight += w
				stat.Count++
				part.pairs[pair] = stat
			}
		}
		part.analyzed++
	}
	return part, nil
}

// chunkCommits splits commits into at most n contiguous chunks.
func chunkCommits(commits []models.CommitRecord, n int) [][]models.CommitRecord {
	if n < 1 {
		n = 1
	}
	if n > len(commits) {
		n = len(commits)
	}
	size := (len(commits) + n - 1) / n
	var chunks [][]models.CommitRecord
	for start := 0; start < len(commits); start += size {
		end := start + size
		if end > len(commits) {
			end = len(commits)
		}
		chunks = append(chunks, commits[start:end])
	}
	return chunks
}
