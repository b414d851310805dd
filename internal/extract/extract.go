// Package extract turns a git repository into the commit records the
// coupling engine consumes.
package extract

import (
	"context"
	"strings"
	"time"

	"github.com/panbanda/cochange/internal/vcs"
	"github.com/panbanda/cochange/pkg/classify"
	"github.com/panbanda/cochange/pkg/models"
)

// DefaultGitTimeout is the default timeout for git operations.
const DefaultGitTimeout = 5 * time.Minute

// Extractor reads commit history and produces CommitRecords.
type Extractor struct {
	days            int
	opener          vcs.Opener
	excludeSuffixes []string
	excludeDirs     []string
}

// Option is a functional option for configuring Extractor.
type Option func(*Extractor)

// WithDays limits extraction to the last n days of history (0 = all).
func WithDays(days int) Option {
	return func(e *Extractor) {
		e.days = days
	}
}

// WithOpener sets the VCS opener (useful for testing).
func WithOpener(opener vcs.Opener) Option {
	return func(e *Extractor) {
		e.opener = opener
	}
}

// WithExcludes sets path filters: file suffixes and directory fragments
// that never enter the analysis (binaries, lockfiles, vendored trees).
func WithExcludes(suffixes, dirs []string) Option {
	return func(e *Extractor) {
		e.excludeSuffixes = suffixes
		e.excludeDirs = dirs
	}
}

// New creates a commit extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		opener: vcs.DefaultOpener(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract reads the repository log and returns commit records in the
// order the log yields them. Merge commits are skipped: their stats
// restate their parents' changes. Commit types come from the message
// classifier; the engine downstream treats them as opaque labels.
func (e *Extractor) Extract(ctx context.Context, repoPath string) ([]models.CommitRecord, error) {
	repo, err := e.opener.PlainOpenWithDetect(repoPath)
	if err != nil {
		return nil, err
	}

	opts := &vcs.LogOptions{}
	if e.days > 0 {
		since := time.Now().AddDate(0, 0, -e.days)
		opts.Since = &since
	}
	logIter, err := repo.Log(opts)
	if err != nil {
		return nil, err
	}
	defer logIter.Close()

	var records []models.CommitRecord
	err = logIter.ForEach(func(c vcs.Commit) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if c.NumParents() > 1 {
			return nil
		}
		stats, err := c.Stats()
		if err != nil {
			return nil // skip commits we can't get stats for
		}

		var files []string
		for _, stat := range stats {
			if e.excluded(stat.Name) {
				continue
			}
			files = append(files, stat.Name)
		}

		sig := c.Author()
		records = append(records, models.CommitRecord{
			ID:        c.Hash().String(),
			Timestamp: sig.When.UTC(),
			Author:    sig.Name,
			Type:      classify.Commit(c.Message()),
			Files:     files,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// excluded applies the suffix and directory filters.
func (e *Extractor) excluded(path string) bool {
	if path == "" {
		return true
	}
	lower := strings.ToLower(path)
	for _, suffix := range e.excludeSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	for _, dir := range e.excludeDirs {
		if strings.HasPrefix(lower, dir+"/") || strings.Contains(lower, "/"+dir+"/") {
			return true
		}
	}
	return false
}
