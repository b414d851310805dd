package cochange

import (
	"github.com/panbanda/cochange/pkg/models"
)

// Pair is a canonical unordered pair of two distinct file paths.
// A is always lexically less than B.
type Pair struct {
	A, B string
}

// MakePair creates a normalized file pair (lexically ordered).
func MakePair(a, b string) Pair {
	if a > b {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// Stat is the accumulated evidence for one pair. Weight carries the
// bias-corrected signal; Count is the unweighted co-occurrence total,
// retained for threshold filtering and diagnostics.
type Stat struct {
	Weight float64
	Count  int
}

// Result is the output of the aggregation phase.
type Result struct {
	// Pairs maps each canonical pair to its accumulated weight and count.
	Pairs map[Pair]Stat
	// FileCommits counts commits touching each file, including
	// single-file commits that contribute no pairs.
	FileCommits map[string]int
	// TotalCommits is the full input size, AnalyzedCommits the number
	// that contributed at least one pair.
	TotalCommits    int
	AnalyzedCommits int
	// Truncated is set when the pair cap dropped new pairs.
	Truncated bool
	Warnings  []models.Warning
}
