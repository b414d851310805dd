// Package models defines the shared data types flowing between the
// extraction, aggregation, graph and timeline stages.
package models

import (
	"sort"
	"time"
)

// CommitType labels a commit by the intent its message signals.
type CommitType string

const (
	TypeFeature      CommitType = "feature"
	TypeFix          CommitType = "fix"
	TypeRefactor     CommitType = "refactor"
	TypeRegeneration CommitType = "regeneration"
	TypeUnknown      CommitType = "unknown"
)

// ParseCommitType maps a label string to a CommitType, defaulting to
// TypeUnknown for anything unrecognized.
func ParseCommitType(s string) CommitType {
	switch CommitType(s) {
	case TypeFeature, TypeFix, TypeRefactor, TypeRegeneration:
		return CommitType(s)
	default:
		return TypeUnknown
	}
}

// CommitRecord is one unit of change history: an identifier, a
// timestamp, a type label and the set of files the commit touched.
type CommitRecord struct {
	ID        string     `json:"id"`
	Timestamp time.Time  `json:"timestamp"`
	Author    string     `json:"author,omitempty"`
	Type      CommitType `json:"type"`
	Files     []string   `json:"files"`
}

// UniqueFiles returns the commit's file set deduplicated, with empty
// paths dropped, in lexical order. The receiver is not modified.
func (c *CommitRecord) UniqueFiles() []string {
	seen := make(map[string]struct{}, len(c.Files))
	files := make([]string, 0, len(c.Files))
	for _, f := range c.Files {
		if f == "" {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// SortCommits stable-sorts commits by timestamp, breaking ties by ID.
// Every downstream stage assumes this ordering.
func SortCommits(commits []CommitRecord) {
	sort.SliceStable(commits, func(i, j int) bool {
		if !commits[i].Timestamp.Equal(commits[j].Timestamp) {
			return commits[i].Timestamp.Before(commits[j].Timestamp)
		}
		return commits[i].ID < commits[j].ID
	})
}
