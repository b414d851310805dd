package models

import "time"

// SessionCategory classifies what a session did to its files.
type SessionCategory string

const (
	SessionCreated  SessionCategory = "created"
	SessionModified SessionCategory = "modified"
)

// Session is an inferred group of files changed together in one
// generation or editing event, anchored to temporally adjacent commits.
type Session struct {
	Commits  []string        `json:"commits"`
	Files    []string        `json:"files"`
	Start    time.Time       `json:"start"`
	End      time.Time       `json:"end"`
	Category SessionCategory `json:"category"`
	NewFiles int             `json:"new_files"`
}

// CommitCount returns the number of commits anchoring the session.
func (s *Session) CommitCount() int {
	return len(s.Commits)
}

// Cascade is a chain of fix commits propagating through coupled files.
// The trigger is always the first entry in Commits.
type Cascade struct {
	Trigger  string        `json:"trigger"`
	Commits  []string      `json:"commits"`
	Files    []string      `json:"files"`
	Depth    int           `json:"depth"` // follow-on commits beyond the trigger
	Start    time.Time     `json:"start"`
	End      time.Time     `json:"end"`
	Duration time.Duration `json:"duration"`
}
