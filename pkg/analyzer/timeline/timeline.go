// Package timeline re-walks the commit stream in time order to infer
// generation sessions and fix cascades, using the coupling graph as
// evidence. Detection is inherently sequential: each step's candidate
// depends on the previous commit, so both walks run single-threaded
// over the sorted stream.
package timeline

import (
	"time"

	"github.com/panbanda/cochange/pkg/models"
)

// Detector infers sessions and cascades from a sorted commit stream.
type Detector struct {
	sessionWindow  time.Duration
	cascadeWindow  time.Duration
	cascadeMaxScan int
}

// Option is a functional option for configuring Detector.
type Option func(*Detector)

// WithSessionWindow sets the maximum gap between commits in one session.
func WithSessionWindow(d time.Duration) Option {
	return func(det *Detector) {
		det.sessionWindow = d
	}
}

// WithCascadeWindow sets the time bound for cascade follow-on scans,
// measured from the cascade's last member.
func WithCascadeWindow(d time.Duration) Option {
	return func(det *Detector) {
		det.cascadeWindow = d
	}
}

// WithCascadeMaxScan bounds how many commits past the trigger are
// examined. Whichever of the time and count bounds is hit first stops
// the scan.
func WithCascadeMaxScan(n int) Option {
	return func(det *Detector) {
		det.cascadeMaxScan = n
	}
}

// New creates a session and cascade detector.
func New(opts ...Option) *Detector {
	d := &Detector{
		sessionWindow:  5 * time.Minute,
		cascadeWindow:  30 * time.Minute,
		cascadeMaxScan: 50,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// firstSeen maps each file to the ID of the commit where it first
// appears in the stream. "Newly created" is defined against the stream
// itself, so no input beyond the commit records is needed.
func firstSeen(commits []models.CommitRecord) map[string]string {
	seen := make(map[string]string)
	for i := range commits {
		for _, f := range commits[i].UniqueFiles() {
			if _, ok := seen[f]; !ok {
				seen[f] = commits[i].ID
			}
		}
	}
	return seen
}
