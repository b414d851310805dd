// Package progress provides terminal progress indicators.
package progress

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Spinner wraps a progress spinner for operations with unknown length.
type Spinner struct {
	bar   *progressbar.ProgressBar
	label string
}

// NewSpinner creates a spinner with the given label.
func NewSpinner(label string) *Spinner {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(20),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	return &Spinner{bar: bar, label: label}
}

// FinishSuccess clears the spinner completely.
func (s *Spinner) FinishSuccess() {
	s.bar.Finish()
	s.bar.Clear()
}

// FinishError clears the spinner and prints the error to stderr.
func (s *Spinner) FinishError(err error) {
	s.bar.Finish()
	s.bar.Clear()
	fmt.Fprintf(os.Stderr, "  %s error: %v\n", s.label, err)
}
