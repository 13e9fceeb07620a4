package cli

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/splashseq/internal/format"
	"github.com/agbru/splashseq/internal/presentation"
)

const (
	// ProgressRefreshRate is both the spinner frame interval and the
	// progress suffix refresh period.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth is the width in cells of the run progress bar.
	ProgressBarWidth = 24
)

// Spinner abstracts the terminal spinner so the plain presenter can be
// tested without a terminal.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation and clears its line.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to Spinner.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

// UpdateSuffix takes the spinner lock since its goroutine reads Suffix on
// every frame.
func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// caption is the most prominent text of a frame.
func caption(d presentation.Directives) string {
	switch {
	case d.Logo.Mounted:
		return d.Logo.Name
	case d.Label.Visible:
		return d.Label.Text
	case d.Headline.Visible:
		return d.Headline.Text
	case d.CallOverlay.Visible:
		return d.CallOverlay.Text
	}
	return ""
}

// statusLine renders the spinner suffix for a frame after elapsed of a run
// expected to last total.
func statusLine(d presentation.Directives, elapsed, total time.Duration) string {
	fraction, remaining := format.Progress(elapsed, total)
	line := fmt.Sprintf(" %s %3.0f%% ETA %s",
		format.ProgressBar(fraction, ProgressBarWidth), fraction*100,
		format.FormatDuration(remaining.Round(100*time.Millisecond)))
	if text := caption(d); text != "" {
		line += "  " + text
	}
	return line
}
