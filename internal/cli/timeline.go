package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/agbru/splashseq/internal/format"
	"github.com/agbru/splashseq/internal/presentation"
	"github.com/agbru/splashseq/internal/sequence"
)

// PrintTimeline simulates a run in virtual time and prints every state
// write as a table.
func PrintTimeline(out io.Writer, cfg sequence.Config, content presentation.Content) error {
	steps, err := sequence.Simulate(cfg)
	if err != nil {
		return err
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("OFFSET", "VERSION", "PHASE", "CHANGE", "ON SCREEN").
		StyleFunc(func(_, _ int) lipgloss.Style {
			return lipgloss.NewStyle().Padding(0, 1)
		})
	for _, s := range steps {
		d := presentation.Derive(s.Next, content)
		t.Row(format.FormatOffset(s.Next.At), fmt.Sprint(s.Next.Version), s.Next.Phase.String(), change(s), caption(d))
	}

	if _, err := fmt.Fprintln(out, t.Render()); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%d writes, run length %s\n", len(steps), format.FormatOffset(cfg.Duration()))
	return err
}

// change names the field a step wrote.
func change(s sequence.Step) string {
	prev, next := s.Prev, s.Next
	switch {
	case prev.Phase != next.Phase:
		return "phase"
	case prev.CallOverlayVisible != next.CallOverlayVisible:
		return fmt.Sprintf("%s=%t", sequence.FlagCallOverlay, next.CallOverlayVisible)
	case prev.GatherComplete != next.GatherComplete:
		return fmt.Sprintf("%s=%t", sequence.FlagGatherComplete, next.GatherComplete)
	case prev.Words != next.Words:
		return fmt.Sprintf("word=%d", next.Words.Index())
	}
	return "-"
}
