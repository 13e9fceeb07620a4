package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/splashseq/internal/ui"
)

// Style variables for the device frame.
// Initialized from the ui theme system via initTUIStyles().
var (
	frameStyle       lipgloss.Style
	screenStyle      lipgloss.Style
	statusStyle      lipgloss.Style
	iconStyle        lipgloss.Style
	waveStyle        lipgloss.Style
	overlayStyle     lipgloss.Style
	headlineStyle    lipgloss.Style
	labelStyle       lipgloss.Style
	labelDimStyle    lipgloss.Style
	logoStyle        lipgloss.Style
	footerStyle      lipgloss.Style
	footerPhaseStyle lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds all styles from the current ui theme.
// Called at package init and again from Run() after InitTheme has been invoked.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()

	frameStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Frame)

	screenStyle = lipgloss.NewStyle().
		Background(t.Screen).
		Foreground(t.Text)

	statusStyle = screenStyle.
		Bold(true)

	iconStyle = screenStyle

	waveStyle = screenStyle.
		Foreground(t.Wave)

	overlayStyle = lipgloss.NewStyle().
		Background(t.Overlay).
		Foreground(t.Text)

	headlineStyle = screenStyle.
		Bold(true).
		Foreground(t.Brand)

	labelStyle = screenStyle.
		Bold(true)

	labelDimStyle = screenStyle.
		Foreground(t.Dim)

	logoStyle = screenStyle.
		Bold(true).
		Foreground(t.Brand)

	footerStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	footerPhaseStyle = lipgloss.NewStyle().
		Foreground(t.Highlight)
}
