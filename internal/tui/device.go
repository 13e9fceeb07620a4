package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/splashseq/internal/format"
	"github.com/agbru/splashseq/internal/presentation"
	"github.com/agbru/splashseq/internal/sequence"
)

// Screen geometry in terminal cells. Row 0 is the status bar.
const (
	screenWidth  = 38
	screenHeight = 19

	statusTime   = "9:41"
	statusIcons  = "▂▄▆█ ▮▮▮"
	callGlyph    = "📞"
	waveGlyph    = "·"
	shrunkGlyph  = "•"
	logoMark     = "◆"
	waveRadius   = 3.6 // cells per unit of wave scale
	logoLetterAt = 60 * time.Millisecond
)

type cell struct {
	text  string
	style lipgloss.Style
	// cont marks a cell covered by the wide glyph on its left.
	cont bool
}

// canvas is a grid of styled cells that understands double-width glyphs.
type canvas struct {
	w, h  int
	cells [][]cell
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, cells: make([][]cell, h)}
	for row := range c.cells {
		c.cells[row] = make([]cell, w)
		for col := range c.cells[row] {
			c.cells[row][col] = cell{text: " ", style: screenStyle}
		}
	}
	return c
}

// blank clears the glyph covering (row, col), including its other cells.
func (c *canvas) blank(row, col int) {
	for col > 0 && c.cells[row][col].cont {
		col--
	}
	width := max(lipgloss.Width(c.cells[row][col].text), 1)
	for i := 0; i < width && col+i < c.w; i++ {
		c.cells[row][col+i] = cell{text: " ", style: screenStyle}
	}
}

// set draws one glyph; it is dropped when it does not fit.
func (c *canvas) set(row, col int, glyph string, style lipgloss.Style) bool {
	width := max(lipgloss.Width(glyph), 1)
	if row < 0 || row >= c.h || col < 0 || col+width > c.w {
		return false
	}
	for i := range width {
		c.blank(row, col+i)
	}
	c.cells[row][col] = cell{text: glyph, style: style}
	for i := 1; i < width; i++ {
		c.cells[row][col+i] = cell{style: style, cont: true}
	}
	return true
}

func (c *canvas) empty(row, col int) bool {
	if row < 0 || row >= c.h || col < 0 || col >= c.w {
		return false
	}
	return c.cells[row][col].text == " " && !c.cells[row][col].cont
}

func (c *canvas) text(row, col int, s string, style lipgloss.Style) {
	for _, r := range s {
		g := string(r)
		c.set(row, col, g, style)
		col += max(lipgloss.Width(g), 1)
	}
}

func (c *canvas) centerText(row int, s string, style lipgloss.Style) {
	c.text(row, (c.w-lipgloss.Width(s))/2, s, style)
}

// rowFor maps a vertical viewport percentage to a screen row below the
// status bar.
func (c *canvas) rowFor(y float64) int {
	row := 1 + int(math.Round(y/100*float64(c.h-2)))
	return min(max(row, 1), c.h-1)
}

// colFor maps a horizontal viewport percentage to a column that leaves
// room for a wide glyph.
func (c *canvas) colFor(x float64) int {
	col := int(math.Round(x / 100 * float64(c.w-2)))
	return min(max(col, 0), c.w-2)
}

func renderScreen(c *canvas) string {
	lines := make([]string, c.h)
	for row, cells := range c.cells {
		var b strings.Builder
		for _, cl := range cells {
			if cl.cont {
				continue
			}
			b.WriteString(cl.style.Render(cl.text))
		}
		lines[row] = b.String()
	}
	return strings.Join(lines, "\n")
}

// frame draws the current directives at the current animation time.
func (m Model) frame() *canvas {
	c := newCanvas(screenWidth, screenHeight)
	t := m.elapsed()
	d := m.directives

	if !d.Logo.Mounted {
		drawWaves(c, t)
	}
	m.drawIcons(c, t)

	if d.CallOverlay.Visible {
		c.centerText(2, " "+callGlyph+" "+d.CallOverlay.Text+" ", overlayStyle)
	}
	mid := c.rowFor(presentation.Center.Y)
	if d.Headline.Visible {
		c.centerText(mid, d.Headline.Text, headlineStyle)
	}
	if d.Label.Visible {
		style := labelStyle
		if d.Label.Size == presentation.LabelSmall {
			style = labelDimStyle
		}
		c.centerText(c.rowFor(presentation.Center.Y+d.Label.Offset.Y), d.Label.Text, style)
	}
	if d.Logo.Mounted {
		c.centerText(mid-1, logoMark, logoStyle)
		c.centerText(mid+1, logoText(d.Logo.Name, t-m.logoAt), logoStyle)
	}

	c.text(0, 1, statusTime, statusStyle)
	c.text(0, c.w-1-lipgloss.Width(statusIcons), statusIcons, statusStyle)
	return c
}

func drawWaves(c *canvas, t time.Duration) {
	cx := float64(c.colFor(presentation.Center.X))
	cy := float64(c.rowFor(presentation.Center.Y))
	for i := range presentation.WaveCount {
		w := presentation.WaveAt(i, t)
		if !w.Visible() || w.Opacity < 0.01 {
			continue
		}
		r := w.Scale * waveRadius
		steps := max(int(r*4), 8)
		for s := range steps {
			a := 2 * math.Pi * float64(s) / float64(steps)
			row := int(math.Round(cy + r/2*math.Sin(a)))
			col := int(math.Round(cx + r*math.Cos(a)))
			if row > 0 && c.empty(row, col) {
				c.set(row, col, waveGlyph, waveStyle)
			}
		}
	}
}

func (m Model) drawIcons(c *canvas, t time.Duration) {
	sinceEnter := t - m.phaseAt[sequence.PhaseIconsEntering]
	sinceGather := t - m.phaseAt[sequence.PhaseGathering]

	for i, d := range m.directives.Icons {
		if i >= len(m.opts.Content.Icons) {
			break
		}
		icon := m.opts.Content.Icons[i]
		switch d.Pose {
		case presentation.PoseFloating:
			if sinceEnter < icon.EntranceDelay {
				continue
			}
			y := icon.Anchor.Y + d.Float.OffsetAt(sinceEnter)
			c.set(c.rowFor(y), c.colFor(icon.Anchor.X), icon.Glyph, iconStyle)

		case presentation.PoseGathering, presentation.PoseCentered:
			p := 1.0
			if m.gather > 0 {
				p = min(max(float64(sinceGather)/float64(m.gather), 0), 1)
			}
			if p >= 1 {
				continue
			}
			x := icon.Anchor.X + (d.Target.Position.X-icon.Anchor.X)*p
			y := icon.Anchor.Y + (d.Target.Position.Y-icon.Anchor.Y)*p
			glyph := icon.Glyph
			if p > 0.6 {
				glyph = shrunkGlyph
			}
			c.set(c.rowFor(y), c.colFor(x), glyph, iconStyle)
		}
	}
}

// logoText spells the logo name out letter by letter after the mount.
func logoText(name string, sinceMount time.Duration) string {
	letters := []rune(strings.ToUpper(name))
	shown := min(int(max(sinceMount, 0)/logoLetterAt)+1, len(letters))
	out := make([]string, shown)
	for i := range shown {
		out[i] = string(letters[i])
	}
	return strings.Join(out, " ")
}

func (m Model) footerView() string {
	status := fmt.Sprintf("%s  %s", m.state.Phase, format.FormatOffset(m.elapsed()))
	if m.done {
		status += "  done"
	}
	return lipgloss.JoinVertical(lipgloss.Center,
		footerPhaseStyle.Render(status),
		footerStyle.Render(m.help.View(m.keymap)),
	)
}
