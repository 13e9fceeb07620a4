package ui

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme is the ANSI palette of the plain line output.
type Theme struct {
	Name string
	// Brand is the splash green, used for phase names.
	Brand string
	// Highlight is the lime accent, used for headline words.
	Highlight string
	// Muted is used for offsets and secondary text.
	Muted string
	// Error marks failures.
	Error string
	Bold  string
	Reset string
}

var (
	// BrandTheme uses the splash greens on any background.
	BrandTheme = Theme{
		Name:      "brand",
		Brand:     "\033[38;2;0;177;64m",   // #00b140
		Highlight: "\033[38;2;186;255;41m", // #baff29
		Muted:     "\033[38;5;245m",
		Error:     "\033[38;5;196m",
		Bold:      "\033[1m",
		Reset:     "\033[0m",
	}

	// Ansi256Theme approximates the brand colors for 256-color terminals.
	Ansi256Theme = Theme{
		Name:      "ansi256",
		Brand:     "\033[38;5;34m",
		Highlight: "\033[38;5;154m",
		Muted:     "\033[38;5;245m",
		Error:     "\033[38;5;196m",
		Bold:      "\033[1m",
		Reset:     "\033[0m",
	}

	// NoColorTheme disables all color output.
	// Used when NO_COLOR is set or --no-color flag is provided.
	NoColorTheme = Theme{Name: "none"}

	currentTheme = BrandTheme
	themeMutex   sync.RWMutex
)

// TUITheme holds the lipgloss colors of the device frame renderer.
type TUITheme struct {
	Screen    lipgloss.TerminalColor
	Frame     lipgloss.TerminalColor
	Text      lipgloss.TerminalColor
	Dim       lipgloss.TerminalColor
	Brand     lipgloss.TerminalColor
	Highlight lipgloss.TerminalColor
	Wave      lipgloss.TerminalColor
	Overlay   lipgloss.TerminalColor
}

var (
	// SplashTUITheme mirrors the mobile splash: near-white screen, black
	// status bar text, green gradient accents.
	SplashTUITheme = TUITheme{
		Screen:    lipgloss.Color("#FEFEFE"),
		Frame:     lipgloss.Color("#1A1A1A"),
		Text:      lipgloss.Color("#111111"),
		Dim:       lipgloss.Color("#9CA3AF"),
		Brand:     lipgloss.Color("#00B140"),
		Highlight: lipgloss.Color("#BAFF29"),
		Wave:      lipgloss.Color("#B3E8C6"),
		Overlay:   lipgloss.Color("#E8F8EE"),
	}

	// NoColorTUITheme disables all TUI colors.
	NoColorTUITheme = TUITheme{
		Screen:    lipgloss.NoColor{},
		Frame:     lipgloss.NoColor{},
		Text:      lipgloss.NoColor{},
		Dim:       lipgloss.NoColor{},
		Brand:     lipgloss.NoColor{},
		Highlight: lipgloss.NoColor{},
		Wave:      lipgloss.NoColor{},
		Overlay:   lipgloss.NoColor{},
	}
)

// GetCurrentTUITheme returns the TUI palette matching the active theme.
func GetCurrentTUITheme() TUITheme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()

	if currentTheme.Name == NoColorTheme.Name {
		return NoColorTUITheme
	}
	return SplashTUITheme
}

// GetCurrentTheme returns the currently active theme in a thread-safe manner.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetCurrentTheme replaces the active theme. Tests use it to restore state.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// InitTheme picks the theme from the --no-color flag, NO_COLOR
// (https://no-color.org/) and COLORTERM.
func InitTheme(noColor bool) {
	themeMutex.Lock()
	defer themeMutex.Unlock()

	if noColor {
		currentTheme = NoColorTheme
		return
	}
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		currentTheme = NoColorTheme
		return
	}
	switch os.Getenv("COLORTERM") {
	case "truecolor", "24bit":
		currentTheme = BrandTheme
	default:
		currentTheme = Ansi256Theme
	}
}

// Paint wraps s in color and the reset sequence of the active theme. With
// the no-color theme s is returned unchanged.
func Paint(color, s string) string {
	if color == "" {
		return s
	}
	return color + s + GetCurrentTheme().Reset
}
