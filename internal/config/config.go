// Package config parses the command line, the SPLASH_* environment and an
// optional YAML file into an AppConfig.
//
// Resolution order, highest priority first:
//  1. CLI flags
//  2. Environment variables (SPLASH_ROTATION_PERIOD and friends, see env.go)
//  3. YAML file given by --config or SPLASH_CONFIG
//  4. Built-in defaults
package config

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	apperrors "github.com/agbru/splashseq/internal/errors"
	"github.com/agbru/splashseq/internal/presentation"
	"github.com/agbru/splashseq/internal/sequence"
)

// EnvPrefix prefixes every environment variable the program reads.
const EnvPrefix = "SPLASH_"

// AppConfig is the fully resolved configuration of one invocation.
type AppConfig struct {
	IconsEnterDelay    time.Duration
	IconsAppearDelay   time.Duration
	GatherStartDelay   time.Duration
	GatherDuration     time.Duration
	CallDismissDelay   time.Duration
	RotationStartDelay time.Duration
	RotationPeriod     time.Duration
	LabelShowDelay     time.Duration
	LabelShrinkDelay   time.Duration
	LogoRevealDelay    time.Duration

	Words    []string
	Label    string
	CallText string
	Logo     string

	Plain         bool
	Serve         string
	PrintTimeline bool
	NoColor       bool
	NoHaptics     bool
	Hold          time.Duration
	LogFile       string
	Verbose       bool
	ConfigFile    string
	Completion    string
}

// Default returns the reference configuration.
func Default() AppConfig {
	t := sequence.DefaultTimings()
	c := presentation.DefaultContent()
	return AppConfig{
		IconsEnterDelay:    t.IconsEnterDelay,
		IconsAppearDelay:   t.IconsAppearDelay,
		GatherStartDelay:   t.GatherStartDelay,
		GatherDuration:     t.GatherDuration,
		CallDismissDelay:   t.CallDismissDelay,
		RotationStartDelay: t.RotationStartDelay,
		RotationPeriod:     t.RotationPeriod,
		LabelShowDelay:     t.LabelShowDelay,
		LabelShrinkDelay:   t.LabelShrinkDelay,
		LogoRevealDelay:    t.LogoRevealDelay,
		Words:              c.Words,
		Label:              c.Label,
		CallText:           c.CallText,
		Logo:               c.Logo,
		Hold:               2 * time.Second,
	}
}

// wordList is a flag.Value for a comma separated word list.
type wordList struct{ words *[]string }

func (w wordList) String() string {
	if w.words == nil {
		return ""
	}
	return strings.Join(*w.words, ",")
}

func (w wordList) Set(v string) error {
	*w.words = splitWords(v)
	return nil
}

func splitWords(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ParseConfig parses args (without the program name). Usage and parse
// errors go to errWriter; --help yields flag.ErrHelp.
func ParseConfig(programName string, args []string, errWriter io.Writer) (AppConfig, error) {
	cfg := Default()
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)

	fs.DurationVar(&cfg.IconsEnterDelay, "icons-enter", cfg.IconsEnterDelay, "Delay before the icons start entering.")
	fs.DurationVar(&cfg.IconsAppearDelay, "icons-appear", cfg.IconsAppearDelay, "Delay before the icons are steady.")
	fs.DurationVar(&cfg.GatherStartDelay, "gather-start", cfg.GatherStartDelay, "Delay before the icons gather.")
	fs.DurationVar(&cfg.GatherDuration, "gather-duration", cfg.GatherDuration, "Length of the gather animation.")
	fs.DurationVar(&cfg.CallDismissDelay, "call-dismiss", cfg.CallDismissDelay, "Delay before the call overlay is dismissed.")
	fs.DurationVar(&cfg.RotationStartDelay, "rotation-start", cfg.RotationStartDelay, "Delay before the headline rotation starts.")
	fs.DurationVar(&cfg.RotationPeriod, "rotation-period", cfg.RotationPeriod, "Time each headline word stays on screen.")
	fs.DurationVar(&cfg.LabelShowDelay, "label-show", cfg.LabelShowDelay, "Delay after the rotation before the label shows.")
	fs.DurationVar(&cfg.LabelShrinkDelay, "label-shrink", cfg.LabelShrinkDelay, "Delay after the label shows before it shrinks.")
	fs.DurationVar(&cfg.LogoRevealDelay, "logo-reveal", cfg.LogoRevealDelay, "Delay after the label shrinks before the logo.")

	fs.Var(wordList{&cfg.Words}, "words", "Comma separated headline words.")
	fs.StringVar(&cfg.Label, "label", cfg.Label, "Introductory label text.")
	fs.StringVar(&cfg.CallText, "call-text", cfg.CallText, "Call overlay text.")
	fs.StringVar(&cfg.Logo, "logo", cfg.Logo, "Logo name.")

	fs.BoolVar(&cfg.Plain, "plain", false, "Print phase changes instead of drawing the splash.")
	fs.StringVar(&cfg.Serve, "serve", "", "Run headless and serve directives on this address (e.g. :8080).")
	fs.BoolVar(&cfg.PrintTimeline, "print-timeline", false, "Print the simulated timeline and exit.")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colors.")
	fs.BoolVar(&cfg.NoHaptics, "no-haptics", false, "Disable the terminal bell on key transitions.")
	fs.DurationVar(&cfg.Hold, "hold", cfg.Hold, "How long the splash stays after the logo (0 waits for a key).")
	fs.StringVar(&cfg.LogFile, "log-file", "", "Write JSON logs to this file.")
	fs.BoolVar(&cfg.Verbose, "v", false, "Shorthand for --verbose.")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Enable debug logging.")
	fs.StringVar(&cfg.ConfigFile, "config", "", "YAML configuration file.")
	fs.StringVar(&cfg.Completion, "completion", "", "Print a completion script for bash, zsh or fish and exit.")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	if fs.NArg() > 0 {
		return AppConfig{}, apperrors.NewConfigError("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	path := cfg.ConfigFile
	if path == "" {
		path = getEnvString("CONFIG", "")
	}
	if path != "" {
		fc, err := LoadFile(path)
		if err != nil {
			fmt.Fprintf(errWriter, "%v\n", err)
			return AppConfig{}, err
		}
		applyFile(&cfg, fc, fs)
		cfg.ConfigFile = path
	}
	applyEnvOverrides(&cfg, fs)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(errWriter, "%v\n", err)
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate checks the timings and the content.
func (c AppConfig) Validate() error {
	if len(c.Words) == 0 {
		return apperrors.ValidationError{Field: "words", Message: "at least one word is required"}
	}
	if c.Hold < 0 {
		return apperrors.ValidationError{Field: "hold", Message: "must not be negative"}
	}
	if c.Plain && c.Serve != "" {
		return apperrors.ValidationError{Field: "serve", Message: "cannot be combined with --plain"}
	}
	return c.ToTimings().Config(len(c.Words)).Validate()
}

// ToTimings extracts the sequencer timings.
func (c AppConfig) ToTimings() sequence.Timings {
	return sequence.Timings{
		IconsEnterDelay:    c.IconsEnterDelay,
		IconsAppearDelay:   c.IconsAppearDelay,
		GatherStartDelay:   c.GatherStartDelay,
		GatherDuration:     c.GatherDuration,
		CallDismissDelay:   c.CallDismissDelay,
		RotationStartDelay: c.RotationStartDelay,
		RotationPeriod:     c.RotationPeriod,
		LabelShowDelay:     c.LabelShowDelay,
		LabelShrinkDelay:   c.LabelShrinkDelay,
		LogoRevealDelay:    c.LogoRevealDelay,
	}
}

// SequenceConfig is the controller configuration.
func (c AppConfig) SequenceConfig() sequence.Config {
	return c.ToTimings().Config(len(c.Words))
}

// ToContent extracts the rendered content.
func (c AppConfig) ToContent() presentation.Content {
	content := presentation.DefaultContent()
	content.Words = append([]string(nil), c.Words...)
	content.Label = c.Label
	content.CallText = c.CallText
	content.Logo = c.Logo
	return content
}
