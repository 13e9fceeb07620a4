// This file contains environment variable utilities for configuration override.

package config

import (
	"flag"
	"os"
	"strings"
	"time"
)

// getEnvString returns the value of the environment variable with the given key
// (prefixed with EnvPrefix), or the default value if not set.
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		return val
	}
	return defaultVal
}

// isFlagSet checks if a flag was explicitly set on the command line.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isFlagSetAny checks if any of the specified flags were explicitly set.
func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	for _, name := range names {
		if isFlagSet(fs, name) {
			return true
		}
	}
	return false
}

// envOverride declares a single environment variable override: the env key
// (without the SPLASH_ prefix), the flag names it yields to, and how the
// value is applied.
type envOverride struct {
	envKey string
	flags  []string
	apply  func(*AppConfig, string)
}

// durationOverride builds an override for a duration field. Unparsable
// values are ignored.
func durationOverride(key, flagName string, field func(*AppConfig) *time.Duration) envOverride {
	return envOverride{key, []string{flagName}, func(c *AppConfig, v string) {
		if parsed, err := time.ParseDuration(v); err == nil {
			*field(c) = parsed
		}
	}}
}

// envOverrides is the declarative table of all environment variable overrides.
var envOverrides = []envOverride{
	// Timeline
	durationOverride("ICONS_ENTER", "icons-enter", func(c *AppConfig) *time.Duration { return &c.IconsEnterDelay }),
	durationOverride("ICONS_APPEAR", "icons-appear", func(c *AppConfig) *time.Duration { return &c.IconsAppearDelay }),
	durationOverride("GATHER_START", "gather-start", func(c *AppConfig) *time.Duration { return &c.GatherStartDelay }),
	durationOverride("GATHER_DURATION", "gather-duration", func(c *AppConfig) *time.Duration { return &c.GatherDuration }),
	durationOverride("CALL_DISMISS", "call-dismiss", func(c *AppConfig) *time.Duration { return &c.CallDismissDelay }),
	durationOverride("ROTATION_START", "rotation-start", func(c *AppConfig) *time.Duration { return &c.RotationStartDelay }),
	durationOverride("ROTATION_PERIOD", "rotation-period", func(c *AppConfig) *time.Duration { return &c.RotationPeriod }),
	durationOverride("LABEL_SHOW", "label-show", func(c *AppConfig) *time.Duration { return &c.LabelShowDelay }),
	durationOverride("LABEL_SHRINK", "label-shrink", func(c *AppConfig) *time.Duration { return &c.LabelShrinkDelay }),
	durationOverride("LOGO_REVEAL", "logo-reveal", func(c *AppConfig) *time.Duration { return &c.LogoRevealDelay }),
	durationOverride("HOLD", "hold", func(c *AppConfig) *time.Duration { return &c.Hold }),

	// Content
	{"WORDS", []string{"words"}, func(c *AppConfig, v string) {
		if words := splitWords(v); len(words) > 0 {
			c.Words = words
		}
	}},
	{"LABEL", []string{"label"}, func(c *AppConfig, v string) { c.Label = v }},
	{"CALL_TEXT", []string{"call-text"}, func(c *AppConfig, v string) { c.CallText = v }},
	{"LOGO", []string{"logo"}, func(c *AppConfig, v string) { c.Logo = v }},

	// Modes and output
	{"SERVE", []string{"serve"}, func(c *AppConfig, v string) { c.Serve = v }},
	{"LOG_FILE", []string{"log-file"}, func(c *AppConfig, v string) { c.LogFile = v }},
	{"PLAIN", []string{"plain"}, func(c *AppConfig, v string) {
		c.Plain = parseBoolEnv(v, c.Plain)
	}},
	{"NO_COLOR", []string{"no-color"}, func(c *AppConfig, v string) {
		c.NoColor = parseBoolEnv(v, c.NoColor)
	}},
	{"NO_HAPTICS", []string{"no-haptics"}, func(c *AppConfig, v string) {
		c.NoHaptics = parseBoolEnv(v, c.NoHaptics)
	}},
	{"VERBOSE", []string{"v", "verbose"}, func(c *AppConfig, v string) {
		c.Verbose = parseBoolEnv(v, c.Verbose)
	}},
}

// parseBoolEnv parses a boolean environment variable value.
// Accepts "true", "1", "yes" as true; "false", "0", "no" as false (case-insensitive).
// Returns defaultVal if the value is not recognized.
func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultVal
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line.
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	for _, o := range envOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.envKey); val != "" {
			o.apply(config, val)
		}
	}
}
