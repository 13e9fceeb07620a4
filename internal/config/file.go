package config

import (
	"flag"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/agbru/splashseq/internal/errors"
)

// FileConfig is the YAML configuration file. Absent keys leave the default
// in place.
type FileConfig struct {
	Timings  FileTimings    `yaml:"timings"`
	Words    []string       `yaml:"words"`
	Label    *string        `yaml:"label"`
	CallText *string        `yaml:"call_text"`
	Logo     *string        `yaml:"logo"`
	Serve    *string        `yaml:"serve"`
	Hold     *time.Duration `yaml:"hold"`
	Haptics  *bool          `yaml:"haptics"`
}

// FileTimings holds the timeline constants. Values use Go duration syntax
// ("200ms", "1.7s").
type FileTimings struct {
	IconsEnter     *time.Duration `yaml:"icons_enter"`
	IconsAppear    *time.Duration `yaml:"icons_appear"`
	GatherStart    *time.Duration `yaml:"gather_start"`
	GatherDuration *time.Duration `yaml:"gather_duration"`
	CallDismiss    *time.Duration `yaml:"call_dismiss"`
	RotationStart  *time.Duration `yaml:"rotation_start"`
	RotationPeriod *time.Duration `yaml:"rotation_period"`
	LabelShow      *time.Duration `yaml:"label_show"`
	LabelShrink    *time.Duration `yaml:"label_shrink"`
	LogoReveal     *time.Duration `yaml:"logo_reveal"`
}

// LoadFile reads and decodes a YAML configuration file. Unknown keys are
// rejected so that typos do not go unnoticed.
func LoadFile(path string) (FileConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return FileConfig{}, apperrors.ConfigError{Message: "read config file", Cause: err}
	}
	defer f.Close()

	var fc FileConfig
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil {
		return FileConfig{}, apperrors.ConfigError{
			Message: "parse config file",
			Cause:   apperrors.WrapError(err, "%s", path),
		}
	}
	return fc, nil
}

// applyFile copies the values present in fc for every flag not set on the
// command line.
func applyFile(cfg *AppConfig, fc FileConfig, fs *flag.FlagSet) {
	durations := []struct {
		flag  string
		value *time.Duration
		field *time.Duration
	}{
		{"icons-enter", fc.Timings.IconsEnter, &cfg.IconsEnterDelay},
		{"icons-appear", fc.Timings.IconsAppear, &cfg.IconsAppearDelay},
		{"gather-start", fc.Timings.GatherStart, &cfg.GatherStartDelay},
		{"gather-duration", fc.Timings.GatherDuration, &cfg.GatherDuration},
		{"call-dismiss", fc.Timings.CallDismiss, &cfg.CallDismissDelay},
		{"rotation-start", fc.Timings.RotationStart, &cfg.RotationStartDelay},
		{"rotation-period", fc.Timings.RotationPeriod, &cfg.RotationPeriod},
		{"label-show", fc.Timings.LabelShow, &cfg.LabelShowDelay},
		{"label-shrink", fc.Timings.LabelShrink, &cfg.LabelShrinkDelay},
		{"logo-reveal", fc.Timings.LogoReveal, &cfg.LogoRevealDelay},
		{"hold", fc.Hold, &cfg.Hold},
	}
	for _, d := range durations {
		if d.value != nil && !isFlagSet(fs, d.flag) {
			*d.field = *d.value
		}
	}

	strs := []struct {
		flag  string
		value *string
		field *string
	}{
		{"label", fc.Label, &cfg.Label},
		{"call-text", fc.CallText, &cfg.CallText},
		{"logo", fc.Logo, &cfg.Logo},
		{"serve", fc.Serve, &cfg.Serve},
	}
	for _, s := range strs {
		if s.value != nil && !isFlagSet(fs, s.flag) {
			*s.field = *s.value
		}
	}

	if len(fc.Words) > 0 && !isFlagSet(fs, "words") {
		cfg.Words = append([]string(nil), fc.Words...)
	}
	if fc.Haptics != nil && !isFlagSet(fs, "no-haptics") {
		cfg.NoHaptics = !*fc.Haptics
	}
}
