package presentation

import (
	"fmt"

	"github.com/agbru/splashseq/internal/sequence"
)

// Pose is the visual stance of one decorative icon.
type Pose uint8

const (
	// PoseHidden is fully transparent: before the entrance, and for good
	// once the gather has elapsed.
	PoseHidden Pose = iota
	// PoseFloating sits on the icon's anchor with an idle vertical bob.
	PoseFloating
	// PoseGathering moves toward the gather centre while shrinking out.
	PoseGathering
	// PoseCentered is PoseGathering for an icon already on the centre: it
	// shrinks in place.
	PoseCentered
)

var poseNames = [...]string{
	PoseHidden:    "hidden",
	PoseFloating:  "floating",
	PoseGathering: "gathering",
	PoseCentered:  "centered",
}

func (p Pose) String() string {
	if int(p) < len(poseNames) {
		return poseNames[p]
	}
	return fmt.Sprintf("pose(%d)", uint8(p))
}

// MarshalText encodes the pose by name.
func (p Pose) MarshalText() ([]byte, error) {
	if int(p) >= len(poseNames) {
		return nil, fmt.Errorf("unknown pose %d", uint8(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText decodes a pose name.
func (p *Pose) UnmarshalText(b []byte) error {
	parsed, err := ParsePose(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePose returns the pose with the given name.
func ParsePose(name string) (Pose, error) {
	for i, n := range poseNames {
		if n == name {
			return Pose(i), nil
		}
	}
	return PoseHidden, fmt.Errorf("unknown pose %q", name)
}

// LabelSize selects the label's type scale.
type LabelSize uint8

const (
	LabelLarge LabelSize = iota
	LabelSmall
)

func (s LabelSize) String() string {
	if s == LabelSmall {
		return "small"
	}
	return "large"
}

// MarshalText encodes the size by name.
func (s LabelSize) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText decodes a size name.
func (s *LabelSize) UnmarshalText(b []byte) error {
	switch string(b) {
	case "large":
		*s = LabelLarge
	case "small":
		*s = LabelSmall
	default:
		return fmt.Errorf("unknown label size %q", b)
	}
	return nil
}

// Point is a position in viewport percent.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Visual is the target a renderer animates an element toward.
type Visual struct {
	Position Point   `json:"position"`
	Opacity  float64 `json:"opacity"`
	Scale    float64 `json:"scale"`
	Rotation float64 `json:"rotation"`
}

// IconDirective is the derived render state of one icon.
type IconDirective struct {
	ID     string `json:"id"`
	Pose   Pose   `json:"pose"`
	Target Visual `json:"target"`
	Float  Float  `json:"float"`
}

// TextDirective is a piece of text that is either shown or not.
type TextDirective struct {
	Visible bool   `json:"visible"`
	Text    string `json:"text,omitempty"`
}

// LabelDirective is the introductory label.
type LabelDirective struct {
	Visible bool      `json:"visible"`
	Text    string    `json:"text,omitempty"`
	Size    LabelSize `json:"size"`
	Offset  Point     `json:"offset"`
}

// LogoDirective is the final animated logo. Renderers mount it when Mounted
// goes from false to true and never again for the same MountKey.
type LogoDirective struct {
	Mounted  bool   `json:"mounted"`
	Name     string `json:"name,omitempty"`
	Loop     bool   `json:"loop"`
	MountKey string `json:"mount_key,omitempty"`
}

// Directives is everything a renderer needs for one state.
type Directives struct {
	Phase       sequence.Phase  `json:"phase"`
	Version     uint64          `json:"version"`
	Icons       []IconDirective `json:"icons"`
	CallOverlay TextDirective   `json:"call_overlay"`
	Headline    TextDirective   `json:"headline"`
	WordIndex   int             `json:"word_index"`
	Label       LabelDirective  `json:"label"`
	Logo        LogoDirective   `json:"logo"`
}

// LabelSmallOffset is where the label settles once it has shrunk.
var LabelSmallOffset = Point{X: 0, Y: -30}

// PoseFor returns the pose of an icon anchored at anchor.
func PoseFor(s sequence.State, anchor, center Point) Pose {
	switch {
	case s.Phase < sequence.PhaseIconsEntering:
		return PoseHidden
	case s.GatherComplete || s.Phase >= sequence.PhaseRotationActive:
		return PoseHidden
	case s.Phase == sequence.PhaseGathering:
		if anchor == center {
			return PoseCentered
		}
		return PoseGathering
	default:
		return PoseFloating
	}
}

// Derive maps a state to render directives. It has no side effects.
func Derive(s sequence.State, c Content) Directives {
	d := Directives{
		Phase:     s.Phase,
		Version:   s.Version,
		Icons:     make([]IconDirective, len(c.Icons)),
		WordIndex: s.Words.Index(),
	}

	for i, icon := range c.Icons {
		pose := PoseFor(s, icon.Anchor, c.GatherCenter)
		d.Icons[i] = IconDirective{
			ID:     icon.ID,
			Pose:   pose,
			Target: target(pose, icon, c.GatherCenter, s.Phase),
			Float:  FloatFor(i, icon),
		}
	}

	d.CallOverlay = TextDirective{Visible: s.CallOverlayVisible}
	if s.CallOverlayVisible {
		d.CallOverlay.Text = c.CallText
	}

	if s.Phase == sequence.PhaseRotationActive && len(c.Words) > 0 {
		d.Headline = TextDirective{Visible: true, Text: c.Words[s.Words.Index()%len(c.Words)]}
	}

	if s.Phase >= sequence.PhaseLabelShown {
		d.Label = LabelDirective{Visible: true, Text: c.Label, Size: LabelLarge}
		if s.Phase >= sequence.PhaseLabelShrinking {
			d.Label.Size = LabelSmall
			d.Label.Offset = LabelSmallOffset
		}
	}

	if s.Phase >= sequence.PhaseLogoRevealed {
		d.Logo = LogoDirective{Mounted: true, Name: c.Logo, MountKey: "logo/" + c.Logo}
	}
	return d
}

func target(p Pose, icon Icon, center Point, phase sequence.Phase) Visual {
	switch p {
	case PoseFloating:
		return Visual{Position: icon.Anchor, Opacity: 1, Scale: 1, Rotation: icon.Rotation}
	case PoseGathering, PoseCentered:
		return Visual{Position: center, Opacity: 0, Scale: 0, Rotation: icon.Rotation}
	}
	// Before the entrance icons wait on their anchor at half size; after the
	// gather they stay collapsed on the centre.
	if phase < sequence.PhaseIconsEntering {
		return Visual{Position: icon.Anchor, Opacity: 0, Scale: 0.5}
	}
	return Visual{Position: center, Opacity: 0, Scale: 0}
}

// LogoMounted reports whether the logo must be mounted on the transition
// from prev to next.
func LogoMounted(prev, next Directives) bool {
	return next.Logo.Mounted && (!prev.Logo.Mounted || prev.Logo.MountKey != next.Logo.MountKey)
}
