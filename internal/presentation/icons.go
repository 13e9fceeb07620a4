package presentation

import (
	"math"
	"time"
)

// Icon is an immutable decorative icon descriptor.
type Icon struct {
	ID            string        `json:"id" yaml:"id"`
	Glyph         string        `json:"glyph" yaml:"glyph"`
	Anchor        Point         `json:"anchor" yaml:"anchor"`
	Rotation      float64       `json:"rotation" yaml:"rotation"`
	EntranceDelay time.Duration `json:"entrance_delay" yaml:"entrance_delay"`
}

// Float describes the idle bob of a floating icon.
type Float struct {
	Start     time.Duration `json:"start"`
	Period    time.Duration `json:"period"`
	Amplitude float64       `json:"amplitude"`
}

const (
	floatSettle    = 700 * time.Millisecond
	floatBase      = 2500 * time.Millisecond
	floatStep      = 300 * time.Millisecond
	floatAmplitude = 3.0
)

// FloatFor returns the bob of the i-th icon. Periods cycle through four
// values so neighbouring icons drift out of step; the bob starts once the
// entrance has settled.
func FloatFor(i int, icon Icon) Float {
	return Float{
		Start:     icon.EntranceDelay + floatSettle,
		Period:    floatBase + time.Duration(i%4)*floatStep,
		Amplitude: floatAmplitude,
	}
}

// OffsetAt returns the vertical displacement t after the icons started
// entering. Negative values move up.
func (f Float) OffsetAt(t time.Duration) float64 {
	if t < f.Start || f.Period <= 0 {
		return 0
	}
	phase := float64((t-f.Start)%f.Period) / float64(f.Period)
	return -f.Amplitude * math.Sin(2*math.Pi*phase)
}

// Content is the fixed text and layout a run renders.
type Content struct {
	Words        []string `json:"words"`
	Label        string   `json:"label"`
	CallText     string   `json:"call_text"`
	Logo         string   `json:"logo"`
	Icons        []Icon   `json:"icons"`
	GatherCenter Point    `json:"gather_center"`
}

// DefaultWords is the reference headline rotation.
var DefaultWords = []string{"Sell.", "Deliver.", "Get paid."}

// Center is the middle of the viewport.
var Center = Point{X: 50, Y: 50}

// DefaultContent returns the reference content.
func DefaultContent() Content {
	return Content{
		Words:        append([]string(nil), DefaultWords...),
		Label:        "Your business, in your pocket",
		CallText:     "Incoming call...",
		Logo:         "splash",
		Icons:        DefaultIcons(),
		GatherCenter: Center,
	}
}

// DefaultIcons returns the fourteen reference icons. Right and bottom
// anchored positions are converted to left/top percent.
func DefaultIcons() []Icon {
	ms := func(n int) time.Duration { return time.Duration(n) * time.Millisecond }
	return []Icon{
		{ID: "bank", Glyph: "🏦", Anchor: Point{X: -10, Y: 16}, Rotation: 5, EntranceDelay: ms(100)},
		{ID: "box", Glyph: "📦", Anchor: Point{X: -12, Y: 35}, Rotation: 15, EntranceDelay: 0},
		{ID: "person", Glyph: "🧑", Anchor: Point{X: 65, Y: 20}, Rotation: 20, EntranceDelay: ms(200)},
		{ID: "briefcase", Glyph: "💼", Anchor: Point{X: 35, Y: 90}, Rotation: 5, EntranceDelay: ms(300)},
		{ID: "calculator", Glyph: "🧮", Anchor: Point{X: 104, Y: 30}, Rotation: -8, EntranceDelay: ms(400)},
		{ID: "phone", Glyph: "📱", Anchor: Point{X: 50, Y: 50}, Rotation: -20, EntranceDelay: ms(500)},
		{ID: "credit-card", Glyph: "💳", Anchor: Point{X: 105, Y: 12}, Rotation: 15, EntranceDelay: ms(250)},
		{ID: "megaphone", Glyph: "📣", Anchor: Point{X: 2, Y: 75}, Rotation: -20, EntranceDelay: ms(600)},
		{ID: "envelope", Glyph: "✉", Anchor: Point{X: -8, Y: 95}, Rotation: 15, EntranceDelay: ms(800)},
		{ID: "id-badge", Glyph: "🪪", Anchor: Point{X: 70, Y: -3}, Rotation: 20, EntranceDelay: ms(700)},
		{ID: "delivery-person", Glyph: "🛵", Anchor: Point{X: 105, Y: 98}, Rotation: -5, EntranceDelay: ms(500)},
		{ID: "microphone", Glyph: "🎤", Anchor: Point{X: 98, Y: 65}, Rotation: 15, EntranceDelay: ms(900)},
		{ID: "airplane", Glyph: "✈", Anchor: Point{X: 20, Y: 105}, Rotation: -10, EntranceDelay: ms(1000)},
		{ID: "food-delivery", Glyph: "🍔", Anchor: Point{X: -5, Y: 2}, Rotation: -10, EntranceDelay: ms(1000)},
	}
}
