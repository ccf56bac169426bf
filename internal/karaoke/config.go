// Package karaoke turns word-level timed lyric lines into a scheduled
// karaoke subtitle document: it detects instrumental sections, groups
// lines into screens, computes collision-free fade timing across
// screens, and emits the styled dialogue events.
package karaoke

// LayoutConfig holds every layout and timing knob of the pipeline. It is
// constructed once and passed by reference.
type LayoutConfig struct {
	// Render surface.
	PlayResX int
	PlayResY int

	// Screen geometry. Slots are the fixed vertical positions lines can
	// occupy, computed from TopPadding and LineHeight.
	MaxVisibleLines int
	TopPadding      float64
	LineHeight      float64

	// Section detection.
	GapThreshold float64
	StartPadding float64
	EndPadding   float64

	// Line timing, in seconds unless the name says otherwise.
	TargetPreshow  float64
	PostRoll       float64
	FadeInMs       int
	FadeOutMs      int
	CascadeDelayMs int
	ClearBufferMs  int

	LeadIn LeadInConfig
}

// LeadInConfig styles the optional moving indicator shown before a line
// that follows a long silence.
type LeadInConfig struct {
	Enabled bool
	// GapThreshold is the minimum silence since the previous line's end
	// before the indicator is shown.
	GapThreshold float64
	Width        float64
	Height       float64
	// Colour is a &HBBGGRR& override colour value without the wrapper.
	Colour  string
	Alpha   uint8
	Outline float64
	OffsetX float64
	OffsetY float64
}

// DefaultLayout returns the 1080p defaults.
func DefaultLayout() LayoutConfig {
	return LayoutConfig{
		PlayResX:        1920,
		PlayResY:        1080,
		MaxVisibleLines: 4,
		TopPadding:      250,
		LineHeight:      160,
		GapThreshold:    10,
		StartPadding:    1,
		EndPadding:      5,
		TargetPreshow:   5,
		PostRoll:        2,
		FadeInMs:        300,
		FadeOutMs:       300,
		CascadeDelayMs:  200,
		ClearBufferMs:   300,
		LeadIn: LeadInConfig{
			Enabled:      true,
			GapThreshold: 5,
			Width:        60,
			Height:       24,
			Colour:       "FFFFFF",
			Alpha:        0x40,
			Outline:      1,
			OffsetY:      -40,
		},
	}
}

// SlotY returns the vertical pixel position of slot i.
func (c *LayoutConfig) SlotY(i int) float64 {
	return c.TopPadding + float64(i)*c.LineHeight
}

// CenterX returns the horizontal center of the render surface.
func (c *LayoutConfig) CenterX() float64 {
	return float64(c.PlayResX) / 2
}

func (c *LayoutConfig) fadeOut() float64 {
	return float64(c.FadeOutMs) / 1000
}

func (c *LayoutConfig) clearBuffer() float64 {
	return float64(c.ClearBufferMs) / 1000
}

func (c *LayoutConfig) cascade() float64 {
	return float64(c.CascadeDelayMs) / 1000
}
