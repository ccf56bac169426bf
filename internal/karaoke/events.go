package karaoke

import (
	"fmt"
	"math"
	"strings"

	"github.com/okanek/kashi/internal/ass"
	"github.com/okanek/kashi/internal/lyrics"
)

const (
	// gapAbsorb is the longest silence before a word that is folded
	// into its highlight instead of getting its own gap tag.
	gapAbsorb = 0.1
	// leadInWindow is how long the lead-in indicator travels before
	// arriving at the line start.
	leadInWindow = 2.0
	// leadInTravel is the horizontal distance the indicator covers.
	leadInTravel = 120.0
)

// Emitter turns scheduled screens into dialogue events.
type Emitter struct {
	cfg   *LayoutConfig
	style int
}

func NewEmitter(cfg *LayoutConfig, style int) *Emitter {
	return &Emitter{cfg: cfg, style: style}
}

// EmitInto appends events for every scheduled screen to doc.
func (e *Emitter) EmitInto(doc *ass.Document, screens []ScheduledScreen) {
	prevLineEnd := 0.0
	for _, scr := range screens {
		if sec, ok := scr.Screen.(*SectionScreen); ok {
			doc.AddEvent(e.sectionEvent(&sec.Section))
			continue
		}
		for _, sl := range scr.Lines {
			if e.cfg.LeadIn.Enabled && sl.Line.Start-prevLineEnd > e.cfg.LeadIn.GapThreshold {
				doc.AddEvent(e.leadInEvent(&sl))
			}
			doc.AddEvent(e.lineEvent(&sl))
			prevLineEnd = sl.Line.End
		}
	}
}

func (e *Emitter) sectionEvent(sec *Section) *ass.Event {
	cfg := e.cfg
	text := fmt.Sprintf(`{\an8}{\pos(%s,%s)}{\fad(%d,%d)}%s`,
		formatCoord(cfg.CenterX()), formatCoord(float64(cfg.PlayResY)/2),
		cfg.FadeInMs, cfg.FadeOutMs, sec.Marker())
	return &ass.Event{
		Kind:  ass.KindDialogue,
		Start: sec.Start,
		End:   sec.End,
		Style: e.style,
		Text:  text,
	}
}

func (e *Emitter) lineEvent(sl *ScheduledLine) *ass.Event {
	cfg := e.cfg
	var sb strings.Builder
	fmt.Fprintf(&sb, `{\an8}{\pos(%s,%s)}{\fad(%d,%d)}`,
		formatCoord(cfg.CenterX()), formatCoord(sl.Y), cfg.FadeInMs, cfg.FadeOutMs)
	sb.WriteString(karaokeBody(sl.Line, sl.FadeIn))
	return &ass.Event{
		Kind:  ass.KindDialogue,
		Start: sl.FadeIn,
		End:   sl.FadeOut,
		Style: e.style,
		Text:  sb.String(),
	}
}

// karaokeBody builds the timed text: a leading non-highlight tag from
// fade-in to the first word, a fill tag per word, and a gap tag for any
// silence longer than gapAbsorb. Durations are integer centiseconds on
// a cumulative grid so they sum to the line span without drift.
func karaokeBody(line lyrics.Line, fadeIn float64) string {
	cs := func(t float64) int {
		c := int(math.Round((t - fadeIn) * 100))
		if c < 0 {
			c = 0
		}
		return c
	}

	var sb strings.Builder
	cursor := fadeIn
	for i, w := range line.Words {
		start := w.Start
		if i == 0 || w.Start-cursor > gapAbsorb {
			fmt.Fprintf(&sb, `{\k%d}`, cs(w.Start)-cs(cursor))
		} else {
			start = cursor
		}
		fmt.Fprintf(&sb, `{\kf%d}%s`, cs(w.End)-cs(start), w.Text)
		if i < len(line.Words)-1 {
			sb.WriteString(" ")
		}
		cursor = w.End
	}
	return sb.String()
}

// leadInEvent draws a small rectangle that slides into the line's slot
// and lands exactly at the line start.
func (e *Emitter) leadInEvent(sl *ScheduledLine) *ass.Event {
	cfg := e.cfg
	li := cfg.LeadIn

	x2 := cfg.CenterX() + li.OffsetX - li.Width/2
	y := sl.Y + li.OffsetY
	x1 := x2 - leadInTravel
	start := sl.Line.Start - leadInWindow
	if start < sl.FadeIn {
		start = sl.FadeIn
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `{\an8}{\move(%s,%s,%s,%s)}{\fad(%d,0)}`,
		formatCoord(x1), formatCoord(y), formatCoord(x2), formatCoord(y), cfg.FadeInMs)
	fmt.Fprintf(&sb, `{\1c&H%s&\1a&H%02X&\bord%s}`, li.Colour, li.Alpha, formatCoord(li.Outline))
	fmt.Fprintf(&sb, `{\p1}m 0 0 l %[1]s 0 %[1]s %[2]s 0 %[2]s{\p0}`,
		formatCoord(li.Width), formatCoord(li.Height))

	return &ass.Event{
		Kind:  ass.KindDialogue,
		Start: start,
		End:   sl.Line.Start,
		Style: e.style,
		Text:  sb.String(),
	}
}

func formatCoord(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
