package karaoke

import (
	"sort"

	"github.com/okanek/kashi/internal/lyrics"
)

// Screen is one page of the karaoke timeline: either a group of lyric
// lines shown together or a synthetic section marker.
type Screen interface {
	// Start is the screen's chronological sort key.
	Start() float64
	// End is the time the screen's content is over, before any
	// post-roll or fade-out allowance.
	End() float64
}

// LineScreen holds up to MaxVisibleLines lyric lines displayed in
// top-to-bottom slot order.
type LineScreen struct {
	Lines []lyrics.Line
}

func (s *LineScreen) Start() float64 {
	if len(s.Lines) == 0 {
		return 0
	}
	return s.Lines[0].Start
}

func (s *LineScreen) End() float64 {
	end := 0.0
	for _, l := range s.Lines {
		if l.End > end {
			end = l.End
		}
	}
	return end
}

// SectionScreen shows one instrumental marker.
type SectionScreen struct {
	Section Section
}

func (s *SectionScreen) Start() float64 { return s.Section.Start }
func (s *SectionScreen) End() float64   { return s.Section.End }

// BuildScreens groups lines into screens and merges them with the
// section markers into one start-sorted sequence. A new line screen
// opens when none is open, the open one is full, or the line is the
// first after an instrumental boundary. Lines starting inside an
// instrumental interval belong to the marker and are skipped.
func BuildScreens(lines []lyrics.Line, sections []Section, cfg *LayoutConfig) []Screen {
	var screens []Screen
	for _, sec := range sections {
		screens = append(screens, &SectionScreen{Section: sec})
	}

	var open *LineScreen
	prevStart := -1.0
	for _, line := range lines {
		if insideInstrumental(line.Start, sections) {
			continue
		}
		if open == nil ||
			len(open.Lines) >= cfg.MaxVisibleLines ||
			crossesBoundary(prevStart, line.Start, sections) {
			open = &LineScreen{}
			screens = append(screens, open)
		}
		open.Lines = append(open.Lines, line)
		prevStart = line.Start
	}

	sort.SliceStable(screens, func(i, j int) bool {
		return screens[i].Start() < screens[j].Start()
	})
	return screens
}

func insideInstrumental(t float64, sections []Section) bool {
	for _, sec := range sections {
		if sec.Kind != SectionInstrumental {
			continue
		}
		if t >= sec.Start && t < sec.End {
			return true
		}
	}
	return false
}

// crossesBoundary reports whether an instrumental marker starts between
// the previous included line and the candidate line.
func crossesBoundary(prevStart, start float64, sections []Section) bool {
	for _, sec := range sections {
		if sec.Kind != SectionInstrumental {
			continue
		}
		if sec.Start > prevStart && sec.Start <= start {
			return true
		}
	}
	return false
}
