package karaoke

import (
	"fmt"
	"math"

	"github.com/okanek/kashi/internal/lyrics"
)

// Section kinds.
const (
	SectionIntro        = "INTRO"
	SectionInstrumental = "INSTRUMENTAL"
	SectionOutro        = "OUTRO"
)

// Section is a detected silence in the lyric timeline: an intro before
// the first line, an instrumental between lines, or an outro after the
// last one. Start and End are the padded display bounds; GapSeconds is
// the original silence length in whole seconds.
type Section struct {
	Kind       string
	Start      float64
	End        float64
	GapSeconds int
}

// Marker returns the display text for the section's screen.
func (s *Section) Marker() string {
	return fmt.Sprintf("♪ %s (%d seconds) ♪", s.Kind, s.GapSeconds)
}

// DetectSections scans ordered lines for silences of at least
// cfg.GapThreshold seconds and returns their marker sections in
// chronological order. Display bounds shrink by the start and end
// padding so markers never crowd the surrounding lyrics; the outro runs
// to the end of the song.
func DetectSections(lines []lyrics.Line, duration float64, cfg *LayoutConfig) []Section {
	if len(lines) == 0 {
		return nil
	}
	var sections []Section

	if first := lines[0].Start; first >= cfg.GapThreshold {
		sections = append(sections, Section{
			Kind:       SectionIntro,
			Start:      cfg.StartPadding,
			End:        first - cfg.EndPadding,
			GapSeconds: wholeSeconds(first),
		})
	}

	for i := 1; i < len(lines); i++ {
		prevEnd := lines[i-1].End
		gap := lines[i].Start - prevEnd
		if gap < cfg.GapThreshold {
			continue
		}
		sections = append(sections, Section{
			Kind:       SectionInstrumental,
			Start:      prevEnd + cfg.StartPadding,
			End:        lines[i].Start - cfg.EndPadding,
			GapSeconds: wholeSeconds(gap),
		})
	}

	lastEnd := lines[len(lines)-1].End
	if gap := duration - lastEnd; gap >= cfg.GapThreshold {
		sections = append(sections, Section{
			Kind:       SectionOutro,
			Start:      lastEnd + cfg.StartPadding,
			End:        duration,
			GapSeconds: wholeSeconds(gap),
		})
	}
	return sections
}

func wholeSeconds(gap float64) int {
	return int(math.Round(gap))
}
