package karaoke

import (
	"math"

	"github.com/okanek/kashi/internal/logging"
	"github.com/okanek/kashi/internal/lyrics"
)

// ActiveLineRecord is the occupancy a scheduled line leaves behind in
// its slot. The next screen's lines must not fade into a slot before
// the record clears.
type ActiveLineRecord struct {
	Slot int
	Y    float64
	// EndTime is the line end plus post-roll.
	EndTime float64
	// ClearTime is fade-out completion plus the clear buffer.
	ClearTime float64
}

// ScheduledLine is one line with its computed display timing. A line
// moves pending, fade-in, visible, fade-out, cleared; the fields are
// the transition times in song seconds.
type ScheduledLine struct {
	Line lyrics.Line
	Slot int
	Y    float64

	FadeIn  float64
	End     float64
	FadeOut float64
	Clear   float64
}

// ScheduledScreen pairs a screen with its scheduled lines. Section
// screens carry no lines.
type ScheduledScreen struct {
	Screen Screen
	Lines  []ScheduledLine
}

// Scheduler assigns slots and fade timing screen by screen. Screens must
// be processed in chronological order: each screen's timing depends on
// the occupancy left by its predecessor.
type Scheduler struct {
	cfg *LayoutConfig
	log *logging.Logger

	occupancy  map[int]ActiveLineRecord
	lastScreen []ActiveLineRecord
}

func NewScheduler(cfg *LayoutConfig, log *logging.Logger) *Scheduler {
	if log == nil {
		log = logging.NewNop()
	}
	return &Scheduler{
		cfg:       cfg,
		log:       log,
		occupancy: make(map[int]ActiveLineRecord),
	}
}

// Schedule computes display timing for every screen in order. The first
// line screen after a section marker uses unified timing: all of its
// lines share one fade-in. Every other screen cascades.
func (s *Scheduler) Schedule(screens []Screen) []ScheduledScreen {
	out := make([]ScheduledScreen, 0, len(screens))
	afterSection := false
	for _, scr := range screens {
		switch scr := scr.(type) {
		case *SectionScreen:
			out = append(out, ScheduledScreen{Screen: scr})
			afterSection = true
		case *LineScreen:
			lines := s.scheduleLines(scr, afterSection)
			out = append(out, ScheduledScreen{Screen: scr, Lines: lines})
			afterSection = false
		}
	}
	return out
}

func (s *Scheduler) scheduleLines(scr *LineScreen, unified bool) []ScheduledLine {
	cfg := s.cfg
	latestClear := 0.0
	for _, rec := range s.lastScreen {
		if rec.ClearTime > latestClear {
			latestClear = rec.ClearTime
		}
	}

	scheduled := make([]ScheduledLine, 0, len(scr.Lines))
	records := make([]ActiveLineRecord, 0, len(scr.Lines))
	fadeZero := 0.0
	for i, line := range scr.Lines {
		slot := i
		var fadeIn float64
		if unified {
			fadeIn = scr.Lines[0].Start - cfg.TargetPreshow
		} else {
			switch i {
			case 0:
				fadeIn = math.Max(line.Start-cfg.TargetPreshow, s.slotAvailable(slot))
			case 1:
				fadeIn = math.Max(fadeZero+cfg.cascade(), s.slotAvailable(slot))
			default:
				fadeIn = fadeZero + float64(i)*cfg.cascade()
				fadeIn = math.Max(fadeIn, latestClear+float64(i-2)*cfg.cascade())
				fadeIn = math.Max(fadeIn, s.slotAvailable(slot))
			}
		}
		if fadeIn < 0 {
			fadeIn = 0
		}
		if i == 0 {
			fadeZero = fadeIn
		}

		end := line.End + cfg.PostRoll
		fadeOut := end + cfg.fadeOut()
		clear := fadeOut + cfg.clearBuffer()

		sl := ScheduledLine{
			Line:    line,
			Slot:    slot,
			Y:       cfg.SlotY(slot),
			FadeIn:  fadeIn,
			End:     end,
			FadeOut: fadeOut,
			Clear:   clear,
		}
		scheduled = append(scheduled, sl)
		records = append(records, ActiveLineRecord{
			Slot:      slot,
			Y:         sl.Y,
			EndTime:   end,
			ClearTime: clear,
		})
		s.log.Debugw("scheduled line",
			"slot", slot, "start", line.Start, "fadeIn", fadeIn, "clear", clear)
	}

	// New records replace the previous occupants of their slots.
	for _, rec := range records {
		s.occupancy[rec.Slot] = rec
	}
	s.lastScreen = records
	return scheduled
}

// slotAvailable returns the earliest fade-in time the slot admits: zero
// when free, otherwise the current occupant's clear time.
func (s *Scheduler) slotAvailable(slot int) float64 {
	rec, ok := s.occupancy[slot]
	if !ok {
		return 0
	}
	return rec.EndTime + s.cfg.fadeOut() + s.cfg.clearBuffer()
}
