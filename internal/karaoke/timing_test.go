package karaoke

import (
	"math"
	"testing"

	"github.com/okanek/kashi/internal/lyrics"
)

func scheduleScreens(t *testing.T, cfg *LayoutConfig, screens []Screen) []ScheduledScreen {
	t.Helper()
	return NewScheduler(cfg, nil).Schedule(screens)
}

func TestCascadedFadeOffsets(t *testing.T) {
	cfg := layoutForTest()
	scr := &LineScreen{Lines: []lyrics.Line{
		lineAt(30, 32, "a"),
		lineAt(33, 35, "b"),
		lineAt(36, 38, "c"),
	}}
	out := scheduleScreens(t, cfg, []Screen{scr})

	lines := out[0].Lines
	if len(lines) != 3 {
		t.Fatalf("scheduled %d lines", len(lines))
	}
	if lines[0].FadeIn != 25 { // 30 - target preshow
		t.Errorf("line 0 fade-in %v, want 25", lines[0].FadeIn)
	}
	if got, want := lines[1].FadeIn, 25.2; math.Abs(got-want) > 1e-9 {
		t.Errorf("line 1 fade-in %v, want %v", got, want)
	}
	if got, want := lines[2].FadeIn, 25.4; math.Abs(got-want) > 1e-9 {
		t.Errorf("line 2 fade-in %v, want %v", got, want)
	}
}

func TestUnifiedTimingAfterSection(t *testing.T) {
	cfg := layoutForTest()
	screens := []Screen{
		&SectionScreen{Section: Section{Kind: SectionIntro, Start: 1, End: 10, GapSeconds: 15}},
		&LineScreen{Lines: []lyrics.Line{
			lineAt(15, 17, "a"),
			lineAt(18, 20, "b"),
		}},
	}
	out := scheduleScreens(t, cfg, screens)

	lines := out[1].Lines
	if lines[0].FadeIn != 10 || lines[1].FadeIn != 10 { // 15 - target preshow
		t.Errorf("unified fade-ins %v/%v, want 10/10", lines[0].FadeIn, lines[1].FadeIn)
	}
}

func TestFadeInNeverNegative(t *testing.T) {
	cfg := layoutForTest()
	scr := &LineScreen{Lines: []lyrics.Line{lineAt(1, 3, "a")}}
	out := scheduleScreens(t, cfg, []Screen{scr})
	if got := out[0].Lines[0].FadeIn; got != 0 {
		t.Errorf("fade-in %v, want clamp to 0", got)
	}
}

func TestSlotClearanceAcrossScreens(t *testing.T) {
	cfg := layoutForTest()
	screens := []Screen{
		&LineScreen{Lines: []lyrics.Line{lineAt(10, 12, "a")}},
		&LineScreen{Lines: []lyrics.Line{lineAt(12.5, 14, "b")}},
	}
	out := scheduleScreens(t, cfg, screens)

	first := out[0].Lines[0]
	second := out[1].Lines[0]
	if first.Slot != second.Slot {
		t.Fatalf("expected a shared slot, got %d and %d", first.Slot, second.Slot)
	}
	if second.FadeIn < first.Clear {
		t.Errorf("slot reused at %v before clear %v", second.FadeIn, first.Clear)
	}
	// clear = end + post roll + fade out + buffer
	wantClear := 12 + cfg.PostRoll + cfg.fadeOut() + cfg.clearBuffer()
	if math.Abs(first.Clear-wantClear) > 1e-9 {
		t.Errorf("clear %v, want %v", first.Clear, wantClear)
	}
}

func TestLaterLinesWaitForPreviousScreen(t *testing.T) {
	cfg := layoutForTest()
	screens := []Screen{
		&LineScreen{Lines: []lyrics.Line{
			lineAt(10, 30, "hold"), // occupies slot 0 for a long time
		}},
		&LineScreen{Lines: []lyrics.Line{
			lineAt(31, 33, "a"),
			lineAt(34, 36, "b"),
			lineAt(37, 39, "c"),
		}},
	}
	out := scheduleScreens(t, cfg, screens)

	prevClear := out[0].Lines[0].Clear
	third := out[1].Lines[2]
	if third.FadeIn < prevClear {
		t.Errorf("line 2 fades at %v before previous screen clears at %v",
			third.FadeIn, prevClear)
	}
}

func TestSectionScreensLeaveOccupancyAlone(t *testing.T) {
	cfg := layoutForTest()
	screens := []Screen{
		&LineScreen{Lines: []lyrics.Line{lineAt(0, 2, "a")}},
		&SectionScreen{Section: Section{Kind: SectionInstrumental, Start: 3, End: 10, GapSeconds: 12}},
		&LineScreen{Lines: []lyrics.Line{lineAt(15, 17, "b")}},
	}
	out := scheduleScreens(t, cfg, screens)

	if len(out[1].Lines) != 0 {
		t.Errorf("section screen scheduled %d lines", len(out[1].Lines))
	}
	// unified after the marker: shared preshow fade regardless of slots
	if got := out[2].Lines[0].FadeIn; got != 10 {
		t.Errorf("fade-in %v, want 10", got)
	}
}
