package karaoke

import (
	"testing"

	"github.com/okanek/kashi/internal/lyrics"
)

func layoutForTest() *LayoutConfig {
	cfg := DefaultLayout()
	return &cfg
}

func TestDetectIntro(t *testing.T) {
	lines := []lyrics.Line{{Text: "a", Start: 15.0, End: 18.0}}
	sections := DetectSections(lines, 180.0, layoutForTest())

	if len(sections) == 0 || sections[0].Kind != SectionIntro {
		t.Fatalf("expected leading intro, got %+v", sections)
	}
	intro := sections[0]
	if intro.Start != 1.0 || intro.End != 10.0 {
		t.Errorf("intro span %v..%v, want 1..10", intro.Start, intro.End)
	}
	if got := intro.Marker(); got != "♪ INTRO (15 seconds) ♪" {
		t.Errorf("marker %q", got)
	}
}

func TestDetectOutro(t *testing.T) {
	lines := []lyrics.Line{{Text: "a", Start: 0.0, End: 2.0}}
	sections := DetectSections(lines, 30.0, layoutForTest())

	if len(sections) != 1 || sections[0].Kind != SectionOutro {
		t.Fatalf("expected one outro, got %+v", sections)
	}
	outro := sections[0]
	if outro.Start != 3.0 || outro.End != 30.0 {
		t.Errorf("outro span %v..%v, want 3..30", outro.Start, outro.End)
	}
	if outro.GapSeconds != 28 {
		t.Errorf("gap %d seconds, want 28", outro.GapSeconds)
	}
}

func TestDetectInstrumental(t *testing.T) {
	lines := []lyrics.Line{
		{Text: "a", Start: 0, End: 2},
		{Text: "b", Start: 20, End: 22},
	}
	sections := DetectSections(lines, 25.0, layoutForTest())

	if len(sections) != 1 || sections[0].Kind != SectionInstrumental {
		t.Fatalf("expected one instrumental, got %+v", sections)
	}
	mid := sections[0]
	if mid.Start != 3.0 || mid.End != 15.0 {
		t.Errorf("span %v..%v, want 3..15", mid.Start, mid.End)
	}
	if mid.GapSeconds != 18 {
		t.Errorf("gap %d, want 18", mid.GapSeconds)
	}
}

func TestNoSectionsForTightLyrics(t *testing.T) {
	lines := []lyrics.Line{
		{Text: "a", Start: 2, End: 4},
		{Text: "b", Start: 6, End: 8},
	}
	if sections := DetectSections(lines, 12.0, layoutForTest()); len(sections) != 0 {
		t.Errorf("expected no sections, got %+v", sections)
	}
}

func TestNoLinesNoSections(t *testing.T) {
	if sections := DetectSections(nil, 60.0, layoutForTest()); sections != nil {
		t.Errorf("got %+v", sections)
	}
}
