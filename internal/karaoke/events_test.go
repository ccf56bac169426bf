package karaoke

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/okanek/kashi/internal/ass"
	"github.com/okanek/kashi/internal/lyrics"
)

// karaokeDurations sums the centisecond arguments of every timing tag
// in an event text.
func karaokeDurations(t *testing.T, text string) int {
	t.Helper()
	sum := 0
	ass.RewriteText(text, ass.TextCallbacks{
		Tag: func(tag ass.Tag) []ass.Piece {
			switch tag.Name {
			case "k", "K", "kf", "ko":
				if len(tag.Args) != 1 {
					t.Fatalf("timing tag %q with %d args", tag.Name, len(tag.Args))
				}
				v, err := strconv.Atoi(tag.Args[0])
				if err != nil {
					t.Fatalf("timing arg %q: %v", tag.Args[0], err)
				}
				sum += v
			}
			return nil
		},
	})
	return sum
}

func TestKaraokeDurationsSumToLineSpan(t *testing.T) {
	line := lyrics.Line{
		Text:  "one two three",
		Start: 10.0,
		End:   13.0,
		Words: []lyrics.Word{
			{Text: "one", Start: 10.0, End: 10.8},
			{Text: "two", Start: 10.85, End: 11.6}, // 0.05 gap, absorbed
			{Text: "three", Start: 12.0, End: 13.0}, // 0.4 gap, tagged
		},
	}
	fadeIn := 5.0
	body := karaokeBody(line, fadeIn)

	want := int(math.Round((line.End - fadeIn) * 100))
	if got := karaokeDurations(t, body); got != want {
		t.Errorf("durations sum to %d cs, want %d", got, want)
	}

	if !strings.HasPrefix(body, `{\k500}`) {
		t.Errorf("missing initial delay tag: %q", body)
	}
	if !strings.Contains(body, `{\k40}{\kf100}three`) {
		t.Errorf("gap before third word not tagged: %q", body)
	}
	if strings.Contains(body, `{\k5}`) {
		t.Errorf("sub-threshold gap should be absorbed: %q", body)
	}
}

func TestLineEventShape(t *testing.T) {
	cfg := layoutForTest()
	sl := &ScheduledLine{
		Line: lyrics.Line{
			Text: "hey", Start: 20, End: 21,
			Words: []lyrics.Word{{Text: "hey", Start: 20, End: 21}},
		},
		Slot:    1,
		Y:       cfg.SlotY(1),
		FadeIn:  15,
		FadeOut: 23.3,
	}
	ev := NewEmitter(cfg, 0).lineEvent(sl)

	if ev.Start != 15 || ev.End != 23.3 {
		t.Errorf("event bounds %v..%v", ev.Start, ev.End)
	}
	if !strings.HasPrefix(ev.Text, `{\an8}{\pos(960,410)}{\fad(300,300)}`) {
		t.Errorf("positioning prefix wrong: %q", ev.Text)
	}
	if !strings.Contains(ev.Text, `{\kf100}hey`) {
		t.Errorf("karaoke fill missing: %q", ev.Text)
	}
}

func TestSectionEventCarriesMarker(t *testing.T) {
	cfg := layoutForTest()
	sec := Section{Kind: SectionInstrumental, Start: 3, End: 15, GapSeconds: 18}
	ev := NewEmitter(cfg, 0).sectionEvent(&sec)

	if ev.Start != 3 || ev.End != 15 {
		t.Errorf("event bounds %v..%v", ev.Start, ev.End)
	}
	if !strings.Contains(ev.Text, "♪ INSTRUMENTAL (18 seconds) ♪") {
		t.Errorf("marker missing: %q", ev.Text)
	}
}

func TestLeadInEmittedOnlyAfterSilence(t *testing.T) {
	cfg := layoutForTest()
	cfg.LeadIn.Enabled = true
	cfg.LeadIn.GapThreshold = 5

	screens := []ScheduledScreen{{
		Screen: &LineScreen{},
		Lines: []ScheduledLine{
			{
				Line:   lyrics.Line{Text: "a", Start: 20, End: 22, Words: []lyrics.Word{{Text: "a", Start: 20, End: 22}}},
				FadeIn: 15, FadeOut: 24.3, Y: cfg.SlotY(0),
			},
			{
				Line:   lyrics.Line{Text: "b", Start: 23, End: 25, Words: []lyrics.Word{{Text: "b", Start: 23, End: 25}}},
				FadeIn: 15.2, FadeOut: 27.3, Slot: 1, Y: cfg.SlotY(1),
			},
		},
	}}

	doc := ass.NewDocument()
	doc.AddStyle(KaraokeStyle(cfg))
	NewEmitter(cfg, 0).EmitInto(doc, screens)

	// gap before the first line is 20s: lead-in plus line; the second
	// line follows within 1s: line only
	if len(doc.Events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(doc.Events))
	}
	lead := doc.Events[0]
	if !strings.Contains(lead.Text, `\p1`) || !strings.Contains(lead.Text, `\move(`) {
		t.Errorf("lead-in is not a moving drawing: %q", lead.Text)
	}
	if lead.End != 20 {
		t.Errorf("lead-in should land at line start, ends at %v", lead.End)
	}
	if lead.Start != 18 {
		t.Errorf("lead-in window start %v, want 18", lead.Start)
	}
}

func TestLeadInDisabled(t *testing.T) {
	cfg := layoutForTest()
	cfg.LeadIn.Enabled = false

	screens := []ScheduledScreen{{
		Screen: &LineScreen{},
		Lines: []ScheduledLine{{
			Line:   lyrics.Line{Text: "a", Start: 20, End: 22, Words: []lyrics.Word{{Text: "a", Start: 20, End: 22}}},
			FadeIn: 15, FadeOut: 24.3,
		}},
	}}

	doc := ass.NewDocument()
	doc.AddStyle(KaraokeStyle(cfg))
	NewEmitter(cfg, 0).EmitInto(doc, screens)
	if len(doc.Events) != 1 {
		t.Errorf("expected only the line event, got %d", len(doc.Events))
	}
}
