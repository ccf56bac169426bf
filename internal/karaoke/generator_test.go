package karaoke

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/okanek/kashi/internal/ass"
	"github.com/okanek/kashi/internal/lyrics"
)

func TestRenderEndToEnd(t *testing.T) {
	cfg := layoutForTest()
	lines := []lyrics.Line{
		{
			Text: "first line", Start: 15, End: 18,
			Words: []lyrics.Word{
				{Text: "first", Start: 15, End: 16.2},
				{Text: "line", Start: 16.5, End: 18},
			},
		},
		{
			Text: "second line", Start: 19, End: 21,
			Words: []lyrics.Word{
				{Text: "second", Start: 19, End: 20},
				{Text: "line", Start: 20.2, End: 21},
			},
		},
	}

	gen := NewGenerator(cfg, nil, nil)
	doc, err := gen.Render("Test Song", lines, 180)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if doc.InfoValue("PlayResX") != "1920" || doc.InfoValue("PlayResY") != "1080" {
		t.Errorf("render surface info wrong: %q x %q",
			doc.InfoValue("PlayResX"), doc.InfoValue("PlayResY"))
	}
	if doc.InfoValue("Title") != "Test Song" {
		t.Errorf("title %q", doc.InfoValue("Title"))
	}

	var haveIntro, haveOutro, haveLyric bool
	for _, ev := range doc.Events {
		switch {
		case strings.Contains(ev.Text, "INTRO"):
			haveIntro = true
		case strings.Contains(ev.Text, "OUTRO"):
			haveOutro = true
		case strings.Contains(ev.Text, `\kf`):
			haveLyric = true
		}
	}
	if !haveIntro || !haveOutro || !haveLyric {
		t.Errorf("missing events: intro=%v outro=%v lyric=%v", haveIntro, haveOutro, haveLyric)
	}

	// the full document must survive serialization
	path := filepath.Join(t.TempDir(), "out.ass")
	if err := doc.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	back, err := ass.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(back.Events) != len(doc.Events) {
		t.Errorf("round trip lost events: %d vs %d", len(back.Events), len(doc.Events))
	}
}

func TestRenderRejectsInvalidLines(t *testing.T) {
	gen := NewGenerator(layoutForTest(), nil, nil)
	_, err := gen.Render("x", []lyrics.Line{{Text: "bad", Start: 5, End: 4}}, 60)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if _, ok := err.(*ass.ValidationError); !ok {
		t.Errorf("expected *ass.ValidationError, got %T", err)
	}
}
