package caption

import (
	"strings"
	"testing"

	"github.com/okanek/kashi/internal/ass"
)

func docWith(events ...*ass.Event) *ass.Document {
	doc := ass.NewDocument()
	for _, ev := range events {
		doc.AddEvent(ev)
	}
	return doc
}

func TestStripsMarkupAndDropsEmpties(t *testing.T) {
	doc := docWith(
		&ass.Event{Kind: ass.KindDialogue, Start: 0, End: 2, Text: `{\an8\pos(10,20)}Hello\Nworld`},
		&ass.Event{Kind: ass.KindDialogue, Start: 3, End: 4, Text: `{\fad(200,200)}`},
		&ass.Event{Kind: ass.KindComment, Start: 5, End: 6, Text: "note"},
	)
	caps := FromDocument(doc, Options{})
	if len(caps) != 1 {
		t.Fatalf("expected 1 caption, got %d", len(caps))
	}
	if caps[0].Text != "Hello world" {
		t.Errorf("got %q", caps[0].Text)
	}

	caps = FromDocument(doc, Options{LineBreaks: true})
	if caps[0].Text != "Hello\nworld" {
		t.Errorf("line break not kept: %q", caps[0].Text)
	}
}

func TestOverlappingEventsStack(t *testing.T) {
	doc := docWith(
		&ass.Event{Kind: ass.KindDialogue, Start: 0, End: 4, Text: "lower"},
		&ass.Event{Kind: ass.KindDialogue, Start: 2, End: 6, Text: "upper"},
	)
	caps := FromDocument(doc, Options{})
	if len(caps) != 3 {
		t.Fatalf("expected 3 slices, got %d", len(caps))
	}
	if caps[0].Text != "lower" || caps[2].Text != "upper" {
		t.Errorf("edge slices wrong: %q / %q", caps[0].Text, caps[2].Text)
	}
	mid := caps[1]
	if mid.Start != 2 || mid.End != 4 {
		t.Errorf("middle slice %v..%v", mid.Start, mid.End)
	}
	if mid.Text != "lower\nupper" {
		t.Errorf("stacked text %q", mid.Text)
	}
}

func TestStackOrderByPosition(t *testing.T) {
	doc := docWith(
		&ass.Event{Kind: ass.KindDialogue, Start: 0, End: 2, Text: `{\pos(100,50)}left`},
		&ass.Event{Kind: ass.KindDialogue, Start: 0, End: 2, Text: `{\pos(500,50)}right`},
	)
	caps := FromDocument(doc, Options{})
	if len(caps) != 1 {
		t.Fatalf("expected 1 caption, got %d", len(caps))
	}
	// right-to-left: higher X first
	if caps[0].Text != "right\nleft" {
		t.Errorf("stack order %q", caps[0].Text)
	}
}

func TestAllowOverlapKeepsEventsSeparate(t *testing.T) {
	doc := docWith(
		&ass.Event{Kind: ass.KindDialogue, Start: 2, End: 6, Text: "second"},
		&ass.Event{Kind: ass.KindDialogue, Start: 0, End: 4, Text: "first"},
	)
	caps := FromDocument(doc, Options{AllowOverlap: true})
	if len(caps) != 2 {
		t.Fatalf("expected 2 captions, got %d", len(caps))
	}
	if caps[0].Text != "first" || caps[1].Text != "second" {
		t.Errorf("start order wrong: %q, %q", caps[0].Text, caps[1].Text)
	}
}

func TestJoinAdjacentIdenticalText(t *testing.T) {
	doc := docWith(
		&ass.Event{Kind: ass.KindDialogue, Start: 0, End: 2, Text: "Same text"},
		&ass.Event{Kind: ass.KindDialogue, Start: 2, End: 4, Text: "Same text"},
	)
	caps := FromDocument(doc, Options{Join: true})
	if len(caps) != 1 {
		t.Fatalf("expected joined caption, got %d", len(caps))
	}
	if caps[0].Start != 0 || caps[0].End != 4 {
		t.Errorf("joined range %v..%v, want 0..4", caps[0].Start, caps[0].End)
	}

	// without join the two captions stay separate
	caps = FromDocument(doc, Options{})
	if len(caps) != 2 {
		t.Errorf("expected 2 captions without join, got %d", len(caps))
	}
}

func TestDedupIdenticalConsecutive(t *testing.T) {
	doc := docWith(
		&ass.Event{Kind: ass.KindDialogue, Start: 0, End: 2, Text: "dup"},
		&ass.Event{Kind: ass.KindDialogue, Start: 0, End: 2, Text: "dup"},
	)
	caps := FromDocument(doc, Options{})
	if len(caps) != 1 {
		t.Errorf("expected dedup to 1 caption, got %d", len(caps))
	}
}

func TestWriteFormat(t *testing.T) {
	var sb strings.Builder
	err := Write(&sb, []*Caption{
		{Start: 0, End: 1.5, Text: "one"},
		{Start: 61.25, End: 3600, Text: "two\nlines"},
	})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := "1\n0:00:00,00 --> 0:00:01,50\none\n\n" +
		"2\n0:01:01,25 --> 1:00:00,00\ntwo\nlines\n\n"
	if sb.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", sb.String(), want)
	}
}
