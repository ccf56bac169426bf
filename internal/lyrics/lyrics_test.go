package lyrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/okanek/kashi/internal/ass"
)

const segmentJSON = `{
  "segments": [
    {
      "text": "Hello world",
      "start": 1.0,
      "end": 2.5,
      "words": [
        {"text": "Hello", "start": 1.0, "end": 1.6, "confidence": 0.98},
        {"text": "world", "start": 1.7, "end": 2.5}
      ]
    },
    {
      "words": [
        {"text": "Second", "start": 3.0, "end": 3.4},
        {"text": "line", "start": 3.5, "end": 4.0}
      ]
    }
  ]
}`

func TestLoadSegments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "segments.json")
	if err := os.WriteFile(path, []byte(segmentJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	lines, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].Text != "Hello world" || lines[0].Start != 1.0 || lines[0].End != 2.5 {
		t.Errorf("line 0 = %+v", lines[0])
	}
	if lines[0].Words[0].Confidence != 0.98 {
		t.Errorf("confidence lost: %v", lines[0].Words[0].Confidence)
	}

	// derived fields for the sparse second segment
	if lines[1].Text != "Second line" {
		t.Errorf("derived text %q", lines[1].Text)
	}
	if lines[1].Start != 3.0 || lines[1].End != 4.0 {
		t.Errorf("derived bounds %v..%v", lines[1].Start, lines[1].End)
	}
}

func TestParseBareArray(t *testing.T) {
	lines, err := Parse([]byte(`[
  {"text": "a", "start": 0, "end": 1, "words": [{"text": "a", "start": 0, "end": 1}]}
]`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(lines) != 1 || lines[0].Text != "a" {
		t.Fatalf("got %+v", lines)
	}
}

func TestValidateRejectsBadTiming(t *testing.T) {
	cases := []struct {
		name  string
		lines []Line
	}{
		{"inverted segment", []Line{
			{Text: "x", Start: 5, End: 4},
		}},
		{"segments out of order", []Line{
			{Text: "a", Start: 0, End: 3},
			{Text: "b", Start: 2, End: 5},
		}},
		{"inverted word", []Line{
			{Text: "a", Start: 0, End: 3, Words: []Word{{Text: "a", Start: 2, End: 1}}},
		}},
		{"words out of order", []Line{
			{Text: "a b", Start: 0, End: 3, Words: []Word{
				{Text: "a", Start: 1, End: 2},
				{Text: "b", Start: 1.5, End: 3},
			}},
		}},
		{"word past segment end", []Line{
			{Text: "a", Start: 0, End: 1, Words: []Word{{Text: "a", Start: 0, End: 2}}},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.lines)
			if err == nil {
				t.Fatal("expected error")
			}
			if _, ok := err.(*ass.ValidationError); !ok {
				t.Errorf("expected *ass.ValidationError, got %T", err)
			}
		})
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse([]byte("not json")); err == nil {
		t.Error("expected decode error")
	}
}
