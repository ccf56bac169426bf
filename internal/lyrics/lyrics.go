// Package lyrics loads word-level timed lyric segments produced by the
// upstream transcription/correction stage.
package lyrics

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/okanek/kashi/internal/ass"
)

// Word is a single timed token. Times are in seconds.
type Word struct {
	Text       string  `json:"text"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Line is one lyric segment with its word-level timings.
type Line struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Words []Word  `json:"words"`
}

// segmentFile is the JSON document shape: either a bare array of
// segments or an object wrapping them.
type segmentFile struct {
	Segments []Line `json:"segments"`
}

// Load reads lyric segments from a JSON file. Both a top-level array of
// segments and a {"segments": [...]} wrapper are accepted.
func Load(path string) ([]Line, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading segments: %w", err)
	}
	lines, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return lines, nil
}

// Parse decodes lyric segments from JSON and validates their timing.
func Parse(data []byte) ([]Line, error) {
	trimmed := strings.TrimLeftFunc(string(data), func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})

	var lines []Line
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(data, &lines); err != nil {
			return nil, err
		}
	} else {
		var file segmentFile
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, err
		}
		lines = file.Segments
	}

	for i := range lines {
		normalize(&lines[i])
	}
	if err := Validate(lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// normalize fills derivable fields: line text from words, line bounds
// from the first and last word.
func normalize(l *Line) {
	if len(l.Words) == 0 {
		return
	}
	if l.Text == "" {
		parts := make([]string, len(l.Words))
		for i, w := range l.Words {
			parts[i] = w.Text
		}
		l.Text = strings.Join(parts, " ")
	}
	if l.Start == 0 && l.End == 0 {
		l.Start = l.Words[0].Start
		l.End = l.Words[len(l.Words)-1].End
	}
}

// Validate checks that lines and their words are well formed and in
// ascending time order.
func Validate(lines []Line) error {
	prevEnd := 0.0
	for i, l := range lines {
		if l.End < l.Start {
			return &ass.ValidationError{Msg: fmt.Sprintf("segment %d ends (%v) before it starts (%v)", i, l.End, l.Start)}
		}
		if l.Start < prevEnd {
			return &ass.ValidationError{Msg: fmt.Sprintf("segment %d starts (%v) before segment %d ends (%v)", i, l.Start, i-1, prevEnd)}
		}
		prevEnd = l.End

		wordEnd := l.Start
		for j, w := range l.Words {
			if w.End < w.Start {
				return &ass.ValidationError{Msg: fmt.Sprintf("segment %d word %d ends (%v) before it starts (%v)", i, j, w.End, w.Start)}
			}
			if w.Start < wordEnd {
				return &ass.ValidationError{Msg: fmt.Sprintf("segment %d word %d starts (%v) before the previous word ends (%v)", i, j, w.Start, wordEnd)}
			}
			wordEnd = w.End
		}
		if len(l.Words) > 0 && l.Words[len(l.Words)-1].End > l.End {
			return &ass.ValidationError{Msg: fmt.Sprintf("segment %d words run past the segment end", i)}
		}
	}
	return nil
}
