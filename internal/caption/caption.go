// Package caption flattens subtitle documents into plain timed caption
// blocks with no tag markup.
package caption

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/okanek/kashi/internal/ass"
)

// Caption is one emitted block. Start and End are in seconds.
type Caption struct {
	Start float64
	End   float64
	Text  string
}

// Options tune the export.
type Options struct {
	// AllowOverlap emits one caption per dialogue event even when their
	// time ranges intersect. When false, overlapping events are sliced
	// into maximal concurrent blocks and stacked into multi-line
	// captions.
	AllowOverlap bool
	// LineBreaks keeps hard breaks as real line breaks instead of
	// collapsing them to a space.
	LineBreaks bool
	// Join merges consecutive captions with identical text whose time
	// ranges touch exactly.
	Join bool
}

// line is one dialogue event reduced to its display form, plus the
// ordering keys used when stacking concurrent lines.
type line struct {
	start   float64
	end     float64
	text    string
	posX    float64
	hasPos  bool
	align   int
	marginV int
	index   int
}

// FromDocument converts the document's dialogue events into captions.
func FromDocument(doc *ass.Document, opts Options) []*Caption {
	breakSep := " "
	if opts.LineBreaks {
		breakSep = "\n"
	}

	var lines []*line
	for i, ev := range doc.Events {
		if ev.Kind != ass.KindDialogue {
			continue
		}
		text := strings.TrimSpace(ass.StripTags(ev.Text, breakSep))
		if text == "" {
			continue
		}
		l := &line{
			start: ev.Start,
			end:   ev.End,
			text:  text,
			index: i,
		}
		if style := doc.StyleOf(ev); style != nil {
			l.align = style.Alignment
			l.marginV = style.MarginV
		}
		if ev.MarginV != 0 {
			l.marginV = ev.MarginV
		}
		if x, ok := explicitX(ev.Text); ok {
			l.posX = x
			l.hasPos = true
		}
		lines = append(lines, l)
	}

	var caps []*Caption
	if opts.AllowOverlap {
		sort.SliceStable(lines, func(i, j int) bool {
			return lines[i].start < lines[j].start
		})
		for _, l := range lines {
			caps = append(caps, &Caption{Start: l.start, End: l.end, Text: l.text})
		}
	} else {
		caps = stackConcurrent(lines)
	}

	caps = dedupConsecutive(caps)
	if opts.Join {
		caps = joinAdjacent(caps)
	}
	return caps
}

// explicitX returns the X coordinate of the first \pos or \move tag.
func explicitX(text string) (float64, bool) {
	var x float64
	found := false
	ass.RewriteText(text, ass.TextCallbacks{
		Tag: func(tag ass.Tag) []ass.Piece {
			if found || len(tag.Args) < 2 {
				return nil
			}
			if tag.Name == "pos" || tag.Name == "move" {
				v, err := strconv.ParseFloat(strings.TrimSpace(tag.Args[0]), 64)
				if err == nil {
					x = v
					found = true
				}
			}
			return nil
		},
	})
	return x, found
}

// stackConcurrent slices the timeline at every event boundary and emits
// one caption per slice holding every line active in it, stacked in
// reading order.
func stackConcurrent(lines []*line) []*Caption {
	if len(lines) == 0 {
		return nil
	}
	boundaries := make([]float64, 0, len(lines)*2)
	for _, l := range lines {
		boundaries = append(boundaries, l.start, l.end)
	}
	sort.Float64s(boundaries)
	boundaries = uniqueFloats(boundaries)

	var caps []*Caption
	for i := 1; i < len(boundaries); i++ {
		low, high := boundaries[i-1], boundaries[i]
		var active []*line
		for _, l := range lines {
			if l.start <= low && l.end >= high {
				active = append(active, l)
			}
		}
		if len(active) == 0 {
			continue
		}
		sort.SliceStable(active, func(i, j int) bool {
			return stackLess(active[i], active[j])
		})
		parts := make([]string, len(active))
		for k, l := range active {
			parts[k] = l.text
		}
		caps = append(caps, &Caption{
			Start: low,
			End:   high,
			Text:  strings.Join(parts, "\n"),
		})
	}
	return caps
}

// stackLess orders concurrent lines: explicit horizontal position right
// to left, then vertical alignment, then vertical margin, then input
// order.
func stackLess(a, b *line) bool {
	if a.hasPos != b.hasPos {
		return a.hasPos
	}
	if a.hasPos && a.posX != b.posX {
		return a.posX > b.posX
	}
	if a.align != b.align {
		return a.align < b.align
	}
	if a.marginV != b.marginV {
		return a.marginV < b.marginV
	}
	return a.index < b.index
}

func uniqueFloats(sorted []float64) []float64 {
	out := sorted[:0]
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			out = append(out, v)
		}
	}
	return out
}

func dedupConsecutive(caps []*Caption) []*Caption {
	var out []*Caption
	for _, c := range caps {
		if n := len(out); n > 0 {
			prev := out[n-1]
			if prev.Text == c.Text && prev.Start == c.Start && prev.End == c.End {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

func joinAdjacent(caps []*Caption) []*Caption {
	var out []*Caption
	for _, c := range caps {
		if n := len(out); n > 0 {
			prev := out[n-1]
			if prev.Text == c.Text && prev.End == c.Start {
				prev.End = c.End
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

// formatTime renders seconds as H:MM:SS,cc with a comma decimal marker.
func formatTime(t float64) string {
	cs := int(math.Round(t * 100))
	if cs < 0 {
		cs = 0
	}
	h := cs / 360000
	cs -= h * 360000
	m := cs / 6000
	cs -= m * 6000
	s := cs / 100
	cs -= s * 100
	return fmt.Sprintf("%d:%02d:%02d,%02d", h, m, s, cs)
}

// Write emits the caption block list: 1-based index, time range line,
// text, blank line.
func Write(w io.Writer, caps []*Caption) error {
	for i, c := range caps {
		_, err := fmt.Fprintf(w, "%d\n%s --> %s\n%s\n\n",
			i+1, formatTime(c.Start), formatTime(c.End), c.Text)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteFile writes the caption blocks to path.
func WriteFile(path string, caps []*Caption) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return Write(f, caps)
}
