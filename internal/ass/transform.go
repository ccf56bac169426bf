package ass

import (
	"math"
	"sort"
)

// joinEpsilon is the tolerance for treating two events as time-adjacent.
const joinEpsilon = 1e-5

// OverlapPolicy controls how the time-range filter treats events that
// only partially intersect the range.
type OverlapPolicy int

const (
	// OverlapAny selects events with any intersection with the range.
	OverlapAny OverlapPolicy = iota
	// OverlapInside selects only events fully contained in the range.
	OverlapInside
)

// EventsIn returns indices of events of the given kind (or all kinds when
// kind is "") intersecting [start, end] under the policy.
func (d *Document) EventsIn(start, end float64, kind string, policy OverlapPolicy) ([]int, error) {
	if start > end {
		return nil, validationErrorf("time range start %v after end %v", start, end)
	}
	var idx []int
	for i, ev := range d.Events {
		if kind != "" && ev.Kind != kind {
			continue
		}
		switch policy {
		case OverlapInside:
			if ev.Start >= start && ev.End <= end {
				idx = append(idx, i)
			}
		default:
			if ev.End > start && ev.Start < end {
				idx = append(idx, i)
			}
		}
	}
	return idx, nil
}

// SplitTagFunc remaps one tag for a split piece. The piece spans
// [pieceStart, pieceEnd] of the original [evStart, evEnd] interval.
// Returning nil copies the tag unchanged.
type SplitTagFunc func(tag Tag, evStart, evEnd, pieceStart, pieceEnd float64) []Piece

// SplitAt splits every event straddling t into a before/after pair, each
// carrying a copy of the original tag state. An event whose bounds touch
// t exactly is left alone; a zero-width event at t stays as the middle of
// the resulting triple. A non-nil remap rewrites timed tags per piece;
// nil performs the naive copy.
func (d *Document) SplitAt(t float64, remap SplitTagFunc) {
	var result []*Event
	for _, ev := range d.Events {
		if ev.Start >= t || ev.End <= t {
			result = append(result, ev)
			continue
		}
		before := *ev
		after := *ev
		before.End = t
		after.Start = t
		if remap != nil {
			before.Text = remapSplitTags(ev.Text, remap, ev.Start, ev.End, before.Start, before.End)
			after.Text = remapSplitTags(ev.Text, remap, ev.Start, ev.End, after.Start, after.End)
		}
		result = append(result, &before, &after)
	}
	d.Events = result
}

func remapSplitTags(text string, remap SplitTagFunc, evStart, evEnd, pieceStart, pieceEnd float64) string {
	return RewriteText(text, TextCallbacks{
		Tag: func(tag Tag) []Piece {
			return remap(tag, evStart, evEnd, pieceStart, pieceEnd)
		},
	})
}

// Tags that animate a line over time. Their presence blocks a non-naive
// join because the merged interval would retime the animation.
var animatedTags = map[string]bool{
	"move": true, "fad": true, "fade": true, "t": true,
	"k": true, "K": true, "kf": true, "ko": true,
}

func hasAnimatedTag(text string) bool {
	found := false
	RewriteText(text, TextCallbacks{
		Tag: func(tag Tag) []Piece {
			if animatedTags[tag.Name] {
				found = true
			}
			return nil
		},
	})
	return found
}

// JoinAdjacent merges consecutive events with identical style and text
// whose interval bounds abut within joinEpsilon. Unless naive, events
// carrying an animated tag never join.
func (d *Document) JoinAdjacent(naive bool) {
	var result []*Event
	for _, ev := range d.Events {
		if len(result) > 0 {
			prev := result[len(result)-1]
			if prev.Kind == ev.Kind &&
				prev.Style == ev.Style &&
				prev.Text == ev.Text &&
				math.Abs(prev.End-ev.Start) <= joinEpsilon &&
				(naive || (!hasAnimatedTag(prev.Text) && !hasAnimatedTag(ev.Text))) {
				prev.End = ev.End
				continue
			}
		}
		result = append(result, ev)
	}
	d.Events = result
}

// Extract copies every event intersecting [start, end] into a fresh
// document, together with the styles they reference and the script info.
func (d *Document) Extract(start, end float64) (*Document, error) {
	idx, err := d.EventsIn(start, end, "", OverlapAny)
	if err != nil {
		return nil, err
	}
	out := NewDocument()
	out.Info = append([]InfoEntry(nil), d.Info...)
	out.styleFormat = append([]string(nil), d.styleFormatOrDefault()...)
	out.eventFormat = append([]string(nil), d.eventFormatOrDefault()...)

	for _, i := range idx {
		ev := *d.Events[i]
		if src := d.StyleOf(d.Events[i]); src != nil {
			cp := *src
			ev.Style = out.internNamed(&cp)
		} else {
			ev.Style = out.StyleIndex("Default")
		}
		out.AddEvent(&ev)
	}
	return out, nil
}

// Merge moves every event of other into d, shifted by offset seconds.
// Styles are added by structural equality: an existing equal style is
// reused instead of being duplicated.
func (d *Document) Merge(other *Document, offset float64) {
	for _, src := range other.Events {
		ev := *src
		ev.Start += offset
		ev.End += offset
		if style := other.StyleOf(src); style != nil {
			cp := *style
			ev.Style = d.InternStyle(&cp)
		} else {
			ev.Style = d.StyleIndex("Default")
		}
		d.AddEvent(&ev)
	}
	other.Events = nil
}

// internNamed registers s unless an identically named style exists.
func (d *Document) internNamed(s *Style) int {
	for i, have := range d.Styles {
		if have.Name == s.Name {
			return i
		}
	}
	return d.AddStyle(s)
}

func (d *Document) styleFormatOrDefault() []string {
	if d.styleFormat != nil {
		return d.styleFormat
	}
	return defaultStyleFormat()
}

func (d *Document) eventFormatOrDefault() []string {
	if d.eventFormat != nil {
		return d.eventFormat
	}
	return defaultEventFormat()
}

// TidyOptions tune the cleanup pass. Zero thresholds disable snapping.
type TidyOptions struct {
	// SnapStart collapses nearly-equal start timecodes across events.
	SnapStart float64
	// SnapEnd collapses nearly-equal end timecodes.
	SnapEnd float64
	// SnapAbut snaps a start onto a previous event's end when they
	// nearly touch.
	SnapAbut float64
	// Join runs a pairwise non-naive join pass after snapping.
	Join bool
	// Sort orders events by start time.
	Sort bool
	// DropEmpty removes events with non-positive duration.
	DropEmpty bool
}

// Tidy snaps nearly-equal timecodes to a common value, optionally joins,
// sorts, and drops degenerate events.
func (d *Document) Tidy(opts TidyOptions) {
	if opts.SnapStart > 0 {
		for i, a := range d.Events {
			for _, b := range d.Events[i+1:] {
				if math.Abs(a.Start-b.Start) <= opts.SnapStart {
					b.Start = a.Start
				}
			}
		}
	}
	if opts.SnapEnd > 0 {
		for i, a := range d.Events {
			for _, b := range d.Events[i+1:] {
				if math.Abs(a.End-b.End) <= opts.SnapEnd {
					b.End = a.End
				}
			}
		}
	}
	if opts.SnapAbut > 0 {
		for i, a := range d.Events {
			for j, b := range d.Events {
				if i == j {
					continue
				}
				if b.Start != a.End && math.Abs(b.Start-a.End) <= opts.SnapAbut {
					b.Start = a.End
				}
			}
		}
	}
	if opts.Join {
		d.JoinAdjacent(false)
	}
	if opts.Sort {
		sort.SliceStable(d.Events, func(i, j int) bool {
			return d.Events[i].Start < d.Events[j].Start
		})
	}
	if opts.DropEmpty {
		kept := d.Events[:0]
		for _, ev := range d.Events {
			if ev.End > ev.Start {
				kept = append(kept, ev)
			}
		}
		d.Events = kept
	}
}
