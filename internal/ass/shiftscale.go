package ass

import (
	"math"
	"strconv"
	"strings"
)

// ShiftScaleOptions describe a combined time and geometry rewrite.
// A zero TimeScale or axis scale means "unchanged" (factor 1).
type ShiftScaleOptions struct {
	TimeScale  float64
	TimeOffset float64
	TimeOrigin float64

	// Clip truncates or drops events outside [ClipStart, ClipEnd]
	// (source time domain) before the time rewrite.
	Clip      bool
	ClipStart float64
	ClipEnd   float64

	ScaleX  float64
	ScaleY  float64
	OffsetX float64
	OffsetY float64
	OriginX float64
	OriginY float64

	// Styles also rewrites the style table (font size, outline, shadow,
	// spacing, margins per alignment).
	Styles bool
}

func (o *ShiftScaleOptions) normalize() {
	if o.TimeScale == 0 {
		o.TimeScale = 1
	}
	if o.ScaleX == 0 {
		o.ScaleX = 1
	}
	if o.ScaleY == 0 {
		o.ScaleY = 1
	}
}

func (o *ShiftScaleOptions) timeIdentity() bool {
	return o.TimeScale == 1 && o.TimeOffset == 0
}

func (o *ShiftScaleOptions) geomIdentity() bool {
	return o.ScaleX == 1 && o.ScaleY == 1 && o.OffsetX == 0 && o.OffsetY == 0
}

func (o *ShiftScaleOptions) mapTime(t float64) float64 {
	return (t-o.TimeOrigin)*o.TimeScale + o.TimeOrigin + o.TimeOffset
}

func (o *ShiftScaleOptions) mapX(x float64) float64 {
	return (x-o.OriginX)*o.ScaleX + o.OriginX + o.OffsetX
}

func (o *ShiftScaleOptions) mapY(y float64) float64 {
	return (y-o.OriginY)*o.ScaleY + o.OriginY + o.OffsetY
}

// isoScale is the averaged factor applied to isotropic magnitudes
// (border, shadow, blur, spacing).
func (o *ShiftScaleOptions) isoScale() float64 {
	return (o.ScaleX + o.ScaleY) / 2
}

// ShiftScale applies the combined rewrite to event bounds, timed and
// geometric override tags, drawing commands, and (optionally) the style
// table. An invalid clip range fails before any mutation.
func (d *Document) ShiftScale(opts ShiftScaleOptions) error {
	opts.normalize()
	if opts.Clip && opts.ClipStart > opts.ClipEnd {
		return validationErrorf("clip start %v after end %v", opts.ClipStart, opts.ClipEnd)
	}

	if opts.Clip {
		d.SplitAt(opts.ClipStart, nil)
		d.SplitAt(opts.ClipEnd, nil)
		kept := d.Events[:0]
		for _, ev := range d.Events {
			if ev.End <= opts.ClipStart || ev.Start >= opts.ClipEnd {
				continue
			}
			kept = append(kept, ev)
		}
		d.Events = kept
	}

	for _, ev := range d.Events {
		if !opts.timeIdentity() {
			ev.Start = opts.mapTime(ev.Start)
			ev.End = opts.mapTime(ev.End)
		}
		ev.Text = opts.rewriteText(ev.Text)
	}

	if opts.Styles && !opts.geomIdentity() {
		for _, style := range d.Styles {
			opts.rewriteStyle(style)
		}
	}
	return nil
}

func (o *ShiftScaleOptions) rewriteText(text string) string {
	if o.timeIdentity() && o.geomIdentity() {
		return text
	}
	return RewriteText(text, TextCallbacks{
		Tag:     o.rewriteTag,
		Drawing: o.rewriteDrawing,
	})
}

// scaleArg rescales one numeric tag argument in place, rounding to the
// integer units inline tags use (centisecond-equivalent for times).
func scaleArg(args []string, i int, factor float64) {
	if i >= len(args) {
		return
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(args[i]), 64)
	if err != nil {
		return
	}
	args[i] = strconv.Itoa(int(math.Round(v * factor)))
}

func mapArg(args []string, i int, f func(float64) float64) {
	if i >= len(args) {
		return
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(args[i]), 64)
	if err != nil {
		return
	}
	args[i] = formatNumber(f(v))
}

func (o *ShiftScaleOptions) rewriteTag(tag Tag) []Piece {
	args := append([]string(nil), tag.Args...)

	switch tag.Name {
	case "k", "K", "kf", "ko":
		if o.timeIdentity() {
			return nil
		}
		scaleArg(args, 0, o.TimeScale)

	case "t":
		// forms: (tags) (accel,tags) (t1,t2,tags) (t1,t2,accel,tags);
		// the nested list was already rewritten by the recursive pass
		if len(args) >= 3 && !o.timeIdentity() {
			scaleArg(args, 0, o.TimeScale)
			scaleArg(args, 1, o.TimeScale)
		}

	case "fad":
		if o.timeIdentity() {
			return nil
		}
		scaleArg(args, 0, o.TimeScale)
		scaleArg(args, 1, o.TimeScale)

	case "fade":
		if o.timeIdentity() {
			return nil
		}
		for i := 3; i < len(args); i++ {
			scaleArg(args, i, o.TimeScale)
		}

	case "move":
		if !o.geomIdentity() {
			mapArg(args, 0, o.mapX)
			mapArg(args, 1, o.mapY)
			mapArg(args, 2, o.mapX)
			mapArg(args, 3, o.mapY)
		}
		if len(args) == 6 && !o.timeIdentity() {
			scaleArg(args, 4, o.TimeScale)
			scaleArg(args, 5, o.TimeScale)
		}

	case "pos", "org":
		if o.geomIdentity() {
			return nil
		}
		mapArg(args, 0, o.mapX)
		mapArg(args, 1, o.mapY)

	case "clip", "iclip":
		if o.geomIdentity() {
			return nil
		}
		if len(args) == 4 {
			mapArg(args, 0, o.mapX)
			mapArg(args, 1, o.mapY)
			mapArg(args, 2, o.mapX)
			mapArg(args, 3, o.mapY)
		} else if len(args) == 1 {
			args[0] = o.rewriteDrawing(args[0])
		}

	case "bord", "shad", "blur", "be", "fsp":
		if o.geomIdentity() {
			return nil
		}
		mapArg(args, 0, func(v float64) float64 { return v * o.isoScale() })

	case "xbord", "xshad":
		if o.geomIdentity() {
			return nil
		}
		mapArg(args, 0, func(v float64) float64 { return v * o.ScaleX })

	case "ybord", "yshad", "pbo":
		if o.geomIdentity() {
			return nil
		}
		mapArg(args, 0, func(v float64) float64 { return v * o.ScaleY })

	default:
		return nil
	}
	return []Piece{{Tag: &Tag{Name: tag.Name, Args: args}}}
}

// rewriteDrawing rescales drawing command coordinates, alternating X/Y
// for numeric tokens and passing command letters through.
func (o *ShiftScaleOptions) rewriteDrawing(s string) string {
	if o.geomIdentity() {
		return s
	}
	tokens := strings.Fields(s)
	coord := 0
	for i, tok := range tokens {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			continue
		}
		if coord%2 == 0 {
			tokens[i] = formatNumber(o.mapX(v))
		} else {
			tokens[i] = formatNumber(o.mapY(v))
		}
		coord++
	}
	return strings.Join(tokens, " ")
}

// rewriteStyle rescales a style's metrics and recomputes its margins
// according to alignment: top-aligned styles keep top-relative margin
// semantics, bottom-aligned keep bottom-relative, middle-aligned only
// scale.
func (o *ShiftScaleOptions) rewriteStyle(s *Style) {
	s.FontSize = s.FontSize * o.ScaleY
	s.Outline = s.Outline * o.isoScale()
	s.Shadow = s.Shadow * o.isoScale()
	s.Spacing = s.Spacing * o.isoScale()

	roundMargin := func(v float64) int {
		return int(math.Round(v))
	}

	left := float64(s.MarginL)*o.ScaleX + o.OffsetX
	right := float64(s.MarginR)*o.ScaleX - o.OffsetX
	s.MarginL = roundMargin(left)
	s.MarginR = roundMargin(right)

	v := float64(s.MarginV)
	switch {
	case s.Alignment >= 7: // top row
		s.MarginV = roundMargin(v*o.ScaleY + o.OffsetY)
	case s.Alignment <= 3: // bottom row
		s.MarginV = roundMargin(v*o.ScaleY - o.OffsetY)
	default: // middle row
		s.MarginV = roundMargin(v * o.ScaleY)
	}
}
