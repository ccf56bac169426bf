package ass

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Per-field codecs: each declared field name maps to a (format, parse)
// pair so section lines can be mapped positionally in whatever order the
// Format: header declares.

func formatInt(v int) string {
	return strconv.Itoa(v)
}

func parseInt(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	return v, nil
}

// formatNumber renders a float with trailing zeros stripped, matching how
// style editors write ScaleX/Outline values.
func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}

func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}

// formatTimecode renders seconds as H:MM:SS.cc.
func formatTimecode(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	cs := int(math.Round(seconds * 100))
	h := cs / 360000
	m := cs / 6000 % 60
	s := cs / 100 % 60
	c := cs % 100
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, c)
}

func parseTimecode(s string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid timecode %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid timecode %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid timecode %q", s)
	}
	sec, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid timecode %q", s)
	}
	return float64(h)*3600 + float64(m)*60 + sec, nil
}

// formatColour renders an ARGB colour as &HAABBGGRR.
func formatColour(c Colour) string {
	return fmt.Sprintf("&H%02X%02X%02X%02X", c.Alpha, c.Blue, c.Green, c.Red)
}

func parseColour(s string) (Colour, error) {
	hexPart := strings.TrimSpace(s)
	hexPart = strings.TrimPrefix(hexPart, "&H")
	hexPart = strings.TrimPrefix(hexPart, "&h")
	hexPart = strings.TrimSuffix(hexPart, "&")
	v, err := strconv.ParseUint(hexPart, 16, 32)
	if err != nil {
		return Colour{}, fmt.Errorf("invalid colour %q", s)
	}
	return Colour{
		Alpha: uint8(v >> 24),
		Blue:  uint8(v >> 16),
		Green: uint8(v >> 8),
		Red:   uint8(v),
	}, nil
}

// Booleans are encoded as -1 (true) / 0 (false) in style lines.
func formatBool(v bool) string {
	if v {
		return "-1"
	}
	return "0"
}

func parseBool(s string) (bool, error) {
	v, err := parseInt(s)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

type styleField struct {
	name   string
	format func(*Style) string
	parse  func(*Style, string) error
}

var styleFields = []styleField{
	{"Name",
		func(s *Style) string { return s.Name },
		func(s *Style, v string) error { s.Name = strings.TrimSpace(v); return nil }},
	{"Fontname",
		func(s *Style) string { return s.FontName },
		func(s *Style, v string) error { s.FontName = strings.TrimSpace(v); return nil }},
	{"Fontsize",
		func(s *Style) string { return formatNumber(s.FontSize) },
		func(s *Style, v string) error { var err error; s.FontSize, err = parseNumber(v); return err }},
	{"PrimaryColour",
		func(s *Style) string { return formatColour(s.PrimaryColour) },
		func(s *Style, v string) error { var err error; s.PrimaryColour, err = parseColour(v); return err }},
	{"SecondaryColour",
		func(s *Style) string { return formatColour(s.SecondaryColour) },
		func(s *Style, v string) error { var err error; s.SecondaryColour, err = parseColour(v); return err }},
	{"OutlineColour",
		func(s *Style) string { return formatColour(s.OutlineColour) },
		func(s *Style, v string) error { var err error; s.OutlineColour, err = parseColour(v); return err }},
	{"BackColour",
		func(s *Style) string { return formatColour(s.BackColour) },
		func(s *Style, v string) error { var err error; s.BackColour, err = parseColour(v); return err }},
	{"Bold",
		func(s *Style) string { return formatBool(s.Bold) },
		func(s *Style, v string) error { var err error; s.Bold, err = parseBool(v); return err }},
	{"Italic",
		func(s *Style) string { return formatBool(s.Italic) },
		func(s *Style, v string) error { var err error; s.Italic, err = parseBool(v); return err }},
	{"Underline",
		func(s *Style) string { return formatBool(s.Underline) },
		func(s *Style, v string) error { var err error; s.Underline, err = parseBool(v); return err }},
	{"StrikeOut",
		func(s *Style) string { return formatBool(s.StrikeOut) },
		func(s *Style, v string) error { var err error; s.StrikeOut, err = parseBool(v); return err }},
	{"ScaleX",
		func(s *Style) string { return formatNumber(s.ScaleX) },
		func(s *Style, v string) error { var err error; s.ScaleX, err = parseNumber(v); return err }},
	{"ScaleY",
		func(s *Style) string { return formatNumber(s.ScaleY) },
		func(s *Style, v string) error { var err error; s.ScaleY, err = parseNumber(v); return err }},
	{"Spacing",
		func(s *Style) string { return formatNumber(s.Spacing) },
		func(s *Style, v string) error { var err error; s.Spacing, err = parseNumber(v); return err }},
	{"Angle",
		func(s *Style) string { return formatNumber(s.Angle) },
		func(s *Style, v string) error { var err error; s.Angle, err = parseNumber(v); return err }},
	{"BorderStyle",
		func(s *Style) string { return formatInt(s.BorderStyle) },
		func(s *Style, v string) error { var err error; s.BorderStyle, err = parseInt(v); return err }},
	{"Outline",
		func(s *Style) string { return formatNumber(s.Outline) },
		func(s *Style, v string) error { var err error; s.Outline, err = parseNumber(v); return err }},
	{"Shadow",
		func(s *Style) string { return formatNumber(s.Shadow) },
		func(s *Style, v string) error { var err error; s.Shadow, err = parseNumber(v); return err }},
	{"Alignment",
		func(s *Style) string { return formatInt(s.Alignment) },
		func(s *Style, v string) error { var err error; s.Alignment, err = parseInt(v); return err }},
	{"MarginL",
		func(s *Style) string { return formatInt(s.MarginL) },
		func(s *Style, v string) error { var err error; s.MarginL, err = parseInt(v); return err }},
	{"MarginR",
		func(s *Style) string { return formatInt(s.MarginR) },
		func(s *Style, v string) error { var err error; s.MarginR, err = parseInt(v); return err }},
	{"MarginV",
		func(s *Style) string { return formatInt(s.MarginV) },
		func(s *Style, v string) error { var err error; s.MarginV, err = parseInt(v); return err }},
	{"Encoding",
		func(s *Style) string { return formatInt(s.Encoding) },
		func(s *Style, v string) error { var err error; s.Encoding, err = parseInt(v); return err }},
}

func styleFieldByName(name string) (styleField, bool) {
	for _, f := range styleFields {
		if strings.EqualFold(f.name, name) {
			return f, true
		}
	}
	return styleField{}, false
}

func defaultStyleFormat() []string {
	names := make([]string, len(styleFields))
	for i, f := range styleFields {
		names[i] = f.name
	}
	return names
}

// Event fields need the document for style-reference resolution.
type eventField struct {
	name   string
	format func(*Document, *Event) string
	parse  func(*Document, *Event, string) error
}

var eventFields = []eventField{
	{"Layer",
		func(_ *Document, e *Event) string { return formatInt(e.Layer) },
		func(_ *Document, e *Event, v string) error { var err error; e.Layer, err = parseInt(v); return err }},
	{"Start",
		func(_ *Document, e *Event) string { return formatTimecode(e.Start) },
		func(_ *Document, e *Event, v string) error { var err error; e.Start, err = parseTimecode(v); return err }},
	{"End",
		func(_ *Document, e *Event) string { return formatTimecode(e.End) },
		func(_ *Document, e *Event, v string) error { var err error; e.End, err = parseTimecode(v); return err }},
	{"Style",
		func(d *Document, e *Event) string { return d.StyleName(e.Style) },
		func(d *Document, e *Event, v string) error { e.Style = d.StyleIndex(strings.TrimSpace(v)); return nil }},
	{"Name",
		func(_ *Document, e *Event) string { return e.Name },
		func(_ *Document, e *Event, v string) error { e.Name = v; return nil }},
	{"MarginL",
		func(_ *Document, e *Event) string { return formatInt(e.MarginL) },
		func(_ *Document, e *Event, v string) error { var err error; e.MarginL, err = parseInt(v); return err }},
	{"MarginR",
		func(_ *Document, e *Event) string { return formatInt(e.MarginR) },
		func(_ *Document, e *Event, v string) error { var err error; e.MarginR, err = parseInt(v); return err }},
	{"MarginV",
		func(_ *Document, e *Event) string { return formatInt(e.MarginV) },
		func(_ *Document, e *Event, v string) error { var err error; e.MarginV, err = parseInt(v); return err }},
	{"Effect",
		func(_ *Document, e *Event) string { return e.Effect },
		func(_ *Document, e *Event, v string) error { e.Effect = v; return nil }},
	{"Text",
		func(_ *Document, e *Event) string { return e.Text },
		func(_ *Document, e *Event, v string) error { e.Text = v; return nil }},
}

func eventFieldByName(name string) (eventField, bool) {
	for _, f := range eventFields {
		if strings.EqualFold(f.name, name) {
			return f, true
		}
	}
	return eventField{}, false
}

func defaultEventFormat() []string {
	names := make([]string, len(eventFields))
	for i, f := range eventFields {
		names[i] = f.name
	}
	return names
}
