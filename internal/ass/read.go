package ass

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

type section int

const (
	sectionNone section = iota
	sectionInfo
	sectionStyles
	sectionEvents
	sectionUnknown
)

// Read parses a three-section subtitle document. A Format: line inside
// [V4+ Styles] or [Events] establishes the per-section field order; the
// remaining lines are mapped positionally through the field codecs.
// Content in unrecognized sections is ignored.
func Read(r io.Reader) (*Document, error) {
	doc := &Document{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	current := sectionNone
	lineNum := 0

	for scanner.Scan() {
		line := scanner.Text()
		lineNum++
		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\uFEFF")
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, ";") {
			continue
		}

		if strings.HasPrefix(trimmed, "[") {
			if !strings.HasSuffix(trimmed, "]") {
				return nil, formatErrorf(lineNum, "malformed section header %q", trimmed)
			}
			name := strings.ToLower(strings.Trim(trimmed, "[]"))
			switch name {
			case "script info":
				current = sectionInfo
			case "v4+ styles", "v4 styles", "styles":
				current = sectionStyles
			case "events":
				current = sectionEvents
			default:
				current = sectionUnknown
			}
			continue
		}

		switch current {
		case sectionInfo:
			key, value, ok := strings.Cut(trimmed, ":")
			if !ok {
				return nil, formatErrorf(lineNum, "script info line %q has no key", trimmed)
			}
			doc.SetInfo(strings.TrimSpace(key), strings.TrimSpace(value))

		case sectionStyles:
			if err := doc.readStyleLine(trimmed, lineNum); err != nil {
				return nil, err
			}

		case sectionEvents:
			if err := doc.readEventLine(trimmed, lineNum); err != nil {
				return nil, err
			}

		default:
			// content outside a recognized section is inert
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}

	if doc.styleFormat == nil {
		doc.styleFormat = defaultStyleFormat()
	}
	if doc.eventFormat == nil {
		doc.eventFormat = defaultEventFormat()
	}
	return doc, nil
}

// ReadFile opens and parses path.
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open subtitle document: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	return Read(f)
}

func parseFormatLine(value string) []string {
	cols := strings.Split(value, ",")
	for i := range cols {
		cols[i] = strings.TrimSpace(cols[i])
	}
	return cols
}

// splitFields splits a positional record on the first n-1 commas, so the
// final field (Text) keeps any commas it contains.
func splitFields(content string, n int) []string {
	parts := make([]string, 0, n)
	remaining := content
	for i := 0; i < n-1; i++ {
		idx := strings.Index(remaining, ",")
		if idx == -1 {
			break
		}
		parts = append(parts, remaining[:idx])
		remaining = remaining[idx+1:]
	}
	parts = append(parts, remaining)
	return parts
}

func (d *Document) readStyleLine(line string, lineNum int) error {
	key, value, ok := strings.Cut(line, ":")
	if !ok {
		return formatErrorf(lineNum, "style line %q has no key", line)
	}
	value = strings.TrimSpace(value)

	switch strings.TrimSpace(key) {
	case "Format":
		d.styleFormat = parseFormatLine(value)
		return nil
	case "Style":
		if d.styleFormat == nil {
			d.styleFormat = defaultStyleFormat()
		}
		parts := splitFields(value, len(d.styleFormat))
		if len(parts) != len(d.styleFormat) {
			return formatErrorf(lineNum, "style has %d fields, format declares %d",
				len(parts), len(d.styleFormat))
		}
		style := defaultStyle()
		for i, name := range d.styleFormat {
			f, ok := styleFieldByName(name)
			if !ok {
				continue
			}
			if err := f.parse(style, parts[i]); err != nil {
				return formatErrorf(lineNum, "style field %s: %v", name, err)
			}
		}
		// a declared style supersedes any placeholder fabricated earlier
		for _, have := range d.Styles {
			if have.Name == style.Name && have.Placeholder {
				*have = *style
				return nil
			}
		}
		d.AddStyle(style)
		return nil
	default:
		// inert (e.g. editor-specific keys)
		return nil
	}
}

func (d *Document) readEventLine(line string, lineNum int) error {
	key, value, ok := strings.Cut(line, ":")
	if !ok {
		return formatErrorf(lineNum, "event line %q has no key", line)
	}
	value = strings.TrimLeft(value, " ")

	kind := strings.TrimSpace(key)
	switch kind {
	case "Format":
		d.eventFormat = parseFormatLine(value)
		return nil
	case KindDialogue, KindComment:
		if d.eventFormat == nil {
			d.eventFormat = defaultEventFormat()
		}
		parts := splitFields(value, len(d.eventFormat))
		if len(parts) != len(d.eventFormat) {
			return formatErrorf(lineNum, "event has %d fields, format declares %d",
				len(parts), len(d.eventFormat))
		}
		ev := &Event{Kind: kind}
		for i, name := range d.eventFormat {
			f, ok := eventFieldByName(name)
			if !ok {
				continue
			}
			if err := f.parse(d, ev, parts[i]); err != nil {
				return formatErrorf(lineNum, "event field %s: %v", name, err)
			}
		}
		d.AddEvent(ev)
		return nil
	default:
		return nil
	}
}
