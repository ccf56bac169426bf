package ass

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Write serializes the document, preserving the declared field orders.
// Events with a negative start or end are skipped.
func (d *Document) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)

	write := func(s string) {
		_, _ = bw.WriteString(s)
	}

	write("[Script Info]\n")
	for _, entry := range d.Info {
		write(entry.Key + ": " + entry.Value + "\n")
	}
	write("\n[V4+ Styles]\n")

	styleFormat := d.styleFormat
	if styleFormat == nil {
		styleFormat = defaultStyleFormat()
	}
	write("Format: " + strings.Join(styleFormat, ", ") + "\n")
	for _, style := range d.Styles {
		fields := make([]string, 0, len(styleFormat))
		for _, name := range styleFormat {
			f, ok := styleFieldByName(name)
			if !ok {
				fields = append(fields, "")
				continue
			}
			fields = append(fields, f.format(style))
		}
		write("Style: " + strings.Join(fields, ",") + "\n")
	}

	write("\n[Events]\n")
	eventFormat := d.eventFormat
	if eventFormat == nil {
		eventFormat = defaultEventFormat()
	}
	write("Format: " + strings.Join(eventFormat, ", ") + "\n")
	for _, ev := range d.Events {
		if ev.Start < 0 || ev.End < 0 {
			continue
		}
		fields := make([]string, 0, len(eventFormat))
		for _, name := range eventFormat {
			f, ok := eventFieldByName(name)
			if !ok {
				fields = append(fields, "")
				continue
			}
			fields = append(fields, f.format(d, ev))
		}
		write(ev.Kind + ": " + strings.Join(fields, ",") + "\n")
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

// WriteFile serializes the document to path.
func (d *Document) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create subtitle document: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	return d.Write(f)
}
