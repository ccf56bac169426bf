package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okanek/kashi/internal/ass"
)

func writeSampleDoc(t *testing.T, path string) {
	t.Helper()
	doc := ass.NewDocument()
	doc.SetInfo("ScriptType", "v4.00+")
	doc.AddEvent(&ass.Event{Kind: ass.KindDialogue, Start: 0, End: 2, Text: `{\an8}Same text`})
	doc.AddEvent(&ass.Event{Kind: ass.KindDialogue, Start: 2, End: 4, Text: "Same text"})
	if err := doc.WriteFile(path); err != nil {
		t.Fatal(err)
	}
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.ass")
	out := filepath.Join(dir, "out.txt")
	writeSampleDoc(t, in)

	rootCmd.SetArgs([]string{"export", in, "--join", "-o", out})
	if err := Execute(); err != nil {
		t.Fatalf("export: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)
	if !strings.Contains(got, "0:00:00,00 --> 0:00:04,00") {
		t.Errorf("joined caption missing:\n%s", got)
	}
	if strings.Contains(got, `\an8`) {
		t.Errorf("tags leaked into captions:\n%s", got)
	}
}

func TestTransformCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.ass")
	out := filepath.Join(dir, "out.ass")
	writeSampleDoc(t, in)

	rootCmd.SetArgs([]string{"transform", in, "--time-scale", "2", "-o", out})
	if err := Execute(); err != nil {
		t.Fatalf("transform: %v", err)
	}

	doc, err := ass.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(doc.Events))
	}
	if doc.Events[1].Start != 4 || doc.Events[1].End != 8 {
		t.Errorf("timecodes not doubled: %v..%v", doc.Events[1].Start, doc.Events[1].End)
	}
}
