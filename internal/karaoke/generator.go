package karaoke

import (
	"fmt"

	"github.com/okanek/kashi/internal/ass"
	"github.com/okanek/kashi/internal/logging"
	"github.com/okanek/kashi/internal/lyrics"
)

// Generator runs the full pipeline: section detection, screen building,
// slot scheduling, event emission, document assembly.
type Generator struct {
	cfg   *LayoutConfig
	style *ass.Style
	log   *logging.Logger
}

// NewGenerator builds a generator. A nil style falls back to the stock
// karaoke style; a nil logger disables logging.
func NewGenerator(cfg *LayoutConfig, style *ass.Style, log *logging.Logger) *Generator {
	if style == nil {
		style = KaraokeStyle(cfg)
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &Generator{cfg: cfg, style: style, log: log}
}

// Render builds the subtitle document for the given lyric lines and
// song duration.
func (g *Generator) Render(title string, lines []lyrics.Line, duration float64) (*ass.Document, error) {
	if err := lyrics.Validate(lines); err != nil {
		return nil, err
	}

	sections := DetectSections(lines, duration, g.cfg)
	g.log.Infow("detected sections", "count", len(sections))
	for _, sec := range sections {
		g.log.Debugw("section", "kind", sec.Kind, "start", sec.Start, "end", sec.End)
	}

	screens := BuildScreens(lines, sections, g.cfg)
	g.log.Infow("built screens", "count", len(screens))

	scheduled := NewScheduler(g.cfg, g.log).Schedule(screens)

	doc := ass.NewDocument()
	doc.SetInfo("Title", title)
	doc.SetInfo("ScriptType", "v4.00+")
	doc.SetInfo("WrapStyle", "0")
	doc.SetInfo("ScaledBorderAndShadow", "yes")
	doc.SetInfo("PlayResX", fmt.Sprintf("%d", g.cfg.PlayResX))
	doc.SetInfo("PlayResY", fmt.Sprintf("%d", g.cfg.PlayResY))

	styleIdx := doc.AddStyle(g.style)
	NewEmitter(g.cfg, styleIdx).EmitInto(doc, scheduled)

	g.log.Infow("rendered document", "events", len(doc.Events))
	return doc, nil
}

// KaraokeStyle is the stock top-anchored karaoke style scaled to the
// render surface.
func KaraokeStyle(cfg *LayoutConfig) *ass.Style {
	size := float64(cfg.PlayResY) / 18
	return &ass.Style{
		Name:            "Default",
		FontName:        "Arial",
		FontSize:        size,
		PrimaryColour:   ass.Colour{Red: 0xFF, Green: 0xFF, Blue: 0xFF},
		SecondaryColour: ass.Colour{Red: 0xFF, Green: 0xA0},
		OutlineColour:   ass.Colour{},
		BackColour:      ass.Colour{Alpha: 0x80},
		Bold:            true,
		ScaleX:          100,
		ScaleY:          100,
		BorderStyle:     1,
		Outline:         3,
		Shadow:          0,
		Alignment:       8,
		MarginL:         10,
		MarginR:         10,
		MarginV:         10,
		Encoding:        1,
	}
}
