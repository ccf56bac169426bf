// Package config loads the YAML render configuration and resolves it
// into the layout and style the karaoke pipeline consumes.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/okanek/kashi/internal/ass"
	"github.com/okanek/kashi/internal/karaoke"
)

// Config mirrors the YAML file. Zero values mean "use the default".
type Config struct {
	Resolution string `yaml:"resolution"`

	Font struct {
		Name string  `yaml:"name"`
		Size float64 `yaml:"size"`
		Bold *bool   `yaml:"bold"`
	} `yaml:"font"`

	// Colours are &HAABBGGRR (or bare BBGGRR) hex values, matching the
	// document format.
	Colours struct {
		Primary   string `yaml:"primary"`
		Secondary string `yaml:"secondary"`
		Outline   string `yaml:"outline"`
		Back      string `yaml:"back"`
	} `yaml:"colours"`

	LayoutOpts struct {
		MaxVisibleLines int     `yaml:"max_visible_lines"`
		TopPadding      float64 `yaml:"top_padding"`
		LineHeight      float64 `yaml:"line_height"`
	} `yaml:"layout"`

	Timing struct {
		GapThreshold   float64 `yaml:"gap_threshold"`
		TargetPreshow  float64 `yaml:"target_preshow"`
		PostRoll       float64 `yaml:"post_roll"`
		FadeInMs       int     `yaml:"fade_in_ms"`
		FadeOutMs      int     `yaml:"fade_out_ms"`
		CascadeDelayMs int     `yaml:"cascade_delay_ms"`
		ClearBufferMs  int     `yaml:"clear_buffer_ms"`
	} `yaml:"timing"`

	LeadIn struct {
		Enabled      *bool   `yaml:"enabled"`
		GapThreshold float64 `yaml:"gap_threshold"`
		Width        float64 `yaml:"width"`
		Height       float64 `yaml:"height"`
		Colour       string  `yaml:"colour"`
		Alpha        *uint8  `yaml:"alpha"`
		Outline      float64 `yaml:"outline"`
		OffsetX      float64 `yaml:"offset_x"`
		OffsetY      float64 `yaml:"offset_y"`
	} `yaml:"lead_in"`
}

// Load reads and parses a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML config document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// preset maps a resolution name to the render surface.
type preset struct {
	w, h int
}

var presets = map[string]preset{
	"4k":    {3840, 2160},
	"1080p": {1920, 1080},
	"720p":  {1280, 720},
	"360p":  {640, 360},
}

// ResolvePreset returns the render surface for a named resolution.
func ResolvePreset(name string) (int, int, error) {
	p, ok := presets[strings.ToLower(name)]
	if !ok {
		return 0, 0, &ass.ValidationError{Msg: fmt.Sprintf("unknown resolution preset %q", name)}
	}
	return p.w, p.h, nil
}

// Layout resolves the configuration into a complete LayoutConfig. The
// 1080p defaults scale with the chosen surface height.
func (c *Config) Layout() (karaoke.LayoutConfig, error) {
	cfg := karaoke.DefaultLayout()

	if c.Resolution != "" {
		w, h, err := ResolvePreset(c.Resolution)
		if err != nil {
			return cfg, err
		}
		scale := float64(h) / float64(cfg.PlayResY)
		cfg.PlayResX, cfg.PlayResY = w, h
		cfg.TopPadding *= scale
		cfg.LineHeight *= scale
		cfg.LeadIn.Width *= scale
		cfg.LeadIn.Height *= scale
		cfg.LeadIn.OffsetX *= scale
		cfg.LeadIn.OffsetY *= scale
	}

	if v := c.LayoutOpts.MaxVisibleLines; v > 0 {
		cfg.MaxVisibleLines = v
	}
	if v := c.LayoutOpts.TopPadding; v > 0 {
		cfg.TopPadding = v
	}
	if v := c.LayoutOpts.LineHeight; v > 0 {
		cfg.LineHeight = v
	}

	if v := c.Timing.GapThreshold; v > 0 {
		cfg.GapThreshold = v
	}
	if v := c.Timing.TargetPreshow; v > 0 {
		cfg.TargetPreshow = v
	}
	if v := c.Timing.PostRoll; v > 0 {
		cfg.PostRoll = v
	}
	if v := c.Timing.FadeInMs; v > 0 {
		cfg.FadeInMs = v
	}
	if v := c.Timing.FadeOutMs; v > 0 {
		cfg.FadeOutMs = v
	}
	if v := c.Timing.CascadeDelayMs; v > 0 {
		cfg.CascadeDelayMs = v
	}
	if v := c.Timing.ClearBufferMs; v > 0 {
		cfg.ClearBufferMs = v
	}

	if c.LeadIn.Enabled != nil {
		cfg.LeadIn.Enabled = *c.LeadIn.Enabled
	}
	if v := c.LeadIn.GapThreshold; v > 0 {
		cfg.LeadIn.GapThreshold = v
	}
	if v := c.LeadIn.Width; v > 0 {
		cfg.LeadIn.Width = v
	}
	if v := c.LeadIn.Height; v > 0 {
		cfg.LeadIn.Height = v
	}
	if v := c.LeadIn.Colour; v != "" {
		cfg.LeadIn.Colour = strings.TrimSuffix(strings.TrimPrefix(v, "&H"), "&")
	}
	if c.LeadIn.Alpha != nil {
		cfg.LeadIn.Alpha = *c.LeadIn.Alpha
	}
	if v := c.LeadIn.Outline; v > 0 {
		cfg.LeadIn.Outline = v
	}
	if v := c.LeadIn.OffsetX; v != 0 {
		cfg.LeadIn.OffsetX = v
	}
	if v := c.LeadIn.OffsetY; v != 0 {
		cfg.LeadIn.OffsetY = v
	}

	return cfg, nil
}

// Style resolves the configured style on top of the stock karaoke style
// for the given layout.
func (c *Config) Style(layout *karaoke.LayoutConfig) (*ass.Style, error) {
	style := karaoke.KaraokeStyle(layout)

	if c.Font.Name != "" {
		style.FontName = c.Font.Name
	}
	if c.Font.Size > 0 {
		style.FontSize = c.Font.Size
	}
	if c.Font.Bold != nil {
		style.Bold = *c.Font.Bold
	}

	assign := func(dst *ass.Colour, raw string) error {
		if raw == "" {
			return nil
		}
		col, err := parseColour(raw)
		if err != nil {
			return err
		}
		*dst = col
		return nil
	}
	if err := assign(&style.PrimaryColour, c.Colours.Primary); err != nil {
		return nil, err
	}
	if err := assign(&style.SecondaryColour, c.Colours.Secondary); err != nil {
		return nil, err
	}
	if err := assign(&style.OutlineColour, c.Colours.Outline); err != nil {
		return nil, err
	}
	if err := assign(&style.BackColour, c.Colours.Back); err != nil {
		return nil, err
	}
	return style, nil
}

// parseColour accepts &HAABBGGRR, &HBBGGRR and bare hex forms.
func parseColour(raw string) (ass.Colour, error) {
	s := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(raw), "&H"), "&")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return ass.Colour{}, &ass.ValidationError{Msg: fmt.Sprintf("bad colour %q", raw)}
	}
	return ass.Colour{
		Alpha: uint8(v >> 24),
		Blue:  uint8(v >> 16),
		Green: uint8(v >> 8),
		Red:   uint8(v),
	}, nil
}
