package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okanek/kashi/internal/audio"
	"github.com/okanek/kashi/internal/config"
	"github.com/okanek/kashi/internal/karaoke"
	"github.com/okanek/kashi/internal/lyrics"
)

var renderCmd = &cobra.Command{
	Use:   "render [segments.json]",
	Short: "Render word-level lyric segments into a karaoke subtitle file",
	Long: `Render reads word-level timed lyric segments (JSON) and produces a
karaoke ASS document with screens, instrumental markers and per-word
highlight timing.

The song duration comes from --duration, or is probed with ffprobe when
--audio points at the song's media file.

Examples:
  kashi render segments.json --audio song.mp3
  kashi render segments.json --duration 212.5 -o song.ass
  kashi render segments.json --audio song.flac --config render.yaml --resolution 720p`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().
		StringP("audio", "a", "", "Audio or video file to probe for the song duration")
	renderCmd.Flags().
		Float64P("duration", "d", 0, "Song duration in seconds (skips probing)")
	renderCmd.Flags().
		StringP("config", "c", "", "YAML render configuration file")
	renderCmd.Flags().
		StringP("resolution", "r", "", "Resolution preset (4k, 1080p, 720p, 360p)")
	renderCmd.Flags().
		StringP("title", "t", "", "Document title (defaults to the segment file name)")
}

func runRender(cmd *cobra.Command, args []string) error {
	segmentsPath := args[0]

	audioPath, _ := cmd.Flags().GetString("audio")
	duration, _ := cmd.Flags().GetFloat64("duration")
	configPath, _ := cmd.Flags().GetString("config")
	resolution, _ := cmd.Flags().GetString("resolution")
	title, _ := cmd.Flags().GetString("title")
	outputPath, _ := cmd.Flags().GetString("output")

	if duration <= 0 && audioPath == "" {
		return fmt.Errorf("song duration is required: use --duration or --audio")
	}

	cfg := &config.Config{}
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if resolution != "" {
		cfg.Resolution = resolution
	}

	layout, err := cfg.Layout()
	if err != nil {
		return err
	}
	style, err := cfg.Style(&layout)
	if err != nil {
		return err
	}

	lines, err := lyrics.Load(segmentsPath)
	if err != nil {
		return err
	}
	logger.Infow("loaded segments", "file", segmentsPath, "lines", len(lines))

	if duration <= 0 {
		duration, err = audio.Duration(audioPath)
		if err != nil {
			return err
		}
		logger.Infow("probed duration", "file", audioPath, "seconds", duration)
	}

	if title == "" {
		base := filepath.Base(segmentsPath)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	doc, err := karaoke.NewGenerator(&layout, style, logger).Render(title, lines, duration)
	if err != nil {
		return err
	}

	if outputPath == "" {
		outputPath = strings.TrimSuffix(segmentsPath, filepath.Ext(segmentsPath)) + ".ass"
	}
	if err := doc.WriteFile(outputPath); err != nil {
		return err
	}
	logger.Infow("wrote subtitle file", "file", outputPath, "events", len(doc.Events))
	return nil
}
