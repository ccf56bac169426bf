package cli

import (
	"math"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okanek/kashi/internal/ass"
)

var transformCmd = &cobra.Command{
	Use:   "transform [input.ass]",
	Short: "Shift, scale, clip or tidy a subtitle document",
	Long: `Transform applies time and geometry rewrites to a subtitle document:
scaling and shifting timecodes (including karaoke and animation tags),
rescaling positions, drawings and styles, clipping to a time window and
tidying nearly-equal timecodes.

Examples:
  kashi transform song.ass --time-scale 1.042709376 -o pal.ass
  kashi transform song.ass --clip-start 60 --clip-end 120
  kashi transform song.ass --scale-x 2 --scale-y 2 --scale-styles
  kashi transform song.ass --tidy --sort --drop-empty`,
	Args: cobra.ExactArgs(1),
	RunE: runTransform,
}

func init() {
	rootCmd.AddCommand(transformCmd)

	transformCmd.Flags().Float64("time-scale", 0, "Multiply all timecodes by this factor")
	transformCmd.Flags().Float64("time-offset", 0, "Shift all timecodes by this many seconds")
	transformCmd.Flags().Float64("time-origin", 0, "Fixed point for time scaling")
	transformCmd.Flags().Float64("clip-start", 0, "Drop content before this time")
	transformCmd.Flags().Float64("clip-end", 0, "Drop content after this time")
	transformCmd.Flags().Float64("scale-x", 0, "Horizontal geometry scale factor")
	transformCmd.Flags().Float64("scale-y", 0, "Vertical geometry scale factor")
	transformCmd.Flags().Float64("offset-x", 0, "Horizontal geometry offset in pixels")
	transformCmd.Flags().Float64("offset-y", 0, "Vertical geometry offset in pixels")
	transformCmd.Flags().Bool("scale-styles", false, "Also rescale the style table")
	transformCmd.Flags().Float64("snap", 0, "Snap nearly-equal timecodes within this many seconds")
	transformCmd.Flags().Bool("tidy", false, "Join identical adjacent events")
	transformCmd.Flags().Bool("sort", false, "Sort events by start time")
	transformCmd.Flags().Bool("drop-empty", false, "Drop zero-duration events")
}

func runTransform(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	doc, err := ass.ReadFile(inputPath)
	if err != nil {
		return err
	}
	logger.Infow("loaded document", "file", inputPath, "events", len(doc.Events))

	timeScale, _ := cmd.Flags().GetFloat64("time-scale")
	timeOffset, _ := cmd.Flags().GetFloat64("time-offset")
	timeOrigin, _ := cmd.Flags().GetFloat64("time-origin")
	clipStart, _ := cmd.Flags().GetFloat64("clip-start")
	clipEnd, _ := cmd.Flags().GetFloat64("clip-end")
	scaleX, _ := cmd.Flags().GetFloat64("scale-x")
	scaleY, _ := cmd.Flags().GetFloat64("scale-y")
	offsetX, _ := cmd.Flags().GetFloat64("offset-x")
	offsetY, _ := cmd.Flags().GetFloat64("offset-y")
	scaleStyles, _ := cmd.Flags().GetBool("scale-styles")

	opts := ass.ShiftScaleOptions{
		TimeScale:  timeScale,
		TimeOffset: timeOffset,
		TimeOrigin: timeOrigin,
		ScaleX:     scaleX,
		ScaleY:     scaleY,
		OffsetX:    offsetX,
		OffsetY:    offsetY,
		Styles:     scaleStyles,
	}
	if cmd.Flags().Changed("clip-start") || cmd.Flags().Changed("clip-end") {
		if !cmd.Flags().Changed("clip-end") {
			clipEnd = math.MaxFloat64
		}
		opts.Clip = true
		opts.ClipStart = clipStart
		opts.ClipEnd = clipEnd
	}
	if err := doc.ShiftScale(opts); err != nil {
		return err
	}

	snap, _ := cmd.Flags().GetFloat64("snap")
	tidy, _ := cmd.Flags().GetBool("tidy")
	sortEvents, _ := cmd.Flags().GetBool("sort")
	dropEmpty, _ := cmd.Flags().GetBool("drop-empty")
	if snap > 0 || tidy || sortEvents || dropEmpty {
		doc.Tidy(ass.TidyOptions{
			SnapStart: snap,
			SnapEnd:   snap,
			SnapAbut:  snap,
			Join:      tidy,
			Sort:      sortEvents,
			DropEmpty: dropEmpty,
		})
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		ext := filepath.Ext(inputPath)
		outputPath = strings.TrimSuffix(inputPath, ext) + ".out" + ext
	}
	if err := doc.WriteFile(outputPath); err != nil {
		return err
	}
	logger.Infow("wrote document", "file", outputPath, "events", len(doc.Events))
	return nil
}
