package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okanek/kashi/internal/ass"
	"github.com/okanek/kashi/internal/caption"
)

var exportCmd = &cobra.Command{
	Use:   "export [input.ass]",
	Short: "Export a subtitle document as plain timed captions",
	Long: `Export strips all override tags from a subtitle document and writes
plain caption blocks. Overlapping events are sliced into concurrent
blocks and stacked unless --allow-overlap is set.

Examples:
  kashi export song.ass
  kashi export song.ass --join -o song.txt
  kashi export song.ass --allow-overlap --line-breaks`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().
		Bool("allow-overlap", false, "Keep overlapping events as separate captions")
	exportCmd.Flags().
		Bool("line-breaks", false, "Keep hard breaks as line breaks instead of spaces")
	exportCmd.Flags().
		BoolP("join", "j", false, "Join adjacent captions with identical text")
}

func runExport(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	allowOverlap, _ := cmd.Flags().GetBool("allow-overlap")
	lineBreaks, _ := cmd.Flags().GetBool("line-breaks")
	join, _ := cmd.Flags().GetBool("join")
	outputPath, _ := cmd.Flags().GetString("output")

	doc, err := ass.ReadFile(inputPath)
	if err != nil {
		return err
	}
	logger.Infow("loaded document", "file", inputPath, "events", len(doc.Events))

	caps := caption.FromDocument(doc, caption.Options{
		AllowOverlap: allowOverlap,
		LineBreaks:   lineBreaks,
		Join:         join,
	})

	if outputPath == "" {
		outputPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".txt"
	}
	if err := caption.WriteFile(outputPath, caps); err != nil {
		return err
	}
	logger.Infow("wrote captions", "file", outputPath, "captions", len(caps))
	return nil
}
