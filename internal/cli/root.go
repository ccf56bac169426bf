package cli

import (
	"github.com/okanek/kashi/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	logger  *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "kashi",
	Short: "Karaoke subtitle renderer for word-level timed lyrics",
	Long: `Kashi renders word-level timed lyric data into a karaoke subtitle
document: it groups lines into screens, detects instrumental gaps,
schedules collision-free fade timing and writes styled ASS output.

It also exports plain captions from existing documents and applies
time/geometry transforms to them.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.NewLogger(verbose)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
}
