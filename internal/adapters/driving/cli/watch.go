package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Extract images as they appear in a directory",
	Long: `Watch a directory and extract every supported image that is created or
rewritten in it. Results are printed as they complete and recorded as one
run in the history. Press Ctrl+C to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringP("output-dir", "o", "", "directory that receives the JSON artifacts")
	watchCmd.Flags().Bool("finegrained-search", false, "tile images during diagram detection")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if services == nil || services.Watcher == nil {
		return fmt.Errorf("watch %w", errNotConfigured)
	}

	opts, err := extractOptions(cmd)
	if err != nil {
		return err
	}
	// Overlays are only rendered for single-image extraction.
	opts.Visualize = false

	ctx := cmd.Context()
	if err := loadModels(ctx); err != nil {
		return err
	}

	dir := args[0]
	outcomes, err := services.Watcher.Watch(ctx, dir, opts)
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	out := cmd.OutOrStdout()
	p := newPalette(out)
	fmt.Fprintln(out, p.Title("Watching "+dir))

	count := 0
	for o := range outcomes {
		printOutcome(out, p, o)
		count++
	}

	fmt.Fprintf(out, "Stopped after %d images.\n", count)
	return nil
}
