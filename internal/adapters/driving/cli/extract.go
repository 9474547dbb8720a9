package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/schemex/internal/core/domain"
)

var extractCmd = &cobra.Command{
	Use:   "extract <path>",
	Short: "Extract reaction schemes from an image or a directory",
	Long: `Extract the reaction scheme from a single image, or from every entry of a
directory in lexicographic order.

A single image fails the command on unexpected errors. An image that cannot
be loaded, or that contains no diagrams, reports an absent result instead.

A directory always completes: each entry gets one result and failures are
listed in the summary. Directory extraction requires --output-dir (or
output.dir in the config), which receives one <stem>.json per image.

Examples:
  schemex extract scheme.png
  schemex extract scheme.png -o out --visualize
  schemex extract papers/figures -o out`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringP("output-dir", "o", "", "directory that receives the JSON artifacts")
	extractCmd.Flags().Bool("visualize", false, "render a detection overlay (single images only)")
	extractCmd.Flags().Bool("finegrained-search", false, "tile images during diagram detection")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	if services == nil || services.Extractor == nil {
		return fmt.Errorf("extraction %w", errNotConfigured)
	}

	opts, err := extractOptions(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if err := loadModels(ctx); err != nil {
		return err
	}

	path := args[0]
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return runExtractDir(cmd, path, opts)
	}

	outcome, err := services.Extractor.ExtractImage(ctx, path, opts)
	if err != nil {
		return fmt.Errorf("extract %s: %w", path, err)
	}
	printOutcome(cmd.OutOrStdout(), newPalette(cmd.OutOrStdout()), outcome)
	return nil
}

func runExtractDir(cmd *cobra.Command, dir string, opts domain.ExtractOptions) error {
	batch, err := services.Extractor.ExtractDir(cmd.Context(), dir, opts)
	if errors.Is(err, domain.ErrOutputDirRequired) {
		return fmt.Errorf("%w: pass --output-dir or set output.dir", err)
	}
	if err != nil {
		return fmt.Errorf("extract %s: %w", dir, err)
	}
	printBatch(cmd.OutOrStdout(), newPalette(cmd.OutOrStdout()), batch)
	return nil
}

// extractOptions starts from the configured defaults and applies the flags
// that were set explicitly.
func extractOptions(cmd *cobra.Command) (domain.ExtractOptions, error) {
	var opts domain.ExtractOptions
	if services.Settings != nil {
		settings, err := services.Settings.Get()
		if err != nil {
			return opts, fmt.Errorf("load settings: %w", err)
		}
		opts = settings.ExtractOptions()
	}

	flags := cmd.Flags()
	if flags.Changed("output-dir") {
		dir, err := flags.GetString("output-dir")
		if err != nil {
			return opts, err
		}
		opts.OutputDir = dir
	}
	if flags.Changed("visualize") {
		v, err := flags.GetBool("visualize")
		if err != nil {
			return opts, err
		}
		opts.Visualize = v
	}
	if flags.Changed("finegrained-search") {
		v, err := flags.GetBool("finegrained-search")
		if err != nil {
			return opts, err
		}
		opts.FinegrainedSearch = v
	}
	return opts, nil
}

func printOutcome(w io.Writer, p palette, o domain.Outcome) {
	name := filepath.Base(o.Path)
	switch o.Kind {
	case domain.OutcomeScheme:
		steps := len(o.Scheme.Steps)
		status := fmt.Sprintf("scheme (%d diagrams, %d arrows, %d steps)", len(o.Scheme.Diagrams), len(o.Scheme.Arrows), steps)
		if o.Scheme.Incomplete {
			status += ", incomplete"
		}
		fmt.Fprintf(w, "%s: %s\n", name, p.OK(status))
	case domain.OutcomeDiagramsOnly:
		fmt.Fprintf(w, "%s: %s\n", name, p.Warn(fmt.Sprintf("diagrams only (%d diagrams, no arrows)", len(o.DiagramsOnly.Diagrams))))
	default:
		fmt.Fprintf(w, "%s: %s\n", name, p.Fail("absent: "+o.Reason))
		return
	}

	for _, d := range o.Diagrams() {
		smiles := d.Smiles
		if smiles == "" {
			smiles = p.Muted("(unrecognised)")
		}
		fmt.Fprintf(w, "  %s %s\n", d.ID, smiles)
	}
	if o.ArtifactPath != "" {
		fmt.Fprintf(w, "  artifact: %s\n", o.ArtifactPath)
	}
	if o.OverlayPath != "" {
		fmt.Fprintf(w, "  overlay:  %s\n", o.OverlayPath)
	}
	for _, msg := range o.Warnings {
		fmt.Fprintf(w, "  %s\n", p.Warn("warning: "+msg))
	}
}

func printBatch(w io.Writer, p palette, b *domain.BatchOutcome) {
	counts := b.Counts()
	fmt.Fprintln(w, p.Title(fmt.Sprintf("Extracted %d entries from %s in %s", b.Len(), b.Root, b.Duration().Round(time.Millisecond))))
	fmt.Fprintf(w, "  schemes:       %d\n", counts.Schemes)
	fmt.Fprintf(w, "  diagrams only: %d\n", counts.DiagramsOnly)
	fmt.Fprintf(w, "  absent:        %d\n", counts.Absent)
	if b.RunID != "" {
		fmt.Fprintf(w, "  run:           %s\n", p.Muted(b.RunID))
	}

	failed := b.Failed()
	if len(failed) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, p.Fail("Failed:"))
	for _, o := range failed {
		fmt.Fprintf(w, "  [%d] %s: %s\n", o.Index, filepath.Base(o.Path), o.Reason)
	}
}
