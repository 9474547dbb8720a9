package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage pipeline settings",
	Long: `View and change the settings stored in config.toml.

Keys use dot notation, for example preprocess.workers or inference.base_url.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a single setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if services == nil || services.Settings == nil {
		return fmt.Errorf("settings %w", errNotConfigured)
	}

	settings, err := services.Settings.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	out := cmd.OutOrStdout()
	p := newPalette(out)
	fmt.Fprintln(out, p.Title("Current Settings"))
	fmt.Fprintln(out)

	pre := settings.Preprocess
	fmt.Fprintln(out, "[Preprocess]")
	fmt.Fprintf(out, "  Workers: %d\n", pre.Workers)
	fmt.Fprintf(out, "  Min dimension: general %d, arrows %d, diagrams %d, conditions %d\n",
		pre.GeneralMinDim, pre.ArrowsMinDim, pre.DiagramsMinDim, pre.ConditionsMinDim)
	fmt.Fprintf(out, "  Upsampler: %s\n", pre.Upsampler.Description())
	fmt.Fprintf(out, "  Super-resolution: x%d up to %dx%d\n", pre.SRFactor, pre.SRMaxWidth, pre.SRMaxHeight)
	fmt.Fprintln(out)

	inf := settings.Inference
	fmt.Fprintln(out, "[Inference]")
	fmt.Fprintf(out, "  Base URL: %s\n", inf.BaseURL)
	fmt.Fprintf(out, "  Timeout: %s\n", inf.Timeout)
	fmt.Fprintf(out, "  Rate limit: %g/s (burst %d)\n", inf.RequestsPerSecond, inf.Burst)
	fmt.Fprintf(out, "  Max in flight: %d\n", inf.MaxInFlight)
	fmt.Fprintf(out, "  Recogniser: %s\n", inf.RecogniserModel)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "[Output]")
	if settings.Output.Dir != "" {
		fmt.Fprintf(out, "  Directory: %s\n", settings.Output.Dir)
	} else {
		fmt.Fprintf(out, "  Directory: %s\n", p.Muted("(not set)"))
	}
	fmt.Fprintln(out)

	ext := settings.Extraction
	fmt.Fprintln(out, "[Extraction]")
	fmt.Fprintf(out, "  Visualize: %s\n", yesNo(ext.Visualize))
	fmt.Fprintf(out, "  Fine-grained search: %s\n", yesNo(ext.FinegrainedSearch))
	fmt.Fprintf(out, "  Dedicated conditions view: %s\n", yesNo(ext.DedicatedConditionsView))
	fmt.Fprintf(out, "  Estimate bond length: %s\n", yesNo(ext.EstimateBondLength))
	fmt.Fprintln(out)

	fmt.Fprintln(out, "[History]")
	fmt.Fprintf(out, "  Enabled: %s\n", yesNo(settings.History.Enabled))

	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if services == nil || services.Settings == nil {
		return fmt.Errorf("settings %w", errNotConfigured)
	}

	key, value := args[0], args[1]
	keys := services.Settings.Keys()
	if !slices.Contains(keys, key) {
		return fmt.Errorf("unknown setting %q; valid keys:\n  %s", key, strings.Join(keys, "\n  "))
	}

	if err := services.Settings.Set(key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, value)
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	if services == nil || services.ConfigPath == "" {
		return fmt.Errorf("settings %w", errNotConfigured)
	}
	fmt.Fprintln(cmd.OutOrStdout(), services.ConfigPath)
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
