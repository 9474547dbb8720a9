package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

const runTimeLayout = "2006-01-02 15:04:05"

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect past extraction runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs, newest first",
	Args:  cobra.NoArgs,
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the recorded results of a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

func init() {
	runsListCmd.Flags().IntP("limit", "n", 20, "maximum number of runs to list (0 = all)")
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}

func runRunsList(cmd *cobra.Command, _ []string) error {
	if services == nil || services.History == nil {
		return fmt.Errorf("history %w", errNotConfigured)
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return fmt.Errorf("getting limit flag: %w", err)
	}

	runs, err := services.History.List(cmd.Context(), limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("ID", "MODE", "STARTED", "SCHEMES", "DIAGRAMS ONLY", "ABSENT", "ROOT")
	for _, r := range runs {
		t.Row(
			r.ID,
			string(r.Mode),
			formatTime(r.StartedAt),
			strconv.Itoa(r.Counts.Schemes),
			strconv.Itoa(r.Counts.DiagramsOnly),
			strconv.Itoa(r.Counts.Absent),
			r.Root,
		)
	}
	fmt.Fprintln(out, t.String())
	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	if services == nil || services.History == nil {
		return fmt.Errorf("history %w", errNotConfigured)
	}

	run, err := services.History.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	p := newPalette(out)
	counts := run.Counts()
	fmt.Fprintln(out, p.Title("Run "+run.ID))
	fmt.Fprintf(out, "  mode:     %s\n", run.Mode)
	fmt.Fprintf(out, "  root:     %s\n", run.Root)
	fmt.Fprintf(out, "  started:  %s\n", formatTime(run.StartedAt))
	fmt.Fprintf(out, "  finished: %s\n", formatTime(run.FinishedAt))
	fmt.Fprintf(out, "  results:  %d schemes, %d diagrams only, %d absent\n",
		counts.Schemes, counts.DiagramsOnly, counts.Absent)
	fmt.Fprintln(out)

	for _, it := range run.Items {
		switch {
		case it.Reason != "":
			fmt.Fprintf(out, "[%d] %s: %s\n", it.Index, it.Path, p.Fail(string(it.Kind)+": "+it.Reason))
		default:
			detail := fmt.Sprintf("%s (%d diagrams, %d steps)", it.Kind, it.Diagrams, it.Steps)
			if it.Incomplete {
				detail += ", incomplete"
			}
			fmt.Fprintf(out, "[%d] %s: %s\n", it.Index, it.Path, p.OK(detail))
		}
		if it.ArtifactPath != "" {
			fmt.Fprintf(out, "    artifact: %s\n", it.ArtifactPath)
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(runTimeLayout)
}
