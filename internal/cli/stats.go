package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "stats",
		Short:         "Show campaign statistics",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(rootOpts, cmd)
		},
	}
	return cmd
}

func runStats(opts *RootOptions, cmd *cobra.Command) error {
	a, err := openApp(opts.Config, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	formatter := newFormatter(opts, cmd)

	stats, err := a.tracker.Stats(cmd.Context())
	if err != nil {
		return WrapExitError(ExitFailure, "reading stats", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(stats)
	}

	fmt.Fprintf(formatter.Writer, "Contacts:         %d\n", stats.Total)
	fmt.Fprintf(formatter.Writer, "Sent:             %d\n", stats.Sent)
	fmt.Fprintf(formatter.Writer, "Send errors:      %d\n", stats.Errors)
	fmt.Fprintf(formatter.Writer, "Confirmed yes:    %d\n", stats.Yes)
	fmt.Fprintf(formatter.Writer, "Confirmed no:     %d\n", stats.No)
	fmt.Fprintf(formatter.Writer, "Awaiting reply:   %d\n", stats.PendingResponse)
	fmt.Fprintf(formatter.Writer, "Cohorts:          %d\n", stats.Cohorts)
	fmt.Fprintf(formatter.Writer, "Response rate:    %.1f%%\n", stats.ResponseRate*100)
	return nil
}
