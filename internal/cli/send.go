package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/torrico/rollcall/internal/message"
)

// NewSendCommand creates the send command.
func NewSendCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		templateName string
		limit        int
		dryRun       bool
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send the confirmation message to pending contacts",
		Long: `Send a message batch to every opted-in contact that has not been sent
to yet. Each outcome is recorded in the store and the CSV mirror, so an
interrupted batch resumes where it stopped.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSend(rootOpts, templateName, limit, dryRun, cmd)
		},
	}

	cmd.Flags().StringVarP(&templateName, "template", "t", message.DefaultConfirmation().Name, "catalog template to send")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "cap the batch size (0 = no cap)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list pending contacts without sending")
	return cmd
}

func runSend(opts *RootOptions, templateName string, limit int, dryRun bool, cmd *cobra.Command) error {
	a, err := openApp(opts.Config, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	formatter := newFormatter(opts, cmd)
	ctx := cmd.Context()

	if dryRun {
		pending, err := a.tracker.Pending(ctx)
		if err != nil {
			return WrapExitError(ExitFailure, "listing pending contacts", err)
		}
		if formatter.Format == "json" {
			return formatter.Success(pending)
		}
		fmt.Fprintf(formatter.Writer, "%d contact(s) pending:\n", len(pending))
		for _, c := range pending {
			fmt.Fprintf(formatter.Writer, "  %s  %s\n", c.Phone, c.Name)
		}
		return nil
	}

	if err := a.client.ValidateCredentials(); err != nil {
		return WrapExitError(ExitCommandError, "whatsapp credentials", err)
	}

	report, err := a.sender.SendPending(ctx, templateName, limit)
	if err != nil {
		return WrapExitError(ExitFailure, "batch send", err)
	}

	if formatter.Format == "json" {
		if err := formatter.Success(report); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(formatter.Writer, "Batch %s: %d sent, %d failed of %d\n",
			report.BatchID, report.Sent, report.Failed, report.Total)
		for _, o := range report.Outcomes {
			if o.Error != "" {
				fmt.Fprintf(formatter.Writer, "  ✗ %s  %s: %s\n", o.Phone, o.Name, o.Error)
			} else {
				formatter.VerboseLog("  ✓ %s  %s", o.Phone, o.Name)
			}
		}
	}

	if report.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d send(s) failed", report.Failed))
	}
	return nil
}
