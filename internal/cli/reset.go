package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewResetCommand creates the reset command.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all contacts and cohorts",
		Long: `Wipe every contact and cohort from the store and empty the mirror.
Requires --force; there is no undo beyond a mirror backup.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReset(rootOpts, force, cmd)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "confirm the wipe")
	return cmd
}

type resetResult struct {
	ContactsDeleted int `json:"contacts_deleted"`
	CohortsDeleted  int `json:"cohorts_deleted"`
}

func runReset(opts *RootOptions, force bool, cmd *cobra.Command) error {
	if !force {
		return NewExitError(ExitCommandError, "refusing to reset without --force")
	}

	a, err := openApp(opts.Config, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	formatter := newFormatter(opts, cmd)

	contacts, cohorts, err := a.tracker.ResetAll(cmd.Context())
	if err != nil {
		return WrapExitError(ExitFailure, "resetting", err)
	}

	result := resetResult{ContactsDeleted: contacts, CohortsDeleted: cohorts}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "Deleted %d contact(s) and %d cohort(s)\n", contacts, cohorts)
	return nil
}
