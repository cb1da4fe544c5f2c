package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var backup bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Rebuild the CSV mirror from the store",
		Long: `Rewrite the mirror CSV from the store, the source of truth. This is the
recovery path after mirror write warnings: whatever the mirror missed is
restored here.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(rootOpts, backup, cmd)
		},
	}

	cmd.Flags().BoolVar(&backup, "backup", false, "keep a timestamped copy of the current mirror first")
	return cmd
}

type exportResult struct {
	Exported int    `json:"exported"`
	Path     string `json:"path"`
	Backup   string `json:"backup,omitempty"`
}

func runExport(opts *RootOptions, backup bool, cmd *cobra.Command) error {
	a, err := openApp(opts.Config, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	formatter := newFormatter(opts, cmd)
	result := exportResult{Path: a.mirror.Path()}

	if backup {
		backupPath, err := a.mirror.Backup()
		if err != nil {
			return WrapExitError(ExitFailure, "backing up mirror", err)
		}
		result.Backup = backupPath
		if backupPath != "" {
			formatter.VerboseLog("backup written to %s", backupPath)
		}
	}

	n, err := a.tracker.ExportMirror(cmd.Context())
	if err != nil {
		return WrapExitError(ExitFailure, "exporting mirror", err)
	}
	result.Exported = n

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "Exported %d contact(s) to %s\n", n, result.Path)
	return nil
}
