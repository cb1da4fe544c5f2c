package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/torrico/rollcall/internal/drive"
)

// NewLoadCommand creates the load command.
func NewLoadCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load <roster.csv>",
		Short: "Load a roster CSV into the tracker",
		Long: `Merge a roster CSV into the store and the mirror. Rows are matched by
phone; values already tracked are never blanked by empty cells, so a
roster re-export is safe to load twice. Legacy accented Spanish headers
are accepted.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

type loadResult struct {
	File     string `json:"file"`
	Rows     int    `json:"rows"`
	Recorded int    `json:"recorded"`
	Failed   int    `json:"failed"`
}

func runLoad(opts *RootOptions, path string, cmd *cobra.Command) error {
	a, err := openApp(opts.Config, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	formatter := newFormatter(opts, cmd)

	content, err := os.ReadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "reading roster", err)
	}

	patches, err := drive.ParseContacts(content)
	if err != nil {
		return WrapExitError(ExitCommandError, "parsing roster", err)
	}
	formatter.VerboseLog("parsed %d row(s) from %s", len(patches), path)

	outcomes := a.tracker.RecordMany(cmd.Context(), patches)
	result := loadResult{File: path, Rows: len(patches)}
	for _, o := range outcomes {
		if o.Err != nil {
			result.Failed++
			formatter.VerboseLog("  ✗ %s: %v", o.Phone, o.Err)
		} else {
			result.Recorded++
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "Loaded %d of %d row(s) from %s\n", result.Recorded, result.Rows, path)
	if result.Failed > 0 {
		fmt.Fprintf(formatter.Writer, "%d row(s) failed; re-run with --verbose for details\n", result.Failed)
	}
	return nil
}
