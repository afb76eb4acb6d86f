package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/twophase/internal/journal"
)

// LogOptions holds flags for the log command.
type LogOptions struct {
	*RootOptions
	Journal string
}

// NewLogCommand creates the log command.
func NewLogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "log",
		Short: "List recorded invocation outcomes",
		Long: `List recorded invocation outcomes from a journal.

Entries are listed in deterministic order: by sequence number, then id.

Example:
  twophase log --journal ./journal.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Journal, "journal", "", "path to the SQLite journal (required)")
	_ = cmd.MarkFlagRequired("journal")

	return cmd
}

func runLog(opts *LogOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	j, err := journal.Open(opts.Journal)
	if err != nil {
		_ = formatter.Error(ErrCodeJournal, err.Error(), nil)
		return WrapExitError(ExitCommandError, ErrCodeJournal, err)
	}
	defer j.Close()

	entries, err := j.List(cmd.Context())
	if err != nil {
		_ = formatter.Error(ErrCodeJournal, err.Error(), nil)
		return WrapExitError(ExitCommandError, ErrCodeJournal, err)
	}
	formatter.VerboseLog("read %d entr%s from %s", len(entries), pluralY(len(entries)), opts.Journal)

	if formatter.Format == "json" {
		return formatter.Success(map[string]any{
			"count":   len(entries),
			"entries": entries,
		})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d entr%s\n", len(entries), pluralY(len(entries)))
	for _, e := range entries {
		if e.Outcome == journal.OutcomeRejected {
			fmt.Fprintf(&b, "  %d  %s %s  %s: %s\n", e.Seq, e.Op, e.Target, e.Outcome, e.Error)
		} else {
			fmt.Fprintf(&b, "  %d  %s %s  %s\n", e.Seq, e.Op, e.Target, e.Outcome)
		}
	}
	_, err = fmt.Fprint(formatter.Writer, b.String())
	return err
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
