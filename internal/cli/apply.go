package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/twophase/internal/docstore"
	"github.com/roach88/twophase/internal/invocation"
	"github.com/roach88/twophase/internal/journal"
)

// ApplyOptions holds flags for the apply command.
type ApplyOptions struct {
	*RootOptions
	State   string
	Journal string
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ApplyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "apply <edits-file>",
		Short: "Apply a batch of edits to a YAML state file, all or nothing",
		Long: `Apply a batch of edits to a YAML state file, all or nothing.

Every edit is validated against the unmodified state before any edit is
applied. If any edit is rejected, the state file is left completely
untouched and the command exits nonzero.

Example:
  twophase apply --state ./state.yaml ./edits.yaml
  twophase apply --state ./state.yaml --journal ./journal.db ./edits.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.State, "state", "", "path to the YAML state file (required)")
	cmd.Flags().StringVar(&opts.Journal, "journal", "", "path to a SQLite journal to record outcomes in")
	_ = cmd.MarkFlagRequired("state")

	return cmd
}

func runApply(opts *ApplyOptions, editsPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	doc, err := LoadState(opts.State)
	if err != nil {
		return reportLoadError(formatter, err)
	}
	formatter.VerboseLog("loaded state %s", opts.State)

	edits, err := LoadEdits(editsPath, doc)
	if err != nil {
		return reportLoadError(formatter, err)
	}
	formatter.VerboseLog("loaded %d edit(s) from %s", len(edits), editsPath)

	batch := docstore.Batch{Doc: doc, Edits: edits}
	changes, execErr := invocation.Execute[[]docstore.Staged, []docstore.Change](batch)

	if execErr != nil {
		if opts.Journal != "" {
			if err := recordRejection(cmd.Context(), opts.Journal, execErr); err != nil {
				_ = formatter.Error(ErrCodeJournal, err.Error(), nil)
				return WrapExitError(ExitCommandError, ErrCodeJournal, err)
			}
		}
		_ = formatter.Error(ErrCodeRejected, fmt.Sprintf("edits rejected: %v", execErr), nil)
		return WrapExitError(ExitFailure, ErrCodeRejected, execErr)
	}

	data, err := doc.Bytes()
	if err != nil {
		_ = formatter.Error(ErrCodeWrite, err.Error(), nil)
		return WrapExitError(ExitCommandError, ErrCodeWrite, err)
	}
	if err := writeStateAtomic(opts.State, data); err != nil {
		_ = formatter.Error(ErrCodeWrite, err.Error(), nil)
		return WrapExitError(ExitCommandError, ErrCodeWrite, err)
	}
	formatter.VerboseLog("wrote %d bytes to %s", len(data), opts.State)

	// Applied entries are journaled only after the state file has been
	// replaced, so the journal never claims an outcome the file doesn't hold.
	if opts.Journal != "" {
		if err := recordApplied(cmd.Context(), opts.Journal, changes); err != nil {
			_ = formatter.Error(ErrCodeJournal, err.Error(), nil)
			return WrapExitError(ExitCommandError, ErrCodeJournal, err)
		}
	}

	return outputApplyResult(formatter, changes)
}

// reportLoadError prints a load failure and maps it to a command error.
func reportLoadError(formatter *OutputFormatter, err error) error {
	var le *LoadError
	if errors.As(err, &le) {
		_ = formatter.Error(le.Code, le.Message, nil)
		return WrapExitError(ExitCommandError, le.Code, err)
	}
	_ = formatter.Error(ErrCodeParse, err.Error(), nil)
	return WrapExitError(ExitCommandError, ErrCodeParse, err)
}

// recordRejection journals a single rejected entry carrying the rejection
// error, targeted at the offending path when the error exposes one.
func recordRejection(ctx context.Context, path string, execErr error) error {
	j, err := journal.Open(path)
	if err != nil {
		return err
	}
	defer j.Close()

	target := ""
	var ee *docstore.EditError
	if errors.As(execErr, &ee) {
		target = ee.Path
	}
	_, err = j.Record(ctx, journal.Entry{
		Seq:     1,
		Op:      "batch",
		Target:  target,
		Outcome: journal.OutcomeRejected,
		Error:   execErr.Error(),
	})
	return err
}

// recordApplied journals one applied entry per change. Callers invoke it
// only after the rewritten state file is durably in place.
func recordApplied(ctx context.Context, path string, changes []docstore.Change) error {
	j, err := journal.Open(path)
	if err != nil {
		return err
	}
	defer j.Close()

	for i, change := range changes {
		_, err := j.Record(ctx, journal.Entry{
			Seq:     int64(i + 1),
			Op:      change.Op,
			Target:  change.Path,
			Outcome: journal.OutcomeApplied,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// outputApplyResult prints the applied changes in the configured format.
func outputApplyResult(formatter *OutputFormatter, changes []docstore.Change) error {
	if formatter.Format == "json" {
		return formatter.Success(map[string]any{
			"applied": len(changes),
			"changes": changes,
		})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✓ applied %d edit(s)\n", len(changes))
	for _, change := range changes {
		if change.Op == docstore.OpSet && change.Replaced {
			fmt.Fprintf(&b, "  %s %s (replaced)\n", change.Op, change.Path)
		} else {
			fmt.Fprintf(&b, "  %s %s\n", change.Op, change.Path)
		}
	}
	_, err := fmt.Fprint(formatter.Writer, b.String())
	return err
}

// writeStateAtomic replaces the state file contents via a temp file in the
// same directory followed by a rename, so a crash mid-write cannot leave a
// truncated state file behind.
func writeStateAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
