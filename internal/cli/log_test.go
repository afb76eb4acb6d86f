package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/twophase/internal/journal"
)

// seedJournal creates a journal with deterministic ids and three entries.
func seedJournal(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "journal.db")

	j, err := journal.OpenWithIDs(path, journal.NewFixedGenerator("id-1", "id-2", "id-3"))
	require.NoError(t, err)
	defer j.Close()

	ctx := context.Background()
	_, err = j.Record(ctx, journal.Entry{Seq: 1, Op: "set", Target: "limits.cpu", Outcome: journal.OutcomeApplied})
	require.NoError(t, err)
	_, err = j.Record(ctx, journal.Entry{Seq: 2, Op: "delete", Target: "labels.tier", Outcome: journal.OutcomeApplied})
	require.NoError(t, err)
	_, err = j.Record(ctx, journal.Entry{
		Seq:     3,
		Op:      "batch",
		Target:  "labels.region",
		Outcome: journal.OutcomeRejected,
		Error:   "MISSING_KEY: key does not exist (path=labels.region)",
	})
	require.NoError(t, err)

	return path
}

// runLogCommand executes the log command and returns its stdout and error.
func runLogCommand(t *testing.T, format, journalPath string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: format}
	cmd := NewLogCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--journal", journalPath})
	err := cmd.Execute()
	return buf.String(), err
}

func TestLog_GoldenOutput(t *testing.T) {
	path := seedJournal(t, t.TempDir())

	out, err := runLogCommand(t, "text", path)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "log_entries", []byte(out))
}

func TestLog_JSONOutput(t *testing.T) {
	path := seedJournal(t, t.TempDir())

	out, err := runLogCommand(t, "json", path)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(3), data["count"])
}

func TestLog_EmptyJournal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "journal.db")

	j, err := journal.Open(path)
	require.NoError(t, err)
	j.Close()

	out, err := runLogCommand(t, "text", path)
	require.NoError(t, err)
	assert.Contains(t, out, "0 entries")
}
