package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"capsnav/internal/filter"
	"capsnav/internal/inputevent"
	"capsnav/internal/store"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestKeysCommand(t *testing.T) {
	out, err := execute(t, "keys")
	require.NoError(t, err)

	assert.Contains(t, out, "KEY_L (38)")
	assert.Contains(t, out, "KEY_RIGHT (106)")
	assert.Contains(t, out, "KEY_J (36)")
	assert.Contains(t, out, "KEY_LEFT (105)")
	assert.Contains(t, out, "KEY_I (23)")
	assert.Contains(t, out, "KEY_UP (103)")
	assert.Contains(t, out, "KEY_K (37)")
	assert.Contains(t, out, "KEY_DOWN (108)")
	assert.Contains(t, out, "KEY_CAPSLOCK is swallowed")
	assert.Contains(t, out, "KEY_LEFTCTRL is tracked")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "capsnav "+version)
	assert.Contains(t, out, fmt.Sprintf("Record size: %d bytes", inputevent.Size))
}

func TestConfigInitShowValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	out, err := execute(t, "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)
	assert.FileExists(t, path)

	_, err = execute(t, "--config", path, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, "--config", path, "config", "init", "--force")
	require.NoError(t, err)

	out, err = execute(t, "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "[logging]")

	out, err = execute(t, "config", "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, path+": ok")
}

func TestConfigValidateRejectsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[logging]\nlevel = \"loud\"\n"), 0600))

	_, err := execute(t, "config", "validate", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestConfigValidateMissingFile(t *testing.T) {
	_, err := execute(t, "config", "validate", filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPrintStats(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer s.Close()

	var out bytes.Buffer
	require.NoError(t, printStats(&out, s, 10))
	assert.Equal(t, "No runs recorded.\n", out.String())

	start := time.Now().Add(-time.Minute)
	id, err := s.BeginRun(1234, "test", start)
	require.NoError(t, err)
	require.NoError(t, s.FinishRun(id, start.Add(30*time.Second),
		store.Counters{Records: 10, KeyEvents: 6, Synthesized: 2, Suppressed: 3}, "input closed"))
	_, err = s.BeginRun(1235, "test", time.Now())
	require.NoError(t, err)

	out.Reset()
	require.NoError(t, printStats(&out, s, 10))
	assert.Contains(t, out.String(), "input closed")
	assert.Contains(t, out.String(), "30s")
	assert.Contains(t, out.String(), "running")
	assert.Contains(t, out.String(), "2 runs, 10 records, 6 key events, 2 synthesized")
}

func TestStatsCommand(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CAPSNAV_STATS_PATH", filepath.Join(dir, "runs.db"))

	out, err := execute(t, "--config", filepath.Join(dir, "config.toml"), "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded.")
}

func TestExitReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "none"},
		{context.Canceled, "signal"},
		{filter.ErrInputClosed, "input closed"},
		{fmt.Errorf("read record: %w", inputevent.ErrShortRecord), "short record"},
		{fmt.Errorf("decode: %w", inputevent.ErrInvalidKeyValue), "invalid key value"},
		{fmt.Errorf("%w: %w", filter.ErrOutputClosed, unix.EPIPE), "broken pipe"},
		{fmt.Errorf("%w: %w", filter.ErrOutputClosed, os.ErrClosed), "output closed"},
		{unix.EIO, "read error"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, exitReason(tt.err))
		})
	}
}

func TestCountersOf(t *testing.T) {
	s := filter.Stats{Records: 9, KeyEvents: 7, Passthrough: 2, Forwarded: 4, Suppressed: 3, Synthesized: 1}
	assert.Equal(t, store.Counters{
		Records: 9, KeyEvents: 7, Passthrough: 2, Forwarded: 4, Suppressed: 3, Synthesized: 1,
	}, countersOf(s))
}

func TestLoggedErrorUnwraps(t *testing.T) {
	err := &loggedError{err: filter.ErrInputClosed}
	assert.ErrorIs(t, err, filter.ErrInputClosed)
	assert.Equal(t, filter.ErrInputClosed.Error(), err.Error())
}
