package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/specialistvlad/reactordebug/internal/cli"
	"github.com/specialistvlad/reactordebug/internal/testutil"
	"github.com/stretchr/testify/require"
)

func TestRun_ProgramError(t *testing.T) {
	// --- Arrange ---
	// A syntax error fails while loading, before any session starts.
	dir := testutil.WriteFiles(t, map[string]string{"main.hcl": `
		input "clicks" {
		  initial = 0
		// Missing closing brace here
	`})
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, []string{"run", dir})

	// --- Assert ---
	require.Error(t, err)
	require.Contains(t, err.Error(), "loading program")
	require.Contains(t, err.Error(), "failed to parse")
}

func TestRun_Help(t *testing.T) {
	out := &bytes.Buffer{}

	err := run(context.Background(), out, []string{"-h"})

	require.NoError(t, err, "run() should return a nil error for help")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	out := &bytes.Buffer{}

	err := run(context.Background(), out, []string{"sessions", "--this-is-not-a-valid-flag"})

	var exitErr *cli.ExitError
	require.True(t, errors.As(err, &exitErr))
	require.Equal(t, 2, exitErr.Code)
	require.Contains(t, err.Error(), "unknown flag: --this-is-not-a-valid-flag")
}
