package cli

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/specialistvlad/reactordebug/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const program = `
	program "echo" {}

	input "msg" {
	  initial = "none"
	}

	output "main" {
	  source = "msg"
	}

	send "msg" {
	  value = "hello"
	}
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &testutil.SafeBuffer{}
	root, err := NewRootCommand(out)
	require.NoError(t, err)
	root.SetArgs(args)
	err = root.ExecuteContext(context.Background())
	return out.String(), err
}

func requireExitCode(t *testing.T, err error, code int) *ExitError {
	t.Helper()
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "expected *ExitError, got %v", err)
	assert.Equal(t, code, exitErr.Code)
	return exitErr
}

func TestRoot_Help(t *testing.T) {
	out, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	for _, cmd := range []string{"run", "inspect", "sessions"} {
		assert.Contains(t, out, cmd)
	}
}

func TestRoot_UsageErrors(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		want string
	}{
		{"unknown flag", []string{"run", "--bogus", "x"}, "unknown flag: --bogus"},
		{"missing program", []string{"run"}, "accepts 1 arg(s), received 0"},
		{"inspect arity", []string{"inspect", "p"}, "accepts 2 arg(s), received 1"},
		{"bad log level", []string{"run", "--log-level", "loud", "p"}, `invalid log level "loud"`},
		{"bad backend", []string{"sessions", "--history-backend", "csv"}, `invalid history backend "csv"`},
		{"inverted range", []string{"inspect", "--start", "3", "--end", "1", "p", "s"}, "--end must not be before --start"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := execute(t, tc.args...)
			exitErr := requireExitCode(t, err, 2)
			assert.Contains(t, exitErr.Message, tc.want)
		})
	}
}

func TestRoot_EnvironmentDefaults(t *testing.T) {
	t.Setenv("REACTOR_LOG_FORMAT", "xml")

	_, err := execute(t, "sessions")
	exitErr := requireExitCode(t, err, 2)
	assert.Contains(t, exitErr.Message, `invalid log format "xml"`)

	_, err = execute(t, "sessions", "--log-format", "json", "--history", filepath.Join(t.TempDir(), "h.db"))
	assert.NoError(t, err, "flags override the environment")
}

func TestRoot_RunThenInspect(t *testing.T) {
	// --- Arrange ---
	dir := testutil.WriteFiles(t, map[string]string{"echo.hcl": program})
	history := filepath.Join(t.TempDir(), "history.db")

	// --- Act ---
	out, err := execute(t, "run", dir, "--history", history, "--log-level", "error")
	require.NoError(t, err)

	// --- Assert ---
	assert.Contains(t, out, `frame 1: msg <- "hello" | main = "hello"`)
	match := regexp.MustCompile(`session (\S+)\n`).FindStringSubmatch(out)
	require.Len(t, match, 2)
	id := match[1]

	out, err = execute(t, "sessions", "--history", history, "--log-level", "error")
	require.NoError(t, err)
	assert.Equal(t, id+"\n", out)

	out, err = execute(t, "inspect", dir, id, "--history", history, "--node", "main", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "main (main)\n  0: \"none\"\n  1: \"hello\"\n")
}
