package app

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	reactorhcl "github.com/specialistvlad/reactordebug/internal/hcl"
	"github.com/specialistvlad/reactordebug/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const counterProgram = `
	program "counter" {}

	input "clicks" {
	  initial = 0
	}

	node "count" {
	  kind    = "foldp"
	  sources = ["clicks"]
	  initial = 0
	  expr    = state + event
	  watch   = "count"
	}

	output "main" {
	  source = "count"
	}

	send "clicks" {
	  value = 1
	}

	send "clicks" {
	  value = 2
	}
`

// setupApp creates an App over a temporary counter program. Logs are
// silenced so the output holds only what the App prints.
func setupApp(t *testing.T, mutate func(*Config)) (*App, *testutil.SafeBuffer) {
	t.Helper()

	dir := testutil.WriteFiles(t, map[string]string{"counter.hcl": counterProgram})
	cfg := Config{
		ProgramPath:     filepath.Join(dir, "counter.hcl"),
		HistoryPath:     filepath.Join(t.TempDir(), "history.db"),
		HistoryBackend:  BackendSQLite,
		LogFormat:       "text",
		LogLevel:        "error",
		NotifyNamespace: "/",
	}
	if mutate != nil {
		mutate(&cfg)
	}
	validated, err := NewConfig(cfg)
	require.NoError(t, err)

	out := &testutil.SafeBuffer{}
	return New(out, validated, reactorhcl.NewLoader()), out
}

func TestApp_RunInspectSessions(t *testing.T) {
	backends := map[string]func(*Config){
		"sqlite": nil,
		"badger": func(c *Config) {
			c.HistoryBackend = BackendBadger
			c.HistoryPath = t.TempDir()
		},
	}

	for name, mutate := range backends {
		t.Run(name, func(t *testing.T) {
			// --- Arrange ---
			ctx := context.Background()
			a, out := setupApp(t, mutate)

			// --- Act ---
			id, err := a.Run(ctx)
			require.NoError(t, err)

			// --- Assert ---
			printed := out.String()
			assert.Contains(t, printed, "frame 0: main = 0\n")
			assert.Contains(t, printed, "frame 1: clicks <- 1 | main = 1 [count: 1]\n")
			assert.Contains(t, printed, "frame 2: clicks <- 2 | main = 3 [count: 3]\n")

			ids, err := a.Sessions(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{id}, ids)

			err = a.Inspect(ctx, InspectRequest{SessionID: id, End: -1, Nodes: []string{"main"}})
			require.NoError(t, err)
			assert.Contains(t, out.String(), "session "+id+": 2 events\nmain (main)\n  0: 0\n  1: 1\n  2: 3\n")
		})
	}
}

func TestApp_InspectRange(t *testing.T) {
	ctx := context.Background()
	a, out := setupApp(t, nil)
	id, err := a.Run(ctx)
	require.NoError(t, err)

	err = a.Inspect(ctx, InspectRequest{SessionID: id, Start: 1, End: 1, Nodes: []string{"clicks", "count"}})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "clicks (mailbox)\n  1: 1\ncount (internal)\n  1: 1\n")

	err = a.Inspect(ctx, InspectRequest{SessionID: id, Start: 2, End: 2, Nodes: []string{"main", "main"}})
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out.String(), "main (main)\n  2: 3\n"), "repeated names print once")

	err = a.Inspect(ctx, InspectRequest{SessionID: id, End: -1, Nodes: []string{"ghost"}})
	assert.ErrorContains(t, err, `unknown node "ghost"`)

	err = a.Inspect(ctx, InspectRequest{SessionID: id, Start: 0, End: 9})
	assert.ErrorContains(t, err, "querying frames 0..9")
}

func TestApp_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing program", func(t *testing.T) {
		a, _ := setupApp(t, func(c *Config) { c.ProgramPath = "" })
		_, err := a.Run(ctx)
		assert.ErrorContains(t, err, "program path is required")
	})

	t.Run("invalid program", func(t *testing.T) {
		dir := testutil.WriteFiles(t, map[string]string{"bad.hcl": `output "main" { source = "nope" }`})
		a, _ := setupApp(t, func(c *Config) { c.ProgramPath = dir })
		_, err := a.Run(ctx)
		assert.ErrorContains(t, err, "loading program")
	})

	t.Run("script targets unknown input", func(t *testing.T) {
		dir := testutil.WriteFiles(t, map[string]string{"script.hcl": `send "nope" { value = 1 }`})
		a, _ := setupApp(t, func(c *Config) { c.ScriptPath = dir })
		_, err := a.Run(ctx)
		assert.ErrorContains(t, err, `send 0 to "nope"`)
	})

	t.Run("inspect needs history", func(t *testing.T) {
		a, _ := setupApp(t, func(c *Config) { c.HistoryPath = "" })
		err := a.Inspect(ctx, InspectRequest{SessionID: "x", End: -1})
		assert.ErrorContains(t, err, "history path is required")
	})

	t.Run("unknown session", func(t *testing.T) {
		a, _ := setupApp(t, nil)
		err := a.Inspect(ctx, InspectRequest{SessionID: "missing", End: -1})
		assert.ErrorContains(t, err, "loading history")
	})

	t.Run("cancelled while lingering", func(t *testing.T) {
		a, _ := setupApp(t, func(c *Config) { c.Linger = time.Minute })
		ctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()
		_, err := a.Run(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestApp_RunWithoutHistory(t *testing.T) {
	a, out := setupApp(t, func(c *Config) { c.HistoryPath = "" })

	_, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, out.String(), "frame 2:")
}

func TestApp_Handler(t *testing.T) {
	a, _ := setupApp(t, nil)
	_, err := a.Run(context.Background())
	require.NoError(t, err)

	srv := httptest.NewServer(a.handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	var body bytes.Buffer
	_, err = body.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, body.String(), `reactordebug_events_recorded_total{node="0"} 2`)
	assert.Contains(t, body.String(), "reactordebug_sessions_active 0")
}

const tickerProgram = `
	program "ticker" {}

	input "clicks" {
	  initial = 0
	}

	input "tick" {
	  kind  = "every"
	  every = "1ms"
	}

	output "main" {
	  source = "clicks"
	}

	send "clicks" {
	  value = 1
	}
`

func TestApp_InspectDoesNotRecordTimers(t *testing.T) {
	// --- Arrange ---
	ctx := context.Background()
	dir := testutil.WriteFiles(t, map[string]string{"ticker.hcl": tickerProgram})
	a, out := setupApp(t, func(c *Config) {
		c.ProgramPath = filepath.Join(dir, "ticker.hcl")
		c.Linger = 20 * time.Millisecond
	})
	id, err := a.Run(ctx)
	require.NoError(t, err)

	// --- Act ---
	out.Reset()
	err = a.Inspect(ctx, InspectRequest{SessionID: id, End: -1, Nodes: []string{"clicks"}})
	require.NoError(t, err)

	// --- Assert ---
	var events int
	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	_, err = fmt.Sscanf(lines[0], "session "+id+": %d events", &events)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, events, 1)
	assert.Len(t, lines, events+3, "header, node line and one line per frame")
}
