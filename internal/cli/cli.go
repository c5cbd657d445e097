package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/specialistvlad/reactordebug/internal/app"
	"github.com/specialistvlad/reactordebug/internal/hcl"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) error {
	return &ExitError{Code: 2, Message: err.Error()}
}

// NewRootCommand builds the reactordebug command tree. Flag defaults come
// from REACTOR_* environment variables, so flags override the environment.
func NewRootCommand(outW io.Writer) (*cobra.Command, error) {
	cfg, err := app.ConfigFromEnv()
	if err != nil {
		return nil, usageError(err)
	}

	root := &cobra.Command{
		Use:   "reactordebug",
		Short: "Time-travel debugger for reactive dataflow programs",
		Long: `reactordebug runs a dataflow program written in HCL under a debug
session that records every external event, then lets you travel back
to any earlier frame and inspect how node values evolved.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(outW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	flags := root.PersistentFlags()
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flags.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log output format. Options: 'text' or 'json'.")
	flags.StringVar(&cfg.HistoryPath, "history", cfg.HistoryPath, "Path to the history store (sqlite file or badger directory).")
	flags.StringVar(&cfg.HistoryBackend, "history-backend", cfg.HistoryBackend, "History store backend. Options: 'sqlite' or 'badger'.")
	flags.IntVar(&cfg.Interval, "interval", cfg.Interval, "Checkpoint interval in events. 0 uses the default.")

	root.AddCommand(
		newRunCommand(outW, &cfg),
		newInspectCommand(outW, &cfg),
		newSessionsCommand(outW, &cfg),
	)
	return root, nil
}

// newApp validates the merged configuration and builds the App.
func newApp(outW io.Writer, cfg app.Config) (*app.App, error) {
	validated, err := app.NewConfig(cfg)
	if err != nil {
		return nil, usageError(err)
	}
	return app.New(outW, validated, hcl.NewLoader()), nil
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

func newRunCommand(outW io.Writer, cfg *app.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run PROGRAM_PATH",
		Short: "Run a program under a new debug session",
		Long: `Run loads the .hcl files under PROGRAM_PATH, starts a debug session,
plays the scripted send blocks and prints one line per recorded event.
With --history the session log is persisted for later inspection.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.ProgramPath = args[0]
			a, err := newApp(outW, *cfg)
			if err != nil {
				return err
			}
			id, err := a.Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(outW, "session %s\n", id)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.ScriptPath, "script", cfg.ScriptPath, "Path to .hcl files with send blocks. Defaults to PROGRAM_PATH.")
	flags.DurationVar(&cfg.Linger, "linger", cfg.Linger, "Keep playing this long after the script ends.")
	flags.IntVar(&cfg.HealthcheckPort, "healthcheck-port", cfg.HealthcheckPort, "Port for the health and metrics server. 0 is disabled.")
	flags.StringVar(&cfg.NotifyURL, "notify-url", cfg.NotifyURL, "Socket.IO server that receives every notification.")
	flags.StringVar(&cfg.NotifyNamespace, "notify-namespace", cfg.NotifyNamespace, "Socket.IO namespace for notifications.")
	return cmd
}

func newInspectCommand(outW io.Writer, cfg *app.Config) *cobra.Command {
	var req app.InspectRequest
	cmd := &cobra.Command{
		Use:   "inspect PROGRAM_PATH SESSION_ID",
		Short: "Print node values of a stored session over a frame range",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.ProgramPath = args[0]
			req.SessionID = args[1]
			if req.End >= 0 && req.End < req.Start {
				return usageError(errors.New("--end must not be before --start"))
			}
			a, err := newApp(outW, *cfg)
			if err != nil {
				return err
			}
			return a.Inspect(cmd.Context(), req)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&req.Start, "start", 0, "First frame to print.")
	flags.IntVar(&req.End, "end", -1, "Last frame to print. Negative means the last frame.")
	flags.StringSliceVar(&req.Nodes, "node", nil, "Node to print, by name. Repeatable; defaults to every node.")
	return cmd
}

func newSessionsCommand(outW io.Writer, cfg *app.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List the sessions stored in the history store",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(outW, *cfg)
			if err != nil {
				return err
			}
			_, err = a.Sessions(cmd.Context())
			return err
		},
	}
}
