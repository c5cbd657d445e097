package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/specialistvlad/reactordebug/internal/config"
	"github.com/specialistvlad/reactordebug/internal/ctxlog"
	"github.com/specialistvlad/reactordebug/internal/historystore"
	"github.com/specialistvlad/reactordebug/internal/historystore/badger"
	"github.com/specialistvlad/reactordebug/internal/historystore/sqlite"
	reactorhcl "github.com/specialistvlad/reactordebug/internal/hcl"
	"github.com/specialistvlad/reactordebug/internal/metrics"
	"github.com/specialistvlad/reactordebug/internal/reactor"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	loader   config.Loader
	registry *prometheus.Registry
	metrics  *metrics.Metrics

	httpServer *http.Server
}

// New is the constructor for the main application. It returns an App with
// its own isolated logger and metrics registry.
func New(outW io.Writer, cfg *Config, loader config.Loader) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		loader:   loader,
		registry: reg,
		metrics:  metrics.New(reg),
	}
}

// Registry returns the application's metrics registry. This is primarily for testing.
func (a *App) Registry() *prometheus.Registry {
	return a.registry
}

func (a *App) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// loadProgram reads the program files and builds a runnable program.
func (a *App) loadProgram(ctx context.Context) (*reactor.Program, error) {
	if a.config.ProgramPath == "" {
		return nil, fmt.Errorf("program path is required")
	}
	cfg, err := a.loader.LoadProgram(ctx, a.config.ProgramPath)
	if err != nil {
		return nil, fmt.Errorf("loading program: %w", err)
	}
	program, err := reactor.FromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("loading program: %w", err)
	}
	a.logger.Debug("Program loaded.", "program", cfg.Name, "inputs", len(cfg.Inputs), "nodes", len(cfg.Nodes), "outputs", len(cfg.Outputs))
	return program, nil
}

// loadScript reads the scripted events, from the program files unless a
// separate script path is configured.
func (a *App) loadScript(ctx context.Context) (*config.Script, error) {
	path := a.config.ScriptPath
	if path == "" {
		path = a.config.ProgramPath
	}
	script, err := a.loader.LoadScript(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("loading script: %w", err)
	}
	return script, nil
}

// openStore opens the configured history store, or returns nil when
// persistence is disabled.
func (a *App) openStore(ctx context.Context) (historystore.Store, error) {
	path := a.config.HistoryPath
	if path == "" {
		return nil, nil
	}

	codec := historystore.NewCodec(reactorhcl.NewConverter())
	a.logger.Debug("Opening history store.", "backend", a.config.HistoryBackend, "path", path)

	var (
		store historystore.Store
		err   error
	)
	switch a.config.HistoryBackend {
	case BackendBadger:
		store, err = badger.Open(badger.Config{Path: path, Logger: a.logger}, codec)
	default:
		store, err = sqlite.Open(ctx, sqlite.Config{Path: path}, codec)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s history store: %w", a.config.HistoryBackend, err)
	}
	return store, nil
}

func (a *App) requireStore(ctx context.Context) (historystore.Store, error) {
	if a.config.HistoryPath == "" {
		return nil, fmt.Errorf("history path is required")
	}
	return a.openStore(ctx)
}

func (a *App) closeStore(store historystore.Store) {
	if store == nil {
		return
	}
	if err := store.Close(); err != nil {
		a.logger.Warn("Closing history store failed.", "error", err)
	}
}
