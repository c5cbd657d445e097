package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/specialistvlad/reactordebug/internal/config"
	"github.com/specialistvlad/reactordebug/internal/ctxlog"
	"github.com/specialistvlad/reactordebug/internal/notify"
	"github.com/specialistvlad/reactordebug/internal/notify/socketio"
	"github.com/specialistvlad/reactordebug/internal/session"
)

// sender delivers external events to a running program by input name.
type sender interface {
	SendTo(ctx context.Context, name string, v any) (bool, error)
}

// Run loads the program, starts a debug session for it, plays the scripted
// events and prints a line for every recorded event. It returns the id of
// the finished session.
func (a *App) Run(ctx context.Context) (string, error) {
	ctx = a.context(ctx)
	a.logger.Debug("App.Run method started.")

	if err := a.startServer(); err != nil {
		return "", err
	}
	defer a.stopServer(ctx)

	program, err := a.loadProgram(ctx)
	if err != nil {
		return "", err
	}
	script, err := a.loadScript(ctx)
	if err != nil {
		return "", err
	}

	store, err := a.openStore(ctx)
	if err != nil {
		return "", err
	}
	defer a.closeStore(store)

	out := newPrinter(a.outW)
	sinks := []notify.Sink{out, notify.NewLogSink(a.logger, slog.LevelDebug)}
	if a.config.NotifyURL != "" {
		remote, err := socketio.Dial(ctx, socketio.Options{URL: a.config.NotifyURL, Namespace: a.config.NotifyNamespace})
		if err != nil {
			return "", fmt.Errorf("connecting notification sink: %w", err)
		}
		defer remote.Close()
		sinks = append(sinks, remote)
	}

	opts := []session.Option{
		session.WithInterval(a.config.Interval),
		session.WithSink(notify.Multi(sinks...)),
		session.WithMetrics(a.metrics),
	}
	if store != nil {
		opts = append(opts, session.WithHistoryStore(store))
	}

	s, initial, err := session.Initialize(ctx, program, nil, session.MainNode, opts...)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := s.Dispose(ctx); err != nil {
			a.logger.Warn("Disposing session failed.", "error", err)
		}
	}()
	ctx = ctxlog.With(ctx, "session", s.ID())
	out.setShape(s.Shape())
	out.initial(initial)

	a.logger.Info("🚀 Debug session started.", "session", s.ID(), "program", program.Name(), "events", len(script.Sends))
	if err := a.play(ctx, s, script); err != nil {
		return s.ID(), err
	}

	if a.config.Linger > 0 {
		a.logger.Debug("Lingering after script.", "linger", a.config.Linger)
		if err := sleep(ctx, a.config.Linger); err != nil {
			return s.ID(), err
		}
	}

	if err := s.SetPlaying(ctx, false); err != nil {
		return s.ID(), err
	}
	frames, err := s.NumFrames(ctx)
	if err != nil {
		return s.ID(), err
	}
	a.logger.Info("🏁 Session finished.", "session", s.ID(), "frames", frames, "dropped", s.Dropped())
	return s.ID(), nil
}

func (a *App) play(ctx context.Context, s *session.Session, script *config.Script) error {
	in, ok := s.Adapter().(sender)
	if !ok {
		return fmt.Errorf("program %q does not accept scripted events", s.Program().Name())
	}

	for i, send := range script.Sends {
		if err := sleep(ctx, send.Delay); err != nil {
			return err
		}
		accepted, err := in.SendTo(ctx, send.Input, send.Value)
		if err != nil {
			return fmt.Errorf("send %d to %q: %w", i, send.Input, err)
		}
		if !accepted {
			a.logger.Warn("Scripted event was not recorded.", "index", i, "input", send.Input)
		}
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
