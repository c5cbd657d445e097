// Package socketio forwards debug notifications to a socket.io server so a
// remote front-end can follow a session live.
package socketio

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/specialistvlad/reactordebug/internal/ctxlog"
	"github.com/specialistvlad/reactordebug/internal/notify"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultEvent is the event name notifications are emitted under.
const DefaultEvent = "debugger:event"

// ErrNotConnected is returned when a notification arrives after the
// connection was lost.
var ErrNotConnected = errors.New("socket.io client is not connected")

// Options configures the connection.
type Options struct {
	URL                string
	Namespace          string
	Event              string
	InsecureSkipVerify bool
	ConnectTimeout     time.Duration
}

// Sink implements notify.Sink over a socket.io connection.
type Sink struct {
	io    *socket.Socket
	event string
}

var _ notify.Sink = (*Sink)(nil)

// Dial connects to the server and waits until the connection is up.
func Dial(ctx context.Context, opts Options) (*Sink, error) {
	logger := ctxlog.FromContext(ctx).With("sink", "socketio", "url", opts.URL)
	logger.Info("Connecting notification sink...")

	parsedURL, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if opts.Event == "" {
		opts.Event = DefaultEvent
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 15 * time.Second
	}

	ioOpts := socket.DefaultOptions()
	ioOpts.SetPath(parsedURL.Path)
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		ioOpts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	ioOpts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, ioOpts)
	io := manager.Socket(opts.Namespace, ioOpts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Notification sink connected", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err, _ := errs[0].(error)
		if err == nil {
			err = fmt.Errorf("%v", errs[0])
		}
		logger.Debug("Notification sink failed to connect", "error", err)
		connectChan <- err
	})

	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return &Sink{io: io, event: opts.Event}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(opts.ConnectTimeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", opts.ConnectTimeout)
	}
}

// Notify emits n as a JSON object.
func (s *Sink) Notify(ctx context.Context, n notify.Notification) error {
	if !s.io.Connected() {
		return ErrNotConnected
	}
	data, err := payload(n)
	if err != nil {
		return err
	}
	s.io.Emit(s.event, data)
	return nil
}

// Close disconnects from the server.
func (s *Sink) Close() error {
	s.io.Disconnect()
	return nil
}

// payload converts n to the generic tree the socket.io encoder expects.
func payload(n notify.Notification) (any, error) {
	raw, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("encoding notification: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding notification: %w", err)
	}
	return out, nil
}
