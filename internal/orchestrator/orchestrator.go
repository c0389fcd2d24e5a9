package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/XclusivVv/hyprland-video-wallpapers/cmd/cli/config"
	"github.com/XclusivVv/hyprland-video-wallpapers/internal/backend/hyprpaper"
	"github.com/XclusivVv/hyprland-video-wallpapers/internal/backend/mpv"
	"github.com/XclusivVv/hyprland-video-wallpapers/internal/clock"
	"github.com/XclusivVv/hyprland-video-wallpapers/internal/hypr"
	"github.com/XclusivVv/hyprland-video-wallpapers/internal/hypr/events"
)

// Tiler is the slice of the layout engine the event loop drives.
type Tiler interface {
	Retile(ctx context.Context, workspaceID int) error
	PlaceNewWindow(ctx context.Context, address string) error
	CascadeResize(ctx context.Context, workspaceID int, address string) error
}

// BindWriter regenerates the togglefloating fragment on switch decisions.
type BindWriter interface {
	Apply(workspaceID int, hasVideo bool) error
}

// EventSource yields the compositor's event stream. A returned error wraps
// events.ErrStreamLost when the connection dropped.
type EventSource interface {
	Listen(ctx context.Context, path string, ch chan<- events.Event) error
}

// SocketResolver re-resolves the socket2 path before each connection
// attempt; the compositor may have restarted under a new signature.
type SocketResolver func(ctx context.Context) (string, error)

// Orchestrator is the single-threaded core: it sequences startup, consumes
// compositor events one at a time and dispatches to the two media backends,
// the layout engine and the bind writer. Strict sequential processing is
// what guarantees that all pause/resume commands of one switch complete
// before that switch's image decision runs.
type Orchestrator struct {
	logger   *slog.Logger
	cfg      *config.Config
	tunables config.Tunables
	hypr     hypr.Client
	video    mpv.Controller
	paper    hyprpaper.Controller
	tiler    Tiler
	binds    BindWriter
	clock    clock.Clock
	source   EventSource
	resolve  SocketResolver

	state *State
}

func New(
	logger *slog.Logger,
	cfg *config.Config,
	tunables config.Tunables,
	hyprClient hypr.Client,
	video mpv.Controller,
	paper hyprpaper.Controller,
	tiler Tiler,
	binds BindWriter,
	clk clock.Clock,
	source EventSource,
	resolve SocketResolver,
) *Orchestrator {
	return &Orchestrator{
		logger:   logger,
		cfg:      cfg,
		tunables: tunables,
		hypr:     hyprClient,
		video:    video,
		paper:    paper,
		tiler:    tiler,
		binds:    binds,
		clock:    clk,
		source:   source,
		resolve:  resolve,
		state:    NewState(),
	}
}

// State exposes the loop state for tests. Production code never reaches in.
func (o *Orchestrator) State() *State {
	return o.state
}

// Run performs startup and then consumes events until the context ends or
// the event stream is lost beyond the reconnect budget. Owned video players
// are always terminated on the way out; the shared image daemon is left
// running.
func (o *Orchestrator) Run(ctx context.Context) error {
	defer o.shutdown()

	if err := o.startup(ctx); err != nil {
		return err
	}

	return o.eventLoop(ctx)
}

func (o *Orchestrator) shutdown() {
	// Deliberately not the run context: cleanup must happen precisely when
	// the run context is already cancelled.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	o.logger.InfoContext(ctx, "orchestrator: stopping video wallpapers")
	o.video.StopAll(ctx)
}

func (o *Orchestrator) eventLoop(ctx context.Context) error {
	attempts := 0

	for {
		if ctx.Err() != nil {
			return nil
		}

		socketPath, err := o.resolve(ctx)
		if err != nil {
			o.logger.ErrorContext(ctx, "orchestrator: could not resolve event socket", slog.Any("error", err))
			attempts++
			if !o.backoff(ctx, attempts) {
				return fmt.Errorf("orchestrator: event socket unavailable after %d attempts: %w", attempts, err)
			}
			continue
		}

		connectedAt := o.clock.Now()
		err = o.consume(ctx, socketPath)

		if err == nil || errors.Is(err, context.Canceled) {
			return nil
		}

		if !errors.Is(err, events.ErrStreamLost) {
			return err
		}

		// A connection that held for a while was healthy; start the
		// reconnect budget over instead of counting old failures.
		if o.clock.Now().Sub(connectedAt) > o.tunables.ReconnectMaxDelay {
			attempts = 0
		}

		attempts++
		o.logger.WarnContext(ctx, "orchestrator: event stream lost",
			slog.Any("error", err),
			slog.Int("attempt", attempts))

		if !o.backoff(ctx, attempts) {
			return fmt.Errorf("orchestrator: event stream lost after %d attempts: %w", attempts, err)
		}
	}
}

// backoff sleeps the exponential delay for the given attempt and reports
// whether another attempt is allowed.
func (o *Orchestrator) backoff(ctx context.Context, attempts int) bool {
	if attempts >= o.tunables.ReconnectAttempts {
		return false
	}

	delay := o.tunables.ReconnectBaseDelay << (attempts - 1)
	if delay > o.tunables.ReconnectMaxDelay {
		delay = o.tunables.ReconnectMaxDelay
	}

	o.logger.InfoContext(ctx, "orchestrator: reconnecting",
		slog.Duration("delay", delay),
		slog.Int("attempt", attempts))

	o.clock.Sleep(ctx, delay)

	return ctx.Err() == nil
}

func (o *Orchestrator) consume(ctx context.Context, socketPath string) error {
	listenCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	ch := make(chan events.Event, 64)
	listenDone := make(chan error, 1)

	go func() {
		listenDone <- o.source.Listen(listenCtx, socketPath, ch)
	}()

	// One event at a time: the next event is not taken off the channel
	// until the current handler has fully completed.
	for {
		select {
		case <-ctx.Done():
			<-listenDone
			return ctx.Err()
		case err := <-listenDone:
			return err
		case event := <-ch:
			o.Handle(ctx, event)
		}
	}
}

// Handle dispatches a single compositor event. Unknown event names are
// ignored for forward compatibility.
func (o *Orchestrator) Handle(ctx context.Context, event events.Event) {
	switch event.Name {
	case events.Workspace:
		o.handleWorkspace(ctx, event)
	case events.OpenWindow:
		o.handleOpenWindow(ctx, event)
	case events.CloseWindow:
		o.handleCloseWindow(ctx, event)
	case events.ResizeWindow:
		o.handleResizeWindow(ctx, event)
	}
}
