package events

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
)

// ErrStreamLost marks a dropped socket2 connection. The orchestrator owns
// the reconnect policy; the listener only reports the loss.
var ErrStreamLost = errors.New("events: event stream lost")

type Listener struct {
	logger *slog.Logger
}

func NewListener(logger *slog.Logger) *Listener {
	return &Listener{
		logger,
	}
}

// Listen connects to the socket2 path and feeds parsed events into ch until
// the context is cancelled or the connection drops. The stream is not
// restartable: a read failure always returns ErrStreamLost.
func (l *Listener) Listen(ctx context.Context, path string, ch chan<- Event) error {
	conn, err := net.Dial("unix", path)

	if err != nil {
		return fmt.Errorf("%w: could not connect to %s: %v", ErrStreamLost, path, err)
	}

	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			l.logger.DebugContext(ctx, "events: error closing socket", slog.Any("error", closeErr))
		}
	}()

	// Unblock the read when the context ends; a dead peer is otherwise only
	// detectable through the read error itself.
	closeDone := make(chan struct{})
	defer close(closeDone)

	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-closeDone:
		}
	}()

	l.logger.InfoContext(ctx, "events: listening", slog.String("path", path))

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		event, ok := Parse(scanner.Text())

		if !ok {
			l.logger.DebugContext(ctx, "events: dropping malformed line", slog.String("line", scanner.Text()))
			continue
		}

		select {
		case ch <- event:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: read failed: %v", ErrStreamLost, err)
	}

	// EOF: the compositor closed its end.
	return fmt.Errorf("%w: connection closed by compositor", ErrStreamLost)
}
