package client

import (
	"context"
	"errors"

	"github.com/park285/chess-client/internal/board"
	"go.uber.org/zap"
)

// Frame is one stimulus from the transport: a message, a close, or an error.
type Frame struct {
	Data   []byte
	Closed *CloseInfo
	Err    error
}

// CloseInfo describes a closed connection.
type CloseInfo struct {
	Clean  bool
	Code   int
	Reason string
}

type input struct {
	coord  board.Coord
	square string
}

// stimulus is one queued item: a click or a transport frame, never both.
type stimulus struct {
	in    *input
	frame *Frame
}

// Loop runs a Session on a single goroutine. Clicks and transport frames
// share one queue and are applied strictly one at a time, in queue order.
type Loop struct {
	session *Session
	queue   chan stimulus
	done    chan struct{}
	settled func(State)
}

// NewLoop wraps s. settled, when non-nil, runs on the loop goroutine after
// every processed stimulus; renderers hook in there.
func NewLoop(s *Session, settled func(State)) *Loop {
	return &Loop{
		session: s,
		queue:   make(chan stimulus, 32),
		done:    make(chan struct{}),
		settled: settled,
	}
}

// Click queues a board-relative click.
func (l *Loop) Click(c board.Coord) {
	l.enqueue(stimulus{in: &input{coord: c}})
}

// Pick queues a click on a square name as drawn for the local color.
func (l *Loop) Pick(square string) {
	l.enqueue(stimulus{in: &input{square: square}})
}

// Deliver queues a transport frame. It never blocks once Run has returned.
func (l *Loop) Deliver(f Frame) {
	l.enqueue(stimulus{frame: &f})
}

func (l *Loop) enqueue(st stimulus) {
	select {
	case l.queue <- st:
	case <-l.done:
	}
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} { return l.done }

// Run processes stimuli until ctx is cancelled or the session terminates.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	logger := l.session.logger

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case st := <-l.queue:
			if st.in != nil {
				l.click(ctx, logger, *st.in)
			} else {
				l.frame(ctx, logger, *st.frame)
			}
		}

		if l.settled != nil {
			l.settled(l.session.State())
		}
		if l.session.Terminated() {
			return nil
		}
	}
}

func (l *Loop) click(ctx context.Context, logger *zap.Logger, in input) {
	var (
		res ClickResult
		err error
	)
	if in.square != "" {
		res, err = l.session.ClickSquare(ctx, in.square)
	} else {
		res, err = l.session.Click(ctx, in.coord)
	}
	if err != nil {
		logger.Warn("click_error", zap.Error(err))
		return
	}
	logger.Debug("click", zap.Stringer("result", res))
}

func (l *Loop) frame(ctx context.Context, logger *zap.Logger, f Frame) {
	switch {
	case f.Closed != nil:
		l.session.HandleClose(f.Closed.Clean, f.Closed.Code, f.Closed.Reason)
	case f.Err != nil:
		l.session.HandleError(f.Err)
	default:
		if err := l.session.HandleMessage(ctx, f.Data); err != nil {
			logMessageError(logger, err)
		}
	}
}

func logMessageError(logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, ErrParse):
		logger.Warn("message_parse_error", zap.Error(err))
	case errors.Is(err, ErrProtocolViolation):
		logger.Warn("protocol_violation", zap.Error(err))
	case errors.Is(err, ErrUnknownEvent):
		logger.Info("unknown_event_ignored", zap.Error(err))
	default:
		logger.Error("message_error", zap.Error(err))
	}
}
