package client

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/park285/chess-client/internal/board"
	"github.com/park285/chess-client/internal/msgcat"
	"github.com/park285/chess-client/pkg/protocol"
	"go.uber.org/zap"
)

// View is the rendering collaborator. It owns the board grid; the session
// reads ownership of squares from it and mutates it directly.
type View interface {
	PieceAt(c board.Coord) (board.Piece, bool)
	PlacePiece(c board.Coord, p board.Piece)
	RemovePiece(c board.Coord) (board.Piece, bool)
	MarkSelected(c board.Coord)
	ClearSelected(c board.Coord)
	Notify(message string)
	ClearNotice()
}

// Transport is the outbound half of the connection.
type Transport interface {
	Send(ctx context.Context, v any) error
	Close() error
}

// Messages renders user-facing text by catalog key.
type Messages interface {
	Text(key string, data any) string
}

type keyMessages struct{}

func (keyMessages) Text(key string, _ any) string { return key }

// Session is the explicit client context: game state plus collaborators.
// It is not safe for concurrent use; Loop serialises access.
type Session struct {
	id     string
	state  State
	view   View
	conn   Transport
	msgs   Messages
	logger *zap.Logger
}

type Option func(*Session)

func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithMessages(m Messages) Option {
	return func(s *Session) {
		if m != nil {
			s.msgs = m
		}
	}
}

// WithID sets the session id used in log lines. A random UUID is used otherwise.
func WithID(id string) Option {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

func NewSession(view View, conn Transport, opts ...Option) *Session {
	s := &Session{
		id:     uuid.NewString(),
		state:  State{Selection: Idle{}},
		view:   view,
		conn:   conn,
		msgs:   keyMessages{},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("session_id", s.id))
	return s
}

func (s *Session) ID() string { return s.id }

// State returns a copy of the current state.
func (s *Session) State() State { return s.state }

// Terminated reports whether the session reached its terminal state.
func (s *Session) Terminated() bool { return s.state.Ended }

// Click feeds one board-relative click through the selection state machine.
func (s *Session) Click(ctx context.Context, c board.Coord) (ClickResult, error) {
	if !c.Valid() {
		return Ignored, fmt.Errorf("%w: %v", board.ErrOutOfBounds, c)
	}
	if s.state.Ended || !s.state.Started {
		return Ignored, nil
	}

	switch sel := s.state.Selection.(type) {
	case PendingConfirmation:
		s.logger.Debug("click_ignored_pending", zap.Stringer("at", c))
		return Ignored, nil

	case UnitSelected:
		if c != sel.Origin && s.ownPieceAt(c) {
			s.view.ClearSelected(sel.Origin)
			s.state.Selection = UnitSelected{Origin: c}
			s.view.MarkSelected(c)
			return Reselected, nil
		}
		if !s.state.InTurn {
			return Ignored, nil
		}
		return s.submit(ctx, sel.Origin, c)

	default:
		if !s.state.InTurn || !s.ownPieceAt(c) {
			return Ignored, nil
		}
		s.state.Selection = UnitSelected{Origin: c}
		s.view.MarkSelected(c)
		return Selected, nil
	}
}

// ClickSquare resolves a square name as drawn for the local color and clicks it.
func (s *Session) ClickSquare(ctx context.Context, name string) (ClickResult, error) {
	c, err := board.FromNotation(name, s.state.Color)
	if err != nil {
		return Ignored, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return s.Click(ctx, c)
}

func (s *Session) submit(ctx context.Context, origin, target board.Coord) (ClickResult, error) {
	from := board.ToNotation(origin, s.state.Color)
	to := board.ToNotation(target, s.state.Color)

	s.state.Selection = PendingConfirmation{Origin: origin, Destination: target}
	s.state.InTurn = false

	s.logger.Info("move_request", zap.String("from", from), zap.String("to", to))
	if err := s.conn.Send(ctx, protocol.NewMoveRequest(from, to)); err != nil {
		s.fail(err)
		return Submitted, fmt.Errorf("%w: send move: %w", ErrTransport, err)
	}
	return Submitted, nil
}

func (s *Session) ownPieceAt(c board.Coord) bool {
	p, ok := s.view.PieceAt(c)
	return ok && p.Color == s.state.Color
}

// movePiece relocates the piece on from to to, discarding to's occupant.
func (s *Session) movePiece(from, to board.Coord) {
	p, ok := s.view.RemovePiece(from)
	if !ok {
		panic(&InvariantError{Op: "movePiece", At: from, What: "no piece at origin"})
	}
	if captured, ok := s.view.RemovePiece(to); ok {
		s.logger.Debug("piece_captured", zap.Stringer("at", to), zap.Stringer("piece", captured))
	}
	s.view.PlacePiece(to, p)
	s.state.LastMove = &Move{From: from, To: to}
}

func (s *Session) clearSelection() {
	switch sel := s.state.Selection.(type) {
	case UnitSelected:
		s.view.ClearSelected(sel.Origin)
	case PendingConfirmation:
		s.view.ClearSelected(sel.Origin)
	}
	s.state.Selection = Idle{}
}

// fail moves the session to its terminal state after a transport problem.
func (s *Session) fail(err error) {
	if s.state.Ended {
		return
	}
	s.logger.Warn("transport_failure", zap.Error(err))
	s.terminate()
	s.view.Notify(s.msgs.Text(msgcat.NoticeTransportError, map[string]any{"Error": err.Error()}))
}

func (s *Session) terminate() {
	s.clearSelection()
	s.state.InTurn = false
	s.state.Ended = true
}

// HandleClose reports the connection closing. It is terminal; after a game
// ended normally it is silent.
func (s *Session) HandleClose(clean bool, code int, reason string) {
	if s.state.Ended {
		s.logger.Debug("connection_closed_after_end", zap.Int("code", code))
		return
	}
	s.logger.Warn("connection_closed", zap.Bool("clean", clean), zap.Int("code", code), zap.String("reason", reason))
	s.terminate()
	if clean {
		s.view.Notify(s.msgs.Text(msgcat.NoticeConnectionClosed, map[string]any{"Code": code, "Reason": reason}))
		return
	}
	s.view.Notify(s.msgs.Text(msgcat.NoticeConnectionDied, nil))
}

// HandleError reports a transport error. It is terminal.
func (s *Session) HandleError(err error) {
	if err == nil {
		return
	}
	if s.state.Ended {
		s.logger.Debug("transport_error_after_end", zap.Error(err))
		return
	}
	s.fail(err)
}
