package client

import (
	"context"
	"fmt"

	"github.com/park285/chess-client/internal/board"
	"github.com/park285/chess-client/internal/msgcat"
	"github.com/park285/chess-client/pkg/protocol"
	"go.uber.org/zap"
)

// HandleMessage decodes one inbound frame and dispatches it.
func (s *Session) HandleMessage(ctx context.Context, data []byte) error {
	ev, err := protocol.Decode(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrParse, err)
	}
	return s.HandleEvent(ctx, ev)
}

// HandleEvent applies a decoded server event. Errors leave state untouched.
func (s *Session) HandleEvent(ctx context.Context, ev protocol.Event) error {
	if err := ev.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrParse, err)
	}
	if s.state.Ended {
		return fmt.Errorf("%w: %s after game end", ErrProtocolViolation, ev.Message)
	}

	switch ev.Message {
	case protocol.GameStart:
		s.startGame(*ev.StartFirst)
		return nil
	case protocol.PlayerTurn:
		return s.opponentMoved(ev)
	case protocol.MoveAccepted:
		return s.moveAccepted()
	case protocol.IllegalMove:
		return s.illegalMove()
	case protocol.GameEnded:
		s.gameEnded(*ev.Winner)
		return nil
	default:
		s.logger.Warn("unknown_event", zap.String("message", string(ev.Message)))
		return fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Message)
	}
}

func (s *Session) startGame(startFirst bool) {
	color := board.Black
	if startFirst {
		color = board.White
	}

	s.clearSelection()
	for _, c := range board.AllCoords() {
		s.view.RemovePiece(c)
	}
	for _, pl := range board.OpeningLayout(color) {
		s.view.PlacePiece(pl.At, pl.Piece)
	}

	s.state.Color = color
	s.state.Started = true
	s.state.InTurn = startFirst
	s.state.LastMove = nil
	s.view.ClearNotice()
	s.logger.Info("game_start", zap.Stringer("color", color), zap.Bool("start_first", startFirst))
}

func (s *Session) opponentMoved(ev protocol.Event) error {
	if !s.state.Started {
		return fmt.Errorf("%w: playerTurn before gameStart", ErrProtocolViolation)
	}
	if s.state.InTurn || s.state.Pending() {
		return fmt.Errorf("%w: playerTurn while local move is possible or pending", ErrProtocolViolation)
	}

	from, err := board.FromNotation(ev.OpponentMove[0], s.state.Color)
	if err != nil {
		return fmt.Errorf("%w: opponent move origin: %w", ErrParse, err)
	}
	to, err := board.FromNotation(ev.OpponentMove[1], s.state.Color)
	if err != nil {
		return fmt.Errorf("%w: opponent move target: %w", ErrParse, err)
	}
	if _, ok := s.view.PieceAt(from); !ok {
		return fmt.Errorf("%w: opponent move from empty square %s", ErrProtocolViolation, ev.OpponentMove[0])
	}

	s.movePiece(from, to)
	s.state.InTurn = ev.Check != protocol.CheckMate
	s.logger.Info("opponent_move",
		zap.String("from", ev.OpponentMove[0]),
		zap.String("to", ev.OpponentMove[1]),
		zap.String("check", string(ev.Check)),
	)
	return nil
}

func (s *Session) moveAccepted() error {
	sel, ok := s.state.Selection.(PendingConfirmation)
	if !ok {
		return fmt.Errorf("%w: moveAccepted without a pending move", ErrProtocolViolation)
	}
	origin, dest := sel.Origin, sel.Destination
	s.clearSelection()
	s.movePiece(origin, dest)
	s.logger.Info("move_accepted",
		zap.String("from", board.ToNotation(origin, s.state.Color)),
		zap.String("to", board.ToNotation(dest, s.state.Color)),
	)
	return nil
}

func (s *Session) illegalMove() error {
	sel, ok := s.state.Selection.(PendingConfirmation)
	if !ok {
		return fmt.Errorf("%w: illegalMove without a pending move", ErrProtocolViolation)
	}
	s.clearSelection()
	s.state.InTurn = true
	s.view.Notify(s.msgs.Text(msgcat.NoticeIllegalMove, nil))
	s.logger.Info("move_rejected",
		zap.String("from", board.ToNotation(sel.Origin, s.state.Color)),
		zap.String("to", board.ToNotation(sel.Destination, s.state.Color)),
	)
	return nil
}

func (s *Session) gameEnded(winner string) {
	s.terminate()
	key := msgcat.NoticeGameLost
	if winner == protocol.WinnerPlayer {
		key = msgcat.NoticeGameWon
	}
	s.view.Notify(s.msgs.Text(key, nil))
	s.logger.Info("game_ended", zap.String("winner", winner))
	if err := s.conn.Close(); err != nil {
		s.logger.Warn("close_after_game_end", zap.Error(err))
	}
}
