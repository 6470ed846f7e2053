package client

import "github.com/park285/chess-client/internal/board"

// Selection is the local selection state. It is one of Idle, UnitSelected
// or PendingConfirmation.
type Selection interface {
	isSelection()
}

// Idle means no square is selected.
type Idle struct{}

// UnitSelected means a friendly piece on Origin awaits a destination.
type UnitSelected struct {
	Origin board.Coord
}

// PendingConfirmation means a move request was sent and the server verdict
// is outstanding. Input is ignored while it holds.
type PendingConfirmation struct {
	Origin      board.Coord
	Destination board.Coord
}

func (Idle) isSelection()                {}
func (UnitSelected) isSelection()        {}
func (PendingConfirmation) isSelection() {}

// Move is a pair of board-relative coordinates.
type Move struct {
	From board.Coord
	To   board.Coord
}

// State is everything the client knows about the game besides the board
// itself, which lives in the View.
type State struct {
	Color     board.Color
	Started   bool
	InTurn    bool
	Selection Selection
	// Ended is set by gameEnded or a transport failure; nothing changes after.
	Ended    bool
	LastMove *Move
}

// Pending reports whether a move request is awaiting its verdict.
func (s State) Pending() bool {
	_, ok := s.Selection.(PendingConfirmation)
	return ok
}

// ClickResult tells the caller what a click did.
type ClickResult int

const (
	Ignored ClickResult = iota
	Selected
	Reselected
	Submitted
)

func (r ClickResult) String() string {
	switch r {
	case Selected:
		return "selected"
	case Reselected:
		return "reselected"
	case Submitted:
		return "submitted"
	default:
		return "ignored"
	}
}
