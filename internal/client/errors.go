package client

import (
	"errors"
	"fmt"

	"github.com/park285/chess-client/internal/board"
)

var (
	// ErrParse marks a malformed message or square name; only the message
	// that carried it is dropped.
	ErrParse = errors.New("parse error")
	// ErrProtocolViolation marks a well-formed event that the current state
	// cannot accept.
	ErrProtocolViolation = errors.New("protocol violation")
	// ErrUnknownEvent marks an event kind the client does not recognise.
	ErrUnknownEvent = errors.New("unknown event")
	// ErrTransport marks a failed or closed connection. It is terminal.
	ErrTransport = errors.New("transport failure")
)

// InvariantError reports a broken internal precondition. It is raised with
// panic and means a defect, not a runtime condition.
type InvariantError struct {
	Op   string
	At   board.Coord
	What string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violated in %s at %v: %s", e.Op, e.At, e.What)
}
