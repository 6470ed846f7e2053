// Package protocol holds the JSON messages exchanged with the game server.
// Events flow server to client, requests flow client to server.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrMalformed = errors.New("malformed message")

// EventMessage discriminates inbound events.
type EventMessage string

const (
	GameStart    EventMessage = "gameStart"
	PlayerTurn   EventMessage = "playerTurn"
	IllegalMove  EventMessage = "illegalMove"
	MoveAccepted EventMessage = "moveAccepted"
	GameEnded    EventMessage = "gameEnded"
)

// Known reports whether m is one of the events the client understands.
func (m EventMessage) Known() bool {
	switch m {
	case GameStart, PlayerTurn, IllegalMove, MoveAccepted, GameEnded:
		return true
	default:
		return false
	}
}

// CheckStatus accompanies an opponent move.
type CheckStatus string

const (
	NoCheck   CheckStatus = ""
	Check     CheckStatus = "check"
	CheckMate CheckStatus = "checkmate"
)

// WinnerPlayer is the gameEnded winner value meaning the receiving client won.
const WinnerPlayer = "player"

// Event is a server to client message. Pointer fields distinguish a missing
// field from its zero value.
type Event struct {
	Message      EventMessage `json:"message"`
	StartFirst   *bool        `json:"startFirst,omitempty"`
	OpponentMove []string     `json:"opponentMove,omitempty"`
	Check        CheckStatus  `json:"check,omitempty"`
	Winner       *string      `json:"winner,omitempty"`
}

// Validate checks that the payload fields required by the event kind are
// present. Unknown kinds pass; routing decides what to do with them.
func (e Event) Validate() error {
	switch e.Message {
	case "":
		return fmt.Errorf("%w: missing message kind", ErrMalformed)
	case GameStart:
		if e.StartFirst == nil {
			return fmt.Errorf("%w: gameStart without startFirst", ErrMalformed)
		}
	case PlayerTurn:
		if len(e.OpponentMove) != 2 {
			return fmt.Errorf("%w: playerTurn opponentMove has %d squares", ErrMalformed, len(e.OpponentMove))
		}
	case GameEnded:
		if e.Winner == nil {
			return fmt.Errorf("%w: gameEnded without winner", ErrMalformed)
		}
	}
	return nil
}

// Decode parses one inbound frame. It does not call Validate.
func Decode(data []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return ev, nil
}

// RequestType discriminates outbound requests.
type RequestType string

const (
	Move RequestType = "move"
)

// Request is a client to server message.
type Request struct {
	Request RequestType `json:"request"`
	Move    [2]string   `json:"move"`
}

func NewMoveRequest(from, to string) Request {
	return Request{Request: Move, Move: [2]string{from, to}}
}
