package client

import (
	"context"
	"errors"
	"testing"

	"github.com/park285/chess-client/internal/board"
	"github.com/park285/chess-client/pkg/protocol"
)

type fakeView struct {
	*board.Board
	selected map[board.Coord]bool
	notices  []string
	cleared  int
}

func newFakeView() *fakeView {
	return &fakeView{Board: board.New(), selected: make(map[board.Coord]bool)}
}

func (v *fakeView) MarkSelected(c board.Coord)  { v.selected[c] = true }
func (v *fakeView) ClearSelected(c board.Coord) { delete(v.selected, c) }
func (v *fakeView) Notify(m string)             { v.notices = append(v.notices, m) }
func (v *fakeView) ClearNotice()                { v.cleared++ }

func (v *fakeView) lastNotice() string {
	if len(v.notices) == 0 {
		return ""
	}
	return v.notices[len(v.notices)-1]
}

type fakeTransport struct {
	sent    []protocol.Request
	sendErr error
	closed  int
}

func (f *fakeTransport) Send(_ context.Context, v any) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	req, ok := v.(protocol.Request)
	if !ok {
		return errors.New("unexpected payload type")
	}
	f.sent = append(f.sent, req)
	return nil
}

func (f *fakeTransport) Close() error {
	f.closed++
	return nil
}

func newTestSession(t *testing.T) (*Session, *fakeView, *fakeTransport) {
	t.Helper()
	view := newFakeView()
	conn := &fakeTransport{}
	return NewSession(view, conn, WithID("test")), view, conn
}

// startedSession returns a session that received gameStart for the given side.
func startedSession(t *testing.T, startFirst bool) (*Session, *fakeView, *fakeTransport) {
	t.Helper()
	s, view, conn := newTestSession(t)
	if err := s.HandleEvent(context.Background(), gameStart(startFirst)); err != nil {
		t.Fatalf("gameStart: %v", err)
	}
	return s, view, conn
}

func gameStart(first bool) protocol.Event {
	return protocol.Event{Message: protocol.GameStart, StartFirst: &first}
}

func playerTurn(from, to string, check protocol.CheckStatus) protocol.Event {
	return protocol.Event{Message: protocol.PlayerTurn, OpponentMove: []string{from, to}, Check: check}
}

func gameEnded(winner string) protocol.Event {
	return protocol.Event{Message: protocol.GameEnded, Winner: &winner}
}

func mustClick(t *testing.T, s *Session, c board.Coord, want ClickResult) {
	t.Helper()
	got, err := s.Click(context.Background(), c)
	if err != nil {
		t.Fatalf("Click(%v): %v", c, err)
	}
	if got != want {
		t.Fatalf("Click(%v) = %s, want %s", c, got, want)
	}
}

func at(x, y int) board.Coord { return board.Coord{X: x, Y: y} }
