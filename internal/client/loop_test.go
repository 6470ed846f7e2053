package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/park285/chess-client/pkg/protocol"
)

func TestLoopRunsUntilGameEnds(t *testing.T) {
	view := newFakeView()
	conn := &fakeTransport{}
	s := NewSession(view, conn, WithID("loop"))

	settled := make(chan State, 32)
	loop := NewLoop(s, func(st State) { settled <- st })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- loop.Run(ctx) }()

	loop.Deliver(Frame{Data: []byte(`{"message":"gameStart","startFirst":true}`)})
	loop.Pick("e2")
	loop.Click(at(4, 4))
	loop.Deliver(Frame{Data: []byte(`{"message":"moveAccepted"}`)})
	loop.Deliver(Frame{Data: []byte(`garbage`)})
	loop.Deliver(Frame{Data: []byte(`{"message":"gameEnded","winner":"player"}`)})

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-ctx.Done():
		t.Fatal("loop did not stop after gameEnded")
	}

	if len(conn.sent) != 1 || conn.sent[0] != protocol.NewMoveRequest("e2", "e4") {
		t.Fatalf("sent = %v", conn.sent)
	}
	if conn.closed != 1 {
		t.Fatalf("closed = %d", conn.closed)
	}
	if n := len(settled); n < 6 {
		t.Fatalf("settled hook ran %d times", n)
	}

	// Run has returned; further input must not block.
	loop.Click(at(0, 0))
	loop.Deliver(Frame{Closed: &CloseInfo{Clean: true, Code: 1000}})
	select {
	case <-loop.Done():
	default:
		t.Fatal("Done should be closed")
	}
}

func TestLoopKeepsQueueOrder(t *testing.T) {
	for i := 0; i < 50; i++ {
		view := newFakeView()
		conn := &fakeTransport{}
		s := NewSession(view, conn)

		var states []State
		loop := NewLoop(s, func(st State) { states = append(states, st) })

		// Everything is queued before Run starts, so a click and a frame are
		// both ready on every iteration.
		loop.Deliver(Frame{Data: []byte(`{"message":"gameStart","startFirst":true}`)})
		loop.Pick("e2")
		loop.Click(at(4, 4))
		loop.Deliver(Frame{Closed: &CloseInfo{Clean: true, Code: 1000}})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := loop.Run(ctx)
		cancel()
		if err != nil {
			t.Fatalf("Run: %v", err)
		}

		if len(states) != 4 {
			t.Fatalf("run %d: settled %d times, want 4", i, len(states))
		}
		if diff := cmp.Diff(Selection(UnitSelected{Origin: at(4, 6)}), states[1].Selection); diff != "" {
			t.Fatalf("run %d: selection after click (-want +got):\n%s", i, diff)
		}
		if len(conn.sent) != 1 || conn.sent[0] != protocol.NewMoveRequest("e2", "e4") {
			t.Fatalf("run %d: sent = %v", i, conn.sent)
		}
	}
}

func TestLoopStopsOnContextCancel(t *testing.T) {
	s, _, _ := newTestSession(t)
	loop := NewLoop(s, nil)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- loop.Run(ctx) }()
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run err = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not stop")
	}
}

func TestLoopTerminatesOnTransportFrames(t *testing.T) {
	for _, tc := range []struct {
		name  string
		frame Frame
	}{
		{"close", Frame{Closed: &CloseInfo{Clean: false, Code: 1006}}},
		{"error", Frame{Err: errors.New("read: connection reset")}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s, _, _ := startedSession(t, true)
			loop := NewLoop(s, nil)
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			errCh := make(chan error, 1)
			go func() { errCh <- loop.Run(ctx) }()
			loop.Deliver(tc.frame)

			if err := <-errCh; err != nil {
				t.Fatalf("Run: %v", err)
			}
			if !s.Terminated() {
				t.Fatal("session should be terminated")
			}
		})
	}
}
