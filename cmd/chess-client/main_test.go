package main

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/park285/chess-client/internal/client"
	"github.com/park285/chess-client/internal/render/snapshot"
	"github.com/park285/chess-client/internal/render/termview"
	"github.com/park285/chess-client/pkg/protocol"
	"go.uber.org/zap"
)

func TestSplitSquares(t *testing.T) {
	cases := map[string][]string{
		"e2":       {"e2"},
		"e2 e4":    {"e2", "e4"},
		"  E2-E4 ": {"e2", "e4"},
		"g1,f3":    {"g1", "f3"},
		"":         nil,
		"\tquit":   {"quit"},
	}
	for in, want := range cases {
		if diff := cmp.Diff(want, splitSquares(in), cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("splitSquares(%q) mismatch (-want +got):\n%s", in, diff)
		}
	}
}

type nopTransport struct{}

func (nopTransport) Send(context.Context, any) error { return nil }
func (nopTransport) Close() error                    { return nil }

func TestDrawerWritesTerminalAndSnapshot(t *testing.T) {
	view := termview.New(nil)
	s := client.NewSession(view, nopTransport{})
	first := true
	if err := s.HandleEvent(context.Background(), protocol.Event{Message: protocol.GameStart, StartFirst: &first}); err != nil {
		t.Fatalf("gameStart: %v", err)
	}

	var term bytes.Buffer
	path := filepath.Join(t.TempDir(), "board.png")
	d := &drawer{w: &term, view: view, logger: zap.NewNop(), snap: &snapshot.Renderer{SquareSize: 16}, snapPath: path}
	d.draw(context.Background(), s.State())

	if !strings.Contains(term.String(), " 1  R  N  B  Q  K  B  N  R  1") {
		t.Fatalf("terminal output:\n%s", term.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("snapshot not written: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("snapshot is not a PNG: %v", err)
	}
}
