package board

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPlaceRemove(t *testing.T) {
	b := New()
	at := Coord{2, 3}
	if _, ok := b.PieceAt(at); ok {
		t.Fatalf("new board should be empty at %v", at)
	}
	b.PlacePiece(at, NewPiece(Black, Knight))
	p, ok := b.PieceAt(at)
	if !ok || p != NewPiece(Black, Knight) {
		t.Fatalf("PieceAt = %v,%v", p, ok)
	}
	old, ok := b.RemovePiece(at)
	if !ok || old.Kind != Knight {
		t.Fatalf("RemovePiece = %v,%v", old, ok)
	}
	if _, ok := b.RemovePiece(at); ok {
		t.Fatalf("second RemovePiece should report empty")
	}
}

func TestOutOfRangeCellsAreInert(t *testing.T) {
	b := New()
	b.PlacePiece(Coord{8, 0}, NewPiece(White, Queen))
	if len(b.Pieces()) != 0 {
		t.Fatalf("out-of-range placement must be ignored")
	}
	if _, ok := b.PieceAt(Coord{-1, -1}); ok {
		t.Fatalf("out-of-range cell reported occupied")
	}
}

func TestOpeningLayoutWhite(t *testing.T) {
	b := New()
	for _, pl := range OpeningLayout(White) {
		b.PlacePiece(pl.At, pl.Piece)
	}
	if n := len(b.Pieces()); n != 32 {
		t.Fatalf("expected 32 pieces, got %d", n)
	}
	home := []Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	var gotNear, gotFar []Kind
	for x := 0; x < Size; x++ {
		near, _ := b.PieceAt(Coord{x, 7})
		far, _ := b.PieceAt(Coord{x, 0})
		if near.Color != White || far.Color != Black {
			t.Fatalf("column %d: near=%v far=%v", x, near, far)
		}
		gotNear = append(gotNear, near.Kind)
		gotFar = append(gotFar, far.Kind)
		if p, _ := b.PieceAt(Coord{x, 6}); p != NewPiece(White, Pawn) {
			t.Fatalf("expected white pawn at (%d,6), got %v", x, p)
		}
		if p, _ := b.PieceAt(Coord{x, 1}); p != NewPiece(Black, Pawn) {
			t.Fatalf("expected black pawn at (%d,1), got %v", x, p)
		}
	}
	if diff := cmp.Diff(home, gotNear); diff != "" {
		t.Fatalf("white home row mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(home, gotFar); diff != "" {
		t.Fatalf("black home row mismatch (-want +got):\n%s", diff)
	}
}

func TestOpeningLayoutBlackIsMirrored(t *testing.T) {
	b := New()
	for _, pl := range OpeningLayout(Black) {
		b.PlacePiece(pl.At, pl.Piece)
	}
	want := []Kind{Rook, Knight, Bishop, King, Queen, Bishop, Knight, Rook}
	var got []Kind
	for x := 0; x < Size; x++ {
		p, ok := b.PieceAt(Coord{x, 7})
		if !ok || p.Color != Black {
			t.Fatalf("expected black piece at (%d,7), got %v", x, p)
		}
		got = append(got, p.Kind)
		if p, _ := b.PieceAt(Coord{x, 1}); p != NewPiece(White, Pawn) {
			t.Fatalf("expected white pawn at (%d,1), got %v", x, p)
		}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("black home row mismatch (-want +got):\n%s", diff)
	}
}
