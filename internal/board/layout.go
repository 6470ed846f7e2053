package board

import (
	"sort"

	nchess "github.com/corentings/chess/v2"
)

// OpeningLayout returns the standard starting position oriented for the
// local side: its pawns on y=6 and its home row on y=7.
func OpeningLayout(local Color) []Placement {
	squares := nchess.NewGame().Position().Board().SquareMap()
	out := make([]Placement, 0, len(squares))
	for sq, p := range squares {
		if p == nchess.NoPiece {
			continue
		}
		at, err := FromNotation(sq.String(), local)
		if err != nil {
			// every square name produced by the library is valid
			continue
		}
		out = append(out, Placement{At: at, Piece: fromLibraryPiece(p)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].At.Y != out[j].At.Y {
			return out[i].At.Y < out[j].At.Y
		}
		return out[i].At.X < out[j].At.X
	})
	return out
}

func fromLibraryPiece(p nchess.Piece) Piece {
	c := White
	if p.Color() == nchess.Black {
		c = Black
	}
	var k Kind
	switch p.Type() {
	case nchess.Pawn:
		k = Pawn
	case nchess.Knight:
		k = Knight
	case nchess.Bishop:
		k = Bishop
	case nchess.Rook:
		k = Rook
	case nchess.Queen:
		k = Queen
	case nchess.King:
		k = King
	}
	return NewPiece(c, k)
}
