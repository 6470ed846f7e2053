package board

import (
	"errors"
	"fmt"
)

// Size is the number of files and ranks.
const Size = 8

var ErrOutOfBounds = errors.New("coordinate out of bounds")

// Color identifies a chess side.
type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) String() string {
	if c == Black {
		return "black"
	}
	return "white"
}

// Opponent returns the other side.
func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// Kind is a piece type. The zero value marks an empty cell.
type Kind uint8

const (
	NoKind Kind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

func (k Kind) String() string {
	switch k {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return "none"
	}
}

// Letter is the FEN letter of the kind, upper case.
func (k Kind) Letter() byte {
	switch k {
	case Pawn:
		return 'P'
	case Knight:
		return 'N'
	case Bishop:
		return 'B'
	case Rook:
		return 'R'
	case Queen:
		return 'Q'
	case King:
		return 'K'
	default:
		return ' '
	}
}

// Piece is the placeholder held by a cell: a color and a type.
type Piece struct {
	Color Color
	Kind  Kind
}

// NoPiece is the empty cell value.
var NoPiece = Piece{}

func NewPiece(c Color, k Kind) Piece { return Piece{Color: c, Kind: k} }

func (p Piece) IsZero() bool { return p.Kind == NoKind }

func (p Piece) String() string {
	if p.IsZero() {
		return "empty"
	}
	return p.Color.String() + " " + p.Kind.String()
}

// Coord is a board-relative square. Y grows towards the local player, so
// y=7 is the rank drawn at the bottom.
type Coord struct {
	X, Y int
}

func (c Coord) Valid() bool {
	return c.X >= 0 && c.Y >= 0 && c.X < Size && c.Y < Size
}

func (c Coord) String() string { return fmt.Sprintf("(%d,%d)", c.X, c.Y) }

// Placement pairs a coordinate with the piece standing on it.
type Placement struct {
	At    Coord
	Piece Piece
}

// Board is an 8x8 grid of piece placeholders indexed by Coord.
type Board struct {
	cells [Size][Size]Piece
}

func New() *Board { return &Board{} }

// PieceAt reports the piece on c; ok is false for empty or out-of-range cells.
func (b *Board) PieceAt(c Coord) (Piece, bool) {
	if !c.Valid() {
		return NoPiece, false
	}
	p := b.cells[c.Y][c.X]
	return p, !p.IsZero()
}

// PlacePiece puts p on c, replacing whatever was there.
func (b *Board) PlacePiece(c Coord, p Piece) {
	if !c.Valid() {
		return
	}
	b.cells[c.Y][c.X] = p
}

// RemovePiece empties c and returns its previous occupant.
func (b *Board) RemovePiece(c Coord) (Piece, bool) {
	if !c.Valid() {
		return NoPiece, false
	}
	p := b.cells[c.Y][c.X]
	b.cells[c.Y][c.X] = NoPiece
	return p, !p.IsZero()
}

func (b *Board) Clear() {
	b.cells = [Size][Size]Piece{}
}

// Pieces lists occupied cells in row-major order.
func (b *Board) Pieces() []Placement {
	var out []Placement
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if p := b.cells[y][x]; !p.IsZero() {
				out = append(out, Placement{At: Coord{X: x, Y: y}, Piece: p})
			}
		}
	}
	return out
}

// AllCoords returns the 64 coordinates in row-major order.
func AllCoords() []Coord {
	out := make([]Coord, 0, Size*Size)
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			out = append(out, Coord{X: x, Y: y})
		}
	}
	return out
}
