package board

import (
	"errors"
	"fmt"
)

var ErrInvalidNotation = errors.New("invalid square notation")

// ToNotation converts a board-relative coordinate into the absolute square
// name the server speaks. White sees rank 1 at the bottom, so only the y
// axis flips; Black sees file a on the right, so only the x axis flips.
// Out-of-range coordinates yield "".
func ToNotation(c Coord, local Color) string {
	if !c.Valid() {
		return ""
	}
	file, rank := c.X, Size-1-c.Y
	if local == Black {
		file, rank = Size-1-c.X, c.Y
	}
	return string([]byte{byte('a' + file), byte('1' + rank)})
}

// FromNotation is the inverse of ToNotation. s must be exactly a file
// letter a-h followed by a rank digit 1-8.
func FromNotation(s string, local Color) (Coord, error) {
	if len(s) != 2 {
		return Coord{}, fmt.Errorf("%w: %q", ErrInvalidNotation, s)
	}
	if s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return Coord{}, fmt.Errorf("%w: %q", ErrInvalidNotation, s)
	}
	file := int(s[0] - 'a')
	rank := int(s[1] - '1')
	if local == Black {
		return Coord{X: Size - 1 - file, Y: rank}, nil
	}
	return Coord{X: file, Y: Size - 1 - rank}, nil
}
