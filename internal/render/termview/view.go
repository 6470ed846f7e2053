// Package termview draws the client's board as text on a terminal.
package termview

import (
	"bufio"
	"fmt"
	"io"

	"github.com/park285/chess-client/internal/board"
	"github.com/park285/chess-client/internal/client"
	"github.com/park285/chess-client/internal/msgcat"
)

// View is a client.View backed by a board.Board. It is not safe for
// concurrent use; the client loop owns it.
type View struct {
	*board.Board
	selected [board.Size][board.Size]bool
	notice   string
	msgs     client.Messages
}

var _ client.View = (*View)(nil)

// New returns an empty view. msgs renders prompts; nil prints catalog keys.
func New(msgs client.Messages) *View {
	return &View{Board: board.New(), msgs: msgs}
}

func (v *View) MarkSelected(c board.Coord) {
	if c.Valid() {
		v.selected[c.Y][c.X] = true
	}
}

func (v *View) ClearSelected(c board.Coord) {
	if c.Valid() {
		v.selected[c.Y][c.X] = false
	}
}

func (v *View) Notify(message string) { v.notice = message }
func (v *View) ClearNotice()          { v.notice = "" }

// Notice is the message currently on display.
func (v *View) Notice() string { return v.notice }

func (v *View) IsSelected(c board.Coord) bool {
	return c.Valid() && v.selected[c.Y][c.X]
}

// Selected lists the marked squares in row-major order.
func (v *View) Selected() []board.Coord {
	var out []board.Coord
	for _, c := range board.AllCoords() {
		if v.selected[c.Y][c.X] {
			out = append(out, c)
		}
	}
	return out
}

// Draw prints the grid as the local player sees it, followed by the
// current notice and a prompt for st.
func (v *View) Draw(w io.Writer, st client.State) error {
	bw := bufio.NewWriter(w)

	files := fileLabels(st.Color)
	bw.WriteString("\n   ")
	bw.WriteString(files)
	bw.WriteString("\n")
	for y := 0; y < board.Size; y++ {
		rank := board.ToNotation(board.Coord{X: 0, Y: y}, st.Color)[1:]
		fmt.Fprintf(bw, " %s ", rank)
		for x := 0; x < board.Size; x++ {
			bw.WriteString(v.cell(board.Coord{X: x, Y: y}))
		}
		fmt.Fprintf(bw, " %s\n", rank)
	}
	bw.WriteString("   ")
	bw.WriteString(files)
	bw.WriteString("\n")

	if v.notice != "" {
		fmt.Fprintf(bw, "%s\n", v.notice)
	}
	fmt.Fprintf(bw, "%s\n", v.Prompt(st))
	return bw.Flush()
}

// Prompt describes what the local player can do next.
func (v *View) Prompt(st client.State) string {
	key, data := promptFor(st)
	if v.msgs == nil {
		return key
	}
	return v.msgs.Text(key, data)
}

func (v *View) cell(c board.Coord) string {
	glyph := byte('.')
	if p, ok := v.PieceAt(c); ok {
		glyph = pieceGlyph(p)
	}
	if v.selected[c.Y][c.X] {
		return "[" + string(glyph) + "]"
	}
	return " " + string(glyph) + " "
}

// pieceGlyph is the FEN letter: upper case for white, lower case for black.
func pieceGlyph(p board.Piece) byte {
	l := p.Kind.Letter()
	if p.Color == board.Black {
		l += 'a' - 'A'
	}
	return l
}

func fileLabels(local board.Color) string {
	buf := make([]byte, 0, board.Size*3)
	for x := 0; x < board.Size; x++ {
		name := board.ToNotation(board.Coord{X: x, Y: board.Size - 1}, local)
		buf = append(buf, ' ', name[0], ' ')
	}
	return string(buf)
}

func promptFor(st client.State) (string, any) {
	switch {
	case !st.Started:
		return msgcat.PromptWaitingForGame, nil
	case st.Ended:
		return msgcat.PromptGameOver, nil
	}
	switch sel := st.Selection.(type) {
	case client.PendingConfirmation:
		return msgcat.PromptPending, map[string]any{
			"From": board.ToNotation(sel.Origin, st.Color),
			"To":   board.ToNotation(sel.Destination, st.Color),
		}
	case client.UnitSelected:
		return msgcat.PromptSelected, map[string]any{"Square": board.ToNotation(sel.Origin, st.Color)}
	}
	if st.InTurn {
		return msgcat.PromptYourTurn, map[string]any{"Color": st.Color.String()}
	}
	return msgcat.PromptOpponentTurn, nil
}
