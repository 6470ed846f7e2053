// Package snapshot renders the client's board view to PNG.
package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"strings"

	"github.com/park285/chess-client/internal/board"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Highlight marks the most recent move with an arrow.
type Highlight struct {
	From board.Coord
	To   board.Coord
}

type Options struct {
	// Local is the color the board is drawn for; it decides the labels.
	Local    board.Color
	Selected []board.Coord
	LastMove *Highlight
	Caption  string
}

// Renderer draws board views. The zero value is ready to use.
type Renderer struct {
	SquareSize int
}

func NewRenderer() *Renderer { return &Renderer{SquareSize: 64} }

const (
	sideMargin    = 28
	topMargin     = 64
	bottomMargin  = 28
	captionHeight = 32
	panelRadius   = 10
	captionPadX   = 20
	shadowOffsetY = 4
)

var (
	lightSquare         = color.RGBA{233, 207, 163, 255}
	darkSquare          = color.RGBA{187, 136, 96, 255}
	backgroundColor     = color.RGBA{20, 22, 33, 255}
	selectedFill        = color.NRGBA{R: 255, G: 228, B: 120, A: 150}
	lastMoveArrow       = color.NRGBA{R: 148, G: 207, B: 255, A: 170}
	panelColor          = color.NRGBA{R: 28, G: 31, B: 46, A: 250}
	panelShadowColor    = color.NRGBA{0, 0, 0, 50}
	panelTextColor      = color.NRGBA{R: 236, G: 239, B: 255, A: 255}
	coordinateTextColor = color.NRGBA{R: 8, G: 214, B: 120, A: 255}
)

// RenderPNG draws b as seen by opts.Local and encodes it as PNG.
func (r *Renderer) RenderPNG(ctx context.Context, b *board.Board, opts Options) ([]byte, error) {
	if b == nil {
		return nil, errors.New("board is nil")
	}
	squareSize := r.SquareSize
	if squareSize <= 0 {
		squareSize = 64
	}

	boardSize := squareSize * board.Size
	origin := image.Point{X: sideMargin, Y: topMargin}
	boardRect := image.Rect(origin.X, origin.Y, origin.X+boardSize, origin.Y+boardSize)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	img := image.NewRGBA(image.Rect(0, 0, boardSize+sideMargin*2, boardSize+topMargin+bottomMargin))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, imagedraw.Src)

	drawCaption(img, opts.Caption, boardRect)
	drawSquares(img, squareSize, origin)
	for _, c := range opts.Selected {
		if c.Valid() {
			drawSquareOverlay(img, squareRect(c, squareSize, origin), selectedFill)
		}
	}
	if err := drawPieces(img, b, squareSize, origin); err != nil {
		return nil, err
	}
	if hl := opts.LastMove; hl != nil && hl.From.Valid() && hl.To.Valid() {
		drawArrow(img, squareRect(hl.From, squareSize, origin), squareRect(hl.To, squareSize, origin), squareSize, lastMoveArrow)
	}
	drawCoordinates(img, opts.Local, squareSize, origin)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return pngBuf.Bytes(), nil
}

func drawSquares(dst imagedraw.Image, squareSize int, origin image.Point) {
	for _, c := range board.AllCoords() {
		clr := darkSquare
		if (c.X+c.Y)%2 == 0 {
			clr = lightSquare
		}
		imagedraw.Draw(dst, squareRect(c, squareSize, origin), image.NewUniform(clr), image.Point{}, imagedraw.Src)
	}
}

func drawPieces(dst imagedraw.Image, b *board.Board, squareSize int, origin image.Point) error {
	for _, pl := range b.Pieces() {
		img, err := renderPieceImage(pl.Piece, squareSize)
		if err != nil {
			return err
		}
		imagedraw.Draw(dst, squareRect(pl.At, squareSize, origin), img, image.Point{}, imagedraw.Over)
	}
	return nil
}

func drawCaption(img *image.RGBA, caption string, boardRect image.Rectangle) {
	caption = strings.TrimSpace(caption)
	if caption == "" {
		return
	}
	face := basicfont.Face7x13
	drawer := &font.Drawer{Dst: img, Face: face}

	width := drawer.MeasureString(caption).Round() + captionPadX*2
	if width > boardRect.Dx() {
		width = boardRect.Dx()
	}
	bottom := boardRect.Min.Y - 16
	left := boardRect.Min.X + (boardRect.Dx()-width)/2
	rect := image.Rect(left, bottom-captionHeight, left+width, bottom)

	drawRoundedPanel(img, rect.Add(image.Pt(0, shadowOffsetY)), panelRadius, panelShadowColor)
	drawRoundedPanel(img, rect, panelRadius, panelColor)
	caption = truncateWithEllipsis(face, caption, rect.Dx()-captionPadX*2)
	drawCenteredString(drawer, rect, caption, panelTextColor)
}

// drawCoordinates labels files below and ranks left of the board, as named
// for the local color.
func drawCoordinates(dst imagedraw.Image, local board.Color, squareSize int, origin image.Point) {
	face := basicfont.Face7x13
	drawer := &font.Drawer{Dst: dst, Face: face, Src: image.NewUniform(coordinateTextColor)}
	ascent := face.Metrics().Ascent.Ceil()
	boardEndY := origin.Y + board.Size*squareSize

	for i := 0; i < board.Size; i++ {
		file := board.ToNotation(board.Coord{X: i, Y: board.Size - 1}, local)[:1]
		rank := board.ToNotation(board.Coord{X: 0, Y: i}, local)[1:]

		fileCenter := origin.X + i*squareSize + squareSize/2
		drawCenteredText(drawer, file, fileCenter, boardEndY+ascent+4)

		rankCenter := origin.Y + i*squareSize + squareSize/2
		drawCenteredText(drawer, rank, origin.X-sideMargin/2, rankCenter+ascent/2)
	}
}

func squareRect(c board.Coord, squareSize int, origin image.Point) image.Rectangle {
	x := origin.X + c.X*squareSize
	y := origin.Y + c.Y*squareSize
	return image.Rect(x, y, x+squareSize, y+squareSize)
}

func drawSquareOverlay(img *image.RGBA, rect image.Rectangle, clr color.Color) {
	imagedraw.Draw(img, rect, image.NewUniform(clr), image.Point{}, imagedraw.Over)
}

func truncateWithEllipsis(face font.Face, text string, maxWidth int) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || maxWidth <= 0 || face == nil {
		return trimmed
	}

	drawer := font.Drawer{Face: face}
	if drawer.MeasureString(trimmed).Round() <= maxWidth {
		return trimmed
	}

	ellipsis := "..."
	if drawer.MeasureString(ellipsis).Round() > maxWidth {
		return ""
	}
	runes := []rune(trimmed)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + ellipsis
		if drawer.MeasureString(candidate).Round() <= maxWidth {
			return candidate
		}
	}
	return ellipsis
}

func drawCenteredString(drawer *font.Drawer, rect image.Rectangle, text string, clr color.Color) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	metrics := drawer.Face.Metrics()
	width := drawer.MeasureString(text).Round()
	x := rect.Min.X + (rect.Dx()-width)/2
	if x < rect.Min.X {
		x = rect.Min.X
	}
	baseline := rect.Min.Y + (rect.Dy()+metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2
	drawer.Src = image.NewUniform(clr)
	drawer.Dot = fixed.P(x, baseline)
	drawer.DrawString(text)
}

func drawCenteredText(drawer *font.Drawer, text string, centerX, baseline int) {
	if text == "" {
		return
	}
	width := drawer.MeasureString(text).Round()
	drawer.Dot = fixed.P(centerX-width/2, baseline)
	drawer.DrawString(text)
}
