// Provides the minimal board model consumed by the renderers:
// board dimensions, per square occupant lookup and the
// algebraic naming of squares.
package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrInvalidSquare is returned when a square name can't be decoded.
var ErrInvalidSquare = errors.New("invalid square name")

// Color is the side owning a piece.
type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// Piece is identified by its symbol, whose case encodes the side
// (uppercase for white). A leading 'p' marks a promoted piece.
type Piece struct {
	Symbol string
	Color  Color
}

// NewPiece infers the color from the case of the last
// character of `symbol`.
func NewPiece(symbol string) Piece {
	p := Piece{Symbol: symbol, Color: Black}
	if symbol == "" {
		return p
	}
	last := []rune(symbol)
	if unicode.IsUpper(last[len(last)-1]) {
		p.Color = White
	}
	return p
}

// ID is the identifier of the theme fragment drawing the piece.
func (p Piece) ID() string {
	return p.Color.String() + "-" + p.Symbol + "-piece"
}

// Square is a zero-based (file, rank) pair. Rank 0 is the
// bottom row, as seen from the white side.
type Square struct {
	File, Rank int
}

// ParseSquare decodes an algebraic name such as "e4" or "j10".
func ParseSquare(name string) (Square, error) {
	if len(name) < 2 || name[0] < 'a' || name[0] > 'z' {
		return Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, name)
	}
	rank, err := strconv.Atoi(name[1:])
	if err != nil || rank < 1 {
		return Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, name)
	}
	return Square{File: int(name[0] - 'a'), Rank: rank - 1}, nil
}

// MustSquare is like ParseSquare but panics on invalid input.
func MustSquare(name string) Square {
	s, err := ParseSquare(name)
	if err != nil {
		panic(err)
	}
	return s
}

func (s Square) String() string {
	return string(rune('a'+s.File)) + strconv.Itoa(s.Rank+1)
}

// Cell returns the grid cell (row 0 at the top) of the square
// on a board with `rows` rows.
func (s Square) Cell(rows int) (row, col int) {
	return rows - s.Rank - 1, s.File
}

// Mirror reflects the square through the center of a rows x cols board.
func (s Square) Mirror(rows, cols int) Square {
	return Square{File: cols - 1 - s.File, Rank: rows - 1 - s.Rank}
}

// Move is a pair of origin and destination squares.
type Move struct {
	From, To Square
}

// ParseMove decodes a move written as two concatenated square
// names, such as "e2e4" or "a10a9". A '-' between them is accepted.
func ParseMove(s string) (Move, error) {
	s = strings.ReplaceAll(s, "-", "")
	// the destination starts at the second letter
	split := -1
	if len(s) > 1 {
		split = strings.IndexFunc(s[1:], unicode.IsLetter)
	}
	if split < 0 {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	split++
	from, err := ParseSquare(s[:split])
	if err != nil {
		return Move{}, err
	}
	to, err := ParseSquare(s[split:])
	if err != nil {
		return Move{}, err
	}
	return Move{From: from, To: to}, nil
}

// Board is the position to render. Row 0 is the top row
// (highest rank), col 0 the first file.
type Board interface {
	Rows() int
	Cols() int
	PieceAt(row, col int) (Piece, bool)
}

// Grid is a slice backed Board.
type Grid struct {
	rows, cols int
	cells      []*Piece
}

var _ Board = (*Grid)(nil) // assert interface conformance

// NewGrid returns an empty board.
func NewGrid(rows, cols int) *Grid {
	return &Grid{rows: rows, cols: cols, cells: make([]*Piece, rows*cols)}
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

func (g *Grid) PieceAt(row, col int) (Piece, bool) {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return Piece{}, false
	}
	p := g.cells[row*g.cols+col]
	if p == nil {
		return Piece{}, false
	}
	return *p, true
}

// Set places `p` on the given cell, replacing any occupant.
func (g *Grid) Set(row, col int, p Piece) {
	g.cells[row*g.cols+col] = &p
}

// SetSquare places `p` on the named square.
func (g *Grid) SetSquare(s Square, p Piece) {
	row, col := s.Cell(g.rows)
	g.Set(row, col, p)
}
