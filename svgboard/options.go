package svgboard

import (
	"strconv"

	"github.com/benoitkugler/boardsvg/board"
	"github.com/benoitkugler/boardsvg/svgarrow"
	"github.com/benoitkugler/boardsvg/svgcolor"
)

// Options customizes a board rendering. The zero value draws
// a plain board seen from the white side.
type Options struct {
	// Orientation is the side shown at the bottom of the board.
	Orientation board.Color
	// Flipped reverses Orientation.
	Flipped bool

	Check    *board.Square // optional square in check, drawn with a red halo
	LastMove *board.Move   // optional move, drawn with the "lastmove" squares

	// Squares are marked with a cross.
	Squares []board.Square
	Arrows  []svgarrow.Arrow

	// Width and Height are written as attributes of the root
	// element when positive.
	Width, Height int

	// Colors overrides the color slots, both in the inline
	// style block and for the arrows.
	Colors svgcolor.Scheme

	Coordinates bool
	Borders     bool
	Labels      Labels // zero value means Algebraic

	// Background is the name of an image under images/board,
	// replacing the checkerboard.
	Background string
}

// orientation is true when rows and cols are used as is.
func (o Options) orientation() bool {
	return (o.Orientation == board.White) != o.Flipped
}

// Labels names the files and the ranks of the board.
// `index` is zero based, starting from the left file (resp. top rank).
type Labels struct {
	File func(index, cols int) string
	Rank func(index, rows int) string
}

var (
	// Algebraic uses letters for files, and numbers from the bottom for ranks.
	Algebraic = Labels{
		File: func(index, _ int) string { return string(rune('a' + index)) },
		Rank: func(index, rows int) string { return strconv.Itoa(rows - index) },
	}

	// Shogi numbers the files from the right, and uses letters
	// from the top for ranks.
	Shogi = Labels{
		File: func(index, cols int) string { return strconv.Itoa(cols - index) },
		Rank: func(index, _ int) string { return string(rune('a' + index)) },
	}

	// Numeric numbers both files and ranks from the bottom left corner.
	Numeric = Labels{
		File: func(index, _ int) string { return strconv.Itoa(index + 1) },
		Rank: func(index, rows int) string { return strconv.Itoa(rows - index) },
	}
)

// LabelStyles lists the available label styles by name.
var LabelStyles = map[string]Labels{
	"algebraic": Algebraic,
	"shogi":     Shogi,
	"numeric":   Numeric,
}

func (l Labels) orDefault() Labels {
	if l.File == nil {
		l.File = Algebraic.File
	}
	if l.Rank == nil {
		l.Rank = Algebraic.Rank
	}
	return l
}
