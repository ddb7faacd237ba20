// Maps board squares to pixel positions in the rendered document,
// taking the orientation, the coordinates margin and the borders
// into account.
package svggeom

import (
	"math"
	"strconv"

	"github.com/benoitkugler/boardsvg/board"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/f64"
)

// SquareSize is the side of one square, in user units.
// Piece artwork is rescaled to this width.
const SquareSize = 45.

// Margin is the room left around the board for coordinate labels.
const Margin = 15.

// Geometry describes the placement of a rows x cols grid.
type Geometry struct {
	Rows, Cols int

	// Orientation true means rows and cols are used as is,
	// false mirrors both.
	Orientation bool

	Margin, InnerBorder, OuterBorder float64
}

// New returns the geometry of a board. `orientation` must already
// account for a flipped view.
func New(rows, cols int, orientation, coordinates, borders bool) Geometry {
	g := Geometry{Rows: rows, Cols: cols, Orientation: orientation}
	if coordinates {
		g.Margin = Margin
	}
	if borders {
		g.OuterBorder = 1
		if coordinates {
			g.InnerBorder = 1
		}
	}
	return g
}

// BoardSize returns the size of the grid itself, without margin.
func (g Geometry) BoardSize() (w, h float64) {
	return float64(g.Cols) * SquareSize, float64(g.Rows) * SquareSize
}

// ViewBox returns the size of the whole document.
func (g Geometry) ViewBox() (w, h float64) {
	w, h = g.BoardSize()
	return w + 2*g.Margin, h + 2*g.Margin
}

// Display returns the grid cell shown at the (row, col) position.
func (g Geometry) Display(row, col int) (displayRow, displayCol int) {
	if g.Orientation {
		return row, col
	}
	return g.Rows - row - 1, g.Cols - col - 1
}

// CellOrigin returns the top left corner of the (row, col) position.
func (g Geometry) CellOrigin(row, col int) (x, y float64) {
	return g.Margin + float64(col)*SquareSize, g.Margin + float64(row)*SquareSize
}

// DisplayCell returns the grid cell holding `s`, in the same space
// as the one returned by Display, so that membership tests
// follow the visual position whatever the orientation.
func (g Geometry) DisplayCell(s board.Square) (row, col int) {
	return s.Cell(g.Rows)
}

func (g Geometry) offset() float64 {
	return g.OuterBorder + g.Margin + g.InnerBorder
}

// ToPixel returns the top left corner of `s`.
func (g Geometry) ToPixel(s board.Square) f64.Vec2 {
	off := g.offset()
	if g.Orientation {
		return f64.Vec2{
			off + float64(s.File)*SquareSize,
			off + float64(g.Rows-1-s.Rank)*SquareSize,
		}
	}
	return f64.Vec2{
		off + float64(g.Cols-1-s.File)*SquareSize,
		off + float64(s.Rank)*SquareSize,
	}
}

// Anchor returns the center of `s`, used for arrows.
func (g Geometry) Anchor(s board.Square) f64.Vec2 {
	off := g.offset()
	if g.Orientation {
		return f64.Vec2{
			off + (float64(s.File)+0.5)*SquareSize,
			off + (float64(g.Rows)-0.5-float64(s.Rank))*SquareSize,
		}
	}
	return f64.Vec2{
		off + (float64(g.Cols)-0.5-float64(s.File))*SquareSize,
		off + (float64(s.Rank)+0.5)*SquareSize,
	}
}

// Sub returns a - b.
func Sub(a, b f64.Vec2) f64.Vec2 { return f64.Vec2{a[0] - b[0], a[1] - b[1]} }

// Add returns a + b.
func Add(a, b f64.Vec2) f64.Vec2 { return f64.Vec2{a[0] + b[0], a[1] + b[1]} }

// Scale returns k * a.
func Scale(a f64.Vec2, k float64) f64.Vec2 { return f64.Vec2{k * a[0], k * a[1]} }

// Norm returns the euclidean length of a.
func Norm(a f64.Vec2) float64 { return math.Hypot(a[0], a[1]) }

// Fmt formats a coordinate with the shortest exact representation.
func Fmt(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// Transform is an affine transformation, as found in a SVG
// transform attribute.
type Transform rasterx.Matrix2D

// Identity is the neutral transformation.
var Identity = Transform(rasterx.Identity)

// Translate returns t followed (in user space) by a translation.
func (t Transform) Translate(x, y float64) Transform {
	return Transform(rasterx.Matrix2D(t).Translate(x, y))
}

// Scale returns t followed (in user space) by a scaling.
func (t Transform) Scale(x, y float64) Transform {
	return Transform(rasterx.Matrix2D(t).Scale(x, y))
}

// Apply maps a point through t.
func (t Transform) Apply(p f64.Vec2) f64.Vec2 {
	x, y := rasterx.Matrix2D(t).Transform(p[0], p[1])
	return f64.Vec2{x, y}
}

// String returns the SVG attribute value. Axis aligned transformations
// are written as "translate(e, f) scale(a, d)", omitting the
// neutral parts. The identity is the empty string.
func (t Transform) String() string {
	if t.B != 0 || t.C != 0 {
		return "matrix(" + Fmt(t.A) + " " + Fmt(t.B) + " " + Fmt(t.C) + " " +
			Fmt(t.D) + " " + Fmt(t.E) + " " + Fmt(t.F) + ")"
	}
	var out string
	if t.E != 0 || t.F != 0 {
		out = "translate(" + Fmt(t.E) + ", " + Fmt(t.F) + ")"
	}
	if t.A != 1 || t.D != 1 {
		if out != "" {
			out += " "
		}
		out += "scale(" + Fmt(t.A) + ", " + Fmt(t.D) + ")"
	}
	return out
}
