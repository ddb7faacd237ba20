// Computes the SVG elements drawing an arrow between two squares:
// a circle when both ends are the same square, a shaft followed by
// a triangular head otherwise.
package svgarrow

import (
	"strings"

	"github.com/benoitkugler/boardsvg/board"
	"github.com/benoitkugler/boardsvg/svgcolor"
	"github.com/benoitkugler/boardsvg/svgdoc"
	"github.com/benoitkugler/boardsvg/svggeom"
	"golang.org/x/image/math/f64"
)

// DefaultColor is used by arrows without an explicit color.
const DefaultColor = "green"

const (
	circleRadius = 0.93 * svggeom.SquareSize / 2
	circleStroke = 0.07 * svggeom.SquareSize

	markerSize   = 0.75 * svggeom.SquareSize // length of the head
	markerMargin = 0.1 * svggeom.SquareSize  // gap between the tip and the center of the square
	shaftWidth   = 0.2 * svggeom.SquareSize
)

// Arrow is either a PlainArrow or a ColoredArrow.
type Arrow interface {
	resolve() arrow
}

// PlainArrow is drawn with DefaultColor.
type PlainArrow struct {
	Tail, Head board.Square
}

// ColoredArrow is drawn with the "arrow <Color>" slot.
type ColoredArrow struct {
	Tail, Head board.Square
	Color      string // such as "red", or "blue"
}

// arrow is the common shape all variants resolve to.
type arrow struct {
	tail, head board.Square
	color      string
}

func (a PlainArrow) resolve() arrow { return arrow{a.Tail, a.Head, DefaultColor} }

func (a ColoredArrow) resolve() arrow {
	color := a.Color
	if color == "" {
		color = DefaultColor
	}
	return arrow{a.Tail, a.Head, color}
}

// Parse decodes "e2e4" or "e2e4:red" (also accepting a '-' between
// the squares).
func Parse(s string) (Arrow, error) {
	squares, color, hasColor := strings.Cut(s, ":")
	m, err := board.ParseMove(squares)
	if err != nil {
		return nil, err
	}
	if hasColor {
		return ColoredArrow{Tail: m.From, Head: m.To, Color: color}, nil
	}
	return PlainArrow{Tail: m.From, Head: m.To}, nil
}

// Color resolves the color of an arrow, falling back to the raw
// color name, fully opaque, when the slot is unknown.
func Color(name string, scheme svgcolor.Scheme) svgcolor.Color {
	c, err := svgcolor.Resolve("arrow "+name, scheme)
	if err != nil {
		return svgcolor.Opaque(name)
	}
	return c
}

// Render returns the elements drawing `a` on a board laid out by `g`.
func Render(g svggeom.Geometry, a Arrow, scheme svgcolor.Scheme) []*svgdoc.Node {
	ar := a.resolve()
	color := Color(ar.color, scheme)
	tail, head := g.Anchor(ar.tail), g.Anchor(ar.head)

	if ar.head == ar.tail {
		return []*svgdoc.Node{circle(head, color)}
	}
	return shaftAndHead(tail, head, color)
}

func circle(center f64.Vec2, color svgcolor.Color) *svgdoc.Node {
	return svgdoc.El("circle",
		"cx", svggeom.Fmt(center[0]),
		"cy", svggeom.Fmt(center[1]),
		"r", svggeom.Fmt(circleRadius),
		"stroke-width", svggeom.Fmt(circleStroke),
		"stroke", color.Literal,
	).Set("opacity", color.OpacityAttr()).
		Set("fill", "none").
		Set("class", "circle")
}

func shaftAndHead(tail, head f64.Vec2, color svgcolor.Color) []*svgdoc.Node {
	d := svggeom.Sub(head, tail)
	hypot := svggeom.Norm(d)

	shaftEnd := svggeom.Sub(head, svggeom.Scale(d, (markerSize+markerMargin)/hypot))
	tip := svggeom.Sub(head, svggeom.Scale(d, markerMargin/hypot))

	line := svgdoc.El("line",
		"x1", svggeom.Fmt(tail[0]),
		"y1", svggeom.Fmt(tail[1]),
		"x2", svggeom.Fmt(shaftEnd[0]),
		"y2", svggeom.Fmt(shaftEnd[1]),
		"stroke", color.Literal,
	).Set("opacity", color.OpacityAttr()).
		Set("stroke-width", svggeom.Fmt(shaftWidth)).
		Set("stroke-linecap", "butt").
		Set("class", "arrow")

	// half base of the head, along the normal (dy, -dx)
	normal := svggeom.Scale(f64.Vec2{d[1], -d[0]}, 0.5*markerSize/hypot)
	marker := [3]f64.Vec2{
		tip,
		svggeom.Add(shaftEnd, normal),
		svggeom.Sub(shaftEnd, normal),
	}
	points := make([]string, len(marker))
	for i, p := range marker {
		points[i] = svggeom.Fmt(p[0]) + "," + svggeom.Fmt(p[1])
	}
	polygon := svgdoc.El("polygon",
		"points", strings.Join(points, " "),
		"fill", color.Literal,
	).Set("opacity", color.OpacityAttr()).
		Set("class", "arrow")

	return []*svgdoc.Node{line, polygon}
}
