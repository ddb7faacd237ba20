// Renders a board position as a standalone SVG document, using the
// piece artwork of a theme: checkerboard or background image,
// coordinates, last move, highlighted squares, check and arrows.
package svgboard

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strconv"

	"github.com/benoitkugler/boardsvg/board"
	"github.com/benoitkugler/boardsvg/svgarrow"
	"github.com/benoitkugler/boardsvg/svgcolor"
	"github.com/benoitkugler/boardsvg/svgdoc"
	"github.com/benoitkugler/boardsvg/svggeom"
	"github.com/benoitkugler/boardsvg/svgtheme"
)

var (
	// ErrInvalidBoard is returned for boards without rows or cols.
	ErrInvalidBoard = errors.New("invalid board dimensions")
	// ErrMissingPiece is returned by RenderPiece when the theme
	// has no artwork for the piece.
	ErrMissingPiece = errors.New("piece not found in theme")
)

const (
	fontFamily = "Arial, sans-serif"

	highlightID = "xx"
	gradientID  = "check_gradient"
)

// crossMarkup is drawn on highlighted squares.
const crossMarkup = `<g id="xx"><path d="M35.865 9.135a1.89 1.89 0 0 1 0 2.673L25.173 22.5l10.692 10.692a1.89 1.89 0 0 1 0 2.673 1.89 1.89 0 0 1-2.673 0L22.5 25.173 11.808 35.865a1.89 1.89 0 0 1-2.673 0 1.89 1.89 0 0 1 0-2.673L19.827 22.5 9.135 11.808a1.89 1.89 0 0 1 0-2.673 1.89 1.89 0 0 1 2.673 0L22.5 19.827 33.192 9.135a1.89 1.89 0 0 1 2.673 0z" fill="#000" stroke="#fff" stroke-width="1.688"/></g>`

// checkGradient fills the square of a king in check.
func checkGradient() *svgdoc.Node {
	stop := func(offset, color, opacity string) *svgdoc.Node {
		return svgdoc.El("stop", "offset", offset, "stop-color", color, "stop-opacity", opacity)
	}
	return svgdoc.El("radialGradient", "id", gradientID, "r", "0.5").Append(
		stop("0%", "#ff0000", "1.0"),
		stop("50%", "#e70000", "1.0"),
		stop("100%", "#9e0000", "0.0"),
	)
}

// Renderer draws boards, reading background images from
// an asset file system.
type Renderer struct {
	fsys   fs.FS
	logger *log.Logger
}

// NewRenderer returns a renderer reading background images from `fsys`
// (under BackgroundDir). If `logger` is nil, log.Default() is used.
func NewRenderer(fsys fs.FS, logger *log.Logger) *Renderer {
	if logger == nil {
		logger = log.Default()
	}
	return &Renderer{fsys: fsys, logger: logger}
}

// cellSet holds grid cells, in Square.Cell coordinates
type cellSet map[[2]int]bool

func (s cellSet) add(sq board.Square, rows int) {
	row, col := sq.Cell(rows)
	s[[2]int{row, col}] = true
}

func (s cellSet) has(row, col int) bool { return s[[2]int{row, col}] }

func viewBox(w, h float64) string {
	return "0 0 " + svggeom.Fmt(w) + " " + svggeom.Fmt(h)
}

func translate(x, y float64) string {
	return "translate(" + svggeom.Fmt(x) + ", " + svggeom.Fmt(y) + ")"
}

// Render returns the SVG document drawing `b`, with the pieces of `theme`.
// Pieces missing from the theme, as well as a background which can't
// be read, are skipped (the latter being replaced by the checkerboard).
func (r *Renderer) Render(theme *svgtheme.Theme, b board.Board, opts Options) (string, error) {
	if b == nil || b.Rows() <= 0 || b.Cols() <= 0 {
		return "", ErrInvalidBoard
	}
	rows, cols := b.Rows(), b.Cols()
	g := svggeom.New(rows, cols, opts.orientation(), opts.Coordinates, opts.Borders)

	doc := svgdoc.NewDocument(viewBox(g.ViewBox()))
	vw, vh := g.ViewBox()
	if opts.Width > 0 {
		w := float64(opts.Width)
		if opts.Coordinates {
			w = vw
		}
		doc.Set("width", svggeom.Fmt(w))
	}
	if opts.Height > 0 {
		h := float64(opts.Height)
		if opts.Coordinates {
			h = vh
		}
		doc.Set("height", svggeom.Fmt(h))
	}

	if len(opts.Colors) != 0 {
		doc.Append(svgdoc.El("style").Append(svgdoc.TextNode(opts.Colors.CSS())))
	}

	doc.Append(defs(theme, opts))

	renderSquares := true
	if opts.Background != "" {
		bg, err := r.background(opts.Background, g)
		if err != nil {
			r.logger.Printf("ERROR: could not embed background %s: %s", opts.Background, err)
		} else {
			doc.Append(bg)
			renderSquares = false
		}
	}

	if renderSquares {
		doc.Append(squares(g, opts)...)
	}
	if opts.Coordinates {
		doc.Append(labels(g, opts.Labels.orDefault())...)
	}
	doc.Append(pieces(g, theme, b, opts.Check)...)
	for _, a := range opts.Arrows {
		doc.Append(svgarrow.Render(g, a, opts.Colors)...)
	}

	return doc.String(), nil
}

func defs(theme *svgtheme.Theme, opts Options) *svgdoc.Node {
	out := svgdoc.El("defs")
	for _, fragment := range theme.Fragments() {
		out.Append(svgdoc.RawNode(fragment))
	}
	if len(opts.Squares) != 0 {
		out.Append(svgdoc.RawNode(crossMarkup))
	}
	if opts.Check != nil {
		out.Append(checkGradient())
	}
	return out
}

// squares draws the checkerboard, with the last move and the
// highlighted squares.
func squares(g svggeom.Geometry, opts Options) []*svgdoc.Node {
	lastMove, highlighted := cellSet{}, cellSet{}
	if opts.LastMove != nil {
		lastMove.add(opts.LastMove.From, g.Rows)
		lastMove.add(opts.LastMove.To, g.Rows)
	}
	for _, sq := range opts.Squares {
		highlighted.add(sq, g.Rows)
	}

	var out []*svgdoc.Node
	for y := 0; y < g.Rows; y++ {
		for x := 0; x < g.Cols; x++ {
			row, col := g.Display(y, x)
			px, py := g.CellOrigin(y, x)

			class := "square dark"
			if col%2 == row%2 {
				class = "square light"
			}
			if lastMove.has(row, col) {
				class += " lastmove"
			}
			// the checkerboard ignores the color overrides,
			// which are applied by the style block
			fill, _ := svgcolor.DefaultPalette.Lookup(class)

			out = append(out, svgdoc.El("rect",
				"x", svggeom.Fmt(px),
				"y", svggeom.Fmt(py),
				"width", svggeom.Fmt(svggeom.SquareSize),
				"height", svggeom.Fmt(svggeom.SquareSize),
				"class", class,
				"stroke", "none",
				"fill", fill,
			))

			if highlighted.has(row, col) {
				out = append(out, svgdoc.El("use",
					"href", "#"+highlightID,
					"xlink:href", "#"+highlightID,
					"x", svggeom.Fmt(px),
					"y", svggeom.Fmt(py),
				))
			}
		}
	}
	return out
}

// labels draws the coordinates on the four sides of the board.
func labels(g svggeom.Geometry, style Labels) []*svgdoc.Node {
	fontSize := int(g.Margin * 0.9)
	offset := float64(int(float64(fontSize) * 0.65))
	color, _ := svgcolor.DefaultPalette.Lookup("coord")
	half := float64(int(svggeom.SquareSize) / 2)
	bw, bh := g.BoardSize()

	text := func(x, y float64, label string) *svgdoc.Node {
		return svgdoc.El("text",
			"x", svggeom.Fmt(x),
			"y", svggeom.Fmt(y),
			"text-anchor", "middle",
			"dominant-baseline", "middle",
			"font-size", strconv.Itoa(fontSize),
			"font-family", fontFamily,
			"fill", color,
			"opacity", "1.0",
		).Append(svgdoc.TextNode(label))
	}

	var out []*svgdoc.Node
	for file := 0; file < g.Cols; file++ {
		index := file
		if !g.Orientation {
			index = g.Cols - file - 1
		}
		label := style.File(index, g.Cols)
		x := float64(file)*svggeom.SquareSize + g.Margin + half
		for _, y := range [2]float64{offset, g.Margin + bh + offset} {
			out = append(out, text(x, y, label))
		}
	}
	for rank := 0; rank < g.Rows; rank++ {
		index := rank
		if !g.Orientation {
			index = g.Rows - rank - 1
		}
		label := style.Rank(index, g.Rows)
		y := float64(rank)*svggeom.SquareSize + g.Margin + half
		for _, x := range [2]float64{offset, g.Margin + bw + offset} {
			out = append(out, text(x, y, label))
		}
	}
	return out
}

// pieces draws the occupied cells, with the check halo.
func pieces(g svggeom.Geometry, theme *svgtheme.Theme, b board.Board, check *board.Square) []*svgdoc.Node {
	checkRow, checkCol := -1, -1
	if check != nil {
		checkRow, checkCol = check.Cell(g.Rows)
	}

	var out []*svgdoc.Node
	for y := 0; y < g.Rows; y++ {
		for x := 0; x < g.Cols; x++ {
			row, col := g.Display(y, x)
			piece, ok := b.PieceAt(row, col)
			if !ok {
				continue
			}
			px, py := g.CellOrigin(y, x)
			if row == checkRow && col == checkCol {
				out = append(out, svgdoc.El("rect",
					"x", svggeom.Fmt(px),
					"y", svggeom.Fmt(py),
					"width", svggeom.Fmt(svggeom.SquareSize),
					"height", svggeom.Fmt(svggeom.SquareSize),
					"class", "check",
					"fill", "url(#"+gradientID+")",
				))
			}
			if !theme.Has(piece) {
				continue
			}
			out = append(out, svgdoc.El("use",
				"xlink:href", "#"+piece.ID(),
				"transform", translate(px, py),
			))
		}
	}
	return out
}

// RenderPiece returns a document showing one piece of `theme`.
// If `size` is positive, it is used as width and height.
func RenderPiece(theme *svgtheme.Theme, piece board.Piece, size int) (string, error) {
	fragment, _ := theme.Fragment(piece.Symbol)
	if fragment == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingPiece, piece.Symbol)
	}
	doc := svgdoc.NewDocument(viewBox(svggeom.SquareSize, svggeom.SquareSize))
	if size > 0 {
		doc.Set("width", strconv.Itoa(size)).Set("height", strconv.Itoa(size))
	}
	doc.Append(svgdoc.RawNode(fragment))
	return doc.String(), nil
}
