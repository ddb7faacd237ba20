package svgboard

import (
	"bytes"
	"encoding/xml"
	"errors"
	"log"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/benoitkugler/boardsvg/board"
	"github.com/benoitkugler/boardsvg/svgarrow"
	"github.com/benoitkugler/boardsvg/svgcolor"
	"github.com/benoitkugler/boardsvg/svgdoc"
	"github.com/benoitkugler/boardsvg/svgtheme"
)

const pieceSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 45 45"><circle cx="22.5" cy="22.5" r="10"/></svg>`

// as saved by Inkscape, with prefixed attributes
const inkSVG = `<svg xmlns="http://www.w3.org/2000/svg" xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape" viewBox="0 0 90 90">` +
	`<g inkscape:label="Layer 1" inkscape:groupmode="layer"><rect width="90" height="90"/></g></svg>`

// the white queen artwork is missing
var assets = fstest.MapFS{
	"piece/t.css": {Data: []byte(`
piece.k-piece.white { background-image: url('../images/pieces/t/wK.svg'); }
piece.k-piece.black { background-image: url('../images/pieces/t/bK.svg'); }
piece.q-piece.white { background-image: url('../images/pieces/t/wQ.svg'); }
`)},
	"images/pieces/t/wK.svg": {Data: []byte(pieceSVG)},
	"images/pieces/t/bK.svg": {Data: []byte(pieceSVG)},
	"images/board/wood.svg":  {Data: []byte(`<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg" width="720px" height="720"><rect width="720" height="720" fill="#a0522d"/></svg>`)},
	"images/board/plain.svg": {Data: []byte(`<svg xmlns="http://www.w3.org/2000/svg"><rect width="10" height="10"/></svg>`)},
	"images/board/group.svg": {Data: []byte(`<g><rect width="10" height="10"/></g>`)},
	"images/board/bad.svg":   {Data: []byte(`<svg><g></svg>`)},
	"images/board/ink.svg":   {Data: []byte(inkSVG)},
	"images/board/wood.png":  {Data: []byte("\x89PNG")},
	"images/board/wood.bmp":  {Data: []byte("\x89PNG")},
}

type fixture struct {
	renderer *Renderer
	theme    *svgtheme.Theme
	logs     *bytes.Buffer
}

func newFixture() fixture {
	var logs bytes.Buffer
	logger := log.New(&logs, "", 0)
	theme := svgtheme.NewRegistry(assets, logger).Populate("t")
	return fixture{renderer: NewRenderer(assets, logger), theme: theme, logs: &logs}
}

const position = "4k3/8/8/8/8/8/8/4K2Q w - - 0 1"

func (f fixture) render(t *testing.T, opts Options) *svgdoc.Node {
	t.Helper()
	b, err := board.ParseFEN(position)
	if err != nil {
		t.Fatal(err)
	}
	out, err := f.renderer.Render(f.theme, b, opts)
	if err != nil {
		t.Fatal(err)
	}
	root, err := svgdoc.Parse(strings.NewReader(out), svgdoc.StrictErrorMode)
	if err != nil {
		t.Fatalf("invalid output %s: %s", out, err)
	}
	return root
}

func attr(n *svgdoc.Node, name string) string {
	v, _ := n.Get(name)
	return v
}

func withClass(root *svgdoc.Node, tag, class string) []*svgdoc.Node {
	var out []*svgdoc.Node
	for _, n := range root.Find(tag) {
		if strings.Contains(attr(n, "class"), class) {
			out = append(out, n)
		}
	}
	return out
}

func TestDocument(t *testing.T) {
	f := newFixture()
	root := f.render(t, Options{})

	if attr(root, "xmlns") != svgdoc.NamespaceSVG || attr(root, "xmlns:xlink") != svgdoc.NamespaceXLink {
		t.Errorf("missing namespaces: %v", root.Attrs)
	}
	if vb := attr(root, "viewBox"); vb != "0 0 360 360" {
		t.Errorf("unexpected viewBox %s", vb)
	}
	if _, ok := root.Get("width"); ok {
		t.Error("width should only be set on request")
	}
	if children := root.Elements(); children[0].Tag != "defs" {
		t.Errorf("expected defs first, got %s", children[0].Tag)
	}
	if n := len(withClass(root, "rect", "square")); n != 64 {
		t.Errorf("expected 64 squares, got %d", n)
	}
	if len(root.Find("text")) != 0 || len(root.Find("style")) != 0 {
		t.Error("unexpected labels or style")
	}
}

func TestMarginGrowth(t *testing.T) {
	f := newFixture()
	for _, test := range []struct {
		opts          Options
		viewBox       string
		width, height string
		x, y          string // first square
	}{
		{Options{}, "0 0 360 360", "", "", "0", "0"},
		{Options{Coordinates: true}, "0 0 390 390", "", "", "15", "15"},
		{Options{Width: 400, Height: 200}, "0 0 360 360", "400", "200", "0", "0"},
		{Options{Width: 400, Coordinates: true, Borders: true}, "0 0 390 390", "390", "", "15", "15"},
	} {
		root := f.render(t, test.opts)
		if vb := attr(root, "viewBox"); vb != test.viewBox {
			t.Errorf("%+v: expected viewBox %s, got %s", test.opts, test.viewBox, vb)
		}
		if w, h := attr(root, "width"), attr(root, "height"); w != test.width || h != test.height {
			t.Errorf("%+v: unexpected size %s x %s", test.opts, w, h)
		}
		first := withClass(root, "rect", "square")[0]
		if attr(first, "x") != test.x || attr(first, "y") != test.y {
			t.Errorf("%+v: unexpected first square %v", test.opts, first.Attrs)
		}
	}
}

func TestCheckerboard(t *testing.T) {
	f := newFixture()
	e2, e4 := board.MustSquare("e2"), board.MustSquare("e4")
	root := f.render(t, Options{LastMove: &board.Move{From: e2, To: e4}})

	squares := withClass(root, "rect", "square")
	if c := attr(squares[0], "class"); c != "square light" {
		t.Errorf("expected a8 to be light, got %s", c)
	}
	if c := attr(squares[56], "class"); c != "square dark" {
		t.Errorf("expected a1 to be dark, got %s", c)
	}
	if fill := attr(squares[0], "fill"); fill != "#f0d9b5" || attr(squares[0], "stroke") != "none" {
		t.Errorf("unexpected light square %v", squares[0].Attrs)
	}

	last := withClass(root, "rect", "lastmove")
	if len(last) != 2 {
		t.Fatalf("expected 2 last move squares, got %d", len(last))
	}
	// e4 is at row 4, e2 at row 6
	if attr(last[0], "x") != "180" || attr(last[0], "y") != "180" || attr(last[0], "class") != "square light lastmove" {
		t.Errorf("unexpected e4 square %v", last[0].Attrs)
	}
	if attr(last[1], "y") != "270" || attr(last[1], "fill") != "#cdd16a" {
		t.Errorf("unexpected e2 square %v", last[1].Attrs)
	}
}

func TestHighlights(t *testing.T) {
	f := newFixture()
	root := f.render(t, Options{Squares: []board.Square{board.MustSquare("a1"), board.MustSquare("h8")}})

	var cross bool
	for _, g := range root.Find("g") {
		if attr(g, "id") == "xx" {
			cross = true
		}
	}
	if !cross {
		t.Error("missing cross definition")
	}
	uses := root.Find("use")
	var marks []*svgdoc.Node
	for _, u := range uses {
		if attr(u, "href") == "#xx" {
			marks = append(marks, u)
		}
	}
	if len(marks) != 2 {
		t.Fatalf("expected 2 marks, got %d", len(marks))
	}
	// h8 is drawn first, top right
	if attr(marks[0], "x") != "315" || attr(marks[0], "y") != "0" || attr(marks[0], "xlink:href") != "#xx" {
		t.Errorf("unexpected h8 mark %v", marks[0].Attrs)
	}
	if attr(marks[1], "x") != "0" || attr(marks[1], "y") != "315" {
		t.Errorf("unexpected a1 mark %v", marks[1].Attrs)
	}

	root = f.render(t, Options{})
	for _, g := range root.Find("g") {
		if attr(g, "id") == "xx" {
			t.Error("unexpected cross definition")
		}
	}
}

func pieceUses(root *svgdoc.Node) map[string]string {
	out := map[string]string{}
	for _, u := range root.Find("use") {
		if href := attr(u, "xlink:href"); strings.HasSuffix(href, "-piece") {
			out[href] = attr(u, "transform")
		}
	}
	return out
}

func TestPieces(t *testing.T) {
	f := newFixture()

	// the white queen is skipped
	uses := pieceUses(f.render(t, Options{}))
	expected := map[string]string{
		"#white-K-piece": "translate(180, 315)",
		"#black-k-piece": "translate(180, 0)",
	}
	if len(uses) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, uses)
	}
	for href, tr := range expected {
		if uses[href] != tr {
			t.Errorf("%s: expected %s, got %s", href, tr, uses[href])
		}
	}
	if !strings.Contains(f.logs.String(), "wQ.svg") {
		t.Errorf("expected the missing asset to be logged, got %q", f.logs.String())
	}

	for _, opts := range []Options{
		{Orientation: board.Black},
		{Flipped: true},
	} {
		uses = pieceUses(f.render(t, opts))
		if uses["#white-K-piece"] != "translate(135, 0)" || uses["#black-k-piece"] != "translate(135, 315)" {
			t.Errorf("%+v: unexpected mirrored pieces %v", opts, uses)
		}
	}
	uses = pieceUses(f.render(t, Options{Orientation: board.Black, Flipped: true}))
	if uses["#white-K-piece"] != "translate(180, 315)" {
		t.Errorf("expected flip to cancel the orientation, got %v", uses)
	}

	uses = pieceUses(f.render(t, Options{Coordinates: true}))
	if uses["#white-K-piece"] != "translate(195, 330)" {
		t.Errorf("expected pieces shifted by the margin, got %v", uses)
	}
}

func TestDefs(t *testing.T) {
	f := newFixture()
	root := f.render(t, Options{})
	defs := root.Find("defs")[0]
	var ids []string
	for _, g := range defs.Elements() {
		ids = append(ids, attr(g, "id"))
	}
	if strings.Join(ids, " ") != "white-K-piece black-k-piece" {
		t.Errorf("unexpected definitions %v", ids)
	}
}

func TestCheck(t *testing.T) {
	f := newFixture()
	e1 := board.MustSquare("e1")
	root := f.render(t, Options{Check: &e1})

	gradients := root.Find("radialGradient")
	if len(gradients) != 1 || attr(gradients[0], "id") != "check_gradient" || attr(gradients[0], "r") != "0.5" {
		t.Fatalf("unexpected gradients %v", gradients)
	}
	if stops := gradients[0].Find("stop"); len(stops) != 3 || attr(stops[2], "stop-opacity") != "0.0" {
		t.Errorf("unexpected stops %v", stops)
	}
	halos := withClass(root, "rect", "check")
	if len(halos) != 1 {
		t.Fatalf("expected one check halo, got %d", len(halos))
	}
	if attr(halos[0], "x") != "180" || attr(halos[0], "y") != "315" || attr(halos[0], "fill") != "url(#check_gradient)" {
		t.Errorf("unexpected halo %v", halos[0].Attrs)
	}

	// the halo is drawn just before the piece
	children := root.Elements()
	for i, c := range children {
		if c == halos[0] {
			if next := children[i+1]; attr(next, "xlink:href") != "#white-K-piece" {
				t.Errorf("expected the king after the halo, got %v", next.Attrs)
			}
		}
	}

	// no halo on an empty square
	e4 := board.MustSquare("e4")
	root = f.render(t, Options{Check: &e4})
	if len(withClass(root, "rect", "check")) != 0 {
		t.Error("unexpected halo on an empty square")
	}
}

func TestLabels(t *testing.T) {
	f := newFixture()
	root := f.render(t, Options{Coordinates: true})
	texts := root.Find("text")
	if len(texts) != 32 {
		t.Fatalf("expected 32 labels, got %d", len(texts))
	}
	label := func(n *svgdoc.Node) string { return n.Children[0].Text }

	// files, top then bottom
	if label(texts[0]) != "a" || attr(texts[0], "x") != "37" || attr(texts[0], "y") != "8" {
		t.Errorf("unexpected first file label %s %v", label(texts[0]), texts[0].Attrs)
	}
	if label(texts[1]) != "a" || attr(texts[1], "y") != "383" {
		t.Errorf("unexpected bottom file label %v", texts[1].Attrs)
	}
	if attr(texts[0], "font-size") != "13" || attr(texts[0], "font-family") != "Arial, sans-serif" ||
		attr(texts[0], "fill") != "#333333" || attr(texts[0], "text-anchor") != "middle" {
		t.Errorf("unexpected label style %v", texts[0].Attrs)
	}
	// ranks, left then right
	if label(texts[16]) != "8" || attr(texts[16], "x") != "8" || attr(texts[16], "y") != "37" {
		t.Errorf("unexpected first rank label %s %v", label(texts[16]), texts[16].Attrs)
	}
	if attr(texts[17], "x") != "383" {
		t.Errorf("unexpected right rank label %v", texts[17].Attrs)
	}

	root = f.render(t, Options{Coordinates: true, Flipped: true})
	texts = root.Find("text")
	if label(texts[0]) != "h" || label(texts[16]) != "1" {
		t.Errorf("expected mirrored labels, got %s and %s", label(texts[0]), label(texts[16]))
	}

	root = f.render(t, Options{Coordinates: true, Labels: Shogi})
	texts = root.Find("text")
	if label(texts[0]) != "8" || label(texts[16]) != "a" {
		t.Errorf("unexpected shogi labels %s and %s", label(texts[0]), label(texts[16]))
	}
}

func TestStyle(t *testing.T) {
	f := newFixture()
	root := f.render(t, Options{Colors: svgcolor.Scheme{"square light": "#fff", "arrow green": "#0f0"}})
	children := root.Elements()
	if children[0].Tag != "style" || children[1].Tag != "defs" {
		t.Fatalf("expected style then defs, got %s %s", children[0].Tag, children[1].Tag)
	}
	css := children[0].Children[0].Text
	if css != ".arrow.green { fill: #0f0; }\n.square.light { fill: #fff; }" {
		t.Errorf("unexpected style %q", css)
	}
	// the checkerboard keeps the default palette
	if fill := attr(withClass(root, "rect", "square")[0], "fill"); fill != "#f0d9b5" {
		t.Errorf("unexpected fill %s", fill)
	}
}

func TestArrows(t *testing.T) {
	f := newFixture()
	e2, e4 := board.MustSquare("e2"), board.MustSquare("e4")
	root := f.render(t, Options{
		Arrows: []svgarrow.Arrow{
			svgarrow.PlainArrow{Tail: e2, Head: e4},
			svgarrow.ColoredArrow{Tail: e4, Head: e4, Color: "red"},
		},
		Colors: svgcolor.Scheme{"arrow green": "#00ff00"},
	})
	lines, polygons, circles := root.Find("line"), root.Find("polygon"), root.Find("circle")
	if len(lines) != 1 || len(polygons) != 1 {
		t.Fatalf("expected one shaft and one head, got %d %d", len(lines), len(polygons))
	}
	if attr(lines[0], "stroke") != "#00ff00" {
		t.Errorf("expected the overridden color, got %v", lines[0].Attrs)
	}
	// the piece artwork has a circle too
	var arrowCircles []*svgdoc.Node
	for _, c := range circles {
		if attr(c, "class") == "circle" {
			arrowCircles = append(arrowCircles, c)
		}
	}
	if len(arrowCircles) != 1 || attr(arrowCircles[0], "stroke") != "#882020" {
		t.Errorf("unexpected circles %v", arrowCircles)
	}
	children := root.Elements()
	if last := children[len(children)-1]; last.Tag != "circle" {
		t.Errorf("expected arrows last, got %s", last.Tag)
	}

	// borders shift the arrows, not the squares
	root = f.render(t, Options{Arrows: []svgarrow.Arrow{svgarrow.PlainArrow{Tail: e2, Head: e4}}, Borders: true, Coordinates: true})
	line := root.Find("line")[0]
	if attr(line, "x1") != "219.5" || attr(line, "y1") != "309.5" {
		t.Errorf("unexpected shifted tail %v", line.Attrs)
	}
}

func TestBackground(t *testing.T) {
	f := newFixture()

	root := f.render(t, Options{Background: "wood.svg", Coordinates: true})
	if n := len(withClass(root, "rect", "square")); n != 0 {
		t.Errorf("expected no checkerboard, got %d squares", n)
	}
	children := root.Elements()
	bg := children[1]
	if bg.Tag != "g" || attr(bg, "transform") != "translate(15, 15) scale(0.5, 0.5)" {
		t.Fatalf("unexpected background %s %v", bg.Tag, bg.Attrs)
	}
	if rects := bg.Find("rect"); len(rects) != 1 || attr(rects[0], "fill") != "#a0522d" {
		t.Errorf("expected the background content, got %v", rects)
	}

	// unknown size: stretched to the board
	bg = f.render(t, Options{Background: "plain.svg"}).Elements()[1]
	if _, ok := bg.Get("transform"); ok || len(bg.Find("rect")) != 1 {
		t.Errorf("unexpected background %v", bg.Attrs)
	}

	// prefixed attributes keep their namespace declaration
	out, err := f.renderer.Render(f.theme, board.NewGrid(8, 8), Options{Background: "ink.svg"})
	if err != nil {
		t.Fatal(err)
	}
	type label struct {
		Label string `xml:"http://www.inkscape.org/namespaces/inkscape label,attr"`
	}
	var doc struct {
		Layers []label `xml:"g>g"`
	}
	if err := xml.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid output %s: %s", out, err)
	}
	if len(doc.Layers) != 1 || doc.Layers[0].Label != "Layer 1" {
		t.Errorf("expected the inkscape label to resolve, got %v in %s", doc.Layers, out)
	}
	bg = f.render(t, Options{Background: "ink.svg"}).Elements()[1]
	if attr(bg, "xmlns:inkscape") != "http://www.inkscape.org/namespaces/inkscape" || attr(bg, "transform") != "scale(4, 4)" {
		t.Errorf("unexpected background %v", bg.Attrs)
	}

	// not a full document
	bg = f.render(t, Options{Background: "group.svg"}).Elements()[1]
	if bg.Tag != "g" || len(bg.Elements()) != 1 || bg.Elements()[0].Tag != "g" {
		t.Errorf("expected the content to be wrapped, got %s", bg)
	}

	root = f.render(t, Options{Background: "wood.png", Coordinates: true})
	images := root.Find("image")
	if len(images) != 1 {
		t.Fatalf("expected one image, got %d", len(images))
	}
	img := images[0]
	if attr(img, "xlink:href") != "data:image/png;base64,iVBORw==" {
		t.Errorf("unexpected data uri %s", attr(img, "xlink:href"))
	}
	if attr(img, "x") != "15" || attr(img, "width") != "360" || attr(img, "preserveAspectRatio") != "none" {
		t.Errorf("unexpected image %v", img.Attrs)
	}
	if len(withClass(root, "rect", "square")) != 0 {
		t.Error("expected no checkerboard")
	}

	img = f.render(t, Options{Background: "wood.bmp"}).Find("image")[0]
	if !strings.HasPrefix(attr(img, "xlink:href"), "data:application/octet-stream;base64,") {
		t.Errorf("unexpected data uri %s", attr(img, "xlink:href"))
	}
}

func TestBackgroundFallback(t *testing.T) {
	for _, name := range []string{"missing.png", "missing.svg", "bad.svg"} {
		f := newFixture()
		f.logs.Reset()
		root := f.render(t, Options{Background: name})
		if n := len(withClass(root, "rect", "square")); n != 64 {
			t.Errorf("%s: expected the checkerboard, got %d squares", name, n)
		}
		if !strings.Contains(f.logs.String(), name) {
			t.Errorf("%s: expected the failure to be logged, got %q", name, f.logs.String())
		}
	}
}

func TestInvalidBoard(t *testing.T) {
	f := newFixture()
	if _, err := f.renderer.Render(f.theme, board.NewGrid(0, 8), Options{}); !errors.Is(err, ErrInvalidBoard) {
		t.Errorf("expected ErrInvalidBoard, got %v", err)
	}
	if _, err := f.renderer.Render(f.theme, nil, Options{}); !errors.Is(err, ErrInvalidBoard) {
		t.Errorf("expected ErrInvalidBoard, got %v", err)
	}
}

func TestLargeBoard(t *testing.T) {
	f := newFixture()
	b, err := board.ParseFEN("rnbqkbnr/pppppppppp/10/10/10/10/10/10/PPPPPPPPPP/RNBQKBNR w")
	if err == nil {
		t.Fatalf("expected an error for ragged ranks, got %v", b)
	}
	b, err = board.ParseFEN("4k4/9/9/9/9/9/9/9/9/4K4")
	if err != nil {
		t.Fatal(err)
	}
	out, err := f.renderer.Render(f.theme, b, Options{Coordinates: true})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `viewBox="0 0 435 480"`) {
		t.Errorf("unexpected viewBox in %s", out[:200])
	}
	if !strings.Contains(out, `transform="translate(195, 420)"`) {
		t.Error("expected the white king on e1")
	}
}

func TestRenderPiece(t *testing.T) {
	f := newFixture()
	out, err := RenderPiece(f.theme, board.NewPiece("K"), 90)
	if err != nil {
		t.Fatal(err)
	}
	root, err := svgdoc.Parse(strings.NewReader(out), svgdoc.StrictErrorMode)
	if err != nil {
		t.Fatal(err)
	}
	if attr(root, "viewBox") != "0 0 45 45" || attr(root, "width") != "90" || attr(root, "height") != "90" {
		t.Errorf("unexpected root %v", root.Attrs)
	}
	if g := root.Elements()[0]; attr(g, "id") != "white-K-piece" {
		t.Errorf("unexpected piece %v", g.Attrs)
	}

	if _, err := RenderPiece(f.theme, board.NewPiece("Q"), 0); !errors.Is(err, ErrMissingPiece) {
		t.Errorf("expected ErrMissingPiece, got %v", err)
	}
	if _, err := RenderPiece(nil, board.NewPiece("K"), 0); !errors.Is(err, ErrMissingPiece) {
		t.Errorf("expected ErrMissingPiece, got %v", err)
	}
}
