package svgboard

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/benoitkugler/boardsvg/svgdoc"
	"github.com/benoitkugler/boardsvg/svggeom"
)

// BackgroundDir is the directory of the background images,
// on the asset file system.
const BackgroundDir = "images/board"

var errEmptyBackground = errors.New("no element")

// mimeType selects the type of a raster background from its extension.
func mimeType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

// background returns the element drawing the background `name`,
// spanning the board area.
func (r *Renderer) background(name string, g svggeom.Geometry) (*svgdoc.Node, error) {
	file := path.Join(BackgroundDir, name)
	content, err := fs.ReadFile(r.fsys, file)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(path.Ext(name), ".svg") {
		node, err := vectorBackground(string(content), g)
		if err != nil {
			return nil, fmt.Errorf("background %s: %w", file, err)
		}
		return node, nil
	}
	return rasterBackground(content, mimeType(name), g), nil
}

// vectorBackground reparents the content of an SVG document
// under a group fitting the board area.
func vectorBackground(content string, g svggeom.Geometry) (*svgdoc.Node, error) {
	content = svgdoc.StripProlog(content)
	nodes, err := svgdoc.ParseFragment(strings.NewReader(content), svgdoc.IgnoreErrorMode)
	if err != nil {
		return nil, err
	}
	var root *svgdoc.Node
	for _, n := range nodes {
		if n.Tag != "" {
			root = n
			break
		}
	}
	if root == nil {
		return nil, errEmptyBackground
	}

	group := svgdoc.El("g")
	if !root.IsSVG() {
		// not a full document: inserted as is
		return group.Append(nodes...), nil
	}

	bw, bh := g.BoardSize()
	iw, ih := intrinsicSize(svgdoc.ReadDimensions(root), bw, bh)
	if iw <= 0 || ih <= 0 {
		return nil, fmt.Errorf("invalid intrinsic size %gx%g", iw, ih)
	}
	// prefixed names are kept verbatim in the children,
	// so their declarations must follow them
	for _, attr := range root.Attrs {
		if strings.HasPrefix(attr.Name, "xmlns:") {
			group.Attrs = append(group.Attrs, attr)
		}
	}
	tr := svggeom.Identity.Translate(g.Margin, g.Margin).Scale(bw/iw, bh/ih)
	group.Set("transform", tr.String())
	group.Children = root.Children
	return group, nil
}

// intrinsicSize prefers the width and height attributes, then the
// viewBox. If none can be read, the board size (bw, bh) is used,
// stretching the background.
func intrinsicSize(dims svgdoc.Dimensions, bw, bh float64) (w, h float64) {
	if dims.Width != "" && dims.Height != "" {
		w, errW := svgdoc.ParseLength(dims.Width)
		h, errH := svgdoc.ParseLength(dims.Height)
		if errW != nil || errH != nil {
			return bw, bh
		}
		return w, h
	}
	if dims.ViewBox != nil {
		return dims.ViewBox.W, dims.ViewBox.H
	}
	return bw, bh
}

// rasterBackground embeds the image as a data URI.
func rasterBackground(content []byte, mime string, g svggeom.Geometry) *svgdoc.Node {
	uri := "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(content)
	bw, bh := g.BoardSize()
	return svgdoc.El("image",
		"xlink:href", uri,
		"x", svggeom.Fmt(g.Margin),
		"y", svggeom.Fmt(g.Margin),
		"width", svggeom.Fmt(bw),
		"height", svggeom.Fmt(bh),
		"preserveAspectRatio", "none",
	)
}
