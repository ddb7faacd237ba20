package svgtheme

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"path"
	"strings"
	"sync"

	"github.com/benoitkugler/boardsvg/board"
	"github.com/benoitkugler/boardsvg/svgdoc"
	"github.com/benoitkugler/boardsvg/svggeom"
	"golang.org/x/sync/singleflight"
)

var (
	errNotSVG = errors.New("not in .svg format")
	errNoSize = errors.New("no width, height or viewBox")
)

// root attributes describing the viewport, not carried
// over to the fragment
var viewportAttrs = map[string]bool{
	"xmlns":               true,
	"version":             true,
	"baseProfile":         true,
	"id":                  true,
	"x":                   true,
	"y":                   true,
	"width":               true,
	"height":              true,
	"viewBox":             true,
	"preserveAspectRatio": true,
}

// Registry caches the themes read from a file system.
// It is safe for concurrent use: each theme id is populated
// exactly once, concurrent callers waiting for the result.
type Registry struct {
	fsys   fs.FS
	logger *log.Logger

	mu     sync.Mutex
	themes map[string]*Theme
	group  singleflight.Group
}

// NewRegistry returns an empty registry reading from `fsys`.
// If `logger` is nil, log.Default() is used.
func NewRegistry(fsys fs.FS, logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.Default()
	}
	return &Registry{fsys: fsys, logger: logger, themes: make(map[string]*Theme)}
}

// FS returns the file system the registry reads from.
func (r *Registry) FS() fs.FS { return r.fsys }

// Lookup returns the theme `id` if it has already been populated.
func (r *Registry) Lookup(id string) (*Theme, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	th, ok := r.themes[id]
	return th, ok
}

// Populate returns the theme `id`, reading it on first use.
// Missing or invalid files are logged and result in missing pieces,
// the returned theme is never nil.
func (r *Registry) Populate(id string) *Theme {
	if th, ok := r.Lookup(id); ok {
		return th
	}
	v, _, _ := r.group.Do(id, func() (interface{}, error) {
		// a previous flight may have completed since the first check
		if th, ok := r.Lookup(id); ok {
			return th, nil
		}
		th := r.read(id)
		r.mu.Lock()
		r.themes[id] = th
		r.mu.Unlock()
		return th, nil
	})
	return v.(*Theme)
}

// StylesheetPath returns the location of the stylesheet of theme `id`.
func StylesheetPath(id string) string {
	return path.Join("piece", id+".css")
}

// AssetPath resolves an url found in the stylesheet of theme `id`.
func AssetPath(id, url string) string {
	return path.Join("piece", id, "..", url)
}

func (r *Registry) read(id string) *Theme {
	th := newTheme(id)

	cssPath := StylesheetPath(id)
	f, err := r.fsys.Open(cssPath)
	if err != nil {
		r.logger.Printf("ERROR: can't open stylesheet %s: %s", cssPath, err)
		return th
	}
	rules, err := ParseStylesheet(f)
	f.Close()
	if err != nil {
		r.logger.Printf("ERROR: can't read stylesheet %s: %s", cssPath, err)
		return th
	}

	for _, rule := range rules {
		th.rules[rule.Symbol] = rule
	}
	for _, rule := range rules {
		fragment, err := r.loadFragment(id, rule)
		switch {
		case errors.Is(err, errNoSize):
			r.logger.Printf("ERROR: possible %s referenced in %s has %s", rule.URL, cssPath, err)
			th.fragments[rule.Symbol] = ""
		case err != nil:
			r.logger.Printf("ERROR: %s", err)
		default:
			th.fragments[rule.Symbol] = fragment
		}
	}
	return th
}

// loadFragment reads the artwork of `rule` and returns a <g> element
// named after the piece, scaled to the square size.
func (r *Registry) loadFragment(id string, rule Rule) (string, error) {
	file := AssetPath(id, rule.URL)
	if _, err := fs.Stat(r.fsys, file); err != nil {
		return "", fmt.Errorf("asset %s: %w", file, err)
	}
	if !strings.EqualFold(path.Ext(file), ".svg") {
		return "", fmt.Errorf("asset %s: %w", file, errNotSVG)
	}

	f, err := r.fsys.Open(file)
	if err != nil {
		return "", fmt.Errorf("asset %s: %w", file, err)
	}
	defer f.Close()

	return buildFragment(f, rule)
}

func buildFragment(f io.Reader, rule Rule) (string, error) {
	root, err := svgdoc.Parse(f, svgdoc.IgnoreErrorMode)
	if err != nil {
		return "", fmt.Errorf("asset %s: %w", rule.URL, err)
	}

	dims := svgdoc.ReadDimensions(root)
	var width, offsetX, offsetY float64
	if dims.ViewBox != nil {
		width = dims.ViewBox.W
		offsetX, offsetY = dims.ViewBox.X, dims.ViewBox.Y
	} else if dims.Width != "" {
		width, err = svgdoc.ParseLength(dims.Width)
		if err != nil {
			return "", errNoSize
		}
	}
	if width <= 0 {
		return "", errNoSize
	}

	k := svggeom.SquareSize / width
	tr := svggeom.Identity.Scale(k, k).Translate(-offsetX, -offsetY)

	inner := svgdoc.El("g")
	for _, attr := range root.Attrs {
		if !viewportAttrs[attr.Name] {
			inner.Attrs = append(inner.Attrs, attr)
		}
	}
	inner.Set("transform", tr.String())
	inner.Children = root.Children

	outer := svgdoc.El("g", "id", board.Piece{Symbol: rule.Symbol, Color: rule.Color}.ID())
	outer.Append(inner)
	return outer.String(), nil
}
