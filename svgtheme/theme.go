// Loads the piece artwork of a theme, described by a stylesheet
// mapping piece symbols to SVG files, and caches it as SVG fragments
// rescaled to the size of one square.
//
// Themes are read from a file system laid out as
//
//	piece/<theme>.css      the stylesheet
//	piece/<theme>/../<url> the artwork, relative to the stylesheet
//
// and are populated at most once per theme id by a Registry.
package svgtheme

import (
	"sort"

	"github.com/benoitkugler/boardsvg/board"
)

// Theme is a populated set of piece artwork. It is immutable
// once returned by a Registry, and safe for concurrent use.
// The nil *Theme is a valid, empty theme.
type Theme struct {
	ID string

	rules     map[string]Rule   // symbol -> rule
	fragments map[string]string // symbol -> serialized <g> element
}

func newTheme(id string) *Theme {
	return &Theme{ID: id, rules: make(map[string]Rule), fragments: make(map[string]string)}
}

// Rule returns the stylesheet entry for `symbol`.
func (t *Theme) Rule(symbol string) (Rule, bool) {
	if t == nil {
		return Rule{}, false
	}
	r, ok := t.rules[symbol]
	return r, ok
}

// Fragment returns the cached markup for `symbol`. The markup may be
// empty for an asset without size information.
func (t *Theme) Fragment(symbol string) (string, bool) {
	if t == nil {
		return "", false
	}
	f, ok := t.fragments[symbol]
	return f, ok
}

// Has returns true if the piece can be drawn with this theme.
func (t *Theme) Has(p board.Piece) bool {
	f, _ := t.Fragment(p.Symbol)
	return f != ""
}

// Symbols returns the sorted symbols of the stylesheet rules.
func (t *Theme) Symbols() []string {
	if t == nil {
		return nil
	}
	out := make([]string, 0, len(t.rules))
	for symbol := range t.rules {
		out = append(out, symbol)
	}
	sort.Strings(out)
	return out
}

// Fragments returns the non empty cached fragments, sorted by symbol.
func (t *Theme) Fragments() []string {
	var out []string
	for _, symbol := range t.Symbols() {
		if f := t.fragments[symbol]; f != "" {
			out = append(out, f)
		}
	}
	return out
}
