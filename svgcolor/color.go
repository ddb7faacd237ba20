// Resolves the named color slots used by the board renderer
// ("square light", "arrow green", ...) to a color literal and
// an explicit opacity, decoding the hex-with-alpha shorthands.
package svgcolor

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrUnknownSlot is returned when a slot is neither overridden
// nor part of the default palette.
var ErrUnknownSlot = errors.New("unknown color slot")

// Color is a literal usable in a fill or stroke attribute, with the
// alpha channel split out.
type Color struct {
	Literal string
	Opacity float64 // in [0, 1]
}

// Opaque returns the literal with full opacity.
func Opaque(literal string) Color { return Color{Literal: literal, Opacity: 1} }

// OpacityAttr returns the value of the opacity attribute,
// or an empty string for an opaque color, meaning the attribute
// should be omitted.
func (c Color) OpacityAttr() string {
	if c.Opacity >= 1 {
		return ""
	}
	return strconv.FormatFloat(c.Opacity, 'f', -1, 64)
}

// Scheme maps a slot, made of space separated class names,
// to a color literal.
type Scheme map[string]string

// DefaultPalette is used for the slots not found in a Scheme.
var DefaultPalette = Scheme{
	"square light":          "#f0d9b5",
	"square dark":           "#b58863",
	"square dark lastmove":  "#aaa23b",
	"square light lastmove": "#cdd16a",
	"margin":                "#212121",
	"inner border":          "#111",
	"outer border":          "#111",
	"coord":                 "#333333",
	"arrow green":           "#15781B80",
	"arrow red":             "#88202080",
	"arrow yellow":          "#e68f00b3",
	"arrow blue":            "#00308880",
}

// Parse splits the alpha channel of #rgba and #rrggbbaa literals.
// Other literals, and invalid hex digits, are returned as is, opaque.
func Parse(literal string) Color {
	if !strings.HasPrefix(literal, "#") {
		return Opaque(literal)
	}
	switch len(literal) {
	case 5:
		a, err := strconv.ParseUint(literal[4:], 16, 8)
		if err != nil {
			break
		}
		return Color{Literal: literal[:4], Opacity: float64(a) / 0xf}
	case 9:
		a, err := strconv.ParseUint(literal[7:], 16, 8)
		if err != nil {
			break
		}
		return Color{Literal: literal[:7], Opacity: float64(a) / 0xff}
	}
	return Opaque(literal)
}

// Lookup returns the literal registered for `slot`, looking first
// in `s` (which may be nil), then in DefaultPalette.
func (s Scheme) Lookup(slot string) (string, error) {
	if literal, ok := s[slot]; ok {
		return literal, nil
	}
	if literal, ok := DefaultPalette[slot]; ok {
		return literal, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSlot, slot)
}

// Resolve looks up `slot` and decodes its alpha channel.
func Resolve(slot string, overrides Scheme) (Color, error) {
	literal, err := overrides.Lookup(slot)
	if err != nil {
		return Color{}, err
	}
	return Parse(literal), nil
}

// CSS renders one class selector rule per slot, such as
//
//	.square.light { fill: #eee; }
//
// Rules are sorted by slot so that the output is stable.
func (s Scheme) CSS() string {
	slots := make([]string, 0, len(s))
	for slot := range s {
		slots = append(slots, slot)
	}
	sort.Strings(slots)

	lines := make([]string, len(slots))
	for i, slot := range slots {
		selector := "." + strings.Join(strings.Fields(slot), ".")
		lines[i] = fmt.Sprintf("%s { fill: %s; }", selector, s[slot])
	}
	return strings.Join(lines, "\n")
}
