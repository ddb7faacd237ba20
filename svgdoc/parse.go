package svgdoc

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
)

// ErrorMode determines how the parser reacts to the tokens
// it can't carry over in the tree (directives such as DOCTYPE).
type ErrorMode uint8

const (
	// IgnoreErrorMode silently drops unsupported tokens.
	IgnoreErrorMode ErrorMode = iota
	// WarnErrorMode drops unsupported tokens, logging a warning.
	WarnErrorMode
	// StrictErrorMode fails on unsupported tokens.
	StrictErrorMode
)

var (
	errInvalidDocument = errors.New("invalid svg xml document")
	errParamMismatch   = errors.New("param mismatch")
)

// ParseFragment reads all the top level nodes of `stream`.
// Comments and processing instructions (including the XML prolog)
// are dropped, as are blank character data.
// Namespace prefixes are kept verbatim in tags and attribute names.
func ParseFragment(stream io.Reader, errMode ErrorMode) ([]*Node, error) {
	decoder := xml.NewDecoder(stream)
	decoder.CharsetReader = charset.NewReaderLabel

	var (
		top   []*Node
		stack []*Node
	)
	appendNode := func(n *Node) {
		if len(stack) == 0 {
			top = append(top, n)
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, n)
		}
	}
	for {
		t, err := decoder.RawToken()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		// Inspect the type of the XML token
		switch se := t.(type) {
		case xml.StartElement:
			n := &Node{Tag: qualified(se.Name)}
			for _, attr := range se.Attr {
				n.Attrs = append(n.Attrs, Attr{Name: qualified(attr.Name), Value: attr.Value})
			}
			appendNode(n)
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) == 0 || stack[len(stack)-1].Tag != qualified(se.Name) {
				return nil, fmt.Errorf("unexpected end element </%s>", qualified(se.Name))
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if strings.TrimSpace(string(se)) == "" {
				continue
			}
			appendNode(TextNode(string(se)))
		case xml.Directive:
			errStr := "Cannot process svg directive " + string(se)
			if errMode == StrictErrorMode {
				return nil, errors.New(errStr)
			} else if errMode == WarnErrorMode {
				log.Println(errStr)
			}
		}
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("unclosed element <%s>", stack[len(stack)-1].Tag)
	}
	return top, nil
}

// Parse reads a document and returns its root element.
func Parse(stream io.Reader, errMode ErrorMode) (*Node, error) {
	nodes, err := ParseFragment(stream, errMode)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		if n.Tag != "" {
			return n, nil
		}
	}
	return nil, errInvalidDocument
}

func qualified(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return name.Space + ":" + name.Local
}

// StripProlog removes a leading XML declaration.
func StripProlog(content string) string {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "<?xml") {
		if i := strings.Index(trimmed, "?>"); i >= 0 {
			return trimmed[i+2:]
		}
	}
	return content
}

// Bounds defines a bounding box, such as a viewport.
type Bounds struct{ X, Y, W, H float64 }

// Dimensions holds the size related attributes of a <svg> root,
// as found in the document.
type Dimensions struct {
	ViewBox       *Bounds // nil if missing or invalid
	Width, Height string  // raw attributes, empty if missing
}

// IsSVG returns true if `n` is a <svg> element.
func (n *Node) IsSVG() bool { return n.LocalName() == "svg" }

// ReadDimensions extracts the intrinsic size information of `root`.
func ReadDimensions(root *Node) Dimensions {
	var d Dimensions
	d.Width, _ = root.Get("width")
	d.Height, _ = root.Get("height")
	if v, ok := root.Get("viewBox"); ok {
		if vb, err := ParseViewBox(v); err == nil {
			d.ViewBox = &vb
		}
	}
	return d
}

// ParseViewBox decodes a "min-x min-y width height" list,
// separated by spaces or commas.
func ParseViewBox(v string) (Bounds, error) {
	fields := splitOnCommaOrSpace(v)
	if len(fields) != 4 {
		return Bounds{}, errParamMismatch
	}
	var points [4]float64
	for i, f := range fields {
		var err error
		points[i], err = strconv.ParseFloat(f, 64)
		if err != nil {
			return Bounds{}, err
		}
	}
	return Bounds{X: points[0], Y: points[1], W: points[2], H: points[3]}, nil
}

// ParseLength decodes a width or height attribute expressed
// in user units, with an optional "px" suffix.
func ParseLength(v string) (float64, error) {
	v = strings.TrimSuffix(strings.TrimSpace(v), "px")
	return strconv.ParseFloat(v, 64)
}

// splitOnCommaOrSpace returns a list of strings after splitting the input on comma and space delimiters
func splitOnCommaOrSpace(s string) []string {
	return strings.FieldsFunc(s,
		func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
		})
}
