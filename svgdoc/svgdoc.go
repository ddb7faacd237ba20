// Provides a small SVG document model: a tree of nodes which can be
// built programmatically, parsed from an existing SVG file
// (to be embedded in another document) and serialized back.
package svgdoc

import (
	"io"
	"strings"
)

const (
	NamespaceSVG   = "http://www.w3.org/2000/svg"
	NamespaceXLink = "http://www.w3.org/1999/xlink"
)

// Attr is an attribute, whose Name may carry a namespace prefix
// (as in "xlink:href").
type Attr struct {
	Name, Value string
}

// Node is either an element (Tag is not empty), a text node
// (only Text is set) or a chunk of already serialized markup
// (only Raw is set), written as is.
type Node struct {
	Tag      string
	Attrs    []Attr
	Children []*Node

	Text string
	Raw  string
}

// El returns a new element. `attrs` are name/value pairs.
func El(tag string, attrs ...string) *Node {
	n := &Node{Tag: tag}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attrs = append(n.Attrs, Attr{Name: attrs[i], Value: attrs[i+1]})
	}
	return n
}

// TextNode returns a character data node.
func TextNode(text string) *Node { return &Node{Text: text} }

// RawNode returns a node holding serialized markup.
func RawNode(markup string) *Node { return &Node{Raw: markup} }

// NewDocument returns an empty <svg> root declaring the SVG and
// XLink namespaces, with the given viewBox.
func NewDocument(viewBox string) *Node {
	return El("svg",
		"xmlns", NamespaceSVG,
		"version", "1.1",
		"xmlns:xlink", NamespaceXLink,
		"viewBox", viewBox,
	)
}

// Get returns the value of the attribute `name`.
func (n *Node) Get(name string) (string, bool) {
	for _, attr := range n.Attrs {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// Set adds or replaces the attribute `name`.
// An empty value removes it.
func (n *Node) Set(name, value string) *Node {
	for i, attr := range n.Attrs {
		if attr.Name == name {
			if value == "" {
				n.Attrs = append(n.Attrs[:i], n.Attrs[i+1:]...)
			} else {
				n.Attrs[i].Value = value
			}
			return n
		}
	}
	if value != "" {
		n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
	}
	return n
}

// Append adds children, ignoring nil ones.
func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// Elements returns the element children of `n`.
func (n *Node) Elements() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Tag != "" {
			out = append(out, c)
		}
	}
	return out
}

// Find returns the elements with the given tag, in document order,
// searching the whole subtree (including `n`).
func (n *Node) Find(tag string) []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(c *Node) {
		if c.Tag == tag {
			out = append(out, c)
		}
		for _, child := range c.Children {
			walk(child)
		}
	}
	walk(n)
	return out
}

// LocalName returns the tag without its namespace prefix.
func (n *Node) LocalName() string {
	if i := strings.IndexByte(n.Tag, ':'); i >= 0 {
		return n.Tag[i+1:]
	}
	return n.Tag
}

func (n *Node) write(b *strings.Builder) {
	switch {
	case n.Raw != "":
		b.WriteString(n.Raw)
		return
	case n.Tag == "":
		escape(b, n.Text)
		return
	}
	b.WriteByte('<')
	b.WriteString(n.Tag)
	for _, attr := range n.Attrs {
		b.WriteByte(' ')
		b.WriteString(attr.Name)
		b.WriteString(`="`)
		escapeAttr(b, attr.Value)
		b.WriteByte('"')
	}
	if len(n.Children) == 0 && n.Text == "" {
		b.WriteString(" />")
		return
	}
	b.WriteByte('>')
	escape(b, n.Text)
	for _, c := range n.Children {
		c.write(b)
	}
	b.WriteString("</")
	b.WriteString(n.Tag)
	b.WriteByte('>')
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "\n", "&#10;")
)

func escape(b *strings.Builder, s string) { textEscaper.WriteString(b, s) }

func escapeAttr(b *strings.Builder, s string) { attrEscaper.WriteString(b, s) }

// String serializes the subtree rooted at `n`.
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

// WriteTo serializes the subtree rooted at `n` into `w`.
func (n *Node) WriteTo(w io.Writer) (int64, error) {
	written, err := io.WriteString(w, n.String())
	return int64(written), err
}
