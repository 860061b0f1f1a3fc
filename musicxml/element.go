package musicxml

import (
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
)

// Element is the read-only view of an XML element used by the parsers.
// Paths are XPath expressions relative to the element.
type Element struct {
	node *xmlquery.Node
}

func wrap(n *xmlquery.Node) Element { return Element{node: n} }

// Valid reports whether the element points at a node.
func (e Element) Valid() bool { return e.node != nil }

// Tag returns the local tag name.
func (e Element) Tag() string {
	if e.node == nil {
		return ""
	}
	return e.node.Data
}

// Find returns the first element matching path.
func (e Element) Find(path string) (Element, bool) {
	if e.node == nil {
		return Element{}, false
	}
	n, err := xmlquery.Query(e.node, path)
	if err != nil || n == nil {
		return Element{}, false
	}
	return wrap(n), true
}

// FindAll returns every element matching path in document order.
func (e Element) FindAll(path string) []Element {
	if e.node == nil {
		return nil
	}
	nodes, err := xmlquery.QueryAll(e.node, path)
	if err != nil {
		return nil
	}
	out := make([]Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, wrap(n))
	}
	return out
}

// Exists reports whether path matches anything.
func (e Element) Exists(path string) bool {
	_, ok := e.Find(path)
	return ok
}

// Text returns the trimmed text content at path, or def when nothing matches.
// An empty path reads the element itself.
func (e Element) Text(path, def string) string {
	target := e
	if path != "" {
		var ok bool
		if target, ok = e.Find(path); !ok {
			return def
		}
	}
	if target.node == nil {
		return def
	}
	return strings.TrimSpace(target.node.InnerText())
}

// TextInt is Text parsed as an integer; unparsable content yields def.
func (e Element) TextInt(path string, def int) int {
	return toInt(e.Text(path, ""), def)
}

// Attr returns the attribute value or def when it is absent or empty.
func (e Element) Attr(name, def string) string {
	if e.node == nil {
		return def
	}
	if v := e.node.SelectAttr(name); v != "" {
		return v
	}
	return def
}

// AttrInt is Attr parsed as an integer.
func (e Element) AttrInt(name string, def int) int {
	return toInt(e.Attr(name, ""), def)
}

// AttrFloat is Attr parsed as a float.
func (e Element) AttrFloat(name string, def float64) float64 {
	v := e.Attr(name, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// Children returns the direct element children in document order.
func (e Element) Children() []Element {
	if e.node == nil {
		return nil
	}
	var out []Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			out = append(out, wrap(c))
		}
	}
	return out
}

// Parent returns the enclosing element.
func (e Element) Parent() (Element, bool) {
	if e.node == nil || e.node.Parent == nil || e.node.Parent.Type != xmlquery.ElementNode {
		return Element{}, false
	}
	return wrap(e.node.Parent), true
}

// toInt mirrors lenient integer parsing: leading integer digits are used and
// a fractional tail is dropped ("-1.0" -> -1).
func toInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return def
}

func rootElement(doc *xmlquery.Node) Element {
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			return wrap(c)
		}
	}
	return Element{}
}
