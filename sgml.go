package qfx

import (
	"fmt"
	"strings"
)

// escaper rewrites the characters reserved by the markup.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// Escape escapes reserved markup characters in free text, like transaction
// descriptions.
func Escape(s string) string { return escaper.Replace(s) }

// Element is one node of the SGML document tree. A node is either a leaf
// carrying text or a container carrying children; elements preserve the
// order in which children were added, because the statement format is
// order-sensitive.
//
// Values are written verbatim: callers escape free text with Escape, fixed
// vocabulary and numeric renderings need no escaping.
type Element struct {
	name     string
	text     string
	children []*Element
}

// NewElement returns an empty element with the given tag name.
func NewElement(name string) *Element { return &Element{name: name} }

// Add appends a leaf child holding text, and returns the receiver for
// chaining.
func (e *Element) Add(name, text string) *Element {
	e.children = append(e.children, &Element{name: name, text: text})
	return e
}

// Child appends an empty container child and returns it.
func (e *Element) Child(name string) *Element {
	c := &Element{name: name}
	e.children = append(e.children, c)
	return c
}

// Append appends an already built element, and returns the receiver for
// chaining.
func (e *Element) Append(c *Element) *Element {
	e.children = append(e.children, c)
	return e
}

// render writes the subtree at the given depth, two spaces of indent per
// level, one element per line.
func (e *Element) render(b *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)
	if len(e.children) == 0 {
		fmt.Fprintf(b, "%s<%s>%s</%s>\n", indent, e.name, e.text, e.name)
		return
	}
	fmt.Fprintf(b, "%s<%s>\n", indent, e.name)
	for _, c := range e.children {
		c.render(b, depth+1)
	}
	fmt.Fprintf(b, "%s</%s>\n", indent, e.name)
}

// String renders the subtree rooted at e, unindented.
func (e *Element) String() string {
	var b strings.Builder
	e.render(&b, 0)
	return b.String()
}
