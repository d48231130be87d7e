package model

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Node is an immutable document node.
type Node struct {
	typ     *NodeType
	attrs   Attrs
	content Fragment
	text    string
}

// Type returns the node's type.
func (n *Node) Type() *NodeType { return n.typ }

// Attrs returns the node's attributes. The map must not be modified.
func (n *Node) Attrs() Attrs { return n.attrs }

// Attr returns a single attribute value.
func (n *Node) Attr(name string) any { return n.attrs[name] }

// Content returns the node's children.
func (n *Node) Content() Fragment { return n.content }

// Text returns the text of a text node.
func (n *Node) Text() string { return n.text }

// IsText reports whether n is a text node.
func (n *Node) IsText() bool { return n.typ.text }

// IsTextblock reports whether n holds inline content.
func (n *Node) IsTextblock() bool { return n.typ.block }

// IsLeaf reports whether n can have no content.
func (n *Node) IsLeaf() bool { return n.typ.IsLeaf() }

// NodeSize returns the size of n in the position space.
func (n *Node) NodeSize() int {
	switch {
	case n.typ.text:
		return utf8.RuneCountInString(n.text)
	case n.typ.IsLeaf():
		return 1
	}
	return n.content.size + 2
}

// ContentSize returns the size of n's content.
func (n *Node) ContentSize() int { return n.content.size }

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return n.content.ChildCount() }

// Child returns the child at index i.
func (n *Node) Child(i int) *Node { return n.content.Child(i) }

// MaybeChild returns the child at index i, or nil.
func (n *Node) MaybeChild(i int) *Node { return n.content.MaybeChild(i) }

// FirstChild returns the first child, or nil.
func (n *Node) FirstChild() *Node { return n.content.MaybeChild(0) }

// LastChild returns the last child, or nil.
func (n *Node) LastChild() *Node { return n.content.MaybeChild(n.content.ChildCount() - 1) }

// Copy returns a node of the same type and attributes with new content.
func (n *Node) Copy(content Fragment) *Node {
	return &Node{typ: n.typ, attrs: n.attrs, content: content}
}

// WithMarkup returns a node with the same content and a new type and
// attributes. A nil typ keeps the current type.
func (n *Node) WithMarkup(typ *NodeType, attrs Attrs) *Node {
	if typ == nil {
		typ = n.typ
	}
	return &Node{typ: typ, attrs: typ.ComputeAttrs(attrs), content: n.content, text: n.text}
}

// NodeAt returns the node starting at pos, or nil.
func (n *Node) NodeAt(pos int) *Node {
	node := n
	for {
		index, offset := node.content.FindIndex(pos)
		node = node.content.MaybeChild(index)
		if node == nil {
			return nil
		}
		if offset == pos || node.IsText() {
			return node
		}
		pos -= offset + 1
	}
}

// TextContent concatenates the text of all descendants.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.text
	}
	var b strings.Builder
	n.Descendants(func(d *Node, _ int, _ *Node, _ int) bool {
		if d.IsText() {
			b.WriteString(d.text)
		}
		return true
	})
	return b.String()
}

// Descendants calls fn for every descendant with its position relative to
// the start of n's content. Returning false skips the node's children.
func (n *Node) Descendants(fn func(node *Node, pos int, parent *Node, index int) bool) {
	n.descendants(0, fn)
}

func (n *Node) descendants(start int, fn func(*Node, int, *Node, int) bool) {
	n.content.ForEach(func(child *Node, offset, index int) {
		pos := start + offset
		if fn(child, pos, n, index) && child.content.ChildCount() > 0 {
			child.descendants(pos+1, fn)
		}
	})
}

// Eq reports whether two nodes are structurally equal.
func (n *Node) Eq(other *Node) bool {
	if n == other {
		return true
	}
	if n == nil || other == nil {
		return false
	}
	return n.typ == other.typ && n.text == other.text &&
		n.attrs.Equal(other.attrs) && n.content.Eq(other.content)
}

// Check validates n and its descendants against the schema.
func (n *Node) Check() error {
	if n.IsText() {
		if n.text == "" {
			return fmt.Errorf("%w: empty text node", ErrInvalidContent)
		}
		return nil
	}
	if n.content.ChildCount() < n.typ.content.Min {
		return fmt.Errorf("%w: %s needs at least %d children, has %d",
			ErrInvalidContent, n.typ.Name, n.typ.content.Min, n.content.ChildCount())
	}
	for i, child := range n.content.nodes {
		if !n.typ.Allows(child.typ) {
			return fmt.Errorf("%w: %s not allowed in %s (child %d)",
				ErrInvalidContent, child.typ.Name, n.typ.Name, i)
		}
		if err := child.Check(); err != nil {
			return err
		}
	}
	return nil
}

// String renders the node in a compact debugging notation, for example
// table(table_row(table_cell(paragraph("a")))). Attributes that differ
// from the type defaults are shown in brackets.
func (n *Node) String() string {
	if n.IsText() {
		return strconv.Quote(n.text)
	}
	var b strings.Builder
	b.WriteString(n.typ.Name)
	if extra := n.nonDefaultAttrs(); len(extra) > 0 {
		b.WriteString("[")
		b.WriteString(extra.Format())
		b.WriteString("]")
	}
	if n.content.ChildCount() > 0 {
		b.WriteString("(")
		b.WriteString(n.content.String())
		b.WriteString(")")
	}
	return b.String()
}

func (n *Node) nonDefaultAttrs() Attrs {
	var out Attrs
	for k, v := range n.attrs {
		if def, ok := n.typ.defaults[k]; ok && ValueEqual(def, v) {
			continue
		}
		if out == nil {
			out = Attrs{}
		}
		out[k] = v
	}
	return out
}

// cutText returns the part of a text node between rune offsets from and to.
func (n *Node) cutText(from, to int) *Node {
	runes := []rune(n.text)
	if from == 0 && to == len(runes) {
		return n
	}
	return &Node{typ: n.typ, attrs: n.attrs, text: string(runes[from:to])}
}
