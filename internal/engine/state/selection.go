package state

import (
	"fmt"

	"github.com/dshills/gridstorm/internal/engine/model"
	"github.com/dshills/gridstorm/internal/engine/transform"
)

// Selection is the selected part of a document.
type Selection interface {
	// Anchor is the fixed end of the selection.
	Anchor() int

	// Head is the moving end of the selection.
	Head() int

	// From is the lower bound of the selection.
	From() int

	// To is the upper bound of the selection.
	To() int

	// Empty reports whether the selection covers nothing.
	Empty() bool

	// Map translates the selection through a change to doc.
	Map(doc *model.Node, m transform.Mappable) Selection

	// Eq reports whether two selections are equal.
	Eq(other Selection) bool

	String() string
}

// TextSelection is a selection between two text positions.
type TextSelection struct {
	anchor, head int
}

// NewTextSelection creates a text selection. Positions are used as given.
func NewTextSelection(anchor, head int) TextSelection {
	return TextSelection{anchor: anchor, head: head}
}

// Cursor creates an empty text selection at pos.
func Cursor(pos int) TextSelection {
	return TextSelection{anchor: pos, head: pos}
}

// TextSelectionBetween creates a text selection whose ends are moved to
// the nearest text positions, each searching toward the other end.
func TextSelectionBetween(doc *model.Node, anchor, head int) TextSelection {
	dir := 1
	if head < anchor {
		dir = -1
	}
	a, ok := NearTextPos(doc, anchor, dir)
	if !ok {
		a, _ = NearTextPos(doc, anchor, -dir)
	}
	h, ok := NearTextPos(doc, head, -dir)
	if !ok {
		h, _ = NearTextPos(doc, head, dir)
	}
	if (dir > 0 && h < a) || (dir < 0 && h > a) {
		h = a
	}
	return TextSelection{anchor: a, head: h}
}

// Near returns a cursor at the text position nearest to pos, preferring
// the direction dir.
func Near(doc *model.Node, pos, dir int) TextSelection {
	p, ok := NearTextPos(doc, pos, dir)
	if !ok {
		p, ok = NearTextPos(doc, pos, -dir)
	}
	if !ok {
		p = min(max(pos, 0), doc.ContentSize())
	}
	return Cursor(p)
}

// AtStart returns a cursor at the first text position of doc.
func AtStart(doc *model.Node) TextSelection { return Near(doc, 0, 1) }

// NearTextPos finds the closest position inside a textblock at or beyond
// pos in direction dir.
func NearTextPos(doc *model.Node, pos, dir int) (int, bool) {
	if r, err := doc.Resolve(pos); err == nil && r.Parent().IsTextblock() {
		return pos, true
	}
	best, found := 0, false
	doc.Descendants(func(n *model.Node, p int, _ *model.Node, _ int) bool {
		if !n.IsTextblock() {
			return !n.IsText()
		}
		start, end := p+1, p+1+n.ContentSize()
		var cand int
		switch {
		case dir > 0 && end >= pos:
			cand = max(start, min(pos, end))
		case dir < 0 && start <= pos:
			cand = min(end, max(pos, start))
		default:
			return false
		}
		if !found || (dir > 0 && cand < best) || (dir < 0 && cand > best) {
			best, found = cand, true
		}
		return false
	})
	return best, found
}

// Anchor implements Selection.
func (s TextSelection) Anchor() int { return s.anchor }

// Head implements Selection.
func (s TextSelection) Head() int { return s.head }

// From implements Selection.
func (s TextSelection) From() int { return min(s.anchor, s.head) }

// To implements Selection.
func (s TextSelection) To() int { return max(s.anchor, s.head) }

// Empty implements Selection.
func (s TextSelection) Empty() bool { return s.anchor == s.head }

// Map implements Selection.
func (s TextSelection) Map(doc *model.Node, m transform.Mappable) Selection {
	head := m.Map(s.head, 1)
	if !inTextblock(doc, head) {
		return Near(doc, head, 1)
	}
	anchor := m.Map(s.anchor, 1)
	if !inTextblock(doc, anchor) {
		anchor = head
	}
	return TextSelection{anchor: anchor, head: head}
}

// Eq implements Selection.
func (s TextSelection) Eq(other Selection) bool {
	o, ok := other.(TextSelection)
	return ok && o == s
}

func (s TextSelection) String() string {
	if s.Empty() {
		return fmt.Sprintf("cursor(%d)", s.head)
	}
	return fmt.Sprintf("text(%d-%d)", s.anchor, s.head)
}

func inTextblock(doc *model.Node, pos int) bool {
	r, err := doc.Resolve(pos)
	return err == nil && r.Parent().IsTextblock()
}
