package model

import "fmt"

type pathEntry struct {
	node   *Node
	index  int
	offset int // absolute position where the child at index starts
}

// ResolvedPos is a position together with the chain of nodes around it.
// Depth 0 is the document; Depth is the innermost node whose content
// contains the position.
type ResolvedPos struct {
	Pos   int
	Depth int

	path         []pathEntry
	parentOffset int
}

// Resolve resolves pos within the content of n.
func (n *Node) Resolve(pos int) (*ResolvedPos, error) {
	if pos < 0 || pos > n.content.size {
		return nil, fmt.Errorf("%w: %d (size %d)", ErrPositionOutOfRange, pos, n.content.size)
	}
	var path []pathEntry
	start, parentOffset := 0, pos
	for node := n; ; {
		index, offset := node.content.FindIndex(parentOffset)
		rem := parentOffset - offset
		path = append(path, pathEntry{node: node, index: index, offset: start + offset})
		if rem == 0 {
			break
		}
		node = node.Child(index)
		if node.IsText() {
			break
		}
		parentOffset = rem - 1
		start += offset + 1
	}
	return &ResolvedPos{Pos: pos, Depth: len(path) - 1, path: path, parentOffset: parentOffset}, nil
}

// Doc returns the root node.
func (r *ResolvedPos) Doc() *Node { return r.path[0].node }

// Node returns the ancestor at depth d.
func (r *ResolvedPos) Node(d int) *Node { return r.path[d].node }

// Parent returns the innermost ancestor.
func (r *ResolvedPos) Parent() *Node { return r.path[r.Depth].node }

// ParentOffset returns the offset of the position in its parent.
func (r *ResolvedPos) ParentOffset() int { return r.parentOffset }

// Index returns the index of the position in the ancestor at depth d.
func (r *ResolvedPos) Index(d int) int { return r.path[d].index }

// IndexAfter returns the index just after the position in the ancestor at
// depth d.
func (r *ResolvedPos) IndexAfter(d int) int {
	if d == r.Depth && r.TextOffset() == 0 {
		return r.path[d].index
	}
	return r.path[d].index + 1
}

// Start returns the position where the content of the ancestor at depth d
// starts.
func (r *ResolvedPos) Start(d int) int {
	if d == 0 {
		return 0
	}
	return r.path[d-1].offset + 1
}

// End returns the position where the content of the ancestor at depth d
// ends.
func (r *ResolvedPos) End(d int) int {
	return r.Start(d) + r.path[d].node.content.size
}

// Before returns the position directly before the ancestor at depth d.
// Depth must be at least 1.
func (r *ResolvedPos) Before(d int) int {
	if d == r.Depth+1 {
		return r.Pos
	}
	return r.path[d-1].offset
}

// After returns the position directly after the ancestor at depth d.
// Depth must be at least 1.
func (r *ResolvedPos) After(d int) int {
	if d == r.Depth+1 {
		return r.Pos
	}
	return r.path[d-1].offset + r.path[d].node.NodeSize()
}

// TextOffset returns how far into a text node the position lies.
func (r *ResolvedPos) TextOffset() int {
	return r.Pos - r.path[len(r.path)-1].offset
}

// NodeAfter returns the node directly after the position, or nil.
func (r *ResolvedPos) NodeAfter() *Node {
	parent := r.Parent()
	index := r.Index(r.Depth)
	if index == parent.ChildCount() {
		return nil
	}
	child := parent.Child(index)
	if off := r.TextOffset(); off > 0 {
		return child.cutText(off, child.NodeSize())
	}
	return child
}

// NodeBefore returns the node directly before the position, or nil.
func (r *ResolvedPos) NodeBefore() *Node {
	parent := r.Parent()
	index := r.Index(r.Depth)
	if off := r.TextOffset(); off > 0 {
		return parent.Child(index).cutText(0, off)
	}
	if index == 0 {
		return nil
	}
	return parent.Child(index - 1)
}

func (r *ResolvedPos) String() string {
	return fmt.Sprintf("%d(depth %d in %s)", r.Pos, r.Depth, r.Parent().Type().Name)
}
