package model

import "strings"

// Fragment is an immutable sequence of sibling nodes.
type Fragment struct {
	nodes []*Node
	size  int
}

// EmptyFragment holds no nodes.
var EmptyFragment = Fragment{}

// NewFragment builds a fragment from nodes. Nil nodes are skipped.
func NewFragment(nodes ...*Node) Fragment {
	f := Fragment{nodes: make([]*Node, 0, len(nodes))}
	for _, n := range nodes {
		if n == nil {
			continue
		}
		f.nodes = append(f.nodes, n)
		f.size += n.NodeSize()
	}
	return f
}

// Size returns the total size of the fragment's nodes.
func (f Fragment) Size() int { return f.size }

// ChildCount returns the number of nodes.
func (f Fragment) ChildCount() int { return len(f.nodes) }

// Child returns the node at index i. It panics when i is out of range.
func (f Fragment) Child(i int) *Node { return f.nodes[i] }

// MaybeChild returns the node at index i, or nil.
func (f Fragment) MaybeChild(i int) *Node {
	if i < 0 || i >= len(f.nodes) {
		return nil
	}
	return f.nodes[i]
}

// Nodes returns a copy of the fragment's nodes.
func (f Fragment) Nodes() []*Node { return append([]*Node(nil), f.nodes...) }

// ForEach calls fn for every node with its offset and index.
func (f Fragment) ForEach(fn func(node *Node, offset, index int)) {
	pos := 0
	for i, n := range f.nodes {
		fn(n, pos, i)
		pos += n.NodeSize()
	}
}

// Append returns the concatenation of f and other.
func (f Fragment) Append(other Fragment) Fragment {
	if other.ChildCount() == 0 {
		return f
	}
	if f.ChildCount() == 0 {
		return other
	}
	nodes := make([]*Node, 0, len(f.nodes)+len(other.nodes))
	nodes = append(nodes, f.nodes...)
	nodes = append(nodes, other.nodes...)
	return Fragment{nodes: nodes, size: f.size + other.size}
}

// Splice replaces the children in [from, to) with insert.
func (f Fragment) Splice(from, to int, insert Fragment) Fragment {
	nodes := make([]*Node, 0, len(f.nodes)-(to-from)+len(insert.nodes))
	nodes = append(nodes, f.nodes[:from]...)
	nodes = append(nodes, insert.nodes...)
	nodes = append(nodes, f.nodes[to:]...)
	return NewFragment(nodes...)
}

// Cut returns the children in [from, to).
func (f Fragment) Cut(from, to int) Fragment {
	return NewFragment(f.nodes[from:to]...)
}

// ReplaceChild returns a copy with the child at index i replaced.
func (f Fragment) ReplaceChild(i int, n *Node) Fragment {
	if f.nodes[i] == n {
		return f
	}
	nodes := append([]*Node(nil), f.nodes...)
	size := f.size - nodes[i].NodeSize() + n.NodeSize()
	nodes[i] = n
	return Fragment{nodes: nodes, size: size}
}

// FindIndex returns the index of the child at pos and the offset where it
// starts. A position on a boundary belongs to the child after it.
func (f Fragment) FindIndex(pos int) (index, offset int) {
	if pos == 0 {
		return 0, 0
	}
	if pos == f.size {
		return len(f.nodes), f.size
	}
	cur := 0
	for i, n := range f.nodes {
		end := cur + n.NodeSize()
		if end >= pos {
			if end == pos {
				return i + 1, end
			}
			return i, cur
		}
		cur = end
	}
	return len(f.nodes), f.size
}

// Eq reports whether two fragments hold equal nodes.
func (f Fragment) Eq(other Fragment) bool {
	if len(f.nodes) != len(other.nodes) {
		return false
	}
	for i, n := range f.nodes {
		if !n.Eq(other.nodes[i]) {
			return false
		}
	}
	return true
}

func (f Fragment) String() string {
	parts := make([]string, len(f.nodes))
	for i, n := range f.nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, ", ")
}
