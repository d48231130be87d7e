package model

import "fmt"

// boundaryRange resolves [from, to] and checks that both ends fall on child
// boundaries of the same parent.
func (n *Node) boundaryRange(from, to int) (*ResolvedPos, *ResolvedPos, error) {
	if from > to {
		return nil, nil, fmt.Errorf("%w: from %d after to %d", ErrInvalidReplace, from, to)
	}
	rf, err := n.Resolve(from)
	if err != nil {
		return nil, nil, err
	}
	rt, err := n.Resolve(to)
	if err != nil {
		return nil, nil, err
	}
	if rf.Depth != rt.Depth || rf.Start(rf.Depth) != rt.Start(rt.Depth) {
		return nil, nil, fmt.Errorf("%w: %d and %d have different parents", ErrInvalidReplace, from, to)
	}
	if rf.TextOffset() != 0 || rt.TextOffset() != 0 {
		return nil, nil, fmt.Errorf("%w: %d..%d splits a text node", ErrInvalidReplace, from, to)
	}
	return rf, rt, nil
}

// Slice returns the nodes between from and to, which must lie in the same
// parent on child boundaries.
func (n *Node) Slice(from, to int) (Fragment, error) {
	rf, rt, err := n.boundaryRange(from, to)
	if err != nil {
		return EmptyFragment, err
	}
	return rf.Parent().content.Cut(rf.Index(rf.Depth), rt.Index(rt.Depth)), nil
}

// Replace returns a copy of n with the nodes between from and to replaced
// by content. Both ends must lie in the same parent on child boundaries,
// and the parent must allow every inserted node.
func (n *Node) Replace(from, to int, content Fragment) (*Node, error) {
	rf, rt, err := n.boundaryRange(from, to)
	if err != nil {
		return nil, err
	}
	parent := rf.Parent()
	for _, child := range content.nodes {
		if !parent.typ.Allows(child.typ) {
			return nil, fmt.Errorf("%w: %s not allowed in %s", ErrInvalidReplace, child.typ.Name, parent.typ.Name)
		}
	}
	d := rf.Depth
	updated := parent.Copy(parent.content.Splice(rf.Index(d), rt.Index(d), content))
	return rf.rebuild(d, updated), nil
}

// ReplaceNodeAt returns a copy of n with the node starting at pos replaced
// by node.
func (n *Node) ReplaceNodeAt(pos int, node *Node) (*Node, error) {
	r, err := n.Resolve(pos)
	if err != nil {
		return nil, err
	}
	if r.TextOffset() != 0 || r.NodeAfter() == nil {
		return nil, fmt.Errorf("%w: no node at %d", ErrInvalidReplace, pos)
	}
	parent := r.Parent()
	if !parent.typ.Allows(node.typ) {
		return nil, fmt.Errorf("%w: %s not allowed in %s", ErrInvalidReplace, node.typ.Name, parent.typ.Name)
	}
	d := r.Depth
	updated := parent.Copy(parent.content.ReplaceChild(r.Index(d), node))
	return r.rebuild(d, updated), nil
}

// rebuild replaces the ancestor at depth d with node and copies every
// ancestor above it.
func (r *ResolvedPos) rebuild(d int, node *Node) *Node {
	for d--; d >= 0; d-- {
		parent := r.path[d].node
		node = parent.Copy(parent.content.ReplaceChild(r.path[d].index, node))
	}
	return node
}
