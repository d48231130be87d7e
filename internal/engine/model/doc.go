// Package model provides the immutable document tree edited by the engine.
//
// A document is a tree of Nodes. Every node has a NodeType (looked up in a
// Schema), an attribute map, and either child content (a Fragment) or text.
// Nodes are never modified in place; every edit produces a new tree that
// shares unchanged subtrees with the old one.
//
// # Positions
//
// Locations in a document are integer positions into a flattened token
// stream. Entering or leaving a non-leaf node counts as one token, every
// rune of text counts as one token, and leaf nodes count as one token:
//
//	doc( table( row( cell( paragraph("ab") ) ) ) )
//	0    1      2    3     4           5 6
//
// Resolve turns a position into a ResolvedPos, which knows the ancestors
// of that position and the index of the position in each of them.
//
// # Roles
//
// Node types carry a Role so that table code can ask "is this a row?"
// without comparing type names. The default schema assigns RoleTable,
// RoleRow, RoleCell and RoleHeaderCell to its table node types.
package model
