package model

import (
	"fmt"
	"sync"
)

// ContentRule describes which children a node type accepts.
type ContentRule struct {
	// Allow lists node type names or group names accepted as children.
	// An empty list makes the type a leaf.
	Allow []string

	// Min is the minimum number of children.
	Min int

	// Fill names the type appended by CreateAndFill to reach Min.
	Fill string
}

// NodeSpec describes a node type when building a Schema.
type NodeSpec struct {
	Name    string
	Role    Role
	Group   string
	Content ContentRule
	Attrs   Attrs
	Text    bool
	Inline  bool
}

// NodeType is a node type belonging to a Schema.
type NodeType struct {
	Name string

	role     Role
	group    string
	content  ContentRule
	defaults Attrs
	text     bool
	inline   bool
	block    bool // accepts inline content
	allowed  map[*NodeType]bool
	fill     *NodeType
	schema   *Schema
}

// Role returns the table role of the type.
func (t *NodeType) Role() Role { return t.role }

// Group returns the group the type belongs to.
func (t *NodeType) Group() string { return t.group }

// Schema returns the schema the type belongs to.
func (t *NodeType) Schema() *Schema { return t.schema }

// IsText reports whether this is the text type.
func (t *NodeType) IsText() bool { return t.text }

// IsInline reports whether nodes of this type are inline.
func (t *NodeType) IsInline() bool { return t.inline }

// IsTextblock reports whether the type holds inline content.
func (t *NodeType) IsTextblock() bool { return t.block }

// IsLeaf reports whether the type accepts no content.
func (t *NodeType) IsLeaf() bool { return len(t.content.Allow) == 0 }

// Allows reports whether child may appear in the content of t.
func (t *NodeType) Allows(child *NodeType) bool { return t.allowed[child] }

// DefaultAttrs returns a copy of the type's default attributes.
func (t *NodeType) DefaultAttrs() Attrs { return t.defaults.Clone() }

// ComputeAttrs merges attrs over the type defaults. Unknown names are kept.
func (t *NodeType) ComputeAttrs(attrs Attrs) Attrs {
	out := t.defaults.Clone()
	for k, v := range attrs {
		out[k] = v
	}
	return out
}

// Create builds a node of this type with the given children. It does not
// check the content against the schema.
func (t *NodeType) Create(attrs Attrs, content ...*Node) *Node {
	return t.CreateFragment(attrs, NewFragment(content...))
}

// CreateFragment builds a node of this type holding content.
func (t *NodeType) CreateFragment(attrs Attrs, content Fragment) *Node {
	return &Node{typ: t, attrs: t.ComputeAttrs(attrs), content: content}
}

// CreateAndFill builds a node of this type and appends fill children until
// the minimum child count is met.
func (t *NodeType) CreateAndFill(attrs Attrs, content ...*Node) *Node {
	children := append([]*Node(nil), content...)
	if t.fill != nil {
		for len(children) < t.content.Min {
			children = append(children, t.fill.CreateAndFill(nil))
		}
	}
	return t.Create(attrs, children...)
}

func (t *NodeType) String() string { return t.Name }

// Schema is a set of node types.
type Schema struct {
	types map[string]*NodeType
	order []*NodeType
	text  *NodeType
}

// NewSchema builds a schema from specs. The first spec is the top node type.
func NewSchema(specs ...NodeSpec) (*Schema, error) {
	s := &Schema{types: make(map[string]*NodeType, len(specs))}
	groups := make(map[string][]*NodeType)
	for _, spec := range specs {
		if _, dup := s.types[spec.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateType, spec.Name)
		}
		t := &NodeType{
			Name:     spec.Name,
			role:     spec.Role,
			group:    spec.Group,
			content:  spec.Content,
			defaults: spec.Attrs.Clone(),
			text:     spec.Text,
			inline:   spec.Inline || spec.Text,
			allowed:  make(map[*NodeType]bool),
			schema:   s,
		}
		s.types[t.Name] = t
		s.order = append(s.order, t)
		if t.group != "" {
			groups[t.group] = append(groups[t.group], t)
		}
		if t.text && s.text == nil {
			s.text = t
		}
	}

	for _, t := range s.order {
		for _, name := range t.content.Allow {
			if child, ok := s.types[name]; ok {
				t.allowed[child] = true
				continue
			}
			members, ok := groups[name]
			if !ok {
				return nil, fmt.Errorf("%w: %s (in content of %s)", ErrUnknownType, name, t.Name)
			}
			for _, child := range members {
				t.allowed[child] = true
			}
		}
		for child := range t.allowed {
			if child.inline {
				t.block = true
			}
		}
		if t.content.Fill != "" {
			fill, ok := s.types[t.content.Fill]
			if !ok {
				return nil, fmt.Errorf("%w: fill type %s of %s", ErrUnknownType, t.content.Fill, t.Name)
			}
			t.fill = fill
		}
	}
	return s, nil
}

// MustSchema is like NewSchema but panics on error.
func MustSchema(specs ...NodeSpec) *Schema {
	s, err := NewSchema(specs...)
	if err != nil {
		panic(err)
	}
	return s
}

// Type returns the named node type, or nil.
func (s *Schema) Type(name string) *NodeType { return s.types[name] }

// TopType returns the type of document nodes.
func (s *Schema) TopType() *NodeType {
	if len(s.order) == 0 {
		return nil
	}
	return s.order[0]
}

// Types returns the node types in declaration order.
func (s *Schema) Types() []*NodeType { return append([]*NodeType(nil), s.order...) }

// ByRole returns the first node type with the given role, or nil.
func (s *Schema) ByRole(r Role) *NodeType {
	for _, t := range s.order {
		if t.role == r {
			return t
		}
	}
	return nil
}

// Text creates a text node. It panics if the schema has no text type or
// text is empty.
func (s *Schema) Text(text string) *Node {
	if s.text == nil {
		panic("model: schema has no text type")
	}
	if text == "" {
		panic("model: empty text node")
	}
	return &Node{typ: s.text, attrs: Attrs{}, text: text}
}

// Span limits of HTML tables. Decoders clamp colspan and rowspan to them.
const (
	MaxColspan = 1000
	MaxRowspan = 65534
)

// ClampSpan bounds a colspan or rowspan value to [1, limit].
func ClampSpan(span, limit int) int {
	return min(max(span, 1), limit)
}

var (
	defaultSchema     *Schema
	defaultSchemaOnce sync.Once
)

// DefaultSchema returns the built-in schema: documents of paragraphs,
// headings and tables.
func DefaultSchema() *Schema {
	defaultSchemaOnce.Do(func() {
		cellAttrs := Attrs{"colspan": 1, "rowspan": 1, "colwidth": nil, "background": nil}
		cellContent := ContentRule{Allow: []string{"block"}, Min: 1, Fill: "paragraph"}
		defaultSchema = MustSchema(
			NodeSpec{Name: "doc", Content: ContentRule{Allow: []string{"block"}, Min: 1, Fill: "paragraph"}},
			NodeSpec{Name: "paragraph", Group: "block", Content: ContentRule{Allow: []string{"inline"}}},
			NodeSpec{Name: "heading", Group: "block", Attrs: Attrs{"level": 1}, Content: ContentRule{Allow: []string{"inline"}}},
			NodeSpec{Name: "text", Group: "inline", Text: true},
			NodeSpec{Name: "table", Group: "block", Role: RoleTable, Content: ContentRule{Allow: []string{"table_row"}, Min: 1, Fill: "table_row"}},
			NodeSpec{Name: "table_row", Role: RoleRow, Content: ContentRule{Allow: []string{"table_cell", "table_header"}}},
			NodeSpec{Name: "table_cell", Role: RoleCell, Attrs: cellAttrs, Content: cellContent},
			NodeSpec{Name: "table_header", Role: RoleHeaderCell, Attrs: cellAttrs, Content: cellContent},
		)
	})
	return defaultSchema
}
