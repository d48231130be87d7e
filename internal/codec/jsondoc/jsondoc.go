// Package jsondoc reads and writes documents in the JSON node format:
//
//	{"type": "table_cell", "attrs": {"colspan": 2}, "content": [...]}
//	{"type": "text", "text": "hello"}
//
// Attributes missing from the input take the node type defaults. Marks
// are ignored on input and never written.
package jsondoc

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/gridstorm/internal/engine/model"
)

// Errors returned by the codec.
var (
	// ErrInvalidJSON indicates input that is not well-formed JSON.
	ErrInvalidJSON = errors.New("invalid JSON document")

	// ErrMissingType indicates a node object without a "type" string.
	ErrMissingType = errors.New("node has no type")

	// ErrInvalidNode indicates a node the schema cannot represent.
	ErrInvalidNode = errors.New("invalid node")
)

// Decode parses data into a document of the default schema.
func Decode(data []byte) (*model.Node, error) {
	return DecodeSchema(model.DefaultSchema(), data)
}

// DecodeSchema parses data into a document of schema. The result is
// checked against the schema before it is returned.
func DecodeSchema(schema *model.Schema, data []byte) (*model.Node, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: top level is not an object", ErrInvalidJSON)
	}

	doc, err := decodeNode(schema, root, "$")
	if err != nil {
		return nil, err
	}
	if doc.Type() != schema.TopType() {
		return nil, fmt.Errorf("%w: top node is %s, want %s", ErrInvalidNode, doc.Type().Name, schema.TopType().Name)
	}
	if err := doc.Check(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidNode, err)
	}
	return doc, nil
}

func decodeNode(schema *model.Schema, v gjson.Result, path string) (*model.Node, error) {
	if !v.IsObject() {
		return nil, fmt.Errorf("%w at %s: not an object", ErrInvalidNode, path)
	}
	typeName := v.Get("type")
	if typeName.Type != gjson.String {
		return nil, fmt.Errorf("%w at %s", ErrMissingType, path)
	}
	typ := schema.Type(typeName.String())
	if typ == nil {
		return nil, fmt.Errorf("%w at %s: %w: %s", ErrInvalidNode, path, model.ErrUnknownType, typeName.String())
	}

	if typ.IsText() {
		text := v.Get("text").String()
		if text == "" {
			return nil, fmt.Errorf("%w at %s: empty text", ErrInvalidNode, path)
		}
		return schema.Text(text), nil
	}

	attrs := model.Attrs{}
	v.Get("attrs").ForEach(func(key, value gjson.Result) bool {
		attrs[key.String()] = attrValue(value)
		return true
	})
	if typ.Role().IsCell() {
		clampSpans(attrs)
	}

	content := v.Get("content")
	if content.Exists() && !content.IsArray() {
		return nil, fmt.Errorf("%w at %s: content is not an array", ErrInvalidNode, path)
	}
	var children []*model.Node
	var childErr error
	content.ForEach(func(_, child gjson.Result) bool {
		n, err := decodeNode(schema, child, fmt.Sprintf("%s.content[%d]", path, len(children)))
		if err != nil {
			childErr = err
			return false
		}
		children = append(children, n)
		return true
	})
	if childErr != nil {
		return nil, childErr
	}
	return typ.Create(attrs, mergeText(schema, children)...), nil
}

// clampSpans bounds the span attributes present in attrs.
func clampSpans(attrs model.Attrs) {
	for key, limit := range map[string]int{"colspan": model.MaxColspan, "rowspan": model.MaxRowspan} {
		if _, ok := attrs[key]; ok {
			attrs[key] = model.ClampSpan(attrs.Int(key, 1), limit)
		}
	}
}

// attrValue converts a JSON attribute value. Integral numbers become int
// and arrays of integers become []int, the forms the table code uses.
func attrValue(v gjson.Result) any {
	switch v.Type {
	case gjson.Null:
		return nil
	case gjson.Number:
		if f := v.Float(); f == float64(int(f)) {
			return int(f)
		}
		return v.Float()
	case gjson.String:
		return v.String()
	case gjson.True, gjson.False:
		return v.Bool()
	}

	if v.IsArray() {
		items := v.Array()
		ints := make([]int, 0, len(items))
		for _, item := range items {
			n, ok := attrValue(item).(int)
			if !ok {
				out := make([]any, len(items))
				for i, it := range items {
					out[i] = attrValue(it)
				}
				return out
			}
			ints = append(ints, n)
		}
		return ints
	}

	out := map[string]any{}
	v.ForEach(func(key, value gjson.Result) bool {
		out[key.String()] = attrValue(value)
		return true
	})
	return out
}

// mergeText joins adjacent text nodes.
func mergeText(schema *model.Schema, nodes []*model.Node) []*model.Node {
	out := nodes[:0:0]
	for _, n := range nodes {
		if last := len(out) - 1; last >= 0 && n.IsText() && out[last].IsText() {
			out[last] = schema.Text(out[last].Text() + n.Text())
			continue
		}
		out = append(out, n)
	}
	return out
}

// Encode renders doc as compact JSON. Attribute keys are written in
// sorted order, so equal documents encode identically.
func Encode(doc *model.Node) ([]byte, error) {
	return encodeNode(doc)
}

func encodeNode(n *model.Node) ([]byte, error) {
	out := []byte(`{}`)
	var err error

	if out, err = sjson.SetBytes(out, "type", n.Type().Name); err != nil {
		return nil, err
	}
	if n.IsText() {
		return sjson.SetBytes(out, "text", n.Text())
	}

	attrs := n.Attrs()
	if len(attrs) > 0 {
		keys := make([]string, 0, len(attrs))
		for k := range attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if out, err = sjson.SetBytes(out, "attrs."+escapeKey(k), attrs[k]); err != nil {
				return nil, fmt.Errorf("attribute %s of %s: %w", k, n.Type().Name, err)
			}
		}
	}

	if n.ChildCount() > 0 {
		if out, err = sjson.SetRawBytes(out, "content", []byte(`[]`)); err != nil {
			return nil, err
		}
		for i := 0; i < n.ChildCount(); i++ {
			child, err := encodeNode(n.Child(i))
			if err != nil {
				return nil, err
			}
			if out, err = sjson.SetRawBytes(out, "content.-1", child); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

var keyEscaper = strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`, "|", `\|`, "#", `\#`, "@", `\@`)

// escapeKey quotes the sjson path syntax characters in an attribute name.
func escapeKey(k string) string {
	return keyEscaper.Replace(k)
}
