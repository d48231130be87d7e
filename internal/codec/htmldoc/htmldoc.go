// Package htmldoc reads and writes documents as HTML.
//
// Tables map to <table>, <tr>, <td> and <th> with colspan and rowspan
// attributes. Column widths travel in data-colwidth as a comma separated
// list and the cell background in the style background-color property.
// Paragraphs map to <p> and headings to <h1> through <h6>. Other inline
// markup is flattened to its text.
package htmldoc

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dshills/gridstorm/internal/engine/model"
)

// ErrInvalidDocument indicates HTML that does not map onto the schema.
var ErrInvalidDocument = errors.New("invalid HTML document")

// Decode parses r into a document of the default schema.
func Decode(r io.Reader) (*model.Node, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	body := findBody(root)
	if body == nil {
		body = root
	}

	p := &parser{schema: model.DefaultSchema()}
	blocks := p.blocks(body)
	doc := p.schema.TopType().CreateAndFill(nil, blocks...)
	if err := doc.Check(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return doc, nil
}

// DecodeString parses an HTML string.
func DecodeString(s string) (*model.Node, error) {
	return Decode(strings.NewReader(s))
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

type parser struct {
	schema *model.Schema
}

// blocks converts the children of n into block nodes. Runs of inline
// content between blocks are wrapped in paragraphs.
func (p *parser) blocks(n *html.Node) []*model.Node {
	var out []*model.Node
	var inline strings.Builder

	flush := func() {
		if text := collapseSpace(inline.String()); text != "" {
			out = append(out, p.textblock("paragraph", nil, text))
		}
		inline.Reset()
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode:
			inline.WriteString(c.Data)
		case c.Type != html.ElementNode:
		case c.DataAtom == atom.Table:
			flush()
			out = append(out, p.table(c))
		case c.DataAtom == atom.P:
			flush()
			out = append(out, p.textblock("paragraph", nil, collapseSpace(textOf(c))))
		case headingLevel(c) > 0:
			flush()
			out = append(out, p.textblock("heading", model.Attrs{"level": headingLevel(c)}, collapseSpace(textOf(c))))
		case isContainer(c):
			flush()
			out = append(out, p.blocks(c)...)
		case c.DataAtom == atom.Br:
			inline.WriteString(" ")
		default:
			inline.WriteString(textOf(c))
		}
	}
	flush()
	return out
}

func (p *parser) textblock(typ string, attrs model.Attrs, text string) *model.Node {
	if text == "" {
		return p.schema.Type(typ).Create(attrs)
	}
	return p.schema.Type(typ).Create(attrs, p.schema.Text(text))
}

func (p *parser) table(n *html.Node) *model.Node {
	var rows []*model.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Thead, atom.Tbody, atom.Tfoot:
				walk(c)
			case atom.Tr:
				rows = append(rows, p.row(c))
			}
		}
	}
	walk(n)
	return p.schema.Type("table").CreateAndFill(nil, rows...)
}

func (p *parser) row(n *html.Node) *model.Node {
	var cells []*model.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.Td:
			cells = append(cells, p.cell("table_cell", c))
		case atom.Th:
			cells = append(cells, p.cell("table_header", c))
		}
	}
	return p.schema.Type("table_row").Create(nil, cells...)
}

func (p *parser) cell(typ string, n *html.Node) *model.Node {
	attrs := model.Attrs{
		"colspan": spanAttr(n, "colspan", model.MaxColspan),
		"rowspan": spanAttr(n, "rowspan", model.MaxRowspan),
	}
	if widths := colwidthAttr(n, attrs.Int("colspan", 1)); widths != nil {
		attrs["colwidth"] = widths
	}
	if bg := backgroundOf(n); bg != "" {
		attrs["background"] = bg
	}

	content := p.blocks(n)
	for i, b := range content {
		if b.Type().Role() == model.RoleTable {
			// Nested tables are flattened to their text.
			content[i] = p.textblock("paragraph", nil, collapseSpace(b.TextContent()))
		}
	}
	return p.schema.Type(typ).CreateAndFill(attrs, content...)
}

func getAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// spanAttr reads a colspan or rowspan attribute. Missing, malformed and
// non-positive values read as 1; larger values than limit read as limit.
func spanAttr(n *html.Node, key string, limit int) int {
	v, ok := getAttr(n, key)
	if !ok {
		return 1
	}
	span, err := strconv.Atoi(strings.TrimSpace(v))
	if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(strings.TrimSpace(v), "-") {
		return limit
	}
	if err != nil {
		return 1
	}
	return model.ClampSpan(span, limit)
}

// colwidthAttr reads data-colwidth. The list must hold one positive width
// per spanned column; anything else is dropped.
func colwidthAttr(n *html.Node, colspan int) []int {
	v, ok := getAttr(n, "data-colwidth")
	if !ok {
		return nil
	}
	parts := strings.Split(v, ",")
	if len(parts) != colspan {
		return nil
	}
	widths := make([]int, len(parts))
	for i, part := range parts {
		w, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || w <= 0 {
			return nil
		}
		widths[i] = w
	}
	return widths
}

func backgroundOf(n *html.Node) string {
	style, ok := getAttr(n, "style")
	if !ok {
		return ""
	}
	for _, decl := range strings.Split(style, ";") {
		name, value, found := strings.Cut(decl, ":")
		if found && strings.EqualFold(strings.TrimSpace(name), "background-color") {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func headingLevel(n *html.Node) int {
	switch n.DataAtom {
	case atom.H1:
		return 1
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	case atom.H4:
		return 4
	case atom.H5:
		return 5
	case atom.H6:
		return 6
	}
	return 0
}

func isContainer(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Div, atom.Section, atom.Article, atom.Main, atom.Header, atom.Footer,
		atom.Blockquote, atom.Ul, atom.Ol, atom.Li:
		return true
	}
	return false
}

// textOf returns the concatenated text below n.
func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
		case n.Type == html.ElementNode && n.DataAtom == atom.Br:
			b.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// collapseSpace replaces whitespace runs with one space and trims the ends.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
