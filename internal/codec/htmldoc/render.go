package htmldoc

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dshills/gridstorm/internal/engine/model"
)

// Encode writes the blocks of doc as an HTML fragment, one block per line.
func Encode(w io.Writer, doc *model.Node) error {
	for i := 0; i < doc.ChildCount(); i++ {
		n, err := renderBlock(doc.Child(i))
		if err != nil {
			return err
		}
		if err := html.Render(w, n); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// EncodeString renders doc to a string.
func EncodeString(doc *model.Node) (string, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func renderBlock(n *model.Node) (*html.Node, error) {
	switch {
	case n.Type().Role() == model.RoleTable:
		return renderTable(n)
	case n.Type().Name == "heading":
		level := n.Attrs().Int("level", 1)
		if level < 1 || level > 6 {
			level = 1
		}
		h := element(headingAtoms[level-1])
		appendText(h, n)
		return h, nil
	case n.IsTextblock():
		p := element(atom.P)
		appendText(p, n)
		return p, nil
	}
	return nil, fmt.Errorf("%w: cannot render %s", ErrInvalidDocument, n.Type().Name)
}

var headingAtoms = [...]atom.Atom{atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6}

func appendText(el *html.Node, n *model.Node) {
	if text := n.TextContent(); text != "" {
		el.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
}

func renderTable(t *model.Node) (*html.Node, error) {
	table := element(atom.Table)
	tbody := element(atom.Tbody)
	table.AppendChild(tbody)

	for i := 0; i < t.ChildCount(); i++ {
		row := t.Child(i)
		tr := element(atom.Tr)
		for j := 0; j < row.ChildCount(); j++ {
			td, err := renderCell(row.Child(j))
			if err != nil {
				return nil, err
			}
			tr.AppendChild(td)
		}
		tbody.AppendChild(tr)
	}
	return table, nil
}

func renderCell(cell *model.Node) (*html.Node, error) {
	a := atom.Td
	if cell.Type().Role() == model.RoleHeaderCell {
		a = atom.Th
	}

	attrs := cell.Attrs()
	var htmlAttrs []html.Attribute
	if span := attrs.Int("colspan", 1); span != 1 {
		htmlAttrs = append(htmlAttrs, html.Attribute{Key: "colspan", Val: strconv.Itoa(span)})
	}
	if span := attrs.Int("rowspan", 1); span != 1 {
		htmlAttrs = append(htmlAttrs, html.Attribute{Key: "rowspan", Val: strconv.Itoa(span)})
	}
	if widths := attrs.Ints("colwidth"); len(widths) > 0 {
		parts := make([]string, len(widths))
		for i, w := range widths {
			parts[i] = strconv.Itoa(w)
		}
		htmlAttrs = append(htmlAttrs, html.Attribute{Key: "data-colwidth", Val: strings.Join(parts, ",")})
	}
	if bg := attrs.String("background"); bg != "" {
		htmlAttrs = append(htmlAttrs, html.Attribute{Key: "style", Val: "background-color: " + bg})
	}

	td := element(a, htmlAttrs...)
	for i := 0; i < cell.ChildCount(); i++ {
		block, err := renderBlock(cell.Child(i))
		if err != nil {
			return nil, err
		}
		td.AppendChild(block)
	}
	return td, nil
}
