package table

import (
	"fmt"

	"github.com/dshills/gridstorm/internal/engine/model"
	"github.com/dshills/gridstorm/internal/engine/state"
	"github.com/dshills/gridstorm/internal/table/tablemap"
)

// Located is a table found in a document.
type Located struct {
	Node *model.Node
	// Pos is the position directly before the table.
	Pos int
}

// Start returns the position where the table's content starts.
func (l Located) Start() int { return l.Pos + 1 }

// Map returns the table's grid map.
func (l Located) Map() (*tablemap.TableMap, error) { return tablemap.Get(l.Node) }

// Tables returns the tables of doc in document order. Tables nested in
// cells follow the table that contains them.
func Tables(doc *model.Node) []Located {
	var tables []Located
	doc.Descendants(func(n *model.Node, pos int, _ *model.Node, _ int) bool {
		if n.Type().Role() == model.RoleTable {
			tables = append(tables, Located{Node: n, Pos: pos})
		}
		return !n.IsTextblock()
	})
	return tables
}

// TableAt returns the index'th table of doc.
func TableAt(doc *model.Node, index int) (Located, error) {
	tables := Tables(doc)
	if index < 0 || index >= len(tables) {
		return Located{}, fmt.Errorf("%w: index %d of %d", ErrNoTable, index, len(tables))
	}
	return tables[index], nil
}

// CellPosAt returns the absolute position before the cell covering
// (row, col) of the index'th table.
func CellPosAt(doc *model.Node, index, row, col int) (int, error) {
	t, err := TableAt(doc, index)
	if err != nil {
		return 0, err
	}
	m, err := t.Map()
	if err != nil {
		return 0, err
	}
	if row < 0 || row >= m.Height || col < 0 || col >= m.Width {
		return 0, fmt.Errorf("%w: (%d, %d) in a %dx%d table", ErrOutsideGrid, row, col, m.Height, m.Width)
	}
	return t.Start() + m.Map[row*m.Width+col], nil
}

// SelectCellRange returns a cell selection from the cell at (r1, c1) to
// the cell at (r2, c2) of the index'th table.
func SelectCellRange(doc *model.Node, index, r1, c1, r2, c2 int) (state.CellSelection, error) {
	anchor, err := CellPosAt(doc, index, r1, c1)
	if err != nil {
		return state.CellSelection{}, err
	}
	head, err := CellPosAt(doc, index, r2, c2)
	if err != nil {
		return state.CellSelection{}, err
	}
	return state.CellSelectionIn(doc, anchor, head)
}

// CursorInCell returns a cursor at the first text position of the cell
// covering (row, col) of the index'th table.
func CursorInCell(doc *model.Node, index, row, col int) (state.Selection, error) {
	pos, err := CellPosAt(doc, index, row, col)
	if err != nil {
		return nil, err
	}
	return state.Near(doc, pos+1, 1), nil
}

// CellText returns the text content of the cell covering (row, col) of
// the index'th table.
func CellText(doc *model.Node, index, row, col int) (string, error) {
	pos, err := CellPosAt(doc, index, row, col)
	if err != nil {
		return "", err
	}
	cell := doc.NodeAt(pos)
	if cell == nil {
		return "", fmt.Errorf("%w: no cell at %d", ErrBrokenTable, pos)
	}
	return cell.TextContent(), nil
}
