package table

import (
	"fmt"

	"github.com/dshills/gridstorm/internal/engine/model"
	"github.com/dshills/gridstorm/internal/engine/state"
	"github.com/dshills/gridstorm/internal/table/tablemap"
)

// Rect is a rectangle of a table's grid together with the table it was
// computed for.
type Rect struct {
	tablemap.Rect

	Map        *tablemap.TableMap
	Table      *model.Node
	TableStart int
}

// refresh re-reads the table from doc after the rectangle's table was
// changed by a transaction.
func (r *Rect) refresh(doc *model.Node) error {
	table := doc
	if r.TableStart > 0 {
		table = doc.NodeAt(r.TableStart - 1)
	}
	if table == nil {
		return fmt.Errorf("%w: no table at %d", ErrBrokenTable, r.TableStart-1)
	}
	m, err := tablemap.Get(table)
	if err != nil {
		return err
	}
	r.Table, r.Map = table, m
	return nil
}

// IsInTable reports whether the selection head lies inside a table row.
func IsInTable(s *state.State) bool {
	r, err := s.Doc().Resolve(s.Selection().Head())
	if err != nil {
		return false
	}
	for d := r.Depth; d > 0; d-- {
		if r.Node(d).Type().Role() == model.RoleRow {
			return true
		}
	}
	return false
}

// CellAround returns the resolved position directly before the innermost
// cell containing pos.
func CellAround(pos *model.ResolvedPos) (*model.ResolvedPos, bool) {
	for d := pos.Depth - 1; d > 0; d-- {
		if pos.Node(d).Type().Role() == model.RoleRow {
			cell, err := pos.Doc().Resolve(pos.Before(d + 1))
			if err != nil {
				return nil, false
			}
			return cell, true
		}
	}
	return nil, false
}

// SelectionCell returns the resolved position before the cell the
// selection is anchored to. For a cell selection this is the later of its
// two cells; otherwise the cell around the head.
func SelectionCell(s *state.State) (*model.ResolvedPos, error) {
	doc := s.Doc()
	if sel, ok := s.Selection().(state.CellSelection); ok {
		return doc.Resolve(max(sel.AnchorCell(), sel.HeadCell()))
	}
	head, err := doc.Resolve(s.Selection().Head())
	if err != nil {
		return nil, err
	}
	cell, ok := CellAround(head)
	if !ok {
		return nil, ErrNotInTable
	}
	return cell, nil
}

// SelectedRect returns the grid rectangle covered by the selection.
func SelectedRect(s *state.State) (Rect, error) {
	cell, err := SelectionCell(s)
	if err != nil {
		return Rect{}, err
	}
	if cell.Depth < 1 || cell.Parent().Type().Role() != model.RoleRow {
		return Rect{}, ErrNotInTable
	}
	table := cell.Node(cell.Depth - 1)
	tableStart := cell.Start(cell.Depth - 1)
	m, err := tablemap.Get(table)
	if err != nil {
		return Rect{}, err
	}

	var rect tablemap.Rect
	if sel, ok := s.Selection().(state.CellSelection); ok {
		rect, err = m.RectBetween(sel.AnchorCell()-tableStart, sel.HeadCell()-tableStart)
	} else {
		rect, err = m.FindCell(cell.Pos - tableStart)
	}
	if err != nil {
		return Rect{}, err
	}
	return Rect{Rect: rect, Map: m, Table: table, TableStart: tableStart}, nil
}

// CellsOverlapRectangle reports whether any cell straddles an edge of r,
// covering slots both inside and outside it.
func CellsOverlapRectangle(m *tablemap.TableMap, r tablemap.Rect) bool {
	w, h := m.Width, m.Height
	indexTop := r.Top*w + r.Left
	indexLeft := indexTop
	indexBottom := (r.Bottom-1)*w + r.Left
	indexRight := indexTop + (r.Right - r.Left - 1)
	for i := r.Top; i < r.Bottom; i++ {
		if (r.Left > 0 && m.Map[indexLeft] == m.Map[indexLeft-1]) ||
			(r.Right < w && m.Map[indexRight] == m.Map[indexRight+1]) {
			return true
		}
		indexLeft += w
		indexRight += w
	}
	for i := r.Left; i < r.Right; i++ {
		if (r.Top > 0 && m.Map[indexTop] == m.Map[indexTop-w]) ||
			(r.Bottom < h && m.Map[indexBottom] == m.Map[indexBottom+w]) {
			return true
		}
		indexTop++
		indexBottom++
	}
	return false
}

// ColumnIsHeader reports whether every cell of column col is a header
// cell.
func ColumnIsHeader(m *tablemap.TableMap, table *model.Node, col int) bool {
	if col < 0 || col >= m.Width {
		return false
	}
	for row := 0; row < m.Height; row++ {
		if !isHeaderAt(table, m.Map[col+row*m.Width]) {
			return false
		}
	}
	return true
}

// RowIsHeader reports whether every cell of row row is a header cell.
func RowIsHeader(m *tablemap.TableMap, table *model.Node, row int) bool {
	if row < 0 || row >= m.Height {
		return false
	}
	for col := 0; col < m.Width; col++ {
		if !isHeaderAt(table, m.Map[col+row*m.Width]) {
			return false
		}
	}
	return true
}

func isHeaderAt(table *model.Node, pos int) bool {
	n := table.NodeAt(pos)
	return n != nil && n.Type().Role() == model.RoleHeaderCell
}

// cellAt returns the cell starting at pos in table.
func cellAt(table *model.Node, pos int) (*model.Node, error) {
	n := table.NodeAt(pos)
	if n == nil || !n.Type().Role().IsCell() {
		return nil, fmt.Errorf("%w: no cell at %d", ErrBrokenTable, pos)
	}
	return n, nil
}

// tableTypes returns the cell and header cell types of schema.
func tableTypes(schema *model.Schema) (cell, header *model.NodeType) {
	return schema.ByRole(model.RoleCell), schema.ByRole(model.RoleHeaderCell)
}
