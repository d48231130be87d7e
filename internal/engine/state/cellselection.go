package state

import (
	"fmt"

	"github.com/dshills/gridstorm/internal/engine/model"
	"github.com/dshills/gridstorm/internal/engine/transform"
	"github.com/dshills/gridstorm/internal/table/tablemap"
)

// CellSelection selects the rectangle of cells between an anchor cell and
// a head cell. Both positions point directly before a cell node.
type CellSelection struct {
	anchorCell, headCell int
}

// NewCellSelection creates a cell selection. Positions are used as given.
func NewCellSelection(anchorCell, headCell int) CellSelection {
	return CellSelection{anchorCell: anchorCell, headCell: headCell}
}

// CellSelectionIn checks that both positions point at cells of the same
// table before creating the selection.
func CellSelectionIn(doc *model.Node, anchorCell, headCell int) (CellSelection, error) {
	if !sameTableCells(doc, anchorCell, headCell) {
		return CellSelection{}, fmt.Errorf("%w: %d, %d", ErrNotCellSelection, anchorCell, headCell)
	}
	return CellSelection{anchorCell: anchorCell, headCell: headCell}, nil
}

// AnchorCell returns the position before the anchor cell.
func (s CellSelection) AnchorCell() int { return s.anchorCell }

// HeadCell returns the position before the head cell.
func (s CellSelection) HeadCell() int { return s.headCell }

// Anchor implements Selection.
func (s CellSelection) Anchor() int { return s.anchorCell }

// Head implements Selection.
func (s CellSelection) Head() int { return s.headCell }

// From implements Selection.
func (s CellSelection) From() int { return min(s.anchorCell, s.headCell) }

// To implements Selection.
func (s CellSelection) To() int { return max(s.anchorCell, s.headCell) }

// Empty implements Selection.
func (s CellSelection) Empty() bool { return false }

// Map implements Selection. When either end no longer points at a cell
// of a shared table the selection degrades to a text cursor.
func (s CellSelection) Map(doc *model.Node, m transform.Mappable) Selection {
	anchor := m.Map(s.anchorCell, 1)
	head := m.Map(s.headCell, 1)
	if sameTableCells(doc, anchor, head) {
		return CellSelection{anchorCell: anchor, headCell: head}
	}
	return Near(doc, anchor, 1)
}

// Eq implements Selection.
func (s CellSelection) Eq(other Selection) bool {
	o, ok := other.(CellSelection)
	return ok && o == s
}

func (s CellSelection) String() string {
	return fmt.Sprintf("cells(%d-%d)", s.anchorCell, s.headCell)
}

// table returns the table containing the anchor cell and its content
// start.
func (s CellSelection) table(doc *model.Node) (*model.Node, int, *model.ResolvedPos, error) {
	r, err := doc.Resolve(s.anchorCell)
	if err != nil {
		return nil, 0, nil, err
	}
	if r.Depth < 2 || r.Parent().Type().Role() != model.RoleRow {
		return nil, 0, nil, fmt.Errorf("%w: %d", ErrNotCellSelection, s.anchorCell)
	}
	return r.Node(r.Depth - 1), r.Start(r.Depth - 1), r, nil
}

// ForEachCell calls fn for every cell in the selected rectangle with its
// absolute position.
func (s CellSelection) ForEachCell(doc *model.Node, fn func(cell *model.Node, pos int)) error {
	table, start, _, err := s.table(doc)
	if err != nil {
		return err
	}
	m, err := tablemap.Get(table)
	if err != nil {
		return err
	}
	rect, err := m.RectBetween(s.anchorCell-start, s.headCell-start)
	if err != nil {
		return err
	}
	for _, pos := range m.CellsInRect(rect) {
		fn(table.NodeAt(pos), start+pos)
	}
	return nil
}

// IsColSelection reports whether the selection spans whole columns, from
// the top row to the bottom row.
func (s CellSelection) IsColSelection(doc *model.Node) bool {
	ra, err := doc.Resolve(s.anchorCell)
	if err != nil {
		return false
	}
	rh, err := doc.Resolve(s.headCell)
	if err != nil || ra.NodeAfter() == nil || rh.NodeAfter() == nil {
		return false
	}
	anchorTop, headTop := ra.Index(ra.Depth-1), rh.Index(rh.Depth-1)
	if min(anchorTop, headTop) > 0 {
		return false
	}
	_, anchorSpan := tablemap.Spans(ra.NodeAfter())
	_, headSpan := tablemap.Spans(rh.NodeAfter())
	return max(anchorTop+anchorSpan, headTop+headSpan) == rh.Node(rh.Depth-1).ChildCount()
}

// IsRowSelection reports whether the selection spans whole rows, from the
// first column to the last.
func (s CellSelection) IsRowSelection(doc *model.Node) bool {
	table, start, ra, err := s.table(doc)
	if err != nil {
		return false
	}
	m, err := tablemap.Get(table)
	if err != nil {
		return false
	}
	anchorLeft, err := m.ColCount(s.anchorCell - start)
	if err != nil {
		return false
	}
	headLeft, err := m.ColCount(s.headCell - start)
	if err != nil {
		return false
	}
	if min(anchorLeft, headLeft) > 0 {
		return false
	}
	head := doc.NodeAt(s.headCell)
	if head == nil {
		return false
	}
	anchorSpan, _ := tablemap.Spans(ra.NodeAfter())
	headSpan, _ := tablemap.Spans(head)
	return max(anchorLeft+anchorSpan, headLeft+headSpan) == m.Width
}

// sameTableCells reports whether both positions point directly before a
// cell and share a table.
func sameTableCells(doc *model.Node, a, b int) bool {
	ra, ok := cellPos(doc, a)
	if !ok {
		return false
	}
	rb, ok := cellPos(doc, b)
	if !ok {
		return false
	}
	return ra.Depth == rb.Depth && ra.Start(ra.Depth-1) == rb.Start(rb.Depth-1)
}

func cellPos(doc *model.Node, pos int) (*model.ResolvedPos, bool) {
	r, err := doc.Resolve(pos)
	if err != nil || r.Depth < 2 {
		return nil, false
	}
	if r.Parent().Type().Role() != model.RoleRow {
		return nil, false
	}
	after := r.NodeAfter()
	return r, after != nil && after.Type().Role().IsCell()
}
