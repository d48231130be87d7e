package table

import (
	"fmt"

	"github.com/dshills/gridstorm/internal/engine/model"
	"github.com/dshills/gridstorm/internal/engine/state"
)

// FindNextCell returns the position of the cell after (dir > 0) or before
// (dir < 0) the cell at cell, moving across rows and skipping empty ones.
// It reports false at the edge of the table.
func FindNextCell(cell *model.ResolvedPos, dir int) (int, bool) {
	d := cell.Depth
	table := cell.Node(d - 1)
	if dir < 0 {
		if before := cell.NodeBefore(); before != nil {
			return cell.Pos - before.NodeSize(), true
		}
		rowEnd := cell.Before(d)
		for row := cell.Index(d-1) - 1; row >= 0; row-- {
			rowNode := table.Child(row)
			if last := rowNode.LastChild(); last != nil {
				return rowEnd - 1 - last.NodeSize(), true
			}
			rowEnd -= rowNode.NodeSize()
		}
		return 0, false
	}

	if cell.Index(d) < cell.Parent().ChildCount()-1 {
		return cell.Pos + cell.NodeAfter().NodeSize(), true
	}
	rowStart := cell.After(d)
	for row := cell.IndexAfter(d - 1); row < table.ChildCount(); row++ {
		rowNode := table.Child(row)
		if rowNode.ChildCount() > 0 {
			return rowStart + 1, true
		}
		rowStart += rowNode.NodeSize()
	}
	return 0, false
}

type goToNextCell struct {
	dir int
}

// GoToNextCell returns a command that selects the content of the next
// (dir > 0) or previous (dir < 0) cell. It does not apply to cell
// selections, outside tables, or at the table's edge.
func GoToNextCell(dir int) Command {
	if dir >= 0 {
		dir = 1
	} else {
		dir = -1
	}
	return &goToNextCell{dir: dir}
}

func (c *goToNextCell) Name() string { return "goToNextCell" }

func (c *goToNextCell) String() string { return fmt.Sprintf("goToNextCell(%d)", c.dir) }

func (c *goToNextCell) target(s *state.State) (int, bool) {
	if !IsInTable(s) {
		return 0, false
	}
	if _, ok := s.Selection().(state.CellSelection); ok {
		return 0, false
	}
	cell, err := SelectionCell(s)
	if err != nil {
		return 0, false
	}
	return FindNextCell(cell, c.dir)
}

func (c *goToNextCell) Check(s *state.State) bool {
	_, ok := c.target(s)
	return ok
}

func (c *goToNextCell) Build(s *state.State) (*state.Transaction, error) {
	pos, ok := c.target(s)
	if !ok {
		return nil, fmt.Errorf("goToNextCell: %w", ErrNotApplicable)
	}
	doc := s.Doc()
	cell := doc.NodeAt(pos)
	if cell == nil {
		return nil, fmt.Errorf("goToNextCell: %w: no cell at %d", ErrBrokenTable, pos)
	}
	tr := s.Tr()
	tr.SetSelection(state.TextSelectionBetween(doc, pos, pos+cell.NodeSize())).ScrollIntoView()
	return tr, nil
}
