package table

import (
	"fmt"

	"github.com/dshills/gridstorm/internal/engine/model"
	"github.com/dshills/gridstorm/internal/engine/state"
	"github.com/dshills/gridstorm/internal/table/tablemap"
)

// anchorCell returns the cell the selection is anchored in and its
// position: the anchor cell of a cell selection, or the cell around the
// cursor.
func anchorCell(s *state.State) (*model.Node, int, bool) {
	doc := s.Doc()
	pos := 0
	if sel, ok := s.Selection().(state.CellSelection); ok {
		pos = sel.AnchorCell()
	} else {
		head, err := doc.Resolve(s.Selection().Head())
		if err != nil {
			return nil, 0, false
		}
		cell, ok := CellAround(head)
		if !ok {
			return nil, 0, false
		}
		pos = cell.Pos
	}
	cell := doc.NodeAt(pos)
	if cell == nil || !cell.Type().Role().IsCell() {
		return nil, 0, false
	}
	return cell, pos, true
}

type setCellAttr struct {
	name  string
	value any
}

// SetCellAttr returns a command that sets attribute name to value on every
// selected cell. It does not apply when the anchor cell already holds the
// value.
func SetCellAttr(name string, value any) Command {
	return &setCellAttr{name: name, value: value}
}

func (c *setCellAttr) Name() string { return "setCellAttr" }

func (c *setCellAttr) String() string { return fmt.Sprintf("setCellAttr(%s=%v)", c.name, c.value) }

func (c *setCellAttr) Check(s *state.State) bool {
	if !IsInTable(s) {
		return false
	}
	cell, _, ok := anchorCell(s)
	return ok && !model.ValueEqual(cell.Attr(c.name), c.value)
}

func (c *setCellAttr) Build(s *state.State) (*state.Transaction, error) {
	if !c.Check(s) {
		return nil, fmt.Errorf("setCellAttr: %w", ErrNotApplicable)
	}
	tr := s.Tr()
	set := func(cell *model.Node, pos int) error {
		if model.ValueEqual(cell.Attr(c.name), c.value) {
			return nil
		}
		return tr.SetNodeMarkup(pos, nil, cell.Attrs().Set(c.name, c.value))
	}

	if sel, ok := s.Selection().(state.CellSelection); ok {
		var firstErr error
		err := sel.ForEachCell(s.Doc(), func(cell *model.Node, pos int) {
			if firstErr == nil {
				firstErr = set(cell, pos)
			}
		})
		if err == nil {
			err = firstErr
		}
		if err != nil {
			return nil, fmt.Errorf("setCellAttr: %w", err)
		}
		return tr, nil
	}

	cell, pos, _ := anchorCell(s)
	if err := set(cell, pos); err != nil {
		return nil, fmt.Errorf("setCellAttr: %w", err)
	}
	return tr, nil
}

// Scope selects which cells ToggleHeader affects.
type Scope int

const (
	// ScopeCell affects only the selected cells.
	ScopeCell Scope = iota
	// ScopeRow affects whole rows of the selection.
	ScopeRow
	// ScopeColumn affects whole columns of the selection.
	ScopeColumn
)

func (s Scope) String() string {
	switch s {
	case ScopeRow:
		return "row"
	case ScopeColumn:
		return "column"
	default:
		return "cell"
	}
}

// ToggleHeader returns a command that turns the header cells of the scoped
// area into data cells, or, when there are none, turns every cell of the
// area into a header cell.
func ToggleHeader(scope Scope) Command {
	name := "toggleHeaderCell"
	switch scope {
	case ScopeRow:
		name = "toggleHeaderRow"
	case ScopeColumn:
		name = "toggleHeaderColumn"
	}
	return &command{
		name: name,
		check: func(s *state.State) bool {
			cell, header := tableTypes(s.Schema())
			return cell != nil && header != nil && selectedRect(s)
		},
		apply: func(s *state.State, tr *state.Transaction) error {
			rect, err := SelectedRect(s)
			if err != nil {
				return err
			}
			cellType, headerType := tableTypes(s.Schema())
			m := rect.Map

			area := rect.Rect
			switch scope {
			case ScopeColumn:
				area = tablemap.Rect{Left: rect.Left, Top: 0, Right: rect.Right, Bottom: m.Height}
			case ScopeRow:
				area = tablemap.Rect{Left: 0, Top: rect.Top, Right: m.Width, Bottom: rect.Bottom}
			}

			positions := m.CellsInRect(area)
			cells := make([]*model.Node, len(positions))
			for i, pos := range positions {
				if cells[i], err = cellAt(rect.Table, pos); err != nil {
					return err
				}
			}

			for i, cell := range cells {
				if cell.Type().Role() == model.RoleHeaderCell {
					if err := tr.SetNodeMarkup(rect.TableStart+positions[i], cellType, cell.Attrs()); err != nil {
						return err
					}
				}
			}
			if tr.DocChanged() {
				return nil
			}
			for i, cell := range cells {
				if err := tr.SetNodeMarkup(rect.TableStart+positions[i], headerType, cell.Attrs()); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// ToggleHeaderRow toggles header cells in the selected rows.
var ToggleHeaderRow = ToggleHeader(ScopeRow)

// ToggleHeaderColumn toggles header cells in the selected columns.
var ToggleHeaderColumn = ToggleHeader(ScopeColumn)

// ToggleHeaderCell toggles header cells in the selected cells.
var ToggleHeaderCell = ToggleHeader(ScopeCell)
