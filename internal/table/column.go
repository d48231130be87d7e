package table

import (
	"github.com/dshills/gridstorm/internal/engine/state"
)

// AddColumn adds a column at index col to the table of rect. Cells that
// span across col grow instead of receiving a new neighbour.
//
// New cells copy the type of the cell in the reference column, which is
// the column to the left (or the first column when inserting at 0). When
// that column consists of header cells only, an interior insertion copies
// column col itself and an insertion at either table edge creates plain
// cells.
func AddColumn(tr *state.Transaction, rect Rect, col int) error {
	m, table, tableStart := rect.Map, rect.Table, rect.TableStart
	cellType, _ := tableTypes(table.Type().Schema())

	refColumn, useRef := -1, true
	if col == 0 {
		refColumn = 0
	}
	if ColumnIsHeader(m, table, col+refColumn) {
		if col == 0 || col == m.Width {
			useRef = false
		} else {
			refColumn = 0
		}
	}

	for row := 0; row < m.Height; row++ {
		index := row*m.Width + col
		if col > 0 && col < m.Width && m.Map[index-1] == m.Map[index] {
			pos := m.Map[index]
			cell, err := cellAt(table, pos)
			if err != nil {
				return err
			}
			left, err := m.ColCount(pos)
			if err != nil {
				return err
			}
			attrs := addColSpan(cell.Attrs(), col-left, 1)
			if err := tr.SetNodeMarkup(tr.Mapping().Map(tableStart+pos, 1), nil, attrs); err != nil {
				return err
			}
			row += rowspanOf(cell) - 1
			continue
		}

		typ := cellType
		if ref := index + refColumn; useRef && ref >= 0 && ref < len(m.Map) {
			refCell, err := cellAt(table, m.Map[ref])
			if err != nil {
				return err
			}
			typ = refCell.Type()
		}
		pos := m.PositionAt(row, col, table)
		if err := tr.Insert(tr.Mapping().Map(tableStart+pos, 1), typ.CreateAndFill(nil)); err != nil {
			return err
		}
	}
	return nil
}

// RemoveColumn removes column col from the table of rect. Cells spanning
// more than col shrink; cells covering only col are deleted.
func RemoveColumn(tr *state.Transaction, rect Rect, col int) error {
	m, table, tableStart := rect.Map, rect.Table, rect.TableStart
	mapStart := tr.Mapping().Len()

	for row := 0; row < m.Height; {
		index := row*m.Width + col
		pos := m.Map[index]
		cell, err := cellAt(table, pos)
		if err != nil {
			return err
		}
		mapped := tr.Mapping().Slice(mapStart).Map(tableStart+pos, 1)

		if (col > 0 && m.Map[index-1] == pos) || (col < m.Width-1 && m.Map[index+1] == pos) {
			left, err := m.ColCount(pos)
			if err != nil {
				return err
			}
			if err := tr.SetNodeMarkup(mapped, nil, removeColSpan(cell.Attrs(), col-left, 1)); err != nil {
				return err
			}
		} else if err := tr.Delete(mapped, mapped+cell.NodeSize()); err != nil {
			return err
		}
		row += rowspanOf(cell)
	}
	return nil
}

// AddColumnBefore adds a column before the selected columns.
var AddColumnBefore Command = &command{
	name:  "addColumnBefore",
	check: selectedRect,
	apply: func(s *state.State, tr *state.Transaction) error {
		rect, err := SelectedRect(s)
		if err != nil {
			return err
		}
		return AddColumn(tr, rect, rect.Left)
	},
}

// AddColumnAfter adds a column after the selected columns.
var AddColumnAfter Command = &command{
	name:  "addColumnAfter",
	check: selectedRect,
	apply: func(s *state.State, tr *state.Transaction) error {
		rect, err := SelectedRect(s)
		if err != nil {
			return err
		}
		return AddColumn(tr, rect, rect.Right)
	},
}

// DeleteColumn removes the selected columns. It does not apply when every
// column is selected.
var DeleteColumn Command = &command{
	name: "deleteColumn",
	check: func(s *state.State) bool {
		if !IsInTable(s) {
			return false
		}
		rect, err := SelectedRect(s)
		return err == nil && !(rect.Left == 0 && rect.Right == rect.Map.Width)
	},
	apply: func(s *state.State, tr *state.Transaction) error {
		rect, err := SelectedRect(s)
		if err != nil {
			return err
		}
		for i := rect.Right - 1; ; i-- {
			if err := RemoveColumn(tr, rect, i); err != nil {
				return err
			}
			if i == rect.Left {
				return nil
			}
			if err := rect.refresh(tr.Doc()); err != nil {
				return err
			}
		}
	},
}
