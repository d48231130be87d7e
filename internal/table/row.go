package table

import (
	"github.com/dshills/gridstorm/internal/engine/model"
	"github.com/dshills/gridstorm/internal/engine/state"
)

// rowPos returns the offset of row within the table's content.
func rowPos(table *model.Node, row int) int {
	pos := 0
	for i := 0; i < row; i++ {
		pos += table.Child(i).NodeSize()
	}
	return pos
}

// AddRow adds a row at index row to the table of rect. Cells spanning
// down across row grow instead of receiving a new neighbour. Cell types
// follow the same reference rules as AddColumn, applied to rows.
func AddRow(tr *state.Transaction, rect Rect, row int) error {
	m, table, tableStart := rect.Map, rect.Table, rect.TableStart
	schema := table.Type().Schema()
	cellType, _ := tableTypes(schema)
	rowType := schema.ByRole(model.RoleRow)

	refRow, useRef := -1, true
	if row == 0 {
		refRow = 0
	}
	if RowIsHeader(m, table, row+refRow) {
		if row == 0 || row == m.Height {
			useRef = false
		} else {
			refRow = 0
		}
	}

	var cells []*model.Node
	for col := 0; col < m.Width; col++ {
		index := row*m.Width + col
		if row > 0 && row < m.Height && m.Map[index] == m.Map[index-m.Width] {
			pos := m.Map[index]
			cell, err := cellAt(table, pos)
			if err != nil {
				return err
			}
			attrs := cell.Attrs().Set("rowspan", rowspanOf(cell)+1)
			if err := tr.SetNodeMarkup(tr.Mapping().Map(tableStart+pos, 1), nil, attrs); err != nil {
				return err
			}
			col += colspanOf(cell) - 1
			continue
		}

		typ := cellType
		if ref := index + refRow*m.Width; useRef && ref >= 0 && ref < len(m.Map) {
			refCell, err := cellAt(table, m.Map[ref])
			if err != nil {
				return err
			}
			typ = refCell.Type()
		}
		cells = append(cells, typ.CreateAndFill(nil))
	}
	pos := tr.Mapping().Map(tableStart+rowPos(table, row), 1)
	return tr.Insert(pos, rowType.Create(nil, cells...))
}

// RemoveRow removes row row from the table of rect. Cells reaching into
// it from above shrink; cells starting in it and continuing below are
// moved to the next row with their content.
func RemoveRow(tr *state.Transaction, rect Rect, row int) error {
	m, table, tableStart := rect.Map, rect.Table, rect.TableStart
	start := rowPos(table, row)
	next := start + table.Child(row).NodeSize()

	mapFrom := tr.Mapping().Len()
	if err := tr.Delete(tableStart+start, tableStart+next); err != nil {
		return err
	}

	seen := make(map[int]bool)
	for col := 0; col < m.Width; col++ {
		index := row*m.Width + col
		pos := m.Map[index]
		if seen[pos] {
			continue
		}
		seen[pos] = true

		switch {
		case row > 0 && pos == m.Map[index-m.Width]:
			cell, err := cellAt(table, pos)
			if err != nil {
				return err
			}
			attrs := cell.Attrs().Set("rowspan", rowspanOf(cell)-1)
			mapped := tr.Mapping().Slice(mapFrom).Map(tableStart+pos, 1)
			if err := tr.SetNodeMarkup(mapped, nil, attrs); err != nil {
				return err
			}
			col += colspanOf(cell) - 1

		case row+1 < m.Height && pos == m.Map[index+m.Width]:
			cell, err := cellAt(table, pos)
			if err != nil {
				return err
			}
			moved := cell.Type().CreateFragment(cell.Attrs().Set("rowspan", rowspanOf(cell)-1), cell.Content())
			newPos := m.PositionAt(row+1, col, table)
			if err := tr.Insert(tr.Mapping().Slice(mapFrom).Map(tableStart+newPos, 1), moved); err != nil {
				return err
			}
			col += colspanOf(cell) - 1
		}
	}
	return nil
}

// AddRowBefore adds a row above the selected rows.
var AddRowBefore Command = &command{
	name:  "addRowBefore",
	check: selectedRect,
	apply: func(s *state.State, tr *state.Transaction) error {
		rect, err := SelectedRect(s)
		if err != nil {
			return err
		}
		return AddRow(tr, rect, rect.Top)
	},
}

// AddRowAfter adds a row below the selected rows.
var AddRowAfter Command = &command{
	name:  "addRowAfter",
	check: selectedRect,
	apply: func(s *state.State, tr *state.Transaction) error {
		rect, err := SelectedRect(s)
		if err != nil {
			return err
		}
		return AddRow(tr, rect, rect.Bottom)
	},
}

// DeleteRow removes the selected rows. It does not apply when every row
// is selected.
var DeleteRow Command = &command{
	name: "deleteRow",
	check: func(s *state.State) bool {
		if !IsInTable(s) {
			return false
		}
		rect, err := SelectedRect(s)
		return err == nil && !(rect.Top == 0 && rect.Bottom == rect.Map.Height)
	},
	apply: func(s *state.State, tr *state.Transaction) error {
		rect, err := SelectedRect(s)
		if err != nil {
			return err
		}
		for i := rect.Bottom - 1; ; i-- {
			if err := RemoveRow(tr, rect, i); err != nil {
				return err
			}
			if i == rect.Top {
				return nil
			}
			if err := rect.refresh(tr.Doc()); err != nil {
				return err
			}
		}
	},
}
