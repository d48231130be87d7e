package table

import (
	"github.com/dshills/gridstorm/internal/engine/model"
	"github.com/dshills/gridstorm/internal/engine/state"
)

// MergeCells merges the selected cells into one. It applies to a cell
// selection of more than one cell whose rectangle no cell straddles.
var MergeCells Command = &command{
	name:  "mergeCells",
	check: canMerge,
	apply: func(s *state.State, tr *state.Transaction) error {
		rect, err := SelectedRect(s)
		if err != nil {
			return err
		}
		m := rect.Map
		seen := make(map[int]bool)
		content := model.EmptyFragment
		mergedPos := -1
		var merged *model.Node

		for row := rect.Top; row < rect.Bottom; row++ {
			for col := rect.Left; col < rect.Right; col++ {
				cellPos := m.Map[row*m.Width+col]
				if seen[cellPos] {
					continue
				}
				seen[cellPos] = true
				cell, err := cellAt(rect.Table, cellPos)
				if err != nil {
					return err
				}
				if mergedPos < 0 {
					mergedPos, merged = cellPos, cell
					continue
				}
				if !isEmptyCell(cell) {
					content = content.Append(cell.Content())
				}
				mapped := tr.Mapping().Map(cellPos+rect.TableStart, 1)
				if err := tr.Delete(mapped, mapped+cell.NodeSize()); err != nil {
					return err
				}
			}
		}

		target := tr.Mapping().Map(mergedPos+rect.TableStart, 1)
		colspan := colspanOf(merged)
		attrs := addColSpan(merged.Attrs(), colspan, rect.Width()-colspan)
		attrs["rowspan"] = rect.Height()
		if err := tr.SetNodeMarkup(target, nil, attrs); err != nil {
			return err
		}

		if content.Size() > 0 {
			end := mergedPos + 1 + merged.ContentSize()
			start := end
			if isEmptyCell(merged) {
				start = mergedPos + 1
			}
			from := tr.Mapping().Map(start+rect.TableStart, 1)
			to := tr.Mapping().Map(end+rect.TableStart, -1)
			if err := tr.Replace(from, to, content); err != nil {
				return err
			}
		}
		tr.SetSelection(state.NewCellSelection(target, target))
		return nil
	},
}

func canMerge(s *state.State) bool {
	sel, ok := s.Selection().(state.CellSelection)
	if !ok || sel.AnchorCell() == sel.HeadCell() {
		return false
	}
	rect, err := SelectedRect(s)
	if err != nil {
		return false
	}
	return !CellsOverlapRectangle(rect.Map, rect.Rect)
}

// splitTarget returns the cell SplitCell would split and its position.
func splitTarget(s *state.State) (*model.Node, int, bool) {
	doc := s.Doc()
	var pos int
	if sel, ok := s.Selection().(state.CellSelection); ok {
		if sel.AnchorCell() != sel.HeadCell() {
			return nil, 0, false
		}
		pos = sel.AnchorCell()
	} else {
		from, err := doc.Resolve(s.Selection().From())
		if err != nil {
			return nil, 0, false
		}
		cell, ok := CellAround(from)
		if !ok {
			return nil, 0, false
		}
		pos = cell.Pos
	}
	cell := doc.NodeAt(pos)
	if cell == nil || !cell.Type().Role().IsCell() {
		return nil, 0, false
	}
	if colspanOf(cell) == 1 && rowspanOf(cell) == 1 {
		return nil, 0, false
	}
	return cell, pos, true
}

// SplitCell splits a cell spanning several slots into one cell per slot.
// The original cell keeps its content; the new cells are empty and share
// its type.
var SplitCell Command = &command{
	name: "splitCell",
	check: func(s *state.State) bool {
		_, _, ok := splitTarget(s)
		return ok && selectedRect(s)
	},
	apply: func(s *state.State, tr *state.Transaction) error {
		cell, cellPos, _ := splitTarget(s)
		rect, err := SelectedRect(s)
		if err != nil {
			return err
		}

		base := cell.Attrs().Set("colspan", 1)
		base["rowspan"] = 1
		widths := cell.Attrs().Ints("colwidth")
		attrs := make([]model.Attrs, rect.Width())
		for i := range attrs {
			attrs[i] = base
			if widths != nil {
				var w []int
				if i < len(widths) && widths[i] > 0 {
					w = []int{widths[i]}
				}
				attrs[i] = base.Set("colwidth", w)
			}
		}

		if err := tr.SetNodeMarkup(cellPos, nil, attrs[0]); err != nil {
			return err
		}
		lastCell := cellPos
		for row := rect.Top; row < rect.Bottom; row++ {
			pos := rect.Map.PositionAt(row, rect.Left, rect.Table)
			if row == rect.Top {
				pos += cell.NodeSize()
			}
			for col, i := rect.Left, 0; col < rect.Right; col, i = col+1, i+1 {
				if col == rect.Left && row == rect.Top {
					continue
				}
				lastCell = tr.Mapping().Map(pos+rect.TableStart, 1)
				if err := tr.Insert(lastCell, cell.Type().CreateAndFill(attrs[i])); err != nil {
					return err
				}
			}
		}

		if sel, ok := s.Selection().(state.CellSelection); ok {
			tr.SetSelection(state.NewCellSelection(sel.AnchorCell(), lastCell))
		}
		return nil
	},
}
