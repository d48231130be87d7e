package table

import (
	"github.com/dshills/gridstorm/internal/engine/model"
	"github.com/dshills/gridstorm/internal/engine/state"
)

// enclosingTable returns the bounds of the innermost table around the
// selection anchor.
func enclosingTable(s *state.State) (from, to int, ok bool) {
	r, err := s.Doc().Resolve(s.Selection().Anchor())
	if err != nil {
		return 0, 0, false
	}
	for d := r.Depth; d > 0; d-- {
		if r.Node(d).Type().Role() == model.RoleTable {
			return r.Before(d), r.After(d), true
		}
	}
	return 0, 0, false
}

// DeleteTable removes the table around the selection.
var DeleteTable Command = &command{
	name: "deleteTable",
	check: func(s *state.State) bool {
		_, _, ok := enclosingTable(s)
		return ok
	},
	apply: func(s *state.State, tr *state.Transaction) error {
		from, to, _ := enclosingTable(s)
		if err := tr.Delete(from, to); err != nil {
			return err
		}
		tr.ScrollIntoView()
		return nil
	},
}

// ClearCells empties every selected cell, replacing its content with the
// content of a freshly filled cell. It applies only to cell selections.
var ClearCells Command = &command{
	name: "clearCells",
	check: func(s *state.State) bool {
		_, ok := s.Selection().(state.CellSelection)
		return ok
	},
	apply: func(s *state.State, tr *state.Transaction) error {
		sel := s.Selection().(state.CellSelection)
		var firstErr error
		err := sel.ForEachCell(s.Doc(), func(cell *model.Node, pos int) {
			if firstErr != nil {
				return
			}
			base := cell.Type().CreateAndFill(nil).Content()
			if cell.Content().Eq(base) {
				return
			}
			from := tr.Mapping().Map(pos+1, 1)
			to := tr.Mapping().Map(pos+cell.NodeSize()-1, -1)
			firstErr = tr.Replace(from, to, base)
		})
		if err != nil {
			return err
		}
		return firstErr
	},
}
