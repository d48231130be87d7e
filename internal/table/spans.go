package table

import (
	"github.com/dshills/gridstorm/internal/engine/model"
	"github.com/dshills/gridstorm/internal/table/tablemap"
)

// addColSpan returns attrs with colspan grown by n. When a colwidth list
// is present, n zero widths are inserted at pos.
func addColSpan(attrs model.Attrs, pos, n int) model.Attrs {
	colspan := attrs.Int("colspan", 1)
	result := attrs.Set("colspan", colspan+n)
	if widths := attrs.Ints("colwidth"); widths != nil {
		pos = min(max(pos, 0), len(widths))
		grown := make([]int, 0, len(widths)+n)
		grown = append(grown, widths[:pos]...)
		for i := 0; i < n; i++ {
			grown = append(grown, 0)
		}
		grown = append(grown, widths[pos:]...)
		result["colwidth"] = grown
	}
	return result
}

// removeColSpan returns attrs with colspan shrunk by n. The colwidth
// entries at pos are removed, and the list is dropped when no positive
// width remains.
func removeColSpan(attrs model.Attrs, pos, n int) model.Attrs {
	colspan := attrs.Int("colspan", 1)
	result := attrs.Set("colspan", colspan-n)
	if widths := attrs.Ints("colwidth"); widths != nil {
		pos = min(max(pos, 0), len(widths))
		end := min(pos+n, len(widths))
		shrunk := make([]int, 0, len(widths))
		shrunk = append(shrunk, widths[:pos]...)
		shrunk = append(shrunk, widths[end:]...)
		result["colwidth"] = shrunk
		if !anyPositive(shrunk) {
			result["colwidth"] = nil
		}
	}
	return result
}

func anyPositive(ws []int) bool {
	for _, w := range ws {
		if w > 0 {
			return true
		}
	}
	return false
}

func colspanOf(cell *model.Node) int {
	c, _ := tablemap.Spans(cell)
	return c
}

func rowspanOf(cell *model.Node) int {
	_, r := tablemap.Spans(cell)
	return r
}

// isEmptyCell reports whether a cell holds only an empty textblock.
func isEmptyCell(cell *model.Node) bool {
	c := cell.Content()
	return c.ChildCount() == 1 && c.Child(0).IsTextblock() && c.Child(0).ChildCount() == 0
}
