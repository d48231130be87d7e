// Package tablemap computes the grid layout of a table node.
//
// A TableMap is a Width*Height array of cell offsets relative to the start
// of the table's content. A cell spanning several slots appears in every
// slot it covers. Offsets are always at least 1, because the first cell
// of the first row sits after the row's opening token.
package tablemap

import (
	"fmt"

	"github.com/dshills/gridstorm/internal/engine/model"
)

// Rect is a rectangle of grid slots. Right and Bottom are exclusive.
type Rect struct {
	Left, Top, Right, Bottom int
}

// Width returns the number of columns covered.
func (r Rect) Width() int { return r.Right - r.Left }

// Height returns the number of rows covered.
func (r Rect) Height() int { return r.Bottom - r.Top }

func (r Rect) String() string {
	return fmt.Sprintf("[%d,%d %d,%d)", r.Left, r.Top, r.Right, r.Bottom)
}

// ProblemKind names a defect in a table's layout.
type ProblemKind string

const (
	// ProblemCollision means two cells claim the same slot.
	ProblemCollision ProblemKind = "collision"
	// ProblemMissing means a row has unfilled slots.
	ProblemMissing ProblemKind = "missing"
	// ProblemOverlongRowspan means a rowspan extends past the last row.
	ProblemOverlongRowspan ProblemKind = "overlong_rowspan"
)

// Problem describes a layout defect.
type Problem struct {
	Kind ProblemKind
	Row  int
	Pos  int
	N    int
}

func (p Problem) String() string {
	return fmt.Sprintf("%s row=%d pos=%d n=%d", p.Kind, p.Row, p.Pos, p.N)
}

// TableMap is the grid layout of a table.
type TableMap struct {
	Width    int
	Height   int
	Map      []int
	Problems []Problem
}

// MaxCells bounds Width*Height of a computed map.
const MaxCells = 1 << 22

// Compute builds the map of table. Tables whose grid would exceed
// MaxCells slots fail with ErrTooLarge.
func Compute(table *model.Node) (*TableMap, error) {
	if table.Type().Role() != model.RoleTable {
		return nil, fmt.Errorf("%w: %s", ErrNotTable, table.Type().Name)
	}
	width := findWidth(table)
	height := table.ChildCount()
	if width < 0 || (height > 0 && width > MaxCells/height) {
		return nil, fmt.Errorf("%w: %d rows, widest row %d columns", ErrTooLarge, height, width)
	}
	m := &TableMap{Width: width, Height: height, Map: make([]int, width*height)}

	mapPos := 0
	pos := 0
	for row := 0; row < height; row++ {
		rowNode := table.Child(row)
		pos++
		for i := 0; ; i++ {
			for mapPos < len(m.Map) && m.Map[mapPos] != 0 {
				mapPos++
			}
			if i == rowNode.ChildCount() {
				break
			}
			cell := rowNode.Child(i)
			colspan, rowspan := Spans(cell)
			for h := 0; h < rowspan; h++ {
				if h+row >= height {
					m.Problems = append(m.Problems, Problem{Kind: ProblemOverlongRowspan, Row: row, Pos: pos, N: rowspan - h})
					break
				}
				start := mapPos + h*width
				for w := 0; w < colspan; w++ {
					if start+w < len(m.Map) && m.Map[start+w] == 0 {
						m.Map[start+w] = pos
					} else {
						m.Problems = append(m.Problems, Problem{Kind: ProblemCollision, Row: row, Pos: pos, N: colspan - w})
					}
				}
			}
			mapPos += colspan
			pos += cell.NodeSize()
		}
		expected := (row + 1) * width
		missing := 0
		for mapPos < expected {
			if m.Map[mapPos] == 0 {
				missing++
			}
			mapPos++
		}
		if missing > 0 {
			m.Problems = append(m.Problems, Problem{Kind: ProblemMissing, Row: row, N: missing})
		}
		pos++
	}
	return m, nil
}

// Spans returns a cell's colspan and rowspan, defaulting to 1.
func Spans(cell *model.Node) (colspan, rowspan int) {
	colspan = max(cell.Attrs().Int("colspan", 1), 1)
	rowspan = max(cell.Attrs().Int("rowspan", 1), 1)
	return colspan, rowspan
}

// findWidth returns the widest row, counting cells that reach into a row
// from rows above it.
func findWidth(table *model.Node) int {
	width := 0
	hasRowspan := false
	for row := 0; row < table.ChildCount(); row++ {
		rowNode := table.Child(row)
		rowWidth := 0
		if hasRowspan {
			for j := 0; j < row; j++ {
				prev := table.Child(j)
				for i := 0; i < prev.ChildCount(); i++ {
					colspan, rowspan := Spans(prev.Child(i))
					if j+rowspan > row {
						rowWidth += colspan
					}
				}
			}
		}
		for i := 0; i < rowNode.ChildCount(); i++ {
			colspan, rowspan := Spans(rowNode.Child(i))
			rowWidth += colspan
			if rowspan > 1 {
				hasRowspan = true
			}
		}
		width = max(width, rowWidth)
	}
	return width
}

// Valid reports whether the map has no layout problems.
func (m *TableMap) Valid() bool { return len(m.Problems) == 0 }

// FindCell returns the rectangle covered by the cell at pos.
func (m *TableMap) FindCell(pos int) (Rect, error) {
	for i, cur := range m.Map {
		if cur != pos {
			continue
		}
		left, top := i%m.Width, i/m.Width
		right, bottom := left+1, top+1
		for j := 1; right < m.Width && m.Map[i+j] == cur; j++ {
			right++
		}
		for j := 1; bottom < m.Height && m.Map[i+m.Width*j] == cur; j++ {
			bottom++
		}
		return Rect{Left: left, Top: top, Right: right, Bottom: bottom}, nil
	}
	return Rect{}, fmt.Errorf("%w %d", ErrNoCell, pos)
}

// ColCount returns the left column of the cell at pos.
func (m *TableMap) ColCount(pos int) (int, error) {
	for i, cur := range m.Map {
		if cur == pos {
			return i % m.Width, nil
		}
	}
	return 0, fmt.Errorf("%w %d", ErrNoCell, pos)
}

// RectBetween returns the smallest rectangle covering the cells at a and b.
func (m *TableMap) RectBetween(a, b int) (Rect, error) {
	ra, err := m.FindCell(a)
	if err != nil {
		return Rect{}, err
	}
	rb, err := m.FindCell(b)
	if err != nil {
		return Rect{}, err
	}
	return Rect{
		Left:   min(ra.Left, rb.Left),
		Top:    min(ra.Top, rb.Top),
		Right:  max(ra.Right, rb.Right),
		Bottom: max(ra.Bottom, rb.Bottom),
	}, nil
}

// CellsInRect returns the offsets of the cells whose top-left corner lies
// inside r, each once, in row-major order.
func (m *TableMap) CellsInRect(r Rect) []int {
	var result []int
	seen := make(map[int]bool)
	for row := r.Top; row < r.Bottom; row++ {
		for col := r.Left; col < r.Right; col++ {
			index := row*m.Width + col
			pos := m.Map[index]
			if seen[pos] {
				continue
			}
			seen[pos] = true
			if (col == r.Left && col > 0 && m.Map[index-1] == pos) ||
				(row == r.Top && row > 0 && m.Map[index-m.Width] == pos) {
				continue
			}
			result = append(result, pos)
		}
	}
	return result
}

// PositionAt returns the offset at which a cell placed at (row, col) would
// start: the first cell of that row at or after col, or the row's end.
func (m *TableMap) PositionAt(row, col int, table *model.Node) int {
	rowStart := 0
	for i := 0; ; i++ {
		rowEnd := rowStart + table.Child(i).NodeSize()
		if i == row {
			index := col + row*m.Width
			rowEndIndex := (row + 1) * m.Width
			for index < rowEndIndex && m.Map[index] < rowStart {
				index++
			}
			if index == rowEndIndex {
				return rowEnd - 1
			}
			return m.Map[index]
		}
		rowStart = rowEnd
	}
}
