package table

import (
	"fmt"

	"github.com/dshills/gridstorm/internal/engine/model"
)

// NewTable builds a rows x cols table of empty cells. With headerRow set,
// the first row holds header cells.
func NewTable(schema *model.Schema, rows, cols int, headerRow bool) (*model.Node, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: table needs at least one row and column, got %dx%d", ErrInvalidArgs, rows, cols)
	}
	tableType := schema.ByRole(model.RoleTable)
	rowType := schema.ByRole(model.RoleRow)
	cellType, headerType := tableTypes(schema)
	if tableType == nil || rowType == nil || cellType == nil {
		return nil, fmt.Errorf("%w: schema %v has no table types", ErrInvalidArgs, schema.TopType())
	}
	if headerRow && headerType == nil {
		return nil, fmt.Errorf("%w: schema has no header cell type", ErrInvalidArgs)
	}

	built := make([]*model.Node, rows)
	for r := range built {
		typ := cellType
		if headerRow && r == 0 {
			typ = headerType
		}
		cells := make([]*model.Node, cols)
		for c := range cells {
			cells[c] = typ.CreateAndFill(nil)
		}
		built[r] = rowType.Create(nil, cells...)
	}
	return tableType.Create(nil, built...), nil
}
