package model

// Role describes the structural part a node type plays in a table.
type Role uint8

const (
	// RoleNone is the role of every node type outside tables.
	RoleNone Role = iota
	// RoleTable marks the table node itself.
	RoleTable
	// RoleRow marks a row of cells.
	RoleRow
	// RoleCell marks a plain data cell.
	RoleCell
	// RoleHeaderCell marks a header cell.
	RoleHeaderCell
)

// String returns the role name used in schema specs.
func (r Role) String() string {
	switch r {
	case RoleTable:
		return "table"
	case RoleRow:
		return "row"
	case RoleCell:
		return "cell"
	case RoleHeaderCell:
		return "header_cell"
	default:
		return ""
	}
}

// IsCell reports whether the role is one of the two cell roles.
func (r Role) IsCell() bool {
	return r == RoleCell || r == RoleHeaderCell
}

// ParseRole converts a role name back to a Role.
func ParseRole(s string) (Role, bool) {
	switch s {
	case "":
		return RoleNone, true
	case "table":
		return RoleTable, true
	case "row":
		return RoleRow, true
	case "cell":
		return RoleCell, true
	case "header_cell":
		return RoleHeaderCell, true
	}
	return RoleNone, false
}
