package document

// HeaderState classifies a table cell. Row and column headers exclude each
// other; the last toggle wins.
type HeaderState int

const (
	HeaderNone HeaderState = iota
	HeaderRow
	HeaderColumn
)

func (s HeaderState) String() string {
	switch s {
	case HeaderRow:
		return "row"
	case HeaderColumn:
		return "column"
	default:
		return "none"
	}
}

// TableNode owns TableRowNode children. Every row has the same number of
// cells.
type TableNode struct {
	elementBase
}

// NewTable returns a table of rows.
func NewTable(rows ...*TableRowNode) *TableNode {
	children := make([]Node, len(rows))
	for i, row := range rows {
		children[i] = row
	}
	return &TableNode{elementBase: elementBase{children: children}}
}

// NewEmptyTable builds a rows x columns table of empty cells, each holding an
// empty paragraph. When headerRow is set the first row is a header row.
func NewEmptyTable(rows, columns int, headerRow bool) *TableNode {
	table := &TableNode{}
	for r := 0; r < rows; r++ {
		state := HeaderNone
		if headerRow && r == 0 {
			state = HeaderRow
		}
		table.children = append(table.children, NewEmptyRow(columns, state))
	}
	return table
}

func (*TableNode) Type() NodeType { return TypeTable }

// Rows returns the table rows.
func (t *TableNode) Rows() []*TableRowNode {
	rows := make([]*TableRowNode, 0, len(t.children))
	for _, child := range t.children {
		if row, ok := child.(*TableRowNode); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// ColumnCount is the cell count of the first row.
func (t *TableNode) ColumnCount() int {
	rows := t.Rows()
	if len(rows) == 0 {
		return 0
	}
	return len(rows[0].Cells())
}

// Locate returns the row and column index of the cell with key.
func (t *TableNode) Locate(key Key) (row, column int, ok bool) {
	for r, tableRow := range t.Rows() {
		for c, cell := range tableRow.Cells() {
			if cell.Key() == key {
				return r, c, true
			}
		}
	}
	return -1, -1, false
}

// TableRowNode owns TableCellNode children.
type TableRowNode struct {
	elementBase
}

// NewTableRow returns a row of cells.
func NewTableRow(cells ...*TableCellNode) *TableRowNode {
	children := make([]Node, len(cells))
	for i, cell := range cells {
		children[i] = cell
	}
	return &TableRowNode{elementBase: elementBase{children: children}}
}

// NewEmptyRow returns a row of columns empty cells with header state.
func NewEmptyRow(columns int, state HeaderState) *TableRowNode {
	row := &TableRowNode{}
	for c := 0; c < columns; c++ {
		row.children = append(row.children, NewEmptyCell(state))
	}
	return row
}

func (*TableRowNode) Type() NodeType { return TypeTableRow }

// Cells returns the row cells.
func (r *TableRowNode) Cells() []*TableCellNode {
	cells := make([]*TableCellNode, 0, len(r.children))
	for _, child := range r.children {
		if cell, ok := child.(*TableCellNode); ok {
			cells = append(cells, cell)
		}
	}
	return cells
}

// TableCellNode is a table cell holding block content.
type TableCellNode struct {
	elementBase
	Header  HeaderState
	ColSpan int
	RowSpan int
	Width   int
}

// NewTableCell returns a cell with header state and children.
func NewTableCell(state HeaderState, children ...Node) *TableCellNode {
	return &TableCellNode{elementBase: elementBase{children: children}, Header: state, ColSpan: 1, RowSpan: 1}
}

// NewEmptyCell returns a cell holding one empty paragraph.
func NewEmptyCell(state HeaderState) *TableCellNode {
	return NewTableCell(state, NewParagraph())
}

func (*TableCellNode) Type() NodeType { return TypeTableCell }

// TextContent concatenates the text of every text node in the cell.
func (c *TableCellNode) TextContent() string {
	return TextContent(c)
}
