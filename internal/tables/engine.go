// Package tables implements structural table editing addressed by the
// document selection: row and column insertion and deletion, header
// toggles and table removal.
package tables

import (
	"errors"
	"fmt"

	"github.com/dannyswat/wikirego/internal/document"
)

// Operation names a table command.
type Operation string

const (
	OpInsertRowAbove     Operation = "insert_row_above"
	OpInsertRowBelow     Operation = "insert_row_below"
	OpInsertColumnBefore Operation = "insert_column_before"
	OpInsertColumnAfter  Operation = "insert_column_after"
	OpDeleteRow          Operation = "delete_row"
	OpDeleteColumn       Operation = "delete_column"
	OpDeleteTable        Operation = "delete_table"
	OpToggleHeaderRow    Operation = "toggle_header_row"
	OpToggleHeaderColumn Operation = "toggle_header_column"
)

// ErrUnknownOperation is returned by Apply for an operation it does not know.
var ErrUnknownOperation = errors.New("tables: unknown operation")

type handler func(d *document.Document, at *position) error

var handlers = map[Operation]handler{
	OpInsertRowAbove:     func(d *document.Document, at *position) error { return insertRow(d, at, false) },
	OpInsertRowBelow:     func(d *document.Document, at *position) error { return insertRow(d, at, true) },
	OpInsertColumnBefore: func(d *document.Document, at *position) error { return insertColumn(d, at, false) },
	OpInsertColumnAfter:  func(d *document.Document, at *position) error { return insertColumn(d, at, true) },
	OpDeleteRow:          deleteRow,
	OpDeleteColumn:       deleteColumn,
	OpDeleteTable:        func(d *document.Document, at *position) error { return removeTable(d, at.table) },
	OpToggleHeaderRow:    toggleHeaderRow,
	OpToggleHeaderColumn: toggleHeaderColumn,
}

// Operations lists every supported operation.
func Operations() []Operation {
	return []Operation{
		OpInsertRowAbove, OpInsertRowBelow,
		OpInsertColumnBefore, OpInsertColumnAfter,
		OpDeleteRow, OpDeleteColumn, OpDeleteTable,
		OpToggleHeaderRow, OpToggleHeaderColumn,
	}
}

// Valid reports whether op is a known operation.
func (op Operation) Valid() bool {
	_, ok := handlers[op]
	return ok
}

// Apply runs op against the cell holding the selection anchor. It returns
// false without touching the document when the anchor is not inside a
// table cell. An error means the document may be partially modified and
// must be discarded.
func Apply(d *document.Document, op Operation) (bool, error) {
	fn, ok := handlers[op]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownOperation, op)
	}
	at, ok := locate(d)
	if !ok {
		return false, nil
	}
	if err := fn(d, at); err != nil {
		return false, fmt.Errorf("tables: %s: %w", op, err)
	}
	return true, nil
}

// position is the table cell the selection anchor resolves to.
type position struct {
	table  *document.TableNode
	cell   *document.TableCellNode
	row    int
	column int
}

func locate(d *document.Document) (*position, bool) {
	anchor := d.Selection().Anchor
	found, ok := d.FindAncestor(anchor, func(n document.Node) bool {
		_, isCell := n.(*document.TableCellNode)
		return isCell
	})
	if !ok {
		return nil, false
	}
	cell := found.(*document.TableCellNode)
	found, ok = d.FindAncestor(cell.Key(), func(n document.Node) bool {
		_, isTable := n.(*document.TableNode)
		return isTable
	})
	if !ok {
		return nil, false
	}
	table := found.(*document.TableNode)
	row, column, ok := table.Locate(cell.Key())
	if !ok {
		return nil, false
	}
	return &position{table: table, cell: cell, row: row, column: column}, true
}

func insertRow(d *document.Document, at *position, below bool) error {
	current := at.table.Rows()[at.row]
	row := document.NewEmptyRow(at.table.ColumnCount(), document.HeaderNone)
	if below {
		return d.InsertAfter(current.Key(), row)
	}
	return d.InsertBefore(current.Key(), row)
}

func insertColumn(d *document.Document, at *position, after bool) error {
	for _, row := range at.table.Rows() {
		cells := row.Cells()
		cell := document.NewEmptyCell(document.HeaderNone)
		var err error
		switch {
		case at.column < len(cells) && after:
			err = d.InsertAfter(cells[at.column].Key(), cell)
		case at.column < len(cells):
			err = d.InsertBefore(cells[at.column].Key(), cell)
		default:
			err = d.Append(row.Key(), cell)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func deleteRow(d *document.Document, at *position) error {
	rows := at.table.Rows()
	if len(rows) <= 1 {
		return removeTable(d, at.table)
	}
	if err := d.Remove(rows[at.row].Key()); err != nil {
		return err
	}
	rows = at.table.Rows()
	return selectCell(d, rows[min(at.row, len(rows)-1)], at.column)
}

func deleteColumn(d *document.Document, at *position) error {
	if at.table.ColumnCount() <= 1 {
		return removeTable(d, at.table)
	}
	for _, row := range at.table.Rows() {
		cells := row.Cells()
		if at.column >= len(cells) {
			continue
		}
		if err := d.Remove(cells[at.column].Key()); err != nil {
			return err
		}
	}
	return selectCell(d, at.table.Rows()[at.row], max(at.column-1, 0))
}

// removeTable detaches table and leaves the caret on the block that took its
// place, the block before it, or a new empty paragraph.
func removeTable(d *document.Document, table *document.TableNode) error {
	parent, ok := d.Parent(table.Key())
	if !ok {
		return fmt.Errorf("%w: %s", document.ErrNodeNotFound, table.Key())
	}
	index := indexOf(parent.Children(), table)
	if err := d.Remove(table.Key()); err != nil {
		return err
	}

	siblings := parent.Children()
	switch {
	case index < len(siblings):
		return selectStartOf(d, siblings[index])
	case index > 0:
		return d.SelectEnd(siblings[index-1].Key())
	default:
		paragraph := document.NewParagraph()
		if err := d.Append(parent.Key(), paragraph); err != nil {
			return err
		}
		return d.SelectStart(paragraph.Key())
	}
}

func toggleHeaderRow(_ *document.Document, at *position) error {
	for _, cell := range at.table.Rows()[at.row].Cells() {
		cell.Header = toggled(cell.Header, document.HeaderRow)
	}
	return nil
}

func toggleHeaderColumn(_ *document.Document, at *position) error {
	for _, row := range at.table.Rows() {
		cells := row.Cells()
		if at.column < len(cells) {
			cells[at.column].Header = toggled(cells[at.column].Header, document.HeaderColumn)
		}
	}
	return nil
}

// toggled clears state when the cell already has it and otherwise replaces
// whatever header state the cell had.
func toggled(current, state document.HeaderState) document.HeaderState {
	if current == state {
		return document.HeaderNone
	}
	return state
}

func selectCell(d *document.Document, row *document.TableRowNode, column int) error {
	cells := row.Cells()
	if len(cells) == 0 {
		return d.SelectStart(row.Key())
	}
	return selectStartOf(d, cells[min(column, len(cells)-1)])
}

// selectStartOf places the caret at the start of n's first descendant block
// or text.
func selectStartOf(d *document.Document, n document.Node) error {
	for {
		el, ok := n.(document.Element)
		if !ok || len(el.Children()) == 0 {
			break
		}
		n = el.Children()[0]
	}
	return d.SelectStart(n.Key())
}

func indexOf(nodes []document.Node, target document.Node) int {
	for i, n := range nodes {
		if document.SameNode(n, target) {
			return i
		}
	}
	return -1
}
