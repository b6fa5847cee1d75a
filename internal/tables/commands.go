package tables

import "github.com/dannyswat/wikirego/internal/document"

func run(d *document.Document, op Operation) bool {
	ok, err := Apply(d, op)
	return ok && err == nil
}

// InsertRowAbove inserts an empty row above the current row.
func InsertRowAbove(d *document.Document) bool { return run(d, OpInsertRowAbove) }

// InsertRowBelow inserts an empty row below the current row.
func InsertRowBelow(d *document.Document) bool { return run(d, OpInsertRowBelow) }

// InsertColumnBefore inserts an empty cell into every row before the
// current column.
func InsertColumnBefore(d *document.Document) bool { return run(d, OpInsertColumnBefore) }

// InsertColumnAfter inserts an empty cell into every row after the current
// column.
func InsertColumnAfter(d *document.Document) bool { return run(d, OpInsertColumnAfter) }

// DeleteRow removes the current row, or the table when it is the last row.
func DeleteRow(d *document.Document) bool { return run(d, OpDeleteRow) }

// DeleteColumn removes the current column from every row, or the table
// when it is the last column.
func DeleteColumn(d *document.Document) bool { return run(d, OpDeleteColumn) }

// DeleteTable removes the table around the selection.
func DeleteTable(d *document.Document) bool { return run(d, OpDeleteTable) }

// ToggleHeaderRow flips the row header state of every cell in the current
// row.
func ToggleHeaderRow(d *document.Document) bool { return run(d, OpToggleHeaderRow) }

// ToggleHeaderColumn flips the column header state of every cell in the
// current column.
func ToggleHeaderColumn(d *document.Document) bool { return run(d, OpToggleHeaderColumn) }
