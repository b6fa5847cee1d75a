package tables

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dannyswat/wikirego/internal/document"
)

// newTableDocument builds a paragraph followed by a rows x columns table
// whose cells read "r<row>c<column>".
func newTableDocument(rows, columns int) (*document.Document, *document.TableNode) {
	table := document.NewTable()
	for r := 0; r < rows; r++ {
		row := document.NewTableRow()
		for c := 0; c < columns; c++ {
			text := document.NewText(fmt.Sprintf("r%dc%d", r, c))
			document.AppendChildren(row, document.NewTableCell(document.HeaderNone, document.NewParagraph(text)))
		}
		document.AppendChildren(table, row)
	}
	d := document.NewWithBlocks(document.NewParagraph(document.NewText("intro")), table)
	return d, table
}

func selectCellText(t *testing.T, d *document.Document, table *document.TableNode, row, column int) {
	t.Helper()
	cell := table.Rows()[row].Cells()[column]
	text := cell.Children()[0].(document.Element).Children()[0]
	if err := d.SelectStart(text.Key()); err != nil {
		t.Fatalf("select cell: %v", err)
	}
}

func shape(table *document.TableNode) [][]string {
	var out [][]string
	for _, row := range table.Rows() {
		var cells []string
		for _, cell := range row.Cells() {
			cells = append(cells, cell.TextContent())
		}
		out = append(out, cells)
	}
	return out
}

func assertShape(t *testing.T, table *document.TableNode, want [][]string) {
	t.Helper()
	got := shape(table)
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("table = %v, want %v", got, want)
	}
}

func selectedCell(t *testing.T, d *document.Document) *document.TableCellNode {
	t.Helper()
	found, ok := d.FindAncestor(d.Selection().Anchor, func(n document.Node) bool {
		return n.Type() == document.TypeTableCell
	})
	if !ok {
		t.Fatalf("selection %+v is not inside a cell", d.Selection())
	}
	return found.(*document.TableCellNode)
}

func TestInsertRows(t *testing.T) {
	d, table := newTableDocument(2, 2)
	selectCellText(t, d, table, 0, 1)

	if !InsertRowAbove(d) {
		t.Fatalf("InsertRowAbove returned false")
	}
	if !InsertRowBelow(d) {
		t.Fatalf("InsertRowBelow returned false")
	}
	assertShape(t, table, [][]string{{"", ""}, {"r0c0", "r0c1"}, {"", ""}, {"r1c0", "r1c1"}})

	for _, cell := range table.Rows()[0].Cells() {
		if cell.Header != document.HeaderNone {
			t.Fatalf("new cells must not be headers")
		}
	}
	if got := selectedCell(t, d).TextContent(); got != "r0c1" {
		t.Fatalf("selection moved to %q", got)
	}
}

func TestInsertColumns(t *testing.T) {
	d, table := newTableDocument(2, 2)
	selectCellText(t, d, table, 1, 0)

	InsertColumnBefore(d)
	InsertColumnAfter(d)
	assertShape(t, table, [][]string{{"", "r0c0", "", "r0c1"}, {"", "r1c0", "", "r1c1"}})
}

func TestInsertColumnAfterThenDeleteRestoresShape(t *testing.T) {
	d, table := newTableDocument(3, 2)
	original := shape(table)
	selectCellText(t, d, table, 1, 0)

	if !InsertColumnAfter(d) {
		t.Fatalf("InsertColumnAfter returned false")
	}
	inserted := table.Rows()[1].Cells()[1]
	if err := d.SelectStart(inserted.Children()[0].Key()); err != nil {
		t.Fatalf("select inserted cell: %v", err)
	}
	if !DeleteColumn(d) {
		t.Fatalf("DeleteColumn returned false")
	}
	assertShape(t, table, original)
	if got := selectedCell(t, d).TextContent(); got != "r1c0" {
		t.Fatalf("selection moved to %q, want r1c0", got)
	}
}

func TestDeleteRow(t *testing.T) {
	d, table := newTableDocument(3, 2)
	selectCellText(t, d, table, 2, 1)

	if !DeleteRow(d) {
		t.Fatalf("DeleteRow returned false")
	}
	assertShape(t, table, [][]string{{"r0c0", "r0c1"}, {"r1c0", "r1c1"}})
	if got := selectedCell(t, d).TextContent(); got != "r1c1" {
		t.Fatalf("selection moved to %q, want r1c1", got)
	}
}

func TestDeletingLastRowOrColumnRemovesTable(t *testing.T) {
	cases := []struct {
		name    string
		rows    int
		columns int
		run     func(*document.Document) bool
	}{
		{name: "last row", rows: 1, columns: 3, run: DeleteRow},
		{name: "last column", rows: 3, columns: 1, run: DeleteColumn},
		{name: "delete table", rows: 2, columns: 2, run: DeleteTable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, table := newTableDocument(tc.rows, tc.columns)
			selectCellText(t, d, table, 0, 0)

			if !tc.run(d) {
				t.Fatalf("operation returned false")
			}
			if _, ok := d.Node(table.Key()); ok {
				t.Fatalf("table is still attached")
			}
			if len(d.Blocks()) != 1 {
				t.Fatalf("expected only the intro paragraph, got %d blocks", len(d.Blocks()))
			}
			sel := d.Selection()
			intro := d.Blocks()[0].(*document.ParagraphNode)
			if sel.Anchor != intro.Key() || sel.AnchorOffset != 1 {
				t.Fatalf("expected caret after the intro paragraph, got %+v", sel)
			}
		})
	}
}

func TestDeleteOnlyTableLeavesEmptyParagraph(t *testing.T) {
	table := document.NewEmptyTable(1, 1, false)
	d := document.NewWithBlocks(table)
	if err := d.SelectStart(table.Rows()[0].Cells()[0].Children()[0].Key()); err != nil {
		t.Fatalf("select: %v", err)
	}

	if !DeleteTable(d) {
		t.Fatalf("DeleteTable returned false")
	}
	if !d.IsEmpty() || len(d.Blocks()) != 1 {
		t.Fatalf("expected a single empty paragraph")
	}
	if d.Selection().Anchor != d.Blocks()[0].Key() {
		t.Fatalf("expected caret in the new paragraph")
	}
}

func TestToggleHeaders(t *testing.T) {
	d, table := newTableDocument(2, 2)
	selectCellText(t, d, table, 0, 1)

	headers := func() [][]document.HeaderState {
		var out [][]document.HeaderState
		for _, row := range table.Rows() {
			var states []document.HeaderState
			for _, cell := range row.Cells() {
				states = append(states, cell.Header)
			}
			out = append(out, states)
		}
		return out
	}
	none, row, col := document.HeaderNone, document.HeaderRow, document.HeaderColumn

	steps := []struct {
		name string
		run  func(*document.Document) bool
		want [][]document.HeaderState
	}{
		{"row on", ToggleHeaderRow, [][]document.HeaderState{{row, row}, {none, none}}},
		{"column replaces row", ToggleHeaderColumn, [][]document.HeaderState{{row, col}, {none, col}}},
		{"row replaces column", ToggleHeaderRow, [][]document.HeaderState{{none, row}, {none, col}}},
		{"row off", ToggleHeaderRow, [][]document.HeaderState{{row, none}, {none, col}}},
		{"column toggles per cell", ToggleHeaderColumn, [][]document.HeaderState{{row, col}, {none, none}}},
	}
	for _, step := range steps {
		if !step.run(d) {
			t.Fatalf("%s: returned false", step.name)
		}
		if got := headers(); fmt.Sprint(got) != fmt.Sprint(step.want) {
			t.Fatalf("%s: headers = %v, want %v", step.name, got, step.want)
		}
	}
}

func TestOperationsOutsideTableAreNoOps(t *testing.T) {
	d, table := newTableDocument(2, 2)
	intro := d.Blocks()[0].(*document.ParagraphNode)
	if err := d.SelectStart(intro.Children()[0].Key()); err != nil {
		t.Fatalf("select: %v", err)
	}
	before := shape(table)

	for _, op := range Operations() {
		ok, err := Apply(d, op)
		if err != nil || ok {
			t.Fatalf("%s: expected no-op, got ok=%v err=%v", op, ok, err)
		}
	}
	assertShape(t, table, before)

	if ok, err := Apply(document.New(), OpDeleteRow); ok || err != nil {
		t.Fatalf("expected no-op without a selection")
	}
}

func TestApplyUnknownOperation(t *testing.T) {
	d, _ := newTableDocument(1, 1)
	_, err := Apply(d, Operation("merge_cells"))
	if !errors.Is(err, ErrUnknownOperation) {
		t.Fatalf("expected ErrUnknownOperation, got %v", err)
	}
	if Operation("merge_cells").Valid() || !OpDeleteRow.Valid() {
		t.Fatalf("unexpected Valid result")
	}
}
