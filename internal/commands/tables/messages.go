package tablescmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	command "github.com/goliatone/go-command"

	"github.com/dannyswat/wikirego/internal/tables"
)

const (
	applyMessageType              = "editor.tables.apply"
	insertRowAboveMessageType     = "editor.tables.insert_row_above"
	insertRowBelowMessageType     = "editor.tables.insert_row_below"
	insertColumnBeforeMessageType = "editor.tables.insert_column_before"
	insertColumnAfterMessageType  = "editor.tables.insert_column_after"
	deleteRowMessageType          = "editor.tables.delete_row"
	deleteColumnMessageType       = "editor.tables.delete_column"
	deleteTableMessageType        = "editor.tables.delete_table"
	toggleHeaderRowMessageType    = "editor.tables.toggle_header_row"
	toggleHeaderColumnMessageType = "editor.tables.toggle_header_column"
)

// TableMessage is a command addressed at the table holding the selection of
// one document.
type TableMessage interface {
	command.Message
	target() (slug string, op tables.Operation)
}

var slugRule = validation.By(func(value any) error {
	if strings.TrimSpace(value.(string)) == "" {
		return validation.NewError("editor.tables.slug_required", "slug is required")
	}
	return nil
})

func validateSlug(slug string) error {
	return validation.Errors{"slug": validation.Validate(slug, slugRule)}.Filter()
}

// ApplyCommand carries the operation as data, for callers that decode
// commands from JSON.
type ApplyCommand struct {
	Slug      string           `json:"slug"`
	Operation tables.Operation `json:"operation"`
}

// Type implements command.Message.
func (ApplyCommand) Type() string { return applyMessageType }

// Validate requires a slug and a known operation.
func (cmd ApplyCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Slug, slugRule),
		validation.Field(&cmd.Operation, validation.By(func(value any) error {
			if !value.(tables.Operation).Valid() {
				return validation.NewError("editor.tables.operation_invalid", "unknown table operation")
			}
			return nil
		})),
	)
}

func (cmd ApplyCommand) target() (string, tables.Operation) { return cmd.Slug, cmd.Operation }

// InsertRowAboveCommand inserts an empty row above the selected cell.
type InsertRowAboveCommand struct {
	Slug string `json:"slug"`
}

func (InsertRowAboveCommand) Type() string        { return insertRowAboveMessageType }
func (cmd InsertRowAboveCommand) Validate() error { return validateSlug(cmd.Slug) }
func (cmd InsertRowAboveCommand) target() (string, tables.Operation) {
	return cmd.Slug, tables.OpInsertRowAbove
}

// InsertRowBelowCommand inserts an empty row below the selected cell.
type InsertRowBelowCommand struct {
	Slug string `json:"slug"`
}

func (InsertRowBelowCommand) Type() string        { return insertRowBelowMessageType }
func (cmd InsertRowBelowCommand) Validate() error { return validateSlug(cmd.Slug) }
func (cmd InsertRowBelowCommand) target() (string, tables.Operation) {
	return cmd.Slug, tables.OpInsertRowBelow
}

// InsertColumnBeforeCommand inserts an empty column left of the selected cell.
type InsertColumnBeforeCommand struct {
	Slug string `json:"slug"`
}

func (InsertColumnBeforeCommand) Type() string        { return insertColumnBeforeMessageType }
func (cmd InsertColumnBeforeCommand) Validate() error { return validateSlug(cmd.Slug) }
func (cmd InsertColumnBeforeCommand) target() (string, tables.Operation) {
	return cmd.Slug, tables.OpInsertColumnBefore
}

// InsertColumnAfterCommand inserts an empty column right of the selected cell.
type InsertColumnAfterCommand struct {
	Slug string `json:"slug"`
}

func (InsertColumnAfterCommand) Type() string        { return insertColumnAfterMessageType }
func (cmd InsertColumnAfterCommand) Validate() error { return validateSlug(cmd.Slug) }
func (cmd InsertColumnAfterCommand) target() (string, tables.Operation) {
	return cmd.Slug, tables.OpInsertColumnAfter
}

// DeleteRowCommand removes the selected row.
type DeleteRowCommand struct {
	Slug string `json:"slug"`
}

func (DeleteRowCommand) Type() string        { return deleteRowMessageType }
func (cmd DeleteRowCommand) Validate() error { return validateSlug(cmd.Slug) }
func (cmd DeleteRowCommand) target() (string, tables.Operation) {
	return cmd.Slug, tables.OpDeleteRow
}

// DeleteColumnCommand removes the selected column.
type DeleteColumnCommand struct {
	Slug string `json:"slug"`
}

func (DeleteColumnCommand) Type() string        { return deleteColumnMessageType }
func (cmd DeleteColumnCommand) Validate() error { return validateSlug(cmd.Slug) }
func (cmd DeleteColumnCommand) target() (string, tables.Operation) {
	return cmd.Slug, tables.OpDeleteColumn
}

// DeleteTableCommand removes the table holding the selection.
type DeleteTableCommand struct {
	Slug string `json:"slug"`
}

func (DeleteTableCommand) Type() string        { return deleteTableMessageType }
func (cmd DeleteTableCommand) Validate() error { return validateSlug(cmd.Slug) }
func (cmd DeleteTableCommand) target() (string, tables.Operation) {
	return cmd.Slug, tables.OpDeleteTable
}

// ToggleHeaderRowCommand flips the row header state of the selected row.
type ToggleHeaderRowCommand struct {
	Slug string `json:"slug"`
}

func (ToggleHeaderRowCommand) Type() string        { return toggleHeaderRowMessageType }
func (cmd ToggleHeaderRowCommand) Validate() error { return validateSlug(cmd.Slug) }
func (cmd ToggleHeaderRowCommand) target() (string, tables.Operation) {
	return cmd.Slug, tables.OpToggleHeaderRow
}

// ToggleHeaderColumnCommand flips the column header state of the selected
// column.
type ToggleHeaderColumnCommand struct {
	Slug string `json:"slug"`
}

func (ToggleHeaderColumnCommand) Type() string        { return toggleHeaderColumnMessageType }
func (cmd ToggleHeaderColumnCommand) Validate() error { return validateSlug(cmd.Slug) }
func (cmd ToggleHeaderColumnCommand) target() (string, tables.Operation) {
	return cmd.Slug, tables.OpToggleHeaderColumn
}
