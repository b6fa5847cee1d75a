package document

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dannyswat/wikirego/internal/validation"
)

//go:embed node.schema.json
var nodeSchemaJSON []byte

var nodeSchema = validation.MustCompile("node.schema.json", nodeSchemaJSON)

var ErrInvalidRecord = errors.New("document: invalid node record")

// Record is the serialized form of a node: a JSON object with a type
// discriminator, a version and type-specific fields. Elements carry their
// children under "children".
type Record map[string]any

// Export serializes n and its subtree.
func Export(n Node) Record {
	rec := Record{
		"type":    string(n.Type()),
		"version": n.Version(),
	}

	switch typed := n.(type) {
	case *RootNode, *ParagraphNode, *QuoteNode, *TableNode, *TableRowNode:
	case *HeadingNode:
		rec["tag"] = typed.Tag
	case *ListNode:
		rec["listType"] = string(typed.ListType)
		rec["start"] = typed.Start
	case *ListItemNode:
		rec["value"] = typed.Value
		if typed.Checked != nil {
			rec["checked"] = *typed.Checked
		}
	case *CodeNode:
		if typed.Language != "" {
			rec["language"] = typed.Language
		}
	case *LinkNode:
		rec["url"] = typed.URL
		setIfNotEmpty(rec, "title", typed.Title)
		setIfNotEmpty(rec, "target", typed.Target)
		setIfNotEmpty(rec, "rel", typed.Rel)
	case *LineBreakNode, *HorizontalRuleNode:
	case *TextNode:
		mode := typed.Mode
		if mode == "" {
			mode = ModeNormal
		}
		rec["text"] = typed.Text
		rec["format"] = int(typed.Format)
		rec["style"] = typed.Style
		rec["mode"] = string(mode)
		rec["detail"] = typed.Detail
	case *ImageNode:
		rec["src"] = typed.src
		rec["altText"] = typed.altText
		if typed.width > 0 {
			rec["width"] = typed.width
		}
		if typed.height > 0 {
			rec["height"] = typed.height
		}
	case *TableCellNode:
		rec["headerState"] = int(typed.Header)
		rec["colSpan"] = max(typed.ColSpan, 1)
		rec["rowSpan"] = max(typed.RowSpan, 1)
		if typed.Width > 0 {
			rec["width"] = typed.Width
		}
	default:
		panic(fmt.Sprintf("document: export of unknown node %T", n))
	}

	if el, ok := n.(Element); ok {
		children := make([]Record, 0, len(el.Children()))
		for _, child := range el.Children() {
			children = append(children, Export(child))
		}
		rec["children"] = children
	}
	return rec
}

func setIfNotEmpty(rec Record, field, value string) {
	if value != "" {
		rec[field] = value
	}
}

// Import validates rec against the node schema and builds the node tree it
// describes. Imported nodes carry no keys until attached to a document.
func Import(rec Record) (Node, error) {
	if err := nodeSchema.Validate(rec); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	return build(rec)
}

func build(rec Record) (Node, error) {
	var children []Node
	if raw, ok := rec["children"]; ok {
		for _, entry := range recordList(raw) {
			child, err := build(entry)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
	}
	withChildren := elementBase{children: children}

	switch NodeType(stringField(rec, "type")) {
	case TypeRoot:
		return &RootNode{elementBase: withChildren}, nil
	case TypeParagraph:
		return &ParagraphNode{elementBase: withChildren}, nil
	case TypeHeading:
		return &HeadingNode{elementBase: withChildren, Tag: stringField(rec, "tag")}, nil
	case TypeQuote:
		return &QuoteNode{elementBase: withChildren}, nil
	case TypeList:
		return &ListNode{
			elementBase: withChildren,
			ListType:    ListType(stringField(rec, "listType")),
			Start:       intField(rec, "start", 1),
		}, nil
	case TypeListItem:
		item := &ListItemNode{elementBase: withChildren, Value: intField(rec, "value", 1)}
		if checked, ok := rec["checked"].(bool); ok {
			item.Checked = &checked
		}
		return item, nil
	case TypeCode:
		return &CodeNode{elementBase: withChildren, Language: stringField(rec, "language")}, nil
	case TypeLink:
		return &LinkNode{
			elementBase: withChildren,
			URL:         stringField(rec, "url"),
			Title:       stringField(rec, "title"),
			Target:      stringField(rec, "target"),
			Rel:         stringField(rec, "rel"),
		}, nil
	case TypeLineBreak:
		return &LineBreakNode{}, nil
	case TypeHorizontalRule:
		return &HorizontalRuleNode{}, nil
	case TypeText:
		mode := TextMode(stringField(rec, "mode"))
		if mode == "" {
			mode = ModeNormal
		}
		return &TextNode{
			Text:   stringField(rec, "text"),
			Format: TextFormat(intField(rec, "format", 0)),
			Style:  stringField(rec, "style"),
			Mode:   mode,
			Detail: intField(rec, "detail", 0),
		}, nil
	case TypeImage:
		return NewImage(ImagePayload{
			Src:     stringField(rec, "src"),
			AltText: stringField(rec, "altText"),
			Width:   intField(rec, "width", 0),
			Height:  intField(rec, "height", 0),
		}), nil
	case TypeTable:
		return &TableNode{elementBase: withChildren}, nil
	case TypeTableRow:
		return &TableRowNode{elementBase: withChildren}, nil
	case TypeTableCell:
		return &TableCellNode{
			elementBase: withChildren,
			Header:      HeaderState(intField(rec, "headerState", 0)),
			ColSpan:     intField(rec, "colSpan", 1),
			RowSpan:     intField(rec, "rowSpan", 1),
			Width:       intField(rec, "width", 0),
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidRecord, stringField(rec, "type"))
	}
}

func recordList(raw any) []Record {
	switch typed := raw.(type) {
	case []Record:
		return typed
	case []any:
		out := make([]Record, 0, len(typed))
		for _, entry := range typed {
			switch rec := entry.(type) {
			case Record:
				out = append(out, rec)
			case map[string]any:
				out = append(out, Record(rec))
			}
		}
		return out
	case []map[string]any:
		out := make([]Record, 0, len(typed))
		for _, rec := range typed {
			out = append(out, Record(rec))
		}
		return out
	}
	return nil
}

func stringField(rec Record, field string) string {
	value, _ := rec[field].(string)
	return value
}

func intField(rec Record, field string, fallback int) int {
	switch value := rec[field].(type) {
	case int:
		return value
	case int64:
		return int(value)
	case float64:
		return int(value)
	case json.Number:
		if n, err := value.Int64(); err == nil {
			return int(n)
		}
	}
	return fallback
}

type documentEnvelope struct {
	Root Record `json:"root"`
}

// Marshal encodes the document as {"root": <record>}.
func Marshal(d *Document) ([]byte, error) {
	return json.Marshal(documentEnvelope{Root: Export(d.root)})
}

// Unmarshal decodes a document produced by Marshal into a new document with
// fresh keys.
func Unmarshal(data []byte) (*Document, error) {
	var envelope documentEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if envelope.Root == nil {
		return nil, fmt.Errorf("%w: missing root", ErrInvalidRecord)
	}
	node, err := Import(envelope.Root)
	if err != nil {
		return nil, err
	}
	root, ok := node.(*RootNode)
	if !ok {
		return nil, fmt.Errorf("%w: top-level record is %q, want root", ErrInvalidRecord, node.Type())
	}
	return NewWithBlocks(root.children...), nil
}
