package document

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrNodeNotFound  = errors.New("document: node not found")
	ErrRootImmutable = errors.New("document: root cannot be moved or removed")
	ErrNotElement    = errors.New("document: node cannot hold children")
)

// Selection is a caret or range addressed by node keys. Offsets are
// character offsets inside text nodes and child offsets inside elements.
type Selection struct {
	Anchor       Key `json:"anchor"`
	AnchorOffset int `json:"anchor_offset"`
	Focus        Key `json:"focus"`
	FocusOffset  int `json:"focus_offset"`
}

// Caret returns a collapsed selection at offset within key.
func Caret(key Key, offset int) Selection {
	return Selection{Anchor: key, AnchorOffset: offset, Focus: key, FocusOffset: offset}
}

// IsEmpty reports whether nothing is selected.
func (s Selection) IsEmpty() bool { return s.Anchor == "" }

// IsCollapsed reports whether anchor and focus coincide.
func (s Selection) IsCollapsed() bool {
	return s.Anchor == s.Focus && s.AnchorOffset == s.FocusOffset
}

// Document owns a node tree. Nodes belong to exactly one document; Clone
// copies every node.
type Document struct {
	root      *RootNode
	nextKey   uint64
	selection Selection
}

// New returns an empty document.
func New() *Document {
	d := &Document{root: &RootNode{}}
	d.root.key = d.allocate()
	return d
}

// NewWithBlocks returns a document whose root holds blocks.
func NewWithBlocks(blocks ...Node) *Document {
	d := New()
	d.adopt(blocks...)
	d.root.children = append(d.root.children, blocks...)
	return d
}

func (d *Document) allocate() Key {
	d.nextKey++
	return Key(strconv.FormatUint(d.nextKey, 10))
}

// adopt assigns keys to nodes that have none, or whose key is already taken
// by a different node in this document.
func (d *Document) adopt(nodes ...Node) {
	used := map[Key]Node{}
	d.Walk(func(n Node, _ int) bool {
		used[n.Key()] = n
		return true
	})

	var visit func(Node)
	visit = func(n Node) {
		base := n.base()
		if existing, ok := used[base.key]; base.key == "" || (ok && existing != n) {
			base.key = d.allocate()
		}
		used[base.key] = n
		if el, ok := n.(Element); ok {
			for _, child := range el.Children() {
				visit(child)
			}
		}
	}
	for _, n := range nodes {
		if n != nil {
			visit(n)
		}
	}
}

// Root returns the root node.
func (d *Document) Root() *RootNode { return d.root }

// Blocks returns the top-level nodes.
func (d *Document) Blocks() []Node { return d.root.Children() }

// IsEmpty reports whether the document has no content: no blocks, or a
// single paragraph with no children.
func (d *Document) IsEmpty() bool {
	blocks := d.Blocks()
	if len(blocks) == 0 {
		return true
	}
	if len(blocks) == 1 {
		if p, ok := blocks[0].(*ParagraphNode); ok && len(p.Children()) == 0 {
			return true
		}
	}
	return false
}

// Walk visits nodes depth-first in document order starting at the root.
// Returning false from fn skips the node's children.
func (d *Document) Walk(fn func(n Node, depth int) bool) {
	walk(d.root, 0, fn)
}

func walk(n Node, depth int, fn func(Node, int) bool) {
	if !fn(n, depth) {
		return
	}
	if el, ok := n.(Element); ok {
		for _, child := range el.Children() {
			walk(child, depth+1, fn)
		}
	}
}

// Node looks up a node by key.
func (d *Document) Node(key Key) (Node, bool) {
	path := d.path(key)
	if len(path) == 0 {
		return nil, false
	}
	return path[len(path)-1], true
}

// path returns the nodes from the root down to key, or nil.
func (d *Document) path(key Key) []Node {
	if key == "" {
		return nil
	}
	var search func(n Node, trail []Node) []Node
	search = func(n Node, trail []Node) []Node {
		trail = append(trail, n)
		if n.Key() == key {
			return trail
		}
		if el, ok := n.(Element); ok {
			for _, child := range el.Children() {
				if found := search(child, trail); found != nil {
					return found
				}
			}
		}
		return nil
	}
	return search(d.root, make([]Node, 0, 8))
}

// Parent returns the element holding key.
func (d *Document) Parent(key Key) (Element, bool) {
	path := d.path(key)
	if len(path) < 2 {
		return nil, false
	}
	return path[len(path)-2].(Element), true
}

// FindAncestor returns the nearest node, starting at key itself and walking
// up, for which match returns true.
func (d *Document) FindAncestor(key Key, match func(Node) bool) (Node, bool) {
	path := d.path(key)
	for i := len(path) - 1; i >= 0; i-- {
		if match(path[i]) {
			return path[i], true
		}
	}
	return nil, false
}

// TopLevelOf returns the root child that contains key.
func (d *Document) TopLevelOf(key Key) (Node, bool) {
	path := d.path(key)
	if len(path) < 2 {
		return nil, false
	}
	return path[1], true
}

// Append adds nodes as the last children of parent.
func (d *Document) Append(parent Key, nodes ...Node) error {
	target, ok := d.Node(parent)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, parent)
	}
	el, ok := target.(Element)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotElement, target.Type())
	}
	d.adopt(nodes...)
	el.element().insertAt(len(el.Children()), nodes...)
	return nil
}

// InsertAfter places nodes directly after anchor, in order.
func (d *Document) InsertAfter(anchor Key, nodes ...Node) error {
	return d.insertBeside(anchor, 1, nodes)
}

// InsertBefore places nodes directly before anchor, in order.
func (d *Document) InsertBefore(anchor Key, nodes ...Node) error {
	return d.insertBeside(anchor, 0, nodes)
}

func (d *Document) insertBeside(anchor Key, shift int, nodes []Node) error {
	if anchor == d.root.key {
		return ErrRootImmutable
	}
	parent, ok := d.Parent(anchor)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, anchor)
	}
	d.adopt(nodes...)
	base := parent.element()
	base.insertAt(base.indexOf(anchor)+shift, nodes...)
	return nil
}

// Remove detaches the node with key. A selection inside the removed subtree
// is cleared.
func (d *Document) Remove(key Key) error {
	if key == d.root.key {
		return ErrRootImmutable
	}
	parent, ok := d.Parent(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, key)
	}
	base := parent.element()
	index := base.indexOf(key)
	removed := base.children[index]
	base.removeAt(index)
	if contains(removed, d.selection.Anchor) || contains(removed, d.selection.Focus) {
		d.selection = Selection{}
	}
	return nil
}

// Replace swaps the node with key for replacement, which takes its position.
func (d *Document) Replace(key Key, replacement Node) error {
	if key == d.root.key {
		return ErrRootImmutable
	}
	parent, ok := d.Parent(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, key)
	}
	base := parent.element()
	index := base.indexOf(key)
	old := base.children[index]
	base.removeAt(index)
	d.adopt(replacement)
	base.insertAt(index, replacement)
	if contains(old, d.selection.Anchor) || contains(old, d.selection.Focus) {
		d.selection = Caret(replacement.Key(), 0)
	}
	return nil
}

func contains(n Node, key Key) bool {
	if key == "" {
		return false
	}
	found := false
	walk(n, 0, func(child Node, _ int) bool {
		if child.Key() == key {
			found = true
		}
		return !found
	})
	return found
}

// Selection returns the current selection.
func (d *Document) Selection() Selection { return d.selection }

// SetSelection moves the selection. Both ends must exist.
func (d *Document) SetSelection(sel Selection) error {
	if sel.IsEmpty() {
		d.selection = Selection{}
		return nil
	}
	if sel.Focus == "" {
		sel.Focus, sel.FocusOffset = sel.Anchor, sel.AnchorOffset
	}
	for _, key := range []Key{sel.Anchor, sel.Focus} {
		if _, ok := d.Node(key); !ok {
			return fmt.Errorf("%w: %s", ErrNodeNotFound, key)
		}
	}
	d.selection = sel
	return nil
}

// SelectStart places a caret at the start of key.
func (d *Document) SelectStart(key Key) error {
	return d.SetSelection(Caret(key, 0))
}

// SelectEnd places a caret at the end of key: after the last character of a
// text node or after the last child of an element.
func (d *Document) SelectEnd(key Key) error {
	n, ok := d.Node(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, key)
	}
	offset := 0
	switch typed := n.(type) {
	case *TextNode:
		offset = len([]rune(typed.Text))
	case Element:
		offset = len(typed.Children())
	}
	return d.SetSelection(Caret(key, offset))
}

// Clone deep-copies the document. Keys and the selection are preserved; no
// node is shared with the original.
func (d *Document) Clone() *Document {
	return &Document{
		root:      cloneNode(d.root).(*RootNode),
		nextKey:   d.nextKey,
		selection: d.selection,
	}
}

func cloneChildren(children []Node) []Node {
	if children == nil {
		return nil
	}
	out := make([]Node, len(children))
	for i, child := range children {
		out[i] = cloneNode(child)
	}
	return out
}

func cloneElement(e *elementBase) elementBase {
	return elementBase{nodeBase: e.nodeBase, children: cloneChildren(e.children)}
}

func cloneNode(n Node) Node {
	switch typed := n.(type) {
	case *RootNode:
		return &RootNode{elementBase: cloneElement(&typed.elementBase)}
	case *ParagraphNode:
		return &ParagraphNode{elementBase: cloneElement(&typed.elementBase)}
	case *HeadingNode:
		return &HeadingNode{elementBase: cloneElement(&typed.elementBase), Tag: typed.Tag}
	case *QuoteNode:
		return &QuoteNode{elementBase: cloneElement(&typed.elementBase)}
	case *ListNode:
		return &ListNode{elementBase: cloneElement(&typed.elementBase), ListType: typed.ListType, Start: typed.Start}
	case *ListItemNode:
		out := &ListItemNode{elementBase: cloneElement(&typed.elementBase), Value: typed.Value}
		if typed.Checked != nil {
			checked := *typed.Checked
			out.Checked = &checked
		}
		return out
	case *CodeNode:
		return &CodeNode{elementBase: cloneElement(&typed.elementBase), Language: typed.Language}
	case *LinkNode:
		return &LinkNode{elementBase: cloneElement(&typed.elementBase), URL: typed.URL, Title: typed.Title, Target: typed.Target, Rel: typed.Rel}
	case *LineBreakNode:
		return &LineBreakNode{nodeBase: typed.nodeBase}
	case *HorizontalRuleNode:
		return &HorizontalRuleNode{nodeBase: typed.nodeBase}
	case *TextNode:
		out := *typed
		return &out
	case *ImageNode:
		out := *typed
		return &out
	case *TableNode:
		return &TableNode{elementBase: cloneElement(&typed.elementBase)}
	case *TableRowNode:
		return &TableRowNode{elementBase: cloneElement(&typed.elementBase)}
	case *TableCellNode:
		return &TableCellNode{
			elementBase: cloneElement(&typed.elementBase),
			Header:      typed.Header,
			ColSpan:     typed.ColSpan,
			RowSpan:     typed.RowSpan,
			Width:       typed.Width,
		}
	default:
		panic(fmt.Sprintf("document: clone of unknown node %T", n))
	}
}

// TextContent concatenates the text below n. Line breaks become newlines.
func TextContent(n Node) string {
	var b strings.Builder
	walk(n, 0, func(child Node, _ int) bool {
		switch typed := child.(type) {
		case *TextNode:
			b.WriteString(typed.Text)
		case *LineBreakNode:
			b.WriteByte('\n')
		}
		return true
	})
	return b.String()
}

// PlainText returns the document text with top-level blocks on their own
// lines.
func (d *Document) PlainText() string {
	blocks := d.Blocks()
	parts := make([]string, 0, len(blocks))
	for _, block := range blocks {
		parts = append(parts, TextContent(block))
	}
	return strings.Join(parts, "\n")
}
