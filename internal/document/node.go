// Package document is the rich-text document model: a closed set of node
// types arranged in a tree under a root, with document-unique keys, a
// selection, and record serialization for persistence.
package document

// Key identifies a node within its document. Keys are allocated by the
// document when a node is attached and survive Clone.
type Key string

// NodeType is the serialized type discriminator.
type NodeType string

const (
	TypeRoot           NodeType = "root"
	TypeParagraph      NodeType = "paragraph"
	TypeHeading        NodeType = "heading"
	TypeQuote          NodeType = "quote"
	TypeList           NodeType = "list"
	TypeListItem       NodeType = "listitem"
	TypeCode           NodeType = "code"
	TypeLink           NodeType = "link"
	TypeLineBreak      NodeType = "linebreak"
	TypeHorizontalRule NodeType = "horizontalrule"
	TypeText           NodeType = "extended-text"
	TypeImage          NodeType = "image"
	TypeTable          NodeType = "table"
	TypeTableRow       NodeType = "tablerow"
	TypeTableCell      NodeType = "tablecell"
)

// Node is implemented only by the node types in this package.
type Node interface {
	Key() Key
	Type() NodeType
	Version() int
	base() *nodeBase
}

// Element is a node that owns an ordered list of children.
type Element interface {
	Node
	Children() []Node
	element() *elementBase
}

type nodeBase struct {
	key Key
}

func (b *nodeBase) Key() Key        { return b.key }
func (b *nodeBase) Version() int    { return 1 }
func (b *nodeBase) base() *nodeBase { return b }

type elementBase struct {
	nodeBase
	children []Node
}

// Children returns the node's children. The slice must not be modified;
// mutate through Document.
func (e *elementBase) Children() []Node       { return e.children }
func (e *elementBase) element() *elementBase { return e }

func (e *elementBase) indexOf(key Key) int {
	for i, child := range e.children {
		if child.Key() == key {
			return i
		}
	}
	return -1
}

func (e *elementBase) insertAt(index int, nodes ...Node) {
	if index < 0 {
		index = 0
	}
	if index > len(e.children) {
		index = len(e.children)
	}
	children := make([]Node, 0, len(e.children)+len(nodes))
	children = append(children, e.children[:index]...)
	children = append(children, nodes...)
	children = append(children, e.children[index:]...)
	e.children = children
}

func (e *elementBase) removeAt(index int) {
	e.children = append(e.children[:index:index], e.children[index+1:]...)
}

// SameNode reports whether a and b are the same node. Identity is by key;
// two nodes with equal content are different nodes.
func SameNode(a, b Node) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Key() != "" && a.Key() == b.Key()
}

// RootNode is the document root. Its children are the top-level blocks.
type RootNode struct {
	elementBase
}

func (*RootNode) Type() NodeType { return TypeRoot }

// ParagraphNode is a block of inline content.
type ParagraphNode struct {
	elementBase
}

// NewParagraph returns a paragraph holding children.
func NewParagraph(children ...Node) *ParagraphNode {
	return &ParagraphNode{elementBase: elementBase{children: children}}
}

func (*ParagraphNode) Type() NodeType { return TypeParagraph }

// HeadingNode is an h1-h6 block. Tag holds the element name.
type HeadingNode struct {
	elementBase
	Tag string
}

// NewHeading returns a heading; tag is one of h1..h6.
func NewHeading(tag string, children ...Node) *HeadingNode {
	return &HeadingNode{elementBase: elementBase{children: children}, Tag: tag}
}

func (*HeadingNode) Type() NodeType { return TypeHeading }

// QuoteNode is a blockquote.
type QuoteNode struct {
	elementBase
}

func NewQuote(children ...Node) *QuoteNode {
	return &QuoteNode{elementBase: elementBase{children: children}}
}

func (*QuoteNode) Type() NodeType { return TypeQuote }

// ListType distinguishes bullet, numbered and check lists.
type ListType string

const (
	ListBullet ListType = "bullet"
	ListNumber ListType = "number"
	ListCheck  ListType = "check"
)

// ListNode is an ordered or unordered list of ListItemNode children.
type ListNode struct {
	elementBase
	ListType ListType
	Start    int
}

func NewList(listType ListType, items ...Node) *ListNode {
	return &ListNode{elementBase: elementBase{children: items}, ListType: listType, Start: 1}
}

func (*ListNode) Type() NodeType { return TypeList }

// ListItemNode is a list entry. Checked is set only for check list items.
type ListItemNode struct {
	elementBase
	Value   int
	Checked *bool
}

func NewListItem(children ...Node) *ListItemNode {
	return &ListItemNode{elementBase: elementBase{children: children}, Value: 1}
}

func (*ListItemNode) Type() NodeType { return TypeListItem }

// CodeNode is a code block. Its children are text and line breaks.
type CodeNode struct {
	elementBase
	Language string
}

func NewCode(language string, children ...Node) *CodeNode {
	return &CodeNode{elementBase: elementBase{children: children}, Language: language}
}

func (*CodeNode) Type() NodeType { return TypeCode }

// LinkNode is an inline hyperlink wrapping text.
type LinkNode struct {
	elementBase
	URL    string
	Title  string
	Target string
	Rel    string
}

func NewLink(url string, children ...Node) *LinkNode {
	return &LinkNode{elementBase: elementBase{children: children}, URL: url}
}

func (*LinkNode) Type() NodeType { return TypeLink }

// LineBreakNode is a hard line break inside a block.
type LineBreakNode struct {
	nodeBase
}

func NewLineBreak() *LineBreakNode { return &LineBreakNode{} }

func (*LineBreakNode) Type() NodeType { return TypeLineBreak }

// HorizontalRuleNode is a thematic break.
type HorizontalRuleNode struct {
	nodeBase
}

func NewHorizontalRule() *HorizontalRuleNode { return &HorizontalRuleNode{} }

func (*HorizontalRuleNode) Type() NodeType { return TypeHorizontalRule }

// AppendChildren adds children to a detached element while it is being
// built. Attached elements are changed through Document so keys stay unique.
func AppendChildren(parent Element, children ...Node) {
	base := parent.element()
	base.insertAt(len(base.children), children...)
}
