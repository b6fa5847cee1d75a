package document

import "strings"

// TextFormat is the inline format bitmask carried by text nodes.
type TextFormat int

const (
	FormatBold TextFormat = 1 << iota
	FormatItalic
	FormatStrikethrough
	FormatUnderline
	FormatCode
	FormatSubscript
	FormatSuperscript
)

var formatNames = []struct {
	flag TextFormat
	name string
}{
	{FormatBold, "bold"},
	{FormatItalic, "italic"},
	{FormatStrikethrough, "strikethrough"},
	{FormatUnderline, "underline"},
	{FormatCode, "code"},
	{FormatSubscript, "subscript"},
	{FormatSuperscript, "superscript"},
}

// Has reports whether every bit in flag is set.
func (f TextFormat) Has(flag TextFormat) bool { return f&flag == flag }

// Toggle flips flag. Subscript and superscript exclude each other.
func (f TextFormat) Toggle(flag TextFormat) TextFormat {
	f ^= flag
	switch {
	case flag == FormatSubscript && f.Has(FormatSubscript):
		f &^= FormatSuperscript
	case flag == FormatSuperscript && f.Has(FormatSuperscript):
		f &^= FormatSubscript
	}
	return f
}

// Names lists the set formats in bit order.
func (f TextFormat) Names() []string {
	var names []string
	for _, entry := range formatNames {
		if f.Has(entry.flag) {
			names = append(names, entry.name)
		}
	}
	return names
}

// TextMode controls how a text run behaves while editing. Only normal runs
// merge with their neighbours.
type TextMode string

const (
	ModeNormal    TextMode = "normal"
	ModeToken     TextMode = "token"
	ModeSegmented TextMode = "segmented"
)

// TextNode is a run of text with inline formatting and an inline style
// string of semicolon-joined declarations (color, background-color,
// font-size).
type TextNode struct {
	nodeBase
	Text   string
	Format TextFormat
	Style  string
	Mode   TextMode
	Detail int
}

// NewText returns a normal-mode text node.
func NewText(text string) *TextNode {
	return &TextNode{Text: text, Mode: ModeNormal}
}

func (*TextNode) Type() NodeType { return TypeText }

// MergeStyle appends extra to the node's style with a "; " separator.
// Duplicate properties are kept; the last one wins when rendered.
func (n *TextNode) MergeStyle(extra string) {
	extra = strings.TrimSpace(extra)
	if extra == "" {
		return
	}
	if n.Style == "" {
		n.Style = extra
		return
	}
	n.Style = n.Style + "; " + extra
}

// IsSimpleText reports whether the node is plain editable text.
func (n *TextNode) IsSimpleText() bool {
	return n.Mode == "" || n.Mode == ModeNormal
}

// CanMergeWith reports whether n and other may be coalesced into one run.
func (n *TextNode) CanMergeWith(other *TextNode) bool {
	return other != nil && n.IsSimpleText() && other.IsSimpleText() &&
		n.Format == other.Format && n.Style == other.Style
}
