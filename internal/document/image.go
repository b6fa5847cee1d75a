package document

// ImageMaxWidth is the inline style every exported image carries.
const ImageMaxWidth = "max-width: 100%"

// ImageNode is an embedded image. Its fields are fixed at construction; an
// edit replaces the node through Document.Replace.
type ImageNode struct {
	nodeBase
	src     string
	altText string
	width   int
	height  int
}

// ImagePayload is the construction shape of an image. Zero width or height
// means the dimension is unset.
type ImagePayload struct {
	Src     string
	AltText string
	Width   int
	Height  int
}

// NewImage builds an image node from payload.
func NewImage(payload ImagePayload) *ImageNode {
	return &ImageNode{
		src:     payload.Src,
		altText: payload.AltText,
		width:   max(payload.Width, 0),
		height:  max(payload.Height, 0),
	}
}

func (*ImageNode) Type() NodeType { return TypeImage }

func (n *ImageNode) Src() string     { return n.src }
func (n *ImageNode) AltText() string { return n.altText }
func (n *ImageNode) Width() int      { return n.width }
func (n *ImageNode) Height() int     { return n.height }

// Payload returns the construction shape of the node.
func (n *ImageNode) Payload() ImagePayload {
	return ImagePayload{Src: n.src, AltText: n.altText, Width: n.width, Height: n.height}
}
