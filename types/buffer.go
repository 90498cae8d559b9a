package types

import (
	"fmt"
)

type BufferType int

const (
	UndefinedBufferType BufferType = iota
	BufferTypeLinear
	BufferTypeGraphic
)

func (t BufferType) String() string {
	switch t {
	case UndefinedBufferType:
		return "<undefined>"
	case BufferTypeLinear:
		return "linear"
	case BufferTypeGraphic:
		return "graphic"
	default:
		return fmt.Sprintf("<unexpected_%d>", int(t))
	}
}

// Buffer is an input or output payload attached to FrameData.
type Buffer interface {
	Type() BufferType
}

// LinearBuffer is a range of a LinearBlock.
type LinearBuffer struct {
	Block  LinearBlock
	Offset uint32
	Size   uint32
}

var _ Buffer = (*LinearBuffer)(nil)

func NewLinearBuffer(block LinearBlock, offset, size uint32) *LinearBuffer {
	return &LinearBuffer{Block: block, Offset: offset, Size: size}
}

func (*LinearBuffer) Type() BufferType {
	return BufferTypeLinear
}

func (b *LinearBuffer) String() string {
	return fmt.Sprintf("LinearBuffer(%d@%d)", b.Size, b.Offset)
}

// Rect is a crop rectangle inside a graphic block.
type Rect struct {
	Left, Top     uint32
	Width, Height uint32
}

// GraphicBuffer is a cropped view of a GraphicBlock.
type GraphicBuffer struct {
	Block GraphicBlock
	Crop  Rect
}

var _ Buffer = (*GraphicBuffer)(nil)

// NewGraphicBuffer shares the whole block.
func NewGraphicBuffer(block GraphicBlock) *GraphicBuffer {
	return &GraphicBuffer{
		Block: block,
		Crop:  Rect{Width: block.Width(), Height: block.Height()},
	}
}

func (*GraphicBuffer) Type() BufferType {
	return BufferTypeGraphic
}

func (b *GraphicBuffer) String() string {
	return fmt.Sprintf("GraphicBuffer(%dx%d)", b.Crop.Width, b.Crop.Height)
}
