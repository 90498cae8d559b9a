package types

import (
	"context"
	"fmt"
)

// AllocatorID selects an allocator of the platform allocator store.
type AllocatorID uint32

const (
	AllocatorIDDefaultLinear AllocatorID = 0x10 + iota
	AllocatorIDDefaultBuffer
	AllocatorIDDefaultGraphic
	AllocatorIDGraphicNonContiguous AllocatorID = 0x10 + 0x100
)

func (id AllocatorID) String() string {
	switch id {
	case AllocatorIDDefaultLinear:
		return "default_linear"
	case AllocatorIDDefaultBuffer:
		return "default_buffer"
	case AllocatorIDDefaultGraphic:
		return "default_graphic"
	case AllocatorIDGraphicNonContiguous:
		return "graphic_non_contiguous"
	default:
		return fmt.Sprintf("<allocator_0x%X>", uint32(id))
	}
}

// BlockPoolLocalID identifies a block pool within a component.
type BlockPoolLocalID uint64

// MemoryUsage is the requested usage of a memory block.
type MemoryUsage struct {
	Expected uint64
}

const (
	MemoryUsageCPURead  uint64 = 1 << 0
	MemoryUsageCPUWrite uint64 = 1 << 1
)

// MemoryUsageCPU is the usage every fetch requests at minimum.
func MemoryUsageCPU() MemoryUsage {
	return MemoryUsage{Expected: MemoryUsageCPURead | MemoryUsageCPUWrite}
}

func (u MemoryUsage) String() string {
	return fmt.Sprintf("0x%X", u.Expected)
}

// LinearBlock is a one-dimensional allocator-owned memory block.
type LinearBlock interface {
	Capacity() uint32
	Map(ctx context.Context) ([]byte, error)
}

// GraphicView is a CPU mapping of a graphic block.
type GraphicView struct {
	Planes  [][]byte
	Strides []uint32
}

// GraphicBlock is a two-dimensional allocator-owned memory block.
type GraphicBlock interface {
	Width() uint32
	Height() uint32
	Format() uint32
	Map(ctx context.Context) (*GraphicView, error)
}
