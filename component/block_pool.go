package component

import (
	"context"

	"github.com/xaionaro-go/c2module/types"
)

// BlockPool is an allocator-backed source of memory blocks.
type BlockPool interface {
	LocalID() types.BlockPoolLocalID
	AllocatorID() types.AllocatorID

	FetchLinearBlock(
		ctx context.Context,
		capacity uint32,
		usage types.MemoryUsage,
	) (types.LinearBlock, error)

	FetchGraphicBlock(
		ctx context.Context,
		width, height uint32,
		format uint32,
		usage types.MemoryUsage,
	) (types.GraphicBlock, error)
}
