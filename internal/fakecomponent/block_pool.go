// Package fakecomponent provides in-memory implementations of the hardware
// codec capabilities for tests.
package fakecomponent

import (
	"context"

	"github.com/xaionaro-go/c2module/component"
	"github.com/xaionaro-go/c2module/types"
	"go.uber.org/atomic"
)

type LinearBlock struct {
	Data []byte
}

var _ types.LinearBlock = (*LinearBlock)(nil)

func (b *LinearBlock) Capacity() uint32 {
	return uint32(len(b.Data))
}

func (b *LinearBlock) Map(ctx context.Context) ([]byte, error) {
	return b.Data, nil
}

type GraphicBlock struct {
	W, H    uint32
	Fmt     uint32
	Usage   types.MemoryUsage
	Planes  [][]byte
	Strides []uint32
}

var _ types.GraphicBlock = (*GraphicBlock)(nil)

func (b *GraphicBlock) Width() uint32  { return b.W }
func (b *GraphicBlock) Height() uint32 { return b.H }
func (b *GraphicBlock) Format() uint32 { return b.Fmt }

func (b *GraphicBlock) Map(ctx context.Context) (*types.GraphicView, error) {
	if b.Planes == nil {
		b.Planes = [][]byte{
			make([]byte, b.W*b.H),
			make([]byte, b.W*b.H/2),
		}
		b.Strides = []uint32{b.W, b.W}
	}
	return &types.GraphicView{Planes: b.Planes, Strides: b.Strides}, nil
}

type BlockPool struct {
	ID        types.BlockPoolLocalID
	Allocator types.AllocatorID

	FetchLinearBlockFn func(ctx context.Context, capacity uint32, usage types.MemoryUsage) (types.LinearBlock, error)
	FetchLinearCount   atomic.Int64

	FetchGraphicBlockFn func(ctx context.Context, width, height, format uint32, usage types.MemoryUsage) (types.GraphicBlock, error)
	FetchGraphicCount   atomic.Int64
}

var _ component.BlockPool = (*BlockPool)(nil)

func (p *BlockPool) LocalID() types.BlockPoolLocalID {
	return p.ID
}

func (p *BlockPool) AllocatorID() types.AllocatorID {
	return p.Allocator
}

func (p *BlockPool) FetchLinearBlock(
	ctx context.Context,
	capacity uint32,
	usage types.MemoryUsage,
) (types.LinearBlock, error) {
	p.FetchLinearCount.Inc()
	if p.FetchLinearBlockFn != nil {
		return p.FetchLinearBlockFn(ctx, capacity, usage)
	}
	return &LinearBlock{Data: make([]byte, capacity)}, nil
}

func (p *BlockPool) FetchGraphicBlock(
	ctx context.Context,
	width, height uint32,
	format uint32,
	usage types.MemoryUsage,
) (types.GraphicBlock, error) {
	p.FetchGraphicCount.Inc()
	if p.FetchGraphicBlockFn != nil {
		return p.FetchGraphicBlockFn(ctx, width, height, format, usage)
	}
	return &GraphicBlock{W: width, H: height, Fmt: format, Usage: usage}, nil
}
