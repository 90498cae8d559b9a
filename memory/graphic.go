// graphic.go implements GraphicMemory, a wrapper on top of a graphic block pool.

// Package memory wraps allocator-backed block pools into the buffer sources
// handed out by a codec session.
package memory

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/c2module/component"
	"github.com/xaionaro-go/c2module/logger"
	"github.com/xaionaro-go/c2module/types"
)

// GraphicMemory allocates graphic blocks from a single block pool.
type GraphicMemory struct {
	pool         component.BlockPool
	formatMapper FormatMapper
}

// NewGraphicMemory wraps the pool; a nil mapper means DefaultFormatMapper().
func NewGraphicMemory(
	pool component.BlockPool,
	formatMapper FormatMapper,
) *GraphicMemory {
	if formatMapper == nil {
		formatMapper = DefaultFormatMapper()
	}
	return &GraphicMemory{
		pool:         pool,
		formatMapper: formatMapper,
	}
}

func (m *GraphicMemory) String() string {
	return fmt.Sprintf("GraphicMemory(%d)", m.LocalID())
}

// LocalID is the id used to register the pool with a component.
func (m *GraphicMemory) LocalID() types.BlockPoolLocalID {
	return m.pool.LocalID()
}

func (m *GraphicMemory) Fetch(
	ctx context.Context,
	width, height uint32,
	format types.PixelFormat,
	isHEIF bool,
) (_ret types.GraphicBlock, _err error) {
	logger.Tracef(ctx, "Fetch(ctx, %d, %d, %s, %t)", width, height, format, isHEIF)
	defer func() { logger.Tracef(ctx, "/Fetch(ctx, %d, %d, %s, %t): %v", width, height, format, isHEIF, _err) }()

	if width == 0 || height == 0 {
		return nil, ErrInvalidDimensions{Width: width, Height: height}
	}

	allocFormat, extraUsage, err := m.formatMapper.MapFormat(format, isHEIF)
	if err != nil {
		return nil, err
	}
	usage := types.MemoryUsageCPU()
	usage.Expected |= extraUsage

	block, err := m.pool.FetchGraphicBlock(ctx, width, height, allocFormat, usage)
	if err != nil {
		return nil, ErrFetch{Kind: types.BufferTypeGraphic, Err: err}
	}
	if block == nil {
		return nil, ErrFetch{Kind: types.BufferTypeGraphic, Err: fmt.Errorf("the pool returned no block")}
	}
	return block, nil
}
