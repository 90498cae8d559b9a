package memory

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/xaionaro-go/c2module/component"
	"github.com/xaionaro-go/c2module/logger"
	"github.com/xaionaro-go/c2module/types"
)

// LinearAlignment is the allocation granularity of linear blocks.
const LinearAlignment = 4096

// LinearMemory allocates linear blocks from a single block pool.
type LinearMemory struct {
	pool component.BlockPool
}

func NewLinearMemory(pool component.BlockPool) *LinearMemory {
	return &LinearMemory{pool: pool}
}

func (m *LinearMemory) String() string {
	return fmt.Sprintf("LinearMemory(%d)", m.LocalID())
}

func (m *LinearMemory) LocalID() types.BlockPoolLocalID {
	return m.pool.LocalID()
}

func alignUp(v, to uint32) uint32 {
	return (v + to - 1) &^ (to - 1)
}

func (m *LinearMemory) Fetch(
	ctx context.Context,
	size uint32,
) (_ret types.LinearBlock, _err error) {
	if size == 0 {
		return nil, ErrInvalidSize{}
	}

	capacity := alignUp(size, LinearAlignment)
	if capacity < size {
		return nil, fmt.Errorf("size %d overflows when aligned to %d", size, LinearAlignment)
	}
	logger.Tracef(ctx, "fetching a linear block of %s (requested %d bytes)", humanize.IBytes(uint64(capacity)), size)

	block, err := m.pool.FetchLinearBlock(ctx, capacity, types.MemoryUsageCPU())
	if err != nil {
		return nil, ErrFetch{Kind: types.BufferTypeLinear, Err: err}
	}
	if block == nil {
		return nil, ErrFetch{Kind: types.BufferTypeLinear, Err: fmt.Errorf("the pool returned no block")}
	}
	return block, nil
}
