package c2module

import (
	"context"

	"github.com/xaionaro-go/c2module/logger"
	"github.com/xaionaro-go/c2module/memory"
	"github.com/xaionaro-go/c2module/types"
	"github.com/xaionaro-go/xsync"
)

// GetGraphicMemory returns the session's graphic memory, creating it on the
// first call. Every successful call returns the same instance.
func (s *Session) GetGraphicMemory(ctx context.Context) (_ret *memory.GraphicMemory, _err error) {
	ctx = s.withFields(ctx)
	logger.Tracef(ctx, "GetGraphicMemory")
	defer func() { logger.Tracef(ctx, "/GetGraphicMemory: %v %v", _ret, _err) }()
	if err := s.checkClosed(); err != nil {
		return nil, err
	}
	return xsync.DoA1R2(ctx, &s.locker, s.getGraphicMemoryLocked, ctx)
}

func (s *Session) getGraphicMemoryLocked(ctx context.Context) (*memory.GraphicMemory, error) {
	if s.graphicMem != nil {
		return s.graphicMem, nil
	}

	pool, err := s.component.GetBlockPool(ctx, types.AllocatorIDDefaultGraphic)
	if err != nil {
		return nil, s.componentError("get the graphic block pool", err)
	}
	if pool == nil {
		return nil, s.componentError("get the graphic block pool", types.StatusNotFound)
	}

	s.graphicMem = memory.NewGraphicMemory(pool, s.formatMapper)
	logger.Debugf(ctx, "created graphic memory with pool %d", s.graphicMem.LocalID())
	return s.graphicMem, nil
}

// GetLinearMemory returns the session's linear memory, creating it on the
// first call. Every successful call returns the same instance.
func (s *Session) GetLinearMemory(ctx context.Context) (_ret *memory.LinearMemory, _err error) {
	ctx = s.withFields(ctx)
	logger.Tracef(ctx, "GetLinearMemory")
	defer func() { logger.Tracef(ctx, "/GetLinearMemory: %v %v", _ret, _err) }()
	if err := s.checkClosed(); err != nil {
		return nil, err
	}
	return xsync.DoA1R2(ctx, &s.locker, s.getLinearMemoryLocked, ctx)
}

func (s *Session) getLinearMemoryLocked(ctx context.Context) (*memory.LinearMemory, error) {
	if s.linearMem != nil {
		return s.linearMem, nil
	}

	pool, err := s.component.GetBlockPool(ctx, types.AllocatorIDDefaultLinear)
	if err != nil {
		return nil, s.componentError("get the linear block pool", err)
	}
	if pool == nil {
		return nil, s.componentError("get the linear block pool", types.StatusNotFound)
	}

	s.linearMem = memory.NewLinearMemory(pool)
	logger.Debugf(ctx, "created linear memory with pool %d", s.linearMem.LocalID())
	return s.linearMem, nil
}
