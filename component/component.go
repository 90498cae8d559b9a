// Package component declares the capabilities the session manager consumes
// from the hardware codec stack: components, their parameter interfaces,
// block pools and component stores.
package component

import (
	"context"

	"github.com/xaionaro-go/c2module/types"
)

// Component is a hardware-backed codec instance.
//
// Errors returned by implementations should be (or wrap) a types.Status.
type Component interface {
	Interface() Interface

	// SetListener registers the receiver of asynchronous callbacks.
	SetListener(ctx context.Context, listener Listener) error

	Start(ctx context.Context) error
	Stop(ctx context.Context) error

	// Flush synchronously discards the pending work and returns it.
	Flush(ctx context.Context, mode types.FlushMode) ([]*types.Work, error)

	// Drain requests the pending work to be completed; it does not block.
	Drain(ctx context.Context, mode types.DrainMode) error

	// Queue submits work items; it does not block. The items are owned by
	// the component afterwards.
	Queue(ctx context.Context, items []*types.Work) error

	// GetBlockPool returns the default block pool of the given allocator.
	GetBlockPool(ctx context.Context, allocatorID types.AllocatorID) (BlockPool, error)

	// CreateBlockPool creates a new block pool bound to this component.
	CreateBlockPool(ctx context.Context, allocatorID types.AllocatorID) (BlockPool, error)

	Release(ctx context.Context) error
}

// Interface is the configuration side of a component.
type Interface interface {
	Name() string

	// Query returns the current values of the requested parameters.
	Query(ctx context.Context, indices []types.ParamIndex) ([]types.Param, error)

	// Config applies the parameters and returns per-parameter failures.
	Config(ctx context.Context, params []types.Param) ([]types.SettingResult, error)
}

// Listener receives callbacks from a component. They are called from
// hardware-driven goroutines.
type Listener interface {
	OnWorkDone(ctx context.Context, items []*types.Work)
	OnTripped(ctx context.Context, results []types.SettingResult)
	OnError(ctx context.Context, errorCode uint32)
}
