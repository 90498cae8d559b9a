package fakecomponent

import (
	"context"

	"github.com/xaionaro-go/c2module/component"
	"github.com/xaionaro-go/c2module/types"
	"github.com/xaionaro-go/observability"
	"github.com/xaionaro-go/xsync"
	"go.uber.org/atomic"
)

// Interface is the parameter side of Component.
type Interface struct {
	ComponentName string

	QueryFn    func(ctx context.Context, indices []types.ParamIndex) ([]types.Param, error)
	QueryCount atomic.Int64

	ConfigFn    func(ctx context.Context, params []types.Param) ([]types.SettingResult, error)
	ConfigCount atomic.Int64

	locker  xsync.Mutex
	Applied []types.Param
}

var _ component.Interface = (*Interface)(nil)

func (i *Interface) Name() string {
	return i.ComponentName
}

func (i *Interface) Query(
	ctx context.Context,
	indices []types.ParamIndex,
) ([]types.Param, error) {
	i.QueryCount.Inc()
	if i.QueryFn != nil {
		return i.QueryFn(ctx, indices)
	}
	return xsync.DoR1(ctx, &i.locker, func() []types.Param {
		var result []types.Param
		for _, idx := range indices {
			for _, p := range i.Applied {
				if p.Index() == idx {
					result = append(result, p)
				}
			}
		}
		return result
	}), nil
}

func (i *Interface) Config(
	ctx context.Context,
	params []types.Param,
) ([]types.SettingResult, error) {
	i.ConfigCount.Inc()
	if i.ConfigFn != nil {
		return i.ConfigFn(ctx, params)
	}
	i.locker.Do(ctx, func() {
		i.Applied = append(i.Applied, params...)
	})
	return nil, nil
}

// Component is a scriptable hardware component. Every hook is optional;
// a missing hook means success.
type Component struct {
	Intf Interface

	SetListenerFn    func(ctx context.Context, l component.Listener) error
	SetListenerCount atomic.Int64

	StartFn    func(ctx context.Context) error
	StartCount atomic.Int64

	StopFn    func(ctx context.Context) error
	StopCount atomic.Int64

	FlushFn    func(ctx context.Context, mode types.FlushMode) ([]*types.Work, error)
	FlushCount atomic.Int64

	DrainFn    func(ctx context.Context, mode types.DrainMode) error
	DrainCount atomic.Int64

	QueueFn    func(ctx context.Context, items []*types.Work) error
	QueueCount atomic.Int64

	GetBlockPoolFn    func(ctx context.Context, id types.AllocatorID) (component.BlockPool, error)
	GetBlockPoolCount atomic.Int64

	CreateBlockPoolFn    func(ctx context.Context, id types.AllocatorID) (component.BlockPool, error)
	CreateBlockPoolCount atomic.Int64

	ReleaseFn    func(ctx context.Context) error
	ReleaseCount atomic.Int64

	locker     xsync.Mutex
	listener   component.Listener
	queued     []Queued
	nextPoolID types.BlockPoolLocalID
}

// Queued is a snapshot of a submitted work item taken at Queue time.
type Queued struct {
	Work       *types.Work
	FrameIndex uint64
	Timestamp  uint64
	Flags      types.FrameFlags
	Buffers    []types.Buffer
	Tunings    []types.Param
}

var _ component.Component = (*Component)(nil)

func New(name string) *Component {
	return &Component{
		Intf:       Interface{ComponentName: name},
		nextPoolID: 0x100,
	}
}

func (c *Component) Interface() component.Interface {
	return &c.Intf
}

func (c *Component) SetListener(ctx context.Context, l component.Listener) error {
	c.SetListenerCount.Inc()
	if c.SetListenerFn != nil {
		if err := c.SetListenerFn(ctx, l); err != nil {
			return err
		}
	}
	c.locker.Do(ctx, func() {
		c.listener = l
	})
	return nil
}

func (c *Component) Listener() component.Listener {
	return xsync.DoR1(context.Background(), &c.locker, func() component.Listener {
		return c.listener
	})
}

func (c *Component) Start(ctx context.Context) error {
	c.StartCount.Inc()
	if c.StartFn != nil {
		return c.StartFn(ctx)
	}
	return nil
}

func (c *Component) Stop(ctx context.Context) error {
	c.StopCount.Inc()
	if c.StopFn != nil {
		return c.StopFn(ctx)
	}
	return nil
}

func (c *Component) Flush(ctx context.Context, mode types.FlushMode) ([]*types.Work, error) {
	c.FlushCount.Inc()
	if c.FlushFn != nil {
		return c.FlushFn(ctx, mode)
	}
	return nil, nil
}

func (c *Component) Drain(ctx context.Context, mode types.DrainMode) error {
	c.DrainCount.Inc()
	if c.DrainFn != nil {
		return c.DrainFn(ctx, mode)
	}
	return nil
}

func (c *Component) Queue(ctx context.Context, items []*types.Work) error {
	c.QueueCount.Inc()
	if c.QueueFn != nil {
		if err := c.QueueFn(ctx, items); err != nil {
			return err
		}
	}
	c.locker.Do(ctx, func() {
		for _, w := range items {
			q := Queued{
				Work:       w,
				FrameIndex: w.Input.Ordinal.FrameIndex,
				Timestamp:  w.Input.Ordinal.Timestamp,
				Flags:      w.Input.Flags,
				Buffers:    append([]types.Buffer(nil), w.Input.Buffers...),
			}
			for _, wl := range w.Worklets {
				q.Tunings = append(q.Tunings, wl.Tunings...)
			}
			c.queued = append(c.queued, q)
		}
	})
	return nil
}

// Queued returns the snapshots of every item submitted so far.
func (c *Component) Queued() []Queued {
	return xsync.DoR1(context.Background(), &c.locker, func() []Queued {
		return append([]Queued(nil), c.queued...)
	})
}

func (c *Component) newPool(ctx context.Context, id types.AllocatorID) *BlockPool {
	return xsync.DoR1(ctx, &c.locker, func() *BlockPool {
		c.nextPoolID++
		return &BlockPool{ID: c.nextPoolID, Allocator: id}
	})
}

func (c *Component) GetBlockPool(ctx context.Context, id types.AllocatorID) (component.BlockPool, error) {
	c.GetBlockPoolCount.Inc()
	if c.GetBlockPoolFn != nil {
		return c.GetBlockPoolFn(ctx, id)
	}
	return c.newPool(ctx, id), nil
}

func (c *Component) CreateBlockPool(ctx context.Context, id types.AllocatorID) (component.BlockPool, error) {
	c.CreateBlockPoolCount.Inc()
	if c.CreateBlockPoolFn != nil {
		return c.CreateBlockPoolFn(ctx, id)
	}
	return c.newPool(ctx, id), nil
}

func (c *Component) Release(ctx context.Context) error {
	c.ReleaseCount.Inc()
	if c.ReleaseFn != nil {
		return c.ReleaseFn(ctx)
	}
	return nil
}

// Complete delivers the items to the registered listener from a separate
// goroutine, the way a hardware callback thread would. The returned channel
// is closed once the listener returned.
func (c *Component) Complete(ctx context.Context, items ...*types.Work) <-chan struct{} {
	return c.async(ctx, func(ctx context.Context, l component.Listener) {
		l.OnWorkDone(ctx, items)
	})
}

// Trip delivers a tripped notification from a separate goroutine.
func (c *Component) Trip(ctx context.Context, results ...types.SettingResult) <-chan struct{} {
	return c.async(ctx, func(ctx context.Context, l component.Listener) {
		l.OnTripped(ctx, results)
	})
}

// Fail delivers an error notification from a separate goroutine.
func (c *Component) Fail(ctx context.Context, errorCode uint32) <-chan struct{} {
	return c.async(ctx, func(ctx context.Context, l component.Listener) {
		l.OnError(ctx, errorCode)
	})
}

func (c *Component) async(
	ctx context.Context,
	fn func(ctx context.Context, l component.Listener),
) <-chan struct{} {
	done := make(chan struct{})
	l := c.Listener()
	observability.Go(ctx, func(ctx context.Context) {
		defer close(done)
		if l == nil {
			return
		}
		fn(ctx, l)
	})
	return done
}
