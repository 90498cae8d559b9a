// session.go implements Session, the state machine wrapping a codec component.

// Package c2module mediates access to hardware codec components: it drives
// their lifecycle, submits work to them and reports completions back.
package c2module

import (
	"context"
	"fmt"

	"github.com/asticode/go-astikit"
	"github.com/facebookincubator/go-belt"
	"github.com/google/uuid"
	"github.com/xaionaro-go/c2module/component"
	"github.com/xaionaro-go/c2module/helpers/closuresignaler"
	"github.com/xaionaro-go/c2module/logger"
	"github.com/xaionaro-go/c2module/memory"
	"github.com/xaionaro-go/c2module/types"
	"github.com/xaionaro-go/xsync"
	"go.uber.org/atomic"
)

// Session is one live codec instance.
//
// Lifecycle and submission methods are expected to be called from a single
// caller goroutine; completions arrive from hardware-driven goroutines.
type Session struct {
	component    component.Component
	intf         component.Interface
	name         string
	mode         types.Mode
	id           uuid.UUID
	formatMapper memory.FormatMapper

	// state is written only while holding both opLocker and locker.
	state atomic.Uint32

	// locker guards state transitions, lazy pool creation and the notifier.
	// It is never held across a component call that may call the listener
	// back, nor across a notifier call.
	locker      xsync.Mutex
	notifier    Notifier
	callbackCtx context.Context
	graphicMem  *memory.GraphicMemory
	linearMem   *memory.LinearMemory

	// dispatchLocker serializes the notifier calls.
	dispatchLocker xsync.Mutex

	// opLocker serializes caller-side operations, so that the state cannot
	// change while locker is released around a component call.
	opLocker xsync.Mutex

	closer *astikit.Closer
	closed *closuresignaler.ClosureSignaler
}

var _ types.Closer = (*Session)(nil)

// NewSession wraps an already created component. The session takes
// exclusive ownership of the component and releases it on Close.
func NewSession(
	ctx context.Context,
	comp component.Component,
	mode types.Mode,
	opts ...SessionOption,
) *Session {
	s := &Session{
		component: comp,
		intf:      comp.Interface(),
		mode:      mode,
		id:        uuid.New(),
		closer:    astikit.NewCloser(),
		closed:    closuresignaler.New(),
	}
	s.name = s.intf.Name()
	s.state.Store(uint32(StateCreated))

	if v, ok := SessionOptionLatest[SessionOptionFormatMapper](opts); ok {
		s.formatMapper = v.FormatMapper
	}

	// closer runs in reverse order: the component goes first.
	for _, opt := range opts {
		onClose, ok := opt.(SessionOptionOnClose)
		if !ok || onClose.Func == nil {
			continue
		}
		fn := onClose.Func
		s.closer.AddWithError(func() error {
			return fn(s.withFields(context.Background()))
		})
	}
	s.closer.AddWithError(func() error {
		return s.component.Release(s.withFields(context.Background()))
	})

	logger.Debugf(s.withFields(ctx), "created a session")
	return s
}

func (s *Session) withFields(ctx context.Context) context.Context {
	ctx = belt.WithField(ctx, "component", s.name)
	ctx = belt.WithField(ctx, "mode", s.mode.String())
	ctx = belt.WithField(ctx, "session_id", s.id.String())
	return ctx
}

func (s *Session) String() string {
	return fmt.Sprintf("Session(%s:%s)", s.name, s.mode)
}

// Name is the component name, as reported by its interface.
func (s *Session) Name() string {
	return s.name
}

func (s *Session) Mode() types.Mode {
	return s.mode
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

// State may be called from any goroutine.
func (s *Session) State() State {
	return State(s.state.Load())
}

// setState must be called with opLocker held.
func (s *Session) setState(ctx context.Context, state State) {
	s.locker.Do(ctx, func() {
		logger.Debugf(ctx, "state: %s -> %s", State(s.state.Load()), state)
		s.state.Store(uint32(state))
	})
}

func (s *Session) checkClosed() error {
	if s.closed.IsClosed() {
		return ErrClosed{Component: s.name}
	}
	return nil
}

func (s *Session) componentError(op string, err error) error {
	return ErrComponent{Component: s.name, Op: op, Err: err}
}

// Initialize registers the completion listener and moves the session from
// Created to Idle. Video decoders additionally get a dedicated output
// block pool registered with the component.
//
// On failure the session stays Created.
func (s *Session) Initialize(
	ctx context.Context,
	notifier Notifier,
) (_err error) {
	ctx = s.withFields(ctx)
	logger.Debugf(ctx, "Initialize")
	defer func() { logger.Debugf(ctx, "/Initialize: %v", _err) }()
	return xsync.DoA2R1(ctx, &s.opLocker, s.initialize, ctx, notifier)
}

func (s *Session) initialize(
	ctx context.Context,
	notifier Notifier,
) error {
	if err := s.checkClosed(); err != nil {
		return err
	}
	if notifier == nil {
		return ErrInvalidNotifier{Component: s.name}
	}
	if s.State() != StateCreated {
		return ErrAlreadyInitialized{Component: s.name}
	}

	if err := s.component.SetListener(ctx, &listener{session: s}); err != nil {
		return s.componentError("set the events listener", err)
	}

	var outputMem *memory.GraphicMemory
	if s.mode == types.ModeVideoDecode {
		var err error
		outputMem, err = s.registerOutputPool(ctx)
		if err != nil {
			return err
		}
	}

	s.locker.Do(ctx, func() {
		s.notifier = notifier
		s.callbackCtx = detachedContext(ctx)
		if outputMem != nil {
			s.graphicMem = outputMem
		}
		logger.Debugf(ctx, "state: %s -> %s", State(s.state.Load()), StateIdle)
		s.state.Store(uint32(StateIdle))
	})
	return nil
}

// registerOutputPool creates a block pool for output buffer circulation
// and makes the component use it.
func (s *Session) registerOutputPool(
	ctx context.Context,
) (*memory.GraphicMemory, error) {
	pool, err := s.component.CreateBlockPool(ctx, types.AllocatorIDGraphicNonContiguous)
	if err != nil {
		return nil, s.componentError("create the output block pool", err)
	}
	if pool == nil {
		return nil, s.componentError("create the output block pool", types.StatusNoMemory)
	}

	mem := memory.NewGraphicMemory(pool, s.formatMapper)
	param := &types.PortBlockPoolsTuning{
		PoolIDs: []types.BlockPoolLocalID{mem.LocalID()},
	}
	if err := s.config(ctx, param); err != nil {
		return nil, s.componentError("register the output block pool", err)
	}
	logger.Debugf(ctx, "registered output block pool %d", mem.LocalID())
	return mem, nil
}

// Close releases the component. Completions arriving afterwards are dropped.
//
// Close waits for an in-flight notifier call to return, unless it is
// called from within that notifier call with the context it was given.
func (s *Session) Close(ctx context.Context) (_err error) {
	ctx = s.withFields(ctx)
	logger.Debugf(ctx, "Close")
	defer func() { logger.Debugf(ctx, "/Close: %v", _err) }()
	return xsync.DoA1R1(ctx, &s.opLocker, s.close, ctx)
}

func (s *Session) close(ctx context.Context) error {
	if !s.closed.Close(ctx) {
		return nil
	}
	if !s.isDispatching(ctx) {
		s.dispatchLocker.Do(ctx, func() {})
	}
	return s.closer.Close()
}
