// engine.go implements Engine, a ready-made driver and Notifier on top of a Session.

// Package engine drives a single codec session: it assigns frame indexes,
// tracks in-flight work and lets the caller wait for end-of-stream.
package engine

import (
	"context"
	"fmt"

	"github.com/facebookincubator/go-belt"
	"github.com/go-ng/xatomic"
	"github.com/xaionaro-go/c2module"
	"github.com/xaionaro-go/c2module/helpers/closuresignaler"
	"github.com/xaionaro-go/c2module/logger"
	"github.com/xaionaro-go/c2module/types"
	"go.uber.org/atomic"
)

// Frame is a completed output frame.
type Frame struct {
	Buffer     types.Buffer
	FrameIndex uint64
	Timestamp  uint64
	Flags      types.FrameFlags
}

type Params struct {
	// OnFrame is called for every output frame, from the completion goroutine.
	OnFrame func(ctx context.Context, frame Frame)

	// OnEvent is called for every event, from the completion goroutine.
	OnEvent func(ctx context.Context, event types.EventType, payload any)

	// WrapNotifier decorates the notifier given to the session (e.g. to collect metrics).
	WrapNotifier func(c2module.Notifier) c2module.Notifier

	// Settings are applied to the component right after initialization.
	Settings []types.Param
}

type Engine struct {
	Params
	Session *c2module.Session

	nextFrameIndex atomic.Uint64
	pending        atomic.Int64
	framesOut      atomic.Uint64
	drops          atomic.Uint64
	eosCount       atomic.Uint64

	eosChan  *chan struct{}
	idleChan *chan struct{}

	failed    *closuresignaler.ClosureSignaler
	errorCode atomic.Uint32
}

var (
	_ c2module.Notifier = (*Engine)(nil)
	_ types.Closer      = (*Engine)(nil)
)

// New creates the component configured for the codec type and wraps it.
func New(
	ctx context.Context,
	factory *c2module.Factory,
	codecType types.CodecType,
	params Params,
) (*Engine, error) {
	s, err := factory.GetModuleByCodecType(ctx, codecType)
	if err != nil {
		return nil, fmt.Errorf("unable to create the %s component: %w", codecType, err)
	}
	e, err := NewFromSession(ctx, s, params)
	if err != nil {
		if closeErr := s.Close(ctx); closeErr != nil {
			logger.Errorf(ctx, "unable to close the session: %v", closeErr)
		}
		return nil, err
	}
	return e, nil
}

// NewFromSession initializes the session with the engine as its notifier.
// On success the engine takes ownership of the session.
func NewFromSession(
	ctx context.Context,
	s *c2module.Session,
	params Params,
) (*Engine, error) {
	e := &Engine{
		Params:   params,
		Session:  s,
		eosChan:  ptr(make(chan struct{})),
		idleChan: ptr(make(chan struct{})),
		failed:   closuresignaler.New(),
	}

	var notifier c2module.Notifier = e
	if params.WrapNotifier != nil {
		notifier = params.WrapNotifier(notifier)
	}
	if err := s.Initialize(ctx, notifier); err != nil {
		return nil, fmt.Errorf("unable to initialize %s: %w", s, err)
	}
	for _, param := range params.Settings {
		if err := s.SetParam(ctx, param); err != nil {
			return nil, fmt.Errorf("unable to apply %v: %w", param, err)
		}
	}
	return e, nil
}

func ptr[T any](v T) *T {
	return &v
}

func (e *Engine) String() string {
	return fmt.Sprintf("Engine(%s)", e.Session)
}

func (e *Engine) withFields(ctx context.Context) context.Context {
	return belt.WithField(ctx, "engine", e.Session.Name())
}

func (e *Engine) Start(ctx context.Context) error {
	return e.Session.Start(ctx)
}

func (e *Engine) Stop(ctx context.Context) error {
	return e.Session.Stop(ctx)
}

// Flush discards the in-flight work; the flushed items are reported
// (mostly as drops) before Flush returns.
func (e *Engine) Flush(ctx context.Context) error {
	return e.Session.Flush(ctx, types.FlushModeComponent)
}

// Queue submits the buffer with the next frame index and returns that index.
// Inputs flagged with types.FrameFlagEndOfStream are not counted as pending.
func (e *Engine) Queue(
	ctx context.Context,
	buffer types.Buffer,
	timestamp uint64,
	flags types.FrameFlags,
	settings ...types.Param,
) (_ uint64, _err error) {
	if err := e.checkFailed(); err != nil {
		return 0, err
	}
	frameIndex := e.nextFrameIndex.Inc() - 1
	// an end-of-stream input comes back as the end-of-stream event,
	// not as a frame or a drop
	counted := !flags.Has(types.FrameFlagEndOfStream)
	if counted {
		e.pending.Inc()
	}
	if err := e.Session.Queue(ctx, buffer, settings, frameIndex, timestamp, flags); err != nil {
		if counted {
			e.decPending(e.withFields(ctx))
		}
		return 0, err
	}
	return frameIndex, nil
}

// Drain asks the component to process everything queued so far and to
// report the end-of-stream afterwards.
func (e *Engine) Drain(ctx context.Context) error {
	return e.Session.Drain(ctx, types.DrainModeComponentWithEOS)
}

// DrainAndWait drains and waits for the resulting end-of-stream.
func (e *Engine) DrainAndWait(ctx context.Context) (_err error) {
	ctx = e.withFields(ctx)
	logger.Debugf(ctx, "DrainAndWait")
	defer func() { logger.Debugf(ctx, "/DrainAndWait: %v", _err) }()
	ch := e.EOSChan()
	if err := e.Drain(ctx); err != nil {
		return err
	}
	return e.wait(ctx, ch)
}

// EOSChan returns a channel closed on the next end-of-stream.
func (e *Engine) EOSChan() <-chan struct{} {
	return *xatomic.LoadPointer(&e.eosChan)
}

// WaitForEOS waits for the next end-of-stream.
func (e *Engine) WaitForEOS(ctx context.Context) error {
	return e.wait(ctx, e.EOSChan())
}

// WaitIdle waits until every queued frame is either produced or dropped.
func (e *Engine) WaitIdle(ctx context.Context) error {
	for {
		ch := *xatomic.LoadPointer(&e.idleChan)
		if e.pending.Load() == 0 {
			return nil
		}
		if err := e.wait(ctx, ch); err != nil {
			return err
		}
	}
}

func (e *Engine) wait(ctx context.Context, ch <-chan struct{}) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-e.failed.CloseChan():
		return e.checkFailed()
	case <-ch:
		return nil
	}
}

func (e *Engine) checkFailed() error {
	if !e.failed.IsClosed() {
		return nil
	}
	return ErrComponentFailure{Code: e.errorCode.Load()}
}

// Pending is the amount of queued frames not yet reported back.
func (e *Engine) Pending() int64 {
	return e.pending.Load()
}

func (e *Engine) Stats() Stats {
	return Stats{
		Queued:      e.nextFrameIndex.Load(),
		Frames:      e.framesOut.Load(),
		Drops:       e.drops.Load(),
		EndOfStream: e.eosCount.Load(),
		Pending:     e.pending.Load(),
	}
}

// Close stops the session if it is running and releases it.
//
// Close may be called from OnEvent or OnFrame with the context they got.
func (e *Engine) Close(ctx context.Context) (_err error) {
	ctx = e.withFields(ctx)
	logger.Debugf(ctx, "Close")
	defer func() { logger.Debugf(ctx, "/Close: %v", _err) }()
	if e.Session.State() == c2module.StateRunning {
		if err := e.Session.Stop(ctx); err != nil {
			logger.Warnf(ctx, "unable to stop the session: %v", err)
		}
	}
	return e.Session.Close(ctx)
}

func (e *Engine) decPending(ctx context.Context) {
	for {
		cur := e.pending.Load()
		if cur <= 0 {
			logger.Debugf(ctx, "got a completion with nothing pending")
			return
		}
		if !e.pending.CompareAndSwap(cur, cur-1) {
			continue
		}
		if cur == 1 {
			close(*xatomic.SwapPointer(&e.idleChan, ptr(make(chan struct{}))))
		}
		return
	}
}

// EventHandler implements c2module.Notifier.
func (e *Engine) EventHandler(
	ctx context.Context,
	event types.EventType,
	payload any,
) {
	logger.Tracef(ctx, "EventHandler(ctx, %s, %v)", event, payload)
	switch event {
	case types.EventTypeEndOfStream:
		e.eosCount.Inc()
		close(*xatomic.SwapPointer(&e.eosChan, ptr(make(chan struct{}))))
	case types.EventTypeDrop:
		e.drops.Inc()
		e.decPending(ctx)
	case types.EventTypeError:
		code, _ := payload.(uint32)
		logger.Errorf(ctx, "the component failed with code %d", code)
		e.errorCode.Store(code)
		e.failed.Close(ctx)
	}
	if e.OnEvent != nil {
		e.OnEvent(ctx, event, payload)
	}
}

// FrameAvailable implements c2module.Notifier.
func (e *Engine) FrameAvailable(
	ctx context.Context,
	buffer types.Buffer,
	frameIndex uint64,
	timestamp uint64,
	flags types.FrameFlags,
) {
	logger.Tracef(ctx, "FrameAvailable(ctx, %v, %d, %d, %s)", buffer, frameIndex, timestamp, flags)
	e.framesOut.Inc()
	if e.OnFrame != nil {
		e.OnFrame(ctx, Frame{
			Buffer:     buffer,
			FrameIndex: frameIndex,
			Timestamp:  timestamp,
			Flags:      flags,
		})
	}
	// codec config output does not correspond to a queued frame
	if !flags.Has(types.FrameFlagCodecConfig) {
		e.decPending(ctx)
	}
}
